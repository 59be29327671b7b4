package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/KaramelBytes/dimred-cli/internal/reduce"
	"github.com/KaramelBytes/dimred-cli/internal/report"
)

var (
	tsneOpts       embedOpts
	tsnePerplexity float64
	tsneLearnRate  float64
	tsneIters      int
)

var tsneCmd = &cobra.Command{
	Use:   "tsne",
	Short: "t-SNE embedding of a numeric table",
	Long: `Runs t-distributed stochastic neighbor embedding on the feature rows.
Exact duplicate rows are dropped first because the neighborhood computation
degenerates on them. Axis units in the result carry no meaning; the layout
preserves local neighborhoods only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := tsneConfigOptions(effectiveConfig())
		if cmd.Flags().Changed("perplexity") {
			opt.Perplexity = tsnePerplexity
		}
		if cmd.Flags().Changed("learning-rate") {
			opt.LearningRate = tsneLearnRate
		}
		if cmd.Flags().Changed("iterations") {
			opt.Iterations = tsneIters
		}
		return runTSNE(&tsneOpts, opt)
	},
}

// tsneConfigOptions seeds the embedding options from the effective config.
func tsneConfigOptions(c *cfgpkg.Global) reduce.TSNEOptions {
	opt := reduce.DefaultTSNEOptions()
	opt.Seed = c.Seed
	opt.Perplexity = c.TSNEPerplexity
	opt.LearningRate = c.TSNELearnRate
	opt.Iterations = c.TSNEIterations
	return opt
}

func runTSNE(o *embedOpts, opt reduce.TSNEOptions) error {
	in, err := prepareEmbed(o, true)
	if err != nil {
		return err
	}
	k, err := resolveComponents(o, effectiveConfig())
	if err != nil {
		return err
	}
	opt.Components = k

	if in.dropped > 0 {
		fmt.Printf("⚠ Dropped %d duplicate row(s) before embedding\n", in.dropped)
	}
	log := logger()
	opt.Progress = func(iter int, divergence float64) {
		log.Debugw("tsne step", "iteration", iter, "divergence", divergence)
	}
	start := time.Now()
	res, err := reduce.TSNE(in.matrix, opt)
	if err != nil {
		return err
	}
	log.Debugw("tsne done", "rows", res.Len(), "divergence", res.KLDivergence, "elapsed", time.Since(start))

	params := []report.Param{
		{Name: "perplexity", Value: strconv.FormatFloat(opt.Perplexity, 'g', -1, 64)},
		{Name: "learning_rate", Value: strconv.FormatFloat(opt.LearningRate, 'g', -1, 64)},
		{Name: "iterations", Value: strconv.Itoa(opt.Iterations)},
		{Name: "seed", Value: strconv.FormatInt(opt.Seed, 10)},
	}
	return runArtifacts(o, in, res, params)
}

func init() {
	rootCmd.AddCommand(tsneCmd)
	registerEmbedFlags(tsneCmd, &tsneOpts, "iris", "none")
	tsneCmd.Flags().Float64Var(&tsnePerplexity, "perplexity", 30, "perplexity, roughly the expected neighborhood size")
	tsneCmd.Flags().Float64Var(&tsneLearnRate, "learning-rate", 200, "gradient descent learning rate")
	tsneCmd.Flags().IntVar(&tsneIters, "iterations", 1000, "optimization iterations")
}
