package cmd

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/KaramelBytes/dimred-cli/internal/reduce"
	"github.com/KaramelBytes/dimred-cli/internal/report"
)

var (
	umapOpts      embedOpts
	umapNeighbors int
	umapMinDist   float64
	umapEpochs    int
)

var umapCmd = &cobra.Command{
	Use:   "umap",
	Short: "UMAP embedding of a numeric table",
	Long: `Runs uniform manifold approximation and projection on the feature rows.
Local neighborhoods in the result are faithful; distances between separated
groups are not. More neighbors shifts the view toward global structure,
lower min-dist packs clusters tighter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := umapConfigOptions(effectiveConfig())
		if cmd.Flags().Changed("neighbors") {
			opt.Neighbors = umapNeighbors
		}
		if cmd.Flags().Changed("min-dist") {
			opt.MinDist = umapMinDist
		}
		if cmd.Flags().Changed("epochs") {
			opt.Epochs = umapEpochs
		}
		return runUMAP(&umapOpts, opt)
	},
}

// umapConfigOptions seeds the embedding options from the effective config.
func umapConfigOptions(c *cfgpkg.Global) reduce.UMAPOptions {
	opt := reduce.DefaultUMAPOptions()
	opt.Seed = c.Seed
	opt.Neighbors = c.UMAPNeighbors
	opt.MinDist = c.UMAPMinDist
	opt.Epochs = c.UMAPEpochs
	return opt
}

func runUMAP(o *embedOpts, opt reduce.UMAPOptions) error {
	in, err := prepareEmbed(o, false)
	if err != nil {
		return err
	}
	k, err := resolveComponents(o, effectiveConfig())
	if err != nil {
		return err
	}
	opt.Components = k

	log := logger()
	opt.Progress = func(epoch int) {
		log.Debugw("umap epoch", "epoch", epoch)
	}
	start := time.Now()
	res, err := reduce.UMAP(in.matrix, opt)
	if err != nil {
		return err
	}
	log.Debugw("umap done", "rows", res.Len(), "elapsed", time.Since(start))

	params := []report.Param{
		{Name: "neighbors", Value: strconv.Itoa(opt.Neighbors)},
		{Name: "min_dist", Value: strconv.FormatFloat(opt.MinDist, 'g', -1, 64)},
		{Name: "epochs", Value: strconv.Itoa(opt.Epochs)},
		{Name: "seed", Value: strconv.FormatInt(opt.Seed, 10)},
	}
	return runArtifacts(o, in, res, params)
}

func init() {
	rootCmd.AddCommand(umapCmd)
	registerEmbedFlags(umapCmd, &umapOpts, "iris", "none")
	umapCmd.Flags().IntVar(&umapNeighbors, "neighbors", 15, "neighborhood size balancing local against global structure")
	umapCmd.Flags().Float64Var(&umapMinDist, "min-dist", 0.1, "minimum spacing between embedded points")
	umapCmd.Flags().IntVar(&umapEpochs, "epochs", 300, "optimization epochs")
}
