package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/reduce"
)

var pcaOpts embedOpts

var pcaCmd = &cobra.Command{
	Use:   "pca",
	Short: "Principal component analysis of a numeric table",
	Long: `Projects the dataset onto its directions of greatest variance and plots the
first two principal components, with loadings and variance shares explained
in the run report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPCA(&pcaOpts)
	},
}

func runPCA(o *embedOpts) error {
	in, err := prepareEmbed(o, false)
	if err != nil {
		return err
	}
	k, err := resolveComponents(o, effectiveConfig())
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := reduce.PCA(in.matrix, in.features, k)
	if err != nil {
		return err
	}
	logger().Debugw("pca done", "rows", res.Len(), "components", k, "elapsed", time.Since(start))
	return runArtifacts(o, in, res, nil)
}

func init() {
	rootCmd.AddCommand(pcaCmd)
	registerEmbedFlags(pcaCmd, &pcaOpts, "mtcars", "standardize")
}
