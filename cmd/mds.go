package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/reduce"
)

var mdsOpts embedOpts

var mdsCmd = &cobra.Command{
	Use:   "mds",
	Short: "Classical multidimensional scaling of a numeric table",
	Long: `Computes pairwise Euclidean distances between rows and embeds them so the
plotted distances approximate the originals. The report states how much of
the total dispersion the plane keeps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMDS(&mdsOpts)
	},
}

func runMDS(o *embedOpts) error {
	in, err := prepareEmbed(o, false)
	if err != nil {
		return err
	}
	k, err := resolveComponents(o, effectiveConfig())
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := reduce.MDS(in.matrix, k)
	if err != nil {
		return err
	}
	logger().Debugw("mds done", "rows", res.Len(), "components", k, "elapsed", time.Since(start))
	return runArtifacts(o, in, res, nil)
}

func init() {
	rootCmd.AddCommand(mdsCmd)
	registerEmbedFlags(mdsCmd, &mdsOpts, "mtcars", "standardize")
}
