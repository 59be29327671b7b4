package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var allHTML bool

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every technique with its tutorial defaults",
	Long: `Runs the full tour: PCA, FAMD, and MDS over mtcars, then t-SNE and UMAP
over iris, each with its default parameters. Failures are reported per
technique and do not stop the remaining runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		type job struct {
			name string
			run  func() error
		}
		jobs := []job{
			{"pca", func() error {
				o := embedOpts{data: "mtcars", scale: "standardize", html: allHTML}
				return runPCA(&o)
			}},
			{"famd", func() error {
				o := embedOpts{data: "mtcars", html: allHTML}
				return runFAMD(&o, nil)
			}},
			{"mds", func() error {
				o := embedOpts{data: "mtcars", scale: "standardize", html: allHTML}
				return runMDS(&o)
			}},
			{"tsne", func() error {
				o := embedOpts{data: "iris", scale: "none", html: allHTML}
				return runTSNE(&o, tsneConfigOptions(c))
			}},
			{"umap", func() error {
				o := embedOpts{data: "iris", scale: "none", html: allHTML}
				return runUMAP(&o, umapConfigOptions(c))
			}},
		}

		var failed []string
		for i, j := range jobs {
			fmt.Printf("[%d/%d] Running %s...\n", i+1, len(jobs), j.name)
			if err := j.run(); err != nil {
				fmt.Fprintf(os.Stderr, "⚠ %s failed: %v\n", j.name, err)
				failed = append(failed, j.name)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d techniques failed: %s", len(failed), len(jobs), strings.Join(failed, ", "))
		}
		fmt.Printf("✓ All %d techniques completed\n", len(jobs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
	allCmd.Flags().BoolVar(&allHTML, "html", false, "also write interactive HTML scatters")
}
