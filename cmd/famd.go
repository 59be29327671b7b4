package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/reduce"
)

var (
	famdOpts    embedOpts
	famdFactors []string
)

var famdCmd = &cobra.Command{
	Use:   "famd",
	Short: "Factor analysis of mixed numeric and categorical data",
	Long: `Embeds tables that mix measurements and categories on one map: numeric
columns enter standardized, categorical columns as weighted indicators, and
the report shows how much of each axis every variable carries. No --scale
flag here: the technique applies its own variable weighting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFAMD(&famdOpts, famdFactors)
	},
}

func runFAMD(o *embedOpts, factors []string) error {
	ds, err := loadData(o.data)
	if err != nil {
		return err
	}
	totalRows := ds.Len()

	if len(o.drop) > 0 {
		ds = ds.Drop(o.drop...)
	}
	if len(o.columns) > 0 {
		sel, err := ds.Select(o.columns...)
		if err != nil {
			return err
		}
		ds = sel
	}
	if factors == nil && o.data == "mtcars" {
		// The coded mtcars columns read as counts but behave as levels.
		factors = []string{"cyl", "vs", "am", "gear"}
	}
	if len(factors) > 0 {
		if err := ds.Factorize(factors...); err != nil {
			return err
		}
	}

	k, err := resolveComponents(o, effectiveConfig())
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := reduce.FAMD(ds, k)
	if err != nil {
		return err
	}
	logger().Debugw("famd done", "rows", res.Len(), "variables", len(res.FeatureNames), "elapsed", time.Since(start))

	colorBy, groups, err := resolveGroups(ds, o.colorBy)
	if err != nil {
		return err
	}
	in := &embedInput{
		ds:        ds,
		features:  res.FeatureNames,
		rowNames:  rowNamesOf(ds),
		groups:    groups,
		colorBy:   colorBy,
		totalRows: totalRows,
		scale:     "famd",
	}
	return runArtifacts(o, in, res, nil)
}

func init() {
	rootCmd.AddCommand(famdCmd)
	registerEmbedFlags(famdCmd, &famdOpts, "mtcars", "")
	famdCmd.Flags().StringSliceVar(&famdFactors, "factors", nil, "numeric columns to treat as categorical levels (mtcars default: cyl,vs,am,gear)")
}
