package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/dataset"
	"github.com/KaramelBytes/dimred-cli/internal/reduce"
)

var (
	sumGroupBy    string
	sumSampleRows int
	sumCorrPairs  int
	sumNeighbors  int
	sumOutputPath string
)

var summaryCmd = &cobra.Command{
	Use:   "summary <dataset>",
	Short: "Summarize a dataset before reducing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadData(args[0])
		if err != nil {
			return err
		}
		c := effectiveConfig()
		opt := dataset.DefaultSummaryOptions()
		opt.SampleRows = c.SummarySamples
		opt.CorrPairs = c.SummaryCorrPair
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = sumSampleRows
		}
		if cmd.Flags().Changed("corr-pairs") {
			opt.CorrPairs = sumCorrPairs
		}
		switch sumGroupBy {
		case "none":
		case "":
			// Group by the lone categorical column when there is exactly one.
			if cats := ds.CategoricalColumns(); len(cats) == 1 {
				opt.GroupBy = cats[0].Name
			}
		default:
			opt.GroupBy = sumGroupBy
		}

		rep, err := dataset.Summarize(ds, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if sumNeighbors > 0 {
			sec, err := neighborSection(ds, sumNeighbors, opt.SampleRows)
			if err != nil {
				return err
			}
			md += sec
		}
		if sumOutputPath != "" {
			if err := os.WriteFile(sumOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", sumOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

// neighborSection lists the closest rows to each sample row. Distances only
// compare sensibly across mixed units after standardization, which is the
// point the section makes.
func neighborSection(ds *dataset.Dataset, k, rows int) (string, error) {
	m, features, err := ds.Matrix()
	if err != nil {
		return "", err
	}
	if err := dataset.Scale(m, features, dataset.ScaleStandardize); err != nil {
		return "", err
	}
	knn, err := reduce.KNN(m, k)
	if err != nil {
		return "", err
	}
	if rows <= 0 {
		rows = 5
	}
	if rows > len(knn) {
		rows = len(knn)
	}
	var b strings.Builder
	b.WriteString("\n[NEAREST NEIGHBORS]\n")
	for i := 0; i < rows; i++ {
		hits := make([]string, len(knn[i]))
		for j, nb := range knn[i] {
			hits[j] = fmt.Sprintf("%s (%.2f)", ds.RowName(nb.Index), nb.Dist)
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", ds.RowName(i), strings.Join(hits, ", ")))
	}
	return b.String(), nil
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumGroupBy, "group-by", "", "categorical column for group means ('none' disables the automatic choice)")
	summaryCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of sample rows to include")
	summaryCmd.Flags().IntVar(&sumCorrPairs, "corr-pairs", 10, "number of top correlation pairs to report")
	summaryCmd.Flags().IntVar(&sumNeighbors, "neighbors", 0, "list each sample row's nearest rows in standardized feature space (0 disables)")
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
}
