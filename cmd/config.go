package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dimred configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		fmt.Printf("out_dir: %s\n", c.OutDir)
		fmt.Printf("seed: %d\n", c.Seed)
		fmt.Printf("plot_width_in: %.1f\n", c.PlotWidthIn)
		fmt.Printf("plot_height_in: %.1f\n", c.PlotHeightIn)
		fmt.Printf("html: %v\n", c.HTML)
		fmt.Printf("point_labels: %v\n", c.PointLabels)
		fmt.Printf("kmeans_max_iter: %d\n", c.KMeansMaxIter)
		fmt.Printf("components: %d\n", c.Components)
		fmt.Printf("tsne_perplexity: %.1f\n", c.TSNEPerplexity)
		fmt.Printf("tsne_learn_rate: %.1f\n", c.TSNELearnRate)
		fmt.Printf("tsne_iterations: %d\n", c.TSNEIterations)
		fmt.Printf("umap_neighbors: %d\n", c.UMAPNeighbors)
		fmt.Printf("umap_min_dist: %.2f\n", c.UMAPMinDist)
		fmt.Printf("umap_epochs: %d\n", c.UMAPEpochs)
		fmt.Printf("summary_samples: %d\n", c.SummarySamples)
		fmt.Printf("summary_corr_pairs: %d\n", c.SummaryCorrPair)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := effectiveConfig()
		switch key {
		case "out_dir":
			c.OutDir = val
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %v", val)
			}
			c.Seed = i
		case "plot_width_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for plot_width_in: %v", val)
			}
			c.PlotWidthIn = f
		case "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for plot_height_in: %v", val)
			}
			c.PlotHeightIn = f
		case "html":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for html: %v", val)
			}
			c.HTML = b
		case "point_labels":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for point_labels: %v", val)
			}
			c.PointLabels = b
		case "kmeans_max_iter":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid positive int for kmeans_max_iter: %v", val)
			}
			c.KMeansMaxIter = i
		case "components":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid int for components (must be >= 2): %v", val)
			}
			c.Components = i
		case "tsne_perplexity":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for tsne_perplexity: %v", val)
			}
			c.TSNEPerplexity = f
		case "tsne_learn_rate":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for tsne_learn_rate: %v", val)
			}
			c.TSNELearnRate = f
		case "tsne_iterations":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid positive int for tsne_iterations: %v", val)
			}
			c.TSNEIterations = i
		case "umap_neighbors":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid int for umap_neighbors (must be >= 2): %v", val)
			}
			c.UMAPNeighbors = i
		case "umap_min_dist":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid non-negative float for umap_min_dist: %v", val)
			}
			c.UMAPMinDist = f
		case "umap_epochs":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid positive int for umap_epochs: %v", val)
			}
			c.UMAPEpochs = i
		case "summary_samples":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for summary_samples: %v", val)
			}
			c.SummarySamples = i
		case "summary_corr_pairs":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for summary_corr_pairs: %v", val)
			}
			c.SummaryCorrPair = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
