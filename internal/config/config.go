package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// OutDir is where run directories (plots, reports, manifests) are written.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
	// Seed drives the RNG of the stochastic embeddings (t-SNE, UMAP, k-means).
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Plot rendering
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	HTML         bool    `mapstructure:"html" yaml:"html"`
	PointLabels  bool    `mapstructure:"point_labels" yaml:"point_labels"`

	// Clustering overlay
	KMeansMaxIter int `mapstructure:"kmeans_max_iter" yaml:"kmeans_max_iter"`

	// Technique defaults
	Components      int     `mapstructure:"components" yaml:"components"`
	TSNEPerplexity  float64 `mapstructure:"tsne_perplexity" yaml:"tsne_perplexity"`
	TSNELearnRate   float64 `mapstructure:"tsne_learn_rate" yaml:"tsne_learn_rate"`
	TSNEIterations  int     `mapstructure:"tsne_iterations" yaml:"tsne_iterations"`
	UMAPNeighbors   int     `mapstructure:"umap_neighbors" yaml:"umap_neighbors"`
	UMAPMinDist     float64 `mapstructure:"umap_min_dist" yaml:"umap_min_dist"`
	UMAPEpochs      int     `mapstructure:"umap_epochs" yaml:"umap_epochs"`
	SummarySamples  int     `mapstructure:"summary_samples" yaml:"summary_samples"`
	SummaryCorrPair int     `mapstructure:"summary_corr_pairs" yaml:"summary_corr_pairs"`
}

// Defaults returns the built-in configuration. Values are chosen so that a
// bare subcommand invocation works end to end without a config file.
func Defaults() *Global {
	return &Global{
		OutDir:          "dimred-out",
		Seed:            42,
		PlotWidthIn:     8,
		PlotHeightIn:    6,
		HTML:            false,
		PointLabels:     true,
		KMeansMaxIter:   1000,
		Components:      2,
		TSNEPerplexity:  30,
		TSNELearnRate:   200,
		TSNEIterations:  1000,
		UMAPNeighbors:   15,
		UMAPMinDist:     0.1,
		UMAPEpochs:      300,
		SummarySamples:  5,
		SummaryCorrPair: 10,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dimred/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dimred")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DIMRED")
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("plot_width_in", d.PlotWidthIn)
	v.SetDefault("plot_height_in", d.PlotHeightIn)
	v.SetDefault("html", d.HTML)
	v.SetDefault("point_labels", d.PointLabels)
	v.SetDefault("kmeans_max_iter", d.KMeansMaxIter)
	v.SetDefault("components", d.Components)
	v.SetDefault("tsne_perplexity", d.TSNEPerplexity)
	v.SetDefault("tsne_learn_rate", d.TSNELearnRate)
	v.SetDefault("tsne_iterations", d.TSNEIterations)
	v.SetDefault("umap_neighbors", d.UMAPNeighbors)
	v.SetDefault("umap_min_dist", d.UMAPMinDist)
	v.SetDefault("umap_epochs", d.UMAPEpochs)
	v.SetDefault("summary_samples", d.SummarySamples)
	v.SetDefault("summary_corr_pairs", d.SummaryCorrPair)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dimred")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
