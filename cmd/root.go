package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags (wired to config/viper)
	cfgFile  string
	debug    bool
	flagOut  string
	flagSeed int64

	// Loaded configuration
	cfg *cfgpkg.Global

	// Debug logger, built lazily once the flags are parsed
	sugar *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "dimred",
	Short: "dimred CLI: guided dimensionality-reduction tours of small tables",
	Long: `dimred runs classical dimensionality-reduction techniques (PCA, FAMD, MDS,
t-SNE, UMAP) over built-in toy datasets or your own CSV/TSV files, writes the
plots and coordinates to a run directory, and prints commentary explaining
what the resulting map does and does not show.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dimred/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "output directory for run artifacts (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "seed for the stochastic techniques (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	applyFlagOverrides(c)
	cfg = c
}

func applyFlagOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("out") && flagOut != "" {
		c.OutDir = flagOut
	}
	if f.Changed("seed") {
		c.Seed = flagSeed
	}
}

// effectiveConfig returns the loaded configuration, loading it on demand when
// the cobra initializer has not run (direct Execute calls in tests).
func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
			c = cfgpkg.Defaults()
		}
		applyFlagOverrides(c)
		cfg = c
	}
	return cfg
}

// logger returns a development-config zap sugar when --debug is set and a
// no-op logger otherwise.
func logger() *zap.SugaredLogger {
	if sugar != nil {
		return sugar
	}
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		l, err := z.Build()
		if err == nil {
			sugar = l.Sugar()
			return sugar
		}
		fmt.Fprintf(os.Stderr, "⚠ Warning: debug logger unavailable: %v\n", err)
	}
	sugar = zap.NewNop().Sugar()
	return sugar
}
