package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/dimred-cli/internal/config"
	"github.com/KaramelBytes/dimred-cli/internal/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the output directory and write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		if err := utils.EnsureDir(c.OutDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, ".dimred", "config.yaml")
		}
		fmt.Printf("✓ Output directory ready: %s\n", c.OutDir)
		fmt.Printf("✓ Config written: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
