package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/gallery"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs in the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		runs, err := gallery.List(c.OutDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("(no recorded runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("- %s  %-5s on %-8s rows=%-4d artifacts=%d  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), r.Technique, r.Dataset,
				r.Rows, len(r.Artifacts), filepath.Base(r.Dir()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
