package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dimred-cli/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the built-in datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, info := range dataset.Builtins() {
			ds, err := dataset.Builtin(info.Name)
			if err != nil {
				return err
			}
			fmt.Printf("- %s: %d rows, %d numeric + %d categorical columns\n",
				info.Name, ds.Len(), len(ds.NumericColumns()), len(ds.CategoricalColumns()))
			fmt.Printf("    %s\n", info.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
