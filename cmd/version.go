package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/hire-signal/internal/taxonomy"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
		if tax, err := taxonomy.Default(); err == nil {
			fmt.Printf("built-in taxonomy: %s (%d entries)\n", tax.Version(), tax.Len())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
