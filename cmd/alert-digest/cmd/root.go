// Package cmd implements the CLI commands for alert-digest.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "alert-digest",
	Short: "Aggregate on-call alert noise into a digest",
	Long: "A service that pulls alert records from email, the paging provider, " +
		"and a tracking spreadsheet, aggregates them by label, and delivers a " +
		"digest report showing where the on-call noise comes from.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
