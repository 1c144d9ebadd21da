package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/studyboosters/backend/cmd/storectl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "storectl",
		Short:        "Maintenance tools for the Study Boosters store",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.ExportCmd())
	rootCmd.AddCommand(cmd.LogsCmd())
	rootCmd.AddCommand(cmd.WipeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
