package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowplan/flowplan/cmd/recurctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "recurctl",
		Short: "Recurrence engine tool for Flowplan",
		Long:  "CLI for inspecting recurrence rules and managing recurrence patterns and series",
	}

	rootCmd.AddCommand(commands.NewRuleCmd())
	rootCmd.AddCommand(commands.NewPresetsCmd())
	rootCmd.AddCommand(commands.NewEnsureCmd())
	rootCmd.AddCommand(commands.NewQueueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
