package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "fastingd",
	Short:   "Intermittent fasting tracker backend",
	Long:    `fastingd serves the intermittent fasting tracker API: schedule settings, live phase countdown, session lifecycle and history aggregation, backed by SQLite.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to serving when no subcommand is given.
		return runServe(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
