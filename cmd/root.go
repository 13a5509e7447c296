// Package cmd implements the CLI commands for offline battles: running a
// seeded battle to completion and replaying or verifying a recorded event
// stream.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// verbose raises the log level to debug, set via the --verbose flag.
var verbose bool

// rootCmd is the top-level cobra command for the nads CLI.
var rootCmd = &cobra.Command{
	Use:   "nads",
	Short: "HungerNads battle engine",
	Long:  "Run deterministic AI-gladiator battles offline and replay recorded event streams.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command. Exit code 1 covers every failure path,
// engine bugs included.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
}
