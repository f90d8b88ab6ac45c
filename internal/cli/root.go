// Package cli provides the command-line interface for ascflat.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ascflat/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ascflat",
		Short: "Flatten eye-tracker ASC recordings into one table",
		Long: `ascflat converts the text (ASC) export of an eye-tracker recording into one
flat table.

It extracts:
  - Gaze samples (position, pupil size, velocity)
  - Messages written by the experiment
  - Blinks, saccades and fixations

Every row carries its trial number, absolute timestamp, time since trial
start and the most recent message. Samples and events sharing a timestamp
are merged into one row. Output is CSV, JSON or a SQLite table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&commands.LogOverrides.Level, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&commands.LogOverrides.Encoding, "log-encoding", "", "Log encoding (console|json)")

	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
