package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ascflat/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an ascflat configuration file without converting anything.

Checks:
  - YAML syntax
  - Output format and destination
  - SQLite table name
  - Log level and encoding
  - Webhook URLs and triggers
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	output := cfg.Output
	if cfg.WritesToStdout() {
		output = "stdout"
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Format:   %s\n", cfg.Format)
	fmt.Fprintf(w, "  Output:   %s\n", output)
	if cfg.OutputFormatEnum() == config.FormatSQLite {
		fmt.Fprintf(w, "  Table:    %s\n", cfg.SQLiteTable)
	}
	fmt.Fprintf(w, "  Log:      %s (%s)\n", cfg.Log.Level, cfg.Log.Encoding)
	fmt.Fprintf(w, "  Webhooks: %d\n", len(cfg.Webhooks))
	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(w, "    %d. %s [%s]\n", i+1, name, wh.Trigger)
	}

	// Input is optional in the file; convert can take it as an argument.
	switch {
	case cfg.Input == "":
		fmt.Fprintf(w, "\nNo input set; pass one to convert.\n")
	default:
		if _, err := os.Stat(cfg.Input); err != nil {
			fmt.Fprintf(w, "\nWarning: input %s is not readable: %v\n", cfg.Input, err)
		} else {
			fmt.Fprintf(w, "\nInput: %s\n", cfg.Input)
		}
	}

	return nil
}
