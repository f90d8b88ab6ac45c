package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/ascflat/pkg/config"
	"github.com/ccollicutt/ascflat/pkg/converter"
	"github.com/ccollicutt/ascflat/pkg/output"
	"github.com/ccollicutt/ascflat/pkg/parser"
	"github.com/ccollicutt/ascflat/pkg/unify"
	"github.com/ccollicutt/ascflat/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// LogOverrides holds the root command's logging flags. Non-empty fields take
// precedence over the config file.
var LogOverrides config.LogConfig

// ConvertOptions holds command-line options for the convert command.
type ConvertOptions struct {
	ConfigPath  string
	Output      string
	Format      string
	SQLiteTable string
	Summary     string
	Strict      bool
	Verbose     bool
	Quiet       bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [input.asc]",
		Short: "Convert an ASC recording into a flat table",
		Long: `Convert an eye-tracker ASC recording into one flat table.

Samples, messages, blinks, saccades and fixations are extracted per trial,
samples and events sharing a timestamp are merged into one row, and the
table is sorted by trial and timestamp.

Lines with unreadable timing fields are skipped and listed in the summary,
which is written to stderr. The table is only written once the whole input
was read.

Exit codes:
  0 - Conversion finished
  1 - Lines were skipped and --strict was given
  2 - Configuration or runtime error

Example:
  ascflat convert sub01.asc > sub01.csv
  ascflat convert sub01.asc -f sqlite -o sub01.db
  ascflat convert -c ascflat.yaml --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Table format (csv|json|sqlite)")
	cmd.Flags().StringVar(&opts.SQLiteTable, "sqlite-table", "", "Table name for sqlite output")
	cmd.Flags().StringVar(&opts.Summary, "summary", "text", "Summary format on stderr (text|json|none)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 if any line was skipped")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Detailed summary and indented JSON")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "One-line summary")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnSkipped), "When to fire webhook (on_skipped|always|never)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(ctx, args, opts)
	if err != nil {
		return err
	}

	summaryFormatter, err := createSummaryFormatter(opts)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	src := parser.NewFileSource(cfg.Input)
	defer src.Close()

	c := converter.New(
		converter.WithLogger(logger),
		converter.WithMaxExamples(cfg.MaxSkippedExamples),
	)
	result, err := c.Convert(ctx, cfg.Input, src)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := writeTable(ctx, cmd.OutOrStdout(), cfg, opts, result.Table); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if summaryFormatter != nil {
		if err := summaryFormatter.FormatSummary(ctx, result.Summary, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail the conversion)
	sendWebhooks(ctx, logger, cfg, opts, result.Summary)

	if opts.Strict && result.Summary.HasSkipped() {
		ExitCode = 1
	}

	return nil
}

// resolveConfig merges the config file, environment and flags, in increasing
// order of precedence.
func resolveConfig(ctx context.Context, args []string, opts *ConvertOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.FromEnvironment()
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.SQLiteTable != "" {
		cfg.SQLiteTable = opts.SQLiteTable
	}
	if LogOverrides.Level != "" {
		cfg.Log.Level = LogOverrides.Level
	}
	if LogOverrides.Encoding != "" {
		cfg.Log.Encoding = LogOverrides.Encoding
	}

	if cfg.Input == "" {
		return nil, errors.New("no input file: pass one as an argument or set input in the config")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func createSummaryFormatter(opts *ConvertOptions) (output.SummaryFormatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Summary {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summary format %q (use text, json or none)", opts.Summary)
	}
}

func writeTable(ctx context.Context, stdout io.Writer, cfg *config.Config, opts *ConvertOptions, table *unify.Table) error {
	var formatter output.Formatter
	switch cfg.OutputFormatEnum() {
	case config.FormatSQLite:
		return output.NewSQLiteWriter(cfg.SQLiteTable).WriteFile(ctx, table, cfg.Output)
	case config.FormatJSON:
		formatter = output.NewJSONFormatter(output.FormatOptions{Verbose: opts.Verbose})
	default:
		formatter = output.NewCSVFormatter()
	}

	if cfg.WritesToStdout() {
		return formatter.Format(ctx, table, stdout)
	}

	f, err := os.Create(cfg.Output) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, table, f); err != nil {
		_ = f.Close()
		_ = os.Remove(cfg.Output)
		return err
	}
	return f.Close()
}

// sendWebhooks posts the summary to all configured webhooks.
// Errors are logged but don't fail the conversion.
func sendWebhooks(ctx context.Context, logger *zap.Logger, cfg *config.Config, opts *ConvertOptions, summary *converter.Summary) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !webhook.ShouldFire(wh.Trigger, summary.HasSkipped()) {
			continue
		}

		resp := client.Send(ctx, summary, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("took", resp.Duration))
		} else {
			logger.Warn("webhook failed", zap.String("webhook", name), zap.Error(resp.Error))
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ConvertOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnSkipped
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
