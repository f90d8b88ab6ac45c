package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ascflat/pkg/detector"
	"github.com/ccollicutt/ascflat/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Check whether a file is an ASC recording",
		Long: `Sample the head of a file and report what kind of lines it holds.

Each sampled line is classified the way convert would classify it (trial
marker, message, sample, blink, saccade, fixation). Lines that produce no
record are matched against known recording directives such as the converter
preamble, START/END blocks and the SAMPLES/EVENTS layout lines.

Optionally generates a starter config file with --write-config.

Example:
  ascflat detect sub01.asc
  ascflat detect --sample 2000 sub01.asc
  ascflat detect -w ascflat.yaml sub01.asc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "List every directive seen, not just the most frequent")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, path)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, path, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, path, opts)
	default:
		return outputDetectText(out, result, path, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, path string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== ASC Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines producing records: %d\n", result.DataLines())
	fmt.Fprintln(w)

	if result.SampledLines == 0 {
		fmt.Fprintln(w, "File is empty.")
		return nil
	}

	verdict := "no"
	if result.LooksLikeASC {
		verdict = "yes"
	}
	fmt.Fprintf(w, "Looks like ASC: %s (%.1f%% of lines recognized)\n", verdict, result.Confidence*100)
	if result.Rate > 0 {
		fmt.Fprintf(w, "Recording: %s eye, %.0f Hz\n", result.Eye, result.Rate)
	}
	fmt.Fprintf(w, "Trials: %d\n", result.Trials)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Line kinds:")
	for _, shape := range parser.Shapes() {
		if n := result.Counts[shape]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", shape, n)
		}
	}

	if result.HasDirectives() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Directives:")
		directives := result.Directives
		if !opts.ShowAll && len(directives) > 3 {
			directives = directives[:3]
		}
		for _, m := range directives {
			fmt.Fprintf(w, "  %-20s %d  (%s)\n", m.Directive.Name, m.MatchCount, m.SampleLine)
		}
		if len(directives) < len(result.Directives) {
			fmt.Fprintf(w, "  ... and %d more (use --all)\n", len(result.Directives)-len(directives))
		}
	}

	if !result.LooksLikeASC {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: convert expects the text output of the tracker's EDF converter.")
	}

	return nil
}

// JSONDirective represents a directive match in JSON output.
type JSONDirective struct {
	Name       string `json:"name"`
	Pattern    string `json:"pattern"`
	MatchCount int    `json:"match_count"`
	SampleLine string `json:"sample_line"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string          `json:"file"`
	SampledLines int             `json:"sampled_lines"`
	DataLines    int             `json:"data_lines"`
	Counts       map[string]int  `json:"counts"`
	Trials       int             `json:"trials"`
	Eye          string          `json:"eye,omitempty"`
	Rate         float64         `json:"rate,omitempty"`
	Confidence   float64         `json:"confidence"`
	LooksLikeASC bool            `json:"looks_like_asc"`
	Directives   []JSONDirective `json:"directives"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, path string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         path,
		SampledLines: result.SampledLines,
		DataLines:    result.DataLines(),
		Counts:       make(map[string]int, len(result.Counts)),
		Trials:       result.Trials,
		Eye:          result.Eye,
		Rate:         result.Rate,
		Confidence:   result.Confidence,
		LooksLikeASC: result.LooksLikeASC,
		Directives:   make([]JSONDirective, 0),
	}

	for shape, n := range result.Counts {
		out.Counts[shape.String()] = n
	}

	directives := result.Directives
	if !opts.ShowAll && len(directives) > 3 {
		directives = directives[:3]
	}
	for _, m := range directives {
		out.Directives = append(out.Directives, JSONDirective{
			Name:       m.Directive.Name,
			Pattern:    m.Directive.PatternStr,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the inspected recording.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, path, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.LooksLikeASC {
		return fmt.Errorf("cannot generate config: %s does not look like an ASC recording", path)
	}

	cfg := generateStarterConfig(path, result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(path string, result *detector.DetectionResult) string {
	absPath := path
	if abs, err := filepath.Abs(path); err == nil {
		absPath = abs
	}

	return fmt.Sprintf(`# ascflat configuration
# Generated by: ascflat detect
# %d of %d sampled lines recognized, %d trial(s) seen

input: %q

# Destination file; leave empty to write to stdout.
# output: recording.csv

# csv, json or sqlite (sqlite needs an output file)
format: csv
# sqlite_table: recording

# Skipped lines listed in the summary
max_skipped_examples: 5

log:
  level: info
  encoding: console

# webhooks:
#   - name: lab
#     url: https://example.org/hooks/ascflat
#     token: ${ASCFLAT_WEBHOOK_TOKEN}
#     trigger: on_skipped
#     timeout: 10s
`, result.Recognized, result.SampledLines, result.Trials, absPath)
}
