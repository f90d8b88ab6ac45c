package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/ascflat/pkg/converter"
)

// TextFormatter formats the run summary as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// FormatSummary renders the summary as text.
func (f *TextFormatter) FormatSummary(ctx context.Context, summary *converter.Summary, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "ascflat: %d rows written, %d lines skipped\n", summary.Rows, summary.Skipped)
		return err
	}
	return f.formatFull(summary, w)
}

func (f *TextFormatter) formatFull(s *converter.Summary, w io.Writer) error {
	fmt.Fprintln(w, "=== ascflat Conversion Summary ===")
	fmt.Fprintf(w, "Input:  %s\n", s.Input)
	fmt.Fprintf(w, "Trials: %d\n", s.Trials)
	fmt.Fprintf(w, "Rows:   %d (%d samples, %d events, %d merged)\n",
		s.Rows, s.Samples, s.Events(), s.Merged)

	if f.opts.Verbose {
		fmt.Fprintf(w, "  Messages:  %d\n", s.Messages)
		fmt.Fprintf(w, "  Blinks:    %d\n", s.Blinks)
		fmt.Fprintf(w, "  Saccades:  %d\n", s.Saccades)
		fmt.Fprintf(w, "  Fixations: %d\n", s.Fixations)
		fmt.Fprintf(w, "Lines read: %d\n", s.LinesRead)
		fmt.Fprintf(w, "Duration: %s\n", s.Duration.Round(1e6))
		fmt.Fprintf(w, "Run: %s\n", s.RunID)
	}

	if s.BadTrialMarkers > 0 {
		fmt.Fprintf(w, "Ignored trial markers: %d\n", s.BadTrialMarkers)
	}

	if !s.HasSkipped() {
		_, err := fmt.Fprintln(w, "No lines skipped")
		return err
	}

	fmt.Fprintf(w, "Skipped: %d malformed line(s)\n", s.Skipped)
	for _, ex := range s.SkippedExamples {
		fmt.Fprintf(w, "  - line %d: %s\n", ex.LineNum, ex.Raw)
		fmt.Fprintf(w, "    %s\n", ex.Error)
	}
	if more := s.Skipped - len(s.SkippedExamples); more > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", more)
	}
	return nil
}
