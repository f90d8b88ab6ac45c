package output

import (
	"context"
	"io"

	"github.com/ccollicutt/ascflat/pkg/converter"
	"github.com/ccollicutt/ascflat/pkg/unify"
)

// Formatter renders the unified table in a specific format.
type Formatter interface {
	// Format writes the header and every row to w.
	Format(ctx context.Context, table *unify.Table, w io.Writer) error

	// Name returns the format name (csv, json).
	Name() string
}

// SummaryFormatter renders the end-of-run summary.
type SummaryFormatter interface {
	FormatSummary(ctx context.Context, summary *converter.Summary, w io.Writer) error
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds timing and per-kind counts to the summary.
	Verbose bool

	// Quiet limits the summary to a single line.
	Quiet bool
}
