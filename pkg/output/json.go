package output

import (
	"context"
	"encoding/json"
	"io"
	"math"

	"github.com/ccollicutt/ascflat/pkg/converter"
	"github.com/ccollicutt/ascflat/pkg/unify"
)

// JSONFormatter formats the table and summary as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// jsonTable keeps column order explicit: rows are arrays aligned with
// Columns, empty cells are null.
type jsonTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Format renders the table as a single JSON document.
func (f *JSONFormatter) Format(ctx context.Context, table *unify.Table, w io.Writer) error {
	doc := jsonTable{
		Columns: unify.Header(),
		Rows:    make([][]any, 0, table.Len()),
	}
	for i := range table.Rows {
		vals := table.Rows[i].Values()
		for j, v := range vals {
			// encoding/json rejects NaN and Inf
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				vals[j] = nil
			}
		}
		doc.Rows = append(doc.Rows, vals)
	}

	encoder := json.NewEncoder(w)
	if f.opts.Verbose {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(doc)
}

// FormatSummary renders the run summary as JSON.
func (f *JSONFormatter) FormatSummary(ctx context.Context, summary *converter.Summary, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(struct {
			RunID   string `json:"run_id"`
			Rows    int    `json:"rows"`
			Skipped int    `json:"skipped"`
		}{summary.RunID, summary.Rows, summary.Skipped})
	}

	return encoder.Encode(summary)
}
