// Package output writes the unified table and the conversion summary.
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ccollicutt/ascflat/pkg/unify"
)

// CSVFormatter writes the table as comma-separated values with a header row
// and no index column. Empty cells are written as empty fields.
type CSVFormatter struct{}

// NewCSVFormatter creates a CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the table as CSV.
func (f *CSVFormatter) Format(ctx context.Context, table *unify.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(unify.Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(unify.Columns))
	for i := range table.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range table.Rows[i].Values() {
			record[j] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCell renders one value. Floats always carry a decimal point so that
// whole-number timestamps read back as floats.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}
