// Package converter runs the parse and unify stages over one recording.
package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccollicutt/ascflat/pkg/parser"
	"github.com/ccollicutt/ascflat/pkg/unify"
)

// DefaultMaxExamples is the number of skipped lines kept in a Summary.
const DefaultMaxExamples = 5

// Converter turns a line source into a unified table.
type Converter struct {
	logger      *zap.Logger
	maxExamples int
	now         func() time.Time
}

// Option configures converter behavior.
type Option func(*Converter)

// WithLogger sets the logger passed down to the parser.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxExamples limits the skipped lines listed in the summary.
func WithMaxExamples(n int) Option {
	return func(c *Converter) {
		if n >= 0 {
			c.maxExamples = n
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger:      zap.NewNop(),
		maxExamples: DefaultMaxExamples,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the table plus a summary of the run.
type Result struct {
	Table   *unify.Table
	Summary *Summary
}

// Convert reads src to the end and returns the unified table. Read errors
// abort the conversion and no table is returned.
func (c *Converter) Convert(ctx context.Context, name string, src parser.LineSource) (*Result, error) {
	started := c.now()
	runID := uuid.NewString()
	logger := c.logger.With(zap.String("run", runID), zap.String("input", name))

	logger.Debug("conversion started")

	parsed, err := parser.New(parser.WithLogger(logger)).Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	table := unify.Unify(parsed.Samples, parsed.Events)

	summary := newSummary(runID, name, parsed, table, c.maxExamples)
	summary.StartedAt = started
	summary.Duration = c.now().Sub(started)

	logger.Info("conversion finished",
		zap.Int("lines", summary.LinesRead),
		zap.Int("trials", summary.Trials),
		zap.Int("rows", summary.Rows),
		zap.Int("skipped", summary.Skipped))

	return &Result{Table: table, Summary: summary}, nil
}
