package parser

import (
	"context"
	"io"
)

// LineSource provides an iterator over the lines of a recording.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}

// SliceSource serves lines from memory. Line numbers start at 1.
type SliceSource struct {
	name  string
	lines []string
	index int
}

// NewSliceSource creates a LineSource over the given lines.
func NewSliceSource(name string, lines []string) *SliceSource {
	return &SliceSource{name: name, lines: lines}
}

// Next returns the next line, or io.EOF when the slice is exhausted.
func (s *SliceSource) Next(ctx context.Context) (*LogLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.index >= len(s.lines) {
		return nil, io.EOF
	}
	s.index++
	return &LogLine{
		Content: trimLine(s.lines[s.index-1]),
		Source:  s.name,
		LineNum: s.index,
	}, nil
}

// Close is a no-op.
func (s *SliceSource) Close() error {
	return nil
}
