package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// LineError records a line that was skipped because a required field
// could not be read.
type LineError struct {
	Source  string
	LineNum int
	Raw     string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.LineNum, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result holds everything extracted from one pass over a recording.
type Result struct {
	// Samples and Events are in line order.
	Samples []Sample
	Events  []Event

	// Skipped lists lines dropped because a timing field was unreadable.
	Skipped []*LineError

	// BadTrialMarkers counts TRIALID lines that were ignored.
	BadTrialMarkers int

	// Trials counts trial markers that started a trial.
	Trials int

	// LinesRead is the number of lines consumed from the source.
	LinesRead int

	// Shapes counts lines by syntactic shape, regardless of parse state.
	Shapes map[Shape]int
}

// Parser walks a LineSource and threads State through every line.
type Parser struct {
	logger *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for skipped-line diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse consumes src to exhaustion. Read errors are fatal; per-line field
// errors are collected in Result.Skipped and parsing continues.
func (p *Parser) Parse(ctx context.Context, src LineSource) (*Result, error) {
	res := &Result{Shapes: make(map[Shape]int)}
	var state State

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading recording: %w", err)
		}
		res.LinesRead++
		shape := Classify(line.Content)
		res.Shapes[shape]++

		next, rec, err := Step(state, line)
		if err != nil {
			p.recordError(res, line, err)
			continue
		}
		if shape == ShapeTrialStart {
			res.Trials++
			p.logger.Debug("trial started",
				zap.Int("trial", next.Trial),
				zap.Float64("start", next.TrialStart),
				zap.Int("line", line.LineNum))
		}
		state = next

		switch r := rec.(type) {
		case nil:
		case Sample:
			res.Samples = append(res.Samples, r)
		case Event:
			res.Events = append(res.Events, r)
		}
	}

	return res, nil
}

func (p *Parser) recordError(res *Result, line *LogLine, err error) {
	if errors.Is(err, ErrBadTrialMarker) {
		res.BadTrialMarkers++
		p.logger.Debug("ignoring trial marker",
			zap.Int("line", line.LineNum),
			zap.String("raw", line.Content),
			zap.Error(err))
		return
	}

	lerr := &LineError{
		Source:  line.Source,
		LineNum: line.LineNum,
		Raw:     line.Content,
		Err:     err,
	}
	res.Skipped = append(res.Skipped, lerr)
	p.logger.Warn("skipping malformed line",
		zap.String("source", line.Source),
		zap.Int("line", line.LineNum),
		zap.String("raw", line.Content),
		zap.Error(err))
}
