// Package detector inspects the head of a file and reports whether it looks
// like an ASC eye-tracker recording.
package detector

import (
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ccollicutt/ascflat/pkg/parser"
)

// DefaultSampleSize is the number of non-empty lines inspected.
const DefaultSampleSize = 500

// MinConfidence is the share of recognized lines above which a file is
// reported as an ASC recording.
const MinConfidence = 0.5

// DetectionResult holds the result of inspecting a file.
type DetectionResult struct {
	SampledLines int                  // Number of non-empty lines sampled
	Recognized   int                  // Lines that were records or directives
	Counts       map[parser.Shape]int // Lines per shape
	Directives   []DirectiveMatch     // Directives seen, most frequent first
	Trials       int                  // Well-formed trial markers seen
	Eye          string               // Tracked eye(s) from the layout lines, if any
	Rate         float64              // Sampling rate in Hz, 0 if unknown
	Confidence   float64              // Share of sampled lines that were recognized
	LooksLikeASC bool
}

// DirectiveMatch is one directive and how often it appeared.
type DirectiveMatch struct {
	Directive  *Directive
	MatchCount int
	SampleLine string
}

// Detector inspects files for ASC structure.
type Detector struct {
	directives []*Directive
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the default directives.
func New(opts ...Option) *Detector {
	d := &Detector{
		directives: DefaultDirectives(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a file and inspects it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	src := parser.NewFileSource(path)
	defer src.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line.Content != "" {
			lines = append(lines, line.Content)
		}
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines inspects a slice of lines. Empty lines are ignored.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		Counts: make(map[parser.Shape]int),
	}

	matches := make(map[string]*DirectiveMatch)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result.SampledLines++

		shape := parser.Classify(line)
		result.Counts[shape]++
		if shape != parser.ShapeOther {
			result.Recognized++
			if shape == parser.ShapeTrialStart {
				if _, _, err := parser.Step(parser.State{}, &parser.LogLine{Content: line}); err == nil {
					result.Trials++
				}
			}
			continue
		}

		for _, dir := range d.directives {
			if !dir.Pattern.MatchString(line) {
				continue
			}
			result.Recognized++
			m := matches[dir.Name]
			if m == nil {
				m = &DirectiveMatch{Directive: dir, SampleLine: line}
				matches[dir.Name] = m
			}
			m.MatchCount++
			d.readLayout(result, line)
			break
		}
	}

	for _, m := range matches {
		result.Directives = append(result.Directives, *m)
	}
	slices.SortFunc(result.Directives, func(a, b DirectiveMatch) int {
		if a.MatchCount != b.MatchCount {
			return b.MatchCount - a.MatchCount
		}
		return strings.Compare(a.Directive.Name, b.Directive.Name)
	})

	if result.SampledLines > 0 {
		result.Confidence = float64(result.Recognized) / float64(result.SampledLines)
	}
	result.LooksLikeASC = result.Confidence >= MinConfidence && result.DataLines() > 0

	return result
}

func (d *Detector) readLayout(result *DetectionResult, line string) {
	m := ratePattern.FindStringSubmatch(line)
	if len(m) < 3 {
		return
	}
	result.Eye = strings.Join(strings.Fields(m[1]), " ")
	if rate, err := strconv.ParseFloat(m[2], 64); err == nil {
		result.Rate = rate
	}
}

// DataLines returns the number of sampled lines that would produce records.
func (r *DetectionResult) DataLines() int {
	n := 0
	for shape, count := range r.Counts {
		if shape != parser.ShapeOther {
			n += count
		}
	}
	return n
}

// HasDirectives returns true if at least one recording directive was seen.
func (r *DetectionResult) HasDirectives() bool {
	return len(r.Directives) > 0
}
