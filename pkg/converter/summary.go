package converter

import (
	"time"

	"github.com/ccollicutt/ascflat/pkg/parser"
	"github.com/ccollicutt/ascflat/pkg/unify"
)

// Summary describes one conversion run.
type Summary struct {
	RunID string `json:"run_id"`
	Input string `json:"input"`

	LinesRead int `json:"lines_read"`
	Trials    int `json:"trials"`

	Samples   int `json:"samples"`
	Messages  int `json:"messages"`
	Blinks    int `json:"blinks"`
	Saccades  int `json:"saccades"`
	Fixations int `json:"fixations"`

	// Rows is the size of the unified table; Merged rows hold both a sample
	// and an event.
	Rows   int `json:"rows"`
	Merged int `json:"merged"`

	BadTrialMarkers int           `json:"bad_trial_markers"`
	Skipped         int           `json:"skipped"`
	SkippedExamples []SkippedLine `json:"skipped_examples,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// SkippedLine is one example of a dropped line.
type SkippedLine struct {
	LineNum int    `json:"line"`
	Raw     string `json:"raw"`
	Error   string `json:"error"`
}

// HasSkipped returns true if any line was dropped for a bad timing field.
func (s *Summary) HasSkipped() bool {
	return s.Skipped > 0
}

// Events returns the number of discrete events of all kinds.
func (s *Summary) Events() int {
	return s.Messages + s.Blinks + s.Saccades + s.Fixations
}

func newSummary(runID, input string, parsed *parser.Result, table *unify.Table, maxExamples int) *Summary {
	s := &Summary{
		RunID:           runID,
		Input:           input,
		LinesRead:       parsed.LinesRead,
		Trials:          parsed.Trials,
		Samples:         len(parsed.Samples),
		Rows:            table.Len(),
		Merged:          table.Merged,
		BadTrialMarkers: parsed.BadTrialMarkers,
		Skipped:         len(parsed.Skipped),
	}

	for _, ev := range parsed.Events {
		switch ev.Kind() {
		case parser.KindMessage:
			s.Messages++
		case parser.KindBlink:
			s.Blinks++
		case parser.KindSaccade:
			s.Saccades++
		case parser.KindFixation:
			s.Fixations++
		}
	}

	for i, lerr := range parsed.Skipped {
		if i >= maxExamples {
			break
		}
		s.SkippedExamples = append(s.SkippedExamples, SkippedLine{
			LineNum: lerr.LineNum,
			Raw:     lerr.Raw,
			Error:   lerr.Err.Error(),
		})
	}

	return s
}
