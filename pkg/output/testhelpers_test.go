package output

import (
	"context"
	"testing"
	"time"

	"github.com/ccollicutt/ascflat/pkg/converter"
	"github.com/ccollicutt/ascflat/pkg/parser"
	"github.com/ccollicutt/ascflat/pkg/unify"
)

func createTestTable(t *testing.T) *unify.Table {
	t.Helper()
	res, err := parser.New().Parse(context.Background(), parser.NewSliceSource("t.asc", []string{
		"MSG 1000 TRIALID 1",
		"MSG 1050 FIXPOINT ON",
		"1060.0   512.3   384.1   800  0.0  0.0",
		"EFIX R 1060 1200 140 510.0 385.0 790",
		"1070.0   .   .   0  0.0  0.0",
		"ESACC R 1080 1120 40 100.0 200.0 300.0 400.0 5.2 310",
	}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return unify.Unify(res.Samples, res.Events)
}

func createTestSummary() *converter.Summary {
	return &converter.Summary{
		RunID:           "3f0e6a9c-2a53-4a47-9d1c-0b1f1f2f4e11",
		Input:           "sub01.asc",
		LinesRead:       120,
		Trials:          2,
		Samples:         80,
		Messages:        6,
		Blinks:          1,
		Saccades:        4,
		Fixations:       5,
		Rows:            90,
		Merged:          6,
		BadTrialMarkers: 1,
		Skipped:         3,
		SkippedExamples: []converter.SkippedLine{
			{LineNum: 17, Raw: "EFIX R x 1200 140", Error: `start time "x": not a number`},
			{LineNum: 40, Raw: "EBLINK R", Error: "BLINK line has 2 fields, need 5: missing field"},
		},
		StartedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	}
}
