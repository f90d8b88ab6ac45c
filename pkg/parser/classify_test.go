package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func line(n int, s string) *LogLine {
	return &LogLine{Content: s, Source: "test.asc", LineNum: n}
}

func recordingState(trial int, start float64) State {
	return State{
		Trial:         trial,
		HasTrial:      true,
		TrialStart:    start,
		HasTrialStart: true,
		Recording:     true,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Shape
	}{
		{"MSG 1000 TRIALID 1", ShapeTrialStart},
		{"MSG 1050 FIXPOINT ON", ShapeMessage},
		{"MSG 1050", ShapeMessage},
		{"1060.0   512.3   384.1   800  0.0  0.0", ShapeSample},
		{"1060   512.3   384.1   800  0.0  0.0", ShapeOther},
		{"1060.0   512.3   384.1   800  0.0", ShapeOther},
		{"EBLINK R 1000 1100 100", ShapeBlink},
		{"ESACC R 1000 1040 40 100.0 200.0 300.0 400.0 5.2 310", ShapeSaccade},
		{"EFIX R 1060 1200 140 510.0 385.0 790", ShapeFixation},
		{"SFIX R 1060", ShapeOther},
		{"START 1000 RIGHT SAMPLES EVENTS", ShapeOther},
		{"** CONVERTED FROM sub01.edf", ShapeOther},
		{"", ShapeOther},
		{"efix R 1060 1200 140", ShapeOther},
		// TRIALID without MSG is not a marker
		{"TRIALID 3", ShapeOther},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestShape_String(t *testing.T) {
	if ShapeSaccade.String() != "saccade" {
		t.Errorf("String() = %q", ShapeSaccade.String())
	}
	if Shape(99).String() != "Shape(99)" {
		t.Errorf("String() = %q", Shape(99).String())
	}
}

func TestStep_TrialStart(t *testing.T) {
	next, rec, err := Step(State{Message: "prev"}, line(1, "MSG 1000 TRIALID 7"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if rec != nil {
		t.Errorf("Step() record = %v, want nil", rec)
	}

	want := recordingState(7, 1000)
	want.Message = "prev"
	if diff := cmp.Diff(want, next); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_BadTrialMarkerKeepsState(t *testing.T) {
	tests := []string{
		"MSG 1000 TRIALID abc",
		"MSG xyz TRIALID 2",
		"MSG 1000 TRIALID 2.5",
	}

	prev := recordingState(1, 500)
	prev.Message = "ctx"

	for _, l := range tests {
		t.Run(l, func(t *testing.T) {
			next, rec, err := Step(prev, line(3, l))
			if !errors.Is(err, ErrBadTrialMarker) {
				t.Errorf("Step() error = %v, want ErrBadTrialMarker", err)
			}
			if rec != nil {
				t.Errorf("Step() record = %v, want nil", rec)
			}
			if diff := cmp.Diff(prev, next); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStep_Message(t *testing.T) {
	next, rec, err := Step(recordingState(1, 1000), line(2, "MSG 1050 FIXPOINT  ON"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if next.Message != "FIXPOINT ON" {
		t.Errorf("Message = %q, want %q", next.Message, "FIXPOINT ON")
	}

	want := MessageEvent{
		Header: Header{Trial: 1, Timestamp: 1050, TrialTime: 50, Message: "FIXPOINT ON", LineNum: 2},
		Text:   "FIXPOINT ON",
	}
	if diff := cmp.Diff(Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_MessageBeforeTrial(t *testing.T) {
	next, rec, err := Step(State{}, line(1, "MSG 10 DISPLAY_COORDS 0 0 1023 767"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if rec != nil {
		t.Errorf("Step() record = %v, want nil before first trial", rec)
	}
	if next.Message != "DISPLAY_COORDS 0 0 1023 767" {
		t.Errorf("Message = %q, want context updated", next.Message)
	}
}

func TestStep_MessageBadTimestamp(t *testing.T) {
	prev := recordingState(1, 1000)
	next, rec, err := Step(prev, line(2, "MSG abc hello"))
	if !errors.Is(err, ErrBadNumber) {
		t.Errorf("Step() error = %v, want ErrBadNumber", err)
	}
	if rec != nil || next != prev {
		t.Errorf("Step() = (%v, %v), want unchanged state and no record", next, rec)
	}
}

func TestStep_Sample(t *testing.T) {
	prev := recordingState(1, 1000)
	prev.Message = "FIXPOINT ON"

	_, rec, err := Step(prev, line(4, "1060.0   512.3   .   800  abc  0.5"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := Sample{
		Header:    Header{Trial: 1, Timestamp: 1060, TrialTime: 60, Message: "FIXPOINT ON", LineNum: 4},
		X:         512.3,
		Y:         0,
		Pupil:     800,
		XVelocity: 0,
		YVelocity: 0.5,
	}
	if diff := cmp.Diff(Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_SampleBadTimestamp(t *testing.T) {
	_, rec, err := Step(recordingState(1, 0), line(1, "10.0.0 1 2 3 4 5"))
	if !errors.Is(err, ErrBadNumber) {
		t.Errorf("Step() error = %v, want ErrBadNumber", err)
	}
	if rec != nil {
		t.Errorf("Step() record = %v, want nil", rec)
	}
}

func TestStep_NotRecording(t *testing.T) {
	lines := []string{
		"1060.0   512.3   384.1   800  0.0  0.0",
		"EBLINK R 1000 1100 100",
		"ESACC R 1000 1040 40 1 2 3 4 5 6",
		"EFIX R 1060 1200 140 510.0 385.0 790",
	}
	for _, l := range lines {
		next, rec, err := Step(State{}, line(1, l))
		if err != nil || rec != nil || next != (State{}) {
			t.Errorf("Step(%q) = (%v, %v, %v), want nothing before a trial", l, next, rec, err)
		}
	}
}

func TestStep_Blink(t *testing.T) {
	_, rec, err := Step(recordingState(2, 900), line(9, "EBLINK L 1000 1100 100"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := Blink{
		Header:   Header{Trial: 2, Timestamp: 1000, TrialTime: 100, LineNum: 9},
		Eye:      "L",
		Start:    1000,
		End:      1100,
		Duration: 100,
	}
	if diff := cmp.Diff(Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_Saccade(t *testing.T) {
	_, rec, err := Step(recordingState(1, 1000), line(5, "ESACC R 1000 1040 40 100.0 200.0 . 400.0 5.2 310"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := Saccade{
		Header:       Header{Trial: 1, Timestamp: 1000, TrialTime: 0, LineNum: 5},
		Eye:          "R",
		Start:        1000,
		End:          1040,
		Duration:     40,
		StartX:       100,
		StartY:       200,
		EndX:         0,
		EndY:         400,
		Amplitude:    5.2,
		PeakVelocity: 310,
		AvgVelocity:  (310 + 40) / 2.0,
	}
	if diff := cmp.Diff(Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_SaccadeShortLineDefaultsCoordinates(t *testing.T) {
	_, rec, err := Step(recordingState(1, 1000), line(5, "ESACC R 1000 1040 40"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	s := rec.(Saccade)
	if s.StartX != 0 || s.PeakVelocity != 0 || s.AvgVelocity != 0 {
		t.Errorf("Saccade = %+v, want zeroed coordinates", s)
	}
}

func TestSaccadeAvgVelocity(t *testing.T) {
	tests := []struct {
		peak, duration, want float64
	}{
		{0, 40, 0},
		{310, 40, 175},
		{-10, 4, -3},
		{1.5, 0.25, 0.875},
	}
	for _, tt := range tests {
		if got := saccadeAvgVelocity(tt.peak, tt.duration); got != tt.want {
			t.Errorf("saccadeAvgVelocity(%v, %v) = %v, want %v", tt.peak, tt.duration, got, tt.want)
		}
	}
}

func TestStep_Fixation(t *testing.T) {
	prev := recordingState(1, 1000)
	prev.Message = "FIXPOINT ON"

	_, rec, err := Step(prev, line(4, "EFIX R 1060 1200 140 510.0 385.0 790"))
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := Fixation{
		Header:   Header{Trial: 1, Timestamp: 1060, TrialTime: 60, Message: "FIXPOINT ON", LineNum: 4},
		Eye:      "R",
		Start:    1060,
		End:      1200,
		Duration: 140,
		AvgX:     510,
		AvgY:     385,
		AvgPupil: 790,
	}
	if diff := cmp.Diff(Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_EventTimingErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"blink too short", "EBLINK R 1000 1100", ErrMissingField},
		{"blink bad start", "EBLINK R . 1100 100", ErrBadNumber},
		{"saccade bad end", "ESACC R 1000 x 40 1 2 3 4 5 6", ErrBadNumber},
		{"fixation bad duration", "EFIX R 1060 1200 ? 510.0 385.0 790", ErrBadNumber},
		{"fixation too short", "EFIX R", ErrMissingField},
	}

	prev := recordingState(1, 1000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, rec, err := Step(prev, line(1, tt.line))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Step() error = %v, want %v", err, tt.wantErr)
			}
			if rec != nil {
				t.Errorf("Step() record = %v, want nil", rec)
			}
			if next != prev {
				t.Errorf("Step() changed state")
			}
		})
	}
}

func TestRelativeTimeClamped(t *testing.T) {
	s := recordingState(1, 1000)
	tests := []struct {
		abs, want float64
	}{
		{1000, 0},
		{1060.5, 60.5},
		{990, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := s.relative(tt.abs); got != tt.want {
			t.Errorf("relative(%v) = %v, want %v", tt.abs, got, tt.want)
		}
	}

	if got := (State{}).relative(1234); got != 0 {
		t.Errorf("relative without trial start = %v, want 0", got)
	}
}

func TestLossyFloat(t *testing.T) {
	tests := []struct {
		tok  string
		want float64
	}{
		{"512.3", 512.3},
		{"-1", -1},
		{".", 0},
		{"", 0},
		{"abc", 0},
		{"1e3", 1000},
		{"12..5", 0},
	}
	for _, tt := range tests {
		if got := lossyFloat(tt.tok); got != tt.want {
			t.Errorf("lossyFloat(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}
