package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Keywords written by the tracker. They are case-sensitive.
const (
	TrialKeyword    = "TRIALID"
	MessageKeyword  = "MSG"
	BlinkKeyword    = "EBLINK"
	SaccadeKeyword  = "ESACC"
	FixationKeyword = "EFIX"
)

// Field counts required before the optional coordinate columns.
const (
	minSampleFields = 6
	minEventFields  = 5
)

// Shape is the syntactic class of a line, decided without parse state.
type Shape int

const (
	ShapeOther Shape = iota
	ShapeTrialStart
	ShapeMessage
	ShapeSample
	ShapeBlink
	ShapeSaccade
	ShapeFixation
)

var shapeNames = [...]string{
	ShapeOther:      "other",
	ShapeTrialStart: "trial_start",
	ShapeMessage:    "message",
	ShapeSample:     "sample",
	ShapeBlink:      "blink",
	ShapeSaccade:    "saccade",
	ShapeFixation:   "fixation",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// Shapes lists every shape in classification order.
func Shapes() []Shape {
	return []Shape{ShapeTrialStart, ShapeMessage, ShapeSample, ShapeBlink, ShapeSaccade, ShapeFixation, ShapeOther}
}

// Classify returns the shape of a trimmed line. The first matching rule wins:
// trial marker, message, sample, blink, saccade, fixation.
func Classify(line string) Shape {
	switch {
	case strings.Contains(line, TrialKeyword) && strings.Contains(line, MessageKeyword):
		return ShapeTrialStart
	case strings.Contains(line, MessageKeyword):
		return ShapeMessage
	}

	fields := strings.Fields(line)
	if len(fields) >= minSampleFields && strings.Contains(fields[0], ".") {
		return ShapeSample
	}

	switch {
	case strings.HasPrefix(line, BlinkKeyword):
		return ShapeBlink
	case strings.HasPrefix(line, SaccadeKeyword):
		return ShapeSaccade
	case strings.HasPrefix(line, FixationKeyword):
		return ShapeFixation
	}
	return ShapeOther
}

// State is the context carried from one line to the next.
type State struct {
	Trial         int
	HasTrial      bool
	TrialStart    float64
	HasTrialStart bool

	// Recording is set by the first trial marker and gates sample and
	// event extraction.
	Recording bool

	// Message is the most recent MSG text. It is only replaced, never cleared.
	Message string
}

// relative returns abs measured from the trial start, clamped at zero.
func (s State) relative(abs float64) float64 {
	if !s.HasTrialStart {
		return 0
	}
	return max(0, abs-s.TrialStart)
}

func (s State) header(ts float64, lineNum int) Header {
	return Header{
		Trial:     s.Trial,
		Timestamp: ts,
		TrialTime: s.relative(ts),
		Message:   s.Message,
		LineNum:   lineNum,
	}
}

// Step applies one line to the state. It returns the next state and at most
// one record. On error the returned state equals the input state and the
// line should be skipped.
func Step(s State, line *LogLine) (State, Record, error) {
	shape := Classify(line.Content)
	fields := strings.Fields(line.Content)

	switch shape {
	case ShapeTrialStart:
		next, err := startTrial(s, fields)
		if err != nil {
			return s, nil, err
		}
		return next, nil, nil

	case ShapeMessage:
		return message(s, fields, line.LineNum)
	}

	if !s.Recording || !s.HasTrial {
		return s, nil, nil
	}

	var (
		rec Record
		err error
	)
	switch shape {
	case ShapeSample:
		rec, err = sample(s, fields, line.LineNum)
	case ShapeBlink:
		rec, err = blink(s, fields, line.LineNum)
	case ShapeSaccade:
		rec, err = saccade(s, fields, line.LineNum)
	case ShapeFixation:
		rec, err = fixation(s, fields, line.LineNum)
	default:
		return s, nil, nil
	}
	if err != nil {
		return s, nil, err
	}
	return s, rec, nil
}

// startTrial handles "MSG <time> TRIALID <id>".
func startTrial(s State, fields []string) (State, error) {
	if len(fields) < 2 {
		return s, fmt.Errorf("%w: %w", ErrBadTrialMarker, ErrMissingField)
	}
	id, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return s, fmt.Errorf("%w: trial id %q", ErrBadTrialMarker, fields[len(fields)-1])
	}
	start, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return s, fmt.Errorf("%w: start time %q", ErrBadTrialMarker, fields[1])
	}

	s.Trial, s.HasTrial = id, true
	s.TrialStart, s.HasTrialStart = start, true
	s.Recording = true
	return s, nil
}

// message handles "MSG <time> <text...>". The text becomes the context
// message even before the first trial, but a record is only emitted while
// recording.
func message(s State, fields []string, lineNum int) (State, Record, error) {
	if err := requireFields(fields, 2, KindMessage); err != nil {
		return s, nil, err
	}
	ts, err := strictFloat(fields[1], "timestamp")
	if err != nil {
		return s, nil, err
	}

	s.Message = strings.Join(fields[2:], " ")
	if !s.Recording || !s.HasTrial {
		return s, nil, nil
	}
	return s, MessageEvent{Header: s.header(ts, lineNum), Text: s.Message}, nil
}

func sample(s State, fields []string, lineNum int) (Record, error) {
	ts, err := strictFloat(fields[0], "timestamp")
	if err != nil {
		return nil, err
	}
	return Sample{
		Header:    s.header(ts, lineNum),
		X:         lossyFloat(fields[1]),
		Y:         lossyFloat(fields[2]),
		Pupil:     lossyFloat(fields[3]),
		XVelocity: lossyFloat(fields[4]),
		YVelocity: lossyFloat(fields[5]),
	}, nil
}

// interval holds the leading fields shared by EBLINK, ESACC and EFIX:
// eye, start, end, duration.
type interval struct {
	eye                  string
	start, end, duration float64
}

func parseInterval(fields []string, kind Kind) (interval, error) {
	if err := requireFields(fields, minEventFields, kind); err != nil {
		return interval{}, err
	}
	iv := interval{eye: fields[1]}
	var err error
	if iv.start, err = strictFloat(fields[2], "start time"); err != nil {
		return interval{}, err
	}
	if iv.end, err = strictFloat(fields[3], "end time"); err != nil {
		return interval{}, err
	}
	if iv.duration, err = strictFloat(fields[4], "duration"); err != nil {
		return interval{}, err
	}
	return iv, nil
}

// blink handles "EBLINK <eye> <start> <end> <dur>".
func blink(s State, fields []string, lineNum int) (Record, error) {
	iv, err := parseInterval(fields, KindBlink)
	if err != nil {
		return nil, err
	}
	return Blink{
		Header:   s.header(iv.start, lineNum),
		Eye:      iv.eye,
		Start:    iv.start,
		End:      iv.end,
		Duration: iv.duration,
	}, nil
}

// saccade handles "ESACC <eye> <start> <end> <dur> <sx> <sy> <ex> <ey> <ampl> <pv>".
func saccade(s State, fields []string, lineNum int) (Record, error) {
	iv, err := parseInterval(fields, KindSaccade)
	if err != nil {
		return nil, err
	}
	peak := lossyFloat(field(fields, 10))
	return Saccade{
		Header:       s.header(iv.start, lineNum),
		Eye:          iv.eye,
		Start:        iv.start,
		End:          iv.end,
		Duration:     iv.duration,
		StartX:       lossyFloat(field(fields, 5)),
		StartY:       lossyFloat(field(fields, 6)),
		EndX:         lossyFloat(field(fields, 7)),
		EndY:         lossyFloat(field(fields, 8)),
		Amplitude:    lossyFloat(field(fields, 9)),
		PeakVelocity: peak,
		AvgVelocity:  saccadeAvgVelocity(peak, iv.duration),
	}, nil
}

// saccadeAvgVelocity reproduces the converter's historical column, which
// averages peak velocity with the duration rather than with a second
// velocity. Downstream analyses depend on the exact values.
func saccadeAvgVelocity(peak, duration float64) float64 {
	if peak == 0 {
		return 0
	}
	return (peak + duration) / 2
}

// fixation handles "EFIX <eye> <start> <end> <dur> <ax> <ay> <apupil>".
func fixation(s State, fields []string, lineNum int) (Record, error) {
	iv, err := parseInterval(fields, KindFixation)
	if err != nil {
		return nil, err
	}
	return Fixation{
		Header:   s.header(iv.start, lineNum),
		Eye:      iv.eye,
		Start:    iv.start,
		End:      iv.end,
		Duration: iv.duration,
		AvgX:     lossyFloat(field(fields, 5)),
		AvgY:     lossyFloat(field(fields, 6)),
		AvgPupil: lossyFloat(field(fields, 7)),
	}, nil
}
