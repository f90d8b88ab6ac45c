// Package parser classifies ASC recording lines and extracts typed records.
package parser

// LogLine is a raw line read from an ASC recording.
type LogLine struct {
	// Content is the line text with surrounding whitespace removed.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Kind tags the record variants produced by the classifier.
type Kind string

const (
	KindSample   Kind = "SAMPLE"
	KindMessage  Kind = "MSG"
	KindBlink    Kind = "BLINK"
	KindSaccade  Kind = "SACCADE"
	KindFixation Kind = "FIXATION"
)

// Header holds the fields shared by every record.
type Header struct {
	// Trial is the id of the trial active when the line was read.
	Trial int

	// Timestamp is the absolute tracker time. For interval events this is
	// the event start time.
	Timestamp float64

	// TrialTime is Timestamp relative to the trial start, never negative.
	TrialTime float64

	// Message is the most recent MSG text at the time of the record.
	Message string

	// LineNum is the line the record was parsed from.
	LineNum int
}

// Meta returns the shared record header.
func (h Header) Meta() Header {
	return h
}

// Record is one of Sample, MessageEvent, Blink, Saccade or Fixation.
type Record interface {
	Kind() Kind
	Meta() Header
}

// Event is a discrete record: every Record except Sample.
type Event interface {
	Record
	event()
}

// Sample is one continuous eye-tracker reading.
type Sample struct {
	Header
	X         float64
	Y         float64
	Pupil     float64
	XVelocity float64
	YVelocity float64
}

// MessageEvent is a free-text MSG annotation.
type MessageEvent struct {
	Header
	Text string
}

// Blink is an EBLINK end-of-blink report.
type Blink struct {
	Header
	Eye      string
	Start    float64
	End      float64
	Duration float64
}

// Saccade is an ESACC end-of-saccade report.
type Saccade struct {
	Header
	Eye          string
	Start        float64
	End          float64
	Duration     float64
	StartX       float64
	StartY       float64
	EndX         float64
	EndY         float64
	Amplitude    float64
	PeakVelocity float64
	AvgVelocity  float64
}

// Fixation is an EFIX end-of-fixation report.
type Fixation struct {
	Header
	Eye      string
	Start    float64
	End      float64
	Duration float64
	AvgX     float64
	AvgY     float64
	AvgPupil float64
}

func (Sample) Kind() Kind       { return KindSample }
func (MessageEvent) Kind() Kind { return KindMessage }
func (Blink) Kind() Kind        { return KindBlink }
func (Saccade) Kind() Kind      { return KindSaccade }
func (Fixation) Kind() Kind     { return KindFixation }

func (MessageEvent) event() {}
func (Blink) event()        {}
func (Saccade) event()      {}
func (Fixation) event()     {}
