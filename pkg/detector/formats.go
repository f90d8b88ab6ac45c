package detector

import "regexp"

// Directive is a recording-level line written by the tracker's converter that
// carries no per-sample data but marks a file as an ASC recording.
type Directive struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for reports
	Examples   []string       // Example lines
}

// DefaultDirectives returns the built-in directives to look for.
func DefaultDirectives() []*Directive {
	directives := []*Directive{
		{
			Name:       "Converter preamble",
			PatternStr: `^\*\* CONVERTED FROM`,
			Examples:   []string{"** CONVERTED FROM D:\\data\\sub01.edf using edfapi 4.2"},
		},
		{
			Name:       "Preamble field",
			PatternStr: `^\*\* [A-Z ]+:`,
			Examples:   []string{"** DATE: Mon Jan 15 10:30:00 2024", "** TYPE: EDF_FILE BINARY EVENT SAMPLE TAGGED"},
		},
		{
			Name:       "Block start",
			PatternStr: `^START\s+\d+\s`,
			Examples:   []string{"START	1000 	RIGHT	SAMPLES	EVENTS"},
		},
		{
			Name:       "Block end",
			PatternStr: `^END\s+\d+\s`,
			Examples:   []string{"END	90000 	SAMPLES	EVENTS	RES	 38.54	 31.68"},
		},
		{
			Name:       "Sample layout",
			PatternStr: `^SAMPLES\s+GAZE\b`,
			Examples:   []string{"SAMPLES	GAZE	RIGHT	RATE	1000.00	TRACKING	CR	FILTER	2"},
		},
		{
			Name:       "Event layout",
			PatternStr: `^EVENTS\s+GAZE\b`,
			Examples:   []string{"EVENTS	GAZE	RIGHT	RATE	1000.00	TRACKING	CR	FILTER	2"},
		},
		{
			Name:       "Event start",
			PatternStr: `^S(FIX|SACC|BLINK)\s+[LR]\b`,
			Examples:   []string{"SFIX R   1060", "SSACC R  1300", "SBLINK R 1210"},
		},
		{
			Name:       "Scaling",
			PatternStr: `^V?PRESCALER\s+\d+`,
			Examples:   []string{"PRESCALER	1", "VPRESCALER	1"},
		},
		{
			Name:       "Pupil mode",
			PatternStr: `^PUPIL\s+(AREA|DIAMETER)\b`,
			Examples:   []string{"PUPIL	AREA"},
		},
		{
			Name:       "Input port",
			PatternStr: `^INPUT\s+\d+\s+\d+`,
			Examples:   []string{"INPUT	1000	0"},
		},
	}

	for _, d := range directives {
		d.Pattern = regexp.MustCompile(d.PatternStr)
	}

	return directives
}

// ratePattern extracts the sampling rate from a SAMPLES or EVENTS line.
var ratePattern = regexp.MustCompile(`^(?:SAMPLES|EVENTS)\s+GAZE\s+(LEFT|RIGHT|LEFT\s+RIGHT)\s+RATE\s+([0-9.]+)`)
