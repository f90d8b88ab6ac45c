package parser

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingField is returned when a line has fewer fields than its kind requires.
	ErrMissingField = errors.New("missing field")

	// ErrBadNumber is returned when a timing or identity field is not numeric.
	ErrBadNumber = errors.New("not a number")

	// ErrBadTrialMarker is returned for TRIALID lines whose id or start time
	// cannot be read. The line is dropped and trial state is left unchanged.
	ErrBadTrialMarker = errors.New("malformed trial marker")
)

// lossyFloat converts coordinate-style tokens. The tracker writes "." for
// missing values; that and any other unparsable token become 0.
func lossyFloat(tok string) float64 {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return v
}

// strictFloat converts timing tokens, which cannot be defaulted.
func strictFloat(tok, name string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, tok, ErrBadNumber)
	}
	return v, nil
}

// field returns fields[i], or "" when the line is too short.
func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func requireFields(fields []string, n int, kind Kind) error {
	if len(fields) < n {
		return fmt.Errorf("%s line has %d fields, need %d: %w", kind, len(fields), n, ErrMissingField)
	}
	return nil
}
