package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/ascflat/pkg/unify"
)

func TestNewCSVFormatter(t *testing.T) {
	f := NewCSVFormatter()
	if f.Name() != "csv" {
		t.Errorf("Name() = %q, want %q", f.Name(), "csv")
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter().Format(context.Background(), createTestTable(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if diff := cmp.Diff(unify.Header(), records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	// message, merged sample+fixation, sample, saccade
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	row := func(i int) map[string]string {
		m := make(map[string]string)
		for j, name := range records[0] {
			m[name] = records[i][j]
		}
		return m
	}

	msg := row(1)
	wantMsg := map[string]string{"trial": "1", "timestamp": "1050.0", "trial_time": "50.0", "event_type": "MSG", "message": "FIXPOINT ON", "x": "", "eye": ""}
	for k, v := range wantMsg {
		if msg[k] != v {
			t.Errorf("message row %s = %q, want %q", k, msg[k], v)
		}
	}

	merged := row(2)
	wantMerged := map[string]string{"timestamp": "1060.0", "trial_time": "60.0", "eye": "R", "duration": "140.0",
		"avg_x": "510.0", "avg_pupil_size": "790.0", "event_type": "FIXATION", "x": "512.3", "pupil_size": "800.0"}
	for k, v := range wantMerged {
		if merged[k] != v {
			t.Errorf("merged row %s = %q, want %q", k, merged[k], v)
		}
	}

	sample := row(3)
	if sample["x"] != "0.0" || sample["event_type"] != "" {
		t.Errorf("sample row = %v", sample)
	}

	sacc := row(4)
	if sacc["avg_velocity"] != "175.0" || sacc["amplitude"] != "5.2" {
		t.Errorf("saccade row = %v", sacc)
	}
}

func TestCSVFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter().Format(context.Background(), &unify.Table{}, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := strings.Join(unify.Header(), ",") + "\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want header only", buf.String())
	}
}

func TestCSVFormatter_QuotesMessages(t *testing.T) {
	table := &unify.Table{Rows: []unify.Row{{Trial: 1}}}
	table.Rows[0].Message.V, table.Rows[0].Message.Valid = `say "hi", then go`, true

	var buf bytes.Buffer
	if err := NewCSVFormatter().Format(context.Background(), table, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"say ""hi"", then go"`) {
		t.Errorf("message not quoted: %s", buf.String())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1060, "1060.0"},
		{512.3, "512.3"},
		{0, "0.0"},
		{-5, "-5.0"},
		{0.875, "0.875"},
		{1e21, "1000000000000000000000.0"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
