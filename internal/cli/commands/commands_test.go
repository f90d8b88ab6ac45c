package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var recording = `** CONVERTED FROM sub01.edf
MSG 1000 TRIALID 1
MSG 1050 FIXPOINT ON
1060.0   512.3   384.1   800  0.0  0.0
EFIX R 1060 1200 140 510.0 385.0 790
EBLINK R 1210 1300 90
ESACC R 1300 1340 40 100.0 200.0 300.0 400.0 5.2 310
EFIX R bad 1200 140 510.0 385.0 790
`

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	if cmd.Use != "convert [input.asc]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "output", "format", "sqlite-table", "summary", "strict", "verbose", "quiet", "webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := buf.String(); got != "ascflat "+Version+"\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRunValidate_Success(t *testing.T) {
	input := writeFile(t, "sub01.asc", recording)
	configPath := writeFile(t, "config.yaml", `input: `+input+`
output: out.db
format: sqlite
sqlite_table: sub01
webhooks:
  - name: lab
    url: http://localhost:9999/hook
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Configuration valid!", "Format:   sqlite", "Table:    sub01", "lab [on_skipped]", "Input: " + input} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_MissingInputWarns(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "input: /nonexistent/sub01.asc\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Warning: input /nonexistent/sub01.asc") {
		t.Errorf("expected warning, got:\n%s", buf.String())
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "invalid: yaml: content"},
		{"bad format", "format: xlsx\n"},
		{"sqlite to stdout", "format: sqlite\n"},
		{"bad webhook", "webhooks:\n  - url: ftp://example.org\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewValidateCommand()
			cmd.SetArgs([]string{writeFile(t, "config.yaml", tt.content)})
			cmd.SetOut(&bytes.Buffer{})

			if err := cmd.ExecuteContext(context.Background()); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}
