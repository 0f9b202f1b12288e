package commands

import (
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/prereq/cmd"
)

func TestVersionCommand_OutputFormat(t *testing.T) {
	output, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	tests := []struct {
		name     string
		contains string
	}{
		{"contains version header", "prereq version " + cmd.Version},
		{"contains commit field", "commit:"},
		{"contains built field", "built:"},
		{"contains go version", runtime.Version()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output missing %q\nGot:\n%s", tt.contains, output)
			}
		})
	}

	if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) != 4 {
		t.Errorf("version output has %d lines, want 4:\n%s", len(lines), output)
	}
}
