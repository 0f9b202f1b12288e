package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	// Save/Restore original state
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelInfo},
		{"debug (1)", 1, slog.LevelDebug},
		{"trace (2)", 2, logging.LevelTrace},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"PREREQ_DEBUG=1", "1", slog.LevelDebug},
		{"PREREQ_DEBUG=true", "true", slog.LevelDebug},
		{"PREREQ_DEBUG=2", "2", logging.LevelTrace},
		{"PREREQ_DEBUG=0", "0", slog.LevelInfo},
		{"PREREQ_DEBUG=unknown", "foo", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("PREREQ_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}

			if tt.wantLevel == slog.LevelDebug {
				if logger.Enabled(t.Context(), logging.LevelTrace) {
					t.Error("expected Trace level to be disabled when PREREQ_DEBUG=1")
				}
			}
			if tt.wantLevel == slog.LevelInfo {
				if logger.Enabled(t.Context(), slog.LevelDebug) {
					t.Error("expected Debug level to be disabled by default")
				}
			}
		})
	}
}

func TestSetupLogging_FlagPrecedence(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	t.Setenv("PREREQ_DEBUG", "2")
	verbosity = 1

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected Debug level to be enabled")
	}
	if logger.Enabled(t.Context(), logging.LevelTrace) {
		t.Error("expected Trace level to be disabled (flag should override env var)")
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	origQuiet := quiet
	origVerbosity := verbosity
	defer func() {
		quiet = origQuiet
		verbosity = origVerbosity
	}()

	quiet = true
	verbosity = 0

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected Warn level to be disabled")
	}
}

func TestSetupLogging_QuietMutualExclusion(t *testing.T) {
	origVerbosity := verbosity
	origQuiet := quiet
	defer func() {
		verbosity = origVerbosity
		quiet = origQuiet
	}()

	verbosity = 1
	quiet = true

	err := setupLogging(rootCmd)
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
		t.Errorf("expected user error when both quiet and verbose are set, got %v", err)
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  []string
	}{
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: errors.ExitUser,
			wantOut:  []string{"Error: boom"},
		},
		{
			name:     "exit error with suggestion",
			err:      errors.NewSystemError(errors.New("prerequisites not satisfied"), "Run: prereq doctor"),
			wantCode: errors.ExitSystem,
			wantOut:  []string{"Error: prerequisites not satisfied", "Run: prereq doctor"},
		},
		{
			name:     "exit code only",
			err:      errors.NewExitError(nil, errors.ExitSystem),
			wantCode: errors.ExitSystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := ReportError(&buf, tt.err); got != tt.wantCode {
				t.Errorf("ReportError() = %d, want %d", got, tt.wantCode)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q missing %q", buf.String(), want)
				}
			}
			if len(tt.wantOut) == 0 && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}
}
