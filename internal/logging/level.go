package logging

import "log/slog"

// LevelTrace is below Debug and enables the most detailed output.
const LevelTrace = slog.LevelDebug - 4

// LevelFromVerbosity maps the count of -v flags to a log level.
// Build steps report their progress at Info, so Info is the default.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelInfo
	case v == 1:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
