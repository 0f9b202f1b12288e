// Package errors provides error handling conventions for the prereq CLI.
//
// This package defines sentinel errors for the failure kinds of a
// prerequisite run, an ExitError type for CLI exit code handling, exit code
// constants following standard Unix conventions, and wrapping helpers backed
// by github.com/cockroachdb/errors.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, prereqerrors.ErrSDKNotFound) {
//	    // no SDK located, decide whether to install one
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, installation, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := prereqerrors.NewUserError(prereqerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *prereqerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
