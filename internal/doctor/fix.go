package doctor

import "context"

// Fixer is an optional interface that checks can implement to support
// auto-remediation with the --fix flag.
type Fixer interface {
	// CanFix returns true if the last Run found something it can repair.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run.
	// Must be called after Run.
	Fix(ctx context.Context) []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Target is what the fix acted on, such as a platform identifier.
	Target string

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool

	// Description explains what was fixed or why it couldn't be fixed.
	Description string

	// Error contains the error if the fix failed.
	Error error
}
