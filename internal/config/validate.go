package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNegativeWorkers indicates scan_workers is below zero.
	ErrNegativeWorkers = errors.New("scan_workers must be >= 0")

	// ErrEmptyArgument indicates bootstrap_command contains an empty argument.
	ErrEmptyArgument = errors.New("bootstrap_command contains an empty argument")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version))
	}

	if cfg.ScanWorkers < 0 {
		errs = append(errs, ErrNegativeWorkers)
	}

	if cfg.SDKRoot != "" {
		if err := validatePath(cfg.SDKRoot); err != nil {
			errs = append(errs, &PathError{
				Field: "sdk_root",
				Path:  cfg.SDKRoot,
				Err:   err,
			})
		}
	}

	if cfg.InstallDir != "" {
		if err := validatePath(cfg.InstallDir); err != nil {
			errs = append(errs, &PathError{
				Field: "install_dir",
				Path:  cfg.InstallDir,
				Err:   err,
			})
		}
	}

	for _, arg := range cfg.BootstrapCommand {
		if strings.TrimSpace(arg) == "" {
			errs = append(errs, ErrEmptyArgument)
			break
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
