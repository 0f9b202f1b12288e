package sdk

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
)

// Candidate is a directory that may hold an SDK, with where it came from.
type Candidate struct {
	Source string
	Path   string
}

// DirLocator returns the first candidate directory that holds an SDK.
type DirLocator struct {
	fs         afero.Fs
	logger     *slog.Logger
	candidates []Candidate
}

var _ Locator = (*DirLocator)(nil)

// NewDirLocator creates a locator checking candidates in order.
func NewDirLocator(fs afero.Fs, logger *slog.Logger, candidates ...Candidate) *DirLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirLocator{fs: fs, logger: logger, candidates: candidates}
}

// Candidates returns the search order: the configured sdkRoot, ANDROID_HOME,
// ANDROID_SDK_ROOT, then installDir.
func Candidates(sdkRoot, installDir string, getenv func(string) string) []Candidate {
	return []Candidate{
		{Source: "config sdk_root", Path: sdkRoot},
		{Source: HomeVar, Path: getenv(HomeVar)},
		{Source: "ANDROID_SDK_ROOT", Path: getenv("ANDROID_SDK_ROOT")},
		{Source: "config install_dir", Path: installDir},
	}
}

// Locate implements Locator.
func (l *DirLocator) Locate(ctx context.Context) (*SDK, error) {
	for _, c := range l.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Path == "" {
			continue
		}
		if !IsSDK(l.fs, c.Path) {
			l.logger.Debug("no Android SDK at candidate", "source", c.Source, "path", c.Path)
			continue
		}

		root := c.Path
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		l.logger.Debug("located Android SDK", "source", c.Source, "root", root)
		return &SDK{Root: root}, nil
	}
	return nil, errors.ErrSDKNotFound
}
