// Package fsys provides the filesystem capability the platform discoverer
// scans through.
//
// The capability is two operations, Scan and ReadText, so the resolver logic
// does not care whether the workspace is on the local disk, in memory (tests),
// or behind a remote build agent; any afero.Fs can back it.
package fsys

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/pkg/fileutil"
)

// DefaultExcludes are directory names never descended into during a scan.
var DefaultExcludes = []string{".git", ".svn", ".hg", ".bzr", "CVS"}

// FileSystem scans a tree for files matching glob patterns and reads them.
type FileSystem interface {
	// Scan returns the slash-separated paths, relative to root, of all
	// files matching any pattern. The result is sorted.
	Scan(root string, patterns []string) ([]string, error)

	// ReadText returns the content of the file at path.
	ReadText(path string) (string, error)
}

// Afero implements FileSystem on top of an afero.Fs.
type Afero struct {
	fs       afero.Fs
	logger   *slog.Logger
	excludes map[string]struct{}
}

var _ FileSystem = (*Afero)(nil)

// New returns a FileSystem backed by fsys.
func New(fsys afero.Fs, logger *slog.Logger) *Afero {
	if logger == nil {
		logger = slog.Default()
	}
	excludes := make(map[string]struct{}, len(DefaultExcludes))
	for _, name := range DefaultExcludes {
		excludes[name] = struct{}{}
	}
	return &Afero{fs: fsys, logger: logger, excludes: excludes}
}

// NewOS returns a FileSystem backed by the local disk.
func NewOS(logger *slog.Logger) *Afero {
	return New(afero.NewOsFs(), logger)
}

// Fs returns the underlying afero filesystem.
func (a *Afero) Fs() afero.Fs {
	return a.fs
}

// Scan walks root and collects files matching any of the Ant-style patterns.
// A leading "**/" also matches files in root itself.
//
// Failing to read root is a scan error. Unreadable directories below root
// are logged and skipped.
func (a *Afero) Scan(root string, patterns []string) ([]string, error) {
	matchers, err := compile(patterns)
	if err != nil {
		return nil, err
	}

	info, err := a.fs.Stat(root)
	if err != nil {
		return nil, scanError(root, err)
	}
	if !info.IsDir() {
		return nil, scanError(root, errors.Newf("%s is not a directory", root))
	}

	var matched []string
	walkErr := afero.Walk(a.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			a.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if _, skip := a.excludes[info.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, m := range matchers {
			if m.Match("/" + rel) {
				matched = append(matched, rel)
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, scanError(root, walkErr)
	}

	sort.Strings(matched)
	return matched, nil
}

// ReadText reads the file at path, refusing files over fileutil.MaxFileSize.
func (a *Afero) ReadText(path string) (string, error) {
	data, err := fileutil.ReadFileWithLimit(a.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// compile turns Ant-style patterns into matchers applied to "/"+relative path,
// so that "**/name" matches at any depth including the root.
func compile(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		expr := filepath.ToSlash(p)
		if !strings.HasPrefix(expr, "**") && !strings.HasPrefix(expr, "/") {
			expr = "/" + expr
		}
		g, err := glob.Compile(expr, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "compiling pattern %q", p)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

func scanError(root string, err error) error {
	return errors.Mark(errors.Wrapf(err, "scanning %s", root), errors.ErrScan)
}
