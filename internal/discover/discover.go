// Package discover finds the Android platforms required by the project files
// in a workspace.
package discover

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/magiconair/properties"
	"github.com/sourcegraph/conc/pool"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/fsys"
)

// Patterns are the project files scanned for a target platform: the legacy
// default.properties and its successor project.properties.
var Patterns = []string{"**/default.properties", "**/project.properties"}

// TargetKey is the property naming a project's target platform.
const TargetKey = "target"

// Discoverer scans a workspace for project files and collects their target
// platforms.
type Discoverer struct {
	fs      fsys.FileSystem
	logger  *slog.Logger
	workers int
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithWorkers bounds the number of project files parsed concurrently.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Discoverer) {
		d.workers = n
	}
}

// New creates a Discoverer reading through fs and logging to logger.
func New(fs fsys.FileSystem, logger *slog.Logger, opts ...Option) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Discoverer{fs: fs, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	return d
}

// Discover returns the set of target platforms referenced by project files
// under root.
//
// It fails only when root itself cannot be scanned (errors.ErrScan) or ctx
// is canceled. A project file that cannot be read or parsed is logged and
// contributes nothing.
func (d *Discoverer) Discover(ctx context.Context, root string) (PlatformSet, error) {
	files, err := d.fs.Scan(root, Patterns)
	if err != nil {
		return PlatformSet{}, err
	}
	d.logger.Debug("found project files", "root", root, "count", len(files))

	var (
		mu  sync.Mutex
		ids = make([]string, 0, len(files))
	)

	p := pool.New().WithMaxGoroutines(d.workers)
	for _, rel := range files {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			platform, err := d.platformFromFile(root, rel)
			if err != nil {
				d.logger.Warn("reading project file failed", "file", rel, "error", err)
				return
			}
			if platform == "" {
				return
			}
			d.logger.Info("project has target platform", "file", rel, "platform", platform)

			mu.Lock()
			ids = append(ids, platform)
			mu.Unlock()
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return PlatformSet{}, err
	}
	return NewPlatformSet(ids...), nil
}

// platformFromFile returns the trimmed target of the project file at rel,
// or "" when the file has no target.
func (d *Discoverer) platformFromFile(root, rel string) (string, error) {
	text, err := d.fs.ReadText(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fileParseError(rel, err)
	}

	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes([]byte(text))
	if err != nil {
		return "", fileParseError(rel, err)
	}

	target, ok := props.Get(TargetKey)
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(target), nil
}

func fileParseError(rel string, err error) error {
	return errors.Mark(errors.Wrapf(err, "parsing %s", rel), errors.ErrFileParse)
}
