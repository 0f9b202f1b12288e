// Package buildenv holds the environment bindings a build run exports to
// later build steps.
package buildenv

import (
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/pkg/fileutil"
)

// Binding is a single exported variable.
type Binding struct {
	Key   string
	Value string
}

// Environment collects bindings for one build run. Each key can be bound
// once. It is safe for concurrent use.
type Environment struct {
	mu   sync.RWMutex
	vars map[string]string
}

// New returns an empty Environment.
func New() *Environment {
	return &Environment{vars: make(map[string]string)}
}

// Bind attaches value to key. Binding a key a second time fails with
// errors.ErrAlreadyBound.
func (e *Environment) Bind(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return errors.Newf("invalid environment key %q", key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.vars[key]; ok {
		return errors.Mark(errors.Newf("%s already bound to %q", key, prev), errors.ErrAlreadyBound)
	}
	e.vars[key] = value
	return nil
}

// Lookup returns the value bound to key.
func (e *Environment) Lookup(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[key]
	return v, ok
}

// Bindings returns all bindings sorted by key.
func (e *Environment) Bindings() []Binding {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Binding, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, Binding{Key: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Binding) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Environ returns base with the bindings applied, in the KEY=value form used
// by os/exec. Bound keys replace any entry for the same key in base.
func (e *Environment) Environ(base []string) []string {
	bindings := e.Bindings()

	out := make([]string, 0, len(base)+len(bindings))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, bound := e.Lookup(k); bound {
			continue
		}
		out = append(out, kv)
	}
	for _, b := range bindings {
		out = append(out, b.Key+"="+b.Value)
	}
	return out
}

// WriteDotenv writes the bindings to path on fs as KEY=value lines that
// shells and CI runners can source. Values are single-quoted.
func (e *Environment) WriteDotenv(fs afero.Fs, path string) error {
	var sb strings.Builder
	for _, b := range e.Bindings() {
		sb.WriteString(b.Key)
		sb.WriteByte('=')
		sb.WriteString(quote(b.Value))
		sb.WriteByte('\n')
	}
	if err := fileutil.AtomicWriteFile(fs, path, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
