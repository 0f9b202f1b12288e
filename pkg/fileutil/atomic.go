// Package fileutil provides file helpers shared by the commands: atomic
// writes and size-limited reads, both on an afero.Fs.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
)

// AtomicWriteFile replaces path with data by writing a temp file in the
// same directory and renaming it over path. A failed write leaves any
// existing file untouched. The parent directory must already exist.
func AtomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".prereq-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = fs.Chmod(name, perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err = fs.Rename(name, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}
