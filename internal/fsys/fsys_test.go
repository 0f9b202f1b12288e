package fsys

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
)

var projectPatterns = []string{"**/default.properties", "**/project.properties"}

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/ws", 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join("/ws", name)
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func TestScan(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		patterns []string
		want     []string
	}{
		{
			name: "matches at every depth including root",
			files: map[string]string{
				"project.properties":                  "",
				"app/project.properties":              "",
				"lib/default.properties":              "",
				"deep/nested/tree/default.properties": "",
			},
			patterns: projectPatterns,
			want: []string{
				"app/project.properties",
				"deep/nested/tree/default.properties",
				"lib/default.properties",
				"project.properties",
			},
		},
		{
			name: "ignores similar names",
			files: map[string]string{
				"app/myproject.properties":     "",
				"app/project.properties.bak":   "",
				"app/local.properties":         "",
				"app/project.properties/x.txt": "",
			},
			patterns: projectPatterns,
			want:     nil,
		},
		{
			name: "skips version control directories",
			files: map[string]string{
				".git/project.properties":     "",
				"app/.svn/default.properties": "",
				"app/project.properties":      "",
			},
			patterns: projectPatterns,
			want:     []string{"app/project.properties"},
		},
		{
			name: "anchored pattern",
			files: map[string]string{
				"app/project.properties": "",
				"lib/project.properties": "",
			},
			patterns: []string{"app/project.properties"},
			want:     []string{"app/project.properties"},
		},
		{
			name:     "empty tree",
			files:    map[string]string{},
			patterns: projectPatterns,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := New(memFS(t, tt.files), logging.ForTest(t))

			got, err := fs.Scan("/ws", tt.patterns)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScan_RootErrors(t *testing.T) {
	fsys := memFS(t, map[string]string{"file.txt": "x"})
	fs := New(fsys, logging.ForTest(t))

	t.Run("missing root", func(t *testing.T) {
		_, err := fs.Scan("/nope", projectPatterns)
		if !errors.Is(err, errors.ErrScan) {
			t.Errorf("Scan() error = %v, want ErrScan", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		_, err := fs.Scan("/ws/file.txt", projectPatterns)
		if !errors.Is(err, errors.ErrScan) {
			t.Errorf("Scan() error = %v, want ErrScan", err)
		}
	})
}

func TestScan_InvalidPattern(t *testing.T) {
	fs := New(memFS(t, nil), logging.ForTest(t))

	_, err := fs.Scan("/ws", []string{"[unterminated"})
	if err == nil {
		t.Fatal("Scan() with invalid pattern should error")
	}
	if errors.Is(err, errors.ErrScan) {
		t.Error("an invalid pattern is not a scan error")
	}
}

func TestScan_UnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := t.TempDir()
	for _, dir := range []string{"app", "locked"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, dir, "project.properties"), []byte("target=android-19\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got, err := NewOS(logging.ForTest(t)).Scan(root, projectPatterns)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if want := []string{"app/project.properties"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestReadText(t *testing.T) {
	fs := New(memFS(t, map[string]string{"app/project.properties": "target=android-21\n"}), logging.ForTest(t))

	got, err := fs.ReadText("/ws/app/project.properties")
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "target=android-21\n" {
		t.Errorf("ReadText() = %q", got)
	}

	if _, err := fs.ReadText("/ws/missing"); err == nil {
		t.Error("ReadText() on missing file should error")
	}
}
