package discover

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/fsys"
	"github.com/thoreinstein/prereq/internal/logging"
)

// workspace builds an in-memory workspace rooted at /ws.
func workspace(t *testing.T, files map[string]string) *fsys.Afero {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll("/ws", 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join("/ws", name)
		if err := mem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(mem, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys.New(mem, logging.ForTest(t))
}

// failingReads wraps a FileSystem and fails ReadText for selected paths.
type failingReads struct {
	fsys.FileSystem
	fail map[string]bool
}

func (f *failingReads) ReadText(path string) (string, error) {
	if f.fail[filepath.ToSlash(path)] {
		return "", errors.New("input/output error")
	}
	return f.FileSystem.ReadText(path)
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "same target in two files collapses to one",
			files: map[string]string{
				"app/project.properties": "target=android-19\n",
				"lib/default.properties": "target=android-19\n",
			},
			want: []string{"android-19"},
		},
		{
			name:  "no matching files",
			files: map[string]string{"build.gradle": "apply plugin: 'android'\n"},
			want:  []string{},
		},
		{
			name: "distinct targets",
			files: map[string]string{
				"app/project.properties": "target=android-21\n",
				"lib/project.properties": "target=android-16\n",
			},
			want: []string{"android-16", "android-21"},
		},
		{
			name: "whitespace is trimmed",
			files: map[string]string{
				"a/project.properties": "target =   android-19   \n",
				"b/project.properties": "target=android-19\n",
			},
			want: []string{"android-19"},
		},
		{
			name: "absent or blank target contributes nothing",
			files: map[string]string{
				"a/project.properties": "sdk.dir=/opt/sdk\n",
				"b/project.properties": "target=\n",
				"c/project.properties": "target=   \n",
				"d/project.properties": "target=Google Inc.:Google APIs:19\n",
			},
			want: []string{"Google Inc.:Google APIs:19"},
		},
		{
			name: "comments and blank lines are ignored",
			files: map[string]string{
				"project.properties": "# This file is automatically generated by Android Tools.\n\n! legacy comment\n#target=android-8\ntarget=android-17\nandroid.library=false\n",
			},
			want: []string{"android-17"},
		},
		{
			name: "colon separator and continuation lines",
			files: map[string]string{
				"a/default.properties": "target: android-10\n",
				"b/default.properties": "target=android-\\\n    15\n",
			},
			want: []string{"android-10", "android-15"},
		},
		{
			name: "property references are not expanded",
			files: map[string]string{
				"project.properties": "target=${base}\nbase=${target}\n",
			},
			want: []string{"${base}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(workspace(t, tt.files), logging.ForTest(t))

			got, err := d.Discover(t.Context(), "/ws")
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if !reflect.DeepEqual(got.Sorted(), tt.want) {
				t.Errorf("Discover() = %v, want %v", got.Sorted(), tt.want)
			}
		})
	}
}

func TestDiscover_PartialFailureIsolation(t *testing.T) {
	base := workspace(t, map[string]string{
		"app/project.properties":    "target=android-21\n",
		"broken/project.properties": "target=android-8\n",
		"lib/default.properties":    "target=android-16\n",
	})
	fs := &failingReads{FileSystem: base, fail: map[string]bool{"/ws/broken/project.properties": true}}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got, err := New(fs, logger).Discover(t.Context(), "/ws")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []string{"android-16", "android-21"}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("Discover() = %v, want %v", got.Sorted(), want)
	}

	out := buf.String()
	if !strings.Contains(out, "reading project file failed") || !strings.Contains(out, "broken/project.properties") {
		t.Errorf("expected parse failure to be logged with the file, got:\n%s", out)
	}
}

func TestDiscover_OversizedFileIsSkipped(t *testing.T) {
	huge := "target=android-3\n" + strings.Repeat("#", 2<<20)
	d := New(workspace(t, map[string]string{
		"huge/project.properties": huge,
		"app/project.properties":  "target=android-19\n",
	}), logging.ForTest(t))

	got, err := d.Discover(t.Context(), "/ws")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []string{"android-19"}; !reflect.DeepEqual(got.Sorted(), want) {
		t.Errorf("Discover() = %v, want %v", got.Sorted(), want)
	}
}

func TestDiscover_LogsOneLinePerPlatformFile(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	d := New(workspace(t, map[string]string{
		"app/project.properties": "target=android-19\n",
		"lib/default.properties": "target=android-19\n",
		"doc/project.properties": "name=docs\n",
	}), logger)

	if _, err := d.Discover(t.Context(), "/ws"); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "project has target platform"); n != 2 {
		t.Errorf("got %d platform log lines, want 2:\n%s", n, out)
	}
	for _, want := range []string{"file=app/project.properties", "file=lib/default.properties", "platform=android-19"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDiscover_UnreadableRoot(t *testing.T) {
	d := New(workspace(t, nil), logging.ForTest(t))

	_, err := d.Discover(t.Context(), "/missing")
	if !errors.Is(err, errors.ErrScan) {
		t.Errorf("Discover() error = %v, want ErrScan", err)
	}
}

func TestDiscover_DeterministicAcrossWorkerCounts(t *testing.T) {
	files := make(map[string]string)
	for i, api := range []string{"8", "10", "15", "16", "17", "19", "21", "23", "19", "21"} {
		files[filepath.Join("mod"+strings.Repeat("x", i), "project.properties")] = "target=android-" + api + "\n"
	}
	fs := workspace(t, files)

	first, err := New(fs, logging.ForTest(t), WithWorkers(1)).Discover(t.Context(), "/ws")
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{0, 2, 8, 32} {
		got, err := New(fs, logging.ForTest(t), WithWorkers(workers)).Discover(t.Context(), "/ws")
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(first) {
			t.Errorf("workers=%d: Discover() = %v, want %v", workers, got, first)
		}
	}
	if first.Len() != 8 {
		t.Errorf("Len() = %d, want 8", first.Len())
	}
}

func TestDiscover_CanceledContext(t *testing.T) {
	d := New(workspace(t, map[string]string{"project.properties": "target=android-19\n"}), logging.ForTest(t))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := d.Discover(ctx, "/ws")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Discover() error = %v, want context.Canceled", err)
	}
}
