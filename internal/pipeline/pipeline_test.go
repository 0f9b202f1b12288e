package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/prereq/internal/buildenv"
	"github.com/thoreinstein/prereq/internal/discover"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
	"github.com/thoreinstein/prereq/internal/prereq"
	"github.com/thoreinstein/prereq/internal/runner"
	"github.com/thoreinstein/prereq/internal/sdk"
)

type fakeStep struct {
	name    string
	success bool
	ran     *[]string
}

func (s fakeStep) Name() string { return s.name }

func (s fakeStep) Run(context.Context, *BuildContext) Result {
	*s.ran = append(*s.ran, s.name)
	return Result{Success: s.success}
}

func TestPipeline_Run(t *testing.T) {
	tests := []struct {
		name        string
		results     []bool
		wantRan     []string
		wantSuccess bool
		wantFailed  string
	}{
		{
			name:        "all succeed",
			results:     []bool{true, true, true},
			wantRan:     []string{"s0", "s1", "s2"},
			wantSuccess: true,
		},
		{
			name:        "stops at first failure",
			results:     []bool{true, false, true},
			wantRan:     []string{"s0", "s1"},
			wantSuccess: false,
			wantFailed:  "s1",
		},
		{
			name:        "no steps",
			wantSuccess: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran []string
			steps := make([]BuildStep, 0, len(tt.results))
			for i, ok := range tt.results {
				steps = append(steps, fakeStep{name: "s" + string(rune('0'+i)), success: ok, ran: &ran})
			}

			report := New(steps...).Run(context.Background(), &BuildContext{Logger: logging.ForTest(t)})

			if !slices.Equal(ran, tt.wantRan) {
				t.Errorf("ran = %v, want %v", ran, tt.wantRan)
			}
			if report.Success() != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", report.Success(), tt.wantSuccess)
			}
			if report.Failed() != tt.wantFailed {
				t.Errorf("Failed() = %q, want %q", report.Failed(), tt.wantFailed)
			}
			if len(report.Steps) != len(tt.wantRan) {
				t.Errorf("report has %d steps, want %d", len(report.Steps), len(tt.wantRan))
			}
		})
	}
}

func TestPipeline_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran []string
	report := New(fakeStep{name: "s0", success: true, ran: &ran}).Run(ctx, &BuildContext{Logger: logging.ForTest(t)})

	if len(ran) != 0 {
		t.Errorf("ran = %v, want nothing", ran)
	}
	if report.Success() {
		t.Error("canceled run should not succeed")
	}
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, cmd runner.Command) error {
	return m.Called(ctx, cmd).Error(0)
}

type stubDiscoverer struct {
	set discover.PlatformSet
}

func (s stubDiscoverer) Discover(context.Context, string) (discover.PlatformSet, error) {
	return s.set, nil
}

type stubLocator struct {
	sdk *sdk.SDK
}

func (s stubLocator) Locate(context.Context) (*sdk.SDK, error) {
	if s.sdk == nil {
		return nil, errors.ErrSDKNotFound
	}
	return s.sdk, nil
}

type stubInstaller struct{}

func (stubInstaller) Install(context.Context) (*sdk.SDK, error) {
	return nil, &sdk.InstallationError{Component: "Android SDK", Err: errors.New("offline")}
}

func (stubInstaller) InstallPlatform(context.Context, *sdk.SDK, string) error { return nil }

// ANDROID_HOME bound by the prerequisites step reaches the build command.
func TestPipeline_PrerequisitesThenCommand(t *testing.T) {
	logger := logging.ForTest(t)
	orch := prereq.New(
		stubDiscoverer{set: discover.NewPlatformSet("android-19")},
		stubLocator{sdk: &sdk.SDK{Root: "/opt/android"}},
		stubInstaller{},
		logger,
	)

	r := &mockRunner{}
	r.On("Run", mock.Anything, mock.MatchedBy(func(c runner.Command) bool {
		return c.Name == "ant" && slices.Equal(c.Args, []string{"debug"}) &&
			c.Dir == "/ws" && slices.Contains(c.Env, "ANDROID_HOME=/opt/android")
	})).Return(nil).Once()

	bc := &BuildContext{Workspace: "/ws", Env: buildenv.New(), Logger: logger}
	report := New(
		&PrerequisitesStep{Orchestrator: orch, Options: prereq.Options{AutoInstall: true}},
		&CommandStep{Runner: r, Args: []string{"ant", "debug"}},
	).Run(context.Background(), bc)

	if !report.Success() {
		t.Fatalf("report failed at %q", report.Failed())
	}
	r.AssertExpectations(t)
}

func TestPipeline_PrerequisitesFailureSkipsCommand(t *testing.T) {
	logger := logging.ForTest(t)
	orch := prereq.New(
		stubDiscoverer{set: discover.NewPlatformSet("android-19")},
		stubLocator{},
		stubInstaller{},
		logger,
	)
	r := &mockRunner{}

	report := New(
		&PrerequisitesStep{Orchestrator: orch, Options: prereq.Options{AutoInstall: true}},
		&CommandStep{Runner: r, Args: []string{"ant", "debug"}},
	).Run(context.Background(), &BuildContext{Workspace: "/ws", Logger: logger})

	if report.Failed() != "prerequisites" {
		t.Errorf("Failed() = %q, want prerequisites", report.Failed())
	}
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestCommandStep_Failure(t *testing.T) {
	r := &mockRunner{}
	r.On("Run", mock.Anything, mock.Anything).Return(errors.New("exit status 2"))

	step := &CommandStep{Runner: r, Args: []string{"gradle", "build"}}
	if step.Name() != "gradle" {
		t.Errorf("Name() = %q, want gradle", step.Name())
	}
	res := step.Run(context.Background(), &BuildContext{Env: buildenv.New(), Logger: logging.ForTest(t)})
	if res.Success {
		t.Error("Run() should fail when the command fails")
	}

	empty := &CommandStep{Runner: r}
	if empty.Run(context.Background(), &BuildContext{Env: buildenv.New(), Logger: logging.ForTest(t)}).Success {
		t.Error("empty command should fail")
	}
}

func TestDotenvStep(t *testing.T) {
	env := buildenv.New()
	_ = env.Bind("ANDROID_HOME", "/opt/android")
	path := filepath.Join(t.TempDir(), "prereq.env")

	res := (&DotenvStep{Path: path}).Run(context.Background(), &BuildContext{Env: env, Logger: logging.ForTest(t)})
	if !res.Success {
		t.Fatal("DotenvStep failed")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ANDROID_HOME='/opt/android'\n" {
		t.Errorf("env file = %q", got)
	}

	bad := &DotenvStep{Path: filepath.Join(t.TempDir(), "missing", "prereq.env")}
	if bad.Run(context.Background(), &BuildContext{Env: env, Logger: logging.ForTest(t)}).Success {
		t.Error("DotenvStep should fail when the directory does not exist")
	}
}
