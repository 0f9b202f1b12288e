package pipeline

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/prereq"
	"github.com/thoreinstein/prereq/internal/runner"
)

// PrerequisitesStep installs the SDK and platforms the workspace needs and
// binds ANDROID_HOME for later steps.
type PrerequisitesStep struct {
	Orchestrator *prereq.Orchestrator
	Options      prereq.Options
}

// Name implements BuildStep.
func (s *PrerequisitesStep) Name() string { return "prerequisites" }

// Run implements BuildStep.
func (s *PrerequisitesStep) Run(ctx context.Context, bc *BuildContext) Result {
	return Result{Success: s.Orchestrator.EnsurePrerequisites(ctx, bc.Workspace, bc.Env, s.Options)}
}

// CommandStep runs a command in the workspace with the build environment
// applied on top of the process environment.
type CommandStep struct {
	Runner runner.Runner
	Args   []string
}

// Name implements BuildStep.
func (s *CommandStep) Name() string {
	if len(s.Args) == 0 {
		return "command"
	}
	return s.Args[0]
}

// Run implements BuildStep.
func (s *CommandStep) Run(ctx context.Context, bc *BuildContext) Result {
	if len(s.Args) == 0 {
		bc.Logger.Error("no command given")
		return Result{}
	}

	cmd := runner.Command{
		Name: s.Args[0],
		Args: s.Args[1:],
		Env:  bc.Env.Environ(os.Environ()),
		Dir:  bc.Workspace,
	}
	bc.Logger.Info("running build command", "command", cmd.String())
	if err := s.Runner.Run(ctx, cmd); err != nil {
		bc.Logger.Error("build command failed", "command", cmd.String(), "error", err)
		return Result{}
	}
	return Result{Success: true}
}

// DotenvStep writes the bindings collected so far to a file that shells and
// CI runners can source.
type DotenvStep struct {
	Path string

	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// Name implements BuildStep.
func (s *DotenvStep) Name() string { return "env-file" }

// Run implements BuildStep.
func (s *DotenvStep) Run(_ context.Context, bc *BuildContext) Result {
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := bc.Env.WriteDotenv(fs, s.Path); err != nil {
		bc.Logger.Error("writing env file failed", "path", s.Path, "error", err)
		return Result{}
	}
	bc.Logger.Debug("wrote env file", "path", s.Path)
	return Result{Success: true}
}
