// Package pipeline runs a build as an ordered list of steps sharing one
// build context.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/thoreinstein/prereq/internal/buildenv"
)

// BuildContext is shared by every step of one build.
type BuildContext struct {
	// Workspace is the build's source tree.
	Workspace string

	// Env carries bindings from earlier steps to later ones.
	Env *buildenv.Environment

	Logger *slog.Logger
}

// Result is the outcome of a step.
type Result struct {
	Success bool
}

// BuildStep is one unit of a build.
type BuildStep interface {
	Name() string
	Run(ctx context.Context, bc *BuildContext) Result
}

// StepReport records how a step went.
type StepReport struct {
	Name     string
	Result   Result
	Duration time.Duration
}

// Report summarizes a pipeline run. Steps after the first failure are
// not run and do not appear.
type Report struct {
	Steps []StepReport
}

// Success reports whether every step that ran succeeded.
func (r Report) Success() bool {
	for _, s := range r.Steps {
		if !s.Result.Success {
			return false
		}
	}
	return true
}

// Failed returns the name of the failing step, or "" on success.
func (r Report) Failed() string {
	for _, s := range r.Steps {
		if !s.Result.Success {
			return s.Name
		}
	}
	return ""
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps []BuildStep
}

// New creates a pipeline of steps.
func New(steps ...BuildStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes the steps in order, stopping at the first failure or when
// ctx is canceled.
func (p *Pipeline) Run(ctx context.Context, bc *BuildContext) Report {
	if bc.Logger == nil {
		bc.Logger = slog.Default()
	}
	if bc.Env == nil {
		bc.Env = buildenv.New()
	}

	var report Report
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			bc.Logger.Warn("build canceled", "step", step.Name(), "error", err)
			report.Steps = append(report.Steps, StepReport{Name: step.Name()})
			break
		}

		bc.Logger.Debug("running step", "step", step.Name())
		start := time.Now()
		res := step.Run(ctx, bc)
		report.Steps = append(report.Steps, StepReport{
			Name:     step.Name(),
			Result:   res,
			Duration: time.Since(start),
		})

		if !res.Success {
			bc.Logger.Error("build step failed", "step", step.Name())
			break
		}
	}
	return report
}
