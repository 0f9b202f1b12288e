// Package runner executes external commands for build steps and SDK tools.
package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Command describes a process to run.
type Command struct {
	// Name is the program, resolved through PATH when it has no separator.
	Name string

	// Args are passed after Name.
	Args []string

	// Env replaces the process environment when non-nil.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdin is connected to the process input when set.
	Stdin io.Reader
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Exec runs commands as child processes.
// Output is streamed to Stdout and Stderr, which default to os.Stderr so
// machine-readable output on os.Stdout stays clean.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*Exec)(nil)

// Run starts cmd and waits for it to exit. A non-zero exit status or a
// canceled context is returned as an error.
func (e *Exec) Run(ctx context.Context, cmd Command) error {
	if cmd.Name == "" {
		return errors.New("empty command")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stderr
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "running %s", cmd.Name)
	}
	return nil
}
