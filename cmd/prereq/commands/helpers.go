package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/config"
	"github.com/thoreinstein/prereq/internal/discover"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/fsys"
	"github.com/thoreinstein/prereq/internal/runner"
	"github.com/thoreinstein/prereq/internal/sdk"
)

// services are the collaborators shared by the commands, built from config.
type services struct {
	fs         afero.Fs
	discoverer *discover.Discoverer
	locator    *sdk.DirLocator
	installer  *sdk.CommandInstaller
}

// newServices wires the discoverer, locator and installer for c.
func newServices(c *config.Config, logger *slog.Logger) *services {
	osFs := fsys.NewOS(logger)
	exec := &runner.Exec{Stdout: os.Stderr, Stderr: os.Stderr}

	return &services{
		fs:         osFs.Fs(),
		discoverer: discover.New(osFs, logger, discover.WithWorkers(c.ScanWorkers)),
		locator:    sdk.NewDirLocator(osFs.Fs(), logger, sdk.Candidates(c.SDKRoot, c.InstallDir, os.Getenv)...),
		installer:  sdk.NewCommandInstaller(osFs.Fs(), exec, logger, c.InstallDir, c.BootstrapArgs(c.InstallDir)),
	}
}

// activeConfig returns the loaded config, or defaults when loading failed.
func activeConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.Default()
}

// workspaceArg returns the absolute workspace directory from args, defaulting
// to the current directory.
func workspaceArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", dir)
	}
	return abs, nil
}

// ReportError prints err, and its suggestion if it has one, to w and returns
// the process exit code.
func ReportError(w io.Writer, err error) int {
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return errors.ExitUser
	}

	if exitErr.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
	}
	if exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
	return exitErr.Code
}
