package sdk

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/runner"
)

// licenseAnswers accepts every license prompt sdkmanager shows.
var licenseAnswers = strings.Repeat("y\n", 32)

// CommandInstaller installs the SDK with a bootstrap command and platforms
// with the SDK's own tool.
type CommandInstaller struct {
	fs         afero.Fs
	run        runner.Runner
	logger     *slog.Logger
	installDir string
	bootstrap  []string
}

var _ Installer = (*CommandInstaller)(nil)

// NewCommandInstaller creates an installer. bootstrap is the full argv that
// populates installDir with the SDK tools; it may be empty, in which case
// Install always fails.
func NewCommandInstaller(fs afero.Fs, run runner.Runner, logger *slog.Logger, installDir string, bootstrap []string) *CommandInstaller {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandInstaller{
		fs:         fs,
		run:        run,
		logger:     logger,
		installDir: installDir,
		bootstrap:  bootstrap,
	}
}

// Install implements Installer. The returned root is absolute so it stays
// valid for commands run from another directory.
func (i *CommandInstaller) Install(ctx context.Context) (*SDK, error) {
	if len(i.bootstrap) == 0 {
		return nil, installErr("Android SDK", errors.New("no bootstrap_command configured"))
	}
	if i.installDir == "" {
		return nil, installErr("Android SDK", errors.New("no install_dir configured"))
	}
	dir, err := filepath.Abs(i.installDir)
	if err != nil {
		return nil, installErr("Android SDK", errors.Wrapf(err, "resolving %s", i.installDir))
	}

	if err := i.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, installErr("Android SDK", errors.Wrapf(err, "creating %s", dir))
	}

	cmd := runner.Command{Name: i.bootstrap[0], Args: i.bootstrap[1:]}
	i.logger.Debug("running SDK bootstrap", "command", cmd.String(), "dir", dir)
	if err := i.run.Run(ctx, cmd); err != nil {
		return nil, installErr("Android SDK", err)
	}

	if !IsSDK(i.fs, dir) {
		return nil, installErr("Android SDK", errors.Newf("no SDK tools found in %s after bootstrap", dir))
	}
	return &SDK{Root: dir}, nil
}

// InstallPlatform implements Installer. Only the packages of platform not
// already present in the SDK are requested.
func (i *CommandInstaller) InstallPlatform(ctx context.Context, sdk *SDK, platform string) error {
	missing := sdk.MissingPackages(i.fs, platform)
	if len(missing) == 0 {
		i.logger.Debug("platform already installed", "platform", platform, "root", sdk.Root)
		return nil
	}

	tool, ok := FindTool(i.fs, sdk.Root)
	if !ok {
		return installErr(platform, errors.Newf("no sdkmanager or android tool in %s", sdk.Root))
	}

	cmd := platformCommand(tool, sdk.Root, missing)
	i.logger.Info("installing platform", "platform", platform, "command", cmd.String())
	if err := i.run.Run(ctx, cmd); err != nil {
		return installErr(platform, err)
	}
	return nil
}

// platformCommand builds one tool invocation installing pkgs.
func platformCommand(tool Tool, root string, pkgs []Package) runner.Command {
	if tool.Legacy {
		ids := make([]string, len(pkgs))
		for n, p := range pkgs {
			ids[n] = p.ID()
		}
		return runner.Command{
			Name:  tool.Path,
			Args:  []string{"update", "sdk", "--no-ui", "--all", "--filter", strings.Join(ids, ",")},
			Stdin: strings.NewReader(licenseAnswers),
		}
	}

	args := []string{"--sdk_root=" + root}
	for _, p := range pkgs {
		args = append(args, p.Path)
	}
	return runner.Command{
		Name:  tool.Path,
		Args:  args,
		Stdin: strings.NewReader(licenseAnswers),
	}
}

func installErr(component string, err error) *InstallationError {
	return &InstallationError{Component: component, Err: err}
}
