// Package prereq makes sure the Android SDK and the platforms a workspace
// targets are installed before a build runs.
//
// A run moves through fixed phases:
//
//	discover -> locate SDK -> install SDK (if needed and allowed)
//	         -> bind ANDROID_HOME -> install platforms -> done
//
// A workspace without project files finishes right after discovery.
package prereq

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thoreinstein/prereq/internal/buildenv"
	"github.com/thoreinstein/prereq/internal/discover"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/sdk"
)

// Discoverer returns the platforms targeted by the project files under root.
type Discoverer interface {
	Discover(ctx context.Context, root string) (discover.PlatformSet, error)
}

// Options controls a single run.
type Options struct {
	// AutoInstall allows installing the SDK when none is located.
	AutoInstall bool

	// FailFast stops platform installation at the first failure. Otherwise
	// every platform is attempted and the failures are reported together.
	FailFast bool
}

// Orchestrator drives a prerequisite run against its collaborators.
type Orchestrator struct {
	discoverer Discoverer
	locator    sdk.Locator
	installer  sdk.Installer
	logger     *slog.Logger
}

// New creates an Orchestrator.
func New(d Discoverer, l sdk.Locator, i sdk.Installer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		discoverer: d,
		locator:    l,
		installer:  i,
		logger:     logger,
	}
}

// EnsurePrerequisites runs Run and reports only whether it succeeded.
// Failure details go to the log.
func (o *Orchestrator) EnsurePrerequisites(ctx context.Context, root string, env *buildenv.Environment, opts Options) bool {
	return o.Run(ctx, root, env, opts) == nil
}

// Run ensures the SDK and the workspace's platforms are installed and binds
// sdk.HomeVar in env to the SDK root.
//
// The returned error matches errors.ErrScan when root cannot be scanned,
// errors.ErrSDKNotFound when no SDK exists and opts.AutoInstall is off,
// errors.ErrInstallation when the SDK install fails, and
// errors.ErrPlatformInstall when one or more platforms could not be
// installed. Every failure is logged before it is returned.
func (o *Orchestrator) Run(ctx context.Context, root string, env *buildenv.Environment, opts Options) error {
	o.logger.Info("finding project prerequisites", "root", root)

	platforms, err := o.discoverer.Discover(ctx, root)
	if err != nil {
		o.logger.Error("scanning workspace failed", "root", root, "error", err)
		return err
	}
	if platforms.Empty() {
		o.logger.Info("no Android projects found", "root", root)
		return nil
	}

	android, err := o.resolveSDK(ctx, opts)
	if err != nil {
		return err
	}

	if err := env.Bind(sdk.HomeVar, android.Root); err != nil {
		o.logger.Error("binding SDK location failed", "var", sdk.HomeVar, "error", err)
		return err
	}

	o.logger.Info("ensuring platforms are installed", "platforms", platforms.String(), "sdk", android.Root)
	return o.installPlatforms(ctx, android, platforms, opts.FailFast)
}

// resolveSDK locates the SDK, installing it when allowed.
func (o *Orchestrator) resolveSDK(ctx context.Context, opts Options) (*sdk.SDK, error) {
	android, err := o.locator.Locate(ctx)
	switch {
	case err == nil:
		o.logger.Debug("using Android SDK", "root", android.Root)
		return android, nil
	case !errors.Is(err, errors.ErrSDKNotFound):
		o.logger.Error("locating Android SDK failed", "error", err)
		return nil, err
	}

	if !opts.AutoInstall {
		o.logger.Error("Android SDK not found and automatic installation is disabled")
		return nil, errors.ErrSDKNotFound
	}

	o.logger.Info("installing Android SDK")
	android, err = o.installer.Install(ctx)
	if err != nil {
		o.logger.Error("Android SDK installation failed", "error", err)
		return nil, errors.Mark(err, errors.ErrInstallation)
	}
	return android, nil
}

// installPlatforms installs each platform in sorted order.
func (o *Orchestrator) installPlatforms(ctx context.Context, android *sdk.SDK, platforms discover.PlatformSet, failFast bool) error {
	var (
		failed []string
		errs   []error
	)
	for _, p := range platforms.Sorted() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := o.installer.InstallPlatform(ctx, android, p)
		if err == nil {
			continue
		}
		o.logger.Error("platform installation failed", "platform", p, "error", err)
		failed = append(failed, p)
		errs = append(errs, err)
		if failFast {
			break
		}
	}

	if len(failed) == 0 {
		return nil
	}
	err := errors.Wrapf(errors.Join(errs...), "platforms %s", strings.Join(failed, ", "))
	return errors.Mark(err, errors.ErrPlatformInstall)
}
