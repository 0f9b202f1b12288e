// Package sdk locates and installs the Android SDK and its platforms.
//
// The orchestrator only depends on the Locator and Installer interfaces.
// DirLocator and CommandInstaller are the implementations used by the CLI:
// the first checks well-known directories, the second drives a configured
// bootstrap command and the SDK's own sdkmanager.
package sdk

import (
	"context"

	"github.com/thoreinstein/prereq/internal/errors"
)

// HomeVar is the environment variable exported to later build steps.
const HomeVar = "ANDROID_HOME"

// SDK is a located or freshly installed Android SDK.
type SDK struct {
	// Root is the SDK installation directory.
	Root string
}

// Locator finds an existing SDK.
type Locator interface {
	// Locate returns the SDK, or an error matching errors.ErrSDKNotFound
	// when none exists.
	Locate(ctx context.Context) (*SDK, error)
}

// Installer installs the SDK and platforms into it.
type Installer interface {
	// Install installs a new SDK. Failures are *InstallationError.
	Install(ctx context.Context) (*SDK, error)

	// InstallPlatform makes platform available in sdk. Failures are
	// *InstallationError.
	InstallPlatform(ctx context.Context, sdk *SDK, platform string) error
}

// InstallationError reports a failed SDK or platform installation.
// It matches errors.ErrInstallation.
type InstallationError struct {
	// Component is "Android SDK" or the platform identifier.
	Component string
	Err       error
}

func (e *InstallationError) Error() string {
	return "installing " + e.Component + ": " + e.Err.Error()
}

func (e *InstallationError) Unwrap() error {
	return e.Err
}

// Is makes every InstallationError match errors.ErrInstallation.
func (e *InstallationError) Is(target error) bool {
	return target == errors.ErrInstallation
}
