package doctor

import (
	"context"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/sdk"
)

// SDKLocationCheck verifies that an Android SDK can be located.
type SDKLocationCheck struct {
	locator     sdk.Locator
	autoInstall bool
}

var _ Check = (*SDKLocationCheck)(nil)

// NewSDKLocationCheck creates the check. A missing SDK is a warning when
// autoInstall is set, since the next run installs it, and an error otherwise.
func NewSDKLocationCheck(l sdk.Locator, autoInstall bool) *SDKLocationCheck {
	return &SDKLocationCheck{locator: l, autoInstall: autoInstall}
}

// Name returns the unique identifier for this check.
func (c *SDKLocationCheck) Name() string {
	return "sdk-location"
}

// Category returns the grouping for this check.
func (c *SDKLocationCheck) Category() string {
	return "sdk"
}

// Run executes the check.
func (c *SDKLocationCheck) Run(ctx context.Context) *CheckResult {
	android, err := c.locator.Locate(ctx)
	switch {
	case err == nil:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "Android SDK found at " + android.Root,
			Details:  map[string]any{"root": android.Root},
		}
	case !errors.Is(err, errors.ErrSDKNotFound):
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "locating Android SDK: " + err.Error(),
		}
	case c.autoInstall:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "Android SDK not found; it will be installed on the next run",
			FixHint:  "set bootstrap_command so the SDK can be installed",
		}
	default:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "Android SDK not found and automatic installation is disabled",
			FixHint:  "set ANDROID_HOME or sdk_root, or enable auto_install",
		}
	}
}

// SDKToolsCheck verifies the located SDK has a tool that installs platforms.
type SDKToolsCheck struct {
	fs      afero.Fs
	locator sdk.Locator
}

var _ Check = (*SDKToolsCheck)(nil)

// NewSDKToolsCheck creates the check.
func NewSDKToolsCheck(fs afero.Fs, l sdk.Locator) *SDKToolsCheck {
	return &SDKToolsCheck{fs: fs, locator: l}
}

// Name returns the unique identifier for this check.
func (c *SDKToolsCheck) Name() string {
	return "sdk-tools"
}

// Category returns the grouping for this check.
func (c *SDKToolsCheck) Category() string {
	return "sdk"
}

// Run executes the check.
func (c *SDKToolsCheck) Run(ctx context.Context) *CheckResult {
	android, err := c.locator.Locate(ctx)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "skipped: no Android SDK located",
		}
	}

	tool, ok := sdk.FindTool(c.fs, android.Root)
	switch {
	case !ok:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "no sdkmanager or android tool in " + android.Root,
			FixHint:  "install the Android command-line tools into the SDK",
		}
	case tool.Legacy:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "only the legacy android tool is available",
			Details:  map[string]any{"tool": tool.Path},
			FixHint:  "install cmdline-tools to get sdkmanager",
		}
	default:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "sdkmanager available",
			Details:  map[string]any{"tool": tool.Path},
		}
	}
}
