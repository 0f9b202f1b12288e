package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/prereq/internal/discover"
	"github.com/thoreinstein/prereq/internal/sdk"
)

// PlatformDiscoverer returns the platforms a workspace targets.
type PlatformDiscoverer interface {
	Discover(ctx context.Context, root string) (discover.PlatformSet, error)
}

// ProjectPlatformsCheck verifies every platform the workspace targets is
// installed in the SDK. Missing platforms can be installed with Fix.
type ProjectPlatformsCheck struct {
	fs         afero.Fs
	discoverer PlatformDiscoverer
	locator    sdk.Locator
	installer  sdk.Installer
	workspace  string

	// Set by Run for Fix.
	android *sdk.SDK
	missing []string
}

var (
	_ Check = (*ProjectPlatformsCheck)(nil)
	_ Fixer = (*ProjectPlatformsCheck)(nil)
)

// NewProjectPlatformsCheck creates the check for workspace. installer may be
// nil, in which case nothing is fixable.
func NewProjectPlatformsCheck(fs afero.Fs, d PlatformDiscoverer, l sdk.Locator, i sdk.Installer, workspace string) *ProjectPlatformsCheck {
	return &ProjectPlatformsCheck{
		fs:         fs,
		discoverer: d,
		locator:    l,
		installer:  i,
		workspace:  workspace,
	}
}

// Name returns the unique identifier for this check.
func (c *ProjectPlatformsCheck) Name() string {
	return "project-platforms"
}

// Category returns the grouping for this check.
func (c *ProjectPlatformsCheck) Category() string {
	return "workspace"
}

// Run executes the check.
func (c *ProjectPlatformsCheck) Run(ctx context.Context) *CheckResult {
	c.android, c.missing = nil, nil

	platforms, err := c.discoverer.Discover(ctx, c.workspace)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  err.Error(),
		}
	}
	if platforms.Empty() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no Android projects found",
		}
	}

	details := map[string]any{"platforms": platforms.Sorted()}
	android, err := c.locator.Locate(ctx)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  fmt.Sprintf("%d platform(s) required but no Android SDK located", platforms.Len()),
			Details:  details,
		}
	}

	var missing []string
	for _, p := range platforms.Sorted() {
		if !android.PlatformInstalled(c.fs, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("%d platform(s) installed", platforms.Len()),
			Details:  details,
		}
	}

	c.android, c.missing = android, missing
	details["missing"] = missing
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityWarning,
		Message:  "missing platforms: " + strings.Join(missing, ", "),
		Details:  details,
		Fixable:  c.installer != nil,
		FixHint:  "run: prereq ensure, or prereq doctor --fix",
	}
}

// CanFix returns true if Run found missing platforms and an installer is set.
func (c *ProjectPlatformsCheck) CanFix() bool {
	return c.installer != nil && len(c.missing) > 0
}

// Fix installs the missing platforms found by Run.
func (c *ProjectPlatformsCheck) Fix(ctx context.Context) []FixResult {
	if !c.CanFix() {
		return nil
	}

	results := make([]FixResult, 0, len(c.missing))
	for _, p := range c.missing {
		res := FixResult{Target: p}
		if err := c.installer.InstallPlatform(ctx, c.android, p); err != nil {
			res.Description = "install failed"
			res.Error = err
		} else {
			res.Fixed = true
			res.Description = "installed"
		}
		results = append(results, res)
	}
	return results
}
