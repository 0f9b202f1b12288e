package doctor

import (
	"context"

	"github.com/thoreinstein/prereq/internal/config"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check for cfg.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run validates the configuration.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "configuration is valid",
		}
	}

	problems := make([]string, 0, len(errs))
	for _, err := range errs {
		problems = append(problems, err.Error())
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityError,
		Message:  problems[0],
		Details:  map[string]any{"problems": problems},
		FixHint:  "edit config.yaml or the PREREQ_* environment variables",
	}
}
