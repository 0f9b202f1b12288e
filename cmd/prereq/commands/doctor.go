package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prereq/internal/config"
	"github.com/thoreinstein/prereq/internal/doctor"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"install missing platforms found by the checks")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "quiet", "verbose")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Diagnose SDK and configuration issues",
	Long: `Run diagnostic checks on the prereq configuration, the Android SDK, and the
platforms the workspace targets.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	root, err := workspaceArg(args)
	if err != nil {
		return err
	}

	c := activeConfig()
	svc := newServices(c, logging.FromContext(cmd.Context()))

	runner := doctor.NewRunner()
	runner.AddCheck(configCheck(c))
	runner.AddCheck(doctor.NewSDKLocationCheck(svc.locator, c.AutoInstall))
	runner.AddCheck(doctor.NewSDKToolsCheck(svc.fs, svc.locator))
	runner.AddCheck(doctor.NewProjectPlatformsCheck(svc.fs, svc.discoverer, svc.locator, svc.installer, root))

	report := runner.Run(cmd.Context())

	out := cmd.OutOrStdout()
	if err := outputDoctorReport(out, report); err != nil {
		return err
	}

	if doctorFix {
		fixed := applyFixes(cmd, runner)
		if fixed > 0 {
			// Re-run so the exit code reflects the repaired state.
			report = runner.Run(cmd.Context())
		}
	}

	// The report already explains the problems; only the exit code is left.
	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

// configCheck reports a config load failure, or validates the loaded config.
func configCheck(c *config.Config) doctor.Check {
	if configLoadErr != nil {
		return loadErrorCheck{err: configLoadErr}
	}
	return doctor.NewConfigCheck(c)
}

// loadErrorCheck reports a config file that could not be loaded at all.
type loadErrorCheck struct {
	err error
}

func (loadErrorCheck) Name() string     { return "config" }
func (loadErrorCheck) Category() string { return "config" }

func (c loadErrorCheck) Run(_ context.Context) *doctor.CheckResult {
	return &doctor.CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   doctor.SeverityError,
		Message:  c.err.Error(),
		FixHint:  "fix or remove the config file",
	}
}

// applyFixes runs every fixable check's Fix and prints the outcome.
// It returns the number of successful fixes.
func applyFixes(cmd *cobra.Command, runner *doctor.Runner) int {
	var fixed int
	for _, f := range runner.Fixable() {
		for _, res := range f.Fix(cmd.Context()) {
			if res.Fixed {
				fixed++
			}
			if doctorQuiet || doctorJSON {
				continue
			}
			if res.Error != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ fix %s: %s: %v\n", res.Target, res.Description, res.Error)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ fix %s: %s\n", res.Target, res.Description)
			}
		}
	}
	return fixed
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.DoctorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	// In normal mode, show only errors and warnings
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		icon := statusIcon(result.Status)
		fmt.Fprintf(w, "%s [%s] %s: %s\n", icon, result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
