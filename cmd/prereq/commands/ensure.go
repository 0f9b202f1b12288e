package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/prereq/internal/buildenv"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
	"github.com/thoreinstein/prereq/internal/pipeline"
	"github.com/thoreinstein/prereq/internal/prereq"
	"github.com/thoreinstein/prereq/internal/runner"
)

var ensureEnvFile string

func init() {
	ensureCmd.Flags().Bool("auto-install", true,
		"install the Android SDK when none is found (default from config auto_install)")
	ensureCmd.Flags().Bool("no-auto-install", false,
		"never install the Android SDK")
	ensureCmd.Flags().Bool("fail-fast", false,
		"stop at the first platform that fails to install (default from config fail_fast)")
	ensureCmd.Flags().StringVar(&ensureEnvFile, "env-file", "",
		"write ANDROID_HOME to this file as KEY=value lines")
	ensureCmd.MarkFlagsMutuallyExclusive("auto-install", "no-auto-install")
	rootCmd.AddCommand(ensureCmd)
}

var ensureCmd = &cobra.Command{
	Use:   "ensure [dir] [-- command [args...]]",
	Short: "Install the SDK and platforms a workspace needs",
	Long: `Make sure the Android SDK and every platform the workspace targets are
installed, then optionally run a build command with ANDROID_HOME set.

Steps:
  1. Scan the workspace for target platforms. Nothing to do if there are none.
  2. Locate the Android SDK, installing it with bootstrap_command if allowed.
  3. Bind ANDROID_HOME to the SDK root.
  4. Install every missing platform. All platforms are attempted unless
     --fail-fast is set; any failure fails the command.
  5. Write --env-file and run the command after --, if given.`,
	Example: `  # Prepare the current workspace
  prereq ensure

  # Build once prerequisites are in place
  prereq ensure ./app -- ant debug

  # Export ANDROID_HOME for later CI steps
  prereq ensure --env-file prereq.env

See Also: prereq discover, prereq doctor`,
	RunE: runEnsure,
}

func runEnsure(cmd *cobra.Command, args []string) error {
	dirArgs, command := splitAtDash(cmd, args)
	if len(dirArgs) > 1 {
		return errors.NewUserError(errors.Newf("unexpected arguments: %v", dirArgs[1:]),
			"put the build command after --")
	}
	root, err := workspaceArg(dirArgs)
	if err != nil {
		return err
	}

	c := activeConfig()
	logger := logging.FromContext(cmd.Context())
	svc := newServices(c, logger)
	opts := ensureOptions(cmd.Flags(), c.AutoInstall, c.FailFast)

	orch := prereq.New(svc.discoverer, svc.locator, svc.installer, logger)
	steps := []pipeline.BuildStep{
		&pipeline.PrerequisitesStep{Orchestrator: orch, Options: opts},
	}
	if ensureEnvFile != "" {
		steps = append(steps, &pipeline.DotenvStep{Path: ensureEnvFile})
	}
	if len(command) > 0 {
		steps = append(steps, &pipeline.CommandStep{
			Runner: &runner.Exec{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
			Args:   command,
		})
	}

	report := pipeline.New(steps...).Run(cmd.Context(), &pipeline.BuildContext{
		Workspace: root,
		Env:       buildenv.New(),
		Logger:    logger,
	})
	if report.Success() {
		return nil
	}

	failed := report.Failed()
	if failed == "prerequisites" {
		return errors.NewSystemError(errors.New("prerequisites not satisfied"), "Run: prereq doctor")
	}
	return errors.NewExitError(errors.Newf("build step %q failed", failed), errors.ExitUser)
}

// ensureOptions applies the flags that were set on top of the config values.
func ensureOptions(flags *pflag.FlagSet, autoInstall, failFast bool) prereq.Options {
	if flags.Changed("auto-install") {
		autoInstall, _ = flags.GetBool("auto-install")
	}
	if off, _ := flags.GetBool("no-auto-install"); flags.Changed("no-auto-install") && off {
		autoInstall = false
	}
	if flags.Changed("fail-fast") {
		failFast, _ = flags.GetBool("fail-fast")
	}
	return prereq.Options{AutoInstall: autoInstall, FailFast: failFast}
}

// splitAtDash separates positional args from the command after "--".
func splitAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	n := cmd.ArgsLenAtDash()
	if n < 0 {
		return args, nil
	}
	return args[:n], args[n:]
}
