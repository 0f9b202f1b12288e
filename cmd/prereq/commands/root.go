// Package commands implements the CLI commands for prereq.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/prereq/cmd"
	"github.com/thoreinstein/prereq/internal/config"
	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the configuration loaded before any command runs.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logFileHandle is the open --log-file, closed by Execute.
var logFileHandle io.Closer

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then $XDG_CONFIG_HOME/prereq/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("prereq version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "prereq",
	Short: "Install the Android SDK and platforms a workspace needs",
	Long: `prereq prepares a workspace for an Android build.

It scans the workspace for default.properties and project.properties files,
collects their target platforms, locates the Android SDK (installing it when
allowed), installs every missing platform, and exports ANDROID_HOME for the
build that follows.`,
	Example: `  # Show the platforms a workspace targets
  prereq discover ./src

  # Install everything and run the build with ANDROID_HOME set
  prereq ensure . -- ant debug

  # Check SDK and platform health
  prereq doctor

  See Also: prereq ensure, prereq doctor, prereq config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("PREREQ_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1 // Debug
				case "2":
					v = 2 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		logFileHandle = f
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a config load failure for commands that need config.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "gen-doc", "doctor":
		// doctor reports the problem as a check result.
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if logFileHandle != nil {
			_ = logFileHandle.Close()
			logFileHandle = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
