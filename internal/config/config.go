// Package config provides configuration management for prereq using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// CurrentVersion is the only config file version this build understands.
const CurrentVersion = 1

// SDKRootPlaceholder is replaced by the install directory in bootstrap_command.
const SDKRootPlaceholder = "{sdk_root}"

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// AutoInstall allows installing an SDK when none can be located.
	AutoInstall bool `mapstructure:"auto_install" yaml:"auto_install"`

	// FailFast stops platform installation at the first failure.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`

	// SDKRoot is checked before ANDROID_HOME and ANDROID_SDK_ROOT.
	SDKRoot string `mapstructure:"sdk_root" yaml:"sdk_root,omitempty"`

	// InstallDir is where a new SDK is installed and the last place searched.
	InstallDir string `mapstructure:"install_dir" yaml:"install_dir"`

	// BootstrapCommand fetches the SDK tools into InstallDir.
	BootstrapCommand []string `mapstructure:"bootstrap_command" yaml:"bootstrap_command,omitempty"`

	// ScanWorkers bounds concurrent project file parsing. Zero means GOMAXPROCS.
	ScanWorkers int `mapstructure:"scan_workers" yaml:"scan_workers"`
}

// Init initializes Viper with default configuration, discarding any state
// left by a previous Init or Load.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("PREREQ")
	viper.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv applies during Unmarshal.
	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("auto_install", true)
	viper.SetDefault("fail_fast", false)
	viper.SetDefault("sdk_root", "")
	viper.SetDefault("install_dir", paths.DefaultSDKDir())
	viper.SetDefault("bootstrap_command", []string{})
	viper.SetDefault("scan_workers", 0)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply
		case errors.As(err, &notFound):
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		case path != "" && isNotExist(err):
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Version:     CurrentVersion,
		AutoInstall: true,
		InstallDir:  paths.DefaultSDKDir(),
	}
}

// BootstrapArgs returns BootstrapCommand with the SDK root placeholder
// replaced by dir.
func (c *Config) BootstrapArgs(dir string) []string {
	if len(c.BootstrapCommand) == 0 {
		return nil
	}
	args := make([]string, len(c.BootstrapCommand))
	for i, a := range c.BootstrapCommand {
		args[i] = strings.ReplaceAll(a, SDKRootPlaceholder, dir)
	}
	return args
}
