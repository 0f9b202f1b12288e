// Package config provides configuration management for the prereq CLI.
//
// Configuration replaces the host-wide "should install SDK" setting of a
// build server with an explicit file, environment variables, and command
// line flags. Values are resolved by Viper in this order of precedence:
// flags (applied by the commands), PREREQ_* environment variables, the
// config file, and defaults.
//
// # Configuration File
//
// The file is named config.yaml and is searched for in the current directory
// and in ~/.config/prereq/:
//
//	version: 1
//	auto_install: true
//	fail_fast: false
//	sdk_root: /opt/android-sdk          # optional
//	install_dir: /var/cache/android-sdk # optional
//	bootstrap_command: [sdk-bootstrap, --dest, "{sdk_root}"]
//	scan_workers: 4
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//
// All loaded configurations are validated automatically with [Validate].
package config
