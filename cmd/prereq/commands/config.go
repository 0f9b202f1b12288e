package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/prereq/internal/errors"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show prereq configuration",
	Long: `Show the effective prereq configuration.

Values come from config.yaml (current directory first, then
$XDG_CONFIG_HOME/prereq), PREREQ_* environment variables, and defaults.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  prereq config

  # Get a specific value
  prereq config get install_dir

See Also: prereq doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Array values are printed one per line.`,
	Example: `  # Get the SDK install directory
  prereq config get install_dir

  # Get the bootstrap command
  prereq config get bootstrap_command

See Also: prereq config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  prereq config list

See Also: prereq config get`,
	RunE: runConfigList,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	out := cmd.OutOrStdout()

	if !viper.IsSet(key) {
		fmt.Fprintln(out, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(out, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(out, item)
		}
	default:
		fmt.Fprintln(out, viper.GetString(key))
	}

	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(activeConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
