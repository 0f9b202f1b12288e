package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/prereq/internal/errors"
	"github.com/thoreinstein/prereq/internal/logging"
	"github.com/thoreinstein/prereq/pkg/fileutil"
)

var (
	discoverFormat string
	discoverOutput string
)

func init() {
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "text",
		"output format: text, json, yaml, toml")
	discoverCmd.Flags().StringVarP(&discoverOutput, "output", "o", "",
		"write the result to a file instead of stdout")
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover [dir]",
	Short: "List the platforms a workspace targets",
	Long: `Scan a workspace for default.properties and project.properties files and
print the distinct values of their target property.

Files that cannot be read or parsed are reported in the log and skipped.
The scan fails only when the workspace directory itself cannot be read.`,
	Example: `  # Platforms in the current directory
  prereq discover

  # Machine-readable output
  prereq discover ./src --format json

See Also: prereq ensure`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

// discoverResult is the structured form of the discover output.
type discoverResult struct {
	Root      string   `json:"root" yaml:"root" toml:"root"`
	Platforms []string `json:"platforms" yaml:"platforms" toml:"platforms"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	root, err := workspaceArg(args)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	svc := newServices(activeConfig(), logger)

	set, err := svc.discoverer.Discover(cmd.Context(), root)
	if err != nil {
		return errors.NewUserError(err, "check that the directory exists and is readable")
	}

	platforms := set.Sorted()
	if platforms == nil {
		platforms = []string{}
	}
	data, err := formatDiscover(discoverFormat, discoverResult{Root: root, Platforms: platforms})
	if err != nil {
		return err
	}

	if discoverOutput != "" {
		if err := fileutil.AtomicWriteFile(svc.fs, discoverOutput, data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", discoverOutput)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// formatDiscover renders res in format.
func formatDiscover(format string, res discoverResult) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "text":
		writeText(&buf, res.Platforms)
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return nil, errors.Wrap(err, "encoding JSON")
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(res); err != nil {
			return nil, errors.Wrap(err, "encoding TOML")
		}
	default:
		return nil, errors.NewUserError(
			errors.Newf("unknown format %q", format),
			"use one of: text, json, yaml, toml")
	}
	return buf.Bytes(), nil
}

func writeText(w io.Writer, platforms []string) {
	for _, p := range platforms {
		fmt.Fprintln(w, p)
	}
}
