package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/config"
	"github.com/teranos/winrtgen/display"
	"github.com/teranos/winrtgen/errors"
)

// ConfigCmd manages winrtgen.toml.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage winrtgen configuration",
	Long: `Create and display winrtgen configuration.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. ~/.winrtgen/winrtgen.toml
  3. ./winrtgen.toml (searches up directories)
  4. WINRTGEN_* environment variables (e.g. WINRTGEN_RENDER_STYLE=cpp)
  5. Command line flags

Examples:
  winrtgen config init -m winmd/     # write ./winrtgen.toml
  winrtgen config show               # show the effective configuration
  winrtgen config show --json`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default winrtgen.toml in the current directory",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().StringSliceP("metadata", "m", nil, "Metadata paths to record")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file (a backup is kept)")
	configShowCmd.Flags().Bool("json", false, "Output configuration as JSON")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to determine working directory")
	}
	paths, _ := cmd.Flags().GetStringSlice("metadata")
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.Init(dir, paths, force)
	if err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return showConfig(cfg, display.ShouldOutputJSON(cmd), cmd.OutOrStdout())
}

func showConfig(cfg *config.Config, asJSON bool, w io.Writer) error {
	if asJSON {
		return display.OutputJSON(w, cfg)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config to TOML")
	}
	source := cfg.Source
	if source == "" {
		source = "defaults and environment"
	}
	_, err = fmt.Fprintf(w, "# winrtgen configuration (from %s)\n%s", source, data)
	return err
}
