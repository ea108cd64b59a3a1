package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/cmd/winrtgen/commands"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "winrtgen",
	Short: "winrtgen - Windows Runtime binding planner",
	Long: `winrtgen - Windows Runtime binding planner.

winrtgen reads Windows Runtime metadata snapshots and computes what a binding
generator needs for every type: its category, the full set of interfaces it
requires with generic arguments substituted, and how each method parameter is
marshaled.

Available commands:
  plan       - Plan every selected type and write YAML or JSON
  inspect    - Show the plan of one type
  interfaces - List the interfaces a type requires
  config     - Create or show winrtgen.toml
  version    - Show version information

Examples:
  winrtgen config init -m winmd/
  winrtgen plan -o plans.yaml
  winrtgen interfaces 'Windows.Foundation.Collections.IVector` + "`" + `1<String>'`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		logger.Initialize(logJSON, verbosity)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Read this config file instead of searching for winrtgen.toml")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON on stderr")

	rootCmd.AddCommand(commands.PlanCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.InterfacesCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		os.Exit(1)
	}
}
