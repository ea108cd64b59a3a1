package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/config"
	"github.com/teranos/winrtgen/display"
	"github.com/teranos/winrtgen/plan"
)

// InspectCmd shows the plan of one type.
var InspectCmd = &cobra.Command{
	Use:   "inspect <type>",
	Short: "Show the plan of a single type",
	Long: `Classify one type definition and show its category, traits, required
interfaces, methods and namespace dependencies.

Examples:
  winrtgen inspect Windows.Foundation.Uri
  winrtgen inspect 'Windows.Foundation.Collections.IVector` + "`" + `1' --style cpp
  winrtgen inspect Windows.Foundation.Deferral --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addSourceFlags(InspectCmd)
	InspectCmd.Flags().Bool("json", false, "Output the plan as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return inspect(cfg, args[0], display.ShouldOutputJSON(cmd), cmd.OutOrStdout())
}

func inspect(cfg *config.Config, typeName string, asJSON bool, w io.Writer) error {
	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	def, err := findType(db, typeName)
	if err != nil {
		return err
	}
	opts, err := cfg.PlanOptions()
	if err != nil {
		return err
	}
	planner, err := plan.NewPlanner(db, opts)
	if err != nil {
		return err
	}
	tp, err := planner.PlanType(def)
	if err != nil {
		return err
	}

	if asJSON {
		return display.OutputJSON(w, tp)
	}
	return display.TypePlan(w, tp)
}
