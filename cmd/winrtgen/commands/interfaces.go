package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/config"
	"github.com/teranos/winrtgen/display"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/plan"
)

// InterfacesCmd lists the required interfaces of a type or instantiation.
var InterfacesCmd = &cobra.Command{
	Use:   "interfaces <type>",
	Short: "List every interface a type requires",
	Long: `Resolve the transitive interface closure of a type. The argument is a
type name or a generic instantiation; instantiation arguments are substituted
through the whole closure.

Examples:
  winrtgen interfaces Windows.Foundation.Uri
  winrtgen interfaces 'Windows.Foundation.Collections.IVector` + "`" + `1<String>'
  winrtgen interfaces 'Windows.Foundation.Collections.IMap` + "`" + `2<String, Int32>' --style cpp`,
	Args: cobra.ExactArgs(1),
	RunE: runInterfaces,
}

func init() {
	addSourceFlags(InterfacesCmd)
	InterfacesCmd.Flags().Bool("json", false, "Output the interfaces as JSON")
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return interfaces(cfg, args[0], display.ShouldOutputJSON(cmd), cmd.OutOrStdout())
}

func interfaces(cfg *config.Config, expr string, asJSON bool, w io.Writer) error {
	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	t, err := metadata.ParseTypeDefOrRef(expr, nil)
	if err != nil {
		return errors.Wrapf(err, "parsing %q", expr)
	}
	opts, err := cfg.PlanOptions()
	if err != nil {
		return err
	}
	reqs, err := plan.RequiredInterfaces(db, opts.Style, t)
	if err != nil {
		return err
	}

	if asJSON {
		out := make([]plan.InterfacePlan, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, plan.InterfacePlan{Name: r.FullName(), Args: r.Args})
		}
		return display.OutputJSON(w, out)
	}
	return display.Requirements(w, expr, reqs)
}
