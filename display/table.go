package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/winrtgen/closure"
	"github.com/teranos/winrtgen/plan"
)

// TypePlan renders a single plan as property, interface and method tables.
func TypePlan(w io.Writer, tp *plan.TypePlan) error {
	props := pterm.TableData{
		{"Property", "Value"},
		{"Type", tp.FullName()},
		{"Category", tp.Category.String()},
		{"Module", strings.Join(tp.ModulePath, ".")},
	}
	if len(tp.GenericParams) > 0 {
		props = append(props, []string{"Generic params", strings.Join(tp.GenericParams, ", ")})
	}
	if tp.Element != "" {
		props = append(props, []string{"Element", tp.Element})
	}
	if traits := traitList(tp); traits != "" {
		props = append(props, []string{"Traits", traits})
	}
	if len(tp.Dependencies) > 0 {
		props = append(props, []string{"Dependencies", strings.Join(tp.Dependencies, ", ")})
	}
	if err := table(w, props); err != nil {
		return err
	}

	if len(tp.Interfaces) > 0 {
		pterm.Info.WithWriter(w).Printfln("Required interfaces (%d)", len(tp.Interfaces))
		data := pterm.TableData{{"#", "Interface", "Args"}}
		for i, iface := range tp.Interfaces {
			data = append(data, []string{fmt.Sprint(i + 1), iface.Name, strings.Join(iface.Args, ", ")})
		}
		if err := table(w, data); err != nil {
			return err
		}
	}

	methods := tp.Methods
	if tp.Invoke != nil {
		methods = append([]plan.MethodPlan{*tp.Invoke}, methods...)
	}
	if len(methods) > 0 {
		pterm.Info.WithWriter(w).Printfln("Methods (%d)", len(methods))
		data := pterm.TableData{{"Method", "Member", "Convention", "Params", "Return"}}
		for _, m := range methods {
			data = append(data, []string{m.Name, m.MemberName, m.Convention.String(), paramList(m.Params), returnText(m.Return)})
		}
		if err := table(w, data); err != nil {
			return err
		}
	}
	return nil
}

// Requirements renders the interface closure of a type.
func Requirements(w io.Writer, typeName string, reqs []closure.Requirement) error {
	if len(reqs) == 0 {
		pterm.Info.WithWriter(w).Printfln("%s requires no interfaces", typeName)
		return nil
	}
	pterm.Info.WithWriter(w).Printfln("%s requires %d interfaces", typeName, len(reqs))
	data := pterm.TableData{{"#", "Interface", "Args"}}
	for i, r := range reqs {
		data = append(data, []string{fmt.Sprint(i + 1), r.FullName(), strings.Join(r.Args, ", ")})
	}
	return table(w, data)
}

// Summary reports a planning run. Failures are listed with their kind and
// first hint.
func Summary(w io.Writer, res *plan.Result) error {
	elapsed := res.Duration.Round(time.Millisecond)
	if res.OK() {
		pterm.Success.WithWriter(w).Printfln("Planned %d types in %s (run %s)", len(res.Plans), elapsed, res.RunID)
		return nil
	}

	pterm.Warning.WithWriter(w).Printfln("Planned %d types, %d failed in %s (run %s)",
		len(res.Plans), len(res.Failures), elapsed, res.RunID)
	data := pterm.TableData{{"Type", "Kind", "Error", "Hint"}}
	for _, f := range res.Failures {
		hint := ""
		if len(f.Hints) > 0 {
			hint = f.Hints[0]
		}
		data = append(data, []string{f.Type, f.Kind, f.Error, hint})
	}
	return table(w, data)
}

func table(w io.Writer, data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

func traitList(tp *plan.TypePlan) string {
	var traits []string
	for _, t := range []struct {
		on   bool
		name string
	}{
		{tp.Exclusive, "exclusive"},
		{tp.Flags, "flags"},
		{tp.Static, "static"},
		{tp.Dealloc, "dealloc"},
		{tp.Customized, "customized"},
	} {
		if t.on {
			traits = append(traits, t.name)
		}
	}
	return strings.Join(traits, ", ")
}

func paramList(params []plan.ParamPlan) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s %s: %s", p.Category, p.Name, p.Type))
	}
	return strings.Join(parts, ", ")
}

func returnText(r *plan.ReturnPlan) string {
	if r == nil {
		return "-"
	}
	return r.Type
}
