package plan

import (
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/signature"
)

// dependencies collects, in dispatch order, the namespaces of every named
// type reached from signatures. Primitives contribute nothing.
type dependencies struct {
	self  string
	seen  map[string]struct{}
	order []string
}

var (
	_ signature.EnumHandler         = (*dependencies)(nil)
	_ signature.GenericIndexHandler = (*dependencies)(nil)
)

func newDependencies(self string) *dependencies {
	return &dependencies{self: self, seen: make(map[string]struct{})}
}

func (d *dependencies) add(namespace string) error {
	if namespace == d.self || namespace == "" {
		return nil
	}
	if _, ok := d.seen[namespace]; !ok {
		d.seen[namespace] = struct{}{}
		d.order = append(d.order, namespace)
	}
	return nil
}

func (d *dependencies) HandleClass(t *metadata.TypeDef) error     { return d.add(t.Namespace) }
func (d *dependencies) HandleDelegate(t *metadata.TypeDef) error  { return d.add(t.Namespace) }
func (d *dependencies) HandleInterface(t *metadata.TypeDef) error { return d.add(t.Namespace) }
func (d *dependencies) HandleStruct(t *metadata.TypeDef) error    { return d.add(t.Namespace) }
func (d *dependencies) HandleEnum(t *metadata.TypeDef) error      { return d.add(t.Namespace) }
func (d *dependencies) HandleGUID(r *metadata.TypeRef) error      { return d.add(r.Namespace) }

func (d *dependencies) HandleElement(metadata.ElementType) error           { return nil }
func (d *dependencies) HandleGenericIndex(metadata.GenericTypeIndex) error { return nil }

// collectDependencies walks every interface edge and method signature of def.
func collectDependencies(r metadata.Resolver, def *metadata.TypeDef) ([]string, error) {
	deps := newDependencies(def.Namespace)
	d, err := signature.NewDispatcher(r, deps)
	if err != nil {
		return nil, err
	}
	for _, edge := range def.Interfaces {
		if err := d.Index(edge); err != nil {
			return nil, err
		}
	}
	for _, m := range def.Methods {
		if ret := m.Signature.Return; ret != nil {
			if err := d.Sig(*ret); err != nil {
				return nil, err
			}
		}
		for _, p := range m.Signature.Params {
			if err := d.Sig(p.Type); err != nil {
				return nil, err
			}
		}
	}
	return deps.order, nil
}
