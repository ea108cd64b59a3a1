// Package closure computes the interfaces a type implements, directly or
// transitively, with generic arguments substituted at every level.
//
// Requirements come back in first-discovery order of a depth-first walk over
// declared "implements" edges and are unique by interface full name. When the
// same interface is reached through different argument paths, the first
// discovery is kept.
package closure

import (
	"strings"

	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/render"
)

// Requirement records that a type implements Interface with the given
// rendered generic arguments. Args is empty for non-generic interfaces.
type Requirement struct {
	Interface *metadata.TypeDef
	Args      []string
}

// FullName is the identity of the requirement.
func (r Requirement) FullName() string { return r.Interface.FullName() }

func (r Requirement) String() string {
	if len(r.Args) == 0 {
		return r.FullName()
	}
	return r.FullName() + "<" + strings.Join(r.Args, ", ") + ">"
}

// Resolver walks interface hierarchies. It is stateless between calls and
// safe for concurrent use.
type Resolver struct {
	db       metadata.Resolver
	renderer *render.Renderer
}

// New creates a Resolver rendering arguments in style (nil for Python).
func New(db metadata.Resolver, style *render.Style) (*Resolver, error) {
	r, err := render.New(db, style)
	if err != nil {
		return nil, err
	}
	return &Resolver{db: db, renderer: r}, nil
}

// Required is a convenience for New followed by Resolver.Required.
func Required(db metadata.Resolver, style *render.Style, t metadata.TypeDefOrRef) ([]Requirement, error) {
	r, err := New(db, style)
	if err != nil {
		return nil, err
	}
	return r.Required(t)
}

// Required returns every interface t implements. t may be a definition, an
// external reference or a generic instantiation. An interface includes
// itself as the first requirement.
func (r *Resolver) Required(t metadata.TypeDefOrRef) ([]Requirement, error) {
	def, scope, err := r.bind(t, render.Scope{})
	if err != nil {
		return nil, errors.Wrapf(err, "required interfaces of %s", t)
	}
	set := newOrderedSet()
	if err := r.visit(def, scope, nil, set); err != nil {
		return nil, errors.Wrapf(err, "required interfaces of %s", t)
	}
	return set.items, nil
}

// bind reduces a coded index to its definition and the scope its own edges
// are read under. Instantiation arguments are rendered in the caller's scope.
func (r *Resolver) bind(t metadata.TypeDefOrRef, outer render.Scope) (*metadata.TypeDef, render.Scope, error) {
	spec, ok := t.(*metadata.TypeSpec)
	if !ok {
		def, err := metadata.ResolveDefOrRef(r.db, t)
		if err != nil {
			return nil, render.Scope{}, err
		}
		return def, render.TemplateScope(def), nil
	}

	if spec.Signature == nil {
		return nil, render.Scope{}, errors.NewMalformedGenericf("type spec without a signature")
	}
	def, err := metadata.ResolveDefOrRef(r.db, spec.Signature.GenericType)
	if err != nil {
		return nil, render.Scope{}, err
	}
	if len(def.GenericParams) != len(spec.Signature.Args) {
		return nil, render.Scope{}, errors.NewMalformedGenericf("%s declares %d generic parameters, instantiated with %d",
			def.FullName(), len(def.GenericParams), len(spec.Signature.Args))
	}
	args, err := r.renderer.Args(spec.Signature, outer)
	if err != nil {
		return nil, render.Scope{}, err
	}
	return def, render.NewScope(args...), nil
}

func (r *Resolver) visit(def *metadata.TypeDef, scope render.Scope, path *ancestry, set *orderedSet) error {
	name := def.FullName()
	if path.contains(name) {
		return errors.WithDetailf(
			errors.NewInvalidInputf("%s implements itself", name),
			"path: %s", path.extend(name),
		)
	}

	if category.Of(def) == category.Interface {
		if !set.add(Requirement{Interface: def, Args: scope.Args()}) {
			// Everything below was recorded on first discovery.
			return nil
		}
	}

	path = path.extend(name)
	for _, edge := range def.Interfaces {
		child, childScope, err := r.bind(edge, scope)
		if err != nil {
			return errors.Wrapf(err, "%s implements %s", name, edge)
		}
		if err := r.visit(child, childScope, path, set); err != nil {
			return err
		}
	}
	return nil
}

// ancestry is the current walk path, innermost first. A nil path is empty.
type ancestry struct {
	name   string
	parent *ancestry
}

func (a *ancestry) extend(name string) *ancestry {
	return &ancestry{name: name, parent: a}
}

func (a *ancestry) contains(name string) bool {
	for p := a; p != nil; p = p.parent {
		if p.name == name {
			return true
		}
	}
	return false
}

func (a *ancestry) String() string {
	var names []string
	for p := a; p != nil; p = p.parent {
		names = append(names, p.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " -> ")
}

// orderedSet keeps requirements in insertion order, unique by full name.
type orderedSet struct {
	seen  map[string]struct{}
	items []Requirement
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// add inserts req unless one with the same identity exists.
func (s *orderedSet) add(req Requirement) bool {
	key := req.FullName()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, req)
	return true
}
