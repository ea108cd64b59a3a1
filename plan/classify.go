// Package plan is the outward face of the classification core: it classifies
// types and methods, computes interface closures, and assembles per-type
// generation plans for an emitter, optionally for many types in parallel.
package plan

import (
	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/closure"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/method"
	"github.com/teranos/winrtgen/render"
	"github.com/teranos/winrtgen/signature"
)

// Classification is the generation path a type reference resolves to.
type Classification struct {
	// Type is the resolved definition, nil for GUID.
	Type *metadata.TypeDef

	Category category.Category

	// Element is the storage element of an enum.
	Element metadata.ElementType

	// GUID is set for System.Guid, which has no definition to generate.
	GUID bool

	// Instantiation is set when the reference was a generic instantiation.
	Instantiation bool
}

// Classify resolves t and reports its category. Generic instantiations
// classify as their generic definition.
func Classify(r metadata.Resolver, t metadata.TypeDefOrRef) (Classification, error) {
	c := &classifier{}
	d, err := signature.NewDispatcher(r, c)
	if err != nil {
		return Classification{}, err
	}
	if err := d.Index(t); err != nil {
		return Classification{}, errors.Wrapf(err, "classifying %s", t)
	}
	_, c.result.Instantiation = t.(*metadata.TypeSpec)
	return c.result, nil
}

// classifier keeps the first dispatched node, which for an instantiation is
// its generic definition.
type classifier struct {
	result Classification
	done   bool
}

var _ signature.EnumHandler = (*classifier)(nil)

func (c *classifier) record(t *metadata.TypeDef, cat category.Category) error {
	if !c.done {
		c.result.Type, c.result.Category, c.done = t, cat, true
	}
	return nil
}

func (c *classifier) HandleClass(t *metadata.TypeDef) error     { return c.record(t, category.Class) }
func (c *classifier) HandleDelegate(t *metadata.TypeDef) error  { return c.record(t, category.Delegate) }
func (c *classifier) HandleInterface(t *metadata.TypeDef) error { return c.record(t, category.Interface) }
func (c *classifier) HandleStruct(t *metadata.TypeDef) error    { return c.record(t, category.Struct) }

func (c *classifier) HandleEnum(t *metadata.TypeDef) error {
	if !c.done {
		c.result.Element = category.EnumElement(t)
	}
	return c.record(t, category.Enum)
}

func (c *classifier) HandleGUID(*metadata.TypeRef) error {
	if !c.done {
		c.result.Category, c.result.GUID, c.done = category.Struct, true, true
	}
	return nil
}

// Generic arguments of an instantiation are not classified.
func (c *classifier) HandleElement(metadata.ElementType) error { return nil }

func (c *classifier) HandleGenericIndex(metadata.GenericTypeIndex) error { return nil }

// RequiredInterfaces returns the interface closure of t with arguments
// rendered in style (nil for Python).
func RequiredInterfaces(r metadata.Resolver, style *render.Style, t metadata.TypeDefOrRef) ([]closure.Requirement, error) {
	return closure.Required(r, style, t)
}

// MethodClass is the marshaling classification of a method.
type MethodClass struct {
	Signature  *method.Signature
	Convention method.Convention
	Params     []method.Category

	// Return is zero for void methods.
	Return method.Category
}

// ClassifyMethod derives the calling convention and the category of every
// parameter and of the return value.
func ClassifyMethod(m *metadata.MethodDef) (*MethodClass, error) {
	sig, err := method.NewSignature(m)
	if err != nil {
		return nil, err
	}
	mc := &MethodClass{
		Signature:  sig,
		Convention: method.ConventionOf(m),
		Params:     make([]method.Category, len(sig.Params)),
	}
	for i, p := range sig.Params {
		c, err := method.ParamCategory(p)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s", m.Name)
		}
		mc.Params[i] = c
	}
	if ret := sig.Return(); ret != nil {
		mc.Return = method.ReturnCategory(*ret)
	}
	return mc, nil
}
