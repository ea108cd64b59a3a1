// Package signature routes type definitions, references, generic
// instantiations and signature elements to category-specific handlers.
//
// References are resolved and instantiations unpacked before a handler sees
// anything, so consumers only ever implement one method per category:
//
//	type namer struct{ names []string }
//
//	func (n *namer) HandleClass(t *metadata.TypeDef) error { ... }
//	// ... one method per Handler entry
//
//	d, err := signature.NewDispatcher(db, &namer{})
//	err = d.Sig(param.Type)
package signature

import (
	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// Handler receives dispatched types. Every consumer implements all of them.
type Handler interface {
	HandleClass(t *metadata.TypeDef) error
	HandleDelegate(t *metadata.TypeDef) error
	HandleInterface(t *metadata.TypeDef) error
	HandleStruct(t *metadata.TypeDef) error

	// HandleGUID receives System.Guid, which has a fixed binary layout and is
	// never generated as a struct.
	HandleGUID(ref *metadata.TypeRef) error

	HandleElement(e metadata.ElementType) error
}

// EnumHandler is implemented by handlers that want enums as definitions.
// Otherwise enums arrive at HandleElement as their storage element.
type EnumHandler interface {
	HandleEnum(t *metadata.TypeDef) error
}

// GenericIndexHandler is implemented by handlers that accept unbound generic
// parameter references.
type GenericIndexHandler interface {
	HandleGenericIndex(idx metadata.GenericTypeIndex) error
}

// Unimplemented can be embedded by partial handlers. Every method fails with
// an unsupported-construct error.
type Unimplemented struct{}

func (Unimplemented) HandleClass(*metadata.TypeDef) error {
	return errors.NewUnsupportedf("HandleClass not implemented")
}

func (Unimplemented) HandleDelegate(*metadata.TypeDef) error {
	return errors.NewUnsupportedf("HandleDelegate not implemented")
}

func (Unimplemented) HandleInterface(*metadata.TypeDef) error {
	return errors.NewUnsupportedf("HandleInterface not implemented")
}

func (Unimplemented) HandleStruct(*metadata.TypeDef) error {
	return errors.NewUnsupportedf("HandleStruct not implemented")
}

func (Unimplemented) HandleGUID(*metadata.TypeRef) error {
	return errors.NewUnsupportedf("HandleGUID not implemented")
}

func (Unimplemented) HandleElement(metadata.ElementType) error {
	return errors.NewUnsupportedf("HandleElement not implemented")
}

// Dispatcher resolves and routes types to a Handler. It holds no state of its
// own beyond its collaborators.
type Dispatcher struct {
	resolver metadata.Resolver
	handler  Handler
}

// NewDispatcher binds a handler to the resolver used for external references.
func NewDispatcher(resolver metadata.Resolver, handler Handler) (*Dispatcher, error) {
	if resolver == nil {
		return nil, errors.AssertionFailedf("signature: nil resolver")
	}
	if handler == nil {
		return nil, errors.AssertionFailedf("signature: nil handler")
	}
	return &Dispatcher{resolver: resolver, handler: handler}, nil
}

// Sig dispatches whatever a signature holds. Array-ness is not routed; it is
// the consumer's concern.
func (d *Dispatcher) Sig(sig metadata.TypeSig) error {
	switch t := sig.Type.(type) {
	case metadata.ElementType:
		return d.Element(t)
	case metadata.GenericTypeIndex:
		return d.GenericIndex(t)
	case *metadata.GenericTypeInstSig:
		return d.GenericInst(t)
	case metadata.TypeDefOrRef:
		return d.Index(t)
	default:
		return errors.NewUnsupportedf("signature element %T", sig.Type)
	}
}

// Index dispatches a coded type index.
func (d *Dispatcher) Index(t metadata.TypeDefOrRef) error {
	switch v := t.(type) {
	case *metadata.TypeDef:
		return d.Def(v)
	case *metadata.TypeRef:
		return d.Ref(v)
	case *metadata.TypeSpec:
		if v.Signature == nil {
			return errors.NewMalformedGenericf("type spec without a signature")
		}
		return d.GenericInst(v.Signature)
	default:
		return errors.NewUnsupportedf("coded index %T", t)
	}
}

// Ref resolves an external reference and dispatches the definition.
func (d *Dispatcher) Ref(ref *metadata.TypeRef) error {
	if ref.Namespace == "System" && ref.Name == "Guid" {
		return d.handler.HandleGUID(ref)
	}
	def, err := metadata.FindRequired(d.resolver, ref)
	if err != nil {
		return err
	}
	return d.Def(def)
}

// Def dispatches a definition by category.
func (d *Dispatcher) Def(t *metadata.TypeDef) error {
	switch c := category.Of(t); c {
	case category.Class:
		return d.handler.HandleClass(t)
	case category.Delegate:
		return d.handler.HandleDelegate(t)
	case category.Interface:
		return d.handler.HandleInterface(t)
	case category.Enum:
		return d.Enum(t)
	case category.Struct:
		return d.handler.HandleStruct(t)
	default:
		return errors.NewUnsupportedf("%s: category %s", t.FullName(), c)
	}
}

// Enum dispatches an enum definition, by default as its storage element.
func (d *Dispatcher) Enum(t *metadata.TypeDef) error {
	if h, ok := d.handler.(EnumHandler); ok {
		return h.HandleEnum(t)
	}
	return d.handler.HandleElement(category.EnumElement(t))
}

// GenericInst dispatches the generic definition first, then every argument
// in declaration order.
func (d *Dispatcher) GenericInst(sig *metadata.GenericTypeInstSig) error {
	if err := d.Index(sig.GenericType); err != nil {
		return err
	}
	for _, arg := range sig.Args {
		if err := d.Sig(arg); err != nil {
			return err
		}
	}
	return nil
}

// Element dispatches a primitive element.
func (d *Dispatcher) Element(e metadata.ElementType) error {
	return d.handler.HandleElement(e)
}

// GenericIndex dispatches a generic parameter reference. Handlers without
// GenericIndexHandler cannot accept one.
func (d *Dispatcher) GenericIndex(idx metadata.GenericTypeIndex) error {
	if h, ok := d.handler.(GenericIndexHandler); ok {
		return h.HandleGenericIndex(idx)
	}
	return errors.NewUnsupportedf("generic parameter %s not supported by %T", idx, d.handler)
}
