// Package metadata defines the in-memory model of a platform type system
// (type definitions, external references, generic instantiations, methods and
// parameters) together with the lookup facade the classification core reads
// through.
//
// Records are read-only projections of an externally owned metadata store.
// Nothing in this package mutates a record after it has been built, so a
// loaded Snapshot may be shared freely between goroutines.
package metadata

// TypeFlags carries the structural flags of a type definition.
type TypeFlags uint32

const (
	TypeInterface TypeFlags = 1 << iota
	TypeAbstract
	TypeSealed
	TypeWindowsRuntime
)

// Has reports whether all bits of x are set.
func (f TypeFlags) Has(x TypeFlags) bool { return f&x == x }

// MethodFlags carries the flags of a method definition.
type MethodFlags uint32

const (
	MethodStatic MethodFlags = 1 << iota
	MethodSpecialName
	MethodRTSpecialName
	MethodAbstract
	MethodVirtual
)

// Has reports whether all bits of x are set.
func (f MethodFlags) Has(x MethodFlags) bool { return f&x == x }

// ParamFlags carries the direction flags of a parameter record.
type ParamFlags uint32

const (
	ParamIn ParamFlags = 1 << iota
	ParamOut
	ParamOptional
)

// Has reports whether all bits of x are set.
func (f ParamFlags) Has(x ParamFlags) bool { return f&x == x }

// Attribute is a custom attribute attached to a type or member. Args holds the
// fixed constructor arguments rendered as strings.
type Attribute struct {
	Namespace string
	Name      string
	Args      []string
}

// TypeDef is a fully resolved type definition.
type TypeDef struct {
	Namespace string
	Name      string
	Flags     TypeFlags

	// Extends is the base type, nil for interfaces and the root object type.
	Extends TypeDefOrRef

	// GenericParams holds the declared generic parameter names in order.
	GenericParams []string

	// Interfaces holds the declared "implements" edges in declaration order.
	Interfaces []TypeDefOrRef

	Methods    []*MethodDef
	Attributes []Attribute
}

func (*TypeDef) sigType()      {}
func (*TypeDef) typeDefOrRef() {}

// FullName returns Namespace.Name, the stable identity of a definition.
func (t *TypeDef) FullName() string {
	return JoinName(t.Namespace, t.Name)
}

func (t *TypeDef) String() string { return t.FullName() }

// Attribute looks up an attribute by namespace and name.
func (t *TypeDef) Attribute(namespace, name string) (Attribute, bool) {
	return findAttribute(t.Attributes, namespace, name)
}

// HasAttribute reports whether the attribute is present.
func (t *TypeDef) HasAttribute(namespace, name string) bool {
	_, ok := t.Attribute(namespace, name)
	return ok
}

// TypeRef is a named pointer to a definition that must be resolved through a
// Resolver.
type TypeRef struct {
	Namespace string
	Name      string
}

func (*TypeRef) sigType()      {}
func (*TypeRef) typeDefOrRef() {}

// FullName returns Namespace.Name.
func (r *TypeRef) FullName() string {
	return JoinName(r.Namespace, r.Name)
}

func (r *TypeRef) String() string { return r.FullName() }

// TypeSpec wraps a generic instantiation used where a coded type index is
// expected (interface edges, base types).
type TypeSpec struct {
	Signature *GenericTypeInstSig
}

func (*TypeSpec) sigType()      {}
func (*TypeSpec) typeDefOrRef() {}

func (s *TypeSpec) String() string { return s.Signature.String() }

// TypeDefOrRef is the coded union of *TypeDef, *TypeRef and *TypeSpec.
type TypeDefOrRef interface {
	SigType
	typeDefOrRef()
	String() string
}

// MethodDef is a method definition together with its signature and
// parameter records.
type MethodDef struct {
	Name      string
	Flags     MethodFlags
	Signature MethodDefSig

	// Params holds the parameter records ordered by sequence. A record with
	// sequence 0 describes the return value.
	Params []Param

	Attributes []Attribute
}

// Attribute looks up an attribute by namespace and name.
func (m *MethodDef) Attribute(namespace, name string) (Attribute, bool) {
	return findAttribute(m.Attributes, namespace, name)
}

// SpecialName reports whether the method is a property or event accessor.
func (m *MethodDef) SpecialName() bool { return m.Flags.Has(MethodSpecialName) }

// MethodDefSig is the decoded signature blob of a method.
type MethodDefSig struct {
	// Return is nil for void methods.
	Return *TypeSig
	Params []ParamSig
}

// ParamSig is one parameter entry of a method signature.
type ParamSig struct {
	Type  TypeSig
	ByRef bool
}

// Param is a parameter record.
type Param struct {
	Name     string
	Sequence uint16
	Flags    ParamFlags
}

func findAttribute(attrs []Attribute, namespace, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Namespace == namespace && a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}
