// Package category classifies type definitions into the closed set of
// generation paths: class, interface, struct, enum and delegate.
//
// A category is never stored. It is derived from the definition's flags and
// base type every time it is asked for.
package category

import (
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// Category is the generation path of a type definition.
type Category int

const (
	Class Category = iota + 1
	Interface
	Struct
	Enum
	Delegate
)

var names = map[Category]string{
	Class:     "class",
	Interface: "interface",
	Struct:    "struct",
	Enum:      "enum",
	Delegate:  "delegate",
}

func (c Category) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Attribute names consulted by the predicates below.
const (
	MetadataNamespace = "Windows.Foundation.Metadata"
	ExclusiveTo       = "ExclusiveToAttribute"
	Overload          = "OverloadAttribute"
	SystemNamespace   = "System"
	Flags             = "FlagsAttribute"
)

// Of derives the category of a definition from its flags and base type.
func Of(t *metadata.TypeDef) Category {
	if t.Flags.Has(metadata.TypeInterface) {
		return Interface
	}
	if t.Extends == nil {
		return Class
	}

	ns, name := baseName(t.Extends)
	if ns == SystemNamespace {
		switch name {
		case "Enum":
			return Enum
		case "ValueType":
			return Struct
		case "MulticastDelegate":
			return Delegate
		}
	}
	return Class
}

func baseName(base metadata.TypeDefOrRef) (namespace, name string) {
	switch b := base.(type) {
	case *metadata.TypeDef:
		return b.Namespace, b.Name
	case *metadata.TypeRef:
		return b.Namespace, b.Name
	default:
		return "", ""
	}
}

// IsExclusiveTo reports whether t is an interface that only exists to be
// implemented by one runtime class.
func IsExclusiveTo(t *metadata.TypeDef) bool {
	return Of(t) == Interface && t.HasAttribute(MetadataNamespace, ExclusiveTo)
}

// IsFlagsEnum reports whether t is an enum carrying the flags marker.
func IsFlagsEnum(t *metadata.TypeDef) bool {
	return Of(t) == Enum && t.HasAttribute(SystemNamespace, Flags)
}

// IsGeneric reports whether t declares generic parameters.
func IsGeneric(t *metadata.TypeDef) bool {
	return len(t.GenericParams) > 0
}

// IsStatic reports whether t is a class that only exposes static members.
func IsStatic(t *metadata.TypeDef) bool {
	return Of(t) == Class && t.Flags.Has(metadata.TypeAbstract)
}

// HasDealloc reports whether generated bindings for t need a deallocation hook.
func HasDealloc(t *metadata.TypeDef) bool {
	switch Of(t) {
	case Struct, Interface:
		return true
	case Class:
		return !t.Flags.Has(metadata.TypeAbstract)
	default:
		return false
	}
}

// EnumElement returns the storage element of an enum: 4-byte unsigned for
// flags enums, 4-byte signed otherwise.
func EnumElement(t *metadata.TypeDef) metadata.ElementType {
	if IsFlagsEnum(t) {
		return metadata.ElementU4
	}
	return metadata.ElementI4
}

var customizedStructs = map[string]bool{
	"DateTime":               true,
	"EventRegistrationToken": true,
	"HResult":                true,
	"TimeSpan":               true,
}

// IsCustomizedStruct reports whether t is one of the foundation structs whose
// projection is written by hand.
func IsCustomizedStruct(t *metadata.TypeDef) bool {
	return t.Namespace == "Windows.Foundation" && customizedStructs[t.Name]
}

// DelegateInvoke returns the Invoke method of a delegate.
func DelegateInvoke(t *metadata.TypeDef) (*metadata.MethodDef, error) {
	if Of(t) != Delegate {
		return nil, errors.AssertionFailedf("%s is a %s, not a delegate", t.FullName(), Of(t))
	}
	for _, m := range t.Methods {
		if m.SpecialName() && m.Name == "Invoke" {
			return m, nil
		}
	}
	return nil, errors.NewUnsupportedf("%s: Invoke method not found", t.FullName())
}
