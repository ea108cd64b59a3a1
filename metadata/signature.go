package metadata

import (
	"strconv"
	"strings"
)

// SigType is the sealed union of everything a TypeSig can hold:
// ElementType, GenericTypeIndex, *GenericTypeInstSig and TypeDefOrRef.
type SigType interface {
	sigType()
}

// ElementType is a primitive element kind.
type ElementType uint8

const (
	ElementVoid ElementType = iota + 1
	ElementBoolean
	ElementChar
	ElementI1
	ElementU1
	ElementI2
	ElementU2
	ElementI4
	ElementU4
	ElementI8
	ElementU8
	ElementR4
	ElementR8
	ElementString
	ElementObject
)

func (ElementType) sigType() {}

var elementNames = map[ElementType]string{
	ElementVoid:    "Void",
	ElementBoolean: "Boolean",
	ElementChar:    "Char16",
	ElementI1:      "Int8",
	ElementU1:      "UInt8",
	ElementI2:      "Int16",
	ElementU2:      "UInt16",
	ElementI4:      "Int32",
	ElementU4:      "UInt32",
	ElementI8:      "Int64",
	ElementU8:      "UInt64",
	ElementR4:      "Single",
	ElementR8:      "Double",
	ElementString:  "String",
	ElementObject:  "Object",
}

var elementsByName = func() map[string]ElementType {
	m := make(map[string]ElementType, len(elementNames))
	for e, name := range elementNames {
		m[name] = e
	}
	return m
}()

// String returns the metadata name of the element kind (e.g. "Int32").
func (e ElementType) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return "ElementType(" + strconv.Itoa(int(e)) + ")"
}

// LookupElement returns the element kind with the given metadata name.
func LookupElement(name string) (ElementType, bool) {
	e, ok := elementsByName[name]
	return e, ok
}

// GenericTypeIndex is a placeholder for the Index-th generic parameter of the
// enclosing generic context.
type GenericTypeIndex struct {
	Index uint32
}

func (GenericTypeIndex) sigType() {}

func (g GenericTypeIndex) String() string {
	return "!" + strconv.FormatUint(uint64(g.Index), 10)
}

// GenericTypeInstSig is a generic definition paired with its arguments.
type GenericTypeInstSig struct {
	GenericType TypeDefOrRef
	Args        []TypeSig
}

func (*GenericTypeInstSig) sigType() {}

func (g *GenericTypeInstSig) String() string {
	var sb strings.Builder
	sb.WriteString(g.GenericType.String())
	sb.WriteByte('<')
	for i, arg := range g.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// TypeSig is a type as it appears in a signature.
type TypeSig struct {
	Type    SigType
	SZArray bool
}

// Sig wraps a SigType in a non-array TypeSig.
func Sig(t SigType) TypeSig {
	return TypeSig{Type: t}
}

// ArraySig wraps a SigType in a single-dimension array TypeSig.
func ArraySig(t SigType) TypeSig {
	return TypeSig{Type: t, SZArray: true}
}

// IsVoid reports whether the signature is the void element.
func (s TypeSig) IsVoid() bool {
	e, ok := s.Type.(ElementType)
	return ok && e == ElementVoid && !s.SZArray
}

// String renders the signature in the snapshot type-expression grammar.
func (s TypeSig) String() string {
	var out string
	switch t := s.Type.(type) {
	case nil:
		out = "<nil>"
	case interface{ String() string }:
		out = t.String()
	}
	if s.SZArray {
		out += "[]"
	}
	return out
}
