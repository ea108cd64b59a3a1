package metadata

import (
	"strings"

	"github.com/teranos/winrtgen/errors"
)

// Resolver looks up type definitions by namespace and name. Implementations
// must be safe for concurrent reads.
type Resolver interface {
	Find(namespace, name string) (*TypeDef, bool)
}

// Database is a Resolver that can also enumerate its definitions.
type Database interface {
	Resolver

	// Types returns every definition in stable declaration order.
	Types() []*TypeDef

	// Namespaces returns the sorted set of declared namespaces.
	Namespaces() []string
}

// FindRequired resolves ref, failing with an unresolved-reference error.
func FindRequired(r Resolver, ref *TypeRef) (*TypeDef, error) {
	if def, ok := r.Find(ref.Namespace, ref.Name); ok {
		return def, nil
	}
	return nil, errors.WithHint(
		errors.NewUnresolvedf("type %s not found", ref.FullName()),
		"load the metadata module that declares it",
	)
}

// ResolveDefOrRef reduces a coded index to a definition. Generic
// instantiations cannot be reduced and fail as malformed generic usage.
func ResolveDefOrRef(r Resolver, t TypeDefOrRef) (*TypeDef, error) {
	switch v := t.(type) {
	case *TypeDef:
		return v, nil
	case *TypeRef:
		return FindRequired(r, v)
	case *TypeSpec:
		return nil, errors.NewMalformedGenericf("%s is a generic instantiation, expected a definition or reference", v)
	default:
		return nil, errors.NewUnsupportedf("unknown coded index %T", t)
	}
}

// JoinName joins a namespace and a type name.
func JoinName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// SplitName splits a dotted full name at its last dot.
func SplitName(full string) (namespace, name string) {
	i := strings.LastIndexByte(full, '.')
	if i < 0 {
		return "", full
	}
	return full[:i], full[i+1:]
}

// DottedSegments splits a namespace into its dotted segments.
// An empty namespace yields a single empty segment.
func DottedSegments(namespace string) []string {
	return strings.Split(namespace, ".")
}

// TrimArity strips the "`N" generic arity suffix from a type name.
func TrimArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
