package method

import (
	"strings"

	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// Category is the marshaling direction of a parameter or return value.
type Category int

const (
	In Category = iota + 1
	Out
	PassArray
	FillArray
	ReceiveArray
)

var categoryNames = map[Category]string{
	In:           "in",
	Out:          "out",
	PassArray:    "pass_array",
	FillArray:    "fill_array",
	ReceiveArray: "receive_array",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsIn reports whether the caller supplies the value. Fill arrays are both
// supplied and produced.
func (c Category) IsIn() bool {
	return c == In || c == PassArray || c == FillArray
}

// IsOut reports whether the value is produced for the caller.
func (c Category) IsOut() bool {
	return c == Out || c == ReceiveArray || c == FillArray
}

// ParamCategory classifies a parameter by array-ness, direction flags and
// by-reference passing. Combinations without a category are rejected.
func ParamCategory(p Param) (Category, error) {
	in := p.Record.Flags.Has(metadata.ParamIn)
	out := p.Record.Flags.Has(metadata.ParamOut)

	if p.Sig.Type.SZArray {
		switch {
		case in:
			return PassArray, nil
		case out && p.Sig.ByRef:
			return ReceiveArray, nil
		case out:
			return FillArray, nil
		}
	} else {
		switch {
		case in && !out:
			return In, nil
		case out && !in:
			return Out, nil
		}
	}
	return 0, errors.WithDetailf(
		errors.NewUnsupportedf("parameter %s: no category for array=%t in=%t out=%t byref=%t",
			p.Name(), p.Sig.Type.SZArray, in, out, p.Sig.ByRef),
		"type: %s", p.Sig.Type,
	)
}

// ReturnCategory classifies a return value by array-ness alone.
func ReturnCategory(ret metadata.TypeSig) Category {
	if ret.SZArray {
		return ReceiveArray
	}
	return Out
}

// CountIn counts the parameters the caller supplies.
func CountIn(params []Param) (int, error) {
	n := 0
	for _, p := range params {
		c, err := ParamCategory(p)
		if err != nil {
			return 0, err
		}
		if c.IsIn() {
			n++
		}
	}
	return n, nil
}

// Convention is how a generated binding receives its arguments.
type Convention int

const (
	NoArgs Convention = iota + 1
	SingleArg
	VariableArgs
)

var conventionNames = map[Convention]string{
	NoArgs:       "no_args",
	SingleArg:    "single_arg",
	VariableArgs: "variable_args",
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the convention by name.
func (c Convention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ConventionOf derives the calling convention from a method's name and flags.
func ConventionOf(m *metadata.MethodDef) Convention {
	switch {
	case IsConstructor(m) && len(m.Signature.Params) == 0:
		return NoArgs
	case IsGetter(m):
		return NoArgs
	case IsSetter(m), IsEventAdd(m), IsEventRemove(m):
		return SingleArg
	default:
		return VariableArgs
	}
}

// IsConstructor reports whether m is an instance constructor.
func IsConstructor(m *metadata.MethodDef) bool {
	return m.Flags.Has(metadata.MethodRTSpecialName) && m.Name == ".ctor"
}

// IsStatic reports whether m is a static method.
func IsStatic(m *metadata.MethodDef) bool {
	return m.Flags.Has(metadata.MethodStatic)
}

func isAccessor(m *metadata.MethodDef, prefix string) bool {
	return m.SpecialName() && strings.HasPrefix(m.Name, prefix)
}

// IsGetter reports whether m is a property getter.
func IsGetter(m *metadata.MethodDef) bool { return isAccessor(m, "get_") }

// IsSetter reports whether m is a property setter.
func IsSetter(m *metadata.MethodDef) bool { return isAccessor(m, "put_") }

// IsEventAdd reports whether m registers an event handler.
func IsEventAdd(m *metadata.MethodDef) bool { return isAccessor(m, "add_") }

// IsEventRemove reports whether m revokes an event handler.
func IsEventRemove(m *metadata.MethodDef) bool { return isAccessor(m, "remove_") }

// MemberName is the name bindings use for m: the overload name when one is
// declared, the method name otherwise.
func MemberName(m *metadata.MethodDef) string {
	if attr, ok := m.Attribute(category.MetadataNamespace, category.Overload); ok && len(attr.Args) > 0 {
		return attr.Args[0]
	}
	return m.Name
}
