// Package render turns type signatures into target-language type expressions.
//
// Rendering happens under a Scope that binds generic parameter indexes to
// already-rendered argument strings. Scopes are values: deriving a child scope
// never changes the parent, so sibling branches of a recursive walk and
// concurrent walks can share a parent freely.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// Style configures how metadata types are written in a target language.
type Style struct {
	Name string

	// Elements maps primitive element kinds to target type names.
	Elements map[metadata.ElementType]string

	// GUID is the target name of System.Guid.
	GUID string

	// ArrayFormat formats an array type given the element type,
	// e.g. Python: "list[%s]", C++: "winrt::com_array<%s>".
	ArrayFormat func(elem string) string

	// GenericFormat formats a generic instantiation given the template name
	// and its rendered arguments.
	GenericFormat func(name string, args []string) string

	// NamedFormat formats a named definition. The arity suffix has already
	// been stripped from name.
	NamedFormat func(namespace, name string) string
}

// Element returns the target name of a primitive element.
func (s *Style) Element(e metadata.ElementType) (string, error) {
	if name, ok := s.Elements[e]; ok {
		return name, nil
	}
	return "", errors.NewUnsupportedf("style %s has no mapping for element %s", s.Name, e)
}

// Python renders types as Python type hints.
func Python() *Style {
	return &Style{
		Name: "python",
		Elements: map[metadata.ElementType]string{
			metadata.ElementVoid:    "None",
			metadata.ElementBoolean: "bool",
			metadata.ElementChar:    "str",
			metadata.ElementI1:      "int",
			metadata.ElementU1:      "int",
			metadata.ElementI2:      "int",
			metadata.ElementU2:      "int",
			metadata.ElementI4:      "int",
			metadata.ElementU4:      "int",
			metadata.ElementI8:      "int",
			metadata.ElementU8:      "int",
			metadata.ElementR4:      "float",
			metadata.ElementR8:      "float",
			metadata.ElementString:  "str",
			metadata.ElementObject:  "object",
		},
		GUID: "uuid.UUID",
		ArrayFormat: func(elem string) string {
			return fmt.Sprintf("list[%s]", elem)
		},
		GenericFormat: func(name string, args []string) string {
			return name + "[" + strings.Join(args, ", ") + "]"
		},
		NamedFormat: func(_, name string) string {
			return name
		},
	}
}

// CPP renders types as C++/WinRT projections.
func CPP() *Style {
	return &Style{
		Name: "cpp",
		Elements: map[metadata.ElementType]string{
			metadata.ElementVoid:    "void",
			metadata.ElementBoolean: "bool",
			metadata.ElementChar:    "char16_t",
			metadata.ElementI1:      "int8_t",
			metadata.ElementU1:      "uint8_t",
			metadata.ElementI2:      "int16_t",
			metadata.ElementU2:      "uint16_t",
			metadata.ElementI4:      "int32_t",
			metadata.ElementU4:      "uint32_t",
			metadata.ElementI8:      "int64_t",
			metadata.ElementU8:      "uint64_t",
			metadata.ElementR4:      "float",
			metadata.ElementR8:      "double",
			metadata.ElementString:  "winrt::hstring",
			metadata.ElementObject:  "winrt::Windows::Foundation::IInspectable",
		},
		GUID: "winrt::guid",
		ArrayFormat: func(elem string) string {
			return fmt.Sprintf("winrt::com_array<%s>", elem)
		},
		GenericFormat: func(name string, args []string) string {
			return name + "<" + strings.Join(args, ", ") + ">"
		},
		NamedFormat: func(namespace, name string) string {
			if namespace == "" {
				return "winrt::" + name
			}
			return "winrt::" + strings.ReplaceAll(namespace, ".", "::") + "::" + name
		},
	}
}

var styles = map[string]func() *Style{
	"python": Python,
	"cpp":    CPP,
}

// Lookup returns a fresh copy of a built-in style.
func Lookup(name string) (*Style, error) {
	if mk, ok := styles[name]; ok {
		return mk(), nil
	}
	return nil, errors.WithHintf(
		errors.NewInvalidInputf("unknown render style %q", name),
		"available styles: %s", strings.Join(StyleNames(), ", "),
	)
}

// StyleNames lists the built-in style names.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
