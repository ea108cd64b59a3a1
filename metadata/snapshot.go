package metadata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/winrtgen/errors"
)

// SupportedFormats is the semver constraint snapshot documents must satisfy.
const SupportedFormats = ">= 1.0.0, < 2.0.0"

// Document is one metadata module as written in a snapshot file.
type Document struct {
	FormatVersion string    `yaml:"format_version" toml:"format_version"`
	Module        string    `yaml:"module" toml:"module"`
	Types         []TypeDoc `yaml:"types" toml:"types"`
}

// TypeDoc describes a type definition. Its category is never written down:
// it follows from Extends and Flags.
type TypeDoc struct {
	Namespace     string         `yaml:"namespace" toml:"namespace"`
	Name          string         `yaml:"name" toml:"name"`
	Extends       string         `yaml:"extends,omitempty" toml:"extends,omitempty"`
	Flags         []string       `yaml:"flags,omitempty" toml:"flags,omitempty"`
	GenericParams []string       `yaml:"generic_params,omitempty" toml:"generic_params,omitempty"`
	Interfaces    []string       `yaml:"interfaces,omitempty" toml:"interfaces,omitempty"`
	Attributes    []AttributeDoc `yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Methods       []MethodDoc    `yaml:"methods,omitempty" toml:"methods,omitempty"`
}

// AttributeDoc describes a custom attribute.
type AttributeDoc struct {
	Namespace string   `yaml:"namespace" toml:"namespace"`
	Name      string   `yaml:"name" toml:"name"`
	Args      []string `yaml:"args,omitempty" toml:"args,omitempty"`
}

// MethodDoc describes a method. ReturnName, when set, emits a sequence-0
// parameter record naming the return value.
type MethodDoc struct {
	Name       string         `yaml:"name" toml:"name"`
	Flags      []string       `yaml:"flags,omitempty" toml:"flags,omitempty"`
	Return     string         `yaml:"return,omitempty" toml:"return,omitempty"`
	ReturnName string         `yaml:"return_name,omitempty" toml:"return_name,omitempty"`
	Params     []ParamDoc     `yaml:"params,omitempty" toml:"params,omitempty"`
	Attributes []AttributeDoc `yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// ParamDoc describes a parameter record and its signature entry.
type ParamDoc struct {
	Name  string   `yaml:"name" toml:"name"`
	Type  string   `yaml:"type" toml:"type"`
	Flags []string `yaml:"flags,omitempty" toml:"flags,omitempty"`
	ByRef bool     `yaml:"by_ref,omitempty" toml:"by_ref,omitempty"`
}

var typeFlagNames = map[string]TypeFlags{
	"interface":       TypeInterface,
	"abstract":        TypeAbstract,
	"sealed":          TypeSealed,
	"windows_runtime": TypeWindowsRuntime,
}

var methodFlagNames = map[string]MethodFlags{
	"static":          MethodStatic,
	"special_name":    MethodSpecialName,
	"rt_special_name": MethodRTSpecialName,
	"abstract":        MethodAbstract,
	"virtual":         MethodVirtual,
}

var paramFlagNames = map[string]ParamFlags{
	"in":       ParamIn,
	"out":      ParamOut,
	"optional": ParamOptional,
}

// Snapshot is an immutable in-memory Database built from snapshot documents.
// It is safe for concurrent use once built.
type Snapshot struct {
	types []*TypeDef
	index map[string]*TypeDef
}

var _ Database = (*Snapshot)(nil)

// NewSnapshot indexes already-built definitions. Duplicate full names fail.
func NewSnapshot(types ...*TypeDef) (*Snapshot, error) {
	s := &Snapshot{index: make(map[string]*TypeDef, len(types))}
	for _, t := range types {
		if _, dup := s.index[t.FullName()]; dup {
			return nil, errors.NewInvalidInputf("type %s declared more than once", t.FullName())
		}
		s.index[t.FullName()] = t
		s.types = append(s.types, t)
	}
	return s, nil
}

// Find implements Resolver.
func (s *Snapshot) Find(namespace, name string) (*TypeDef, bool) {
	t, ok := s.index[JoinName(namespace, name)]
	return t, ok
}

// Types implements Database.
func (s *Snapshot) Types() []*TypeDef {
	return s.types
}

// Namespaces returns the sorted set of namespaces that declare types.
func (s *Snapshot) Namespaces() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.types {
		if _, ok := seen[t.Namespace]; ok {
			continue
		}
		seen[t.Namespace] = struct{}{}
		out = append(out, t.Namespace)
	}
	sort.Strings(out)
	return out
}

// LoadFiles reads and builds a snapshot from one file per metadata module.
func LoadFiles(paths ...string) (*Snapshot, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read snapshot %s", path)
		}
		doc, err := DecodeDocument(path, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return Build(docs...)
}

// DecodeDocument decodes a snapshot document, choosing TOML or YAML by the
// file extension, and checks its format version.
func DecodeDocument(path string, data []byte) (*Document, error) {
	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to decode %s", path), errors.ErrInvalidInput)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to decode %s", path), errors.ErrInvalidInput)
		}
	default:
		return nil, errors.WithHint(
			errors.NewInvalidInputf("%s: unsupported snapshot extension", path),
			"use .yaml, .yml or .toml",
		)
	}
	if doc.Module == "" {
		doc.Module = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := CheckFormat(doc.FormatVersion); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return &doc, nil
}

// CheckFormat verifies a document format version against SupportedFormats.
func CheckFormat(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.NewInvalidInputf("invalid format_version %q: %v", version, err)
	}
	constraint, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return errors.Wrap(err, "invalid supported format constraint")
	}
	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.NewInvalidInputf("format_version %s is not supported", v),
			"supported formats: %s", SupportedFormats,
		)
	}
	return nil
}

// Build turns decoded documents into a Snapshot. Names declared in the same
// module bind to definitions; every other name becomes an external reference.
func Build(docs ...*Document) (*Snapshot, error) {
	var all []*TypeDef
	modules := make([]map[string]*TypeDef, len(docs))

	for i, doc := range docs {
		local := make(map[string]*TypeDef, len(doc.Types))
		for _, td := range doc.Types {
			if td.Name == "" {
				return nil, errors.NewInvalidInputf("module %s: type without a name", doc.Module)
			}
			def := &TypeDef{
				Namespace:     td.Namespace,
				Name:          td.Name,
				GenericParams: td.GenericParams,
				Attributes:    attributes(td.Attributes),
			}
			flags, err := parseFlags(td.Flags, typeFlagNames)
			if err != nil {
				return nil, errors.Wrapf(err, "type %s", def.FullName())
			}
			def.Flags = flags
			local[def.FullName()] = def
			all = append(all, def)
		}
		modules[i] = local
	}

	snap, err := NewSnapshot(all...)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		local := modules[i]
		bind := func(namespace, name string) TypeDefOrRef {
			if def, ok := local[JoinName(namespace, name)]; ok {
				return def
			}
			return &TypeRef{Namespace: namespace, Name: name}
		}
		for _, td := range doc.Types {
			def := local[JoinName(td.Namespace, td.Name)]
			if err := fillType(def, td, bind); err != nil {
				return nil, errors.Wrapf(err, "module %s: type %s", doc.Module, def.FullName())
			}
		}
	}

	return snap, nil
}

func fillType(def *TypeDef, td TypeDoc, bind Binder) error {
	if td.Extends != "" {
		base, err := ParseTypeDefOrRef(td.Extends, bind)
		if err != nil {
			return errors.Wrap(err, "extends")
		}
		def.Extends = base
	}

	for _, expr := range td.Interfaces {
		iface, err := ParseTypeDefOrRef(expr, bind)
		if err != nil {
			return errors.Wrap(err, "interfaces")
		}
		def.Interfaces = append(def.Interfaces, iface)
	}

	for _, md := range td.Methods {
		m, err := buildMethod(md, bind)
		if err != nil {
			return errors.Wrapf(err, "method %s", md.Name)
		}
		def.Methods = append(def.Methods, m)
	}
	return nil
}

func buildMethod(md MethodDoc, bind Binder) (*MethodDef, error) {
	flags, err := parseFlags(md.Flags, methodFlagNames)
	if err != nil {
		return nil, err
	}
	m := &MethodDef{
		Name:       md.Name,
		Flags:      flags,
		Attributes: attributes(md.Attributes),
	}

	if md.Return != "" {
		ret, err := ParseTypeSig(md.Return, bind)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}
		if !ret.IsVoid() {
			m.Signature.Return = &ret
		}
	}
	if md.ReturnName != "" {
		m.Params = append(m.Params, Param{Name: md.ReturnName, Sequence: 0})
	}

	for i, pd := range md.Params {
		sig, err := ParseTypeSig(pd.Type, bind)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", pd.Name)
		}
		pflags, err := parseFlags(pd.Flags, paramFlagNames)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", pd.Name)
		}
		m.Signature.Params = append(m.Signature.Params, ParamSig{Type: sig, ByRef: pd.ByRef})
		m.Params = append(m.Params, Param{Name: pd.Name, Sequence: uint16(i + 1), Flags: pflags})
	}
	return m, nil
}

func attributes(docs []AttributeDoc) []Attribute {
	if len(docs) == 0 {
		return nil
	}
	out := make([]Attribute, len(docs))
	for i, d := range docs {
		out[i] = Attribute{Namespace: d.Namespace, Name: d.Name, Args: d.Args}
	}
	return out
}

func parseFlags[F ~uint32](names []string, table map[string]F) (F, error) {
	var flags F
	for _, name := range names {
		f, ok := table[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, errors.NewInvalidInputf("unknown flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}
