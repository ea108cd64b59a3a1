package metadata

import (
	"strconv"
	"strings"

	"github.com/teranos/winrtgen/errors"
)

// Binder maps a dotted type name to a coded index. Snapshot loading binds
// names declared in the same module to their definitions and everything else
// to external references.
type Binder func(namespace, name string) TypeDefOrRef

// RefBinder binds every name to an external reference.
func RefBinder(namespace, name string) TypeDefOrRef {
	return &TypeRef{Namespace: namespace, Name: name}
}

// ParseTypeSig parses a type expression:
//
//	Int32                                   primitive element
//	Windows.Foundation.Uri                  named type
//	Windows.Foundation.IReference`1<Int32>  generic instantiation
//	!0                                      generic parameter index
//	String[]                                single-dimension array
//
// A nil binder binds every name as an external reference.
func ParseTypeSig(expr string, bind Binder) (TypeSig, error) {
	if bind == nil {
		bind = RefBinder
	}
	p := &sigParser{src: expr, bind: bind}
	sig, err := p.sig()
	if err != nil {
		return TypeSig{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeSig{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return sig, nil
}

// ParseTypeDefOrRef parses a type expression used as a coded index (an
// interface edge or base type). Generic instantiations become a *TypeSpec.
func ParseTypeDefOrRef(expr string, bind Binder) (TypeDefOrRef, error) {
	sig, err := ParseTypeSig(expr, bind)
	if err != nil {
		return nil, err
	}
	if sig.SZArray {
		return nil, errors.NewInvalidInputf("%q: arrays cannot be used as a type index", expr)
	}
	switch t := sig.Type.(type) {
	case TypeDefOrRef:
		return t, nil
	case *GenericTypeInstSig:
		return &TypeSpec{Signature: t}, nil
	default:
		return nil, errors.NewInvalidInputf("%q: expected a named type", expr)
	}
}

type sigParser struct {
	src  string
	pos  int
	bind Binder
}

func (p *sigParser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.NewInvalidInputf(format, args...), "parsing type expression %q at offset %d", p.src, p.pos)
}

func (p *sigParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *sigParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *sigParser) sig() (TypeSig, error) {
	p.skipSpace()
	t, err := p.base()
	if err != nil {
		return TypeSig{}, err
	}
	sig := TypeSig{Type: t}
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], "[]") {
		p.pos += 2
		sig.SZArray = true
	}
	return sig, nil
}

func (p *sigParser) base() (SigType, error) {
	if p.peek() == '!' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		idx, err := strconv.ParseUint(p.src[start:p.pos], 10, 32)
		if err != nil {
			return nil, p.errorf("bad generic parameter index")
		}
		return GenericTypeIndex{Index: uint32(idx)}, nil
	}

	full := p.name()
	if full == "" {
		return nil, p.errorf("expected a type name")
	}

	p.skipSpace()
	if p.peek() != '<' {
		if !strings.Contains(full, ".") {
			if e, ok := LookupElement(full); ok {
				return e, nil
			}
		}
		ns, name := SplitName(full)
		return p.bind(ns, name), nil
	}

	p.pos++
	var args []TypeSig
	for {
		arg, err := p.sig()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '>':
			p.pos++
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
		break
	}

	ns, name := SplitName(full)
	if arity, ok := declaredArity(name); ok && arity != len(args) {
		return nil, errors.NewMalformedGenericf("%s declares %d generic parameters, got %d arguments", full, arity, len(args))
	}
	return &GenericTypeInstSig{GenericType: p.bind(ns, name), Args: args}, nil
}

func (p *sigParser) name() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || c == '`' || c == '_' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func declaredArity(name string) (int, bool) {
	i := strings.IndexByte(name, '`')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
