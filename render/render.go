package render

import (
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/signature"
)

// Renderer writes signatures in a Style, resolving external references
// through a metadata Resolver. A Renderer is stateless and safe for
// concurrent use.
type Renderer struct {
	resolver metadata.Resolver
	style    *Style
}

// New creates a renderer. A nil style selects Python.
func New(resolver metadata.Resolver, style *Style) (*Renderer, error) {
	if resolver == nil {
		return nil, errors.AssertionFailedf("render: nil resolver")
	}
	if style == nil {
		style = Python()
	}
	return &Renderer{resolver: resolver, style: style}, nil
}

// Style returns the renderer's style.
func (r *Renderer) Style() *Style { return r.style }

// Sig renders a full signature, arrays included.
func (r *Renderer) Sig(sig metadata.TypeSig, scope Scope) (string, error) {
	out, err := r.sigType(sig.Type, scope)
	if err != nil {
		return "", err
	}
	if sig.SZArray {
		out = r.style.ArrayFormat(out)
	}
	return out, nil
}

// Index renders a coded type index.
func (r *Renderer) Index(t metadata.TypeDefOrRef, scope Scope) (string, error) {
	if spec, ok := t.(*metadata.TypeSpec); ok {
		if spec.Signature == nil {
			return "", errors.NewMalformedGenericf("type spec without a signature")
		}
		return r.Inst(spec.Signature, scope)
	}
	return r.leaf(metadata.Sig(t), scope)
}

// Inst renders a generic instantiation.
func (r *Renderer) Inst(sig *metadata.GenericTypeInstSig, scope Scope) (string, error) {
	name, err := r.leaf(metadata.Sig(sig.GenericType), scope)
	if err != nil {
		return "", err
	}
	args, err := r.Args(sig, scope)
	if err != nil {
		return "", err
	}
	return r.style.GenericFormat(name, args), nil
}

// Args renders the arguments of a generic instantiation in order.
func (r *Renderer) Args(sig *metadata.GenericTypeInstSig, scope Scope) ([]string, error) {
	args := make([]string, 0, len(sig.Args))
	for _, arg := range sig.Args {
		s, err := r.Sig(arg, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "argument of %s", sig.GenericType)
		}
		args = append(args, s)
	}
	return args, nil
}

func (r *Renderer) sigType(t metadata.SigType, scope Scope) (string, error) {
	switch v := t.(type) {
	case *metadata.GenericTypeInstSig:
		return r.Inst(v, scope)
	case metadata.TypeDefOrRef:
		return r.Index(v, scope)
	default:
		return r.leaf(metadata.Sig(t), scope)
	}
}

// leaf names a non-generic node through the signature dispatcher.
func (r *Renderer) leaf(sig metadata.TypeSig, scope Scope) (string, error) {
	n := &namer{style: r.style, scope: scope}
	d, err := signature.NewDispatcher(r.resolver, n)
	if err != nil {
		return "", err
	}
	if err := d.Sig(sig); err != nil {
		return "", err
	}
	return n.name, nil
}

// namer records the target name of the one node it is dispatched.
type namer struct {
	style *Style
	scope Scope
	name  string
}

var (
	_ signature.EnumHandler         = (*namer)(nil)
	_ signature.GenericIndexHandler = (*namer)(nil)
)

func (n *namer) named(t *metadata.TypeDef) error {
	n.name = n.style.NamedFormat(t.Namespace, metadata.TrimArity(t.Name))
	return nil
}

func (n *namer) HandleClass(t *metadata.TypeDef) error     { return n.named(t) }
func (n *namer) HandleDelegate(t *metadata.TypeDef) error  { return n.named(t) }
func (n *namer) HandleInterface(t *metadata.TypeDef) error { return n.named(t) }
func (n *namer) HandleStruct(t *metadata.TypeDef) error    { return n.named(t) }
func (n *namer) HandleEnum(t *metadata.TypeDef) error      { return n.named(t) }

func (n *namer) HandleGUID(*metadata.TypeRef) error {
	n.name = n.style.GUID
	return nil
}

func (n *namer) HandleElement(e metadata.ElementType) error {
	name, err := n.style.Element(e)
	if err != nil {
		return err
	}
	n.name = name
	return nil
}

func (n *namer) HandleGenericIndex(idx metadata.GenericTypeIndex) error {
	arg, ok := n.scope.Arg(idx)
	if !ok {
		return errors.NewMalformedGenericf("generic parameter %s is not bound in scope %s", idx, n.scope)
	}
	n.name = arg
	return nil
}
