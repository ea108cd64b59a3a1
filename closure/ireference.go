package closure

import (
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// IReference is the full name of the nullable value wrapper.
const IReference = "Windows.Foundation.IReference`1"

// NullableArg reports whether sig instantiates IReference`1 and returns the
// wrapped type when it does. The generic type is resolved through r, so a
// reference into an unloaded module is an unresolved reference rather than a
// non-match.
func NullableArg(r metadata.Resolver, sig metadata.TypeSig) (metadata.TypeSig, bool, error) {
	var inst *metadata.GenericTypeInstSig
	switch t := sig.Type.(type) {
	case *metadata.GenericTypeInstSig:
		inst = t
	case *metadata.TypeSpec:
		inst = t.Signature
	}
	if inst == nil || sig.SZArray {
		return metadata.TypeSig{}, false, nil
	}

	def, err := metadata.ResolveDefOrRef(r, inst.GenericType)
	if err != nil {
		return metadata.TypeSig{}, false, err
	}
	if def.FullName() != IReference {
		return metadata.TypeSig{}, false, nil
	}
	if len(inst.Args) != 1 {
		return metadata.TypeSig{}, false, errors.NewMalformedGenericf("%s takes exactly one argument, got %d", IReference, len(inst.Args))
	}
	return inst.Args[0], true, nil
}

// IReferenceArg returns the wrapped type of an IReference`1 instantiation.
// Any other signature is malformed generic usage.
func IReferenceArg(r metadata.Resolver, sig metadata.TypeSig) (metadata.TypeSig, error) {
	arg, ok, err := NullableArg(r, sig)
	if err != nil {
		return metadata.TypeSig{}, err
	}
	if !ok {
		return metadata.TypeSig{}, errors.NewMalformedGenericf("%s is not an instantiation of %s", sig, IReference)
	}
	return arg, nil
}
