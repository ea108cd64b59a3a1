// Package method classifies methods and their parameters for marshaling:
// calling convention, per-parameter direction and array semantics, and the
// return value carrier.
package method

import (
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
)

// DefaultReturnName names the return value when no record carries it.
const DefaultReturnName = "_return_value"

// Param pairs a parameter record with its signature entry.
type Param struct {
	Record metadata.Param
	Sig    metadata.ParamSig
}

// Name returns the declared parameter name.
func (p Param) Name() string { return p.Record.Name }

// Signature is a method's parameters aligned with their records. A leading
// sequence-0 record of a non-void method is lifted out as the return
// carrier and never appears in Params.
type Signature struct {
	Method *metadata.MethodDef
	Params []Param

	returnRecord *metadata.Param
}

// NewSignature aligns the method's parameter records with its signature.
func NewSignature(m *metadata.MethodDef) (*Signature, error) {
	records := m.Params
	s := &Signature{Method: m}

	if returnsValue(m) && len(records) > 0 && records[0].Sequence == 0 {
		ret := records[0]
		s.returnRecord = &ret
		records = records[1:]
	}

	if len(records) != len(m.Signature.Params) {
		return nil, errors.NewUnsupportedf("%s: %d parameter records for %d signature parameters",
			m.Name, len(records), len(m.Signature.Params))
	}

	s.Params = make([]Param, len(records))
	for i := range records {
		s.Params[i] = Param{Record: records[i], Sig: m.Signature.Params[i]}
	}
	return s, nil
}

// Return returns the return signature, nil for void methods.
func (s *Signature) Return() *metadata.TypeSig {
	if !returnsValue(s.Method) {
		return nil
	}
	return s.Method.Signature.Return
}

// HasReturn reports whether the method returns a value.
func (s *Signature) HasReturn() bool { return returnsValue(s.Method) }

// returnsValue treats both an absent return and an explicit void element as
// void.
func returnsValue(m *metadata.MethodDef) bool {
	ret := m.Signature.Return
	return ret != nil && !ret.IsVoid()
}

// ReturnParamName names the return value: the carrier record's name when it
// has one, DefaultReturnName otherwise.
func (s *Signature) ReturnParamName() string {
	if s.returnRecord != nil && s.returnRecord.Name != "" {
		return s.returnRecord.Name
	}
	return DefaultReturnName
}

// HasParams reports whether the method takes any parameters.
func (s *Signature) HasParams() bool { return len(s.Params) > 0 }
