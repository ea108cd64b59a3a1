package render

import (
	"strings"

	"github.com/teranos/winrtgen/metadata"
)

// Scope binds generic parameter indexes to rendered argument expressions.
// The zero Scope binds nothing.
type Scope struct {
	args []string
}

// NewScope returns a scope binding !0, !1, ... to args. The slice is copied.
func NewScope(args ...string) Scope {
	if len(args) == 0 {
		return Scope{}
	}
	return Scope{args: append([]string(nil), args...)}
}

// TemplateScope binds a generic definition's parameters to their own names.
func TemplateScope(def *metadata.TypeDef) Scope {
	return NewScope(def.GenericParams...)
}

// Len returns the number of bound parameters.
func (s Scope) Len() int { return len(s.args) }

// Arg returns the expression bound to the given parameter index.
func (s Scope) Arg(idx metadata.GenericTypeIndex) (string, bool) {
	if int(idx.Index) >= len(s.args) {
		return "", false
	}
	return s.args[idx.Index], true
}

// Args returns a copy of the bound expressions.
func (s Scope) Args() []string {
	if len(s.args) == 0 {
		return nil
	}
	return append([]string(nil), s.args...)
}

func (s Scope) String() string {
	return "[" + strings.Join(s.args, ", ") + "]"
}
