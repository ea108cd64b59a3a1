package plan

import (
	"time"

	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/method"
)

// TypePlan is everything an emitter needs to generate one type definition.
type TypePlan struct {
	Namespace string            `json:"namespace" yaml:"namespace"`
	Name      string            `json:"name" yaml:"name"`
	Category  category.Category `json:"category" yaml:"category"`

	// ModulePath is the namespace split into its dotted segments.
	ModulePath []string `json:"module_path" yaml:"module_path"`

	GenericParams []string `json:"generic_params,omitempty" yaml:"generic_params,omitempty"`
	Element       string   `json:"element,omitempty" yaml:"element,omitempty"`

	Exclusive  bool `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	Flags      bool `json:"flags,omitempty" yaml:"flags,omitempty"`
	Static     bool `json:"static,omitempty" yaml:"static,omitempty"`
	Dealloc    bool `json:"dealloc,omitempty" yaml:"dealloc,omitempty"`
	Customized bool `json:"customized,omitempty" yaml:"customized,omitempty"`

	Interfaces   []InterfacePlan `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Methods      []MethodPlan    `json:"methods,omitempty" yaml:"methods,omitempty"`
	Invoke       *MethodPlan     `json:"invoke,omitempty" yaml:"invoke,omitempty"`
	Dependencies []string        `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// FullName returns Namespace.Name.
func (p *TypePlan) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "." + p.Name
}

// InterfacePlan is one required interface with rendered generic arguments.
type InterfacePlan struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// MethodPlan is the marshaling plan for one method.
type MethodPlan struct {
	Name        string            `json:"name" yaml:"name"`
	MemberName  string            `json:"member_name" yaml:"member_name"`
	Convention  method.Convention `json:"convention" yaml:"convention"`
	Static      bool              `json:"static,omitempty" yaml:"static,omitempty"`
	Constructor bool              `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	InCount     int               `json:"in_count" yaml:"in_count"`
	Params      []ParamPlan       `json:"params,omitempty" yaml:"params,omitempty"`
	Return      *ReturnPlan       `json:"return,omitempty" yaml:"return,omitempty"`
}

// ParamPlan is the marshaling plan for one parameter.
type ParamPlan struct {
	Name     string          `json:"name" yaml:"name"`
	Type     string          `json:"type" yaml:"type"`
	Category method.Category `json:"category" yaml:"category"`
	In       bool            `json:"in" yaml:"in"`
	Out      bool            `json:"out" yaml:"out"`

	// Nullable is the rendered wrapped type when Type is an IReference`1
	// instantiation, so emitters can surface an optional value.
	Nullable string `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// ReturnPlan is the marshaling plan for a return value.
type ReturnPlan struct {
	Name     string          `json:"name" yaml:"name"`
	Type     string          `json:"type" yaml:"type"`
	Category method.Category `json:"category" yaml:"category"`
	Nullable string          `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// Failure reports a type that could not be planned.
type Failure struct {
	Type  string   `json:"type" yaml:"type"`
	Kind  string   `json:"kind" yaml:"kind"`
	Error string   `json:"error" yaml:"error"`
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Result is the outcome of a planning run. Plans and Failures keep the order
// of the input types.
type Result struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Style      string        `json:"style" yaml:"style"`
	Duration   time.Duration `json:"-" yaml:"-"`
	DurationMS int64         `json:"duration_ms" yaml:"duration_ms"`
	Plans      []*TypePlan   `json:"plans" yaml:"plans"`
	Failures   []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// OK reports whether every type was planned.
func (r *Result) OK() bool { return len(r.Failures) == 0 }
