package plan

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/closure"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/method"
	"github.com/teranos/winrtgen/render"
)

// Options configures a Planner.
type Options struct {
	// Style renders type expressions. Nil selects Python.
	Style *render.Style

	// Workers bounds parallel planning. Zero or less uses GOMAXPROCS.
	Workers int

	// Namespaces restricts Select to these namespaces and their children.
	// Empty selects everything.
	Namespaces []string

	// ExcludeExclusive drops exclusive-to interfaces from Select.
	ExcludeExclusive bool
}

// Planner builds TypePlans from a metadata database. All of its state is
// read-only after construction, so PlanType may run concurrently.
type Planner struct {
	db       metadata.Database
	opts     Options
	renderer *render.Renderer
	closure  *closure.Resolver
	logger   *zap.SugaredLogger
}

// NewPlanner creates a planner over db.
func NewPlanner(db metadata.Database, opts Options) (*Planner, error) {
	if db == nil {
		return nil, errors.AssertionFailedf("plan: nil database")
	}
	if opts.Style == nil {
		opts.Style = render.Python()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	r, err := render.New(db, opts.Style)
	if err != nil {
		return nil, err
	}
	c, err := closure.New(db, opts.Style)
	if err != nil {
		return nil, err
	}
	return &Planner{
		db:       db,
		opts:     opts,
		renderer: r,
		closure:  c,
		logger:   logger.ComponentLogger("plan"),
	}, nil
}

// Select returns the definitions a run should plan, in declaration order.
func (p *Planner) Select() []*metadata.TypeDef {
	var out []*metadata.TypeDef
	for _, t := range p.db.Types() {
		if !p.inNamespaces(t.Namespace) {
			continue
		}
		if p.opts.ExcludeExclusive && category.IsExclusiveTo(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// UnmatchedNamespaces returns the namespace filters that select no declared
// namespace, in filter order.
func (p *Planner) UnmatchedNamespaces() []string {
	declared := p.db.Namespaces()
	var out []string
	for _, want := range p.opts.Namespaces {
		matched := false
		for _, ns := range declared {
			if ns == want || strings.HasPrefix(ns, want+".") {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, want)
		}
	}
	return out
}

func (p *Planner) inNamespaces(ns string) bool {
	if len(p.opts.Namespaces) == 0 {
		return true
	}
	for _, want := range p.opts.Namespaces {
		if ns == want || strings.HasPrefix(ns, want+".") {
			return true
		}
	}
	return false
}

// PlanType builds the plan of a single definition.
func (p *Planner) PlanType(def *metadata.TypeDef) (*TypePlan, error) {
	cat := category.Of(def)
	tp := &TypePlan{
		Namespace:     def.Namespace,
		Name:          def.Name,
		Category:      cat,
		ModulePath:    metadata.DottedSegments(def.Namespace),
		GenericParams: def.GenericParams,
		Exclusive:     category.IsExclusiveTo(def),
		Flags:         category.IsFlagsEnum(def),
		Static:        category.IsStatic(def),
		Dealloc:       category.HasDealloc(def),
		Customized:    cat == category.Struct && category.IsCustomizedStruct(def),
	}
	if cat == category.Enum {
		tp.Element = category.EnumElement(def).String()
	}

	reqs, err := p.closure.Required(def)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		tp.Interfaces = append(tp.Interfaces, InterfacePlan{Name: r.FullName(), Args: r.Args})
	}

	scope := render.TemplateScope(def)
	for _, m := range def.Methods {
		mp, err := p.planMethod(m, scope)
		if err != nil {
			return nil, err
		}
		tp.Methods = append(tp.Methods, *mp)
	}

	if cat == category.Delegate {
		invoke, err := category.DelegateInvoke(def)
		if err != nil {
			return nil, err
		}
		if tp.Invoke, err = p.planMethod(invoke, scope); err != nil {
			return nil, err
		}
	}

	if tp.Dependencies, err = collectDependencies(p.db, def); err != nil {
		return nil, err
	}
	return tp, nil
}

func (p *Planner) planMethod(m *metadata.MethodDef, scope render.Scope) (*MethodPlan, error) {
	mc, err := ClassifyMethod(m)
	if err != nil {
		return nil, err
	}
	in, err := method.CountIn(mc.Signature.Params)
	if err != nil {
		return nil, err
	}

	mp := &MethodPlan{
		Name:        m.Name,
		MemberName:  method.MemberName(m),
		Convention:  mc.Convention,
		Static:      method.IsStatic(m),
		Constructor: method.IsConstructor(m),
		InCount:     in,
	}
	for i, param := range mc.Signature.Params {
		typ, err := p.renderer.Sig(param.Sig.Type, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s parameter %s", m.Name, param.Name())
		}
		nullable, err := p.nullable(param.Sig.Type, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s parameter %s", m.Name, param.Name())
		}
		c := mc.Params[i]
		mp.Params = append(mp.Params, ParamPlan{
			Name:     param.Name(),
			Type:     typ,
			Category: c,
			In:       c.IsIn(),
			Out:      c.IsOut(),
			Nullable: nullable,
		})
	}
	if ret := mc.Signature.Return(); ret != nil {
		typ, err := p.renderer.Sig(*ret, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s return", m.Name)
		}
		nullable, err := p.nullable(*ret, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s return", m.Name)
		}
		mp.Return = &ReturnPlan{
			Name:     mc.Signature.ReturnParamName(),
			Type:     typ,
			Category: mc.Return,
			Nullable: nullable,
		}
	}
	return mp, nil
}

// nullable renders the wrapped type of an IReference`1 signature, or returns
// "" for anything else.
func (p *Planner) nullable(sig metadata.TypeSig, scope render.Scope) (string, error) {
	arg, ok, err := closure.NullableArg(p.db, sig)
	if err != nil || !ok {
		return "", err
	}
	return p.renderer.Sig(arg, scope)
}

// Run plans types in parallel. A type that fails is reported in the result
// and does not stop its siblings. Cancelling ctx stops scheduling and
// returns the partial result together with the context error.
func (p *Planner) Run(ctx context.Context, types []*metadata.TypeDef) (*Result, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.With(ctx, p.logger)

	start := time.Now()
	log.Infow("Planning started",
		logger.FieldTotalCount, len(types),
		logger.FieldWorkers, p.opts.Workers)

	plans := make([]*TypePlan, len(types))
	failures := make([]*Failure, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, def := range types {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			tp, err := p.PlanType(def)
			if err != nil {
				failures[i] = newFailure(def, err)
				log.Warnw("Type planning failed",
					logger.FieldType, def.FullName(),
					logger.FieldErrorType, failures[i].Kind,
					logger.FieldError, err.Error())
				return nil // siblings keep planning
			}
			plans[i] = tp
			log.Debugw("Type planned",
				logger.FieldType, def.FullName(),
				logger.FieldCategory, tp.Category.String())
			return nil
		})
	}
	waitErr := g.Wait()

	res := &Result{
		RunID:    runID,
		Style:    p.opts.Style.Name,
		Duration: time.Since(start),
	}
	res.DurationMS = res.Duration.Milliseconds()
	for i := range types {
		if plans[i] != nil {
			res.Plans = append(res.Plans, plans[i])
		}
		if failures[i] != nil {
			res.Failures = append(res.Failures, *failures[i])
		}
	}

	log.Infow("Planning finished",
		logger.FieldCount, len(res.Plans),
		logger.FieldFailedCount, len(res.Failures),
		logger.FieldDurationMS, res.Duration.Milliseconds())

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		return res, errors.Wrap(waitErr, "planning interrupted")
	}
	return res, nil
}

func newFailure(def *metadata.TypeDef, err error) *Failure {
	return &Failure{
		Type:  def.FullName(),
		Kind:  errors.Kind(err),
		Error: err.Error(),
		Hints: errors.GetAllHints(err),
	}
}
