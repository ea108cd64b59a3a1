package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/teranos/winrtgen/category"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/metadata/metadatatest"
	"github.com/teranos/winrtgen/method"
	"github.com/teranos/winrtgen/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassify(t *testing.T) {
	snap := metadatatest.Foundation(t)
	ref := func(full string) *metadata.TypeRef {
		ns, name := metadata.SplitName(full)
		return &metadata.TypeRef{Namespace: ns, Name: name}
	}

	c, err := Classify(snap, metadatatest.MustFind(t, snap, "Windows.Foundation.Uri"))
	require.NoError(t, err)
	assert.Equal(t, category.Class, c.Category)
	assert.Equal(t, "Windows.Foundation.Uri", c.Type.FullName())

	c, err = Classify(snap, ref("Windows.Foundation.FileAttributes"))
	require.NoError(t, err)
	assert.Equal(t, category.Enum, c.Category)
	assert.Equal(t, metadata.ElementU4, c.Element)

	c, err = Classify(snap, ref("Windows.Foundation.AsyncStatus"))
	require.NoError(t, err)
	assert.Equal(t, metadata.ElementI4, c.Element)

	c, err = Classify(snap, ref("System.Guid"))
	require.NoError(t, err)
	assert.True(t, c.GUID)
	assert.Nil(t, c.Type)

	inst, err := metadata.ParseTypeDefOrRef("Windows.Foundation.Collections.IVector`1<Windows.Foundation.Point>", nil)
	require.NoError(t, err)
	c, err = Classify(snap, inst)
	require.NoError(t, err)
	assert.Equal(t, category.Interface, c.Category)
	assert.True(t, c.Instantiation)
	assert.Equal(t, "Windows.Foundation.Collections.IVector`1", c.Type.FullName())

	_, err = Classify(snap, ref("Contoso.Missing.IAbsent"))
	assert.True(t, errors.IsUnresolvedReference(err))
}

func TestRequiredInterfaces(t *testing.T) {
	snap := metadatatest.Foundation(t)

	inst, err := metadata.ParseTypeDefOrRef("Windows.Foundation.Box`1<Int32>", nil)
	require.NoError(t, err)

	reqs, err := RequiredInterfaces(snap, render.Python(), inst)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"int"}, reqs[0].Args)
}

func TestClassifyMethod(t *testing.T) {
	snap := metadatatest.Foundation(t)
	uriClass := metadatatest.MustFind(t, snap, "Windows.Foundation.IUriRuntimeClass")

	tests := []struct {
		method     string
		convention method.Convention
		params     []method.Category
		ret        method.Category
	}{
		{"get_Host", method.NoArgs, []method.Category{}, method.Out},
		{"put_Port", method.SingleArg, []method.Category{method.In}, 0},
		{"GetBytes", method.VariableArgs, []method.Category{}, method.ReceiveArray},
		{"ReadInto", method.VariableArgs, []method.Category{method.FillArray}, 0},
		{"ReadAll", method.VariableArgs, []method.Category{method.ReceiveArray}, 0},
		{"WriteAll", method.VariableArgs, []method.Category{method.PassArray}, 0},
		{"GetStatus", method.VariableArgs, []method.Category{method.Out}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			mc, err := ClassifyMethod(metadatatest.MustMethod(t, uriClass, tt.method))
			require.NoError(t, err)
			assert.Equal(t, tt.convention, mc.Convention)
			assert.Equal(t, tt.params, mc.Params)
			assert.Equal(t, tt.ret, mc.Return)
		})
	}
}

func TestClassifyMethodRejectsBadFlags(t *testing.T) {
	m := &metadata.MethodDef{
		Name:      "Bad",
		Signature: metadata.MethodDefSig{Params: []metadata.ParamSig{{Type: metadata.Sig(metadata.ElementI4)}}},
		Params:    []metadata.Param{{Name: "x", Sequence: 1, Flags: metadata.ParamIn | metadata.ParamOut}},
	}
	_, err := ClassifyMethod(m)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedConstruct(err))
}

func TestExplicitVoidReturn(t *testing.T) {
	void := metadata.Sig(metadata.ElementVoid)
	closeMethod := &metadata.MethodDef{
		Name:      "Close",
		Signature: metadata.MethodDefSig{Return: &void},
	}

	mc, err := ClassifyMethod(closeMethod)
	require.NoError(t, err)
	assert.Zero(t, mc.Return)
	assert.False(t, mc.Signature.HasReturn())

	p := newPlanner(t, metadatatest.Foundation(t), Options{})
	mp, err := p.planMethod(closeMethod, render.Scope{})
	require.NoError(t, err)
	assert.Nil(t, mp.Return)
}

func newPlanner(t *testing.T, db metadata.Database, opts Options) *Planner {
	t.Helper()
	p, err := NewPlanner(db, opts)
	require.NoError(t, err)
	return p
}

func TestPlanTypeClass(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{})

	got, err := p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.Deferral"))
	require.NoError(t, err)

	want := &TypePlan{
		Namespace:  "Windows.Foundation",
		Name:       "Deferral",
		Category:   category.Class,
		ModulePath: []string{"Windows", "Foundation"},
		Dealloc:    true,
		Interfaces: []InterfacePlan{{Name: "Windows.Foundation.IClosable"}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("PlanType mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanTypeMethods(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{})

	tp, err := p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.IUriRuntimeClass"))
	require.NoError(t, err)
	assert.True(t, tp.Exclusive)
	assert.Equal(t, []string{"System"}, tp.Dependencies)

	byName := make(map[string]MethodPlan)
	for _, m := range tp.Methods {
		byName[m.MemberName] = m
	}

	want := MethodPlan{
		Name:       "ReadInto",
		MemberName: "ReadInto",
		Convention: method.VariableArgs,
		InCount:    1,
		Params: []ParamPlan{
			{Name: "buffer", Type: "list[int]", Category: method.FillArray, In: true, Out: true},
		},
	}
	if diff := cmp.Diff(want, byName["ReadInto"]); diff != "" {
		t.Errorf("ReadInto mismatch (-want +got):\n%s", diff)
	}

	escaped, ok := byName["CombineUriEscaped"]
	require.True(t, ok)
	assert.Equal(t, "CombineUri", escaped.Name)
	assert.Equal(t, 2, escaped.InCount)
	assert.Equal(t, &ReturnPlan{Name: method.DefaultReturnName, Type: "Uri", Category: method.Out}, escaped.Return)

	assert.Equal(t, "uuid.UUID", byName["get_Id"].Return.Type)
	assert.Equal(t, &ReturnPlan{Name: method.DefaultReturnName, Type: "IReference[int]", Category: method.Out, Nullable: "int"}, byName["GetPort"].Return)
	assert.Empty(t, escaped.Return.Nullable)
	assert.Equal(t, "TypedEventHandler[Uri, object]", byName["add_Changed"].Params[0].Type)
}

func TestPlanTypeGenericAndDelegate(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{Style: render.CPP()})

	tp, err := p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.IStringable"))
	require.NoError(t, err)
	require.Len(t, tp.Methods, 1)
	assert.Equal(t, &ReturnPlan{Name: "value", Type: "winrt::hstring", Category: method.Out}, tp.Methods[0].Return)

	tp, err = p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.TypedEventHandler`2"))
	require.NoError(t, err)
	require.NotNil(t, tp.Invoke)
	assert.Equal(t, category.Delegate, tp.Category)
	assert.False(t, tp.Dealloc)
	assert.Equal(t, "TSender", tp.Invoke.Params[0].Type)
	assert.Equal(t, "TResult", tp.Invoke.Params[1].Type)
	assert.Empty(t, tp.Invoke.Params[1].Nullable)

	tp, err = p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.FileAttributes"))
	require.NoError(t, err)
	assert.True(t, tp.Flags)
	assert.Equal(t, "UInt32", tp.Element)

	tp, err = p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.DateTime"))
	require.NoError(t, err)
	assert.True(t, tp.Customized)
}

func TestPlanTypeDependencies(t *testing.T) {
	snap := metadatatest.All(t)
	p := newPlanner(t, snap, Options{})

	tp, err := p.PlanType(metadatatest.MustFind(t, snap, "Contoso.Widgets.Widget"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Windows.Foundation", "Windows.Foundation.Collections"}, tp.Dependencies)
	assert.Equal(t, []string{"Contoso", "Widgets"}, tp.ModulePath)
}

func TestSelect(t *testing.T) {
	snap := metadatatest.All(t)

	all := newPlanner(t, snap, Options{}).Select()
	assert.Len(t, all, len(snap.Types()))

	names := func(defs []*metadata.TypeDef) []string {
		var out []string
		for _, d := range defs {
			out = append(out, d.FullName())
		}
		return out
	}

	contoso := newPlanner(t, snap, Options{Namespaces: []string{"Contoso"}}).Select()
	assert.Equal(t, []string{"Contoso.Widgets.IWidget", "Contoso.Widgets.Widget", "Contoso.Widgets.Gadget"}, names(contoso))

	filtered := newPlanner(t, snap, Options{ExcludeExclusive: true}).Select()
	assert.NotContains(t, names(filtered), "Windows.Foundation.IUriRuntimeClass")
	assert.Len(t, filtered, len(all)-1)

	none := newPlanner(t, snap, Options{Namespaces: []string{"Windows.Found"}}).Select()
	assert.Empty(t, none)
}

func TestUnmatchedNamespaces(t *testing.T) {
	snap := metadatatest.All(t)

	assert.Empty(t, newPlanner(t, snap, Options{}).UnmatchedNamespaces())

	p := newPlanner(t, snap, Options{Namespaces: []string{
		"Windows.Found", "Contoso", "Windows.Foundation.Collections", "Fabrikam",
	}})
	assert.Equal(t, []string{"Windows.Found", "Fabrikam"}, p.UnmatchedNamespaces())
}

func TestRunIsolatesFailures(t *testing.T) {
	snap := metadatatest.All(t)
	p := newPlanner(t, snap, Options{Workers: 3})
	types := p.Select()

	res, err := p.Run(context.Background(), types)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "python", res.Style)
	assert.False(t, res.OK())

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "Contoso.Widgets.Gadget", res.Failures[0].Type)
	assert.Equal(t, "unresolved_reference", res.Failures[0].Kind)
	assert.NotEmpty(t, res.Failures[0].Hints)

	require.Len(t, res.Plans, len(types)-1)
	i := 0
	for _, def := range types {
		if def.Name == "Gadget" {
			continue
		}
		assert.Equal(t, def.FullName(), res.Plans[i].FullName(), "plans keep input order")
		i++
	}
}

func TestRunMatchesSequentialPlanning(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{Workers: 8})

	res, err := p.Run(context.Background(), snap.Types())
	require.NoError(t, err)
	require.True(t, res.OK())

	for i, def := range snap.Types() {
		want, err := p.PlanType(def)
		require.NoError(t, err)
		if diff := cmp.Diff(want, res.Plans[i]); diff != "" {
			t.Errorf("%s differs (-sequential +parallel):\n%s", def.FullName(), diff)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Run(ctx, snap.Types())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Empty(t, res.Plans)
}

func TestEncode(t *testing.T) {
	snap := metadatatest.Foundation(t)
	p := newPlanner(t, snap, Options{})
	tp, err := p.PlanType(metadatatest.MustFind(t, snap, "Windows.Foundation.Uri"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, tp))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "class", decoded["category"])
	assert.Equal(t, "Uri", decoded["name"])

	buf.Reset()
	require.NoError(t, Encode(&buf, "YAML", tp))
	var doc struct {
		Category string `yaml:"category"`
		Methods  []struct {
			Convention string `yaml:"convention"`
		} `yaml:"methods"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "class", doc.Category)
	require.Len(t, doc.Methods, 1)
	assert.Equal(t, "variable_args", doc.Methods[0].Convention)

	err = Encode(&buf, "xml", tp)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Equal(t, []string{"json", "yaml"}, Formats())
}
