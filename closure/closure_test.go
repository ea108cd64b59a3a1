package closure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/metadata"
	"github.com/teranos/winrtgen/metadata/metadatatest"
	"github.com/teranos/winrtgen/render"
)

func requirementStrings(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.String()
	}
	return out
}

func required(t *testing.T, db metadata.Resolver, target metadata.TypeDefOrRef) []string {
	t.Helper()
	reqs, err := Required(db, render.Python(), target)
	require.NoError(t, err)
	return requirementStrings(reqs)
}

func TestRequiredOrder(t *testing.T) {
	snap := metadatatest.Foundation(t)

	tests := []struct {
		typeName string
		want     []string
	}{
		{
			"Windows.Foundation.Collections.StringList",
			[]string{
				"Windows.Foundation.Collections.IVector`1<str>",
				"Windows.Foundation.Collections.IIterable`1<str>",
				"Windows.Foundation.IClosable",
				"Windows.Foundation.IStringable",
			},
		},
		{
			"Windows.Foundation.Collections.IMapView`2",
			[]string{
				"Windows.Foundation.Collections.IMapView`2<K, V>",
				"Windows.Foundation.Collections.IIterable`1<IKeyValuePair[K, V]>",
			},
		},
		{
			"Windows.Foundation.Uri",
			[]string{
				"Windows.Foundation.IUriRuntimeClass",
				"Windows.Foundation.IStringable",
			},
		},
		{"Windows.Foundation.Point", nil},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got := required(t, snap, metadatatest.MustFind(t, snap, tt.typeName))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequiredDiamond(t *testing.T) {
	snap := metadatatest.Foundation(t)

	got := required(t, snap, metadatatest.MustFind(t, snap, "Windows.Foundation.IDiamondTop"))
	assert.Equal(t, []string{
		"Windows.Foundation.IDiamondTop",
		"Windows.Foundation.IDiamondLeft",
		"Windows.Foundation.IDiamondBottom",
		"Windows.Foundation.IDiamondRight",
	}, got)
}

func TestRequiredSubstitutesGenericArguments(t *testing.T) {
	snap := metadatatest.Foundation(t)
	box := metadatatest.MustFind(t, snap, "Windows.Foundation.Box`1")

	reqs, err := Required(snap, render.Python(), box)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"T"}, reqs[0].Args)

	inst := &metadata.TypeSpec{Signature: &metadata.GenericTypeInstSig{
		GenericType: box,
		Args:        []metadata.TypeSig{metadata.Sig(metadata.ElementI4)},
	}}
	reqs, err = Required(snap, render.Python(), inst)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Windows.Foundation.IComparer`1", reqs[0].FullName())
	assert.Equal(t, []string{"int"}, reqs[0].Args)

	reqs, err = Required(snap, render.Python(), metadatatest.MustFind(t, snap, "Windows.Foundation.IntComparer"))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"int"}, reqs[0].Args)

	reqs, err = Required(snap, render.CPP(), inst)
	require.NoError(t, err)
	assert.Equal(t, []string{"int32_t"}, reqs[0].Args)
}

func TestRequiredIsIdempotent(t *testing.T) {
	snap := metadatatest.Foundation(t)
	r, err := New(snap, nil)
	require.NoError(t, err)

	list := metadatatest.MustFind(t, snap, "Windows.Foundation.Collections.StringList")
	first, err := r.Required(list)
	require.NoError(t, err)
	second, err := r.Required(list)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRequiredAcrossModules(t *testing.T) {
	snap := metadatatest.All(t)

	got := required(t, snap, &metadata.TypeRef{Namespace: "Contoso.Widgets", Name: "Widget"})
	assert.Equal(t, []string{
		"Contoso.Widgets.IWidget",
		"Windows.Foundation.IClosable",
		"Windows.Foundation.Collections.IVectorView`1<str>",
		"Windows.Foundation.Collections.IIterable`1<str>",
		"Windows.Foundation.IStringable",
	}, got)
}

func TestRequiredUnresolved(t *testing.T) {
	snap := metadatatest.All(t)

	_, err := Required(snap, nil, metadatatest.MustFind(t, snap, "Contoso.Widgets.Gadget"))
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvedReference(err))
	assert.Contains(t, err.Error(), "Contoso.Missing.IAbsent")
}

func TestRequiredDetectsCycles(t *testing.T) {
	a := &metadata.TypeDef{Namespace: "Loop", Name: "IA", Flags: metadata.TypeInterface}
	b := &metadata.TypeDef{Namespace: "Loop", Name: "IB", Flags: metadata.TypeInterface}
	a.Interfaces = []metadata.TypeDefOrRef{b}
	b.Interfaces = []metadata.TypeDefOrRef{&metadata.TypeRef{Namespace: "Loop", Name: "IA"}}

	snap, err := metadata.NewSnapshot(a, b)
	require.NoError(t, err)

	_, err = Required(snap, nil, a)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Contains(t, errors.FlattenDetails(err), "Loop.IA -> Loop.IB -> Loop.IA")
}

func TestRequiredArityMismatch(t *testing.T) {
	snap := metadatatest.Foundation(t)
	vector := metadatatest.MustFind(t, snap, "Windows.Foundation.Collections.IVector`1")

	_, err := Required(snap, nil, &metadata.TypeSpec{Signature: &metadata.GenericTypeInstSig{GenericType: vector}})
	require.Error(t, err)
	assert.True(t, errors.IsMalformedGeneric(err))
}

func TestIReferenceArg(t *testing.T) {
	snap := metadatatest.Foundation(t)
	uriClass := metadatatest.MustFind(t, snap, "Windows.Foundation.IUriRuntimeClass")

	ret := metadatatest.MustMethod(t, uriClass, "GetPort").Signature.Return
	require.NotNil(t, ret)
	arg, err := IReferenceArg(snap, *ret)
	require.NoError(t, err)
	assert.Equal(t, metadata.Sig(metadata.ElementI4), arg)

	_, err = IReferenceArg(snap, metadata.Sig(metadata.ElementString))
	assert.True(t, errors.IsMalformedGeneric(err))

	vector, err := metadata.ParseTypeSig("Windows.Foundation.Collections.IVector`1<Int32>", nil)
	require.NoError(t, err)
	_, err = IReferenceArg(snap, vector)
	assert.True(t, errors.IsMalformedGeneric(err))

	twoArgs := metadata.Sig(&metadata.GenericTypeInstSig{
		GenericType: &metadata.TypeRef{Namespace: "Windows.Foundation", Name: "IReference`1"},
		Args:        []metadata.TypeSig{metadata.Sig(metadata.ElementI4), metadata.Sig(metadata.ElementI4)},
	})
	_, err = IReferenceArg(snap, twoArgs)
	assert.True(t, errors.IsMalformedGeneric(err))
}

func TestNullableArg(t *testing.T) {
	snap := metadatatest.Foundation(t)

	arg, ok, err := NullableArg(snap, metadata.ArraySig(&metadata.GenericTypeInstSig{
		GenericType: &metadata.TypeRef{Namespace: "Windows.Foundation", Name: "IReference`1"},
		Args:        []metadata.TypeSig{metadata.Sig(metadata.ElementI4)},
	}))
	require.NoError(t, err)
	assert.False(t, ok, "an array of references is not itself nullable")
	assert.Equal(t, metadata.TypeSig{}, arg)

	// Generic types from unloaded modules are unresolved, not a non-match.
	missing := metadata.Sig(&metadata.GenericTypeInstSig{
		GenericType: &metadata.TypeRef{Namespace: "Contoso.Missing", Name: "IReference`1"},
		Args:        []metadata.TypeSig{metadata.Sig(metadata.ElementI4)},
	})
	_, ok, err = NullableArg(snap, missing)
	assert.False(t, ok)
	assert.True(t, errors.IsUnresolvedReference(err))

	_, err = IReferenceArg(snap, missing)
	assert.True(t, errors.IsUnresolvedReference(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}
