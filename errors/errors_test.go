package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "resolving %s", "Windows.Foundation.IClosable")

	assert.Contains(t, wrapped.Error(), "resolving Windows.Foundation.IClosable")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
		kind string
	}{
		{"unresolved", NewUnresolvedf("type %s not found", "A.B"), IsUnresolvedReference, "unresolved_reference"},
		{"unsupported", NewUnsupportedf("handle_class not implemented"), IsUnsupportedConstruct, "unsupported_construct"},
		{"malformed", NewMalformedGenericf("expected 1 argument, got %d", 2), IsMalformedGeneric, "malformed_generic"},
		{"invalid input", NewInvalidInputf("bad document"), IsInvalidInput, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(Wrap(tt.err, "outer")), "kind must survive wrapping")
			assert.Equal(t, tt.kind, Kind(tt.err))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	err := NewUnresolvedf("missing")

	assert.False(t, IsUnsupportedConstruct(err))
	assert.False(t, IsMalformedGeneric(err))
	assert.False(t, IsInvalidInput(err))
}

func TestMarkKeepsMessage(t *testing.T) {
	err := Mark(New("Invoke method not found"), ErrUnsupportedConstruct)

	assert.Equal(t, "Invoke method not found", err.Error())
	assert.True(t, IsUnsupportedConstruct(err))
}

func TestKindNil(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "internal", Kind(New("boom")))
	assert.False(t, IsUnresolvedReference(nil))
}

func TestWithHint(t *testing.T) {
	err := WithHint(NewUnresolvedf("type System.Foo not found"), "load the module that declares it")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "load the module that declares it", hints[0])
	assert.True(t, IsUnresolvedReference(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestStackTrace(t *testing.T) {
	err := NewUnsupportedf("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func ExampleWrap() {
	baseErr := New("type not found")
	err := Wrap(baseErr, "resolving Windows.Foundation.Uri")
	fmt.Println(err)
	// Output: resolving Windows.Foundation.Uri: type not found
}
