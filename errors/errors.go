// Package errors provides error handling for winrtgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details surfaced by the CLI
//
// Classification failures are deterministic functions of the input metadata,
// so every failure is wrapped around one of the sentinels below and
// propagated unchanged to the caller of the top-level entry points:
//
//	if errors.IsUnresolvedReference(err) {
//	    // abort this type, keep planning its siblings
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the classification core.
// Wrap these with Wrapf/Mark to add context while preserving the kind.
var (
	// ErrUnresolvedReference indicates an external type reference could not be
	// found in the metadata store.
	ErrUnresolvedReference = New("unresolved reference")

	// ErrUnsupportedConstruct indicates a dispatcher consumer lacks a required
	// handler, or metadata flags fall outside the classification tables.
	ErrUnsupportedConstruct = New("unsupported construct")

	// ErrMalformedGeneric indicates a generic instantiation that cannot be
	// reduced to a definition or carries the wrong number of arguments.
	ErrMalformedGeneric = New("malformed generic usage")

	// ErrInvalidInput indicates unreadable or inconsistent input documents.
	ErrInvalidInput = New("invalid input")
)

// Mark wraps err so that errors.Is(result, kind) holds, keeping err's message.
func Mark(err error, kind error) error {
	return crdb.Mark(err, kind)
}

// NewUnresolvedf creates an unresolved-reference error with a formatted message.
func NewUnresolvedf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnresolvedReference)
}

// NewUnsupportedf creates an unsupported-construct error with a formatted message.
func NewUnsupportedf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnsupportedConstruct)
}

// NewMalformedGenericf creates a malformed-generic error with a formatted message.
func NewMalformedGenericf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrMalformedGeneric)
}

// NewInvalidInputf creates an invalid-input error with a formatted message.
func NewInvalidInputf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidInput)
}

// IsUnresolvedReference checks if an error is or wraps ErrUnresolvedReference
func IsUnresolvedReference(err error) bool {
	return err != nil && Is(err, ErrUnresolvedReference)
}

// IsUnsupportedConstruct checks if an error is or wraps ErrUnsupportedConstruct
func IsUnsupportedConstruct(err error) bool {
	return err != nil && Is(err, ErrUnsupportedConstruct)
}

// IsMalformedGeneric checks if an error is or wraps ErrMalformedGeneric
func IsMalformedGeneric(err error) bool {
	return err != nil && Is(err, ErrMalformedGeneric)
}

// IsInvalidInput checks if an error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// Kind returns a short name for the sentinel err wraps, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUnresolvedReference(err):
		return "unresolved_reference"
	case IsUnsupportedConstruct(err):
		return "unsupported_construct"
	case IsMalformedGeneric(err):
		return "malformed_generic"
	case IsInvalidInput(err):
		return "invalid_input"
	default:
		return "internal"
	}
}
