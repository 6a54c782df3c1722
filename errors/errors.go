// Package errors provides error handling for reactorgen.
//
// This package re-exports github.com/cockroachdb/errors so every package
// gets stack traces, wrapping and hints from a single import:
//
//	if err := compile(file); err != nil {
//	    return errors.Wrapf(err, "failed to compile %s", file)
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
	Is            = crdb.Is
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	CombineErrors = crdb.CombineErrors
)

// Common sentinel errors. Wrap them to add context while keeping errors.Is working.
var (
	// ErrNotFound indicates a file, declaration or binary does not exist
	ErrNotFound = New("not found")

	// ErrInvalidConfig indicates a configuration value is missing or malformed
	ErrInvalidConfig = New("invalid configuration")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsTimeoutError checks if an error is or wraps ErrTimeout
func IsTimeoutError(err error) bool {
	return err != nil && Is(err, ErrTimeout)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidConfig, format, args...)
}
