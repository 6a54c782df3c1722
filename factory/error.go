package factory

import (
	"fmt"

	"github.com/bsmider/reactorgen/errors"
)

// ErrNoModel is returned when synthesis is started without an input model.
var ErrNoModel = errors.New("no class model to synthesize from")

// MissingStubError means a service has no nested stub declaration.
// The service is skipped.
type MissingStubError struct {
	Service string
	Prefix  string
}

func (e *MissingStubError) Error() string {
	return fmt.Sprintf("service %s: no nested declaration with prefix %q", e.Service, e.Prefix)
}

// MissingResponseTypeError means a callback method has no identifiable
// response type. Only that method is skipped.
type MissingResponseTypeError struct {
	Stub   string
	Method string
}

func (e *MissingResponseTypeError) Error() string {
	return fmt.Sprintf("stub %s: method %s has no response receiver with a value type", e.Stub, e.Method)
}

// Skipped records an item left out of a pass and why.
type Skipped struct {
	Service string
	Method  string // empty when the whole service was skipped
	Err     error
}

func (s Skipped) String() string {
	if s.Method == "" {
		return fmt.Sprintf("%s: %v", s.Service, s.Err)
	}
	return fmt.Sprintf("%s.%s: %v", s.Service, s.Method, s.Err)
}

// UnsupportedCallbackError means a callback method matched by name and
// receiver, but its parameters cannot be bridged. Only that method is
// skipped.
type UnsupportedCallbackError struct {
	Stub   string
	Method string
	Reason string
}

func (e *UnsupportedCallbackError) Error() string {
	return fmt.Sprintf("stub %s: method %s cannot be bridged: %s", e.Stub, e.Method, e.Reason)
}
