package platform

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeDiscovery: example names of a fixture could not be retrieved.
	// Aborts the whole discovery call.
	ErrCodeDiscovery ErrorCode = "DISCOVERY_FAILED"

	// ErrCodeBootstrap: the application runtime could not be launched or
	// no engine implementation could be resolved inside it.
	ErrCodeBootstrap ErrorCode = "BOOTSTRAP_FAILED"

	// ErrCodeConstruction: a fixture object could not be created or
	// prepared. Raised when the executor asks for the object.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION_FAILED"

	// ErrCodeDirectUse: an engine that is only reachable through
	// delegation was used directly.
	ErrCodeDirectUse ErrorCode = "DIRECT_USE"
)

// Error is an engine failure with a category and optional fixture context.
type Error struct {
	Code    ErrorCode
	Message string
	Fixture string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Fixture != "" {
		msg = fmt.Sprintf("%s (with [%s] fixture)", msg, e.Fixture)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewDiscoveryError wraps a failure to retrieve a fixture's examples.
func NewDiscoveryError(fixture string, err error) *Error {
	return &Error{
		Code:    ErrCodeDiscovery,
		Message: "error loading specification examples",
		Fixture: fixture,
		Err:     err,
	}
}

// NewBootstrapError wraps a runtime launch or resolution failure.
func NewBootstrapError(message string, err error) *Error {
	return &Error{Code: ErrCodeBootstrap, Message: message, Err: err}
}

// NewConstructionError wraps a fixture creation failure.
func NewConstructionError(fixture string, err error) *Error {
	return &Error{
		Code:    ErrCodeConstruction,
		Message: "unable to create fixture object",
		Fixture: fixture,
		Err:     err,
	}
}

// NewDirectUseError reports use of a delegation-only engine.
func NewDirectUseError(message string) *Error {
	return &Error{Code: ErrCodeDirectUse, Message: message}
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsDiscoveryError reports whether err is a discovery failure.
func IsDiscoveryError(err error) bool { return HasCode(err, ErrCodeDiscovery) }

// IsBootstrapError reports whether err is a bootstrap failure.
func IsBootstrapError(err error) bool { return HasCode(err, ErrCodeBootstrap) }

// IsConstructionError reports whether err is a construction failure.
func IsConstructionError(err error) bool { return HasCode(err, ErrCodeConstruction) }
