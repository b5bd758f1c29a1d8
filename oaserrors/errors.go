// Package oaserrors provides structured error types for oasclient.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the categories of
// failures the client can surface before a request leaves the process.
//
// # Error Categories
//
//   - ParseError: document loading and model-building failures
//   - ConfigError: malformed construction options, including server variable
//     resolution failures
//   - ParameterError: per-call argument problems surfaced before any network
//     activity occurs
//
// Errors raised by the injected HTTP transport are never wrapped in these
// types; they propagate to the caller untouched.
//
// # Usage with errors.Is
//
//	resp, err := client.Op("getPetById").Call(ctx, 42)
//	if errors.Is(err, oaserrors.ErrNoParametersAvailable) {
//	    // the operation declares no parameters to receive a scalar argument
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a document parsing failure.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrParameter indicates a per-call parameter resolution failure.
	ErrParameter = errors.New("parameter resolution error")

	// ErrNoParametersAvailable indicates a scalar argument was supplied to an
	// operation that declares no parameters.
	ErrNoParametersAvailable = errors.New("no parameters available")

	// ErrTooManyArguments indicates more positional call arguments than the
	// operation method accepts.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrMissingPathParameter indicates a path template variable had no
	// resolved value while strict path parameters were enabled.
	ErrMissingPathParameter = errors.New("missing path parameter")

	// ErrIndexOutOfRange indicates a numeric server variable override outside
	// the bounds of the variable's enum list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidEnumValue indicates a server variable override absent from the
	// variable's enum list.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrOperationNotFound indicates a lookup for an unknown operationId.
	ErrOperationNotFound = errors.New("operation not found")
)

// ParseError represents a failure to load or parse an OpenAPI document.
type ParseError struct {
	// Source is the file path or URL the document came from, if known
	Source string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or construction option.
// Server variable resolution failures (enum index or value mismatches) are
// reported as ConfigErrors with the matching sentinel as Cause.
type ConfigError struct {
	// Option is the name of the problematic option or server variable
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value interface{}
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ParameterError represents a per-call argument problem detected during
// parameter resolution, before any network activity.
type ParameterError struct {
	// Operation is the operationId of the method being called, if known
	Operation string
	// Parameter is the parameter name involved, if any
	Parameter string
	// Message describes the resolution failure
	Message string
	// Cause is the underlying error, typically one of the sentinels
	Cause error
}

// Error returns a human-readable error message.
func (e *ParameterError) Error() string {
	msg := "parameter resolution error"
	if e.Operation != "" {
		msg += " in " + e.Operation
	}
	if e.Parameter != "" {
		msg += " for " + e.Parameter
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParameterError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParameterError) Is(target error) bool {
	return target == ErrParameter
}
