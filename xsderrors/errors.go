package xsderrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrMalformedDocument indicates a document could not be parsed as XML.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrRecursionLimitExceeded indicates the element walker went deeper
	// than the configured depth bound.
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a document that is not well-formed.
// A single ParseError aborts the whole conversion.
type ParseError struct {
	// Document is the caller-supplied name of the offending document
	Document string
	// Line is the line number reported by the XML decoder (0 if unknown)
	Line int
	// Message is the parser diagnostic
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "malformed document"
	if e.Document != "" {
		msg += " " + e.Document
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// ResourceLimitError represents a walk that exceeded its depth bound.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded, e.g. "element_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int
	// Actual is the value that exceeded the limit
	Actual int
	// Path is the chain of element names being walked when the limit was hit
	Path string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "recursion limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrRecursionLimitExceeded
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
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
