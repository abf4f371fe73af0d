// Package errs defines the classified error type shared across the
// ansibridge components. Every failure that crosses a component boundary
// is tagged with a Kind so the dispatcher and protocol layer can decide
// how to render it without string matching.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for rendering and propagation decisions.
type Kind string

const (
	// KindValidation indicates malformed or missing request fields.
	KindValidation Kind = "validation"

	// KindToolNotFound indicates a dispatch against an unknown tool name.
	KindToolNotFound Kind = "tool_not_found"

	// KindDuplicateTool indicates a registration conflict.
	KindDuplicateTool Kind = "duplicate_tool"

	// KindResourceNotFound indicates a missing inventory/playbook path.
	KindResourceNotFound Kind = "resource_not_found"

	// KindEngineExecution indicates the automation engine returned non-zero
	// or failed during invocation.
	KindEngineExecution Kind = "engine_execution"

	// KindCodec indicates a malformed external-format file on decode.
	KindCodec Kind = "codec"

	// KindHandler indicates an unexpected failure inside a tool handler
	// that the dispatcher converted into an error envelope.
	KindHandler Kind = "handler"
)

// FieldError carries per-field detail for validation failures.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is the classified error used throughout ansibridge.
type Error struct {
	// Kind is the error classification.
	Kind Kind `json:"kind"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Fields holds per-field detail for validation errors.
	Fields []FieldError `json:"fields,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is: two classified errors match
// when their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewValidation creates a validation error with optional field detail.
func NewValidation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NewToolNotFound creates an unknown-tool error.
func NewToolNotFound(name string) *Error {
	return &Error{Kind: KindToolNotFound, Message: fmt.Sprintf("tool %q not found", name)}
}

// NewDuplicateTool creates a registration-conflict error.
func NewDuplicateTool(name string) *Error {
	return &Error{Kind: KindDuplicateTool, Message: fmt.Sprintf("tool %q already registered", name)}
}

// NewResourceNotFound creates a missing-path error.
func NewResourceNotFound(message string) *Error {
	return &Error{Kind: KindResourceNotFound, Message: message}
}

// NewEngineExecution creates an engine invocation error.
func NewEngineExecution(message string, err error) *Error {
	return &Error{Kind: KindEngineExecution, Message: message, Err: err}
}

// NewCodec creates a decode error for malformed external-format input.
func NewCodec(message string, err error) *Error {
	return &Error{Kind: KindCodec, Message: message, Err: err}
}

// NewHandler wraps an unexpected handler failure.
func NewHandler(message string, err error) *Error {
	return &Error{Kind: KindHandler, Message: message, Err: err}
}

// KindOf returns the classification of err, or the empty Kind when err is
// not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is classified as a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsToolNotFound reports whether err is classified as an unknown-tool error.
func IsToolNotFound(err error) bool { return KindOf(err) == KindToolNotFound }

// IsDuplicateTool reports whether err is a registration conflict.
func IsDuplicateTool(err error) bool { return KindOf(err) == KindDuplicateTool }

// IsResourceNotFound reports whether err is a missing-path error.
func IsResourceNotFound(err error) bool { return KindOf(err) == KindResourceNotFound }

// IsEngineExecution reports whether err is an engine invocation error.
func IsEngineExecution(err error) bool { return KindOf(err) == KindEngineExecution }

// IsCodec reports whether err is a codec error.
func IsCodec(err error) bool { return KindOf(err) == KindCodec }
