// ABOUTME: Typed error taxonomy shared by all components
// ABOUTME: Every failure surfaced to a caller carries exactly one Kind
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers. Input-validation kinds are never
// retried; upstream kinds may degrade or retry where a component says so.
type Kind string

const (
	// KindNotFound signals an unknown document or conversation reference.
	KindNotFound Kind = "not_found"
	// KindLimitExceeded signals input rejected before any expensive work.
	KindLimitExceeded Kind = "limit_exceeded"
	// KindPayloadTooLarge signals an upload over the byte ceiling.
	KindPayloadTooLarge Kind = "payload_too_large"
	// KindUnsupportedFormat signals a file type we cannot extract text from.
	KindUnsupportedFormat Kind = "unsupported_format"
	// KindSourceUnavailable signals upstream content that is not retrievable.
	KindSourceUnavailable Kind = "source_unavailable"
	// KindUpstreamUnavailable signals that all providers for a step failed.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindGenerationInvalid signals synthesis that never produced schema-valid output.
	KindGenerationInvalid Kind = "generation_invalid"
	// KindUnknown is an internal failure with no taxonomy tag.
	KindUnknown Kind = "unknown"
)

// Error pairs a Kind with a human-readable message and an optional cause.
type Error struct {
	ErrKind Kind
	Message string
	Err     error
}

// New creates a typed error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{ErrKind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a typed error that preserves the underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{ErrKind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain. Untyped errors map to KindUnknown.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.ErrKind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
