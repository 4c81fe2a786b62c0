package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the pipeline can surface to a caller.
type ErrorKind string

const (
	KindInvalidDocument       ErrorKind = "INVALID_DOCUMENT"
	KindInvalidPromptTemplate ErrorKind = "INVALID_PROMPT_TEMPLATE"
	KindInvalidCredential     ErrorKind = "INVALID_CREDENTIAL"
	KindUpstreamUnavailable   ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindMalformedResponse     ErrorKind = "MALFORMED_RESPONSE"
	KindEmptyExportSet        ErrorKind = "EMPTY_EXPORT_SET"
	KindInternal              ErrorKind = "INTERNAL"
)

// AppError carries a kind, a human-readable message, and an optional cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError with the given kind.
func NewAppError(kind ErrorKind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// WrapError annotates err with a message, preserving any kind it carries.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
