package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-readable category of a lifecycle error
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindVendorNotEligible ErrorKind = "vendor_not_eligible"
	KindOrderNotOpen      ErrorKind = "order_not_open"
	KindAlreadyDecided    ErrorKind = "already_decided"
	KindNotFound          ErrorKind = "not_found"
	// KindBusy means the entities were locked by other commands for too long; the caller may retry
	KindBusy ErrorKind = "busy"
)

// Error is returned by every command and query for caller-facing failures.
// Message is display-ready.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Unwrap exposes the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so callers can use the sentinels below with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrVendorNotEligible = &Error{Kind: KindVendorNotEligible}
	ErrOrderNotOpen      = &Error{Kind: KindOrderNotOpen}
	ErrAlreadyDecided    = &Error{Kind: KindAlreadyDecided}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrBusy              = &Error{Kind: KindBusy}
)

// NewError creates an error of the given kind with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError creates a validation error with optional per-field messages
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound creates a not-found error for the named entity
func NotFound(entity string, id interface{}) *Error {
	return NewError(KindNotFound, "%s %v not found", entity, id)
}

// KindOf returns the kind of err, or an empty kind for infrastructure errors
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"eqfield":  "Must match the related field",
	"dive":     "Contains an invalid value",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Error types for RFC 7807 Problem Details that are not lifecycle kinds
const (
	ErrorTypeBadRequest      = "bad_request"
	ErrorTypeUnauthenticated = "unauthenticated"
	ErrorTypeTooManyRequests = "too_many_requests"
	ErrorTypeInternal        = "internal_error"
)
