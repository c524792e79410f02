package faults

import "errors"

type ErrorCategory string

const (
	ValidationError ErrorCategory = "ValidationError"
	NotFoundError   ErrorCategory = "NotFoundError"
	ConflictError   ErrorCategory = "ConflictError"
	AuthError       ErrorCategory = "AuthError"
	TransportError  ErrorCategory = "TransportError"
	InternalError   ErrorCategory = "InternalError"
)

// TypedError is the error shape every netforge operation reports. Message
// carries the human-readable diagnostic, Cause the upstream error verbatim,
// and Details machine-readable context (resource kind, natural key, and for
// conflicts the existing identity under "existing_id").
type TypedError struct {
	Category ErrorCategory
	Message  string
	Details  map[string]any
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Detail returns the detail stored under key, or nil when absent.
func (e *TypedError) Detail(key string) any {
	if e == nil || e.Details == nil {
		return nil
	}
	return e.Details[key]
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// WithDetail sets key in Details, allocating the map on first use, and
// returns the receiver to allow chained construction.
func (e *TypedError) WithDetail(key string, value any) *TypedError {
	if e == nil {
		return nil
	}
	if e.Details == nil {
		e.Details = make(map[string]any, 2)
	}
	e.Details[key] = value
	return e
}

func Validation(message string, cause error) *TypedError {
	return NewTypedError(ValidationError, message, cause)
}

func NotFound(message string, cause error) *TypedError {
	return NewTypedError(NotFoundError, message, cause)
}

func Conflict(message string, cause error) *TypedError {
	return NewTypedError(ConflictError, message, cause)
}

func Auth(message string, cause error) *TypedError {
	return NewTypedError(AuthError, message, cause)
}

func Transport(message string, cause error) *TypedError {
	return NewTypedError(TransportError, message, cause)
}

func Internal(message string, cause error) *TypedError {
	return NewTypedError(InternalError, message, cause)
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

// CategoryOf reports the category of err, or InternalError for untyped errors.
func CategoryOf(err error) ErrorCategory {
	var typedErr *TypedError
	if errors.As(err, &typedErr) {
		return typedErr.Category
	}
	return InternalError
}
