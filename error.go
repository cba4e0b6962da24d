package responses

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies client errors so callers can decide whether to retry,
// surface, or ignore them.
type ErrorKind string

const (
	// KindTransport is a connection or network failure.
	KindTransport ErrorKind = "transport_error"
	// KindDecode is a malformed JSON record inside an otherwise healthy stream.
	KindDecode ErrorKind = "decode_error"
	// KindOrdering is a protocol ordering violation (non-contiguous output index).
	KindOrdering ErrorKind = "protocol_ordering_error"
	// KindServer is a structured error payload reported by the API.
	KindServer ErrorKind = "server_error"
	// KindRateLimit is a 429 response that exhausted its retry budget.
	KindRateLimit ErrorKind = "rate_limit_error"
	// KindValidation is a caller mistake rejected before any network call.
	KindValidation ErrorKind = "validation_error"
)

// ClientError is the error type returned by this module
type ClientError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	RetryAfter time.Duration
	InnerError error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.InnerError != nil {
		return fmt.Sprintf("%s: %s (inner: %v)", e.Kind, e.Message, e.InnerError)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error, if any
func (e *ClientError) Unwrap() error {
	return e.InnerError
}

// Is reports whether target is a ClientError of the same kind
func (e *ClientError) Is(target error) bool {
	var ce *ClientError
	if !errors.As(target, &ce) {
		return false
	}
	return ce.Kind == e.Kind
}

// KindOf returns the kind of err if it is a ClientError, or "" otherwise
func KindOf(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// NewTransportError creates a new transport error
func NewTransportError(message string, inner error) *ClientError {
	return &ClientError{
		Kind:       KindTransport,
		Message:    message,
		InnerError: inner,
	}
}

// NewDecodeError creates a new decode error for a single stream record
func NewDecodeError(message string, inner error) *ClientError {
	return &ClientError{
		Kind:       KindDecode,
		Message:    message,
		InnerError: inner,
	}
}

// NewOrderingError creates a new protocol ordering error
func NewOrderingError(message string) *ClientError {
	return &ClientError{
		Kind:    KindOrdering,
		Message: message,
	}
}

// NewServerError creates a new server-reported error
func NewServerError(message string, statusCode int) *ClientError {
	return &ClientError{
		Kind:       KindServer,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(message string, retryAfter time.Duration) *ClientError {
	return &ClientError{
		Kind:       KindRateLimit,
		Message:    message,
		StatusCode: 429,
		RetryAfter: retryAfter,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ClientError {
	return &ClientError{
		Kind:    KindValidation,
		Message: message,
	}
}
