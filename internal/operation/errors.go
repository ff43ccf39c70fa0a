package operation

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies operation errors for appropriate handling.
type ErrorType string

const (
	// ErrorTypeValidation indicates user-correctable input, rejected before any request
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeUnknownRoute indicates a resource or operation with no handler
	ErrorTypeUnknownRoute ErrorType = "unknown_route"

	// ErrorTypeAuthConfig indicates no API key could be resolved
	ErrorTypeAuthConfig ErrorType = "auth_config"

	// ErrorTypeAuth indicates the API key was rejected (401)
	ErrorTypeAuth ErrorType = "auth_error"

	// ErrorTypeForbidden indicates the key lacks access (403)
	ErrorTypeForbidden ErrorType = "forbidden"

	// ErrorTypeNotFound indicates resource not found (404)
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeRateLimit indicates rate limit exceeded (429)
	ErrorTypeRateLimit ErrorType = "rate_limited"

	// ErrorTypeBadRequest indicates the upstream rejected the request (400)
	ErrorTypeBadRequest ErrorType = "bad_request"

	// ErrorTypeServer indicates an upstream internal error (500)
	ErrorTypeServer ErrorType = "server_error"

	// ErrorTypeUpstream covers any other non-2xx status and protocol
	// violations such as undecodable bodies
	ErrorTypeUpstream ErrorType = "upstream_error"

	// ErrorTypeUnknown indicates a failure with no HTTP status (network,
	// timeout, cancellation)
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents an operation execution error with classification.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is the short human-readable error
	Message string

	// Description is the longer explanation shown alongside Message
	Description string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Detail is the message the upstream put in its error body, if any
	Detail string

	// Inconsistent marks a 400 whose text is one of the known pause/resume
	// phrases. Message then carries the upstream text untranslated.
	Inconsistent bool

	// Fields holds per-field problems for validation errors
	Fields FieldErrors

	// SuggestText provides guidance on how to resolve the error.
	SuggestText string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" && e.Detail != e.Message {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether a caller could reasonably retry later. The
// request client itself never retries.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// IsUserVisible reports whether the message is safe to show as-is.
func (e *Error) IsUserVisible() bool {
	return e.Type != ErrorTypeUnknownRoute
}

// UserMessage returns the message recorded against a failed item.
func (e *Error) UserMessage() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Suggestion returns actionable guidance for resolving the error.
func (e *Error) Suggestion() string {
	if e.SuggestText != "" {
		return e.SuggestText
	}
	return e.Description
}

// Upstream returns the text the upstream sent with the failure, falling back
// to Message.
func (e *Error) Upstream() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// TypeOf returns the ErrorType of err, or "" if err is not an *Error.
func TypeOf(err error) ErrorType {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ""
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.StatusCode
	}
	return 0
}

// MessageOf returns the message a host records for a failed item.
func MessageOf(err error) string {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.UserMessage()
	}
	return err.Error()
}

// NewValidationError creates an input validation error.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUnknownRouteError creates an error for a resource or operation with no
// registered handler.
func NewUnknownRouteError(format string, args ...any) *Error {
	return &Error{
		Type:        ErrorTypeUnknownRoute,
		Message:     fmt.Sprintf(format, args...),
		SuggestText: "Run `heyreach operations` to list the supported routes",
	}
}

// ErrorFromHTTPStatus creates an Error for a failed HTTP response using the
// generic wording for its status. detail is the upstream's own message.
func ErrorFromHTTPStatus(statusCode int, detail string) *Error {
	err := &Error{
		StatusCode: statusCode,
		Detail:     detail,
	}

	switch statusCode {
	case http.StatusUnauthorized:
		err.Type = ErrorTypeAuth
		err.Message = "Authentication failed"
		err.Description = "Please check your HeyReach API key in the credentials."
	case http.StatusForbidden:
		err.Type = ErrorTypeForbidden
		err.Message = "Access forbidden"
		err.Description = "Your API key does not have permission to access this resource."
	case http.StatusNotFound:
		err.Type = ErrorTypeNotFound
		err.Message = "Resource not found"
		err.Description = "The requested endpoint or resource does not exist. This may indicate an API documentation discrepancy."
	case http.StatusTooManyRequests:
		err.Type = ErrorTypeRateLimit
		err.Message = "Rate limit exceeded"
		err.Description = "HeyReach allows a maximum of 300 requests per minute. Please wait before making more requests."
	case http.StatusBadRequest:
		err.Type = ErrorTypeBadRequest
		err.Message = "Bad request"
		err.Description = "The request was invalid. Please check your parameters and try again."
	case http.StatusInternalServerError:
		err.Type = ErrorTypeServer
		err.Message = "Internal server error"
		err.Description = "HeyReach API is experiencing issues. Please try again later."
	default:
		err.Type = ErrorTypeUpstream
		err.Message = fmt.Sprintf("HTTP %d Error", statusCode)
	}

	return err
}

// NewUnknownError wraps a failure that carried no HTTP status.
func NewUnknownError(cause error) *Error {
	return &Error{
		Type:        ErrorTypeUnknown,
		Message:     "HeyReach request failed",
		Cause:       cause,
		SuggestText: "Check network connectivity and try again",
	}
}
