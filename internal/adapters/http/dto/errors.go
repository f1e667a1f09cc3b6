// Package dto holds the request and response shapes of the HTTP API.
package dto

import "net/http"

// ErrorResponse is the envelope of every JSON error response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	// Code is machine readable, e.g. "NOT_FOUND".
	Code string `json:"code"`

	// Message is the human readable cause. For quote validation it is the
	// exact rule message, e.g. "you can't quote yourself".
	Message string `json:"message"`

	// Details carries per-field context, such as the violated rule.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound             = "NOT_FOUND"
	ErrorCodeConflict             = "CONFLICT"
	ErrorCodeValidation           = "VALIDATION_ERROR"
	ErrorCodeForbidden            = "FORBIDDEN"
	ErrorCodeUnauthenticated      = "UNAUTHENTICATED"
	ErrorCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrorCodeUnavailable          = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal             = "INTERNAL_ERROR"
	ErrorCodeTimeout              = "TIMEOUT"
	ErrorCodeBadRequest           = "BAD_REQUEST"
	ErrorCodeTooLarge             = "REQUEST_TOO_LARGE"
)

// NewErrorResponse creates an error response.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error response with details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps an error code to its default status.
// A missing identity is answered with 403, not 401: there is no
// WWW-Authenticate challenge to offer.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden, ErrorCodeUnauthenticated:
		return http.StatusForbidden
	case ErrorCodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
