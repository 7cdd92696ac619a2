package core

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a client error (4xx)
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	// ErrorTypeConfiguration indicates a deployment fault, e.g. no
	// provider credential present (5xx, never retried)
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeProvider indicates an upstream backend failure (5xx)
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeInternal indicates a programming-error path that should
	// be unreachable (e.g. an unknown provider identity)
	ErrorTypeInternal ErrorType = "internal_error"
)

// GatewayError is the base error type for all gateway errors
type GatewayError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   Provider  `json:"provider,omitempty"`

	// Upstream status and body, preserved verbatim for diagnosis
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`

	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *GatewayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to the JSON error payload shape
func (e *GatewayError) ToJSON() map[string]interface{} {
	inner := map[string]interface{}{
		"type":    e.Type,
		"message": e.Message,
	}
	if e.Provider != "" {
		inner["provider"] = e.Provider
	}
	if e.UpstreamStatus != 0 {
		inner["upstream_status"] = e.UpstreamStatus
		inner["upstream_body"] = e.UpstreamBody
	}
	return map[string]interface{}{"error": inner}
}

// NewInvalidRequestError creates a new invalid request error (400)
func NewInvalidRequestError(message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewConfigurationError creates a new configuration error (500).
// The message should name the expected environment variables so the
// deployment fault is immediately attributable.
func NewConfigurationError(message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewUpstreamError creates a provider error carrying the upstream status
// code and body text verbatim (500). The upstream failure is not retried
// and never failed over to another provider.
func NewUpstreamError(provider Provider, upstreamStatus int, upstreamBody string) *GatewayError {
	return &GatewayError{
		Type:           ErrorTypeProvider,
		Message:        fmt.Sprintf("upstream returned status %d: %s", upstreamStatus, upstreamBody),
		StatusCode:     http.StatusInternalServerError,
		Provider:       provider,
		UpstreamStatus: upstreamStatus,
		UpstreamBody:   upstreamBody,
	}
}

// NewProviderError creates a provider error for transport-level upstream
// failures (request never produced a status code).
func NewProviderError(provider Provider, message string, err error) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeProvider,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Provider:   provider,
		Err:        err,
	}
}

// NewInternalError creates an internal error (500) for defensive paths
// that should be unreachable.
func NewInternalError(message string) *GatewayError {
	return &GatewayError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}
