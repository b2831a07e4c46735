package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeOCRUnavailable ErrorType = "ocr_unavailable"
	ErrorTypeOCRFailure     ErrorType = "ocr_failure"
	ErrorTypeNoCredential   ErrorType = "no_credential"
	ErrorTypeLLMTransport   ErrorType = "llm_transport"
	ErrorTypeLLMResponse    ErrorType = "llm_response"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeInternal       ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewOCRUnavailableError creates an error for an unreachable OCR backend
func NewOCRUnavailableError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeOCRUnavailable,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewOCRFailureError creates an error for an OCR backend that responded
// but signaled failure or returned a malformed response
func NewOCRFailureError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeOCRFailure,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewNoCredentialError marks the analysis stage as skipped for lack of an
// API key. This is a silent skip at the pipeline level, not a failure.
func NewNoCredentialError() *AppError {
	return &AppError{
		Type:       ErrorTypeNoCredential,
		Message:    "no LLM API key configured, analysis skipped",
		StatusCode: http.StatusOK,
	}
}

// NewLLMTransportError creates an error for LLM timeout/connection/HTTP failures
func NewLLMTransportError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeLLMTransport,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewLLMResponseError creates an error for an unrecognized LLM response envelope
func NewLLMResponseError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeLLMResponse,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
