package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrExtraction   = errors.New("extraction failed")
	ErrProvider     = errors.New("provider error")
)

// NewAppError constructs an AppError
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExtractionError is returned when a PDF cannot be read at all.
type ExtractionError struct {
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Failed to extract text from PDF: %v", e.Cause)
	}
	return "Failed to extract text from PDF"
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

func NewExtractionError(path string, cause error) *ExtractionError {
	return &ExtractionError{Path: path, Cause: cause}
}

// ProviderErrorKind classifies upstream failures.
type ProviderErrorKind string

const (
	ProviderTransport ProviderErrorKind = "transport"
	ProviderStatus    ProviderErrorKind = "status"
	ProviderTimeout   ProviderErrorKind = "timeout"
	ProviderDecode    ProviderErrorKind = "decode"
	ProviderEmpty     ProviderErrorKind = "empty"
)

// ProviderError wraps any failure talking to the LLM provider. Message
// carries the upstream text verbatim.
type ProviderError struct {
	Kind       ProviderErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("OpenAI API error: status %d: %s", e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("OpenAI API error: %s", e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("OpenAI API error: %v", e.Cause)
	}
	return fmt.Sprintf("OpenAI API error: %s", e.Kind)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// Timeout reports whether the call ran past its deadline.
func (e *ProviderError) Timeout() bool { return e.Kind == ProviderTimeout }

// Retryable reports whether a retry decorator may try the call again.
func (e *ProviderError) Retryable() bool {
	if e.Kind == ProviderTimeout || e.Kind == ProviderTransport {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// HTTPStatus maps an error from the pipeline to the status code returned to clients.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
