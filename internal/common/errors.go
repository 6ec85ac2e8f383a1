package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Kind    error
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Error kinds.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidation       = errors.New("validation failed")
	ErrUpload           = errors.New("upload failed")
	ErrTextExtraction   = errors.New("text extraction failed")
	ErrProvider         = errors.New("completion provider failed")
	ErrParse            = errors.New("completion parse failed")
	ErrExtractionFailed = errors.New("contract extraction failed")
	ErrPersistence      = errors.New("persistence failed")
	ErrConfig           = errors.New("invalid configuration")
)

// Error codes surfaced to HTTP clients.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUpload           = "UPLOAD_ERROR"
	CodeTextExtraction   = "TEXT_EXTRACTION_ERROR"
	CodeProvider         = "PROVIDER_ERROR"
	CodeParse            = "PARSE_ERROR"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodePersistence      = "PERSISTENCE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConfig           = "CONFIG_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

func NewAppError(code, message string, kind, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Cause:   cause,
	}
}

func NewInvalidInputError(message string) *AppError {
	return NewAppError(CodeInvalidInput, message, ErrInvalidInput, nil)
}

func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, ErrValidation, nil)
}

func NewUploadError(message string, cause error) *AppError {
	return NewAppError(CodeUpload, message, ErrUpload, cause)
}

func NewTextExtractionError(message string, cause error) *AppError {
	return NewAppError(CodeTextExtraction, message, ErrTextExtraction, cause)
}

func NewProviderError(message string, cause error) *AppError {
	return NewAppError(CodeProvider, message, ErrProvider, cause)
}

func NewParseError(message string, cause error) *AppError {
	return NewAppError(CodeParse, message, ErrParse, cause)
}

func NewPersistenceError(message string, cause error) *AppError {
	return NewAppError(CodePersistence, message, ErrPersistence, cause)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, message, ErrNotFound, nil)
}

func NewConfigError(message string) *AppError {
	return NewAppError(CodeConfig, message, ErrConfig, nil)
}

// NewExtractionFailedError keeps the cause's message so callers can diagnose
// which stage of the pipeline failed.
func NewExtractionFailedError(cause error) *AppError {
	msg := "contract extraction failed"
	if cause != nil {
		msg = fmt.Sprintf("contract extraction failed: %s", Message(cause))
	}
	return NewAppError(CodeExtractionFailed, msg, ErrExtractionFailed, cause)
}

// Message returns the human-readable message of err, preferring the AppError message.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
