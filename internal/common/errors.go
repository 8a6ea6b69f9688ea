package common

import (
	"errors"
	"fmt"
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

// Pipeline error taxonomy. Encoding, configuration and extraction errors are
// terminal for a record; upload errors are not (the record falls back to a
// local file reference and still succeeds).
var (
	ErrEncoding      = errors.New("file encoding failed")
	ErrConfiguration = errors.New("extraction credential missing")
	ErrExtraction    = errors.New("extraction failed")
	ErrUpload        = errors.New("upload failed")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
