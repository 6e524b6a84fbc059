package models

import (
	"errors"
	"fmt"
)

// Error codes used by AppError.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodePermission  = "PERMISSION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeRemoteWrite = "REMOTE_WRITE_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewPermissionError(message string) *AppError {
	return &AppError{
		Code:    CodePermission,
		Message: message,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewRemoteWriteError wraps a failed best-effort remote call. These errors
// are logged and counted but never surfaced to the caller of a mutation.
func NewRemoteWriteError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeRemoteWrite,
		Message: fmt.Sprintf("remote %s failed", operation),
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsValidation(err error) bool { return HasCode(err, CodeValidation) }
func IsPermission(err error) bool { return HasCode(err, CodePermission) }
func IsNotFound(err error) bool   { return HasCode(err, CodeNotFound) }
