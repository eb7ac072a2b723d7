package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is a coded error carrying an optional cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

const (
	CodeDataError       = "DATA_ERROR"
	CodeSchemaError     = "SCHEMA_ERROR"
	CodeUsageError      = "USAGE_ERROR"
	CodeUnknownCategory = "UNKNOWN_CATEGORY"
	CodeModelError      = "MODEL_ERROR"
	CodeWriteError      = "WRITE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError when there is one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps err under the given code.
func WithCode(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the code of the first AppError in the chain, or
// CodeInternalError when there is none.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

func DataError(message string, cause error) *AppError {
	return &AppError{Code: CodeDataError, Message: message, Cause: cause}
}

func SchemaError(message string) *AppError {
	return New(CodeSchemaError, message)
}

func UsageError(message string) *AppError {
	return New(CodeUsageError, message)
}

func UnknownCategory(column, value string) *AppError {
	return Newf(CodeUnknownCategory, "found unknown category %q in column %s during transform", value, column)
}

func ModelError(message string) *AppError {
	return New(CodeModelError, message)
}

func WriteError(path string, cause error) *AppError {
	return &AppError{Code: CodeWriteError, Message: fmt.Sprintf("failed to write %s", path), Cause: cause}
}
