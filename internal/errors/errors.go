// Package errors provides structured error handling for docdex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: configuration errors
//   - 2XX: IO errors (documents, disk)
//   - 4XX: validation errors
//   - 5XX: internal errors
package errors

import "fmt"

// Category classifies errors for logging and exit codes.
type Category string

const (
	CategoryConfig     Category = "CONFIG"
	CategoryIO         Category = "IO"
	CategoryValidation Category = "VALIDATION"
	CategoryInternal   Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeDocumentRead  = "ERR_201_DOCUMENT_READ"
	ErrCodeDocumentLarge = "ERR_202_DOCUMENT_TOO_LARGE"
	ErrCodeRootNotFound  = "ERR_203_ROOT_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeInvalidInput   = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidBackend = "ERR_402_INVALID_BACKEND"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeIndexFailed  = "ERR_502_INDEX_FAILED"
	ErrCodeSearchFailed = "ERR_503_SEARCH_FAILED"
)

// DocdexError carries an error code and optional context for
// presentation and logging.
type DocdexError struct {
	Code     string
	Message  string
	Category Category
	Details  map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *DocdexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DocdexError) Unwrap() error {
	return e.Cause
}

// Is matches DocdexErrors by code.
func (e *DocdexError) Is(target error) bool {
	if t, ok := target.(*DocdexError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a key-value detail, returning the error for
// chaining.
func (e *DocdexError) WithDetail(key, value string) *DocdexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a DocdexError; category is derived from the code.
func New(code, message string, cause error) *DocdexError {
	return &DocdexError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a DocdexError from an existing error, reusing its
// message. Returns nil for a nil error.
func Wrap(code string, err error) *DocdexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *DocdexError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates a document read error.
func IOError(message string, cause error) *DocdexError {
	return New(ErrCodeDocumentRead, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *DocdexError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *DocdexError {
	return New(ErrCodeInternal, message, cause)
}

// CodeOf extracts the error code from an error chain, or "" when the
// error carries none.
func CodeOf(err error) string {
	for err != nil {
		if de, ok := err.(*DocdexError); ok {
			return de.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
