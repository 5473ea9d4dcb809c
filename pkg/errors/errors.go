// Package errors gives every moodboard failure a machine-readable [Code].
//
// The codes split into three groups that callers treat differently:
// validation codes (see [IsValidation]) reach the user as-is and become 422
// responses in the HTTP API, NOT_FOUND and FILE_NOT_FOUND name a missing
// node, document or file, and NETWORK_ERROR and TIMEOUT come from link
// preview fetches, which the metadata service absorbs into a fallback.
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "canvas has no %q array", "nodes")
//	if errors.Is(err, errors.ErrCodeInvalidDocument) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidDocument    Code = "INVALID_DOCUMENT"
	ErrCodeMalformedDocument  Code = "MALFORMED_DOCUMENT"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeUnsupportedContent Code = "UNSUPPORTED_CONTENT"

	// Referential integrity errors
	ErrCodeDuplicateID   Code = "DUPLICATE_ID"
	ErrCodeDanglingEdge  Code = "DANGLING_EDGE"
	ErrCodeInvalidParent Code = "INVALID_PARENT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a [Code], a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause, kept reachable through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error, or "" when there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is the message without the code prefix or cause. Errors that
// carry no code are printed whole.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is one of the document or input
// validation codes. The HTTP API maps these to 422.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDocument, ErrCodeMalformedDocument,
		ErrCodeDuplicateID, ErrCodeDanglingEdge, ErrCodeInvalidParent,
		ErrCodeUnsupportedContent, ErrCodeInvalidPath:
		return true
	}
	return false
}
