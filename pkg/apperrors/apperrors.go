package apperrors

import (
	"errors"
	"fmt"
)

// AppError carries a machine-readable code alongside a user-facing message.
// The wrapped cause is kept for logs but never serialized.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// SelfAction marks an operation a user attempted against themselves.
func SelfAction(msg string) error {
	return New(CodeFailedPrecondition, msg)
}

// Duplicate marks a redundant request, e.g. a friend request that is
// already pending or a repeated non-timeline share.
func Duplicate(msg string) error {
	return New(CodeAlreadyExists, msg)
}

// Blocked marks an action attempted against a blocked relationship.
func Blocked(msg string) error {
	return New(CodeFailedPrecondition, msg)
}

func Unauthorized(msg string) error {
	return New(CodePermissionDenied, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Validation(msg string) error {
	return New(CodeInvalidArgument, msg)
}

// Conflict marks a unique-constraint violation surfaced from the store.
func Conflict(msg string) error {
	return New(CodeConflict, msg)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf extracts the classification code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
