package services

import (
	"errors"
	"fmt"

	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

// ErrorKind classifies every error the services return. The web tier
// maps kinds to HTTP statuses; it never inspects wrapped storage errors.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindNotAuthorized ErrorKind = "not_authorized"
	KindConflict      ErrorKind = "conflict"
	KindInternal      ErrorKind = "internal"
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	// Fields carries structured per-field detail for validation errors.
	Fields validator.ValidationErrors
	// Err is the wrapped cause, for logs only.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewFieldValidationError(fields validator.ValidationErrors) *Error {
	return &Error{Kind: KindValidation, Message: fields.Error(), Fields: fields}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewNotAuthorizedError(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewInternalError hides the cause behind a stable message; err is kept
// for logging via Unwrap.
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// toValidationError wraps a Validator result into the taxonomy.
func toValidationError(err error) *Error {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return NewFieldValidationError(fields)
	}
	return NewValidationError(err.Error())
}

func kindOf(err error) (ErrorKind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

func IsValidationError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindValidation
}

func IsNotFoundError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNotFound
}

func IsNotAuthorizedError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNotAuthorized
}

func IsConflictError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindConflict
}

func IsInternalError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindInternal
}

// Common sentinels reused across services.
var (
	ErrStudentNotFound  = NewNotFoundError("student not found")
	ErrTeacherNotFound  = NewNotFoundError("teacher not found")
	ErrQuestionNotFound = NewNotFoundError("question not found")
	ErrNotPermitted     = NewNotAuthorizedError("operation not permitted for this role")
)
