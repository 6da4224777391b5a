package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so controllers can map them to
// stable HTTP responses without string matching.
type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindValidationFailed  ErrorKind = "VALIDATION_FAILED"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindAlreadyExists     ErrorKind = "ALREADY_EXISTS"
	KindAlreadySubmitted  ErrorKind = "ALREADY_SUBMITTED"
	KindConflictingWrite  ErrorKind = "CONFLICTING_WRITE"
)

// AppError carries a kind plus a human-readable reason. It wraps the
// underlying cause when there is one.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, or empty string for plain errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func unauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func forbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// invalidTransitionError names the offending (currentStatus, event) pair so
// rejected transitions stay debuggable.
func invalidTransitionError(currentStatus, event string) *AppError {
	return &AppError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("event '%s' is not allowed from status '%s'", event, currentStatus),
	}
}

// validationError names the field that failed.
func validationError(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidationFailed,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

func notFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func alreadyExistsError(message string) *AppError {
	return &AppError{Kind: KindAlreadyExists, Message: message}
}

func alreadySubmittedError(message string) *AppError {
	return &AppError{Kind: KindAlreadySubmitted, Message: message}
}

func conflictingWriteError(message string) *AppError {
	return &AppError{Kind: KindConflictingWrite, Message: message}
}

func internalError(message string, err error) error {
	if err == nil {
		return errors.New(message)
	}
	return fmt.Errorf("%s: %w", message, err)
}
