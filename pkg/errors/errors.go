package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidFormat        = errors.New("invalid archive format")
	ErrUnresolvedDependency = errors.New("circular or unresolved parent-child dependency")
	ErrInternal             = errors.New("internal error")
	ErrConflict             = errors.New("conflict")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidFormat creates a 422 error for a malformed import bundle.
func InvalidFormat(document string) *AppError {
	return &AppError{
		Code:    "INVALID_FORMAT",
		Message: fmt.Sprintf("document %s is not valid JSON", document),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidFormat,
	}
}

// UnknownReference creates a 422 error for an import record that names an
// entity that does not exist. Used by strict-mode product imports, where the
// error names both the record and the failing kind.
func UnknownReference(record, kind, name string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_REFERENCE",
		Message: fmt.Sprintf("product %q references unknown %s %q", record, kind, name),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrUnresolvedDependency,
	}
}

// UnresolvedDependency creates a 422 error for a category batch that cannot
// be fully resolved. Detection is batch-level, so no offending record is named.
func UnresolvedDependency(kind string) *AppError {
	return &AppError{
		Code:    "UNRESOLVED_DEPENDENCY",
		Message: fmt.Sprintf("circular or unresolved parent-child dependency in %s list", kind),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrUnresolvedDependency,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrUnresolvedDependency):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
