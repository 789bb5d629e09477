package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrUnconfigured   = errors.New("not configured")
)

// Callable error codes returned to client SDKs.
const (
	CallableInvalidArgument = "invalid-argument"
	CallableNotFound        = "not-found"
	CallableUnavailable     = "unavailable"
	CallableInternal        = "internal"
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

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Unconfigured creates a 500 error for a missing credential or setting.
// Callers see it as an internal failure; the message is meant for operators.
func Unconfigured(message string) *AppError {
	return &AppError{
		Code:    "UNCONFIGURED",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrUnconfigured,
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

// InternalWithMessage creates a 500 error with a caller-facing message.
func InternalWithMessage(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
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
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CallableCode maps an error to the code reported by callable endpoints.
// An AppError decides by its own code, so an internal failure wrapping an
// upstream outage still reports "internal".
func CallableCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "INVALID_INPUT":
			return CallableInvalidArgument
		case "NOT_FOUND":
			return CallableNotFound
		default:
			return CallableInternal
		}
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return CallableInvalidArgument
	case errors.Is(err, ErrNotFound):
		return CallableNotFound
	case errors.Is(err, ErrServiceUnavail):
		return CallableUnavailable
	default:
		return CallableInternal
	}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
