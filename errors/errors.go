package errors

import (
	"fmt"
	"net/http"

	"github.com/formgate/formgate-backend/logger"
	"github.com/formgate/formgate-backend/types"
)

type ErrorType string

const (
	ValidationError    ErrorType = "VALIDATION_ERROR"
	RateLimitError     ErrorType = "RATE_LIMIT_ERROR"
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
	DispatchError      ErrorType = "DISPATCH_ERROR"
	NotFoundError      ErrorType = "NOT_FOUND"
	ServerError        ErrorType = "SERVER_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType          `json:"type"`
	Message    string             `json:"message"`
	Detail     string             `json:"detail,omitempty"`
	Fields     []types.FieldError `json:"fields,omitempty"`
	HTTPStatus int                `json:"-"`
	Raw        error              `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status for the error, falling back to the
// status implied by its type.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed reports the full ordered list of field errors for a request.
func ValidationFailed(fields []types.FieldError) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    "Validation failed",
		Fields:     fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidPayload reports a request body that could not be bound at all.
func InvalidPayload(detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    "Invalid request payload",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RateLimitExceeded is returned when a client exceeds its request window.
func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("Retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// ConfigurationFailed marks a missing or unusable runtime configuration,
// such as absent mail credentials. Surfaced to clients as 503.
func ConfigurationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:       ConfigurationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// DispatchFailed wraps a transport failure sending outbound mail.
// Logs the original error and returns a sanitized message.
func DispatchFailed(err error) *AppError {
	logger.GetLogger().Errorw("Email dispatch error", "error", err)
	return &AppError{
		Type:       DispatchError,
		Message:    "Failed to send notification email",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// NotFound reports an unknown entity or route.
func NotFound(entity string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsConfiguration reports whether err is a configuration-class AppError.
func IsConfiguration(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ConfigurationError
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case RateLimitError:
		return http.StatusTooManyRequests
	case ConfigurationError:
		return http.StatusServiceUnavailable
	case DispatchError:
		return http.StatusInternalServerError
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
