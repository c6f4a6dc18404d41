package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the machine readable category of an AppError.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "BAD_REQUEST"
	KindUnauthorized     ErrorKind = "UNAUTHORIZED"
	KindForbidden        ErrorKind = "FORBIDDEN"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindQuotaExceeded    ErrorKind = "QUOTA_EXCEEDED"
	KindRateLimited      ErrorKind = "RATE_LIMITED"
	KindGenerationFailed ErrorKind = "GENERATION_FAILED"
	KindSchemaValidation ErrorKind = "SCHEMA_VALIDATION_FAILED"
	KindStorageFailure   ErrorKind = "STORAGE_FAILURE"
	KindInternal         ErrorKind = "INTERNAL"
)

type AppError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
	Data       interface{}
	Err        error
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

func newAppError(status int, kind ErrorKind, err error, message string) *AppError {
	return &AppError{
		StatusCode: status,
		Kind:       kind,
		Message:    message,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, KindBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, KindUnauthorized, err, message)
}

func NewForbiddenError(err error, message string) *AppError {
	return newAppError(http.StatusForbidden, KindForbidden, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, KindNotFound, err, message)
}

// NewQuotaExceededError is returned when the daily practice budget is used up.
func NewQuotaExceededError(data interface{}) *AppError {
	appErr := newAppError(http.StatusForbidden, KindQuotaExceeded, nil, "Daily limit reached")
	appErr.Data = data
	return appErr
}

func NewRateLimitedError(message string, data interface{}) *AppError {
	appErr := newAppError(http.StatusTooManyRequests, KindRateLimited, nil, message)
	appErr.Data = data
	return appErr
}

func NewGenerationError(err error, message string) *AppError {
	return newAppError(http.StatusBadGateway, KindGenerationFailed, err, message)
}

// NewSchemaValidationError carries the individual schema violations in Data.
func NewSchemaValidationError(err error, violations []string) *AppError {
	appErr := newAppError(http.StatusBadGateway, KindSchemaValidation, err, "Feedback did not match the expected schema")
	appErr.Data = violations
	return appErr
}

func NewStorageError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, KindStorageFailure, err, message)
}

func NewStorageUnavailableError(err error, message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, KindStorageFailure, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, KindInternal, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Kind == kind
}
