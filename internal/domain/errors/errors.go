package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrRouteNotFound         = errors.New("route not found")
	ErrUnsupportedMediaType  = errors.New("unsupported media type")
	ErrMissingContentType    = errors.New("missing content type")
	ErrEmptyBody             = errors.New("body cannot be empty when content-type is set to 'application/json'")
	ErrMalformedBody         = errors.New("malformed request body")
)

// Code identifies the kind of failure in the error taxonomy
type Code string

const (
	CodeValidationFailure     Code = "VALIDATION_FAILURE"
	CodeInvalidCredentials    Code = "INVALID_CREDENTIALS"
	CodeDuplicateEmail        Code = "DUPLICATE_EMAIL"
	CodeInvalidOrExpiredToken Code = "INVALID_OR_EXPIRED_TOKEN"
	CodeNotFound              Code = "NOT_FOUND"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeTransportFailure      Code = "TRANSPORT_FAILURE"
	CodeInternal              Code = "INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"status"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code Code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FieldIssue is one field-level validation failure
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level failures raised outside the binding layer
type ValidationError struct {
	Fields []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Field + ": " + e.Fields[0].Message
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldIssue{{Field: field, Message: message}}}
}

// Common error constructors
func InvalidCredentials() *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidCredentials, "Invalid email or password", ErrInvalidCredentials)
}

func DuplicateEmail() *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeDuplicateEmail, "Email already registered", ErrDuplicateEmail)
}

func InvalidOrExpiredToken() *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInvalidOrExpiredToken, "Invalid or expired verification token", ErrInvalidOrExpiredToken)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func TransportFailure(status int, message string, err error) *AppError {
	return NewAppError(status, CodeTransportFailure, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}
