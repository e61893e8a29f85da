package errors

import (
	"errors"
	"net/http"
)

// Machine-readable error codes carried in every error response.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeDuplicate       = "DUPLICATE_EMAIL"
	CodeAuth            = "AUTH_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyVerified = "ALREADY_VERIFIED"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Domain sentinel errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUpstream           = errors.New("upstream failure")
)

// AppError represents an application error with HTTP status and machine code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
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
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Duplicate(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeDuplicate, message, ErrAlreadyExists)
}

func Auth(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeAuth, message, ErrInvalidCredentials)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func AlreadyVerified(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeAlreadyVerified, message, ErrAlreadyVerified)
}

func Upstream(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, CodeUpstream, message, err)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}
