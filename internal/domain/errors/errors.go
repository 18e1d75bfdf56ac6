package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account is deactivated")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrOTPCooldown         = errors.New("otp resend cooldown")
	ErrClosedTicket        = errors.New("ticket is closed")
)

// Error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
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
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Conflict is reported as 400 with a message naming the duplicated value
func Conflict(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeConflict, message, ErrAlreadyExists)
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

// FromError maps any error onto the client facing taxonomy.
// Unknown errors become a 500 with a generic message.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("Resource already exists")
	case errors.Is(err, ErrInvalidInput):
		return BadRequest("Invalid input")
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, ErrAccountInactive):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Account is deactivated", err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", err)
	case errors.Is(err, ErrForbidden):
		return Forbidden("Access denied")
	case errors.Is(err, ErrInvalidOrExpiredOTP):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, "Invalid or expired OTP", err)
	case errors.Is(err, ErrTooManyAttempts):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, "Too many attempts. Please request a new OTP", err)
	case errors.Is(err, ErrOTPCooldown):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, "Please wait before requesting another OTP", err)
	case errors.Is(err, ErrClosedTicket):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, "Cannot reply to a closed ticket. Please create a new ticket.", err)
	}

	return InternalError(err)
}
