// Package errors provides custom error types for the Cardkeeper API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Card errors.
var (
	ErrCardNotFound    = &AppError{Code: "CARD_NOT_FOUND", Message: "Credit card not found", StatusCode: http.StatusNotFound}
	ErrCardReadOnly    = &AppError{Code: "CARD_READ_ONLY", Message: "Shared cards cannot be modified", StatusCode: http.StatusForbidden}
	ErrInvalidDueDay   = &AppError{Code: "INVALID_DUE_DAY", Message: "Due day must be between 1 and 31", StatusCode: http.StatusBadRequest}
	ErrAlreadyShared   = &AppError{Code: "ALREADY_SHARED", Message: "Card is already shared with this user", StatusCode: http.StatusConflict}
	ErrShareWithSelf   = &AppError{Code: "SHARE_WITH_SELF", Message: "A card cannot be shared with its owner", StatusCode: http.StatusBadRequest}
	ErrShareNotFound   = &AppError{Code: "SHARE_NOT_FOUND", Message: "Card is not shared with this user", StatusCode: http.StatusNotFound}
)

// Alert errors.
var (
	ErrAlertNotFound    = &AppError{Code: "ALERT_NOT_FOUND", Message: "Notification alert not found", StatusCode: http.StatusNotFound}
	ErrTooManyAlerts    = &AppError{Code: "TOO_MANY_ALERTS", Message: "At most 5 notification alerts are allowed", StatusCode: http.StatusBadRequest}
	ErrDuplicateAlert   = &AppError{Code: "DUPLICATE_ALERT", Message: "An alert with this lead time already exists", StatusCode: http.StatusConflict}
	ErrInvalidLeadTime  = &AppError{Code: "INVALID_LEAD_TIME", Message: "Lead time must be between 0 and 24 hours", StatusCode: http.StatusBadRequest}
)
