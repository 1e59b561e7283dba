// Package errors provides custom error types for the Spenza API.
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
	ErrUserInUse      = &AppError{Code: "USER_IN_USE", Message: "User has recorded expenses and cannot be deleted", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", StatusCode: http.StatusConflict}
	ErrDuplicateName    = &AppError{Code: "DUPLICATE_NAME", Message: "A record with this name already exists", StatusCode: http.StatusConflict}
)

// Zone errors.
var (
	ErrZoneNotFound      = &AppError{Code: "ZONE_NOT_FOUND", Message: "Zone not found", StatusCode: http.StatusNotFound}
	ErrZoneInUse         = &AppError{Code: "ZONE_IN_USE", Message: "Zone is used by existing expenses", StatusCode: http.StatusConflict}
	ErrZoneNotAssigned   = &AppError{Code: "ZONE_NOT_ASSIGNED", Message: "You are not assigned to this zone", StatusCode: http.StatusForbidden}
	ErrAlreadyZoneMember = &AppError{Code: "ALREADY_ZONE_MEMBER", Message: "User is already a member of this zone", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount   = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive decimal", StatusCode: http.StatusBadRequest}
)

// Reporting errors.
var (
	ErrInvalidGroupBy    = &AppError{Code: "INVALID_GROUP_BY", Message: "group_by must be one of: user, category, zone", StatusCode: http.StatusBadRequest}
	ErrInvalidPageSize   = &AppError{Code: "INVALID_PAGE_SIZE", Message: "Page size must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrStoreUnavailable  = &AppError{Code: "STORE_UNAVAILABLE", Message: "Expense store is unreachable, try again later", StatusCode: http.StatusServiceUnavailable}
	ErrReportUnavailable = &AppError{Code: "REPORT_UNAVAILABLE", Message: "Report could not be generated, try again later", StatusCode: http.StatusServiceUnavailable}
)
