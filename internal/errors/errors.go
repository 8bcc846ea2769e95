// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"net/http"
)

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

// Is reports whether target carries the same error code, so that sentinels
// still match after Wrap or WithMessage.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

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

// IsValidation reports whether err is an AppError that maps to a 400 response.
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.StatusCode == http.StatusBadRequest
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrRateLimited  = &AppError{Code: "RATE_LIMITED", Message: "Too many requests. Please try again later.", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Period errors.
var (
	ErrMissingRange  = &AppError{Code: "MISSING_RANGE", Message: "startDate and endDate are required for custom period", StatusCode: http.StatusBadRequest}
	ErrInvalidRange  = &AppError{Code: "INVALID_RANGE", Message: "endDate must not be before startDate", StatusCode: http.StatusBadRequest}
	ErrInvalidPeriod = &AppError{Code: "INVALID_PERIOD", Message: "period must be one of all, today, week, month, year, custom", StatusCode: http.StatusBadRequest}
	ErrInvalidDate   = &AppError{Code: "INVALID_DATE", Message: "Invalid date format. Use YYYY-MM-DD", StatusCode: http.StatusBadRequest}
)

// Ledger entry errors.
var (
	ErrEntryNotFound    = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount    = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than 0", StatusCode: http.StatusBadRequest}
	ErrAmountScale      = &AppError{Code: "INVALID_AMOUNT", Message: "Amount supports at most 4 decimal places", StatusCode: http.StatusBadRequest}
	ErrInvalidRecurring = &AppError{Code: "INVALID_RECURRING", Message: "Invalid recurring settings", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget for this category and period already exists", StatusCode: http.StatusConflict}
)

// Savings goal errors.
var (
	ErrGoalNotFound              = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrContributionExceedsTarget = &AppError{Code: "CONTRIBUTION_EXCEEDS_TARGET", Message: "Contribution exceeds goal target", StatusCode: http.StatusBadRequest}
	ErrTargetBelowCurrent        = &AppError{Code: "TARGET_BELOW_CURRENT", Message: "Current amount cannot exceed the target amount", StatusCode: http.StatusBadRequest}
	ErrInvalidDeadline           = &AppError{Code: "INVALID_DEADLINE", Message: "Deadline must be in the future", StatusCode: http.StatusBadRequest}
	ErrGoalConflict              = &AppError{Code: "GOAL_CONFLICT", Message: "Goal was modified concurrently, please retry", StatusCode: http.StatusBadRequest}
)

// Budget plan errors.
var (
	ErrPlanNotFound  = &AppError{Code: "PLAN_NOT_FOUND", Message: "No plan found for this month", StatusCode: http.StatusNotFound}
	ErrPlannerFailed = &AppError{Code: "PLANNER_FAILED", Message: "Budget planner failed", StatusCode: http.StatusBadGateway}
)

// Profile errors.
var (
	ErrProfileNotFound = &AppError{Code: "PROFILE_NOT_FOUND", Message: "Profile not found", StatusCode: http.StatusNotFound}
)
