package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

// Validation returns a 400 error for malformed or missing input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ErrInvalidAmount is the canonical rejection for non-positive amounts.
func ErrInvalidAmount() *AppError {
	return New("VAL_001", "Amount must be positive", http.StatusBadRequest)
}

// ---- Ledger Business Rules (LED) ----

// ErrInsufficientBalance rejects a fiat send exceeding the current balance.
func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient balance", http.StatusBadRequest)
}

// ErrInsufficientAssetBalance rejects a crypto send exceeding the derived
// balance for the given asset.
func ErrInsufficientAssetBalance(asset string) *AppError {
	return New("LED_001", fmt.Sprintf("Insufficient %s balance", asset), http.StatusBadRequest)
}

// ---- Lookup (USR) ----

func ErrUserNotFound() *AppError {
	return New("USR_001", "User not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New("USR_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
