package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrNotFound              = errors.New("resource not found")
	ErrBadRequest            = errors.New("bad request")
	ErrConflict              = errors.New("resource conflict")
	ErrInternal              = errors.New("internal server error")
	ErrValidation            = errors.New("validation error")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrBatchMedicineMismatch = errors.New("batch does not belong to medicine")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrBatchExpired          = errors.New("batch expired")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Validation carries one message per violated field so callers can render
// per-field errors. Details must list every violation, not just the first.
func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// InsufficientStock is returned when an allocation requests more units than a
// batch holds. It is a business-rule violation, never retried blindly.
func InsufficientStock(available, requested int) *AppError {
	return &AppError{
		Err:        ErrInsufficientStock,
		Code:       "INSUFFICIENT_STOCK",
		Message:    fmt.Sprintf("requested %d units but only %d available", requested, available),
		StatusCode: http.StatusConflict,
	}
}

// BatchMedicineMismatch is returned when a sale references a batch that does
// not belong to the stated medicine.
func BatchMedicineMismatch(batchID, medicineID string) *AppError {
	return &AppError{
		Err:        ErrBatchMedicineMismatch,
		Code:       "BATCH_MEDICINE_MISMATCH",
		Message:    fmt.Sprintf("batch %s does not belong to medicine %s", batchID, medicineID),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// InvalidQuantity is returned when a sale requests zero or negative units.
func InvalidQuantity(requested int) *AppError {
	return &AppError{
		Err:        ErrInvalidQuantity,
		Code:       "INVALID_QUANTITY",
		Message:    fmt.Sprintf("quantity must be positive, got %d", requested),
		StatusCode: http.StatusBadRequest,
	}
}

// BatchExpired is returned when a sale selects stock that is already past its
// expiry date.
func BatchExpired(batchCode string) *AppError {
	return &AppError{
		Err:        ErrBatchExpired,
		Code:       "BATCH_EXPIRED",
		Message:    fmt.Sprintf("stock batch %s is expired", batchCode),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
