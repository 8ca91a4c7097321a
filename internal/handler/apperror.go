package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrSameAccount         = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT", "Source and destination must be different accounts"}
	ErrAccountNotFound     = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrCustomerNotFound    = &AppError{http.StatusUnprocessableEntity, "CUSTOMER_NOT_FOUND", "Customer not found"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive value with at most two decimal places"}
	ErrInvalidBalance      = &AppError{http.StatusBadRequest, "INVALID_BALANCE", "Initial balance must be a non-negative value with at most two decimal places"}
	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrTransferFailed      = &AppError{http.StatusServiceUnavailable, "TRANSFER_FAILED", "Transfer could not be committed, please retry"}
	ErrEmailExists         = &AppError{http.StatusConflict, "EMAIL_ALREADY_EXISTS", "Email already registered"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
