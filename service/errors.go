package service

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed or missing input before any write
// is attempted. Maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError names the missing resource. Maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// InsufficientStockError carries the product and the quantity actually
// available. Maps to HTTP 400.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ProductName, e.Available)
}

// TransactionError wraps an aborted database transaction. Nothing
// partial was committed, so the whole request is safe to retry.
// Maps to HTTP 500.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// wrapTxError passes domain errors through untouched and wraps anything
// else (driver failures, timeouts) as a retryable TransactionError.
func wrapTxError(err error) error {
	var (
		ve *ValidationError
		nf *NotFoundError
		is *InsufficientStockError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &is) {
		return err
	}
	return &TransactionError{Err: err}
}
