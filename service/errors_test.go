package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Missing required order information",
		(&ValidationError{Message: "Missing required order information"}).Error())

	assert.Equal(t, "Order not found", (&NotFoundError{Resource: "Order"}).Error())
	assert.Equal(t, "Product with ID 7 not found",
		(&NotFoundError{Resource: "Product", ID: 7}).Error())

	insufficient := &InsufficientStockError{
		ProductID:   3,
		ProductName: "Beras 5kg",
		Available:   2,
		Requested:   5,
	}
	assert.Equal(t, "Not enough stock for Beras 5kg. Available: 2", insufficient.Error())
}

func TestWrapTxErrorPassesDomainErrors(t *testing.T) {
	domain := []error{
		&ValidationError{Message: "bad input"},
		&NotFoundError{Resource: "Product", ID: 1},
		&InsufficientStockError{ProductName: "x", Available: 0, Requested: 1},
	}
	for _, err := range domain {
		assert.Same(t, err, wrapTxError(err))
	}
}

func TestWrapTxErrorWrapsDriverErrors(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	wrapped := wrapTxError(cause)

	var txErr *TransactionError
	assert.True(t, errors.As(wrapped, &txErr))
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}
