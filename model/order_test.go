package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	for _, s := range []string{"", "paid", "PENDING", "done"} {
		assert.False(t, ValidOrderStatus(s), s)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("cod"))
	assert.True(t, ValidPaymentMethod("bank-transfer"))
	assert.False(t, ValidPaymentMethod("credit-card"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestTransactionSign(t *testing.T) {
	negative := []string{TxSale, TxManualRemove, TxAdjustmentRemove}
	positive := []string{TxInitial, TxReturn, TxManualAdd, TxAdjustmentAdd}

	for _, tt := range negative {
		assert.Equal(t, -1, TransactionSign(tt), tt)
	}
	for _, tt := range positive {
		assert.Equal(t, 1, TransactionSign(tt), tt)
	}
}

func TestUnitPrice(t *testing.T) {
	p := Product{Price: 5000}
	assert.Equal(t, int64(5000), p.UnitPrice())

	discount := int64(4000)
	p.DiscountPrice = &discount
	assert.Equal(t, int64(4000), p.UnitPrice())
}
