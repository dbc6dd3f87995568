package model

import "time"

const (
	TxInitial          = "initial"
	TxSale             = "sale"
	TxReturn           = "return"
	TxManualAdd        = "manual-add"
	TxManualRemove     = "manual-remove"
	TxAdjustmentAdd    = "adjustment-add"
	TxAdjustmentRemove = "adjustment-remove"
)

const RefOrder = "order"

// TransactionSign gives the direction a ledger row moves stock:
// -1 for outgoing types, +1 for incoming. The signed sum of a product's
// ledger must always equal its stock minus the stock it was created with.
func TransactionSign(transactionType string) int {
	switch transactionType {
	case TxSale, TxManualRemove, TxAdjustmentRemove:
		return -1
	default:
		return 1
	}
}

// InventoryTransaction is an append-only audit ledger. Quantity is
// always a positive magnitude; the type carries the direction.
type InventoryTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       uint      `json:"product_id"`
	Quantity        int       `json:"quantity"`
	TransactionType string    `json:"transaction_type"`
	ReferenceID     *uint     `json:"reference_id"`
	ReferenceType   string    `json:"reference_type"`
	Notes           string    `json:"notes"`
	CreatedBy       *uint     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}
