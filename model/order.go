package model

import "time"

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

const (
	PaymentCOD          = "cod"
	PaymentBankTransfer = "bank-transfer"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	return s == PaymentCOD || s == PaymentBankTransfer
}

// Order.UserID is nullable: guest checkout is allowed. TotalAmount is
// computed once at creation from the snapshotted item prices.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        *uint       `json:"user_id"`
	TotalAmount   int64       `json:"total_amount"`
	CustomerName  string      `json:"customer_name"`
	Address       string      `json:"address"`
	Phone         string      `json:"phone"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem rows are immutable after creation. Price is the unit price
// snapshot taken when the order was placed, not a live catalog link.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	OrderID   uint  `json:"order_id"`
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}
