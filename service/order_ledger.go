package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/penzolll/umi-kelontong-digital-siap/cache"
	"github.com/penzolll/umi-kelontong-digital-siap/kafka"
	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

// OrderLedger owns the atomic order workflows: placement (stock
// validation, stock decrement, audit ledger append, order + item
// creation in one transaction) and the symmetric reversal on
// cancellation. Contended product rows are taken with SELECT ... FOR
// UPDATE so concurrent orders serialize instead of overselling.
type OrderLedger struct {
	DB       *gorm.DB
	Cache    *cache.Store
	Producer *kafka.Producer
}

type OrderLine struct {
	ProductID uint
	Quantity  int
}

type PlaceOrderInput struct {
	Lines         []OrderLine
	CustomerName  string
	Address       string
	Phone         string
	PaymentMethod string
	UserID        *uint
}

func (in *PlaceOrderInput) validate() error {
	if len(in.Lines) == 0 ||
		strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.Address) == "" ||
		strings.TrimSpace(in.Phone) == "" ||
		strings.TrimSpace(in.PaymentMethod) == "" {
		return &ValidationError{Message: "Missing required order information"}
	}
	if !model.ValidPaymentMethod(in.PaymentMethod) {
		return &ValidationError{Message: "Invalid payment method"}
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return &ValidationError{Message: "Item quantity must be positive"}
		}
	}
	return nil
}

// PlaceOrder validates every line against in-transaction stock, then
// writes the order, its items, the stock decrements, and one sale
// ledger row per line atomically. Unit prices come from the locked
// product rows, never from the client.
func (l *OrderLedger) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var order model.Order

	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// First pass: lock and validate each product, snapshot prices.
		// Lines for the same product are checked against the running
		// remainder so combined demand cannot oversell.
		products := make(map[uint]*model.Product)
		remaining := make(map[uint]int)
		items := make([]model.OrderItem, 0, len(in.Lines))
		var total int64

		for _, line := range in.Lines {
			product, ok := products[line.ProductID]
			if !ok {
				var loaded model.Product
				err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&loaded, line.ProductID).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "Product", ID: line.ProductID}
				}
				if err != nil {
					return err
				}
				product = &loaded
				products[product.ID] = product
				remaining[product.ID] = product.Stock
			}

			if remaining[product.ID] < line.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   remaining[product.ID],
					Requested:   line.Quantity,
				}
			}
			remaining[product.ID] -= line.Quantity

			price := product.UnitPrice()
			total += price * int64(line.Quantity)
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     price,
			})
		}

		// Second pass: all writes. Any failure rolls the whole
		// transaction back.
		order = model.Order{
			UserID:        in.UserID,
			TotalAmount:   total,
			CustomerName:  in.CustomerName,
			Address:       in.Address,
			Phone:         in.Phone,
			PaymentMethod: in.PaymentMethod,
			Status:        model.OrderPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		orderID := order.ID
		for _, line := range in.Lines {
			err := tx.Model(&model.Product{}).
				Where("id = ?", line.ProductID).
				Updates(map[string]interface{}{
					"stock":      gorm.Expr("stock - ?", line.Quantity),
					"updated_at": time.Now(),
				}).Error
			if err != nil {
				return err
			}

			entry := model.InventoryTransaction{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				TransactionType: model.TxSale,
				ReferenceID:     &orderID,
				ReferenceType:   model.RefOrder,
				CreatedBy:       in.UserID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	l.invalidateOrderCaches(ctx, in.UserID)
	l.Cache.Invalidate(ctx, cache.ProductsKey)
	l.Producer.PublishOrderCreated(&order)

	return &order, nil
}

// UpdateStatus sets the order status. When the target is "cancelled"
// and the order is not already cancelled, the stock of every line item
// is restored and a return ledger row appended, in the same transaction
// as the status write. Re-cancelling is idempotent: the status write
// succeeds, inventory is untouched.
func (l *OrderLedger) UpdateStatus(ctx context.Context, orderID uint, status string, actorID *uint) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, &ValidationError{Message: "Invalid status value"}
	}

	var order model.Order
	cancelled := false

	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Order"}
		}
		if err != nil {
			return err
		}

		if status == model.OrderCancelled && order.Status != model.OrderCancelled {
			var items []model.OrderItem
			if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
				return err
			}

			refID := order.ID
			for _, item := range items {
				err := tx.Model(&model.Product{}).
					Where("id = ?", item.ProductID).
					Updates(map[string]interface{}{
						"stock":      gorm.Expr("stock + ?", item.Quantity),
						"updated_at": time.Now(),
					}).Error
				if err != nil {
					return err
				}

				entry := model.InventoryTransaction{
					ProductID:       item.ProductID,
					Quantity:        item.Quantity,
					TransactionType: model.TxReturn,
					ReferenceID:     &refID,
					ReferenceType:   model.RefOrder,
					Notes:           "Order cancelled",
					CreatedBy:       actorID,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
			cancelled = true
		}

		order.Status = status
		order.UpdatedAt = time.Now()
		return tx.Model(&model.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": order.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	l.invalidateOrderCaches(ctx, order.UserID)
	if cancelled {
		l.Cache.Invalidate(ctx, cache.ProductsKey)
		l.Producer.PublishOrderCancelled(&order)
	}

	return &order, nil
}

// OrderSummary is one row of the order list: the order plus customer
// identity and an aggregate of its line items.
type OrderSummary struct {
	ID            uint      `json:"id"`
	UserID        *uint     `json:"user_id"`
	TotalAmount   int64     `json:"total_amount"`
	CustomerName  string    `json:"customer_name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UserName      string    `json:"user_name,omitempty"`
	UserEmail     string    `json:"user_email,omitempty"`
	ItemCount     int64     `json:"item_count"`
	ProductNames  string    `json:"product_names"`
}

func (l *OrderLedger) ListAll(ctx context.Context) ([]OrderSummary, error) {
	var orders []OrderSummary
	if l.Cache.GetJSON(ctx, cache.OrdersAllKey, &orders) {
		return orders, nil
	}

	err := l.DB.WithContext(ctx).Raw(`
		SELECT o.id, o.user_id, o.total_amount, o.customer_name, o.address,
		       o.phone, o.payment_method, o.status, o.created_at,
		       COALESCE(u.name, '') AS user_name,
		       COALESCE(u.email, '') AS user_email,
		       COUNT(oi.id) AS item_count,
		       COALESCE(STRING_AGG(p.name, ', ' ORDER BY oi.id), '') AS product_names
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		GROUP BY o.id, u.name, u.email
		ORDER BY o.created_at DESC`).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	l.Cache.SetJSON(ctx, cache.OrdersAllKey, orders, cache.OrdersTTL)
	return orders, nil
}

func (l *OrderLedger) ListByUser(ctx context.Context, userID uint) ([]OrderSummary, error) {
	var orders []OrderSummary
	if l.Cache.GetJSON(ctx, cache.OrdersUserKey(userID), &orders) {
		return orders, nil
	}

	err := l.DB.WithContext(ctx).Raw(`
		SELECT o.id, o.user_id, o.total_amount, o.customer_name, o.address,
		       o.phone, o.payment_method, o.status, o.created_at,
		       COUNT(oi.id) AS item_count,
		       COALESCE(STRING_AGG(p.name, ', ' ORDER BY oi.id), '') AS product_names
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = ?
		GROUP BY o.id
		ORDER BY o.created_at DESC`, userID).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	l.Cache.SetJSON(ctx, cache.OrdersUserKey(userID), orders, cache.OrdersTTL)
	return orders, nil
}

// OrderItemDetail is a line item joined with the product's current
// name and image for display.
type OrderItemDetail struct {
	ID        uint   `json:"id"`
	OrderID   uint   `json:"order_id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

type OrderDetail struct {
	model.Order
	UserName  string            `json:"user_name,omitempty"`
	UserEmail string            `json:"user_email,omitempty"`
	LineItems []OrderItemDetail `json:"items"`
}

// GetOrder returns the order with its items. Non-admin callers only see
// their own orders; anything else reads as not found.
func (l *OrderLedger) GetOrder(ctx context.Context, orderID uint, userID *uint, admin bool) (*OrderDetail, error) {
	var order model.Order
	err := l.DB.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "Order"}
	}
	if err != nil {
		return nil, err
	}

	if !admin {
		if userID == nil || order.UserID == nil || *order.UserID != *userID {
			return nil, &NotFoundError{Resource: "Order"}
		}
	}

	detail := OrderDetail{Order: order}
	detail.Order.Items = nil

	if admin && order.UserID != nil {
		var user model.User
		if err := l.DB.WithContext(ctx).First(&user, *order.UserID).Error; err == nil {
			detail.UserName = user.Name
			detail.UserEmail = user.Email
		}
	}

	err = l.DB.WithContext(ctx).Raw(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       COALESCE(p.name, '') AS name, COALESCE(p.image, '') AS image
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id`, orderID).
		Scan(&detail.LineItems).Error
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func (l *OrderLedger) invalidateOrderCaches(ctx context.Context, userID *uint) {
	keys := []string{cache.OrdersAllKey}
	if userID != nil {
		keys = append(keys, cache.OrdersUserKey(*userID))
	}
	l.Cache.Invalidate(ctx, keys...)
}
