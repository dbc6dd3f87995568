package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/penzolll/umi-kelontong-digital-siap/cache"
	"github.com/penzolll/umi-kelontong-digital-siap/kafka"
	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

const (
	AdjustAdd    = "add"
	AdjustRemove = "remove"
	AdjustSet    = "set"
)

const DefaultLowStockThreshold = 10

// Inventory handles manual stock corrections and the read-only ledger
// surface. Every stock write and its ledger row share one transaction.
type Inventory struct {
	DB       *gorm.DB
	Cache    *cache.Store
	Producer *kafka.Producer
}

type AdjustStockInput struct {
	ProductID uint
	Quantity  int
	Type      string
	Notes     string
	ActorID   *uint
}

// AdjustStock applies a manual correction. "add" increments, "remove"
// decrements (rejecting removal past zero), "set" overwrites the stock
// and records the absolute difference. A "set" equal to the current
// stock writes no ledger row; a zero-magnitude audit entry records
// nothing.
func (s *Inventory) AdjustStock(ctx context.Context, in AdjustStockInput) (*model.Product, error) {
	switch in.Type {
	case AdjustAdd, AdjustRemove, AdjustSet:
	default:
		return nil, &ValidationError{Message: "Invalid inventory update type"}
	}
	if in.Quantity < 0 {
		return nil, &ValidationError{Message: "Cannot set negative stock value"}
	}

	var product model.Product

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, in.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Product"}
		}
		if err != nil {
			return err
		}

		var newStock, entryQuantity int
		var entryType string

		switch in.Type {
		case AdjustAdd:
			newStock = product.Stock + in.Quantity
			entryQuantity = in.Quantity
			entryType = model.TxManualAdd

		case AdjustRemove:
			if product.Stock < in.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   in.Quantity,
				}
			}
			newStock = product.Stock - in.Quantity
			entryQuantity = in.Quantity
			entryType = model.TxManualRemove

		case AdjustSet:
			newStock = in.Quantity
			if in.Quantity > product.Stock {
				entryQuantity = in.Quantity - product.Stock
				entryType = model.TxManualAdd
			} else {
				entryQuantity = product.Stock - in.Quantity
				entryType = model.TxManualRemove
			}
		}

		product.Stock = newStock
		product.UpdatedAt = time.Now()
		err = tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"stock":      newStock,
				"updated_at": product.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}

		if entryQuantity == 0 {
			return nil
		}

		notes := in.Notes
		if notes == "" {
			notes = "Manual inventory update"
		}
		entry := model.InventoryTransaction{
			ProductID:       product.ID,
			Quantity:        entryQuantity,
			TransactionType: entryType,
			Notes:           notes,
			CreatedBy:       in.ActorID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.Cache.Invalidate(ctx, cache.ProductsKey)
	s.Producer.PublishInventoryAdjusted(product.ID, product.Stock, in.Type)

	return &product, nil
}

// ProductWithCategory is a product row joined with its category name.
type ProductWithCategory struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	DiscountPrice *int64    `json:"discount_price"`
	Image         string    `json:"image"`
	CategoryID    *uint     `json:"category_id"`
	Stock         int       `json:"stock"`
	IsFeatured    bool      `json:"is_featured"`
	IsPromo       bool      `json:"is_promo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CategoryName  string    `json:"category_name,omitempty"`
}

// LowStock returns products at or below the threshold, lowest first.
// A non-positive threshold falls back to the default of 10.
func (s *Inventory) LowStock(ctx context.Context, threshold int) ([]ProductWithCategory, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	var products []ProductWithCategory
	err := s.DB.WithContext(ctx).Raw(`
		SELECT p.id, p.name, p.description, p.price, p.discount_price,
		       p.image, p.category_id, p.stock, p.is_featured, p.is_promo,
		       p.created_at, p.updated_at,
		       COALESCE(c.name, '') AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.stock <= ?
		ORDER BY p.stock ASC`, threshold).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// LedgerEntry is an inventory transaction joined with the acting
// user's display name.
type LedgerEntry struct {
	ID              uint      `json:"id"`
	ProductID       uint      `json:"product_id"`
	Quantity        int       `json:"quantity"`
	TransactionType string    `json:"transaction_type"`
	ReferenceID     *uint     `json:"reference_id"`
	ReferenceType   string    `json:"reference_type"`
	Notes           string    `json:"notes"`
	CreatedBy       *uint     `json:"created_by"`
	CreatedByName   string    `json:"created_by_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// History returns the product and its full ledger, most recent first.
func (s *Inventory) History(ctx context.Context, productID uint) (*model.Product, []LedgerEntry, error) {
	var product model.Product
	err := s.DB.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, &NotFoundError{Resource: "Product"}
	}
	if err != nil {
		return nil, nil, err
	}

	var entries []LedgerEntry
	err = s.DB.WithContext(ctx).Raw(`
		SELECT it.id, it.product_id, it.quantity, it.transaction_type,
		       it.reference_id, it.reference_type, it.notes, it.created_by,
		       COALESCE(u.name, '') AS created_by_name, it.created_at
		FROM inventory_transactions it
		LEFT JOIN users u ON it.created_by = u.id
		WHERE it.product_id = ?
		ORDER BY it.created_at DESC, it.id DESC`, productID).
		Scan(&entries).Error
	if err != nil {
		return nil, nil, err
	}

	return &product, entries, nil
}
