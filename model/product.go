package model

import "time"

// Prices are stored in the smallest currency unit.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
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
}

// UnitPrice is the price an order line pays right now: the discount
// price when one is set, the regular price otherwise.
func (p *Product) UnitPrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
