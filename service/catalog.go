package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/penzolll/umi-kelontong-digital-siap/cache"
	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

// Catalog is the product/category read-write surface. Stock never
// changes here without a matching ledger row in the same transaction.
type Catalog struct {
	DB    *gorm.DB
	Cache *cache.Store
}

type ProductFilter struct {
	CategoryID uint
	Search     string
	Promo      bool
}

func (f ProductFilter) empty() bool {
	return f.CategoryID == 0 && f.Search == "" && !f.Promo
}

func (s *Catalog) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductWithCategory, error) {
	// Only the unfiltered listing is cached; filtered reads go to the
	// database directly.
	if filter.empty() {
		var cached []ProductWithCategory
		if s.Cache.GetJSON(ctx, cache.ProductsKey, &cached) {
			return cached, nil
		}
	}

	query := `
		SELECT p.id, p.name, p.description, p.price, p.discount_price,
		       p.image, p.category_id, p.stock, p.is_featured, p.is_promo,
		       p.created_at, p.updated_at,
		       COALESCE(c.name, '') AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.CategoryID != 0 {
		query += " AND p.category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if filter.Search != "" {
		query += " AND (p.name ILIKE ? OR p.description ILIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Promo {
		query += " AND p.is_promo = true"
	}
	query += " ORDER BY p.created_at DESC"

	var products []ProductWithCategory
	if err := s.DB.WithContext(ctx).Raw(query, args...).Scan(&products).Error; err != nil {
		return nil, err
	}

	if filter.empty() {
		s.Cache.SetJSON(ctx, cache.ProductsKey, products, cache.ProductsTTL)
	}
	return products, nil
}

// GetProduct returns the product and up to four related products from
// the same category.
func (s *Catalog) GetProduct(ctx context.Context, productID uint) (*ProductWithCategory, []model.Product, error) {
	var product ProductWithCategory
	err := s.DB.WithContext(ctx).Raw(`
		SELECT p.id, p.name, p.description, p.price, p.discount_price,
		       p.image, p.category_id, p.stock, p.is_featured, p.is_promo,
		       p.created_at, p.updated_at,
		       COALESCE(c.name, '') AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = ?`, productID).
		Scan(&product).Error
	if err != nil {
		return nil, nil, err
	}
	if product.ID == 0 {
		return nil, nil, &NotFoundError{Resource: "Product"}
	}

	var related []model.Product
	if product.CategoryID != nil {
		err = s.DB.WithContext(ctx).
			Where("category_id = ? AND id != ?", *product.CategoryID, productID).
			Limit(4).
			Find(&related).Error
		if err != nil {
			return nil, nil, err
		}
	}

	return &product, related, nil
}

type ProductInput struct {
	Name          string
	Description   string
	Price         int64
	DiscountPrice *int64
	CategoryID    *uint
	Image         string
	Stock         int
	IsFeatured    bool
	IsPromo       bool
}

// CreateProduct inserts the product and, when it starts with stock, an
// "initial" ledger row in the same transaction.
func (s *Catalog) CreateProduct(ctx context.Context, in ProductInput, actorID *uint) (*model.Product, error) {
	if in.Name == "" || in.Price <= 0 || in.CategoryID == nil {
		return nil, &ValidationError{Message: "Please provide name, price and category"}
	}
	if in.Stock < 0 {
		return nil, &ValidationError{Message: "Stock must not be negative"}
	}

	product := model.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		CategoryID:    in.CategoryID,
		Image:         in.Image,
		Stock:         in.Stock,
		IsFeatured:    in.IsFeatured,
		IsPromo:       in.IsPromo,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if product.Stock > 0 {
			entry := model.InventoryTransaction{
				ProductID:       product.ID,
				Quantity:        product.Stock,
				TransactionType: model.TxInitial,
				Notes:           "Initial stock",
				CreatedBy:       actorID,
			}
			return tx.Create(&entry).Error
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.Cache.Invalidate(ctx, cache.ProductsKey)
	return &product, nil
}

// ProductUpdate carries optional fields; nil leaves the stored value
// unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *int64
	DiscountPrice *int64
	CategoryID    *uint
	Image         *string
	Stock         *int
	IsFeatured    *bool
	IsPromo       *bool
}

// UpdateProduct applies field changes; a stock change records an
// adjustment ledger row for the difference, in the same transaction.
func (s *Catalog) UpdateProduct(ctx context.Context, productID uint, in ProductUpdate, actorID *uint) (*model.Product, error) {
	if in.Stock != nil && *in.Stock < 0 {
		return nil, &ValidationError{Message: "Stock must not be negative"}
	}

	var product model.Product

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "Product"}
		}
		if err != nil {
			return err
		}

		if in.Stock != nil && *in.Stock != product.Stock {
			difference := *in.Stock - product.Stock
			entryType := model.TxAdjustmentAdd
			if difference < 0 {
				entryType = model.TxAdjustmentRemove
				difference = -difference
			}
			entry := model.InventoryTransaction{
				ProductID:       product.ID,
				Quantity:        difference,
				TransactionType: entryType,
				Notes:           "Stock adjustment via admin update",
				CreatedBy:       actorID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			product.Stock = *in.Stock
		}

		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.DiscountPrice != nil {
			product.DiscountPrice = in.DiscountPrice
		}
		if in.CategoryID != nil {
			product.CategoryID = in.CategoryID
		}
		if in.Image != nil {
			product.Image = *in.Image
		}
		if in.IsFeatured != nil {
			product.IsFeatured = *in.IsFeatured
		}
		if in.IsPromo != nil {
			product.IsPromo = *in.IsPromo
		}
		product.UpdatedAt = time.Now()

		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.Cache.Invalidate(ctx, cache.ProductsKey)
	return &product, nil
}

func (s *Catalog) DeleteProduct(ctx context.Context, productID uint) error {
	var product model.Product
	err := s.DB.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Product"}
	}
	if err != nil {
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&product).Error; err != nil {
		return err
	}

	s.Cache.Invalidate(ctx, cache.ProductsKey)
	return nil
}

func (s *Catalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if s.Cache.GetJSON(ctx, cache.CategoriesKey, &categories) {
		return categories, nil
	}

	err := s.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	s.Cache.SetJSON(ctx, cache.CategoriesKey, categories, cache.CategoriesTTL)
	return categories, nil
}

func (s *Catalog) CreateCategory(ctx context.Context, name, image string) (*model.Category, error) {
	if name == "" {
		return nil, &ValidationError{Message: "Category name is required"}
	}

	category := model.Category{Name: name, Image: image}
	if err := s.DB.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, cache.CategoriesKey)
	return &category, nil
}

func (s *Catalog) UpdateCategory(ctx context.Context, categoryID uint, name, image string) (*model.Category, error) {
	var category model.Category
	err := s.DB.WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "Category"}
	}
	if err != nil {
		return nil, err
	}

	if name != "" {
		category.Name = name
	}
	if image != "" {
		category.Image = image
	}
	if err := s.DB.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, cache.CategoriesKey)
	return &category, nil
}

// DeleteCategory nulls out the category reference on dependent
// products instead of cascading, then removes the category.
func (s *Catalog) DeleteCategory(ctx context.Context, categoryID uint) error {
	var category model.Category
	err := s.DB.WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Category"}
	}
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Product{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return wrapTxError(err)
	}

	s.Cache.Invalidate(ctx, cache.CategoriesKey, cache.ProductsKey)
	return nil
}
