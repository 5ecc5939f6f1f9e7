package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByIDWithCategories(ctx context.Context, id uint) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"sku":  product.Sku,
	})

	// Category links are written through the join table; the categories
	// themselves must already exist.
	err := r.db.WithContext(ctx).Omit("Categories.*", "Variants").Create(product).Error
	if err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"sku":  product.Sku,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDWithCategories loads the product with its categories ordered by id.
func (r *productRepository) FindByIDWithCategories(ctx context.Context, id uint) (*model.Product, error) {
	logger.Debug("Finding product with categories", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.id ASC")
		}).
		First(&product, id).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find product with categories", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Product found", map[string]interface{}{
		"product_id":       product.ID,
		"categories_count": len(product.Categories),
	})
	return &product, nil
}
