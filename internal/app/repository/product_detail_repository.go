package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductDetailRepository interface {
	WithTx(tx *gorm.DB) ProductDetailRepository
	Create(ctx context.Context, detail *model.ProductDetail) error
	Update(ctx context.Context, detail *model.ProductDetail) error
	FindByID(ctx context.Context, id uint) (*model.ProductDetail, error)
	FindByIDWithTrashed(ctx context.Context, id uint) (*model.ProductDetail, error)
	FindByProductID(ctx context.Context, productID uint) ([]model.ProductDetail, error)
	UpdateIdentifier(ctx context.Context, id uint, identifier string) error
	SkuVariantExists(ctx context.Context, sku string, excludeID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	ForceDelete(ctx context.Context, id uint) error
	CountReferences(ctx context.Context, id uint) (int64, error)
	FindInBatches(ctx context.Context, batchSize int, fn func(batch []model.ProductDetail) error) error
}

type productDetailRepository struct {
	db *gorm.DB
}

func NewProductDetailRepository(db *gorm.DB) ProductDetailRepository {
	return &productDetailRepository{db: db}
}

func (r *productDetailRepository) WithTx(tx *gorm.DB) ProductDetailRepository {
	return &productDetailRepository{db: tx}
}

func (r *productDetailRepository) Create(ctx context.Context, detail *model.ProductDetail) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"product_id":  detail.ProductID,
		"sku_variant": detail.SkuVariant,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(detail).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id":  detail.ProductID,
			"sku_variant": detail.SkuVariant,
		})
		return err
	}

	logger.Debug("Product variant created in database", map[string]interface{}{
		"variant_id":  detail.ID,
		"sku_variant": detail.SkuVariant,
	})
	return nil
}

func (r *productDetailRepository) Update(ctx context.Context, detail *model.ProductDetail) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": detail.ID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(detail).Error; err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id":  detail.ID,
			"sku_variant": detail.SkuVariant,
		})
		return err
	}
	return nil
}

func (r *productDetailRepository) FindByID(ctx context.Context, id uint) (*model.ProductDetail, error) {
	var detail model.ProductDetail
	if err := r.db.WithContext(ctx).First(&detail, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find product variant by ID", err, map[string]interface{}{
				"variant_id": id,
			})
		}
		return nil, err
	}
	return &detail, nil
}

func (r *productDetailRepository) FindByIDWithTrashed(ctx context.Context, id uint) (*model.ProductDetail, error) {
	var detail model.ProductDetail
	if err := r.db.WithContext(ctx).Unscoped().First(&detail, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find product variant including deleted", err, map[string]interface{}{
				"variant_id": id,
			})
		}
		return nil, err
	}
	return &detail, nil
}

func (r *productDetailRepository) FindByProductID(ctx context.Context, productID uint) ([]model.ProductDetail, error) {
	logger.Debug("Finding product variants by product", map[string]interface{}{
		"product_id": productID,
	})

	var details []model.ProductDetail
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&details).Error
	if err != nil {
		logger.Error("Failed to find product variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Product variants found", map[string]interface{}{
		"product_id": productID,
		"count":      len(details),
	})
	return details, nil
}

// UpdateIdentifier writes only the variant_identifier column.
func (r *productDetailRepository) UpdateIdentifier(ctx context.Context, id uint, identifier string) error {
	err := r.db.WithContext(ctx).Model(&model.ProductDetail{}).
		Where("id = ?", id).
		UpdateColumn("variant_identifier", identifier).Error
	if err != nil {
		logger.Error("Failed to update variant identifier", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	logger.Debug("Variant identifier updated", map[string]interface{}{
		"variant_id": id,
		"identifier": identifier,
	})
	return nil
}

// SkuVariantExists includes soft-deleted variants because the unique index
// does too. A non-zero excludeID ignores that variant's own row.
func (r *productDetailRepository) SkuVariantExists(ctx context.Context, sku string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Unscoped().Model(&model.ProductDetail{}).
		Where("sku_variant = ?", sku)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check sku variant", err, map[string]interface{}{
			"sku_variant": sku,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *productDetailRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Soft deleting product variant", map[string]interface{}{
		"variant_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.ProductDetail{}, id).Error; err != nil {
		logger.Error("Failed to soft delete product variant", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}

func (r *productDetailRepository) ForceDelete(ctx context.Context, id uint) error {
	logger.Debug("Permanently deleting product variant", map[string]interface{}{
		"variant_id": id,
	})

	if err := r.db.WithContext(ctx).Unscoped().Delete(&model.ProductDetail{}, id).Error; err != nil {
		logger.Error("Failed to permanently delete product variant", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}

// CountReferences counts cart and order lines that point at the variant,
// including soft-deleted order lines.
func (r *productDetailRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var carts, orders int64

	if err := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("product_detail_id = ?", id).Count(&carts).Error; err != nil {
		logger.Error("Failed to count cart references", err, map[string]interface{}{
			"variant_id": id,
		})
		return 0, err
	}

	if err := r.db.WithContext(ctx).Unscoped().Model(&model.OrderItem{}).
		Where("product_detail_id = ?", id).Count(&orders).Error; err != nil {
		logger.Error("Failed to count order references", err, map[string]interface{}{
			"variant_id": id,
		})
		return 0, err
	}

	return carts + orders, nil
}

func (r *productDetailRepository) FindInBatches(ctx context.Context, batchSize int, fn func(batch []model.ProductDetail) error) error {
	var batch []model.ProductDetail
	result := r.db.WithContext(ctx).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, n int) error {
			return fn(batch)
		})
	if result.Error != nil {
		logger.Error("Failed to iterate product variants", result.Error, map[string]interface{}{
			"batch_size": batchSize,
		})
		return result.Error
	}
	return nil
}
