package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantAttributeValueRepository interface {
	WithTx(tx *gorm.DB) VariantAttributeValueRepository
	Upsert(ctx context.Context, value *model.VariantAttributeValue) error
	FindByVariantAndAttribute(ctx context.Context, variantID, attributeID uint) (*model.VariantAttributeValue, error)
	FindByVariant(ctx context.Context, variantID uint) ([]model.VariantAttributeValue, error)
	Delete(ctx context.Context, variantID, attributeID uint) error
	DeleteByVariant(ctx context.Context, variantID uint) error
}

type variantAttributeValueRepository struct {
	db *gorm.DB
}

func NewVariantAttributeValueRepository(db *gorm.DB) VariantAttributeValueRepository {
	return &variantAttributeValueRepository{db: db}
}

func (r *variantAttributeValueRepository) WithTx(tx *gorm.DB) VariantAttributeValueRepository {
	return &variantAttributeValueRepository{db: tx}
}

// Upsert keeps at most one row per (variant, attribute); a second write
// replaces value and value_type in place.
func (r *variantAttributeValueRepository) Upsert(ctx context.Context, value *model.VariantAttributeValue) error {
	logger.Debug("Upserting variant attribute value", map[string]interface{}{
		"variant_id":   value.ProductDetailID,
		"attribute_id": value.AttributeID,
		"value_type":   value.ValueType,
	})

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_detail_id"}, {Name: "attribute_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "updated_at"}),
		}).
		Create(value).Error
	if err != nil {
		logger.Error("Failed to upsert variant attribute value", err, map[string]interface{}{
			"variant_id":   value.ProductDetailID,
			"attribute_id": value.AttributeID,
		})
		return err
	}
	return nil
}

func (r *variantAttributeValueRepository) FindByVariantAndAttribute(ctx context.Context, variantID, attributeID uint) (*model.VariantAttributeValue, error) {
	var value model.VariantAttributeValue
	err := r.db.WithContext(ctx).
		Where("product_detail_id = ? AND attribute_id = ?", variantID, attributeID).
		First(&value).Error
	if err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find variant attribute value", err, map[string]interface{}{
				"variant_id":   variantID,
				"attribute_id": attributeID,
			})
		}
		return nil, err
	}
	return &value, nil
}

func (r *variantAttributeValueRepository) FindByVariant(ctx context.Context, variantID uint) ([]model.VariantAttributeValue, error) {
	logger.Debug("Finding attribute values by variant", map[string]interface{}{
		"variant_id": variantID,
	})

	var values []model.VariantAttributeValue
	err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("product_detail_id = ?", variantID).
		Order("id ASC").
		Find(&values).Error
	if err != nil {
		logger.Error("Failed to find attribute values", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return values, nil
}

func (r *variantAttributeValueRepository) Delete(ctx context.Context, variantID, attributeID uint) error {
	logger.Debug("Deleting variant attribute value", map[string]interface{}{
		"variant_id":   variantID,
		"attribute_id": attributeID,
	})

	err := r.db.WithContext(ctx).
		Where("product_detail_id = ? AND attribute_id = ?", variantID, attributeID).
		Delete(&model.VariantAttributeValue{}).Error
	if err != nil {
		logger.Error("Failed to delete variant attribute value", err, map[string]interface{}{
			"variant_id":   variantID,
			"attribute_id": attributeID,
		})
		return err
	}
	return nil
}

func (r *variantAttributeValueRepository) DeleteByVariant(ctx context.Context, variantID uint) error {
	err := r.db.WithContext(ctx).
		Where("product_detail_id = ?", variantID).
		Delete(&model.VariantAttributeValue{}).Error
	if err != nil {
		logger.Error("Failed to delete attribute values of variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return err
	}
	return nil
}
