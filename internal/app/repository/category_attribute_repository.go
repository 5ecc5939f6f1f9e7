package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryAttributeRepository interface {
	WithTx(tx *gorm.DB) CategoryAttributeRepository
	Upsert(ctx context.Context, binding *model.CategoryAttribute) error
	Delete(ctx context.Context, categoryID, attributeID uint) error
	FindByCategory(ctx context.Context, categoryID uint) ([]model.CategoryAttribute, error)
	CategoryIDsForAttribute(ctx context.Context, attributeID uint) ([]uint, error)
}

type categoryAttributeRepository struct {
	db *gorm.DB
}

func NewCategoryAttributeRepository(db *gorm.DB) CategoryAttributeRepository {
	return &categoryAttributeRepository{db: db}
}

func (r *categoryAttributeRepository) WithTx(tx *gorm.DB) CategoryAttributeRepository {
	return &categoryAttributeRepository{db: tx}
}

// Upsert inserts the binding or overwrites is_required and sort_order of the
// existing row. Other bindings of the category are never touched.
func (r *categoryAttributeRepository) Upsert(ctx context.Context, binding *model.CategoryAttribute) error {
	logger.Debug("Upserting category attribute binding", map[string]interface{}{
		"category_id":  binding.CategoryID,
		"attribute_id": binding.AttributeID,
		"is_required":  binding.IsRequired,
		"sort_order":   binding.SortOrder,
	})

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "attribute_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_required", "sort_order", "updated_at"}),
		}).
		Create(binding).Error
	if err != nil {
		logger.Error("Failed to upsert category attribute binding", err, map[string]interface{}{
			"category_id":  binding.CategoryID,
			"attribute_id": binding.AttributeID,
		})
		return err
	}
	return nil
}

func (r *categoryAttributeRepository) Delete(ctx context.Context, categoryID, attributeID uint) error {
	logger.Debug("Deleting category attribute binding", map[string]interface{}{
		"category_id":  categoryID,
		"attribute_id": attributeID,
	})

	err := r.db.WithContext(ctx).
		Where("category_id = ? AND attribute_id = ?", categoryID, attributeID).
		Delete(&model.CategoryAttribute{}).Error
	if err != nil {
		logger.Error("Failed to delete category attribute binding", err, map[string]interface{}{
			"category_id":  categoryID,
			"attribute_id": attributeID,
		})
		return err
	}
	return nil
}

func (r *categoryAttributeRepository) FindByCategory(ctx context.Context, categoryID uint) ([]model.CategoryAttribute, error) {
	logger.Debug("Finding attribute bindings by category", map[string]interface{}{
		"category_id": categoryID,
	})

	var bindings []model.CategoryAttribute
	err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("category_id = ?", categoryID).
		Order("sort_order ASC").
		Order("attribute_id ASC").
		Find(&bindings).Error
	if err != nil {
		logger.Error("Failed to find attribute bindings", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}

	logger.Debug("Attribute bindings found", map[string]interface{}{
		"category_id": categoryID,
		"count":       len(bindings),
	})
	return bindings, nil
}

func (r *categoryAttributeRepository) CategoryIDsForAttribute(ctx context.Context, attributeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.CategoryAttribute{}).
		Where("attribute_id = ?", attributeID).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error
	if err != nil {
		logger.Error("Failed to list categories bound to attribute", err, map[string]interface{}{
			"attribute_id": attributeID,
		})
		return nil, err
	}
	return ids, nil
}
