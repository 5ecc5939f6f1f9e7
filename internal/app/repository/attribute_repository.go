package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeFilter struct {
	IsVariant    *bool
	IsFilterable *bool
	Search       string
}

type AttributeRepository interface {
	WithTx(tx *gorm.DB) AttributeRepository
	Create(ctx context.Context, attribute *model.AttributeDefinition) error
	FindByID(ctx context.Context, id uint) (*model.AttributeDefinition, error)
	FindBySlug(ctx context.Context, slug string) (*model.AttributeDefinition, error)
	FindAll(ctx context.Context, filter AttributeFilter) ([]model.AttributeDefinition, error)
	Update(ctx context.Context, attribute *model.AttributeDefinition) error
	Delete(ctx context.Context, id uint) error
	CountReferences(ctx context.Context, id uint) (bindings int64, values int64, err error)
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) WithTx(tx *gorm.DB) AttributeRepository {
	return &attributeRepository{db: tx}
}

func (r *attributeRepository) Create(ctx context.Context, attribute *model.AttributeDefinition) error {
	logger.Debug("Creating attribute in database", map[string]interface{}{
		"name": attribute.Name,
		"slug": attribute.Slug,
		"type": attribute.Type,
	})

	if err := r.db.WithContext(ctx).Create(attribute).Error; err != nil {
		logger.Error("Failed to create attribute in database", err, map[string]interface{}{
			"name": attribute.Name,
			"slug": attribute.Slug,
		})
		return err
	}

	logger.Debug("Attribute created in database", map[string]interface{}{
		"attribute_id": attribute.ID,
		"slug":         attribute.Slug,
	})
	return nil
}

func (r *attributeRepository) FindByID(ctx context.Context, id uint) (*model.AttributeDefinition, error) {
	var attribute model.AttributeDefinition
	if err := r.db.WithContext(ctx).First(&attribute, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find attribute by ID", err, map[string]interface{}{
				"attribute_id": id,
			})
		}
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepository) FindBySlug(ctx context.Context, slug string) (*model.AttributeDefinition, error) {
	var attribute model.AttributeDefinition
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&attribute).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find attribute by slug", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepository) FindAll(ctx context.Context, filter AttributeFilter) ([]model.AttributeDefinition, error) {
	logger.Debug("Finding attributes with filter", map[string]interface{}{
		"is_variant":    filter.IsVariant,
		"is_filterable": filter.IsFilterable,
		"search":        filter.Search,
	})

	query := r.db.WithContext(ctx).Model(&model.AttributeDefinition{})
	if filter.IsVariant != nil {
		query = query.Where("is_variant = ?", *filter.IsVariant)
	}
	if filter.IsFilterable != nil {
		query = query.Where("is_filterable = ?", *filter.IsFilterable)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var attributes []model.AttributeDefinition
	if err := query.Order("sort_order ASC").Order("name ASC").Find(&attributes).Error; err != nil {
		logger.Error("Failed to find attributes", err)
		return nil, err
	}

	logger.Debug("Attributes found", map[string]interface{}{
		"count": len(attributes),
	})
	return attributes, nil
}

func (r *attributeRepository) Update(ctx context.Context, attribute *model.AttributeDefinition) error {
	logger.Debug("Updating attribute in database", map[string]interface{}{
		"attribute_id": attribute.ID,
	})

	if err := r.db.WithContext(ctx).Save(attribute).Error; err != nil {
		logger.Error("Failed to update attribute in database", err, map[string]interface{}{
			"attribute_id": attribute.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting attribute from database", map[string]interface{}{
		"attribute_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.AttributeDefinition{}, id).Error; err != nil {
		logger.Error("Failed to delete attribute from database", err, map[string]interface{}{
			"attribute_id": id,
		})
		return err
	}
	return nil
}

// CountReferences counts category bindings and variant values that point at
// the attribute. Values of soft-deleted variants are counted too.
func (r *attributeRepository) CountReferences(ctx context.Context, id uint) (int64, int64, error) {
	var bindings, values int64

	if err := r.db.WithContext(ctx).Model(&model.CategoryAttribute{}).
		Where("attribute_id = ?", id).Count(&bindings).Error; err != nil {
		logger.Error("Failed to count attribute bindings", err, map[string]interface{}{
			"attribute_id": id,
		})
		return 0, 0, err
	}

	if err := r.db.WithContext(ctx).Model(&model.VariantAttributeValue{}).
		Where("attribute_id = ?", id).Count(&values).Error; err != nil {
		logger.Error("Failed to count attribute values", err, map[string]interface{}{
			"attribute_id": id,
		})
		return 0, 0, err
	}

	return bindings, values, nil
}
