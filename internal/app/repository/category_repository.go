package repository

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
	CountBindings(ctx context.Context, id uint) (int64, error)
	CountChildren(ctx context.Context, id uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":      category.Name,
		"parent_id": category.ParentID,
	})

	if err := r.db.WithContext(ctx).Omit("Parent", "Children").Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if !IsNotFound(err) {
			logger.Error("Failed to find category by ID", err, map[string]interface{}{
				"category_id": id,
			})
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) CountBindings(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CategoryAttribute{}).
		Where("category_id = ?", id).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count category bindings", err, map[string]interface{}{
			"category_id": id,
		})
	}
	return count, err
}

func (r *categoryRepository) CountChildren(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("parent_id = ?", id).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count child categories", err, map[string]interface{}{
			"category_id": id,
		})
	}
	return count, err
}
