package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"omitempty,max=255"`
	ParentID *uint  `json:"parent_id"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        CategoryAttributeCache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cache CategoryAttributeCache) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cacheOrNoop(cache),
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := s.GetCategory(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		Name:     input.Name,
		Slug:     slug.Make(input.Slug),
		ParentID: input.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlugConflict, category.Slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
		"parent_id":   category.ParentID,
	})
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return category, nil
}

// DeleteCategory refuses while attribute bindings or child categories still
// point at the category.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	bindings, err := s.categoryRepo.CountBindings(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	children, err := s.categoryRepo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if bindings > 0 || children > 0 {
		logger.Warn("Category deletion rejected", map[string]interface{}{
			"category_id": id,
			"bindings":    bindings,
			"children":    children,
		})
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete category %d: %w", id, err)
	}

	if err := s.cache.InvalidateCategories(ctx, id); err != nil {
		logger.Warn("Failed to invalidate category attribute cache", map[string]interface{}{
			"category_id": id,
			"error":       err.Error(),
		})
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
