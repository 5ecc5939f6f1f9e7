package service

import (
	"context"
	"fmt"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type CategoryAttributeService interface {
	AssignAttributeToCategory(ctx context.Context, attributeID, categoryID uint, isRequired bool, sortOrder int) (*model.CategoryAttribute, error)
	DetachAttributeFromCategory(ctx context.Context, attributeID, categoryID uint) error
	ListAttributesForCategory(ctx context.Context, categoryID uint) ([]model.BoundAttribute, error)
	ListEffectiveAttributesForProduct(ctx context.Context, productID uint) ([]model.BoundAttribute, error)
}

type categoryAttributeService struct {
	attributeRepo  repository.AttributeRepository
	categoryRepo   repository.CategoryRepository
	bindingRepo    repository.CategoryAttributeRepository
	productRepo    repository.ProductRepository
	cache          CategoryAttributeCache
	inheritParents bool
}

func NewCategoryAttributeService(
	attributeRepo repository.AttributeRepository,
	categoryRepo repository.CategoryRepository,
	bindingRepo repository.CategoryAttributeRepository,
	productRepo repository.ProductRepository,
	cache CategoryAttributeCache,
	inheritParents bool,
) CategoryAttributeService {
	return &categoryAttributeService{
		attributeRepo:  attributeRepo,
		categoryRepo:   categoryRepo,
		bindingRepo:    bindingRepo,
		productRepo:    productRepo,
		cache:          cacheOrNoop(cache),
		inheritParents: inheritParents,
	}
}

// AssignAttributeToCategory creates the binding or overwrites its settings.
// Repeating the call with the same arguments leaves one identical row.
func (s *categoryAttributeService) AssignAttributeToCategory(ctx context.Context, attributeID, categoryID uint, isRequired bool, sortOrder int) (*model.CategoryAttribute, error) {
	attribute, err := s.attributeRepo.FindByID(ctx, attributeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("assign attribute %d: %w", attributeID, err)
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("assign attribute to category %d: %w", categoryID, err)
	}

	binding := &model.CategoryAttribute{
		CategoryID:  categoryID,
		AttributeID: attributeID,
		IsRequired:  isRequired,
		SortOrder:   sortOrder,
	}
	if err := s.bindingRepo.Upsert(ctx, binding); err != nil {
		return nil, fmt.Errorf("assign attribute %d to category %d: %w", attributeID, categoryID, err)
	}
	binding.Attribute = *attribute

	s.invalidate(ctx, categoryID)

	logger.Info("Attribute assigned to category", map[string]interface{}{
		"attribute_id": attributeID,
		"category_id":  categoryID,
		"is_required":  isRequired,
		"sort_order":   sortOrder,
	})
	return binding, nil
}

func (s *categoryAttributeService) DetachAttributeFromCategory(ctx context.Context, attributeID, categoryID uint) error {
	if err := s.bindingRepo.Delete(ctx, categoryID, attributeID); err != nil {
		return fmt.Errorf("detach attribute %d from category %d: %w", attributeID, categoryID, err)
	}

	s.invalidate(ctx, categoryID)

	logger.Info("Attribute detached from category", map[string]interface{}{
		"attribute_id": attributeID,
		"category_id":  categoryID,
	})
	return nil
}

func (s *categoryAttributeService) ListAttributesForCategory(ctx context.Context, categoryID uint) ([]model.BoundAttribute, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("list attributes of category %d: %w", categoryID, err)
	}
	return s.boundAttributes(ctx, categoryID)
}

// ListEffectiveAttributesForProduct walks the product's categories by id.
// Each contributes its own bindings, then its direct parent's when
// inheritance is on. The first occurrence of an attribute wins and the
// result keeps that discovery order.
func (s *categoryAttributeService) ListEffectiveAttributesForProduct(ctx context.Context, productID uint) ([]model.BoundAttribute, error) {
	product, err := s.productRepo.FindByIDWithCategories(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("list effective attributes of product %d: %w", productID, err)
	}

	seen := make(map[uint]struct{})
	effective := make([]model.BoundAttribute, 0)
	collect := func(categoryID uint) error {
		attributes, err := s.boundAttributes(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, attribute := range attributes {
			if _, ok := seen[attribute.Attribute.ID]; ok {
				continue
			}
			seen[attribute.Attribute.ID] = struct{}{}
			effective = append(effective, attribute)
		}
		return nil
	}

	for _, category := range product.Categories {
		if err := collect(category.ID); err != nil {
			return nil, err
		}
		if s.inheritParents && category.ParentID != nil {
			if err := collect(*category.ParentID); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Effective attributes resolved", map[string]interface{}{
		"product_id":       productID,
		"categories_count": len(product.Categories),
		"attributes_count": len(effective),
	})
	return effective, nil
}

func (s *categoryAttributeService) boundAttributes(ctx context.Context, categoryID uint) ([]model.BoundAttribute, error) {
	cached, ok, err := s.cache.GetCategoryAttributes(ctx, categoryID)
	if err != nil {
		logger.Warn("Category attribute cache read failed", map[string]interface{}{
			"category_id": categoryID,
			"error":       err.Error(),
		})
	} else if ok {
		return cached, nil
	}

	bindings, err := s.bindingRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list attributes of category %d: %w", categoryID, err)
	}

	attributes := make([]model.BoundAttribute, 0, len(bindings))
	for _, binding := range bindings {
		attributes = append(attributes, model.NewBoundAttribute(binding))
	}

	if err := s.cache.SetCategoryAttributes(ctx, categoryID, attributes); err != nil {
		logger.Warn("Category attribute cache write failed", map[string]interface{}{
			"category_id": categoryID,
			"error":       err.Error(),
		})
	}
	return attributes, nil
}

func (s *categoryAttributeService) invalidate(ctx context.Context, categoryID uint) {
	if err := s.cache.InvalidateCategories(ctx, categoryID); err != nil {
		logger.Warn("Failed to invalidate category attribute cache", map[string]interface{}{
			"category_id": categoryID,
			"error":       err.Error(),
		})
	}
}
