package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

type AttributeInput struct {
	Name                string              `json:"name" validate:"required,max=255"`
	Slug                string              `json:"slug" validate:"omitempty,max=255"`
	Type                model.AttributeType `json:"type" validate:"omitempty,oneof=text textarea number boolean select multiselect color date json"`
	Options             []string            `json:"options"`
	IsRequired          bool                `json:"is_required"`
	IsFilterable        bool                `json:"is_filterable"`
	IsVariant           bool                `json:"is_variant"`
	IsVisibleOnFrontend bool                `json:"is_visible_on_frontend"`
	SortOrder           int                 `json:"sort_order" validate:"gte=0"`
}

type AttributeService interface {
	CreateAttribute(ctx context.Context, input AttributeInput) (*model.AttributeDefinition, error)
	UpdateAttribute(ctx context.Context, id uint, input AttributeInput) (*model.AttributeDefinition, error)
	GetAttribute(ctx context.Context, id uint) (*model.AttributeDefinition, error)
	GetAttributeBySlug(ctx context.Context, slug string) (*model.AttributeDefinition, error)
	ListAttributes(ctx context.Context, filter repository.AttributeFilter) ([]model.AttributeDefinition, error)
	DeleteAttribute(ctx context.Context, id uint) error
}

type attributeService struct {
	attributeRepo repository.AttributeRepository
	bindingRepo   repository.CategoryAttributeRepository
	cache         CategoryAttributeCache
}

func NewAttributeService(
	attributeRepo repository.AttributeRepository,
	bindingRepo repository.CategoryAttributeRepository,
	cache CategoryAttributeCache,
) AttributeService {
	return &attributeService{
		attributeRepo: attributeRepo,
		bindingRepo:   bindingRepo,
		cache:         cacheOrNoop(cache),
	}
}

func (s *attributeService) CreateAttribute(ctx context.Context, input AttributeInput) (*model.AttributeDefinition, error) {
	if err := validateInput(input); err != nil {
		logger.Warn("Rejected attribute input", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	attribute := &model.AttributeDefinition{}
	applyAttributeInput(attribute, input)

	if err := s.attributeRepo.Create(ctx, attribute); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlugConflict, attribute.Slug)
		}
		return nil, fmt.Errorf("create attribute: %w", err)
	}

	logger.Info("Attribute created", map[string]interface{}{
		"attribute_id": attribute.ID,
		"slug":         attribute.Slug,
		"type":         attribute.Type,
	})
	return attribute, nil
}

func (s *attributeService) UpdateAttribute(ctx context.Context, id uint, input AttributeInput) (*model.AttributeDefinition, error) {
	if err := validateInput(input); err != nil {
		logger.Warn("Rejected attribute input", map[string]interface{}{
			"attribute_id": id,
			"error":        err.Error(),
		})
		return nil, err
	}

	attribute, err := s.GetAttribute(ctx, id)
	if err != nil {
		return nil, err
	}

	previousSlug := attribute.Slug
	applyAttributeInput(attribute, input)
	if attribute.Slug == "" {
		attribute.Slug = previousSlug
	}

	if err := s.attributeRepo.Update(ctx, attribute); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlugConflict, attribute.Slug)
		}
		return nil, fmt.Errorf("update attribute %d: %w", id, err)
	}

	s.invalidateBoundCategories(ctx, id)

	logger.Info("Attribute updated", map[string]interface{}{
		"attribute_id": attribute.ID,
		"slug":         attribute.Slug,
	})
	return attribute, nil
}

func (s *attributeService) GetAttribute(ctx context.Context, id uint) (*model.AttributeDefinition, error) {
	attribute, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("get attribute %d: %w", id, err)
	}
	return attribute, nil
}

func (s *attributeService) GetAttributeBySlug(ctx context.Context, slug string) (*model.AttributeDefinition, error) {
	attribute, err := s.attributeRepo.FindBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("get attribute %q: %w", slug, err)
	}
	return attribute, nil
}

func (s *attributeService) ListAttributes(ctx context.Context, filter repository.AttributeFilter) ([]model.AttributeDefinition, error) {
	attributes, err := s.attributeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return attributes, nil
}

// DeleteAttribute refuses while any binding or value references the
// attribute and leaves every row untouched in that case.
func (s *attributeService) DeleteAttribute(ctx context.Context, id uint) error {
	if _, err := s.GetAttribute(ctx, id); err != nil {
		return err
	}

	bindings, values, err := s.attributeRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("delete attribute %d: %w", id, err)
	}
	if bindings > 0 || values > 0 {
		logger.Warn("Attribute deletion rejected", map[string]interface{}{
			"attribute_id": id,
			"bindings":     bindings,
			"values":       values,
		})
		return ErrAttributeInUse
	}

	if err := s.attributeRepo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrAttributeInUse
		}
		return fmt.Errorf("delete attribute %d: %w", id, err)
	}

	logger.Info("Attribute deleted", map[string]interface{}{
		"attribute_id": id,
	})
	return nil
}

func (s *attributeService) invalidateBoundCategories(ctx context.Context, attributeID uint) {
	categoryIDs, err := s.bindingRepo.CategoryIDsForAttribute(ctx, attributeID)
	if err != nil || len(categoryIDs) == 0 {
		return
	}
	if err := s.cache.InvalidateCategories(ctx, categoryIDs...); err != nil {
		logger.Warn("Failed to invalidate category attribute cache", map[string]interface{}{
			"attribute_id": attributeID,
			"error":        err.Error(),
		})
	}
}

func applyAttributeInput(attribute *model.AttributeDefinition, input AttributeInput) {
	attribute.Name = input.Name
	attribute.Slug = slug.Make(input.Slug)
	attribute.Type = input.Type
	if attribute.Type == "" {
		attribute.Type = model.AttributeTypeText
	}
	attribute.Options = input.Options
	attribute.IsRequired = input.IsRequired
	attribute.IsFilterable = input.IsFilterable
	attribute.IsVariant = input.IsVariant
	attribute.IsVisibleOnFrontend = input.IsVisibleOnFrontend
	attribute.SortOrder = input.SortOrder
}
