package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeValueInput struct {
	AttributeID uint        `json:"attribute_id" validate:"required"`
	Value       interface{} `json:"value"`
}

type VariantAttributeService interface {
	SetAttributeValue(ctx context.Context, variantID, attributeID uint, raw interface{}) (*model.VariantAttributeValue, error)
	SetAttributeValues(ctx context.Context, variantID uint, inputs []AttributeValueInput) ([]model.VariantAttributeValue, error)
	GetAttributeValue(ctx context.Context, variantID uint, attributeSlug string) (interface{}, error)
	RemoveAttributeValue(ctx context.Context, variantID, attributeID uint) error
	ListValuesForVariant(ctx context.Context, variantID uint) ([]model.AttributeValueView, error)
	UpdateVariantIdentifier(ctx context.Context, variantID uint) (string, error)
}

type variantAttributeService struct {
	db            *gorm.DB
	detailRepo    repository.ProductDetailRepository
	attributeRepo repository.AttributeRepository
	valueRepo     repository.VariantAttributeValueRepository
}

func NewVariantAttributeService(
	db *gorm.DB,
	detailRepo repository.ProductDetailRepository,
	attributeRepo repository.AttributeRepository,
	valueRepo repository.VariantAttributeValueRepository,
) VariantAttributeService {
	return &variantAttributeService{
		db:            db,
		detailRepo:    detailRepo,
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
	}
}

// valueWriter groups the repositories that must share one transaction when
// values and the derived identifier change together.
type valueWriter struct {
	details    repository.ProductDetailRepository
	attributes repository.AttributeRepository
	values     repository.VariantAttributeValueRepository
}

func (s *variantAttributeService) writer(tx *gorm.DB) valueWriter {
	return valueWriter{
		details:    s.detailRepo.WithTx(tx),
		attributes: s.attributeRepo.WithTx(tx),
		values:     s.valueRepo.WithTx(tx),
	}
}

func (w valueWriter) variant(ctx context.Context, variantID uint) (*model.ProductDetail, error) {
	detail, err := w.details.FindByID(ctx, variantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("get variant %d: %w", variantID, err)
	}
	return detail, nil
}

func (w valueWriter) write(ctx context.Context, variantID, attributeID uint, raw interface{}) (*model.VariantAttributeValue, error) {
	attribute, err := w.attributes.FindByID(ctx, attributeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("get attribute %d: %w", attributeID, err)
	}

	text, valueType, err := model.ClassifyValue(raw)
	if err != nil {
		return nil, err
	}

	value := &model.VariantAttributeValue{
		ProductDetailID: variantID,
		AttributeID:     attributeID,
		Value:           text,
		ValueType:       valueType,
	}
	if err := w.values.Upsert(ctx, value); err != nil {
		return nil, fmt.Errorf("set attribute %d on variant %d: %w", attributeID, variantID, err)
	}

	stored, err := w.values.FindByVariantAndAttribute(ctx, variantID, attributeID)
	if err != nil {
		return nil, fmt.Errorf("reload attribute %d on variant %d: %w", attributeID, variantID, err)
	}
	stored.Attribute = *attribute
	return stored, nil
}

// refreshIdentifier recomputes the variant's label from its stored values
// and persists it when it changed.
func (w valueWriter) refreshIdentifier(ctx context.Context, detail *model.ProductDetail) (bool, error) {
	values, err := w.values.FindByVariant(ctx, detail.ID)
	if err != nil {
		return false, fmt.Errorf("load values of variant %d: %w", detail.ID, err)
	}

	identifier := BuildVariantIdentifier(values, detail.Color)
	if identifier == detail.VariantIdentifier {
		return false, nil
	}
	if err := w.details.UpdateIdentifier(ctx, detail.ID, identifier); err != nil {
		return false, fmt.Errorf("update identifier of variant %d: %w", detail.ID, err)
	}
	detail.VariantIdentifier = identifier
	return true, nil
}

func (s *variantAttributeService) SetAttributeValue(ctx context.Context, variantID, attributeID uint, raw interface{}) (*model.VariantAttributeValue, error) {
	values, err := s.SetAttributeValues(ctx, variantID, []AttributeValueInput{
		{AttributeID: attributeID, Value: raw},
	})
	if err != nil {
		return nil, err
	}
	return &values[0], nil
}

// SetAttributeValues writes the batch in one transaction. Any failure rolls
// back every value of the batch and the identifier stays as it was.
func (s *variantAttributeService) SetAttributeValues(ctx context.Context, variantID uint, inputs []AttributeValueInput) ([]model.VariantAttributeValue, error) {
	logger.Debug("Setting variant attribute values", map[string]interface{}{
		"variant_id": variantID,
		"count":      len(inputs),
	})

	written := make([]model.VariantAttributeValue, 0, len(inputs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w := s.writer(tx)

		detail, err := w.variant(ctx, variantID)
		if err != nil {
			return err
		}

		for _, input := range inputs {
			value, err := w.write(ctx, variantID, input.AttributeID, input.Value)
			if err != nil {
				return err
			}
			written = append(written, *value)
		}

		_, err = w.refreshIdentifier(ctx, detail)
		return err
	})
	if err != nil {
		logger.Warn("Variant attribute values not saved", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Variant attribute values saved", map[string]interface{}{
		"variant_id": variantID,
		"count":      len(written),
	})
	return written, nil
}

// GetAttributeValue returns nil without error when the slug is unknown or
// the variant has no value for it.
func (s *variantAttributeService) GetAttributeValue(ctx context.Context, variantID uint, attributeSlug string) (interface{}, error) {
	attribute, err := s.attributeRepo.FindBySlug(ctx, attributeSlug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute %q: %w", attributeSlug, err)
	}

	value, err := s.valueRepo.FindByVariantAndAttribute(ctx, variantID, attribute.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %q of variant %d: %w", attributeSlug, variantID, err)
	}
	return value.TypedValue(), nil
}

func (s *variantAttributeService) RemoveAttributeValue(ctx context.Context, variantID, attributeID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w := s.writer(tx)

		detail, err := w.variant(ctx, variantID)
		if err != nil {
			return err
		}
		if err := w.values.Delete(ctx, variantID, attributeID); err != nil {
			return fmt.Errorf("remove attribute %d from variant %d: %w", attributeID, variantID, err)
		}
		_, err = w.refreshIdentifier(ctx, detail)
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("Variant attribute value removed", map[string]interface{}{
		"variant_id":   variantID,
		"attribute_id": attributeID,
	})
	return nil
}

// ListValuesForVariant orders values by attribute sort_order, then name.
func (s *variantAttributeService) ListValuesForVariant(ctx context.Context, variantID uint) ([]model.AttributeValueView, error) {
	w := s.writer(s.db)
	if _, err := w.variant(ctx, variantID); err != nil {
		return nil, err
	}

	values, err := s.valueRepo.FindByVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("list values of variant %d: %w", variantID, err)
	}

	sort.SliceStable(values, func(i, j int) bool {
		a, b := values[i].Attribute, values[j].Attribute
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})

	views := make([]model.AttributeValueView, 0, len(values))
	for i := range values {
		views = append(views, model.AttributeValueView{
			Attribute: values[i].Attribute,
			Value:     values[i].TypedValue(),
			ValueType: values[i].ValueType,
		})
	}
	return views, nil
}

func (s *variantAttributeService) UpdateVariantIdentifier(ctx context.Context, variantID uint) (string, error) {
	w := s.writer(s.db)

	detail, err := w.variant(ctx, variantID)
	if err != nil {
		return "", err
	}
	if _, err := w.refreshIdentifier(ctx, detail); err != nil {
		return "", err
	}
	return detail.VariantIdentifier, nil
}
