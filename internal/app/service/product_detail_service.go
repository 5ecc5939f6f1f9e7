package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/ikkim/catalog-backend/pkg/util"
	"gorm.io/gorm"
)

const defaultReindexBatchSize = 200

type VariantInput struct {
	Size            string                `json:"size" validate:"max=100"`
	Color           string                `json:"color" validate:"max=100"`
	Price           float64               `json:"price" validate:"gte=0"`
	Discount        float64               `json:"discount" validate:"gte=0"`
	Stock           int                   `json:"stock" validate:"gte=0"`
	MinStockAlert   int                   `json:"min_stock_alert" validate:"gte=0"`
	SkuVariant      string                `json:"sku_variant" validate:"max=150"`
	AttributeValues []AttributeValueInput `json:"attribute_values" validate:"dive"`
}

// VariantUpdateInput changes only the fields that are set.
type VariantUpdateInput struct {
	Size          *string  `json:"size" validate:"omitempty,max=100"`
	Color         *string  `json:"color" validate:"omitempty,max=100"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Discount      *float64 `json:"discount" validate:"omitempty,gte=0"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	MinStockAlert *int     `json:"min_stock_alert" validate:"omitempty,gte=0"`
	SkuVariant    *string  `json:"sku_variant" validate:"omitempty,max=150"`
}

type ProductDetailServiceConfig struct {
	SkuMaxAttempts   int
	ReindexBatchSize int
}

type ProductDetailService interface {
	CreateVariant(ctx context.Context, productID uint, input VariantInput) (*model.ProductDetail, error)
	UpdateVariant(ctx context.Context, variantID uint, input VariantUpdateInput) (*model.ProductDetail, error)
	GetVariant(ctx context.Context, variantID uint) (*model.ProductDetail, error)
	ListVariantsForProduct(ctx context.Context, productID uint) ([]model.ProductDetail, error)
	DeleteVariant(ctx context.Context, variantID uint) error
	ForceDeleteVariant(ctx context.Context, variantID uint) error
	GenerateSkuVariant(ctx context.Context, baseSku, size, color string) (string, error)
	RegenerateAllIdentifiers(ctx context.Context, batchSize int) (int, error)
}

type productDetailService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	detailRepo    repository.ProductDetailRepository
	attributeRepo repository.AttributeRepository
	valueRepo     repository.VariantAttributeValueRepository
	random        util.RandomSource
	cfg           ProductDetailServiceConfig
}

func NewProductDetailService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	detailRepo repository.ProductDetailRepository,
	attributeRepo repository.AttributeRepository,
	valueRepo repository.VariantAttributeValueRepository,
	random util.RandomSource,
	cfg ProductDetailServiceConfig,
) ProductDetailService {
	if random == nil {
		random = util.NewRandomSource()
	}
	if cfg.SkuMaxAttempts < 1 {
		cfg.SkuMaxAttempts = 1
	}
	if cfg.ReindexBatchSize < 1 {
		cfg.ReindexBatchSize = defaultReindexBatchSize
	}
	return &productDetailService{
		db:            db,
		productRepo:   productRepo,
		detailRepo:    detailRepo,
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
		random:        random,
		cfg:           cfg,
	}
}

func (s *productDetailService) writer(tx *gorm.DB) valueWriter {
	return valueWriter{
		details:    s.detailRepo.WithTx(tx),
		attributes: s.attributeRepo.WithTx(tx),
		values:     s.valueRepo.WithTx(tx),
	}
}

// withSkuRetry runs fn until it stops failing on a unique violation. The
// attempt number is passed on so generated SKUs can skip suffixes that were
// lost to a concurrent insert. Explicit SKUs are tried once.
func (s *productDetailService) withSkuRetry(ctx context.Context, explicit bool, fn func(attempt int) error) error {
	attempts := s.cfg.SkuMaxAttempts
	if explicit {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(attempt)
		if err == nil || !repository.IsUniqueViolation(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warn("Variant SKU taken concurrently", map[string]interface{}{
			"attempt":  attempt + 1,
			"explicit": explicit,
		})
	}
	return fmt.Errorf("%w after %d attempt(s): %v", ErrSkuConflict, attempts, err)
}

func (s *productDetailService) CreateVariant(ctx context.Context, productID uint, input VariantInput) (*model.ProductDetail, error) {
	if err := validateInput(input); err != nil {
		logger.Warn("Rejected variant input", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("create variant of product %d: %w", productID, err)
	}

	explicitSku := strings.TrimSpace(input.SkuVariant)

	var detail *model.ProductDetail
	err = s.withSkuRetry(ctx, explicitSku != "", func(attempt int) error {
		detail = &model.ProductDetail{
			ProductID:     productID,
			Size:          input.Size,
			Color:         input.Color,
			Price:         input.Price,
			Discount:      input.Discount,
			Stock:         input.Stock,
			MinStockAlert: input.MinStockAlert,
			SkuVariant:    explicitSku,
		}

		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			w := s.writer(tx)

			if detail.SkuVariant == "" {
				sku, err := NewSkuGenerator(w.details, s.random).GenerateFrom(ctx, SkuRequest{
					BaseSku:     product.Sku,
					Size:        input.Size,
					Color:       input.Color,
					StartSuffix: attempt,
				})
				if err != nil {
					return err
				}
				detail.SkuVariant = sku
			}

			if err := w.details.Create(ctx, detail); err != nil {
				return err
			}

			for _, value := range input.AttributeValues {
				if _, err := w.write(ctx, detail.ID, value.AttributeID, value.Value); err != nil {
					return err
				}
			}

			_, err := w.refreshIdentifier(ctx, detail)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrSkuConflict) {
			err = fmt.Errorf("create variant of product %d: %w", productID, err)
		}
		return nil, err
	}

	logger.Info("Product variant created", map[string]interface{}{
		"product_id":         productID,
		"variant_id":         detail.ID,
		"sku_variant":        detail.SkuVariant,
		"variant_identifier": detail.VariantIdentifier,
	})
	return detail, nil
}

// UpdateVariant regenerates the SKU when size or color changes and the
// caller did not supply one. A supplied SKU is stored verbatim.
func (s *productDetailService) UpdateVariant(ctx context.Context, variantID uint, input VariantUpdateInput) (*model.ProductDetail, error) {
	if err := validateInput(input); err != nil {
		logger.Warn("Rejected variant input", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		return nil, err
	}

	explicitSku := ""
	if input.SkuVariant != nil {
		explicitSku = strings.TrimSpace(*input.SkuVariant)
	}

	var detail *model.ProductDetail
	err := s.withSkuRetry(ctx, explicitSku != "", func(attempt int) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			w := s.writer(tx)

			var err error
			detail, err = w.variant(ctx, variantID)
			if err != nil {
				return err
			}

			tokensChanged := (input.Size != nil && *input.Size != detail.Size) ||
				(input.Color != nil && *input.Color != detail.Color)
			applyVariantUpdate(detail, input)

			switch {
			case explicitSku != "":
				detail.SkuVariant = explicitSku
			case tokensChanged:
				product, err := s.productRepo.WithTx(tx).FindByID(ctx, detail.ProductID)
				if err != nil {
					if repository.IsNotFound(err) {
						return ErrProductNotFound
					}
					return err
				}
				sku, err := NewSkuGenerator(w.details, s.random).GenerateFrom(ctx, SkuRequest{
					BaseSku:     product.Sku,
					Size:        detail.Size,
					Color:       detail.Color,
					ExcludeID:   detail.ID,
					StartSuffix: attempt,
				})
				if err != nil {
					return err
				}
				detail.SkuVariant = sku
			}

			if err := w.details.Update(ctx, detail); err != nil {
				return err
			}

			_, err = w.refreshIdentifier(ctx, detail)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrSkuConflict) && !errors.Is(err, ErrVariantNotFound) {
			err = fmt.Errorf("update variant %d: %w", variantID, err)
		}
		return nil, err
	}

	logger.Info("Product variant updated", map[string]interface{}{
		"variant_id":  detail.ID,
		"sku_variant": detail.SkuVariant,
	})
	return detail, nil
}

func applyVariantUpdate(detail *model.ProductDetail, input VariantUpdateInput) {
	if input.Size != nil {
		detail.Size = *input.Size
	}
	if input.Color != nil {
		detail.Color = *input.Color
	}
	if input.Price != nil {
		detail.Price = *input.Price
	}
	if input.Discount != nil {
		detail.Discount = *input.Discount
	}
	if input.Stock != nil {
		detail.Stock = *input.Stock
	}
	if input.MinStockAlert != nil {
		detail.MinStockAlert = *input.MinStockAlert
	}
}

func (s *productDetailService) GetVariant(ctx context.Context, variantID uint) (*model.ProductDetail, error) {
	return s.writer(s.db).variant(ctx, variantID)
}

func (s *productDetailService) ListVariantsForProduct(ctx context.Context, productID uint) ([]model.ProductDetail, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("list variants of product %d: %w", productID, err)
	}

	details, err := s.detailRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants of product %d: %w", productID, err)
	}
	return details, nil
}

// DeleteVariant soft-deletes; the SKU stays reserved and values are kept.
func (s *productDetailService) DeleteVariant(ctx context.Context, variantID uint) error {
	if _, err := s.GetVariant(ctx, variantID); err != nil {
		return err
	}

	if err := s.detailRepo.Delete(ctx, variantID); err != nil {
		return fmt.Errorf("delete variant %d: %w", variantID, err)
	}

	logger.Info("Product variant deleted", map[string]interface{}{
		"variant_id": variantID,
	})
	return nil
}

// ForceDeleteVariant removes the variant row and its values for good. It is
// refused while cart or order lines still reference the variant.
func (s *productDetailService) ForceDeleteVariant(ctx context.Context, variantID uint) error {
	if _, err := s.detailRepo.FindByIDWithTrashed(ctx, variantID); err != nil {
		if repository.IsNotFound(err) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("force delete variant %d: %w", variantID, err)
	}

	refs, err := s.detailRepo.CountReferences(ctx, variantID)
	if err != nil {
		return fmt.Errorf("force delete variant %d: %w", variantID, err)
	}
	if refs > 0 {
		logger.Warn("Variant force delete rejected", map[string]interface{}{
			"variant_id": variantID,
			"references": refs,
		})
		return ErrVariantInUse
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.valueRepo.WithTx(tx).DeleteByVariant(ctx, variantID); err != nil {
			return err
		}
		return s.detailRepo.WithTx(tx).ForceDelete(ctx, variantID)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrVariantInUse
		}
		return fmt.Errorf("force delete variant %d: %w", variantID, err)
	}

	logger.Info("Product variant permanently deleted", map[string]interface{}{
		"variant_id": variantID,
	})
	return nil
}

func (s *productDetailService) GenerateSkuVariant(ctx context.Context, baseSku, size, color string) (string, error) {
	return NewSkuGenerator(s.detailRepo, s.random).Generate(ctx, baseSku, size, color)
}

// RegenerateAllIdentifiers recomputes the identifier of every live variant
// and returns how many changed.
func (s *productDetailService) RegenerateAllIdentifiers(ctx context.Context, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = s.cfg.ReindexBatchSize
	}

	w := s.writer(s.db)
	updated := 0
	scanned := 0
	err := s.detailRepo.FindInBatches(ctx, batchSize, func(batch []model.ProductDetail) error {
		for i := range batch {
			changed, err := w.refreshIdentifier(ctx, &batch[i])
			if err != nil {
				return err
			}
			if changed {
				updated++
			}
		}
		scanned += len(batch)
		logger.Debug("Variant identifier batch processed", map[string]interface{}{
			"scanned": scanned,
			"updated": updated,
		})
		return nil
	})
	if err != nil {
		return updated, fmt.Errorf("regenerate identifiers: %w", err)
	}

	logger.Info("Variant identifiers regenerated", map[string]interface{}{
		"scanned": scanned,
		"updated": updated,
	})
	return updated, nil
}
