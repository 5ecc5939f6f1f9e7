package service

import (
	"fmt"

	apperrors "github.com/ikkim/catalog-backend/internal/errors"
)

var (
	ErrAttributeNotFound = fmt.Errorf("%w: attribute", apperrors.ErrNotFound)
	ErrCategoryNotFound  = fmt.Errorf("%w: category", apperrors.ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("%w: product", apperrors.ErrNotFound)
	ErrVariantNotFound   = fmt.Errorf("%w: product variant", apperrors.ErrNotFound)

	ErrAttributeInUse = fmt.Errorf("%w: attribute is bound to categories or has values", apperrors.ErrIntegrity)
	ErrCategoryInUse  = fmt.Errorf("%w: category has attribute bindings or children", apperrors.ErrIntegrity)
	ErrVariantInUse   = fmt.Errorf("%w: variant is referenced by cart or order items", apperrors.ErrIntegrity)

	ErrSlugConflict = fmt.Errorf("%w: slug already in use", apperrors.ErrConflict)
	ErrSkuConflict  = fmt.Errorf("%w: sku_variant already in use", apperrors.ErrConflict)
)
