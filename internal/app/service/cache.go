package service

import (
	"context"

	"github.com/ikkim/catalog-backend/internal/app/model"
)

// CategoryAttributeCache holds resolved attribute lists per category. Cache
// failures never fail a request; they are logged and the database is used.
type CategoryAttributeCache interface {
	GetCategoryAttributes(ctx context.Context, categoryID uint) ([]model.BoundAttribute, bool, error)
	SetCategoryAttributes(ctx context.Context, categoryID uint, attributes []model.BoundAttribute) error
	InvalidateCategories(ctx context.Context, categoryIDs ...uint) error
}

type noopCache struct{}

func (noopCache) GetCategoryAttributes(context.Context, uint) ([]model.BoundAttribute, bool, error) {
	return nil, false, nil
}

func (noopCache) SetCategoryAttributes(context.Context, uint, []model.BoundAttribute) error {
	return nil
}

func (noopCache) InvalidateCategories(context.Context, ...uint) error {
	return nil
}

func cacheOrNoop(cache CategoryAttributeCache) CategoryAttributeCache {
	if cache == nil {
		return noopCache{}
	}
	return cache
}
