package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/catalog-backend/internal/app/model"
	"github.com/ikkim/catalog-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const categoryAttributesKey = "catalog:category:%d:attributes"

// AttributeCache stores the resolved attribute list of each category as
// JSON under its own key.
type AttributeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttributeCache(client *redis.Client, ttl time.Duration) *AttributeCache {
	return &AttributeCache{client: client, ttl: ttl}
}

func categoryKey(categoryID uint) string {
	return fmt.Sprintf(categoryAttributesKey, categoryID)
}

func (c *AttributeCache) GetCategoryAttributes(ctx context.Context, categoryID uint) ([]model.BoundAttribute, bool, error) {
	raw, err := c.client.Get(ctx, categoryKey(categoryID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var attributes []model.BoundAttribute
	if err := json.Unmarshal(raw, &attributes); err != nil {
		// Unreadable entries are dropped and rebuilt from the database.
		c.client.Del(ctx, categoryKey(categoryID))
		return nil, false, fmt.Errorf("decode cached attributes of category %d: %w", categoryID, err)
	}

	logger.Debug("Category attributes served from cache", map[string]interface{}{
		"category_id": categoryID,
		"count":       len(attributes),
	})
	return attributes, true, nil
}

func (c *AttributeCache) SetCategoryAttributes(ctx context.Context, categoryID uint, attributes []model.BoundAttribute) error {
	raw, err := json.Marshal(attributes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoryKey(categoryID), raw, c.ttl).Err()
}

func (c *AttributeCache) InvalidateCategories(ctx context.Context, categoryIDs ...uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		keys = append(keys, categoryKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error("Failed to invalidate category attributes", err, map[string]interface{}{
			"categories": categoryIDs,
		})
		return err
	}
	return nil
}
