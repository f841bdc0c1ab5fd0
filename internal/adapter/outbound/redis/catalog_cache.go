package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	catalogKeyPrefix     = "carzone:catalog:"
	productKeyPrefix     = catalogKeyPrefix + "product:"
	categoriesKey        = catalogKeyPrefix + "categories"
	catalogFlushScanSize = 200
)

// catalogCache implements outbound.CatalogCachePort. Misses return (nil, nil).
type catalogCache struct {
	client redis.UniversalClient
}

// NewCatalogCache creates a new catalog cache adapter.
func NewCatalogCache(client redis.UniversalClient) outbound.CatalogCachePort {
	return &catalogCache{client: client}
}

func (c *catalogCache) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	found, err := c.get(ctx, productKeyPrefix+id.String(), &product)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

func (c *catalogCache) SetProduct(ctx context.Context, product *model.Product, ttl time.Duration) error {
	return c.set(ctx, productKeyPrefix+product.ID.String(), product, ttl)
}

func (c *catalogCache) GetCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	found, err := c.get(ctx, categoriesKey, &categories)
	if err != nil || !found {
		return nil, err
	}
	return categories, nil
}

func (c *catalogCache) SetCategories(ctx context.Context, categories []*model.Category, ttl time.Duration) error {
	return c.set(ctx, categoriesKey, categories, ttl)
}

func (c *catalogCache) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKeyPrefix + id.String()
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *catalogCache) InvalidateCategories(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}

func (c *catalogCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, catalogKeyPrefix+"*", catalogFlushScanSize).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= catalogFlushScanSize {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (c *catalogCache) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A stale encoding is a miss.
		c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *catalogCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

var _ outbound.CatalogCachePort = (*catalogCache)(nil)
