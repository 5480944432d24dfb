package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SplendidSupplies/shop_api/internal/cache"
	"github.com/SplendidSupplies/shop_api/internal/models"
)

// Keys under which the hosted KV store holds the catalog. Products and
// categories are stored as two separate JSON blobs.
const (
	productsKey   = "products"
	categoriesKey = "categories"
)

// CatalogKVRepository stores the catalog in a hosted key-value store.
// Used in production deployments where the filesystem is ephemeral.
type CatalogKVRepository struct {
	redis *cache.RedisClient
}

// NewCatalogKVRepository constructs a KV repository over the given client.
func NewCatalogKVRepository(redis *cache.RedisClient) *CatalogKVRepository {
	return &CatalogKVRepository{redis: redis}
}

// Load reads both catalog blobs. Absent keys yield an empty catalog, so a
// fresh store behaves like an empty file rather than an error.
func (r *CatalogKVRepository) Load(ctx context.Context) (models.Catalog, error) {
	catalog := models.EmptyCatalog()

	raw, err := r.redis.Get(ctx, productsKey)
	switch {
	case errors.Is(err, redis.Nil):
		// no products stored yet
	case err != nil:
		return models.Catalog{}, fmt.Errorf("read products key: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &catalog.Products); err != nil {
			return models.Catalog{}, fmt.Errorf("decode products blob: %w", err)
		}
	}

	raw, err = r.redis.Get(ctx, categoriesKey)
	switch {
	case errors.Is(err, redis.Nil):
		// no categories stored yet
	case err != nil:
		return models.Catalog{}, fmt.Errorf("read categories key: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &catalog.Categories); err != nil {
			return models.Catalog{}, fmt.Errorf("decode categories blob: %w", err)
		}
	}

	normalize(&catalog)
	return catalog, nil
}

// Save writes both catalog blobs. Writes are not atomic as a pair; a crash
// between the two leaves the last write partially applied, accepted under
// the same last-write-wins contract as the rest of the store.
func (r *CatalogKVRepository) Save(ctx context.Context, catalog models.Catalog) error {
	normalize(&catalog)

	products, err := json.Marshal(catalog.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	categories, err := json.Marshal(catalog.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	if err := r.redis.Set(ctx, productsKey, string(products), 0); err != nil {
		return fmt.Errorf("write products key: %w", err)
	}
	if err := r.redis.Set(ctx, categoriesKey, string(categories), 0); err != nil {
		return fmt.Errorf("write categories key: %w", err)
	}
	return nil
}
