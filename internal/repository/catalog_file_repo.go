package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SplendidSupplies/shop_api/internal/models"
)

// CatalogFileRepository stores the catalog as a single pretty-printed JSON
// document on the local filesystem. Used in development and in any
// deployment without a hosted KV store.
type CatalogFileRepository struct {
	path string
}

// NewCatalogFileRepository constructs a file repository for the given path.
func NewCatalogFileRepository(path string) *CatalogFileRepository {
	return &CatalogFileRepository{path: path}
}

// Load reads and decodes the catalog document. A missing or unreadable file
// is an error; callers decide whether to degrade.
func (r *CatalogFileRepository) Load(ctx context.Context) (models.Catalog, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var catalog models.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return models.Catalog{}, fmt.Errorf("decode catalog file: %w", err)
	}
	normalize(&catalog)
	return catalog, nil
}

// Save encodes and writes the whole catalog document, creating the parent
// directory if needed.
func (r *CatalogFileRepository) Save(ctx context.Context, catalog models.Catalog) error {
	normalize(&catalog)
	raw, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}

// normalize replaces nil slices so the document always serializes with
// products/categories as arrays.
func normalize(c *models.Catalog) {
	if c.Products == nil {
		c.Products = []models.Product{}
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
}
