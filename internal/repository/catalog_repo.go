package repository

import (
	"context"

	"github.com/SplendidSupplies/shop_api/internal/models"
)

// CatalogRepository is the storage abstraction behind the product store.
// Both backends persist the catalog as a whole document with a
// read-modify-write cycle and no concurrency token: two concurrent writers
// race and the second write overwrites the first (last write wins). That is
// an accepted limitation for a single-admin, low-traffic catalog.
type CatalogRepository interface {
	// Load reads the full catalog. Implementations return an error on
	// backend failure; the fail-soft policy for customer-facing reads lives
	// in the service layer, not here.
	Load(ctx context.Context) (models.Catalog, error)

	// Save persists the full catalog, replacing whatever was stored.
	Save(ctx context.Context, catalog models.Catalog) error
}
