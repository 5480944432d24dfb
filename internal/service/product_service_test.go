package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// stubRepo is an in-memory CatalogRepository with injectable failures.
type stubRepo struct {
	catalog models.Catalog
	loadErr error
	saveErr error
	saves   int
}

func (r *stubRepo) Load(ctx context.Context) (models.Catalog, error) {
	if r.loadErr != nil {
		return models.Catalog{}, r.loadErr
	}
	return r.catalog, nil
}

func (r *stubRepo) Save(ctx context.Context, catalog models.Catalog) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.catalog = catalog
	return nil
}

func newStubRepo() *stubRepo {
	return &stubRepo{catalog: models.EmptyCatalog()}
}

func TestCreateComputesDerivedFields(t *testing.T) {
	svc := NewProductService(newStubRepo())

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:     "Drill",
		Price:    50,
		Category: "Tools",
		Stock:    10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !p.InStock {
		t.Fatalf("expected inStock true for stock 10")
	}
	if p.CreatedAt != p.UpdatedAt {
		t.Fatalf("expected createdAt == updatedAt on create, got %s / %s", p.CreatedAt, p.UpdatedAt)
	}
	if p.LowStockThreshold != 5 {
		t.Fatalf("expected default lowStockThreshold 5, got %d", p.LowStockThreshold)
	}
	if !p.Active {
		t.Fatalf("expected active true by default")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewProductService(newStubRepo())

	cases := []CreateProductRequest{
		{Price: 5, Category: "Tools", Stock: 1},           // missing name
		{Name: "Drill", Price: 5, Stock: 1},              // missing category
		{Name: "Drill", Price: -1, Category: "Tools"},    // negative price
		{Name: "Drill", Price: 5, Category: "T", Stock: -1}, // negative stock
	}
	for i := range cases {
		if _, err := svc.Create(context.Background(), &cases[i]); !errors.Is(err, utils.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCategoryAccumulation(t *testing.T) {
	repo := newStubRepo()
	svc := NewProductService(repo)

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), &CreateProductRequest{
			Name: "Drill", Price: 50, Category: "Tools", Stock: 1,
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	count := 0
	for _, cat := range repo.catalog.Categories {
		if cat == "Tools" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected category Tools exactly once, got %d", count)
	}
}

func TestUpdateKeepsIDAndRecomputesStock(t *testing.T) {
	svc := NewProductService(newStubRepo())

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	zero := 0
	updated, err := svc.Update(context.Background(), p.ID, &UpdateProductRequest{Stock: &zero})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != p.ID {
		t.Fatalf("id changed on update: %s -> %s", p.ID, updated.ID)
	}
	if updated.InStock {
		t.Fatalf("expected inStock false after stock set to 0")
	}
	if updated.CreatedAt != p.CreatedAt {
		t.Fatalf("createdAt changed on update")
	}
	if updated.UpdatedAt == p.UpdatedAt {
		t.Fatalf("updatedAt did not change on update")
	}
}

func TestUpdatePartialMergeLeavesOtherFields(t *testing.T) {
	svc := NewProductService(newStubRepo())

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 10, Brand: "Makita",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	price := 45.0
	updated, err := svc.Update(context.Background(), p.ID, &UpdateProductRequest{Price: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 45 {
		t.Fatalf("expected price 45, got %v", updated.Price)
	}
	if updated.Name != "Drill" || updated.Brand != "Makita" || updated.Stock != 10 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewProductService(newStubRepo())
	name := "x"
	if _, err := svc.Update(context.Background(), "missing", &UpdateProductRequest{Name: &name}); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteThenGetNotFound(t *testing.T) {
	svc := NewProductService(newStubRepo())

	p, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	removed, err := svc.Delete(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed.ID != p.ID {
		t.Fatalf("expected removed record %s, got %s", p.ID, removed.ID)
	}

	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestListFailSoftOnReadError(t *testing.T) {
	repo := newStubRepo()
	repo.loadErr = errors.New("backend down")
	svc := NewProductService(repo)

	catalog := svc.List(context.Background())
	if catalog.Products == nil || catalog.Categories == nil {
		t.Fatalf("expected non-nil empty slices, got %+v", catalog)
	}
	if len(catalog.Products) != 0 {
		t.Fatalf("expected empty catalog, got %d products", len(catalog.Products))
	}
}

func TestListIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := NewProductService(repo)
	if _, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 3,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	a := svc.List(context.Background())
	b := svc.List(context.Background())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("list not idempotent: %+v vs %+v", a, b)
	}
}

func TestCreateFailsHardOnWriteError(t *testing.T) {
	repo := newStubRepo()
	repo.saveErr = errors.New("disk full")
	svc := NewProductService(repo)

	if _, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 10,
	}); !errors.Is(err, utils.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(repo.catalog.Products) != 0 {
		t.Fatalf("failed write must not commit the product")
	}
}

func TestCreateFailsHardOnReadError(t *testing.T) {
	repo := newStubRepo()
	repo.loadErr = errors.New("backend down")
	svc := NewProductService(repo)

	if _, err := svc.Create(context.Background(), &CreateProductRequest{
		Name: "Drill", Price: 50, Category: "Tools", Stock: 10,
	}); !errors.Is(err, utils.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	svc := NewProductService(newStubRepo())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p, err := svc.Create(context.Background(), &CreateProductRequest{
			Name: "Drill", Price: 50, Category: "Tools", Stock: 1,
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
}
