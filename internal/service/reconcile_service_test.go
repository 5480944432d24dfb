package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

func seededRepo(products ...models.Product) *stubRepo {
	repo := newStubRepo()
	repo.catalog.Products = append(repo.catalog.Products, products...)
	return repo
}

func TestReconcileDecrementsStock(t *testing.T) {
	repo := seededRepo(models.Product{ID: "p1", Name: "Drill", Stock: 10, InStock: true, UpdatedAt: "before"})
	svc := NewReconcileService(repo)

	err := svc.ApplyPaymentEvent(context.Background(), "evt_1", []models.LineItem{{ProductID: "p1", Quantity: 3}})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	p := repo.catalog.Products[0]
	if p.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", p.Stock)
	}
	if !p.InStock {
		t.Fatalf("expected inStock true at stock 7")
	}
	if p.UpdatedAt == "before" {
		t.Fatalf("expected updatedAt refreshed")
	}
}

func TestReconcileAllowsNegativeStock(t *testing.T) {
	repo := seededRepo(models.Product{ID: "p1", Name: "Drill", Stock: 2, InStock: true})
	svc := NewReconcileService(repo)

	err := svc.ApplyPaymentEvent(context.Background(), "evt_1", []models.LineItem{{ProductID: "p1", Quantity: 5}})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	p := repo.catalog.Products[0]
	if p.Stock != -3 {
		t.Fatalf("expected stock -3 (not clamped), got %d", p.Stock)
	}
	if p.InStock {
		t.Fatalf("expected inStock false at negative stock")
	}
}

func TestReconcileSkipsUnknownProducts(t *testing.T) {
	repo := seededRepo(models.Product{ID: "known", Stock: 5, InStock: true})
	svc := NewReconcileService(repo)

	err := svc.ApplyPaymentEvent(context.Background(), "evt_1", []models.LineItem{
		{ProductID: "ghost", Quantity: 2},
		{ProductID: "known", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("unknown product must not abort reconciliation: %v", err)
	}
	if got := repo.catalog.Products[0].Stock; got != 3 {
		t.Fatalf("expected known product decremented to 3, got %d", got)
	}
}

func TestReconcilePersistsOncePerEvent(t *testing.T) {
	repo := seededRepo(
		models.Product{ID: "p1", Stock: 5},
		models.Product{ID: "p2", Stock: 5},
	)
	svc := NewReconcileService(repo)

	err := svc.ApplyPaymentEvent(context.Background(), "evt_1", []models.LineItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected exactly one persist for the event, got %d", repo.saves)
	}
}

func TestReconcileDuplicateEventSkipped(t *testing.T) {
	repo := seededRepo(models.Product{ID: "p1", Stock: 10, InStock: true})
	svc := NewReconcileService(repo)

	items := []models.LineItem{{ProductID: "p1", Quantity: 4}}
	if err := svc.ApplyPaymentEvent(context.Background(), "evt_dup", items); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := svc.ApplyPaymentEvent(context.Background(), "evt_dup", items); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	if got := repo.catalog.Products[0].Stock; got != 6 {
		t.Fatalf("redelivered event double-decremented: stock %d, want 6", got)
	}
}

func TestReconcilePersistFailureLeavesEventUnprocessed(t *testing.T) {
	repo := seededRepo(models.Product{ID: "p1", Stock: 10, InStock: true})
	repo.saveErr = errors.New("write failed")
	svc := NewReconcileService(repo)

	items := []models.LineItem{{ProductID: "p1", Quantity: 4}}
	if err := svc.ApplyPaymentEvent(context.Background(), "evt_retry", items); !errors.Is(err, utils.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if got := repo.catalog.Products[0].Stock; got != 10 {
		t.Fatalf("failed persist must not commit, stock %d", got)
	}

	// The provider redelivers; with the write fixed, the retry must apply.
	repo.saveErr = nil
	if err := svc.ApplyPaymentEvent(context.Background(), "evt_retry", items); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := repo.catalog.Products[0].Stock; got != 6 {
		t.Fatalf("expected retry to apply once, stock %d, want 6", got)
	}
}

func TestReconcileEmptyEventRejected(t *testing.T) {
	svc := NewReconcileService(newStubRepo())
	if err := svc.ApplyPaymentEvent(context.Background(), "evt_empty", nil); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
