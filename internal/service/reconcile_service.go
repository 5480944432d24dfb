package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/repository"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// ledgerCap bounds the processed-event ledger. Oldest entries are evicted
// first; the cap comfortably exceeds any realistic redelivery window.
const ledgerCap = 1024

// ReconcileService applies the effect of a completed payment to inventory:
// each purchased line item decrements the matching product's stock.
type ReconcileService struct {
	repo repository.CatalogRepository

	mu        sync.Mutex
	processed map[string]struct{}
	order     []string
}

// NewReconcileService constructs a ReconcileService over the given backend.
func NewReconcileService(repo repository.CatalogRepository) *ReconcileService {
	return &ReconcileService{
		repo:      repo,
		processed: make(map[string]struct{}),
	}
}

// ApplyPaymentEvent decrements stock for every line item of a completed
// payment and persists the catalog once.
//
// Semantics:
//   - A line item whose product id is unknown is logged and skipped; it must
//     not block the updates for the other items.
//   - Stock is allowed to go negative. An oversold count is a visible signal
//     operators must investigate; clamping to zero would hide it.
//   - If the persist fails, the event counts as unprocessed and the error is
//     returned so the webhook caller can lean on provider redelivery.
//   - Events already applied in this process (matched by eventID) are
//     skipped, so a redelivered webhook does not double-decrement.
func (s *ReconcileService) ApplyPaymentEvent(ctx context.Context, eventID string, items []models.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: payment event has no line items", utils.ErrValidation)
	}

	if eventID != "" && s.alreadyProcessed(eventID) {
		log.Info().Str("event_id", eventID).Msg("duplicate payment event, skipping")
		return nil
	}

	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	applied := 0
	for _, item := range items {
		i := catalog.IndexOf(item.ProductID)
		if i < 0 {
			log.Warn().
				Str("event_id", eventID).
				Str("product_id", item.ProductID).
				Msg("payment event references unknown product, skipping line item")
			continue
		}
		p := &catalog.Products[i]
		p.Stock -= item.Quantity
		p.InStock = p.Stock > 0
		p.UpdatedAt = utils.NowISO()
		applied++

		if p.Stock < 0 {
			log.Warn().
				Str("product_id", p.ID).
				Int("stock", p.Stock).
				Msg("product oversold, stock negative")
		}
	}

	// One write for the whole event, not one per line item, to minimize
	// races against concurrent admin edits.
	if err := s.repo.Save(ctx, catalog); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	if eventID != "" {
		s.markProcessed(eventID)
	}
	log.Info().Str("event_id", eventID).Int("items_applied", applied).Int("items_total", len(items)).Msg("stock reconciled")
	return nil
}

func (s *ReconcileService) alreadyProcessed(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processed[eventID]
	return ok
}

func (s *ReconcileService) markProcessed(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[eventID]; ok {
		return
	}
	s.processed[eventID] = struct{}{}
	s.order = append(s.order, eventID)
	if len(s.order) > ledgerCap {
		delete(s.processed, s.order[0])
		s.order = s.order[1:]
	}
}
