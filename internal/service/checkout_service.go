package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/pkg/stripe"
)

// CheckoutService validates carts against current stock and assembles
// hosted-checkout sessions with the payment provider.
type CheckoutService struct {
	products *ProductService
	payments *stripe.Client
	domain   string
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(products *ProductService, payments *stripe.Client, domain string) *CheckoutService {
	return &CheckoutService{products: products, payments: payments, domain: domain}
}

// PreflightResult is the outcome of a stock-sufficiency check.
type PreflightResult struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues,omitempty"`
}

// Preflight checks that every requested cart quantity can currently be
// fulfilled. It collects every problem instead of failing fast, so the
// customer sees all issues at once. This is advisory only: nothing is
// reserved or decremented here, so a concurrent purchase can still win the
// remaining stock between preflight and payment completion.
func (s *CheckoutService) Preflight(ctx context.Context, lines []models.CartLine) PreflightResult {
	catalog := s.products.List(ctx)

	var issues []string
	for _, line := range lines {
		i := catalog.IndexOf(line.ProductID)
		if i < 0 {
			issues = append(issues, fmt.Sprintf("%s is no longer available", line.Name))
			continue
		}
		if p := catalog.Products[i]; p.Stock < line.Quantity {
			issues = append(issues, fmt.Sprintf("%s: only %d available, but %d requested", line.Name, p.Stock, line.Quantity))
		}
	}

	return PreflightResult{OK: len(issues) == 0, Issues: issues}
}

// CreateSession creates a hosted checkout session for the cart. The caller
// is expected to have run Preflight first. Each session line item carries
// the product id in its metadata so the payment-completion webhook can map
// purchases back to catalog records.
func (s *CheckoutService) CreateSession(ctx context.Context, lines []models.CartLine) (*stripe.Session, error) {
	items := make([]stripe.SessionLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, stripe.SessionLineItem{
			Name:        line.Name,
			Description: line.Description,
			Image:       absoluteImageURL(s.domain, line.Image),
			// GBP minor units (pence)
			UnitAmount: int64(math.Round(line.Price * 100)),
			Quantity:   line.Quantity,
			ProductID:  line.ProductID,
		})
	}

	session, err := s.payments.CreateCheckoutSession(ctx, &stripe.SessionParams{
		LineItems:  items,
		SuccessURL: s.domain + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.domain + "/cart",
	})
	if err != nil {
		log.Error().Err(err).Msg("checkout session creation failed")
		return nil, err
	}
	return session, nil
}

// absoluteImageURL turns a catalog-relative image path into an absolute URL
// the payment provider can render.
func absoluteImageURL(domain, image string) string {
	if image == "" || strings.HasPrefix(image, "http") {
		return image
	}
	return domain + image
}
