package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/utils"
	"github.com/SplendidSupplies/shop_api/pkg/stripe"
)

// lineItemLister resolves a checkout session's purchased items with product
// metadata expanded.
type lineItemLister interface {
	ListLineItems(ctx context.Context, sessionID string) ([]stripe.LineItem, error)
}

// stockReconciler applies a completed payment's line items to inventory.
type stockReconciler interface {
	ApplyPaymentEvent(ctx context.Context, eventID string, items []models.LineItem) error
}

// WebhookHandler handles payment-completion events from the checkout
// provider.
type WebhookHandler struct {
	reconciler    stockReconciler
	payments      lineItemLister
	webhookSecret string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(reconciler stockReconciler, payments lineItemLister, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, payments: payments, webhookSecret: webhookSecret}
}

// HandlePaymentEvent handles POST /api/webhooks/payment. Only events whose
// payload signature verifies are trusted. A non-2xx response tells the
// provider to redeliver, which is the retry path for persistence failures.
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	signature := c.GetHeader("Webhook-Signature")
	if signature == "" {
		c.JSON(400, gin.H{"error": "No signature provided"})
		return
	}
	if !utils.VerifySignature(body, signature, h.webhookSecret) {
		log.Warn().Msg("webhook signature verification failed")
		c.JSON(400, gin.H{"error": "Invalid signature"})
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(200, gin.H{"received": true})
		return
	}

	lineItems, err := h.payments.ListLineItems(c.Request.Context(), event.Data.Object.ID)
	if err != nil {
		log.Error().Err(err).Str("session_id", event.Data.Object.ID).Msg("failed to resolve session line items")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	items := make([]models.LineItem, 0, len(lineItems))
	for _, li := range lineItems {
		productID := li.ProductID()
		if productID == "" {
			log.Warn().Str("session_id", event.Data.Object.ID).Msg("line item without product metadata, skipping")
			continue
		}
		quantity := li.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, models.LineItem{ProductID: productID, Quantity: quantity})
	}

	if len(items) == 0 {
		log.Warn().Str("event_id", event.ID).Msg("payment event had no mappable line items")
		c.JSON(200, gin.H{"received": true})
		return
	}

	if err := h.reconciler.ApplyPaymentEvent(c.Request.Context(), event.ID, items); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to reconcile stock")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	c.JSON(200, gin.H{"received": true})
}
