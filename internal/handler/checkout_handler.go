package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/service"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// CheckoutHandler runs the stock preflight and creates payment sessions.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession handles POST /api/checkout. The preflight is advisory:
// stock is compared, not reserved, so the session can still complete after
// another purchase exhausts the stock.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req struct {
		Items []models.CartLine `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "No items provided")
		return
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			utils.Error(c, 400, "INVALID_REQUEST", "Malformed cart line")
			return
		}
	}

	result := h.checkoutService.Preflight(c.Request.Context(), req.Items)
	if !result.OK {
		utils.ErrorWithData(c, 400, "STOCK_INSUFFICIENT", "Cart cannot be fulfilled", result)
		return
	}

	session, err := h.checkoutService.CreateSession(c.Request.Context(), req.Items)
	if err != nil {
		log.Error().Err(err).Msg("failed to create checkout session")
		utils.Error(c, 500, "CHECKOUT_FAILED", "Failed to create checkout session")
		return
	}

	utils.Success(c, 200, "Checkout session created", gin.H{
		"sessionId": session.ID,
		"url":       session.URL,
	})
}
