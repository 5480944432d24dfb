// Package stripe is a minimal HTTP client for the two Stripe operations this
// service needs: creating hosted checkout sessions and listing a session's
// purchased line items. Webhook signature verification is done by the
// handler; this package only shapes requests and responses.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// BaseURL is the Stripe API base URL.
const BaseURL = "https://api.stripe.com/v1"

// Client is a minimal HTTP client for the Stripe REST API.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	debug      bool
}

// NewClient constructs a new Stripe client with sane defaults.
func NewClient(secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		secretKey:  secretKey,
		baseURL:    BaseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// SessionParams describes a checkout session to create.
type SessionParams struct {
	LineItems  []SessionLineItem
	SuccessURL string
	CancelURL  string
}

// SessionLineItem is one cart line priced in minor currency units. The
// ProductID is attached as product metadata so the completion webhook can
// map the purchase back to the catalog.
type SessionLineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64
	Quantity    int
	ProductID   string
}

// CreateCheckoutSession creates a hosted checkout session in payment mode.
func (c *Client) CreateCheckoutSession(ctx context.Context, params *SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("payment_method_types[0]", "card")
	form.Set("billing_address_collection", "required")

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", "gbp")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Description)
		}
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
		form.Set(prefix+"[price_data][product_data][metadata][product_id]", item.ProductID)
	}

	var session Session
	if err := c.doRequest(ctx, http.MethodPost, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListLineItems retrieves the purchased line items of a session with each
// price's product expanded, so product metadata is available.
func (c *Client) ListLineItems(ctx context.Context, sessionID string) ([]LineItem, error) {
	endpoint := fmt.Sprintf("/checkout/sessions/%s/line_items?expand[]=data.price.product", url.PathEscape(sessionID))
	var list lineItemList
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// doRequest performs a form-encoded request against the Stripe API and
// decodes the JSON response into result. Non-2xx responses are surfaced
// with Stripe's error message.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, form url.Values, result any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[STRIPE] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
