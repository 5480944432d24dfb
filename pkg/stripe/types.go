package stripe

// Session is a hosted checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Event is a webhook event envelope. Only checkout.session.completed events
// are acted on; everything else is acknowledged and ignored.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData wraps the object a webhook event describes.
type EventData struct {
	Object CheckoutSessionRef `json:"object"`
}

// CheckoutSessionRef identifies the session a completed-checkout event
// refers to.
type CheckoutSessionRef struct {
	ID string `json:"id"`
}

// LineItem is one purchased item of a checkout session.
type LineItem struct {
	Quantity int    `json:"quantity"`
	Price    *Price `json:"price"`
}

// Price carries the expanded product of a line item.
type Price struct {
	Product *Product `json:"product"`
}

// Product carries the metadata attached at session-creation time, including
// the catalog product id.
type Product struct {
	Metadata map[string]string `json:"metadata"`
}

// ProductID returns the catalog product id attached to the line item's
// product metadata, or empty if absent.
func (l *LineItem) ProductID() string {
	if l.Price == nil || l.Price.Product == nil {
		return ""
	}
	return l.Price.Product.Metadata["product_id"]
}

type lineItemList struct {
	Data []LineItem `json:"data"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
