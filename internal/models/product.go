package models

// Dimensions holds the physical size of a product in centimetres.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Product represents a catalog entry. IDs are assigned once on creation and
// never reassigned; they are the join key between cart lines, checkout
// session metadata and stock reconciliation.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Images      []string `json:"images,omitempty"`

	// Inventory. InStock is derived: it must equal stock > 0 after every
	// mutation that touches Stock. Stock may go negative after
	// reconciliation; a negative value means oversold inventory.
	Stock             int  `json:"stock"`
	InStock           bool `json:"inStock"`
	LowStockThreshold int  `json:"lowStockThreshold,omitempty"`

	// SEO & marketing
	SEOTitle       string   `json:"seoTitle,omitempty"`
	SEODescription string   `json:"seoDescription,omitempty"`
	SEOKeywords    []string `json:"seoKeywords,omitempty"`
	Tags           []string `json:"tags,omitempty"`

	// External links
	ProductURL  string `json:"productUrl,omitempty"`
	SupplierURL string `json:"supplierUrl,omitempty"`

	// Product details
	Brand      string      `json:"brand,omitempty"`
	Model      string      `json:"model,omitempty"`
	Weight     float64     `json:"weight,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`

	// Pricing & offers
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	SalePrice     float64 `json:"salePrice,omitempty"`
	OnSale        bool    `json:"onSale,omitempty"`

	// Status & visibility. Inactive products stay in storage and remain
	// editable; the storefront decides whether to display them.
	Featured bool `json:"featured,omitempty"`
	Active   bool `json:"active"`

	// ISO-8601 timestamps, set on creation and refreshed on every mutation.
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Catalog is the persisted unit: the full product list plus the set of known
// categories. Categories is semantically a set, appended to (never pruned)
// when a product introduces a new category.
type Catalog struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}

// EmptyCatalog returns a catalog with non-nil slices so it serializes as
// empty arrays rather than null.
func EmptyCatalog() Catalog {
	return Catalog{Products: []Product{}, Categories: []string{}}
}

// IndexOf returns the index of the product with the given id, or -1.
func (c *Catalog) IndexOf(id string) int {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// HasCategory reports whether the category is already known.
func (c *Catalog) HasCategory(category string) bool {
	for _, v := range c.Categories {
		if v == category {
			return true
		}
	}
	return false
}

// AddCategory appends the category if it is new and non-empty.
func (c *Catalog) AddCategory(category string) {
	if category == "" || c.HasCategory(category) {
		return
	}
	c.Categories = append(c.Categories, category)
}

// CartLine is one product within a customer cart, as submitted to checkout.
type CartLine struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// LineItem is one purchased product within a completed payment event.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
