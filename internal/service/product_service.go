package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/models"
	"github.com/SplendidSupplies/shop_api/internal/repository"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

const defaultLowStockThreshold = 5

// ProductService is the single source of truth for the catalog. It owns id
// assignment, timestamps, the inStock invariant and category accumulation,
// and delegates persistence to the configured backend.
type ProductService struct {
	repo repository.CatalogRepository
}

// NewProductService constructs a ProductService over the given backend.
func NewProductService(repo repository.CatalogRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductRequest represents the request to create a new product.
type CreateProductRequest struct {
	Name              string             `json:"name" binding:"required"`
	Price             float64            `json:"price"`
	Image             string             `json:"image"`
	Description       string             `json:"description"`
	Category          string             `json:"category" binding:"required"`
	Images            []string           `json:"images"`
	Stock             int                `json:"stock"`
	LowStockThreshold *int               `json:"lowStockThreshold"`
	SEOTitle          string             `json:"seoTitle"`
	SEODescription    string             `json:"seoDescription"`
	SEOKeywords       []string           `json:"seoKeywords"`
	Tags              []string           `json:"tags"`
	ProductURL        string             `json:"productUrl"`
	SupplierURL       string             `json:"supplierUrl"`
	Brand             string             `json:"brand"`
	Model             string             `json:"model"`
	Weight            float64            `json:"weight"`
	Dimensions        *models.Dimensions `json:"dimensions"`
	OriginalPrice     float64            `json:"originalPrice"`
	SalePrice         float64            `json:"salePrice"`
	OnSale            bool               `json:"onSale"`
	Featured          bool               `json:"featured"`
	Active            *bool              `json:"active"`
}

// UpdateProductRequest represents a partial update. Nil fields are left
// untouched on the stored record.
type UpdateProductRequest struct {
	Name              *string            `json:"name"`
	Price             *float64           `json:"price"`
	Image             *string            `json:"image"`
	Description       *string            `json:"description"`
	Category          *string            `json:"category"`
	Images            *[]string          `json:"images"`
	Stock             *int               `json:"stock"`
	LowStockThreshold *int               `json:"lowStockThreshold"`
	SEOTitle          *string            `json:"seoTitle"`
	SEODescription    *string            `json:"seoDescription"`
	SEOKeywords       *[]string          `json:"seoKeywords"`
	Tags              *[]string          `json:"tags"`
	ProductURL        *string            `json:"productUrl"`
	SupplierURL       *string            `json:"supplierUrl"`
	Brand             *string            `json:"brand"`
	Model             *string            `json:"model"`
	Weight            *float64           `json:"weight"`
	Dimensions        *models.Dimensions `json:"dimensions"`
	OriginalPrice     *float64           `json:"originalPrice"`
	SalePrice         *float64           `json:"salePrice"`
	OnSale            *bool              `json:"onSale"`
	Featured          *bool              `json:"featured"`
	Active            *bool              `json:"active"`
}

// List returns the full catalog. On backend read failure it degrades to an
// empty catalog instead of failing the caller, so a transient storage
// outage renders as "no products" rather than an error page.
func (s *ProductService) List(ctx context.Context) models.Catalog {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog read failed, serving empty catalog")
		return models.EmptyCatalog()
	}
	return catalog
}

// Get returns the product with the given id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	catalog := s.List(ctx)
	if i := catalog.IndexOf(id); i >= 0 {
		p := catalog.Products[i]
		return &p, nil
	}
	return nil, fmt.Errorf("%w: product %s", utils.ErrNotFound, id)
}

// Create assigns an id and timestamps, computes inStock, appends the
// product and any new category, and persists the whole catalog. The
// in-memory mutation is not committed unless the write succeeds.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	catalog, err := s.repo.Load(ctx)
	if err != nil {
		// Degrading to an empty catalog here would clobber existing products
		// on the next write, so mutations fail hard on read errors.
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	now := utils.NowISO()
	product := models.Product{
		ID:                newProductID(&catalog),
		Name:              req.Name,
		Price:             req.Price,
		Image:             req.Image,
		Description:       req.Description,
		Category:          req.Category,
		Images:            req.Images,
		Stock:             req.Stock,
		InStock:           req.Stock > 0,
		LowStockThreshold: defaultLowStockThreshold,
		SEOTitle:          req.SEOTitle,
		SEODescription:    req.SEODescription,
		SEOKeywords:       req.SEOKeywords,
		Tags:              req.Tags,
		ProductURL:        req.ProductURL,
		SupplierURL:       req.SupplierURL,
		Brand:             req.Brand,
		Model:             req.Model,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		OriginalPrice:     req.OriginalPrice,
		SalePrice:         req.SalePrice,
		OnSale:            req.OnSale,
		Featured:          req.Featured,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	catalog.Products = append(catalog.Products, product)
	catalog.AddCategory(product.Category)

	if err := s.repo.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	log.Info().Str("product_id", product.ID).Str("category", product.Category).Msg("product created")
	return &product, nil
}

// Update merges the non-nil request fields onto the stored record. The id
// is never reassigned, updatedAt is refreshed, and inStock is recomputed
// when stock is part of the update.
func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	i := catalog.IndexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %s", utils.ErrNotFound, id)
	}

	p := &catalog.Products[i]
	applyUpdate(p, req)
	p.ID = id
	p.UpdatedAt = utils.NowISO()
	if req.Stock != nil {
		p.InStock = p.Stock > 0
	}
	if req.Category != nil {
		catalog.AddCategory(*req.Category)
	}

	if err := s.repo.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	updated := *p
	log.Info().Str("product_id", id).Msg("product updated")
	return &updated, nil
}

// Delete removes the matching record and persists, returning the removed
// record for confirmation.
func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	i := catalog.IndexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: product %s", utils.ErrNotFound, id)
	}

	removed := catalog.Products[i]
	catalog.Products = append(catalog.Products[:i], catalog.Products[i+1:]...)

	if err := s.repo.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPersistence, err)
	}

	log.Info().Str("product_id", id).Msg("product deleted")
	return &removed, nil
}

func applyUpdate(p *models.Product, req *UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.SEOTitle != nil {
		p.SEOTitle = *req.SEOTitle
	}
	if req.SEODescription != nil {
		p.SEODescription = *req.SEODescription
	}
	if req.SEOKeywords != nil {
		p.SEOKeywords = *req.SEOKeywords
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.ProductURL != nil {
		p.ProductURL = *req.ProductURL
	}
	if req.SupplierURL != nil {
		p.SupplierURL = *req.SupplierURL
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.Dimensions != nil {
		p.Dimensions = req.Dimensions
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = *req.OriginalPrice
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.OnSale != nil {
		p.OnSale = *req.OnSale
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
}

func validateCreate(req *CreateProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	}
	if req.Category == "" {
		return fmt.Errorf("%w: category is required", utils.ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", utils.ErrValidation)
	}
	if req.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", utils.ErrValidation)
	}
	return nil
}

func validateUpdate(req *UpdateProductRequest) error {
	if req.Name != nil && *req.Name == "" {
		return fmt.Errorf("%w: name must not be empty", utils.ErrValidation)
	}
	if req.Category != nil && *req.Category == "" {
		return fmt.Errorf("%w: category must not be empty", utils.ErrValidation)
	}
	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", utils.ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", utils.ErrValidation)
	}
	return nil
}

// newProductID derives an id from the current wall clock in milliseconds,
// bumped past any collision so it stays unique within the catalog.
func newProductID(catalog *models.Catalog) string {
	n := time.Now().UnixMilli()
	id := strconv.FormatInt(n, 10)
	for catalog.IndexOf(id) >= 0 {
		n++
		id = strconv.FormatInt(n, 10)
	}
	return id
}
