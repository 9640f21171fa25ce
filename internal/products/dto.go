package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/pagination"
)

// CreateProductInput captures the fields a supplier submits for a listing.
type CreateProductInput struct {
	SKU             string
	Name            string
	Description     *string
	Category        *string
	Unit            string
	UnitPriceCents  int
	MOQ             int
	StockQty        int
	DeliveryRegions []string
}

// UpdateProductInput holds optional mutations; nil fields are left untouched.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Category        *string
	Unit            *string
	UnitPriceCents  *int
	MOQ             *int
	StockQty        *int
	IsActive        *bool
	DeliveryRegions *[]string
}

// ProductDTO is the listing projection returned to buyers and suppliers.
type ProductDTO struct {
	ID              uuid.UUID `json:"id"`
	SupplierStoreID uuid.UUID `json:"supplier_store_id"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Unit            string    `json:"unit"`
	UnitPriceCents  int       `json:"unit_price_cents"`
	MOQ             int       `json:"moq"`
	StockQty        int       `json:"stock_qty"`
	IsActive        bool      `json:"is_active"`
	DeliveryRegions []string  `json:"delivery_regions,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToDTO maps a product row to its external projection.
func ToDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		SupplierStoreID: p.SupplierStoreID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Unit:            p.Unit,
		UnitPriceCents:  p.UnitPriceCents,
		MOQ:             p.MOQ,
		StockQty:        p.StockQty,
		IsActive:        p.IsActive,
		DeliveryRegions: p.DeliveryRegions,
		CreatedAt:       p.CreatedAt,
	}
}

// ListFilters describe the filter knobs for the buyer browse endpoint.
type ListFilters struct {
	Category      *string `json:"category,omitempty"`
	PriceMinCents *int    `json:"price_min_cents,omitempty"`
	PriceMaxCents *int    `json:"price_max_cents,omitempty"`
	InStockOnly   bool    `json:"in_stock_only,omitempty"`
	Query         string  `json:"q,omitempty"`
}

// ListInput captures the pagination and filter inputs for product lists.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductList wraps a page of products plus the next cursor.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
