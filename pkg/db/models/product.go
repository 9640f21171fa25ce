package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a supplier listing. Stock is denormalized onto the
// product row; the marketplace has no separate warehouse dimension.
type Product struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierStoreID uuid.UUID      `gorm:"column:supplier_store_id;type:uuid;not null"`
	SKU             string         `gorm:"column:sku;not null"`
	Name            string         `gorm:"column:name;not null"`
	Description     *string        `gorm:"column:description"`
	Category        *string        `gorm:"column:category"`
	Unit            string         `gorm:"column:unit;not null;default:'piece'"`
	UnitPriceCents  int            `gorm:"column:unit_price_cents;not null"`
	MOQ             int            `gorm:"column:moq;not null;default:1"`
	StockQty        int            `gorm:"column:stock_qty;not null;default:0"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true"`
	DeliveryRegions pq.StringArray `gorm:"column:delivery_regions;type:text[];default:ARRAY[]::text[]"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
