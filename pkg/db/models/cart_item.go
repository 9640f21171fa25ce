package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem snapshots product-level data at the moment it entered the cart.
// Name, MOQ, and stock are copied so pricing stays explainable even when the
// listing changes afterwards.
type CartItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	SupplierStoreID uuid.UUID `gorm:"column:supplier_store_id;type:uuid;not null"`
	ProductName     string    `gorm:"column:product_name;not null"`
	Quantity        int       `gorm:"column:quantity;not null"`
	MOQ             int       `gorm:"column:moq;not null;default:1"`
	StockQty        int       `gorm:"column:stock_qty;not null;default:0"`
	UnitPriceCents  int       `gorm:"column:unit_price_cents;not null"`
	LineTotalCents  int       `gorm:"column:line_total_cents;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
