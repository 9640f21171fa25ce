package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// RFQ is a buyer's request for quote aimed at one supplier for one product.
type RFQ struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerStoreID     uuid.UUID       `gorm:"column:buyer_store_id;type:uuid;not null"`
	SupplierStoreID  uuid.UUID       `gorm:"column:supplier_store_id;type:uuid;not null"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	TargetPriceCents *int            `gorm:"column:target_price_cents"`
	DeliveryAddress  types.Address   `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	Notes            *string         `gorm:"column:notes"`
	Status           enums.RFQStatus `gorm:"column:status;type:rfq_status;not null;default:'pending'"`
	ExpiresAt        time.Time       `gorm:"column:expires_at;not null"`
	ConvertedOrderID *uuid.UUID      `gorm:"column:converted_order_id;type:uuid"`
	Quotes           []Quote         `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
