package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// Order is a supplier-scoped order. Checkout splits a multi-supplier cart
// into one order per supplier group; converted RFQs produce single-line
// orders.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerStoreID     uuid.UUID         `gorm:"column:buyer_store_id;type:uuid;not null"`
	SupplierStoreID  uuid.UUID         `gorm:"column:supplier_store_id;type:uuid;not null"`
	SourceCartID     *uuid.UUID        `gorm:"column:source_cart_id;type:uuid"`
	SourceRFQID      *uuid.UUID        `gorm:"column:source_rfq_id;type:uuid"`
	Status           enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	DeliveryAddress  *types.Address    `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	CouponCode       *string           `gorm:"column:coupon_code"`
	SubtotalCents    int               `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents    int               `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents int               `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents       int               `gorm:"column:total_cents;not null;default:0"`
	CancelledAt      *time.Time        `gorm:"column:cancelled_at"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a line on a supplier order, snapshotted at creation.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
