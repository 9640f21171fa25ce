package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// CartRecord is the buyer's persisted active cart. Totals are always the
// server-side recomputation, never trusted from the client.
type CartRecord struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerStoreID     uuid.UUID        `gorm:"column:buyer_store_id;type:uuid;not null"`
	Status           enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'active'"`
	CouponCode       *string          `gorm:"column:coupon_code"`
	DeliveryAddress  *types.Address   `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	SubtotalCents    int              `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents    int              `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents int              `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents       int              `gorm:"column:total_cents;not null;default:0"`
	ConvertedAt      *time.Time       `gorm:"column:converted_at"`
	Items            []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
