package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
)

// Coupon is a marketplace-issued discount code. Immutable once issued;
// the cart calculator treats it as read-only input.
type Coupon struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string           `gorm:"column:code;not null;uniqueIndex"`
	Type          enums.CouponType `gorm:"column:type;type:coupon_type;not null"`
	ValueCents    int              `gorm:"column:value_cents;not null;default:0"`
	ValuePercent  decimal.Decimal  `gorm:"column:value_percent;type:numeric(5,2);not null;default:0"`
	MinOrderCents int              `gorm:"column:min_order_cents;not null;default:0"`
	ExpiresAt     time.Time        `gorm:"column:expires_at;not null"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
