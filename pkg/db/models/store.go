package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// Store represents a marketplace tenant: a buyer business or a supplier.
type Store struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type           enums.StoreType `gorm:"column:type;type:store_type;not null"`
	CompanyName    string          `gorm:"column:company_name;not null"`
	TradeLicenseNo *string         `gorm:"column:trade_license_no"`
	Phone          *string         `gorm:"column:phone"`
	Email          *string         `gorm:"column:email"`
	KYCStatus      enums.KYCStatus `gorm:"column:kyc_status;type:kyc_status;not null;default:'pending_verification'"`
	Address        types.Address   `gorm:"column:address;type:jsonb;serializer:json"`
	Categories     pq.StringArray  `gorm:"column:categories;type:text[]"`
	OwnerID        uuid.UUID       `gorm:"column:owner;type:uuid;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
