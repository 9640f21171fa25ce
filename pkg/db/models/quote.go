package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
)

// Quote is a supplier offer on an RFQ. Each counter-offer is recorded as a
// QuoteRevision so the negotiation keeps a price history instead of a lone
// status flag.
type Quote struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RFQID           uuid.UUID         `gorm:"column:rfq_id;type:uuid;not null"`
	SupplierStoreID uuid.UUID         `gorm:"column:supplier_store_id;type:uuid;not null"`
	UnitPriceCents  int               `gorm:"column:unit_price_cents;not null"`
	Terms           *string           `gorm:"column:terms"`
	Status          enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'pending'"`
	ValidUntil      time.Time         `gorm:"column:valid_until;not null"`
	Revisions       []QuoteRevision   `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// QuoteRevision is one entry in the counter-offer history of a quote.
// Seq 1 is the supplier's original price.
type QuoteRevision struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID        uuid.UUID         `gorm:"column:quote_id;type:uuid;not null"`
	Seq            int               `gorm:"column:seq;not null"`
	Author         enums.QuoteAuthor `gorm:"column:author;type:quote_author;not null"`
	UnitPriceCents int               `gorm:"column:unit_price_cents;not null"`
	Notes          *string           `gorm:"column:notes"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}
