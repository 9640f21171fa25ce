package rfq

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// CreateRFQInput captures a buyer's request for quote.
type CreateRFQInput struct {
	ProductID        uuid.UUID
	Quantity         int
	TargetPriceCents *int
	DeliveryAddress  types.Address
	Notes            *string
	ExpiresAt        *time.Time
}

// SubmitQuoteInput captures a supplier's offer on an RFQ.
type SubmitQuoteInput struct {
	RFQID          uuid.UUID
	UnitPriceCents int
	Terms          *string
	ValidUntil     *time.Time
}

// CounterInput captures a counter-offer from either side.
type CounterInput struct {
	QuoteID        uuid.UUID
	Author         enums.QuoteAuthor
	UnitPriceCents int
	Notes          *string
}

// RFQSummary is the row shape returned by the RFQ lists.
type RFQSummary struct {
	ID               uuid.UUID       `json:"id"`
	BuyerStoreID     uuid.UUID       `json:"buyer_store_id"`
	SupplierStoreID  uuid.UUID       `json:"supplier_store_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         int             `json:"quantity"`
	TargetPriceCents *int            `json:"target_price_cents,omitempty"`
	Status           enums.RFQStatus `json:"status"`
	ExpiresAt        time.Time       `json:"expires_at"`
	QuoteCount       int             `json:"quote_count"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RFQList wraps a page of RFQs plus the next cursor.
type RFQList struct {
	RFQs       []RFQSummary `json:"rfqs"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toSummary(rfq *models.RFQ) RFQSummary {
	return RFQSummary{
		ID:               rfq.ID,
		BuyerStoreID:     rfq.BuyerStoreID,
		SupplierStoreID:  rfq.SupplierStoreID,
		ProductID:        rfq.ProductID,
		Quantity:         rfq.Quantity,
		TargetPriceCents: rfq.TargetPriceCents,
		Status:           rfq.Status,
		ExpiresAt:        rfq.ExpiresAt,
		QuoteCount:       len(rfq.Quotes),
		CreatedAt:        rfq.CreatedAt,
	}
}
