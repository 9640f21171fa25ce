package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
)

// OrderSummary is the row shape returned by the order lists.
type OrderSummary struct {
	ID              uuid.UUID         `json:"id"`
	BuyerStoreID    uuid.UUID         `json:"buyer_store_id"`
	SupplierStoreID uuid.UUID         `json:"supplier_store_id"`
	Status          enums.OrderStatus `json:"status"`
	TotalCents      int               `json:"total_cents"`
	TotalItems      int               `json:"total_items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderList wraps a page of orders plus the next cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
