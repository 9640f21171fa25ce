// Package pricing implements the cart calculator: deterministic derivation of
// subtotal, discount, delivery fee, grand total, and the per-supplier
// breakdown from a sequence of line items and an optional coupon. Everything
// here is a pure function; callers own persistence and error translation.
package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
)

// LineItem is the calculator's view of one cart row. Quantities, MOQ, and
// stock are snapshotted by the caller; the calculator never reads storage.
type LineItem struct {
	ProductID       uuid.UUID `json:"product_id"`
	SupplierStoreID uuid.UUID `json:"supplier_store_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int       `json:"unit_price_cents"`
	LineTotalCents  int       `json:"line_total_cents"`
	MOQ             int       `json:"moq"`
	StockQty        int       `json:"stock_qty"`
}

// Coupon is the read-only discount input. Either ValueCents (fixed) or
// ValuePercent (percentage) applies depending on Type.
type Coupon struct {
	Code          string
	Type          enums.CouponType
	ValueCents    int
	ValuePercent  decimal.Decimal
	MinOrderCents int
	ExpiresAt     time.Time
}

// Validation carries a business-rule check result. Invalid inputs are a
// result, not an error; callers decide how to surface the message.
type Validation struct {
	Valid   bool
	Message string
}

// SupplierGroup is the derived, non-persistent grouping of items by supplier.
type SupplierGroup struct {
	SupplierStoreID uuid.UUID  `json:"supplier_store_id"`
	SupplierName    string     `json:"supplier_name"`
	SubtotalCents   int        `json:"subtotal_cents"`
	Items           []LineItem `json:"items"`
}

// Totals is the full output of the cart calculator.
type Totals struct {
	SubtotalCents    int             `json:"subtotal_cents"`
	DiscountCents    int             `json:"discount_cents"`
	DeliveryFeeCents int             `json:"delivery_fee_cents"`
	TotalCents       int             `json:"total_cents"`
	Suppliers        []SupplierGroup `json:"suppliers"`
}

// ValidateMOQ fails when the requested quantity is below the product's
// minimum order quantity.
func ValidateMOQ(item LineItem) Validation {
	if item.MOQ > 1 && item.Quantity < item.MOQ {
		return Validation{
			Message: fmt.Sprintf("%s requires a minimum order of %d %s", item.ProductName, item.MOQ, unitsWord(item.MOQ)),
		}
	}
	return Validation{Valid: true}
}

// ValidateStock fails when the requested quantity exceeds the stock on hand.
func ValidateStock(item LineItem) Validation {
	if item.Quantity > item.StockQty {
		return Validation{
			Message: fmt.Sprintf("%s has only %d in stock", item.ProductName, item.StockQty),
		}
	}
	return Validation{Valid: true}
}

// CouponDiscount computes the discount in cents for the given subtotal.
// Expired coupons and subtotals below the minimum yield zero, never an error.
// The discount is clamped to the subtotal for both coupon types so a coupon
// can never invert a cart total.
func CouponDiscount(coupon *Coupon, subtotalCents int, now time.Time) int {
	if coupon == nil || subtotalCents <= 0 {
		return 0
	}
	if now.After(coupon.ExpiresAt) {
		return 0
	}
	if subtotalCents < coupon.MinOrderCents {
		return 0
	}

	var discount int
	switch coupon.Type {
	case enums.CouponTypeFixed:
		discount = coupon.ValueCents
	case enums.CouponTypePercentage:
		discount = int(decimal.NewFromInt(int64(subtotalCents)).
			Mul(coupon.ValuePercent).
			Div(decimal.NewFromInt(100)).
			IntPart())
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > subtotalCents {
		return subtotalCents
	}
	return discount
}

// SupplierBreakdown groups items by supplier preserving first-seen order and
// accumulates the per-group subtotal. The supplier name is a placeholder;
// resolving the real company name is the store service's job.
func SupplierBreakdown(items []LineItem) []SupplierGroup {
	var groups []SupplierGroup
	index := map[uuid.UUID]int{}

	for _, item := range items {
		pos, seen := index[item.SupplierStoreID]
		if !seen {
			pos = len(groups)
			index[item.SupplierStoreID] = pos
			groups = append(groups, SupplierGroup{
				SupplierStoreID: item.SupplierStoreID,
				SupplierName:    fmt.Sprintf("Supplier #%s", shortID(item.SupplierStoreID)),
			})
		}
		groups[pos].SubtotalCents += item.LineTotalCents
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

// Option adjusts CartTotals without widening its signature.
type Option func(*options)

type options struct {
	deliveryFeeCents int
	now              time.Time
}

// WithDeliveryFee injects the marketplace delivery fee. The default is zero;
// the fee is configuration, never a constant baked in here.
func WithDeliveryFee(cents int) Option {
	return func(o *options) {
		if cents > 0 {
			o.deliveryFeeCents = cents
		}
	}
}

// WithNow pins the clock, used by callers that need reproducible results.
func WithNow(now time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// CartTotals composes the calculator: subtotal, coupon discount, delivery
// fee, supplier breakdown, and a grand total that is never negative.
func CartTotals(items []LineItem, coupon *Coupon, opts ...Option) Totals {
	o := options{now: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	var subtotal int
	for _, item := range items {
		subtotal += item.LineTotalCents
	}

	discount := CouponDiscount(coupon, subtotal, o.now)

	total := subtotal - discount + o.deliveryFeeCents
	if total < 0 {
		total = 0
	}

	return Totals{
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		DeliveryFeeCents: o.deliveryFeeCents,
		TotalCents:       total,
		Suppliers:        SupplierBreakdown(items),
	}
}

func unitsWord(qty int) string {
	if qty == 1 {
		return "unit"
	}
	return "units"
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
