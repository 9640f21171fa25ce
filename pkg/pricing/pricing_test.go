package pricing

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
)

func item(supplier uuid.UUID, name string, qty, unitPrice, moq, stock int) LineItem {
	return LineItem{
		ProductID:       uuid.New(),
		SupplierStoreID: supplier,
		ProductName:     name,
		Quantity:        qty,
		UnitPriceCents:  unitPrice,
		LineTotalCents:  qty * unitPrice,
		MOQ:             moq,
		StockQty:        stock,
	}
}

func TestValidateMOQ(t *testing.T) {
	t.Parallel()

	res := ValidateMOQ(LineItem{ProductName: "Cement Bag 50kg", Quantity: 5, MOQ: 10})
	if res.Valid {
		t.Fatal("expected quantity below MOQ to be invalid")
	}
	if !strings.Contains(res.Message, "Cement Bag 50kg") || !strings.Contains(res.Message, "10") {
		t.Fatalf("message should embed product name and MOQ, got %q", res.Message)
	}

	if res := ValidateMOQ(LineItem{ProductName: "Cement Bag 50kg", Quantity: 10, MOQ: 10}); !res.Valid {
		t.Fatalf("quantity equal to MOQ should pass, got %q", res.Message)
	}
	// MOQ of one never fails: a single unit is always orderable.
	if res := ValidateMOQ(LineItem{ProductName: "Sample", Quantity: 0, MOQ: 1}); !res.Valid {
		t.Fatalf("MOQ=1 should pass, got %q", res.Message)
	}
}

func TestValidateStock(t *testing.T) {
	t.Parallel()

	res := ValidateStock(LineItem{ProductName: "Rice 25kg", Quantity: 40, StockQty: 12})
	if res.Valid {
		t.Fatal("expected quantity above stock to be invalid")
	}
	if !strings.Contains(res.Message, "12") {
		t.Fatalf("message should embed available stock, got %q", res.Message)
	}

	if res := ValidateStock(LineItem{ProductName: "Rice 25kg", Quantity: 12, StockQty: 12}); !res.Valid {
		t.Fatalf("quantity equal to stock should pass, got %q", res.Message)
	}
}

func TestCouponDiscountFixedNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{
		Code:       "WELCOME500",
		Type:       enums.CouponTypeFixed,
		ValueCents: 50000,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}

	if got := CouponDiscount(coupon, 20000, time.Now()); got != 20000 {
		t.Fatalf("fixed discount must clamp to subtotal, got %d", got)
	}
	if got := CouponDiscount(coupon, 80000, time.Now()); got != 50000 {
		t.Fatalf("expected full fixed value 50000, got %d", got)
	}
}

func TestCouponDiscountExpiredYieldsZero(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{
		Code:       "OLD",
		Type:       enums.CouponTypeFixed,
		ValueCents: 1000,
		ExpiresAt:  time.Now().Add(-time.Hour),
	}
	if got := CouponDiscount(coupon, 100000, time.Now()); got != 0 {
		t.Fatalf("expired coupon must yield zero, got %d", got)
	}
}

func TestCouponDiscountBelowMinimumYieldsZero(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{
		Code:          "BIGBUY",
		Type:          enums.CouponTypePercentage,
		ValuePercent:  decimal.NewFromInt(10),
		MinOrderCents: 50000,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	if got := CouponDiscount(coupon, 49999, time.Now()); got != 0 {
		t.Fatalf("subtotal below minimum must yield zero, got %d", got)
	}
}

func TestCouponDiscountPercentage(t *testing.T) {
	t.Parallel()

	coupon := &Coupon{
		Code:          "TEN",
		Type:          enums.CouponTypePercentage,
		ValuePercent:  decimal.NewFromInt(10),
		MinOrderCents: 50000,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	if got := CouponDiscount(coupon, 100000, time.Now()); got != 10000 {
		t.Fatalf("expected 10%% of 100000 = 10000, got %d", got)
	}

	// Values above 100% clamp to the subtotal instead of going negative.
	coupon.ValuePercent = decimal.NewFromInt(150)
	if got := CouponDiscount(coupon, 100000, time.Now()); got != 100000 {
		t.Fatalf("percentage discount must clamp to subtotal, got %d", got)
	}
}

func TestSupplierBreakdownGroupsInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	supplierA := uuid.New()
	supplierB := uuid.New()
	items := []LineItem{
		{SupplierStoreID: supplierA, LineTotalCents: 10000},
		{SupplierStoreID: supplierB, LineTotalCents: 5000},
		{SupplierStoreID: supplierA, LineTotalCents: 2500},
	}

	groups := SupplierBreakdown(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].SupplierStoreID != supplierA || groups[0].SubtotalCents != 12500 {
		t.Fatalf("group 0 wrong: %+v", groups[0])
	}
	if groups[1].SupplierStoreID != supplierB || groups[1].SubtotalCents != 5000 {
		t.Fatalf("group 1 wrong: %+v", groups[1])
	}
	if len(groups[0].Items) != 2 || len(groups[1].Items) != 1 {
		t.Fatalf("items not distributed: %d / %d", len(groups[0].Items), len(groups[1].Items))
	}
	if want := "Supplier #" + supplierA.String()[:8]; groups[0].SupplierName != want {
		t.Fatalf("expected supplier name %q, got %q", want, groups[0].SupplierName)
	}
}

func TestCartTotalsSubtotalIsSumOfLines(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{
		item(supplier, "Steel Rod", 10, 1500, 5, 100),
		item(supplier, "Cement Bag", 20, 550, 10, 500),
	}

	totals := CartTotals(items, nil)
	want := 10*1500 + 20*550
	if totals.SubtotalCents != want {
		t.Fatalf("expected subtotal %d, got %d", want, totals.SubtotalCents)
	}
	if totals.TotalCents != want {
		t.Fatalf("without coupon or fee total should equal subtotal, got %d", totals.TotalCents)
	}
}

func TestCartTotalsScenarioPercentageCoupon(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{item(supplier, "Jute Sack", 100, 1000, 1, 1000)} // subtotal 100000
	coupon := &Coupon{
		Code:          "TRADE10",
		Type:          enums.CouponTypePercentage,
		ValuePercent:  decimal.NewFromInt(10),
		MinOrderCents: 50000,
		ExpiresAt:     time.Now().Add(48 * time.Hour),
	}

	totals := CartTotals(items, coupon)
	if totals.DiscountCents != 10000 {
		t.Fatalf("expected discount 10000, got %d", totals.DiscountCents)
	}
	if totals.TotalCents != 90000 {
		t.Fatalf("expected total 90000, got %d", totals.TotalCents)
	}
}

func TestCartTotalsNeverNegative(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{item(supplier, "Tea Chest", 1, 500, 1, 10)}
	coupon := &Coupon{
		Code:       "MEGA",
		Type:       enums.CouponTypeFixed,
		ValueCents: 1000000,
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	totals := CartTotals(items, coupon)
	if totals.TotalCents < 0 {
		t.Fatalf("total must never be negative, got %d", totals.TotalCents)
	}
	if totals.TotalCents != 0 {
		t.Fatalf("oversized fixed coupon should zero the total, got %d", totals.TotalCents)
	}
}

func TestCartTotalsDeliveryFeeInjectable(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{item(supplier, "Brick Pallet", 2, 4000, 1, 50)}

	totals := CartTotals(items, nil, WithDeliveryFee(1500))
	if totals.DeliveryFeeCents != 1500 {
		t.Fatalf("expected fee 1500, got %d", totals.DeliveryFeeCents)
	}
	if totals.TotalCents != 8000+1500 {
		t.Fatalf("expected total %d, got %d", 8000+1500, totals.TotalCents)
	}
}

func TestCartTotalsIsDeterministic(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{item(supplier, "Fabric Roll", 3, 12000, 1, 20)}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	coupon := &Coupon{
		Code:       "FIX1K",
		Type:       enums.CouponTypeFixed,
		ValueCents: 1000,
		ExpiresAt:  now.Add(time.Hour),
	}

	first := CartTotals(items, coupon, WithNow(now))
	second := CartTotals(items, coupon, WithNow(now))
	if first.SubtotalCents != second.SubtotalCents ||
		first.DiscountCents != second.DiscountCents ||
		first.TotalCents != second.TotalCents {
		t.Fatalf("repeated calls diverged: %+v vs %+v", first, second)
	}
}

func TestValidateItemsAggregatesViolations(t *testing.T) {
	t.Parallel()

	supplier := uuid.New()
	items := []LineItem{
		item(supplier, "Cement Bag", 5, 550, 10, 500),  // below MOQ
		item(supplier, "Steel Rod", 200, 1500, 5, 100), // above stock
		item(supplier, "Sand Ton", 3, 9000, 1, 10),     // fine
	}

	err := ValidateItems(items)
	if err == nil {
		t.Fatal("expected violations")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	violations, ok := details["violations"].([]ViolationDetail)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", details["violations"])
	}

	if err := ValidateItems(items[2:]); err != nil {
		t.Fatalf("clean cart should validate, got %v", err)
	}
}
