package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
)

type stubCartRepo struct {
	active   *models.CartRecord
	created  *models.CartRecord
	replaced []models.CartItem
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindActiveByBuyerStore(ctx context.Context, buyerStoreID uuid.UUID) (*models.CartRecord, error) {
	if s.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.active, nil
}

func (s *stubCartRepo) FindByIDAndBuyerStore(ctx context.Context, id, buyerStoreID uuid.UUID) (*models.CartRecord, error) {
	return s.active, nil
}

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	s.created = record
	return record, nil
}

func (s *stubCartRepo) Update(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	s.created = record
	return record, nil
}

func (s *stubCartRepo) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	s.replaced = items
	return nil
}

func (s *stubCartRepo) UpdateStatus(ctx context.Context, id, buyerStoreID uuid.UUID, status enums.CartStatus) error {
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubStores struct {
	store *stores.StoreDTO
}

func (s *stubStores) GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error) {
	return s.store, nil
}

type stubProducts struct {
	byID map[uuid.UUID]*product.ProductDTO
}

func (s *stubProducts) GetByID(ctx context.Context, productID uuid.UUID) (*product.ProductDTO, error) {
	p, ok := s.byID[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

type stubCoupons struct {
	coupon *pricing.Coupon
}

func (s *stubCoupons) Resolve(ctx context.Context, code string, now time.Time) (*pricing.Coupon, error) {
	if s.coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return s.coupon, nil
}

func verifiedBuyer() *stores.StoreDTO {
	return &stores.StoreDTO{
		ID:        uuid.New(),
		Type:      enums.StoreTypeBuyer,
		KYCStatus: enums.KYCStatusVerified,
	}
}

func listing(supplier uuid.UUID, name string, priceCents, moq, stock int) *product.ProductDTO {
	return &product.ProductDTO{
		ID:              uuid.New(),
		SupplierStoreID: supplier,
		Name:            name,
		UnitPriceCents:  priceCents,
		MOQ:             moq,
		StockQty:        stock,
		IsActive:        true,
	}
}

func newCartService(t *testing.T, repo CartRepository, storeDTO *stores.StoreDTO, products map[uuid.UUID]*product.ProductDTO, coupon *pricing.Coupon, feeCents int) Service {
	t.Helper()
	svc, err := NewService(
		repo,
		stubTx{},
		&stubStores{store: storeDTO},
		&stubProducts{byID: products},
		&stubCoupons{coupon: coupon},
		feeCents,
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUpsertCartRecomputesTotals(t *testing.T) {
	buyer := verifiedBuyer()
	supplier := uuid.New()
	cement := listing(supplier, "Cement Bag 50kg", 55000, 10, 500)

	repo := &stubCartRepo{}
	svc := newCartService(t, repo, buyer, map[uuid.UUID]*product.ProductDTO{cement.ID: cement}, nil, 1500)

	res, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		Items: []CartItemInput{{ProductID: cement.ID, Quantity: 20}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	wantSubtotal := 20 * 55000
	if res.Totals.SubtotalCents != wantSubtotal {
		t.Fatalf("expected subtotal %d, got %d", wantSubtotal, res.Totals.SubtotalCents)
	}
	if res.Totals.TotalCents != wantSubtotal+1500 {
		t.Fatalf("expected total %d, got %d", wantSubtotal+1500, res.Totals.TotalCents)
	}
	if repo.created == nil || repo.created.TotalCents != res.Totals.TotalCents {
		t.Fatal("persisted cart totals must match the computation")
	}
	if len(repo.replaced) != 1 || repo.replaced[0].ProductName != "Cement Bag 50kg" {
		t.Fatalf("expected snapshotted item, got %+v", repo.replaced)
	}
}

func TestUpsertCartRejectsMOQViolation(t *testing.T) {
	buyer := verifiedBuyer()
	cement := listing(uuid.New(), "Cement Bag 50kg", 55000, 10, 500)

	svc := newCartService(t, &stubCartRepo{}, buyer, map[uuid.UUID]*product.ProductDTO{cement.ID: cement}, nil, 0)

	_, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		Items: []CartItemInput{{ProductID: cement.ID, Quantity: 5}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for MOQ violation, got %v", err)
	}
}

func TestUpsertCartRequiresVerifiedBuyer(t *testing.T) {
	buyer := verifiedBuyer()
	buyer.KYCStatus = enums.KYCStatusPending
	cement := listing(uuid.New(), "Cement Bag", 55000, 1, 500)

	svc := newCartService(t, &stubCartRepo{}, buyer, map[uuid.UUID]*product.ProductDTO{cement.ID: cement}, nil, 0)

	_, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		Items: []CartItemInput{{ProductID: cement.ID, Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpsertCartAppliesCoupon(t *testing.T) {
	buyer := verifiedBuyer()
	item := listing(uuid.New(), "Jute Sack", 1000, 1, 1000)
	coupon := &pricing.Coupon{
		Code:          "TRADE10",
		Type:          enums.CouponTypePercentage,
		ValuePercent:  decimal.NewFromInt(10),
		MinOrderCents: 50000,
		ExpiresAt:     time.Now().Add(48 * time.Hour),
	}

	code := "trade10"
	svc := newCartService(t, &stubCartRepo{}, buyer, map[uuid.UUID]*product.ProductDTO{item.ID: item}, coupon, 0)

	res, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		CouponCode: &code,
		Items:      []CartItemInput{{ProductID: item.ID, Quantity: 100}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Totals.DiscountCents != 10000 {
		t.Fatalf("expected discount 10000, got %d", res.Totals.DiscountCents)
	}
	if res.Totals.TotalCents != 90000 {
		t.Fatalf("expected total 90000, got %d", res.Totals.TotalCents)
	}
	if res.Record.CouponCode == nil || *res.Record.CouponCode != "TRADE10" {
		t.Fatal("normalized coupon code must be stored on the cart")
	}
}

func TestUpsertCartRejectsMismatchedClientTotal(t *testing.T) {
	buyer := verifiedBuyer()
	item := listing(uuid.New(), "Brick Pallet", 4000, 1, 50)

	svc := newCartService(t, &stubCartRepo{}, buyer, map[uuid.UUID]*product.ProductDTO{item.ID: item}, nil, 0)

	wrong := 999
	_, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		Items:            []CartItemInput{{ProductID: item.ID, Quantity: 2}},
		ClientTotalCents: &wrong,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for mismatched total, got %v", err)
	}
}

func TestUpsertCartSkipsInactiveListing(t *testing.T) {
	buyer := verifiedBuyer()
	item := listing(uuid.New(), "Retired Product", 4000, 1, 50)
	item.IsActive = false

	svc := newCartService(t, &stubCartRepo{}, buyer, map[uuid.UUID]*product.ProductDTO{item.ID: item}, nil, 0)

	_, err := svc.UpsertCart(context.Background(), buyer.ID, UpsertCartInput{
		Items: []CartItemInput{{ProductID: item.ID, Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inactive listing, got %v", err)
	}
}

func TestQuoteDoesNotPersist(t *testing.T) {
	buyer := verifiedBuyer()
	item := listing(uuid.New(), "Tea Chest", 500, 1, 10)

	repo := &stubCartRepo{}
	svc := newCartService(t, repo, buyer, map[uuid.UUID]*product.ProductDTO{item.ID: item}, nil, 0)

	res, err := svc.Quote(context.Background(), buyer.ID, UpsertCartInput{
		Items: []CartItemInput{{ProductID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if res.Record != nil {
		t.Fatal("quote must not persist a cart")
	}
	if repo.created != nil || repo.replaced != nil {
		t.Fatal("quote must not touch the repository")
	}
	if res.Totals.SubtotalCents != 1000 {
		t.Fatalf("expected subtotal 1000, got %d", res.Totals.SubtotalCents)
	}
}

func TestGetActiveCartNotFound(t *testing.T) {
	buyer := verifiedBuyer()
	svc := newCartService(t, &stubCartRepo{}, buyer, nil, nil, 0)

	_, err := svc.GetActiveCart(context.Background(), buyer.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
