package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error)
}

type productLoader interface {
	GetByID(ctx context.Context, productID uuid.UUID) (*product.ProductDTO, error)
}

type couponResolver interface {
	Resolve(ctx context.Context, code string, now time.Time) (*pricing.Coupon, error)
}

// Service exposes cart operations. Totals are always recomputed server-side;
// a client-submitted total is only ever checked, never stored.
type Service interface {
	UpsertCart(ctx context.Context, buyerStoreID uuid.UUID, input UpsertCartInput) (*QuoteResult, error)
	GetActiveCart(ctx context.Context, buyerStoreID uuid.UUID) (*models.CartRecord, error)
	Quote(ctx context.Context, buyerStoreID uuid.UUID, input UpsertCartInput) (*QuoteResult, error)
}

type service struct {
	repo             CartRepository
	tx               txRunner
	store            storeLoader
	products         productLoader
	coupons          couponResolver
	deliveryFeeCents int
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, store storeLoader, products productLoader, coupons couponResolver, deliveryFeeCents int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if store == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	return &service{
		repo:             repo,
		tx:               tx,
		store:            store,
		products:         products,
		coupons:          coupons,
		deliveryFeeCents: deliveryFeeCents,
	}, nil
}

// CartItemInput is the caller's view of one cart line. Everything else about
// the product is snapshotted from the catalog at quote time.
type CartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpsertCartInput captures the payload to quote or persist a cart.
type UpsertCartInput struct {
	CouponCode       *string
	DeliveryAddress  *types.Address
	Items            []CartItemInput
	ClientTotalCents *int
}

// QuoteResult pairs the computed totals with the persisted record, when any.
type QuoteResult struct {
	Totals pricing.Totals
	Record *models.CartRecord
}

// Quote computes totals for the submitted items without persisting anything.
func (s *service) Quote(ctx context.Context, buyerStoreID uuid.UUID, input UpsertCartInput) (*QuoteResult, error) {
	_, _, totals, err := s.prepare(ctx, buyerStoreID, input)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Totals: totals}, nil
}

// UpsertCart validates the submitted items, recomputes totals, and persists
// the buyer's active cart atomically.
func (s *service) UpsertCart(ctx context.Context, buyerStoreID uuid.UUID, input UpsertCartInput) (*QuoteResult, error) {
	couponCode, items, totals, err := s.prepare(ctx, buyerStoreID, input)
	if err != nil {
		return nil, err
	}

	var record *models.CartRecord
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindActiveByBuyerStore(ctx, buyerStoreID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		}

		if existing == nil {
			existing = &models.CartRecord{BuyerStoreID: buyerStoreID}
		}
		existing.CouponCode = couponCode
		existing.DeliveryAddress = input.DeliveryAddress
		existing.SubtotalCents = totals.SubtotalCents
		existing.DiscountCents = totals.DiscountCents
		existing.DeliveryFeeCents = totals.DeliveryFeeCents
		existing.TotalCents = totals.TotalCents
		existing.Items = nil

		if existing.ID == uuid.Nil {
			if _, err := repo.Create(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
			}
		} else {
			if _, err := repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
			}
		}

		if err := repo.ReplaceItems(ctx, existing.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace cart items")
		}

		existing.Items = items
		record = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &QuoteResult{Totals: totals, Record: record}, nil
}

// GetActiveCart returns the buyer's current active cart.
func (s *service) GetActiveCart(ctx context.Context, buyerStoreID uuid.UUID) (*models.CartRecord, error) {
	if buyerStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer store id is required")
	}
	record, err := s.repo.FindActiveByBuyerStore(ctx, buyerStoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return record, nil
}

// prepare runs the shared validation and computation pipeline: buyer gate,
// catalog snapshot, MOQ/stock checks, coupon resolution, and totals.
func (s *service) prepare(ctx context.Context, buyerStoreID uuid.UUID, input UpsertCartInput) (*string, []models.CartItem, pricing.Totals, error) {
	var zero pricing.Totals

	if buyerStoreID == uuid.Nil {
		return nil, nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "buyer store id is required")
	}
	if len(input.Items) == 0 {
		return nil, nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	buyer, err := s.store.GetByID(ctx, buyerStoreID)
	if err != nil {
		return nil, nil, zero, err
	}
	if err := stores.RequireVerifiedBuyer(buyer); err != nil {
		return nil, nil, zero, err
	}

	lines := make([]pricing.LineItem, 0, len(input.Items))
	rows := make([]models.CartItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		listing, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, nil, zero, err
		}
		if !listing.IsActive {
			return nil, nil, zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is no longer available", listing.Name))
		}

		lineTotal := item.Quantity * listing.UnitPriceCents
		lines = append(lines, pricing.LineItem{
			ProductID:       listing.ID,
			SupplierStoreID: listing.SupplierStoreID,
			ProductName:     listing.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  listing.UnitPriceCents,
			LineTotalCents:  lineTotal,
			MOQ:             listing.MOQ,
			StockQty:        listing.StockQty,
		})
		rows = append(rows, models.CartItem{
			ProductID:       listing.ID,
			SupplierStoreID: listing.SupplierStoreID,
			ProductName:     listing.Name,
			Quantity:        item.Quantity,
			MOQ:             listing.MOQ,
			StockQty:        listing.StockQty,
			UnitPriceCents:  listing.UnitPriceCents,
			LineTotalCents:  lineTotal,
		})
	}

	if err := pricing.ValidateItems(lines); err != nil {
		return nil, nil, zero, err
	}

	now := time.Now()
	var coupon *pricing.Coupon
	var couponCode *string
	if input.CouponCode != nil && *input.CouponCode != "" {
		coupon, err = s.coupons.Resolve(ctx, *input.CouponCode, now)
		if err != nil {
			return nil, nil, zero, err
		}
		couponCode = &coupon.Code
	}

	totals := pricing.CartTotals(lines, coupon,
		pricing.WithDeliveryFee(s.deliveryFeeCents),
		pricing.WithNow(now),
	)

	if input.ClientTotalCents != nil && *input.ClientTotalCents != totals.TotalCents {
		return nil, nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "submitted total does not match the computed total").
			WithDetails(map[string]any{
				"client_total_cents": *input.ClientTotalCents,
				"server_total_cents": totals.TotalCents,
			})
	}

	return couponCode, rows, totals, nil
}
