package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/internal/cart"
	"github.com/bazarlink/bazarlink-backend/internal/orders"
	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartQuoter interface {
	Quote(ctx context.Context, buyerStoreID uuid.UUID, input cart.UpsertCartInput) (*cart.QuoteResult, error)
}

// StockRepository reserves stock inside the checkout transaction.
type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error)
}

type productStock struct {
	repo *product.Repository
}

// NewProductStock adapts the products repository to the checkout stock
// interface.
func NewProductStock(repo *product.Repository) StockRepository {
	return productStock{repo: repo}
}

func (p productStock) WithTx(tx *gorm.DB) StockRepository {
	return productStock{repo: p.repo.WithTx(tx)}
}

func (p productStock) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	return p.repo.DecrementStock(ctx, productID, qty)
}

// ExecuteInput carries the buyer's confirmation of the cart they are paying
// for. ClientTotalCents, when present, must match the server recomputation.
type ExecuteInput struct {
	CartID           uuid.UUID
	ClientTotalCents *int
}

// Result is the outcome of a checkout: one order per supplier group plus the
// totals the orders were derived from.
type Result struct {
	Orders []*models.Order
	Totals pricing.Totals
}

// Service turns an active cart into supplier orders.
type Service interface {
	Execute(ctx context.Context, buyerStoreID uuid.UUID, input ExecuteInput) (*Result, error)
}

type service struct {
	cartRepo   cart.CartRepository
	quoter     cartQuoter
	stock      StockRepository
	ordersRepo orders.Repository
	tx         txRunner
}

func NewService(cartRepo cart.CartRepository, quoter cartQuoter, stock StockRepository, ordersRepo orders.Repository, tx txRunner) (Service, error) {
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if quoter == nil {
		return nil, fmt.Errorf("cart quoter required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		cartRepo:   cartRepo,
		quoter:     quoter,
		stock:      stock,
		ordersRepo: ordersRepo,
		tx:         tx,
	}, nil
}

func (s *service) Execute(ctx context.Context, buyerStoreID uuid.UUID, input ExecuteInput) (*Result, error) {
	if buyerStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer store id required")
	}
	if input.CartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}

	record, err := s.cartRepo.FindByIDAndBuyerStore(ctx, input.CartID, buyerStoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if record.Status != enums.CartStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart is %s, not active", record.Status))
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	// Re-run the full pricing pipeline so checkout enforces the same MOQ,
	// stock, and coupon rules as the quote endpoint.
	quoteInput := cart.UpsertCartInput{
		CouponCode:       record.CouponCode,
		DeliveryAddress:  record.DeliveryAddress,
		Items:            make([]cart.CartItemInput, 0, len(record.Items)),
		ClientTotalCents: input.ClientTotalCents,
	}
	for _, item := range record.Items {
		quoteInput.Items = append(quoteInput.Items, cart.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	quote, err := s.quoter.Quote(ctx, buyerStoreID, quoteInput)
	if err != nil {
		return nil, err
	}
	totals := quote.Totals

	discounts := prorateDiscount(totals.DiscountCents, totals.Suppliers)

	var created []*models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)
		stock := s.stock.WithTx(tx)

		for i, group := range totals.Suppliers {
			// The flat marketplace delivery fee goes on the first order so
			// multi-supplier carts are not charged per supplier.
			fee := 0
			if i == 0 {
				fee = totals.DeliveryFeeCents
			}
			order := &models.Order{
				BuyerStoreID:     buyerStoreID,
				SupplierStoreID:  group.SupplierStoreID,
				SourceCartID:     &record.ID,
				Status:           enums.OrderStatusPending,
				DeliveryAddress:  record.DeliveryAddress,
				CouponCode:       record.CouponCode,
				SubtotalCents:    group.SubtotalCents,
				DiscountCents:    discounts[i],
				DeliveryFeeCents: fee,
				TotalCents:       group.SubtotalCents - discounts[i] + fee,
			}
			if _, err := ordersRepo.Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}

			items := make([]models.OrderItem, 0, len(group.Items))
			for _, line := range group.Items {
				affected, err := stock.DecrementStock(ctx, line.ProductID, line.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
				}
				if affected == 0 {
					return pkgerrors.New(pkgerrors.CodeStateConflict,
						fmt.Sprintf("insufficient stock for %s", line.ProductName))
				}
				items = append(items, models.OrderItem{
					OrderID:        order.ID,
					ProductID:      line.ProductID,
					ProductName:    line.ProductName,
					Quantity:       line.Quantity,
					UnitPriceCents: line.UnitPriceCents,
					LineTotalCents: line.LineTotalCents,
				})
			}
			if err := ordersRepo.CreateItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
			}
			order.Items = items
			created = append(created, order)
		}

		if err := cartRepo.UpdateStatus(ctx, record.ID, buyerStoreID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark cart converted")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Orders: created, Totals: totals}, nil
}

// prorateDiscount splits the cart-level discount across supplier groups in
// proportion to their subtotals. Rounding cents are handed out by largest
// remainder, and no group's share ever exceeds its own subtotal, so the
// per-order discounts sum exactly to the cart discount and no order total
// goes negative.
func prorateDiscount(discountCents int, groups []pricing.SupplierGroup) []int {
	shares := make([]int, len(groups))
	if discountCents <= 0 || len(groups) == 0 {
		return shares
	}
	subtotal := 0
	for _, g := range groups {
		subtotal += g.SubtotalCents
	}
	if subtotal <= 0 {
		return shares
	}

	remainders := make([]int, len(groups))
	allocated := 0
	for i, g := range groups {
		shares[i] = discountCents * g.SubtotalCents / subtotal
		remainders[i] = discountCents * g.SubtotalCents % subtotal
		allocated += shares[i]
	}

	for left := discountCents - allocated; left > 0; left-- {
		best := -1
		for i := range shares {
			if shares[i] >= groups[i].SubtotalCents {
				continue
			}
			if best == -1 || remainders[i] > remainders[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		shares[best]++
		remainders[best] -= subtotal
	}
	return shares
}
