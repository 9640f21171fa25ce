package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Decision is the high-level action a store can take on an order.
type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionFulfill Decision = "fulfill"
	DecisionCancel  Decision = "cancel"
)

// DecisionInput captures the data required to change an order's state.
type DecisionInput struct {
	OrderID      uuid.UUID
	Decision     Decision
	ActorStoreID uuid.UUID
}

// Service defines order operations beyond repository reads.
type Service interface {
	GetByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*OrderList, error)
	Decide(ctx context.Context, input DecisionInput) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// GetByID loads an order visible to the acting store, buyer or supplier side.
func (s *service) GetByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.BuyerStoreID != storeID && order.SupplierStoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
	}
	return order, nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByBuyer(ctx, buyerStoreID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return list, nil
}

func (s *service) ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListBySupplier(ctx, supplierStoreID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders")
	}
	return list, nil
}

// Decide applies a confirm/fulfill/cancel action with the status transition
// rules enforced. Suppliers confirm and fulfill; either side may cancel while
// the order is still pending or confirmed.
func (s *service) Decide(ctx context.Context, input DecisionInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorStoreID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	target, err := mapDecision(input.Decision)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch input.Decision {
		case DecisionConfirm, DecisionFulfill:
			if order.SupplierStoreID != input.ActorStoreID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only the supplier can progress an order")
			}
		case DecisionCancel:
			if order.BuyerStoreID != input.ActorStoreID && order.SupplierStoreID != input.ActorStoreID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to store")
			}
		}

		if order.Status == target {
			return nil
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
}

func mapDecision(decision Decision) (enums.OrderStatus, error) {
	switch decision {
	case DecisionConfirm:
		return enums.OrderStatusConfirmed, nil
	case DecisionFulfill:
		return enums.OrderStatusFulfilled, nil
	case DecisionCancel:
		return enums.OrderStatusCancelled, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "decision must be confirm, fulfill, or cancel")
	}
}
