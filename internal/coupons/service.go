package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/pkg/db"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
)

type couponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// CreateCouponInput captures the admin payload for issuing a coupon.
type CreateCouponInput struct {
	Code          string
	Type          enums.CouponType
	ValueCents    int
	ValuePercent  decimal.Decimal
	MinOrderCents int
	ExpiresAt     time.Time
}

// Service exposes coupon operations.
type Service interface {
	Issue(ctx context.Context, input CreateCouponInput) (*models.Coupon, error)
	Resolve(ctx context.Context, code string, now time.Time) (*pricing.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo couponRepository
}

// NewService builds a coupon service.
func NewService(repo couponRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Issue(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon type must be fixed or percentage")
	}
	switch input.Type {
	case enums.CouponTypeFixed:
		if input.ValueCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fixed coupon value must be positive")
		}
	case enums.CouponTypePercentage:
		if input.ValuePercent.LessThanOrEqual(decimal.Zero) || input.ValuePercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
		}
	}
	if !input.ExpiresAt.After(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}

	coupon := &models.Coupon{
		Code:          code,
		Type:          input.Type,
		ValueCents:    input.ValueCents,
		ValuePercent:  input.ValuePercent,
		MinOrderCents: input.MinOrderCents,
		ExpiresAt:     input.ExpiresAt,
		IsActive:      true,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return created, nil
}

// Resolve translates a code into the calculator's coupon input. Unknown,
// inactive, and expired codes all surface as not found so the caller cannot
// distinguish guessable states.
func (s *service) Resolve(ctx context.Context, code string, now time.Time) (*pricing.Coupon, error) {
	if NormalizeCode(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	row, err := s.repo.FindActiveByCode(ctx, code, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return &pricing.Coupon{
		Code:          row.Code,
		Type:          row.Type,
		ValueCents:    row.ValueCents,
		ValuePercent:  row.ValuePercent,
		MinOrderCents: row.MinOrderCents,
		ExpiresAt:     row.ExpiresAt,
	}, nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate coupon")
	}
	return nil
}
