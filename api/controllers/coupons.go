package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	"github.com/bazarlink/bazarlink-backend/internal/coupons"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
)

type createCouponRequest struct {
	Code          string    `json:"code" validate:"required,min=2,max=32"`
	Type          string    `json:"type" validate:"required,oneof=fixed percentage"`
	ValueCents    int       `json:"value_cents,omitempty" validate:"omitempty,gt=0"`
	ValuePercent  string    `json:"value_percent,omitempty"`
	MinOrderCents int       `json:"min_order_cents,omitempty" validate:"omitempty,min=0"`
	ExpiresAt     time.Time `json:"expires_at" validate:"required"`
}

// CouponIssue creates a coupon. Admin only; coupons are marketplace-wide.
func CouponIssue(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := coupons.CreateCouponInput{
			Code:          payload.Code,
			Type:          enums.CouponType(payload.Type),
			ValueCents:    payload.ValueCents,
			MinOrderCents: payload.MinOrderCents,
			ExpiresAt:     payload.ExpiresAt,
		}
		if payload.ValuePercent != "" {
			percent, err := decimal.NewFromString(payload.ValuePercent)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "value_percent must be a decimal number"))
				return
			}
			input.ValuePercent = percent
		}

		coupon, err := svc.Issue(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func CouponList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"coupons": list})
	}
}

func CouponDeactivate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
