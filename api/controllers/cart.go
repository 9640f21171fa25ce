package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	cartsvc "github.com/bazarlink/bazarlink-backend/internal/cart"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

type cartItemPayload struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type upsertCartRequest struct {
	CouponCode       *string           `json:"coupon_code,omitempty"`
	DeliveryAddress  *types.Address    `json:"delivery_address,omitempty"`
	Items            []cartItemPayload `json:"items" validate:"required,min=1,dive"`
	ClientTotalCents *int              `json:"client_total_cents,omitempty"`
}

func (r upsertCartRequest) toInput() cartsvc.UpsertCartInput {
	items := make([]cartsvc.CartItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = cartsvc.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return cartsvc.UpsertCartInput{
		CouponCode:       r.CouponCode,
		DeliveryAddress:  r.DeliveryAddress,
		Items:            items,
		ClientTotalCents: r.ClientTotalCents,
	}
}

type cartResponse struct {
	Cart   *models.CartRecord `json:"cart,omitempty"`
	Totals pricing.Totals     `json:"totals"`
}

// CartUpsert replaces the buyer's active cart and returns the recomputed
// totals.
func CartUpsert(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpsertCart(r.Context(), buyerStoreID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Cart: result.Record, Totals: result.Totals})
	}
}

// CartQuote prices the submitted items without persisting anything.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Quote(r.Context(), buyerStoreID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Totals: result.Totals})
	}
}

func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetActiveCart(r.Context(), buyerStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cart": record})
	}
}
