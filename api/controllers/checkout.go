package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	checkoutsvc "github.com/bazarlink/bazarlink-backend/internal/checkout"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
)

type checkoutRequest struct {
	CartID           uuid.UUID `json:"cart_id" validate:"required"`
	ClientTotalCents *int      `json:"client_total_cents,omitempty"`
}

// Checkout converts the buyer's cart into one pending order per supplier.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), buyerStoreID, checkoutsvc.ExecuteInput{
			CartID:           payload.CartID,
			ClientTotalCents: payload.ClientTotalCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"orders": result.Orders,
			"totals": result.Totals,
		})
	}
}
