package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/middleware"
	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	rfqsvc "github.com/bazarlink/bazarlink-backend/internal/rfq"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

type createRFQRequest struct {
	ProductID        uuid.UUID     `json:"product_id" validate:"required"`
	Quantity         int           `json:"quantity" validate:"required,min=1"`
	TargetPriceCents *int          `json:"target_price_cents,omitempty" validate:"omitempty,gt=0"`
	DeliveryAddress  types.Address `json:"delivery_address" validate:"required"`
	Notes            *string       `json:"notes,omitempty"`
	ExpiresAt        *time.Time    `json:"expires_at,omitempty"`
}

func RFQCreate(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRFQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rfq, err := svc.Create(r.Context(), buyerStoreID, rfqsvc.CreateRFQInput{
			ProductID:        payload.ProductID,
			Quantity:         payload.Quantity,
			TargetPriceCents: payload.TargetPriceCents,
			DeliveryAddress:  payload.DeliveryAddress,
			Notes:            payload.Notes,
			ExpiresAt:        payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rfq)
	}
}

func RFQGet(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rfqID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rfq, err := svc.GetByID(r.Context(), storeID, rfqID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rfq)
	}
}

// RFQListSent lists the RFQs the acting store created as a buyer.
func RFQListSent(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByBuyer(r.Context(), storeID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// RFQListIncoming lists the RFQs addressed to the acting store as a supplier.
func RFQListIncoming(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBySupplier(r.Context(), storeID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type submitQuoteRequest struct {
	UnitPriceCents int        `json:"unit_price_cents" validate:"required,gt=0"`
	Terms          *string    `json:"terms,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
}

func RFQSubmitQuote(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rfqID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload submitQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.SubmitQuote(r.Context(), supplierStoreID, rfqsvc.SubmitQuoteInput{
			RFQID:          rfqID,
			UnitPriceCents: payload.UnitPriceCents,
			Terms:          payload.Terms,
			ValidUntil:     payload.ValidUntil,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

func QuoteAccept(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteDecision(svc, logg, svc.AcceptQuote, "accepted")
}

func QuoteReject(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteDecision(svc, logg, svc.RejectQuote, "rejected")
}

func quoteDecision(svc rfqsvc.Service, logg *logger.Logger, decide func(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := decide(r.Context(), buyerStoreID, quoteID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}

type counterRequest struct {
	UnitPriceCents int     `json:"unit_price_cents" validate:"required,gt=0"`
	Notes          *string `json:"notes,omitempty"`
}

// QuoteCounter records a counter-offer. The author side is derived from the
// acting store's type.
func QuoteCounter(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quoteID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		author, err := counterAuthor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload counterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		revision, err := svc.Counter(r.Context(), storeID, rfqsvc.CounterInput{
			QuoteID:        quoteID,
			Author:         author,
			UnitPriceCents: payload.UnitPriceCents,
			Notes:          payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, revision)
	}
}

func counterAuthor(r *http.Request) (enums.QuoteAuthor, error) {
	switch middleware.StoreTypeFromContext(r.Context()) {
	case string(enums.StoreTypeBuyer):
		return enums.QuoteAuthorBuyer, nil
	case string(enums.StoreTypeSupplier):
		return enums.QuoteAuthorSupplier, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeForbidden, "store type missing from token")
}

func RFQConvert(svc rfqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerStoreID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rfqID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConvertToOrder(r.Context(), buyerStoreID, rfqID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": order})
	}
}
