package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/middleware"
	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

type registerStoreRequest struct {
	Type           string        `json:"type" validate:"required,oneof=buyer supplier"`
	CompanyName    string        `json:"company_name" validate:"required,min=2,max=160"`
	TradeLicenseNo *string       `json:"trade_license_no,omitempty"`
	Phone          *string       `json:"phone,omitempty"`
	Email          *string       `json:"email,omitempty" validate:"omitempty,email"`
	Address        types.Address `json:"address" validate:"required"`
	Categories     []string      `json:"categories,omitempty"`
}

// StoreRegister creates a store for the authenticated user. New stores start
// unverified; KYC review flips the status later.
func StoreRegister(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user"))
			return
		}

		var payload registerStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Register(r.Context(), stores.CreateStoreDTO{
			Type:           enums.StoreType(payload.Type),
			CompanyName:    payload.CompanyName,
			TradeLicenseNo: payload.TradeLicenseNo,
			Phone:          payload.Phone,
			Email:          payload.Email,
			Address:        payload.Address,
			Categories:     payload.Categories,
			OwnerID:        userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// StoreMe returns the acting store's profile.
func StoreMe(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type updateStoreRequest struct {
	CompanyName *string        `json:"company_name,omitempty" validate:"omitempty,min=2,max=160"`
	Phone       *string        `json:"phone,omitempty"`
	Email       *string        `json:"email,omitempty" validate:"omitempty,email"`
	Address     *types.Address `json:"address,omitempty"`
	Categories  *[]string      `json:"categories,omitempty"`
}

func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), storeID, stores.UpdateStoreInput{
			CompanyName: payload.CompanyName,
			Phone:       payload.Phone,
			Email:       payload.Email,
			Address:     payload.Address,
			Categories:  payload.Categories,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type kycDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}

// StoreKYCDecision is the admin endpoint that settles a store's KYC review.
func StoreKYCDecision(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload kycDecisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetKYCStatus(r.Context(), storeID, enums.KYCStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
