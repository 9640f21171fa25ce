package controllers

import (
	"net/http"
	"strings"

	"github.com/bazarlink/bazarlink-backend/api/responses"
	"github.com/bazarlink/bazarlink-backend/api/validators"
	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
)

type createProductRequest struct {
	SKU             string   `json:"sku" validate:"required,min=2,max=64"`
	Name            string   `json:"name" validate:"required,min=2,max=200"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	UnitPriceCents  int      `json:"unit_price_cents" validate:"required,gt=0"`
	MOQ             int      `json:"moq" validate:"omitempty,min=1"`
	StockQty        int      `json:"stock_qty" validate:"omitempty,min=0"`
	DeliveryRegions []string `json:"delivery_regions,omitempty"`
}

func ProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), storeID, product.CreateProductInput{
			SKU:             payload.SKU,
			Name:            payload.Name,
			Description:     payload.Description,
			Category:        payload.Category,
			Unit:            payload.Unit,
			UnitPriceCents:  payload.UnitPriceCents,
			MOQ:             payload.MOQ,
			StockQty:        payload.StockQty,
			DeliveryRegions: payload.DeliveryRegions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateProductRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Unit            *string  `json:"unit,omitempty"`
	UnitPriceCents  *int     `json:"unit_price_cents,omitempty" validate:"omitempty,gt=0"`
	MOQ             *int     `json:"moq,omitempty" validate:"omitempty,min=1"`
	StockQty        *int     `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active,omitempty"`
	DeliveryRegions []string `json:"delivery_regions,omitempty"`
}

func ProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			Name:           payload.Name,
			Description:    payload.Description,
			Category:       payload.Category,
			Unit:           payload.Unit,
			UnitPriceCents: payload.UnitPriceCents,
			MOQ:            payload.MOQ,
			StockQty:       payload.StockQty,
			IsActive:       payload.IsActive,
		}
		if payload.DeliveryRegions != nil {
			input.DeliveryRegions = &payload.DeliveryRegions
		}

		dto, err := svc.Update(r.Context(), storeID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func ProductDeactivate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), storeID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func ProductListMine(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBySupplier(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": list})
	}
}

// ProductBrowse is the buyer-facing catalog listing with filters and cursor
// pagination.
func ProductBrowse(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.ListFilters{
			Query:       strings.TrimSpace(r.URL.Query().Get("q")),
			InStockOnly: r.URL.Query().Get("in_stock") == "true",
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}
		if min, err := validators.ParseQueryInt(r, "price_min_cents", 0, 0, 1<<31-1); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if min > 0 {
			filters.PriceMinCents = &min
		}
		if max, err := validators.ParseQueryInt(r, "price_max_cents", 0, 0, 1<<31-1); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if max > 0 {
			filters.PriceMaxCents = &max
		}

		list, err := svc.Browse(r.Context(), product.ListInput{
			Filters:    filters,
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
