package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/middleware"
	cartsvc "github.com/bazarlink/bazarlink-backend/internal/cart"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pricing"
)

type stubCartService struct {
	result *cartsvc.QuoteResult
	record *models.CartRecord
	err    error

	gotInput *cartsvc.UpsertCartInput
}

func (s *stubCartService) UpsertCart(ctx context.Context, buyerStoreID uuid.UUID, input cartsvc.UpsertCartInput) (*cartsvc.QuoteResult, error) {
	s.gotInput = &input
	return s.result, s.err
}

func (s *stubCartService) GetActiveCart(ctx context.Context, buyerStoreID uuid.UUID) (*models.CartRecord, error) {
	return s.record, s.err
}

func (s *stubCartService) Quote(ctx context.Context, buyerStoreID uuid.UUID, input cartsvc.UpsertCartInput) (*cartsvc.QuoteResult, error) {
	s.gotInput = &input
	return s.result, s.err
}

func withStore(req *http.Request, storeID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
}

func TestCartUpsertSuccess(t *testing.T) {
	storeID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{result: &cartsvc.QuoteResult{
		Record: &models.CartRecord{ID: uuid.New(), BuyerStoreID: storeID, Status: enums.CartStatusActive},
		Totals: pricing.Totals{SubtotalCents: 110000, TotalCents: 110000},
	}}
	handler := CartUpsert(svc, nil)

	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":2}]}`
	req := withStore(httptest.NewRequest(http.MethodPut, "/api/v1/cart", strings.NewReader(body)), storeID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotInput == nil || len(svc.gotInput.Items) != 1 {
		t.Fatalf("expected one item forwarded to the service, got %+v", svc.gotInput)
	}
	if svc.gotInput.Items[0].ProductID != productID || svc.gotInput.Items[0].Quantity != 2 {
		t.Fatalf("unexpected forwarded item %+v", svc.gotInput.Items[0])
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Totals.TotalCents != 110000 {
		t.Fatalf("unexpected total %d", envelope.Data.Totals.TotalCents)
	}
}

func TestCartUpsertRejectsEmptyItems(t *testing.T) {
	handler := CartUpsert(&stubCartService{}, nil)

	req := withStore(httptest.NewRequest(http.MethodPut, "/api/v1/cart", strings.NewReader(`{"items":[]}`)), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpsertMissingStoreContext(t *testing.T) {
	handler := CartUpsert(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart", strings.NewReader(`{"items":[{"product_id":"`+uuid.NewString()+`","quantity":1}]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCartQuoteDoesNotRequireCoupon(t *testing.T) {
	svc := &stubCartService{result: &cartsvc.QuoteResult{Totals: pricing.Totals{SubtotalCents: 50000, TotalCents: 50000}}}
	handler := CartQuote(svc, nil)

	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":5}]}`
	req := withStore(httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(body)), uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotInput.CouponCode != nil {
		t.Fatalf("expected nil coupon code, got %v", svc.gotInput.CouponCode)
	}
}

func TestCartGetNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")}
	handler := CartGet(svc, nil)

	req := withStore(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
