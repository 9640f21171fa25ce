package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/api/middleware"
	rfqsvc "github.com/bazarlink/bazarlink-backend/internal/rfq"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pagination"
)

type stubRFQService struct {
	rfq      *models.RFQ
	quote    *models.Quote
	revision *models.QuoteRevision
	order    *models.Order
	err      error

	gotCounter *rfqsvc.CounterInput
	decided    string
}

func (s *stubRFQService) Create(ctx context.Context, buyerStoreID uuid.UUID, input rfqsvc.CreateRFQInput) (*models.RFQ, error) {
	return s.rfq, s.err
}

func (s *stubRFQService) GetByID(ctx context.Context, storeID, rfqID uuid.UUID) (*models.RFQ, error) {
	return s.rfq, s.err
}

func (s *stubRFQService) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*rfqsvc.RFQList, error) {
	return &rfqsvc.RFQList{}, s.err
}

func (s *stubRFQService) ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*rfqsvc.RFQList, error) {
	return &rfqsvc.RFQList{}, s.err
}

func (s *stubRFQService) SubmitQuote(ctx context.Context, supplierStoreID uuid.UUID, input rfqsvc.SubmitQuoteInput) (*models.Quote, error) {
	return s.quote, s.err
}

func (s *stubRFQService) AcceptQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error {
	s.decided = "accepted"
	return s.err
}

func (s *stubRFQService) RejectQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error {
	s.decided = "rejected"
	return s.err
}

func (s *stubRFQService) Counter(ctx context.Context, actorStoreID uuid.UUID, input rfqsvc.CounterInput) (*models.QuoteRevision, error) {
	s.gotCounter = &input
	return s.revision, s.err
}

func (s *stubRFQService) ConvertToOrder(ctx context.Context, buyerStoreID, rfqID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func withPathID(req *http.Request, id uuid.UUID) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestQuoteAcceptSuccess(t *testing.T) {
	svc := &stubRFQService{}
	handler := QuoteAccept(svc, nil)

	req := withStore(httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/accept", nil), uuid.New())
	req = withPathID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.decided != "accepted" {
		t.Fatalf("expected accept to reach the service, got %q", svc.decided)
	}
}

func TestQuoteAcceptInvalidID(t *testing.T) {
	handler := QuoteAccept(&stubRFQService{}, nil)

	req := withStore(httptest.NewRequest(http.MethodPost, "/api/v1/quotes/nope/accept", nil), uuid.New())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteCounterDerivesAuthorFromStoreType(t *testing.T) {
	svc := &stubRFQService{revision: &models.QuoteRevision{ID: uuid.New(), Seq: 2}}
	handler := QuoteCounter(svc, nil)

	quoteID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/counter", strings.NewReader(`{"unit_price_cents":48000}`))
	req = withStore(req, uuid.New())
	req = req.WithContext(middleware.WithStoreType(req.Context(), string(enums.StoreTypeBuyer)))
	req = withPathID(req, quoteID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotCounter == nil {
		t.Fatalf("counter never reached the service")
	}
	if svc.gotCounter.Author != enums.QuoteAuthorBuyer {
		t.Fatalf("expected buyer author, got %s", svc.gotCounter.Author)
	}
	if svc.gotCounter.QuoteID != quoteID {
		t.Fatalf("unexpected quote id %s", svc.gotCounter.QuoteID)
	}
}

func TestQuoteCounterMissingStoreType(t *testing.T) {
	handler := QuoteCounter(&stubRFQService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/x/counter", strings.NewReader(`{"unit_price_cents":48000}`))
	req = withStore(req, uuid.New())
	req = withPathID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRFQConvertStateConflict(t *testing.T) {
	svc := &stubRFQService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "rfq is not accepted")}
	handler := RFQConvert(svc, nil)

	req := withStore(httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/x/convert", nil), uuid.New())
	req = withPathID(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestRFQCreateValidatesQuantity(t *testing.T) {
	handler := RFQCreate(&stubRFQService{}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0,"delivery_address":{"line1":"12 Motijheel","district":"Dhaka","country":"BD"}}`
	req := withStore(httptest.NewRequest(http.MethodPost, "/api/v1/rfqs", strings.NewReader(body)), uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}
