package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   time.Duration
		ok     bool
	}{
		{"cart upsert", http.MethodPut, "/api/v1/cart", defaultIdempotencyTTL, true},
		{"cart upsert trailing slash", http.MethodPut, "/api/v1/cart/", defaultIdempotencyTTL, true},
		{"rfq create", http.MethodPost, "/api/v1/rfqs", defaultIdempotencyTTL, true},
		{"quote submit", http.MethodPost, "/api/v1/rfqs/123/quotes", defaultIdempotencyTTL, true},
		{"checkout", http.MethodPost, "/api/v1/checkout", criticalIdempotencyTTL, true},
		{"rfq convert", http.MethodPost, "/api/v1/rfqs/123/convert", criticalIdempotencyTTL, true},
		{"quote accept", http.MethodPost, "/api/v1/quotes/abc/accept", criticalIdempotencyTTL, true},
		{"order decision", http.MethodPost, "/api/v1/orders/abc/decision", criticalIdempotencyTTL, true},
		{"read endpoint", http.MethodGet, "/api/v1/cart", 0, false},
		{"store registration", http.MethodPost, "/api/v1/stores", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.path)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyRequiresKey(t *testing.T) {
	handler := Idempotency(newFakeStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order_id":"ord-1"}}`))
	}))

	body := `{"cart_id":"abc"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "ord-1") {
			t.Fatalf("attempt %d: unexpected body %s", i, rec.Body.String())
		}
	}

	if calls != 1 {
		t.Fatalf("expected handler to execute once, ran %d times", calls)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"cart_id":"abc"}`))
	first.Header.Set("Idempotency-Key", "key-2")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"cart_id":"other"}`))
	second.Header.Set("Idempotency-Key", "key-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, second)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

// nestedTestRouter mirrors the real router's layout: the middleware sits on
// the /api/v1 group, routes live on nested subrouters.
func nestedTestRouter(store *fakeStore, calls *int) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Route("/rfqs", func(r chi.Router) {
			r.Post("/{id}/quotes", func(w http.ResponseWriter, _ *http.Request) {
				*calls++
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"quote_id":"q-1"}}`))
			})
		})
		r.Route("/quotes", func(r chi.Router) {
			r.Post("/{id}/accept", func(w http.ResponseWriter, _ *http.Request) {
				*calls++
				w.WriteHeader(http.StatusOK)
			})
		})
	})
	return r
}

func TestIdempotencyCoversNestedRoutes(t *testing.T) {
	var calls int
	router := nestedTestRouter(newFakeStore(), &calls)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/0b1c2d3e/quotes", strings.NewReader(`{"unit_price_cents":52000}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler ran %d times without a key", calls)
	}
}

func TestIdempotencyReplaysThroughNestedRouter(t *testing.T) {
	var calls int
	router := nestedTestRouter(newFakeStore(), &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rfqs/0b1c2d3e/quotes", strings.NewReader(`{"unit_price_cents":52000}`))
		req.Header.Set("Idempotency-Key", "submit-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "q-1") {
			t.Fatalf("attempt %d: unexpected body %s", i, rec.Body.String())
		}
	}
	if calls != 1 {
		t.Fatalf("expected handler to execute once, ran %d times", calls)
	}

	var accepts int
	acceptRouter := nestedTestRouter(newFakeStore(), &accepts)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/ab/accept", nil)
	rec := httptest.NewRecorder()
	acceptRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected accept to require a key, got %d", rec.Code)
	}
}

func TestIdempotencyScopesByStore(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for _, storeID := range []string{"store-a", "store-b"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"cart_id":"abc"}`))
		req.Header.Set("Idempotency-Key", "shared-key")
		req = req.WithContext(WithStoreID(req.Context(), storeID))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected both stores to execute, ran %d times", calls)
	}
}
