package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

type fakeIdempotencyStore struct {
	data map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: make(map[string]string)}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"checkout confirm", http.MethodPost, "/api/v1/checkout/confirm", criticalIdempotencyTTL, true},
		{"register", http.MethodPost, "/api/v1/auth/register", defaultIdempotencyTTL, true},
		{"matching select", http.MethodPost, "/api/v1/matching/select", defaultIdempotencyTTL, true},
		{"shopping list items", http.MethodPost, "/api/v1/shopping-lists/{listID}/items", defaultIdempotencyTTL, true},
		{"checkout preview not covered", http.MethodPost, "/api/v1/checkout/preview", 0, false},
		{"login not covered", http.MethodPost, "/api/v1/auth/login", 0, false},
		{"get is never idempotency-guarded", http.MethodGet, "/api/v1/checkout/confirm", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ttl, ok := routeTTL(tt.method, tt.pattern)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, ttl)
			}
		})
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	mw := Idempotency(newFakeIdempotencyStore(), nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/auth/register", "/api/v1/auth/register", strings.NewReader(`{"foo":"bar"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, handlerCalled, "handler should not run without idempotency key")
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	mw := Idempotency(newFakeIdempotencyStore(), nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/checkout/confirm", "/api/v1/checkout/confirm", strings.NewReader(`{"shopping_list_id":"sl-1"}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	require.Equal(t, http.StatusAccepted, resp.Code)

	replay := requestWithPattern(http.MethodPost, "/api/v1/checkout/confirm", "/api/v1/checkout/confirm", strings.NewReader(`{"shopping_list_id":"sl-1"}`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, 1, calls, "handler must run exactly once per key")
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	mw := Idempotency(newFakeIdempotencyStore(), nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/matching/select", "/api/v1/matching/select", strings.NewReader(`{"offer_id":"o-1"}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := requestWithPattern(http.MethodPost, "/api/v1/matching/select", "/api/v1/matching/select", strings.NewReader(`{"offer_id":"o-2"}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	require.Equal(t, http.StatusConflict, resp.Code)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, string(pkgerrors.CodeIdempotency), payload.Error.Code)
}

func TestIdempotencyMiddlewareSkipsUncoveredRoutes(t *testing.T) {
	mw := Idempotency(newFakeIdempotencyStore(), nil)
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// No Idempotency-Key header and the route is not in the rule table.
	req := requestWithPattern(http.MethodPost, "/api/v1/auth/login", "/api/v1/auth/login", strings.NewReader(`{}`))
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
