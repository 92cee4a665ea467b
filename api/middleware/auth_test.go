package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/pricepal-backend/pkg/auth"
	"github.com/angelmondragon/pricepal-backend/pkg/config"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/google/uuid"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := Auth(cfg, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsForeignIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	token := mintTestToken(t, config.JWTConfig{Secret: "secret", Issuer: "other", ExpirationMinutes: 10}, enums.RoleCustomer, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	Auth(cfg, nil)(okHandler()).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	supermarketID := uuid.New()
	token := mintTestToken(t, cfg, enums.RoleBranchManager, &supermarketID)

	var captured struct {
		user        string
		role        string
		supermarket string
	}
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.supermarket = SupermarketIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user == "" {
		t.Fatal("expected user id in context")
	}
	if captured.role != string(enums.RoleBranchManager) {
		t.Fatalf("expected role branch manager got %s", captured.role)
	}
	if captured.supermarket != supermarketID.String() {
		t.Fatalf("expected supermarket %s got %s", supermarketID, captured.supermarket)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(nil, enums.RoleCustomer)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleAdmin)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleCustomer)))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.Role, supermarketID *uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID:        uuid.New(),
		Role:          role,
		SupermarketID: supermarketID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type fakeRateStore struct {
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := RateLimitPolicy{Name: "search", Window: time.Minute, Limit: 2}
	handler := RateLimit(policy, store, nil)(okHandler())

	do := func(userID string) int {
		req := httptest.NewRequest(http.MethodPost, "/search/products", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := do("u1"); code != http.StatusOK {
		t.Fatalf("first request: expected 200 got %d", code)
	}
	if code := do("u1"); code != http.StatusOK {
		t.Fatalf("second request: expected 200 got %d", code)
	}
	if code := do("u1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: expected 429 got %d", code)
	}
	if code := do("u2"); code != http.StatusOK {
		t.Fatalf("other user: expected 200 got %d", code)
	}
	if store.counts["search:user:u1"] != 3 {
		t.Fatalf("unexpected counter %d", store.counts["search:user:u1"])
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(RateLimitPolicy{Name: "search", Window: time.Minute, Limit: 1}, store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if store.counts["search:ip:203.0.113.9"] != 1 {
		t.Fatalf("expected ip scoped counter, got %v", store.counts)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := RateLimit(RateLimitPolicy{Name: "search", Window: time.Minute, Limit: 1}, store, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
