package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pricepal-backend/internal/cart"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	"github.com/angelmondragon/pricepal-backend/internal/shoppinglist"
	pkgAuth "github.com/angelmondragon/pricepal-backend/pkg/auth"
	"github.com/angelmondragon/pricepal-backend/pkg/config"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/angelmondragon/pricepal-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSearchService struct{}

func (stubSearchService) Query(ctx context.Context, input search.QueryInput) (*search.QueryResult, error) {
	return &search.QueryResult{SearchTerms: []string{input.Query}, Results: []search.EnrichedResult{}}, nil
}

func (stubSearchService) ProductDetail(ctx context.Context, productID uuid.UUID, scope search.TenantScope) (*search.ProductDetail, error) {
	return &search.ProductDetail{EnrichedResult: search.EnrichedResult{ID: productID}}, nil
}

type stubShoppingListService struct{}

func (stubShoppingListService) Process(ctx context.Context, customerID uuid.UUID, list string) (*shoppinglist.Result, error) {
	return &shoppinglist.Result{}, nil
}

func (stubShoppingListService) Update(ctx context.Context, customerID uuid.UUID, list string) (*shoppinglist.Result, error) {
	return &shoppinglist.Result{}, nil
}

func (stubShoppingListService) Clear(ctx context.Context, customerID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{CustomerID: customerID}, nil
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: uuid.New(), CustomerID: customerID}, nil
}

func (s stubCartService) AddItem(ctx context.Context, customerID uuid.UUID, input cart.ItemInput) (*models.Cart, error) {
	return s.GetCart(ctx, customerID)
}

func (s stubCartService) UpdateItem(ctx context.Context, customerID uuid.UUID, input cart.ItemInput) (*models.Cart, error) {
	return s.GetCart(ctx, customerID)
}

func (s stubCartService) RemoveItem(ctx context.Context, customerID uuid.UUID, input cart.ItemInput) (*models.Cart, error) {
	return s.GetCart(ctx, customerID)
}

func (s stubCartService) Clear(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	return s.GetCart(ctx, customerID)
}

func (s stubCartService) MergeLines(ctx context.Context, customerID uuid.UUID, lines []cart.Line, mode cart.MergeMode) (*models.Cart, error) {
	return s.GetCart(ctx, customerID)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "pricepal", ExpirationMinutes: 60},
		Search: config.SearchConfig{
			RateLimitWindow:    time.Minute,
			RateLimitPerWindow: 10,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	reg := prometheus.NewRegistry()
	metrics.NewSearchMetrics(reg).ObserveResults(1)
	return NewRouter(cfg, nil, Dependencies{
		DB:           stubPinger{},
		Gatherer:     reg,
		Search:       stubSearchService{},
		ShoppingList: stubShoppingListService{},
		Cart:         stubCartService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{UserID: uuid.New(), Role: role}
	if role.IsTenantScoped() {
		id := uuid.New()
		payload.SupermarketID = &id
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "search_results_returned") {
		t.Fatal("expected search metrics in exposition")
	}
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/products", strings.NewReader(`{"query":"rice"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestSearchOpenToTenantRoles(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.Role{enums.RoleCustomer, enums.RoleBranchManager, enums.RoleAdmin} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/search/products", strings.NewReader(`{"query":"rice"}`))
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", role, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("detail: expected 200 got %d", resp.Code)
	}
}

func TestCustomerGroupRequiresCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/cart", ""},
		{http.MethodPost, "/api/v1/shopping-list/process", `{"list":"rice"}`},
		{http.MethodPut, "/api/v1/shopping-list/update", `{"list":"rice"}`},
		{http.MethodDelete, "/api/v1/shopping-list/clear", ""},
	}
	for _, tc := range cases {
		manager := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleBranchManager))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, manager)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for branch manager got %d", tc.method, tc.path, resp.Code)
		}

		customer := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, customer)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200 for customer got %d", tc.method, tc.path, resp.Code)
		}
	}
}
