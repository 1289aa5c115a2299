package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	authsvc "github.com/rlmonteiro/essencia-backend/internal/auth"
	cartsvc "github.com/rlmonteiro/essencia-backend/internal/cart"
	catalogsvc "github.com/rlmonteiro/essencia-backend/internal/catalog"
	checkoutsvc "github.com/rlmonteiro/essencia-backend/internal/checkout"
	searchsvc "github.com/rlmonteiro/essencia-backend/internal/search"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	"github.com/rlmonteiro/essencia-backend/pkg/db/models"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/metrics"
	redisclient "github.com/rlmonteiro/essencia-backend/pkg/redis"
	"github.com/rlmonteiro/essencia-backend/pkg/security"
	"github.com/rlmonteiro/essencia-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type kvStub struct {
	data map[string]string
}

func newKVStub() *kvStub {
	return &kvStub{data: map[string]string{}}
}

func (s *kvStub) Get(_ context.Context, key string) (string, error) {
	value, ok := s.data[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return value, nil
}

func (s *kvStub) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *kvStub) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *kvStub) CartKey(sessionID string) string     { return "essencia:cart:" + sessionID }
func (s *kvStub) CheckoutKey(sessionID string) string { return "essencia:checkout:" + sessionID }

type stubCatalog struct {
	catalogsvc.Service
	courses []models.Course
}

func (s stubCatalog) ListCourses(context.Context) ([]models.Course, error) {
	return s.courses, nil
}

func (s stubCatalog) ListAllCourses(context.Context) ([]models.Course, error) {
	return s.courses, nil
}

func (s stubCatalog) ListProducts(context.Context) ([]models.Product, error) {
	return nil, nil
}

func (s stubCatalog) ListPublications(context.Context) ([]models.Publication, error) {
	return nil, nil
}

const (
	adminEmail    = "admin@essencia.com.br"
	adminPassword = "s3nha-forte"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	hash, err := security.HashPassword(adminPassword, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.App.CORSOrigins = []string{"http://localhost:3000"}
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "essencia", ExpirationMinutes: 60}
	cfg.Admin = config.AdminConfig{Email: adminEmail, PasswordHash: hash}

	cartService, err := cartsvc.NewService(newKVStub(), logg, time.Hour)
	if err != nil {
		t.Fatalf("building cart service: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(cartService, newKVStub(), logg, checkoutsvc.Options{
		DeliveryFee: decimal.RequireFromString("15.00"),
		SessionTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("building checkout service: %v", err)
	}
	catalog := stubCatalog{}
	searchService, err := searchsvc.NewService(catalog, logg, searchsvc.Options{})
	if err != nil {
		t.Fatalf("building search service: %v", err)
	}
	authService, err := authsvc.NewService(cfg.JWT, cfg.Admin, logg)
	if err != nil {
		t.Fatalf("building auth service: %v", err)
	}

	registry := prometheus.NewRegistry()
	return NewRouter(cfg, logg, Dependencies{
		DB:              stubPinger{},
		Redis:           stubPinger{},
		Catalog:         catalog,
		Search:          searchService,
		Cart:            cartService,
		Checkout:        checkoutService,
		Auth:            authService,
		MetricsRegistry: registry,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
	})
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for live, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", rec.Code)
	}
}

func TestCartSessionMinting(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	sessionID := rec.Header().Get("X-Session-Id")
	if sessionID == "" {
		t.Fatal("expected a minted session id header")
	}

	// the same session accumulates items across requests
	body := strings.NewReader(`{"id":"prod-1","name":"Óleo Essencial de Lavanda","price":"62.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("X-Session-Id", sessionID)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding cart response: %v", err)
	}
	payload := envelope.Data.(map[string]any)
	if payload["total_items"].(float64) != 1 {
		t.Fatalf("expected 1 item in cart, got %v", payload["total_items"])
	}
}

func TestCheckoutBeginGuardOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/begin", nil)
	req.Header.Set("X-Session-Id", "sess-http-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty cart, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/courses/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// login and retry with the bearer token
	loginBody := strings.NewReader(`{"email":"` + adminEmail + `","password":"` + adminPassword + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", loginBody)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	token := envelope.Data.(map[string]any)["access_token"].(string)
	if token == "" {
		t.Fatal("expected an access token")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/courses/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchRoute(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=a", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	results := envelope.Data.(map[string]any)["results"]
	if list, ok := results.([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty results for short query, got %v", results)
	}
}
