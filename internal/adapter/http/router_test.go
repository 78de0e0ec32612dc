package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/motorbook/dealerledger/internal/adapter/http/handler"
	apimiddleware "github.com/motorbook/dealerledger/internal/adapter/http/middleware"
	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/infrastructure/auth"
	"github.com/motorbook/dealerledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"make":"Maruti","model":"Swift","purchase_price":"500000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/vehicles/",
		"GET /api/v1/vehicles/",
		"GET /api/v1/vehicles/{id}",
		"POST /api/v1/vehicles/{id}/sale",
		"POST /api/v1/vehicles/{id}/settlements",
		"POST /api/v1/vehicles/{id}/settlements/{settlementID}/reverse",
		"GET /api/v1/vehicles/{id}/profit",
		"GET /api/v1/reports/profit",
		"GET /api/v1/reports/pending",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_RoleGuards(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	viewerToken := mustToken(t, jwtManager, &domain.User{ID: "u-viewer", Email: "v@dealer.in", Role: domain.RoleViewer})
	operatorToken := mustToken(t, jwtManager, &domain.User{ID: "u-op", Email: "o@dealer.in", Role: domain.RoleOperator})
	adminToken := mustToken(t, jwtManager, &domain.User{ID: "u-admin", Email: "a@dealer.in", Role: domain.RoleAdmin})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"unauthenticated list rejected", http.MethodGet, "/api/v1/vehicles/", "", http.StatusUnauthorized},
		{"viewer can list", http.MethodGet, "/api/v1/vehicles/", viewerToken, http.StatusOK},
		{"viewer cannot settle", http.MethodPost, "/api/v1/vehicles/veh-1/settlements", viewerToken, http.StatusForbidden},
		{"operator can settle", http.MethodPost, "/api/v1/vehicles/veh-1/settlements", operatorToken, http.StatusCreated},
		{"operator cannot reverse", http.MethodPost, "/api/v1/vehicles/veh-1/settlements/stl-1/reverse", operatorToken, http.StatusForbidden},
		{"admin can reverse", http.MethodPost, "/api/v1/vehicles/veh-1/settlements/stl-1/reverse", adminToken, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.method == http.MethodPost {
				body = strings.NewReader(`{"settlement_type":"FROM_CUSTOMER","payment_mode":"cash","amount":"100"}`)
			} else {
				body = strings.NewReader("")
			}

			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d (body %s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func mustToken(t *testing.T, jwtManager *auth.JWTManager, user *domain.User) string {
	t.Helper()
	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		VehicleHandler: handler.NewVehicleHandler(&stubVehicleService{}),
		LedgerHandler:  handler.NewLedgerHandler(&stubLedgerService{}),
		ReportHandler:  handler.NewReportHandler(&stubReportService{}),
		HealthHandler:  &handler.HealthHandler{},
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubVehicleService struct{}

func (stubVehicleService) RecordPurchase(ctx context.Context, input usecase.RecordPurchaseInput) (*domain.VehicleSaleRecord, error) {
	return &domain.VehicleSaleRecord{ID: "veh"}, nil
}

func (stubVehicleService) GetVehicle(ctx context.Context, id string) (*domain.VehicleSaleRecord, error) {
	return &domain.VehicleSaleRecord{ID: id}, nil
}

func (stubVehicleService) ListVehicles(ctx context.Context, input usecase.ListVehiclesInput) ([]*domain.VehicleSaleRecord, error) {
	return []*domain.VehicleSaleRecord{}, nil
}

func (stubVehicleService) History(ctx context.Context, vehicleID string) ([]*domain.SettlementEvent, error) {
	return []*domain.SettlementEvent{}, nil
}

func (stubVehicleService) SettledTotal(ctx context.Context, vehicleID string) (*usecase.SettledTotals, error) {
	return &usecase.SettledTotals{}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) RecordSale(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error) {
	return &domain.VehicleSaleRecord{ID: input.VehicleID}, nil
}

func (stubLedgerService) ApplySettlement(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
	return &domain.VehicleSaleRecord{ID: input.VehicleID}, nil
}

func (stubLedgerService) ReverseSettlement(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
	return &domain.VehicleSaleRecord{ID: input.VehicleID}, nil
}

type stubReportService struct{}

func (stubReportService) VehicleProfit(ctx context.Context, vehicleID string) (*usecase.VehicleProfitView, error) {
	return &usecase.VehicleProfitView{VehicleID: vehicleID}, nil
}

func (stubReportService) AggregateProfit(ctx context.Context, filter domain.ReportFilter) (*usecase.ProfitReport, error) {
	return &usecase.ProfitReport{}, nil
}

func (stubReportService) PendingSettlements(ctx context.Context) ([]*domain.VehicleSaleRecord, error) {
	return []*domain.VehicleSaleRecord{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
