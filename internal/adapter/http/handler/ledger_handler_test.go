package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

type fakeLedgerService struct {
	recordSaleFn        func(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error)
	applySettlementFn   func(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error)
	reverseSettlementFn func(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error)
}

func (f *fakeLedgerService) RecordSale(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error) {
	return f.recordSaleFn(ctx, input)
}

func (f *fakeLedgerService) ApplySettlement(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
	return f.applySettlementFn(ctx, input)
}

func (f *fakeLedgerService) ReverseSettlement(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
	return f.reverseSettlementFn(ctx, input)
}

func newLedgerRequest(method, target, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLedgerHandler_RecordSale(t *testing.T) {
	svc := &fakeLedgerService{
		recordSaleFn: func(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error) {
			assert.Equal(t, "veh-1", input.VehicleID)
			assert.True(t, input.SalePrice.Equal(decimal.RequireFromString("600000")))
			assert.True(t, input.Breakdown.Cash.Equal(decimal.RequireFromString("400000")))
			require.NotNil(t, input.Cheque)
			assert.True(t, input.Cheque.Enabled)

			sold := &domain.VehicleSaleRecord{
				ID:              "veh-1",
				Status:          domain.VehicleStatusSold,
				SalePrice:       input.SalePrice,
				RemainingAmount: input.Cheque.Amount,
			}
			sold.RecomputePendingPayment()
			return sold, nil
		},
	}
	h := NewLedgerHandler(svc)

	body := `{
		"sale_price": "600000",
		"cash": "400000",
		"security_cheque": {"bank_name": "HDFC", "cheque_number": "000111", "amount": "200000"}
	}`
	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/sale", body, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.RecordSale(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending_payment_type":"PENDING_FROM_CUSTOMER"`)
}

func TestLedgerHandler_RecordSale_InvalidBody(t *testing.T) {
	h := NewLedgerHandler(&fakeLedgerService{})

	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/sale", `{bad json`, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.RecordSale(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerHandler_RecordSale_AlreadySold(t *testing.T) {
	svc := &fakeLedgerService{
		recordSaleFn: func(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error) {
			return nil, domain.NewValidationError(domain.ErrAlreadySold)
		},
	}
	h := NewLedgerHandler(svc)

	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/sale", `{"sale_price":"600000"}`, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.RecordSale(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already sold")
}

func TestLedgerHandler_ApplySettlement(t *testing.T) {
	svc := &fakeLedgerService{
		applySettlementFn: func(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
			assert.Equal(t, domain.SettlementFromCustomer, input.Type)
			assert.Equal(t, domain.PaymentModeCash, input.Mode)
			assert.True(t, input.Amount.Equal(decimal.RequireFromString("50000")))

			return &domain.VehicleSaleRecord{ID: input.VehicleID, Status: domain.VehicleStatusSold}, nil
		},
	}
	h := NewLedgerHandler(svc)

	body := `{"settlement_type":"FROM_CUSTOMER","payment_mode":"cash","amount":"50000"}`
	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/settlements", body, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.ApplySettlement(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLedgerHandler_ApplySettlement_Overpayment(t *testing.T) {
	svc := &fakeLedgerService{
		applySettlementFn: func(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
			return nil, domain.NewOverpaymentError(domain.SettlementFromCustomer,
				decimal.RequireFromString("300000"), decimal.RequireFromString("200000"))
		},
	}
	h := NewLedgerHandler(svc)

	body := `{"settlement_type":"FROM_CUSTOMER","payment_mode":"cash","amount":"300000"}`
	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/settlements", body, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.ApplySettlement(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "outstanding")
}

func TestLedgerHandler_ApplySettlement_VersionConflict(t *testing.T) {
	svc := &fakeLedgerService{
		applySettlementFn: func(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
			return nil, domain.ErrVersionConflict
		},
	}
	h := NewLedgerHandler(svc)

	body := `{"settlement_type":"FROM_CUSTOMER","payment_mode":"cash","amount":"100"}`
	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/settlements", body, map[string]string{"id": "veh-1"})
	rec := httptest.NewRecorder()

	h.ApplySettlement(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLedgerHandler_ReverseSettlement(t *testing.T) {
	svc := &fakeLedgerService{
		reverseSettlementFn: func(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
			assert.Equal(t, "veh-1", input.VehicleID)
			assert.Equal(t, "stl-9", input.SettlementID)

			return &domain.VehicleSaleRecord{ID: input.VehicleID, Status: domain.VehicleStatusSold}, nil
		},
	}
	h := NewLedgerHandler(svc)

	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/settlements/stl-9/reverse", "",
		map[string]string{"id": "veh-1", "settlementID": "stl-9"})
	rec := httptest.NewRecorder()

	h.ReverseSettlement(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLedgerHandler_ReverseSettlement_AlreadyReversed(t *testing.T) {
	svc := &fakeLedgerService{
		reverseSettlementFn: func(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
			return nil, domain.NewValidationError(domain.ErrAlreadyReversed)
		},
	}
	h := NewLedgerHandler(svc)

	req := newLedgerRequest(http.MethodPost, "/api/v1/vehicles/veh-1/settlements/stl-9/reverse", "",
		map[string]string{"id": "veh-1", "settlementID": "stl-9"})
	rec := httptest.NewRecorder()

	h.ReverseSettlement(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
