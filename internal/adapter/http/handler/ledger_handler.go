package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorbook/dealerledger/internal/adapter/http/dto"
	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	RecordSale(ctx context.Context, input usecase.RecordSaleInput) (*domain.VehicleSaleRecord, error)
	ApplySettlement(ctx context.Context, input usecase.ApplySettlementInput) (*domain.VehicleSaleRecord, error)
	ReverseSettlement(ctx context.Context, input usecase.ReverseSettlementInput) (*domain.VehicleSaleRecord, error)
}

// LedgerHandler handles the mutation endpoints of the payment ledger.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// RecordSale marks a vehicle sold and opens its customer balance.
func (h *LedgerHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	var req dto.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.ledgerUC.RecordSale(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record sale", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.VehicleFromDomain(record))
}

// ApplySettlement appends a settlement event against an outstanding balance.
func (h *LedgerHandler) ApplySettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	var req dto.ApplySettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.ledgerUC.ApplySettlement(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to apply settlement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.VehicleFromDomain(record))
}

// ReverseSettlement appends a compensating entry for a mistaken settlement.
func (h *LedgerHandler) ReverseSettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	settlementID := chi.URLParam(r, "settlementID")
	if id == "" || settlementID == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle or settlement ID", "")
		return
	}

	var req dto.ReverseSettlementRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	record, err := h.ledgerUC.ReverseSettlement(r.Context(), req.ToUseCaseInput(id, settlementID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse settlement", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.VehicleFromDomain(record))
}
