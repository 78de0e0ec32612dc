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

// VehicleService defines the behavior needed by VehicleHandler.
type VehicleService interface {
	RecordPurchase(ctx context.Context, input usecase.RecordPurchaseInput) (*domain.VehicleSaleRecord, error)
	GetVehicle(ctx context.Context, id string) (*domain.VehicleSaleRecord, error)
	ListVehicles(ctx context.Context, input usecase.ListVehiclesInput) ([]*domain.VehicleSaleRecord, error)
	History(ctx context.Context, vehicleID string) ([]*domain.SettlementEvent, error)
	SettledTotal(ctx context.Context, vehicleID string) (*usecase.SettledTotals, error)
}

// VehicleHandler handles vehicle record HTTP requests.
type VehicleHandler struct {
	vehicleUC VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleUC VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleUC: vehicleUC}
}

// Create records a vehicle purchase.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.vehicleUC.RecordPurchase(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record purchase", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.VehicleFromDomain(record))
}

// Get retrieves a vehicle record with its settlement ledger.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	record, err := h.vehicleUC.GetVehicle(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get vehicle", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.VehicleFromDomain(record))
}

// List lists vehicle records, most recent sale first.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.vehicleUC.ListVehicles(r.Context(), usecase.ListVehiclesInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListVehiclesResponse{
		Vehicles: dto.VehiclesFromDomain(records),
		Total:    int64(len(records)),
	})
}

// History returns a vehicle's settlement ledger, most recent first.
func (h *VehicleHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	events, err := h.vehicleUC.History(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get settlement history", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementsFromDomain(events))
}

// SettledTotals returns how much has been settled in each direction.
func (h *VehicleHandler) SettledTotals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	totals, err := h.vehicleUC.SettledTotal(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get settled totals", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SettledTotalsResponse{
		FromCustomer: totals.FromCustomer,
		ToSeller:     totals.ToSeller,
	})
}
