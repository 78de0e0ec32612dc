package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/motorbook/dealerledger/internal/adapter/http/dto"
	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	VehicleProfit(ctx context.Context, vehicleID string) (*usecase.VehicleProfitView, error)
	AggregateProfit(ctx context.Context, filter domain.ReportFilter) (*usecase.ProfitReport, error)
	PendingSettlements(ctx context.Context) ([]*domain.VehicleSaleRecord, error)
}

// ReportHandler handles profitability report HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// VehicleProfit returns the profit view for one vehicle.
func (h *ReportHandler) VehicleProfit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing vehicle ID", "")
		return
	}

	view, err := h.reportUC.VehicleProfit(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute vehicle profit", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, view)
}

// AggregateProfit returns the aggregate profit report for the query filter.
func (h *ReportHandler) AggregateProfit(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	report, err := h.reportUC.AggregateProfit(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute profit report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// PendingSettlements lists sold vehicles with an open balance.
func (h *ReportHandler) PendingSettlements(w http.ResponseWriter, r *http.Request) {
	records, err := h.reportUC.PendingSettlements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list pending settlements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListVehiclesResponse{
		Vehicles: dto.VehiclesFromDomain(records),
		Total:    int64(len(records)),
	})
}

func filterFromQuery(r *http.Request) domain.ReportFilter {
	return domain.ReportFilter{
		From:         parseTimeQuery(r, "from"),
		To:           parseTimeQuery(r, "to"),
		Company:      r.URL.Query().Get("company"),
		FuelType:     r.URL.Query().Get("fuel_type"),
		MarginMin:    parseDecimalQuery(r, "margin_min"),
		MarginMax:    parseDecimalQuery(r, "margin_max"),
		Sign:         domain.ProfitSign(r.URL.Query().Get("sign")),
		SalePriceMin: parseDecimalQuery(r, "sale_price_min"),
		SalePriceMax: parseDecimalQuery(r, "sale_price_max"),
	}
}
