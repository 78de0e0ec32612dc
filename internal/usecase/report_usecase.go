package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
)

// ReportUseCase derives per-vehicle and aggregate profitability. Reads only;
// aggregate responses are cached for a short TTL since the dashboard polls
// them far more often than the ledger changes.
type ReportUseCase struct {
	vehicleRepo VehicleRepository
	cache       Cache
	logger      zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(vehicleRepo VehicleRepository, cache Cache, logger zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{
		vehicleRepo: vehicleRepo,
		cache:       cache,
		logger:      logger,
	}
}

// VehicleProfitView is the per-vehicle profitability read model.
type VehicleProfitView struct {
	VehicleID               string                    `json:"vehicle_id"`
	TotalPaymentReceived    decimal.Decimal           `json:"total_payment_received"`
	TotalCost               decimal.Decimal           `json:"total_cost"`
	NetProfit               decimal.Decimal           `json:"net_profit"`
	Margin                  decimal.Decimal           `json:"margin"`
	RemainingAmount         decimal.Decimal           `json:"remaining_amount"`
	RemainingAmountToSeller decimal.Decimal           `json:"remaining_amount_to_seller"`
	PendingPaymentType      domain.PendingPaymentType `json:"pending_payment_type"`
	Settled                 bool                      `json:"settled"`
}

// VehicleProfit derives the profit view for one record.
func (uc *ReportUseCase) VehicleProfit(ctx context.Context, vehicleID string) (*VehicleProfitView, error) {
	record, err := uc.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return &VehicleProfitView{
		VehicleID:               record.ID,
		TotalPaymentReceived:    record.TotalPaymentReceived(),
		TotalCost:               record.TotalCost(),
		NetProfit:               record.NetProfit(),
		Margin:                  domain.RoundMoney(record.Margin()),
		RemainingAmount:         record.RemainingAmount,
		RemainingAmountToSeller: record.RemainingAmountToSeller,
		PendingPaymentType:      record.PendingPaymentType,
		Settled:                 record.IsSettled(),
	}, nil
}

// ProfitReport is the aggregate read model: the summary plus the matching
// records sorted by sale date descending.
type ProfitReport struct {
	Summary  domain.ProfitSummary `json:"summary"`
	Vehicles []*VehicleProfitView `json:"vehicles"`
}

// AggregateProfit computes the profit report over sold vehicles matching the
// filter.
func (uc *ReportUseCase) AggregateProfit(ctx context.Context, filter domain.ReportFilter) (*ProfitReport, error) {
	cacheKey := reportCacheKey(filter)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var report ProfitReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	records, err := uc.vehicleRepo.ListSold(ctx, filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.VehicleSaleRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}

	domain.SortBySaleDateDesc(matched)

	report := &ProfitReport{
		Summary:  domain.Aggregate(matched, filter),
		Vehicles: make([]*VehicleProfitView, 0, len(matched)),
	}
	report.Summary.Margin = domain.RoundMoney(report.Summary.Margin)

	for _, r := range matched {
		report.Vehicles = append(report.Vehicles, &VehicleProfitView{
			VehicleID:               r.ID,
			TotalPaymentReceived:    r.TotalPaymentReceived(),
			TotalCost:               r.TotalCost(),
			NetProfit:               r.NetProfit(),
			Margin:                  domain.RoundMoney(r.Margin()),
			RemainingAmount:         r.RemainingAmount,
			RemainingAmountToSeller: r.RemainingAmountToSeller,
			PendingPaymentType:      r.PendingPaymentType,
			Settled:                 r.IsSettled(),
		})
	}

	if uc.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, string(data), ReportCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache profit report")
			}
		}
	}

	return report, nil
}

// PendingSettlements lists sold vehicles that still have an open balance in
// either direction, for the back-office follow-up view.
func (uc *ReportUseCase) PendingSettlements(ctx context.Context) ([]*domain.VehicleSaleRecord, error) {
	records, err := uc.vehicleRepo.ListSold(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	pending := make([]*domain.VehicleSaleRecord, 0)
	for _, r := range records {
		if !r.IsSettled() {
			pending = append(pending, r)
		}
	}

	domain.SortBySaleDateDesc(pending)

	return pending, nil
}

func reportCacheKey(filter domain.ReportFilter) string {
	data, _ := json.Marshal(struct {
		From         *time.Time
		To           *time.Time
		Company      string
		FuelType     string
		MarginMin    *decimal.Decimal
		MarginMax    *decimal.Decimal
		Sign         domain.ProfitSign
		SalePriceMin *decimal.Decimal
		SalePriceMax *decimal.Decimal
	}{
		filter.From, filter.To, filter.Company, filter.FuelType,
		filter.MarginMin, filter.MarginMax, filter.Sign,
		filter.SalePriceMin, filter.SalePriceMax,
	})

	sum := sha256.Sum256(data)

	return "report:profit:" + hex.EncodeToString(sum[:8])
}
