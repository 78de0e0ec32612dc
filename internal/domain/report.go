package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProfitSign filters records by the sign of their net profit.
type ProfitSign string

const (
	ProfitSignAny  ProfitSign = ""
	ProfitSignGain ProfitSign = "profit"
	ProfitSignLoss ProfitSign = "loss"
)

// ReportFilter selects sold vehicles for aggregation. All set predicates are
// ANDed; the zero value matches every sold record. Filters never mutate the
// records they inspect.
type ReportFilter struct {
	From         *time.Time
	To           *time.Time
	MarginMin    *decimal.Decimal
	MarginMax    *decimal.Decimal
	SalePriceMin *decimal.Decimal
	SalePriceMax *decimal.Decimal
	Company      string
	FuelType     string
	Sign         ProfitSign
}

// Matches reports whether a record passes every set predicate. Only sold
// records are eligible for profit reporting.
func (f ReportFilter) Matches(r *VehicleSaleRecord) bool {
	if r.Status != VehicleStatusSold {
		return false
	}

	saleDate := saleDateOrEpoch(r)
	if f.From != nil && saleDate.Before(*f.From) {
		return false
	}
	if f.To != nil && saleDate.After(*f.To) {
		return false
	}

	if f.Company != "" && !strings.EqualFold(f.Company, r.Company) {
		return false
	}
	if f.FuelType != "" && !strings.EqualFold(f.FuelType, r.FuelType) {
		return false
	}

	margin := r.Margin()
	if f.MarginMin != nil && margin.LessThan(*f.MarginMin) {
		return false
	}
	if f.MarginMax != nil && margin.GreaterThan(*f.MarginMax) {
		return false
	}

	switch f.Sign {
	case ProfitSignGain:
		if r.NetProfit().IsNegative() {
			return false
		}
	case ProfitSignLoss:
		if !r.NetProfit().IsNegative() {
			return false
		}
	}

	if f.SalePriceMin != nil && r.SalePrice.LessThan(*f.SalePriceMin) {
		return false
	}
	if f.SalePriceMax != nil && r.SalePrice.GreaterThan(*f.SalePriceMax) {
		return false
	}

	return true
}

// ProfitSummary aggregates profitability over a filtered set of records.
type ProfitSummary struct {
	Vehicles     int
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	NetProfit    decimal.Decimal
	Margin       decimal.Decimal
}

// Aggregate computes the profit summary for records passing the filter.
// Overall margin is net profit over revenue, 0 when no revenue.
func Aggregate(records []*VehicleSaleRecord, f ReportFilter) ProfitSummary {
	summary := ProfitSummary{
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		NetProfit:    decimal.Zero,
		Margin:       decimal.Zero,
	}

	for _, r := range records {
		if !f.Matches(r) {
			continue
		}

		summary.Vehicles++
		summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalPaymentReceived())
		summary.TotalCost = summary.TotalCost.Add(r.TotalCost())
		summary.NetProfit = summary.NetProfit.Add(r.NetProfit())
	}

	if summary.TotalRevenue.IsPositive() {
		summary.Margin = summary.NetProfit.Div(summary.TotalRevenue).Mul(decimal.NewFromInt(100))
	}

	return summary
}

// SortBySaleDateDesc orders records for listings: most recent sale first.
// Records without a sale date are treated as epoch-0 and sort last.
func SortBySaleDateDesc(records []*VehicleSaleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return saleDateOrEpoch(records[i]).After(saleDateOrEpoch(records[j]))
	})
}

func saleDateOrEpoch(r *VehicleSaleRecord) time.Time {
	if r.SaleDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return *r.SaleDate
}
