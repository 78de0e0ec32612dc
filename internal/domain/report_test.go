package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func reportFixtures() []*VehicleSaleRecord {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)

	return []*VehicleSaleRecord{
		{
			ID:            "profitable",
			Status:        VehicleStatusSold,
			Company:       "Maruti",
			FuelType:      "petrol",
			PurchasePrice: decimal.NewFromInt(530000),
			SalePrice:     decimal.NewFromInt(600000),
			PaymentCash:   decimal.NewFromInt(600000),
			SaleDate:      &feb,
		},
		{
			ID:            "loss-making",
			Status:        VehicleStatusSold,
			Company:       "Hyundai",
			FuelType:      "diesel",
			PurchasePrice: decimal.NewFromInt(100000),
			SalePrice:     decimal.NewFromInt(80000),
			PaymentCash:   decimal.NewFromInt(80000),
			SaleDate:      &jan,
		},
		{
			ID:            "unsold",
			Status:        VehicleStatusInStock,
			Company:       "Maruti",
			PurchasePrice: decimal.NewFromInt(300000),
		},
	}
}

func TestAggregate_Scenario(t *testing.T) {
	// Two sold vehicles: profits 70000 and -20000, revenue 600000 and 80000.
	summary := Aggregate(reportFixtures(), ReportFilter{})

	if summary.Vehicles != 2 {
		t.Errorf("Vehicles = %d, want 2 (unsold excluded)", summary.Vehicles)
	}

	if !summary.NetProfit.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("NetProfit = %s, want 50000", summary.NetProfit)
	}

	if !summary.TotalRevenue.Equal(decimal.NewFromInt(680000)) {
		t.Errorf("TotalRevenue = %s, want 680000", summary.TotalRevenue)
	}

	if got := summary.Margin.Round(2); got.String() != "7.35" {
		t.Errorf("Margin = %s, want 7.35", got)
	}
}

func TestAggregate_EmptySet(t *testing.T) {
	summary := Aggregate(nil, ReportFilter{})

	if summary.Vehicles != 0 {
		t.Errorf("Vehicles = %d, want 0", summary.Vehicles)
	}

	if !summary.Margin.IsZero() {
		t.Errorf("Margin = %s, want 0 when revenue is 0", summary.Margin)
	}
}

func TestReportFilter_Matches(t *testing.T) {
	records := reportFixtures()
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	minMargin := decimal.NewFromInt(5)
	priceFloor := decimal.NewFromInt(500000)

	tests := []struct {
		name    string
		filter  ReportFilter
		wantIDs map[string]bool
	}{
		{
			name:    "company filter is case-insensitive",
			filter:  ReportFilter{Company: "maruti"},
			wantIDs: map[string]bool{"profitable": true},
		},
		{
			name:    "fuel type",
			filter:  ReportFilter{FuelType: "diesel"},
			wantIDs: map[string]bool{"loss-making": true},
		},
		{
			name:    "date range",
			filter:  ReportFilter{From: &jan10, To: &jan31},
			wantIDs: map[string]bool{"loss-making": true},
		},
		{
			name:    "profit sign",
			filter:  ReportFilter{Sign: ProfitSignLoss},
			wantIDs: map[string]bool{"loss-making": true},
		},
		{
			name:    "margin band",
			filter:  ReportFilter{MarginMin: &minMargin},
			wantIDs: map[string]bool{"profitable": true},
		},
		{
			name:    "sale price floor",
			filter:  ReportFilter{SalePriceMin: &priceFloor},
			wantIDs: map[string]bool{"profitable": true},
		},
		{
			name:    "combined AND",
			filter:  ReportFilter{Company: "Maruti", Sign: ProfitSignLoss},
			wantIDs: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range records {
				got := tt.filter.Matches(r)
				if got != tt.wantIDs[r.ID] {
					t.Errorf("Matches(%s) = %v, want %v", r.ID, got, tt.wantIDs[r.ID])
				}
			}
		})
	}
}

func TestSortBySaleDateDesc(t *testing.T) {
	records := reportFixtures()

	SortBySaleDateDesc(records)

	want := []string{"profitable", "loss-making", "unsold"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("records[%d] = %s, want %s", i, records[i].ID, id)
		}
	}
}
