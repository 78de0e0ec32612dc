package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
)

func TestRecordPurchaseRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req := &RecordPurchaseRequest{
		PurchaseDate:       &date,
		RegistrationNumber: "MH12AB1234",
		Make:               "Maruti",
		Model:              "Swift",
		Company:            "Maruti Suzuki",
		FuelType:           "petrol",
		PurchasePrice:      decimal.RequireFromString("500000"),
		ModificationCost:   decimal.RequireFromString("20000"),
		AmountPaidToSeller: decimal.RequireFromString("400000"),
	}

	got := req.ToUseCaseInput()

	if got.RegistrationNumber != "MH12AB1234" || got.Make != "Maruti" || got.Model != "Swift" {
		t.Fatalf("unexpected identity fields: %+v", got)
	}
	if !got.PurchaseDate.Equal(date) {
		t.Fatalf("expected purchase date %v, got %v", date, got.PurchaseDate)
	}
	if !got.PurchasePrice.Equal(decimal.RequireFromString("500000")) {
		t.Fatalf("unexpected purchase price: %s", got.PurchasePrice)
	}
	if !got.AmountPaidToSeller.Equal(decimal.RequireFromString("400000")) {
		t.Fatalf("unexpected amount paid to seller: %s", got.AmountPaidToSeller)
	}
}

func TestRecordPurchaseRequest_ZeroDateLeftUnset(t *testing.T) {
	req := &RecordPurchaseRequest{
		Make:          "Hyundai",
		Model:         "i20",
		PurchasePrice: decimal.RequireFromString("600000"),
	}

	got := req.ToUseCaseInput()
	if !got.PurchaseDate.IsZero() {
		t.Fatalf("expected zero purchase date, got %v", got.PurchaseDate)
	}
}

func TestRecordSaleRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordSaleRequest{
		SalePrice:    decimal.RequireFromString("600000"),
		Cash:         decimal.RequireFromString("100000"),
		BankTransfer: decimal.RequireFromString("300000"),
		SecurityCheque: &SecurityChequeRequest{
			BankName:      "HDFC",
			AccountNumber: "1234567890",
			ChequeNumber:  "000111",
			Amount:        decimal.RequireFromString("200000"),
		},
	}

	got := req.ToUseCaseInput("veh-1")

	if got.VehicleID != "veh-1" {
		t.Fatalf("expected vehicle ID veh-1, got %s", got.VehicleID)
	}
	if !got.Breakdown.Total().Equal(decimal.RequireFromString("400000")) {
		t.Fatalf("unexpected breakdown total: %s", got.Breakdown.Total())
	}
	if got.Cheque == nil || !got.Cheque.Enabled {
		t.Fatalf("expected enabled security cheque, got %+v", got.Cheque)
	}
	if got.Cheque.BankName != "HDFC" {
		t.Fatalf("unexpected cheque bank: %s", got.Cheque.BankName)
	}
}

func TestRecordSaleRequest_NoCheque(t *testing.T) {
	req := &RecordSaleRequest{
		SalePrice: decimal.RequireFromString("600000"),
		Cash:      decimal.RequireFromString("600000"),
	}

	got := req.ToUseCaseInput("veh-1")
	if got.Cheque != nil {
		t.Fatalf("expected nil cheque, got %+v", got.Cheque)
	}
}

func TestApplySettlementRequest_ToUseCaseInput(t *testing.T) {
	req := &ApplySettlementRequest{
		SettlementType: "FROM_CUSTOMER",
		PaymentMode:    "cash",
		Amount:         decimal.RequireFromString("50000"),
		Notes:          "first installment",
	}

	got := req.ToUseCaseInput("veh-1")

	if got.Type != domain.SettlementFromCustomer {
		t.Fatalf("unexpected settlement type: %s", got.Type)
	}
	if got.Mode != domain.PaymentModeCash {
		t.Fatalf("unexpected payment mode: %s", got.Mode)
	}
	if !got.Amount.Equal(decimal.RequireFromString("50000")) {
		t.Fatalf("unexpected amount: %s", got.Amount)
	}
}

func TestReverseSettlementRequest_ToUseCaseInput(t *testing.T) {
	req := &ReverseSettlementRequest{Notes: "entered twice"}

	got := req.ToUseCaseInput("veh-1", "stl-9")

	if got.VehicleID != "veh-1" || got.SettlementID != "stl-9" || got.Notes != "entered twice" {
		t.Fatalf("unexpected input: %+v", got)
	}
}
