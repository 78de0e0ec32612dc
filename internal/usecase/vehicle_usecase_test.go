package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
	"github.com/motorbook/dealerledger/internal/usecase/mocks"
)

func newVehicleUseCase(vehicleRepo *mocks.MockVehicleRepository) *usecase.VehicleUseCase {
	return usecase.NewVehicleUseCase(
		mocks.NewMockTransactionManager(),
		vehicleRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func TestVehicleUseCase_RecordPurchase(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RecordPurchaseInput
		expectError bool
		errorType   error
	}{
		{
			name: "successful purchase",
			input: usecase.RecordPurchaseInput{
				Make:               "Hyundai",
				Model:              "i20",
				Company:            "Hyundai",
				FuelType:           "petrol",
				PurchasePrice:      decimal.NewFromInt(450000),
				ModificationCost:   decimal.NewFromInt(15000),
				AmountPaidToSeller: decimal.NewFromInt(300000),
			},
		},
		{
			name: "zero purchase price rejected",
			input: usecase.RecordPurchaseInput{
				Make:          "Hyundai",
				Model:         "i20",
				PurchasePrice: decimal.Zero,
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "negative cost component rejected",
			input: usecase.RecordPurchaseInput{
				Make:             "Hyundai",
				Model:            "i20",
				PurchasePrice:    decimal.NewFromInt(450000),
				ModificationCost: decimal.NewFromInt(-100),
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "paying seller more than purchase price rejected",
			input: usecase.RecordPurchaseInput{
				Make:               "Hyundai",
				Model:              "i20",
				PurchasePrice:      decimal.NewFromInt(450000),
				AmountPaidToSeller: decimal.NewFromInt(500000),
			},
			expectError: true,
			errorType:   domain.ErrOverpayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newVehicleUseCase(mocks.NewMockVehicleRepository())

			record, err := uc.RecordPurchase(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if record.Status != domain.VehicleStatusInStock {
				t.Errorf("expected status in_stock, got %s", record.Status)
			}

			owed := tt.input.PurchasePrice.Sub(tt.input.AmountPaidToSeller)
			if !record.RemainingAmountToSeller.Equal(owed) {
				t.Errorf("expected seller balance %s, got %s", owed, record.RemainingAmountToSeller)
			}

			if record.PendingPaymentType != domain.PendingToSeller {
				t.Errorf("expected PENDING_TO_SELLER, got %q", record.PendingPaymentType)
			}
		})
	}
}

func TestVehicleUseCase_ListVehicles_SortedBySaleDate(t *testing.T) {
	vehicleRepo := mocks.NewMockVehicleRepository()

	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := newInStockRecord("veh-a")
	a.SaleDate = &older
	b := newInStockRecord("veh-b")
	b.SaleDate = &newer
	c := newInStockRecord("veh-c") // never sold, no sale date

	vehicleRepo.Seed(a)
	vehicleRepo.Seed(b)
	vehicleRepo.Seed(c)

	uc := newVehicleUseCase(vehicleRepo)

	records, err := uc.ListVehicles(context.Background(), usecase.ListVehiclesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].ID != "veh-b" || records[1].ID != "veh-a" || records[2].ID != "veh-c" {
		t.Errorf("expected order veh-b, veh-a, veh-c; got %s, %s, %s",
			records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestVehicleUseCase_History(t *testing.T) {
	record := newSoldRecord(t, "veh-1")
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2", "s3"} {
		event := &domain.SettlementEvent{
			ID:        id,
			VehicleID: "veh-1",
			Type:      domain.SettlementFromCustomer,
			Mode:      domain.PaymentModeCash,
			Amount:    decimal.NewFromInt(1000),
			SettledAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := record.ApplySettlement(event); err != nil {
			t.Fatalf("ApplySettlement: %v", err)
		}
	}

	vehicleRepo := mocks.NewMockVehicleRepository()
	vehicleRepo.Seed(record)
	uc := newVehicleUseCase(vehicleRepo)

	history, err := uc.History(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}

	if history[0].ID != "s3" || history[2].ID != "s1" {
		t.Errorf("expected most recent first, got %s .. %s", history[0].ID, history[2].ID)
	}
}

func TestVehicleUseCase_SettledTotal(t *testing.T) {
	record := newSoldRecord(t, "veh-1")

	if err := record.ApplySettlement(&domain.SettlementEvent{
		ID: "s1", VehicleID: "veh-1",
		Type: domain.SettlementFromCustomer, Mode: domain.PaymentModeCash,
		Amount: decimal.NewFromInt(30000), SettledAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("ApplySettlement: %v", err)
	}
	if err := record.ApplySettlement(&domain.SettlementEvent{
		ID: "s2", VehicleID: "veh-1",
		Type: domain.SettlementToSeller, Mode: domain.PaymentModeBankTransfer,
		Amount: decimal.NewFromInt(40000), SettledAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("ApplySettlement: %v", err)
	}

	vehicleRepo := mocks.NewMockVehicleRepository()
	vehicleRepo.Seed(record)
	uc := newVehicleUseCase(vehicleRepo)

	totals, err := uc.SettledTotal(context.Background(), "veh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.FromCustomer.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("expected 30000 from customer, got %s", totals.FromCustomer)
	}
	if !totals.ToSeller.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("expected 40000 to seller, got %s", totals.ToSeller)
	}
}

func TestVehicleUseCase_GetVehicle_NotFound(t *testing.T) {
	uc := newVehicleUseCase(mocks.NewMockVehicleRepository())

	_, err := uc.GetVehicle(context.Background(), "missing")
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Errorf("expected ErrVehicleNotFound, got %v", err)
	}
}
