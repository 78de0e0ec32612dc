package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateVehicleName(t *testing.T) {
	if err := ValidateVehicleName("Swift VXI 2019"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateVehicleName("   "); err == nil {
		t.Error("expected error for blank name")
	}

	if err := ValidateVehicleName(strings.Repeat("x", 300)); err == nil {
		t.Error("expected error for oversized name")
	}
}

func TestValidateSettlementAmount(t *testing.T) {
	if err := ValidateSettlementAmount(decimal.NewFromInt(50000)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateSettlementAmount(decimal.Zero); err == nil {
		t.Error("expected error for zero amount")
	}

	huge := decimal.RequireFromString("1000000000.01")
	if err := ValidateSettlementAmount(huge); err == nil {
		t.Error("expected error for amount above cap")
	}
}

func TestValidateNotes(t *testing.T) {
	if err := ValidateNotes("cheque cleared on second presentation"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateNotes(strings.Repeat("n", 2000)); err == nil {
		t.Error("expected error for oversized notes")
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("staff@dealer.example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("got (%d, %d), want (50, 0)", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("limit = %d, want capped at 1000", limit)
	}
}
