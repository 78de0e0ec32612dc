package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementType identifies which outstanding balance a settlement reduces.
type SettlementType string

const (
	// SettlementFromCustomer reduces the balance owed by the buyer.
	SettlementFromCustomer SettlementType = "FROM_CUSTOMER"

	// SettlementToSeller reduces the balance the dealership still owes the
	// original seller or agent for the purchase.
	SettlementToSeller SettlementType = "TO_SELLER"
)

// IsValid checks if the settlement type is known.
func (t SettlementType) IsValid() bool {
	return t == SettlementFromCustomer || t == SettlementToSeller
}

// PaymentMode is the instrument a settlement was paid through.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeOnline       PaymentMode = "online"
	PaymentModeLoan         PaymentMode = "loan"
)

// IsValid checks if the payment mode is known.
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeOnline, PaymentModeLoan:
		return true
	}
	return false
}

// SettlementEvent is one partial-payment event against an outstanding balance.
// Events are immutable once created; correcting a mistake appends a
// compensating entry flagged Reversal rather than editing history.
type SettlementEvent struct {
	SettledAt    time.Time
	CreatedAt    time.Time
	ReversalOfID *string
	ID           string
	VehicleID    string
	Type         SettlementType
	Mode         PaymentMode
	SettledBy    string
	Notes        string
	Amount       decimal.Decimal
	Reversed     bool
	Reversal     bool
}

// Validate checks the event's own invariants.
func (e *SettlementEvent) Validate() error {
	if !e.Type.IsValid() {
		return NewValidationError(ErrInvalidSettlementType)
	}

	if !e.Mode.IsValid() {
		return NewValidationError(ErrInvalidPaymentMode)
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Err: ErrInvalidAmount, Balance: e.Type, Requested: e.Amount}
	}

	return nil
}

// History returns the settlement ledger sorted by SettledAt descending, most
// recent first. The returned slice is a copy; the ledger itself is never
// reordered or edited.
func (r *VehicleSaleRecord) History() []*SettlementEvent {
	history := make([]*SettlementEvent, len(r.Settlements))
	copy(history, r.Settlements)

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].SettledAt.After(history[j].SettledAt)
	})

	return history
}

// SettledTotal sums settlement amounts of the given type, net of reversals:
// reversed originals and the compensating entries themselves are both skipped,
// so the total reflects money that actually stayed settled.
func (r *VehicleSaleRecord) SettledTotal(t SettlementType) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Settlements {
		if e.Type != t || e.Reversed || e.Reversal {
			continue
		}
		total = total.Add(e.Amount)
	}

	return total
}

// FindSettlement looks up a ledger entry by ID.
func (r *VehicleSaleRecord) FindSettlement(id string) (*SettlementEvent, error) {
	for _, e := range r.Settlements {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrSettlementNotFound
}
