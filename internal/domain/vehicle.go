package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleStatus tracks where a record is in its lifecycle.
type VehicleStatus string

const (
	VehicleStatusInStock VehicleStatus = "in_stock"
	VehicleStatusSold    VehicleStatus = "sold"
)

// PendingPaymentType summarizes which outstanding balances are still open.
// It is derived from the two balances and recomputed on every mutation; it is
// never authoritative on its own.
type PendingPaymentType string

const (
	PendingNone         PendingPaymentType = ""
	PendingFromCustomer PendingPaymentType = "PENDING_FROM_CUSTOMER"
	PendingToSeller     PendingPaymentType = "PENDING_TO_SELLER"
	PendingBoth         PendingPaymentType = "PENDING_FROM_CUSTOMER_AND_TO_SELLER"
)

// PendingPaymentFor derives the pending tag from the two balances.
func PendingPaymentFor(fromCustomer, toSeller decimal.Decimal) PendingPaymentType {
	customerOpen := fromCustomer.IsPositive()
	sellerOpen := toSeller.IsPositive()

	switch {
	case customerOpen && sellerOpen:
		return PendingBoth
	case customerOpen:
		return PendingFromCustomer
	case sellerOpen:
		return PendingToSeller
	default:
		return PendingNone
	}
}

// SecurityCheque is a pledged instrument held against a sale. While enabled,
// its amount is excluded from recognized revenue and carried as the customer's
// outstanding balance instead.
type SecurityCheque struct {
	Enabled       bool
	BankName      string
	AccountNumber string
	ChequeNumber  string
	Amount        decimal.Decimal
}

// PaymentBreakdown holds the per-instrument amounts received when a sale is
// recorded.
type PaymentBreakdown struct {
	Cash         decimal.Decimal
	BankTransfer decimal.Decimal
	Online       decimal.Decimal
	Loan         decimal.Decimal
}

// Total sums all instruments.
func (p PaymentBreakdown) Total() decimal.Decimal {
	return p.Cash.Add(p.BankTransfer).Add(p.Online).Add(p.Loan)
}

// Validate rejects negative instrument amounts.
func (p PaymentBreakdown) Validate() error {
	for _, d := range []decimal.Decimal{p.Cash, p.BankTransfer, p.Online, p.Loan} {
		if d.IsNegative() {
			return NewValidationError(ErrInvalidAmount)
		}
	}
	return nil
}

// VehicleSaleRecord is the single ledger kept per vehicle: fixed cost
// components from the purchase, the sale proceeds split by instrument, the two
// outstanding balances, and the append-only settlement history.
type VehicleSaleRecord struct {
	PurchaseDate time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SaleDate     *time.Time

	ID                 string
	RegistrationNumber string
	Make               string
	Model              string
	Company            string
	FuelType           string
	Status             VehicleStatus

	// Cost components, fixed once the purchase is recorded.
	PurchasePrice    decimal.Decimal
	ModificationCost decimal.Decimal
	AgentCommission  decimal.Decimal
	OtherCost        decimal.Decimal

	SalePrice decimal.Decimal

	// Cumulative amounts received through each instrument at sale time.
	PaymentCash         decimal.Decimal
	PaymentBankTransfer decimal.Decimal
	PaymentOnline       decimal.Decimal
	PaymentLoan         decimal.Decimal

	SecurityCheque SecurityCheque

	// RemainingAmount is owed by the customer; RemainingAmountToSeller is owed
	// to the original seller/agent. Both are always >= 0.
	RemainingAmount         decimal.Decimal
	RemainingAmountToSeller decimal.Decimal

	PendingPaymentType PendingPaymentType

	Settlements []*SettlementEvent

	// Version guards against concurrent settlement of the same record; the
	// persistence layer rejects writes against a stale version.
	Version int64
}

// TotalPaymentReceived is the dealership's recognized revenue for the record:
// the four instrument totals plus customer settlements from the ledger, net of
// reversals. An enabled security cheque's amount is a pledge, not received
// money, and is never included.
func (r *VehicleSaleRecord) TotalPaymentReceived() decimal.Decimal {
	total := r.PaymentCash.
		Add(r.PaymentBankTransfer).
		Add(r.PaymentOnline).
		Add(r.PaymentLoan).
		Add(r.SettledTotal(SettlementFromCustomer))

	if total.IsNegative() {
		return decimal.Zero
	}

	return total
}

// TotalCost sums the fixed cost components. The full purchase price counts
// even while part of it is still owed to the seller: cost is recognized at
// commitment, not at cash settlement.
func (r *VehicleSaleRecord) TotalCost() decimal.Decimal {
	return r.PurchasePrice.
		Add(r.ModificationCost).
		Add(r.AgentCommission).
		Add(r.OtherCost)
}

// NetProfit is recognized revenue minus total cost. May be negative.
func (r *VehicleSaleRecord) NetProfit() decimal.Decimal {
	return r.TotalPaymentReceived().Sub(r.TotalCost())
}

// Margin is net profit as a percentage of recognized revenue, 0 when no
// revenue has been recognized.
func (r *VehicleSaleRecord) Margin() decimal.Decimal {
	received := r.TotalPaymentReceived()
	if !received.IsPositive() {
		return decimal.Zero
	}

	return r.NetProfit().Div(received).Mul(decimal.NewFromInt(100))
}

// IsSettled reports whether both balances have reached zero. Closure is a
// computed state, not a stored flag.
func (r *VehicleSaleRecord) IsSettled() bool {
	return r.RemainingAmount.IsZero() && r.RemainingAmountToSeller.IsZero()
}

// OutstandingBalance returns the balance a settlement type targets.
func (r *VehicleSaleRecord) OutstandingBalance(t SettlementType) decimal.Decimal {
	if t == SettlementToSeller {
		return r.RemainingAmountToSeller
	}
	return r.RemainingAmount
}

// RecomputePendingPayment re-derives the pending tag from the two balances.
func (r *VehicleSaleRecord) RecomputePendingPayment() {
	r.PendingPaymentType = PendingPaymentFor(r.RemainingAmount, r.RemainingAmountToSeller)
}

// RecordSale marks the vehicle sold: sets the sale price and instrument
// totals, and opens the customer balance. With an enabled security cheque the
// cheque amount becomes the outstanding balance; otherwise the balance is
// whatever the instruments left uncovered.
func (r *VehicleSaleRecord) RecordSale(salePrice decimal.Decimal, breakdown PaymentBreakdown, cheque *SecurityCheque, at time.Time) error {
	if r.Status == VehicleStatusSold {
		return NewValidationError(ErrAlreadySold)
	}

	if salePrice.LessThanOrEqual(decimal.Zero) {
		return NewValidationError(ErrMissingSalePrice)
	}

	if err := breakdown.Validate(); err != nil {
		return err
	}

	if cheque != nil && cheque.Enabled && !cheque.Amount.IsPositive() {
		return NewValidationError(ErrInvalidChequeAmount)
	}

	r.Status = VehicleStatusSold
	r.SalePrice = salePrice
	r.SaleDate = &at
	r.PaymentCash = breakdown.Cash
	r.PaymentBankTransfer = breakdown.BankTransfer
	r.PaymentOnline = breakdown.Online
	r.PaymentLoan = breakdown.Loan

	if cheque != nil {
		r.SecurityCheque = *cheque
	}

	if r.SecurityCheque.Enabled {
		r.RemainingAmount = r.SecurityCheque.Amount
	} else {
		outstanding := salePrice.Sub(r.TotalPaymentReceived())
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		r.RemainingAmount = outstanding
	}

	r.RecomputePendingPayment()

	return nil
}

// ValidateSettlement checks a prospective settlement against the current
// balance without mutating anything. Callers run this before appending so a
// rejected settlement leaves the record untouched.
func (r *VehicleSaleRecord) ValidateSettlement(t SettlementType, amount decimal.Decimal) error {
	if !t.IsValid() {
		return NewValidationError(ErrInvalidSettlementType)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Err: ErrInvalidAmount, Balance: t, Requested: amount}
	}

	balance := r.OutstandingBalance(t)
	if amount.GreaterThan(balance) {
		return NewOverpaymentError(t, amount, balance)
	}

	return nil
}

// ApplySettlement validates and applies one settlement event: appends it to
// the ledger, decrements the targeted balance, voids the security cheque once
// the customer balance clears, and re-derives the pending tag. The event's
// amount lives only in the ledger; instrument totals stay fixed at their
// sale-time values so the ledger remains the single source for settled money.
func (r *VehicleSaleRecord) ApplySettlement(event *SettlementEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if err := r.ValidateSettlement(event.Type, event.Amount); err != nil {
		return err
	}

	r.Settlements = append(r.Settlements, event)

	switch event.Type {
	case SettlementFromCustomer:
		r.RemainingAmount = r.RemainingAmount.Sub(event.Amount)
		if r.SecurityCheque.Enabled && r.RemainingAmount.IsZero() {
			// The pledge is redeemed or void once the customer balance clears.
			r.SecurityCheque.Enabled = false
		}
	case SettlementToSeller:
		r.RemainingAmountToSeller = r.RemainingAmountToSeller.Sub(event.Amount)
	}

	r.RecomputePendingPayment()

	return nil
}

// ReverseSettlement appends a compensating entry for a mistaken settlement and
// restores the targeted balance. The original is marked reversed but stays in
// the ledger; history is never rewritten. Reversing the customer settlement
// that cleared the balance also restores a voided security cheque, so the
// pledge is live again while the balance is open.
func (r *VehicleSaleRecord) ReverseSettlement(originalID string, reversal *SettlementEvent) error {
	original, err := r.FindSettlement(originalID)
	if err != nil {
		return err
	}

	if original.Reversal {
		return NewValidationError(ErrReversalOfReversal)
	}

	if original.Reversed {
		return NewValidationError(ErrAlreadyReversed)
	}

	reversal.Type = original.Type
	reversal.Mode = original.Mode
	reversal.Amount = original.Amount
	reversal.Reversal = true
	id := original.ID
	reversal.ReversalOfID = &id

	original.Reversed = true
	r.Settlements = append(r.Settlements, reversal)

	switch original.Type {
	case SettlementFromCustomer:
		// A voided cheque was auto-cleared by the settlement that zeroed the
		// balance; undoing that settlement reinstates the pledge.
		if r.RemainingAmount.IsZero() && !r.SecurityCheque.Enabled && r.SecurityCheque.Amount.IsPositive() {
			r.SecurityCheque.Enabled = true
		}
		r.RemainingAmount = r.RemainingAmount.Add(original.Amount)
	case SettlementToSeller:
		r.RemainingAmountToSeller = r.RemainingAmountToSeller.Add(original.Amount)
	}

	r.RecomputePendingPayment()

	return nil
}
