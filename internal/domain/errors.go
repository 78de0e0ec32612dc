package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Vehicle record errors
	ErrVehicleNotFound = errors.New("vehicle record not found")
	ErrAlreadySold     = errors.New("vehicle already sold")
	ErrNotSold         = errors.New("vehicle has not been sold")

	// Settlement errors
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidChequeAmount   = errors.New("security cheque amount must be positive")
	ErrOverpayment           = errors.New("amount exceeds outstanding balance")
	ErrMissingSalePrice      = errors.New("sale price must be positive")
	ErrInvalidSettlementType = errors.New("invalid settlement type")
	ErrInvalidPaymentMode    = errors.New("invalid payment mode")
	ErrSettlementNotFound    = errors.New("settlement not found")
	ErrAlreadyReversed       = errors.New("settlement already reversed")
	ErrReversalOfReversal    = errors.New("cannot reverse a reversal entry")

	// Concurrency errors
	ErrVersionConflict = errors.New("vehicle record was modified concurrently")
)

// ValidationError is a recoverable business-rule violation. It wraps one of the
// sentinel errors above and carries enough detail to render a user-facing
// message: which balance was targeted and requested vs. available amounts.
type ValidationError struct {
	Err       error
	Balance   SettlementType
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ValidationError) Error() string {
	if e.Balance != "" && errors.Is(e.Err, ErrOverpayment) {
		return fmt.Sprintf("%v: requested %s, outstanding %s on %s balance",
			e.Err, e.Requested.String(), e.Available.String(), e.Balance)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps a sentinel error as a ValidationError.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err}
}

// NewOverpaymentError reports a settlement that exceeds its target balance.
// Overpayments are rejected, never truncated to the balance.
func NewOverpaymentError(balance SettlementType, requested, available decimal.Decimal) *ValidationError {
	return &ValidationError{
		Err:       ErrOverpayment,
		Balance:   balance,
		Requested: requested,
		Available: available,
	}
}

// InputShapeError signals a malformed or absent record. Unlike ValidationError
// it is a programmer error and should fail fast rather than be handled.
type InputShapeError struct {
	Detail string
}

func (e *InputShapeError) Error() string {
	return "input shape error: " + e.Detail
}

// ErrNilRecord reports a nil record passed where a VehicleSaleRecord is required.
func ErrNilRecord(op string) error {
	return &InputShapeError{Detail: "nil vehicle record passed to " + op}
}
