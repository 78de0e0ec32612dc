package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

// RecordPurchaseRequest represents a request to record a vehicle purchase.
type RecordPurchaseRequest struct {
	PurchaseDate       *time.Time      `json:"purchase_date,omitempty"`
	RegistrationNumber string          `json:"registration_number"`
	Make               string          `json:"make"`
	Model              string          `json:"model"`
	Company            string          `json:"company"`
	FuelType           string          `json:"fuel_type"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	ModificationCost   decimal.Decimal `json:"modification_cost"`
	AgentCommission    decimal.Decimal `json:"agent_commission"`
	OtherCost          decimal.Decimal `json:"other_cost"`
	AmountPaidToSeller decimal.Decimal `json:"amount_paid_to_seller"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPurchaseRequest) ToUseCaseInput() usecase.RecordPurchaseInput {
	input := usecase.RecordPurchaseInput{
		RegistrationNumber: r.RegistrationNumber,
		Make:               r.Make,
		Model:              r.Model,
		Company:            r.Company,
		FuelType:           r.FuelType,
		PurchasePrice:      r.PurchasePrice,
		ModificationCost:   r.ModificationCost,
		AgentCommission:    r.AgentCommission,
		OtherCost:          r.OtherCost,
		AmountPaidToSeller: r.AmountPaidToSeller,
	}
	if r.PurchaseDate != nil {
		input.PurchaseDate = *r.PurchaseDate
	}
	return input
}

// SecurityChequeRequest represents a pledged cheque supplied with a sale.
type SecurityChequeRequest struct {
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number"`
	ChequeNumber  string          `json:"cheque_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// RecordSaleRequest represents a request to record a sale.
type RecordSaleRequest struct {
	SecurityCheque *SecurityChequeRequest `json:"security_cheque,omitempty"`
	SalePrice      decimal.Decimal        `json:"sale_price"`
	Cash           decimal.Decimal        `json:"cash"`
	BankTransfer   decimal.Decimal        `json:"bank_transfer"`
	Online         decimal.Decimal        `json:"online"`
	Loan           decimal.Decimal        `json:"loan"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSaleRequest) ToUseCaseInput(vehicleID string) usecase.RecordSaleInput {
	input := usecase.RecordSaleInput{
		VehicleID: vehicleID,
		SalePrice: r.SalePrice,
		Breakdown: domain.PaymentBreakdown{
			Cash:         r.Cash,
			BankTransfer: r.BankTransfer,
			Online:       r.Online,
			Loan:         r.Loan,
		},
	}
	if r.SecurityCheque != nil {
		input.Cheque = &domain.SecurityCheque{
			Enabled:       true,
			BankName:      r.SecurityCheque.BankName,
			AccountNumber: r.SecurityCheque.AccountNumber,
			ChequeNumber:  r.SecurityCheque.ChequeNumber,
			Amount:        r.SecurityCheque.Amount,
		}
	}
	return input
}

// ApplySettlementRequest represents a request to apply a settlement.
type ApplySettlementRequest struct {
	SettlementType string          `json:"settlement_type"`
	PaymentMode    string          `json:"payment_mode"`
	Notes          string          `json:"notes,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *ApplySettlementRequest) ToUseCaseInput(vehicleID string) usecase.ApplySettlementInput {
	return usecase.ApplySettlementInput{
		VehicleID: vehicleID,
		Type:      domain.SettlementType(r.SettlementType),
		Mode:      domain.PaymentMode(r.PaymentMode),
		Amount:    r.Amount,
		Notes:     r.Notes,
	}
}

// ReverseSettlementRequest represents a request to reverse a settlement.
type ReverseSettlementRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseSettlementRequest) ToUseCaseInput(vehicleID, settlementID string) usecase.ReverseSettlementInput {
	return usecase.ReverseSettlementInput{
		VehicleID:    vehicleID,
		SettlementID: settlementID,
		Notes:        r.Notes,
	}
}
