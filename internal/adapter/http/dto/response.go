package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
)

// SecurityChequeResponse represents a security cheque in API responses. Bank
// details are only present while the pledge is still active.
type SecurityChequeResponse struct {
	Enabled       bool            `json:"enabled"`
	BankName      string          `json:"bank_name,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	ChequeNumber  string          `json:"cheque_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// VehicleResponse represents a vehicle sale record in API responses.
type VehicleResponse struct {
	ID                      string                    `json:"id"`
	RegistrationNumber      string                    `json:"registration_number"`
	Make                    string                    `json:"make"`
	Model                   string                    `json:"model"`
	Company                 string                    `json:"company"`
	FuelType                string                    `json:"fuel_type"`
	Status                  domain.VehicleStatus      `json:"status"`
	PurchasePrice           decimal.Decimal           `json:"purchase_price"`
	ModificationCost        decimal.Decimal           `json:"modification_cost"`
	AgentCommission         decimal.Decimal           `json:"agent_commission"`
	OtherCost               decimal.Decimal           `json:"other_cost"`
	SalePrice               decimal.Decimal           `json:"sale_price"`
	Cash                    decimal.Decimal           `json:"cash"`
	BankTransfer            decimal.Decimal           `json:"bank_transfer"`
	Online                  decimal.Decimal           `json:"online"`
	Loan                    decimal.Decimal           `json:"loan"`
	SecurityCheque          SecurityChequeResponse    `json:"security_cheque"`
	RemainingAmount         decimal.Decimal           `json:"remaining_amount"`
	RemainingAmountToSeller decimal.Decimal           `json:"remaining_amount_to_seller"`
	PendingPaymentType      domain.PendingPaymentType `json:"pending_payment_type"`
	Settled                 bool                      `json:"settled"`
	Version                 int64                     `json:"version"`
	PurchaseDate            time.Time                 `json:"purchase_date"`
	SaleDate                *time.Time                `json:"sale_date,omitempty"`
	CreatedAt               time.Time                 `json:"created_at"`
	UpdatedAt               time.Time                 `json:"updated_at"`
	Settlements             []*SettlementResponse     `json:"settlements,omitempty"`
}

// VehicleFromDomain converts a domain record to a response.
func VehicleFromDomain(v *domain.VehicleSaleRecord) *VehicleResponse {
	resp := &VehicleResponse{
		ID:                      v.ID,
		RegistrationNumber:      v.RegistrationNumber,
		Make:                    v.Make,
		Model:                   v.Model,
		Company:                 v.Company,
		FuelType:                v.FuelType,
		Status:                  v.Status,
		PurchasePrice:           v.PurchasePrice,
		ModificationCost:        v.ModificationCost,
		AgentCommission:         v.AgentCommission,
		OtherCost:               v.OtherCost,
		SalePrice:               v.SalePrice,
		Cash:                    v.PaymentCash,
		BankTransfer:            v.PaymentBankTransfer,
		Online:                  v.PaymentOnline,
		Loan:                    v.PaymentLoan,
		RemainingAmount:         v.RemainingAmount,
		RemainingAmountToSeller: v.RemainingAmountToSeller,
		PendingPaymentType:      v.PendingPaymentType,
		Settled:                 v.IsSettled(),
		Version:                 v.Version,
		PurchaseDate:            v.PurchaseDate,
		SaleDate:                v.SaleDate,
		CreatedAt:               v.CreatedAt,
		UpdatedAt:               v.UpdatedAt,
		Settlements:             SettlementsFromDomain(v.Settlements),
	}

	resp.SecurityCheque = SecurityChequeResponse{
		Enabled: v.SecurityCheque.Enabled,
		Amount:  v.SecurityCheque.Amount,
	}
	if v.SecurityCheque.Enabled {
		resp.SecurityCheque.BankName = v.SecurityCheque.BankName
		resp.SecurityCheque.AccountNumber = v.SecurityCheque.AccountNumber
		resp.SecurityCheque.ChequeNumber = v.SecurityCheque.ChequeNumber
	}

	return resp
}

// VehiclesFromDomain converts domain records to responses.
func VehiclesFromDomain(records []*domain.VehicleSaleRecord) []*VehicleResponse {
	result := make([]*VehicleResponse, len(records))
	for i, v := range records {
		result[i] = VehicleFromDomain(v)
	}
	return result
}

// ListVehiclesResponse wraps a page of vehicle records.
type ListVehiclesResponse struct {
	Vehicles []*VehicleResponse `json:"vehicles"`
	Total    int64              `json:"total"`
}

// SettlementResponse represents a settlement ledger entry in API responses.
type SettlementResponse struct {
	ID             string          `json:"id"`
	VehicleID      string          `json:"vehicle_id"`
	SettlementType string          `json:"settlement_type"`
	PaymentMode    string          `json:"payment_mode"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes,omitempty"`
	SettledBy      string          `json:"settled_by"`
	SettledAt      time.Time       `json:"settled_at"`
	Reversed       bool            `json:"reversed"`
	Reversal       bool            `json:"reversal"`
	ReversalOfID   *string         `json:"reversal_of_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SettlementFromDomain converts a domain settlement event to a response.
func SettlementFromDomain(e *domain.SettlementEvent) *SettlementResponse {
	return &SettlementResponse{
		ID:             e.ID,
		VehicleID:      e.VehicleID,
		SettlementType: string(e.Type),
		PaymentMode:    string(e.Mode),
		Amount:         e.Amount,
		Notes:          e.Notes,
		SettledBy:      e.SettledBy,
		SettledAt:      e.SettledAt,
		Reversed:       e.Reversed,
		Reversal:       e.Reversal,
		ReversalOfID:   e.ReversalOfID,
		CreatedAt:      e.CreatedAt,
	}
}

// SettlementsFromDomain converts domain settlement events to responses.
func SettlementsFromDomain(events []*domain.SettlementEvent) []*SettlementResponse {
	result := make([]*SettlementResponse, len(events))
	for i, e := range events {
		result[i] = SettlementFromDomain(e)
	}
	return result
}

// SettledTotalsResponse reports how much has been settled in each direction.
type SettledTotalsResponse struct {
	FromCustomer decimal.Decimal `json:"from_customer"`
	ToSeller     decimal.Decimal `json:"to_seller"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
