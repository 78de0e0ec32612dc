package domain

import "time"

// Event types
const (
	EventTypePurchaseRecorded   = "vehicle.purchase_recorded"
	EventTypeSaleRecorded       = "vehicle.sale_recorded"
	EventTypeSettlementApplied  = "settlement.applied"
	EventTypeSettlementReversed = "settlement.reversed"
	EventTypeLedgerClosed       = "vehicle.ledger_closed"
)

// Aggregate types
const (
	AggregateTypeVehicle    = "vehicle"
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// SaleRecordedEvent payload
type SaleRecordedEvent struct {
	VehicleID       string `json:"vehicle_id"`
	SalePrice       string `json:"sale_price"`
	RemainingAmount string `json:"remaining_amount"`
	SecurityCheque  bool   `json:"security_cheque"`
	SaleDate        string `json:"sale_date"`
}

// SettlementAppliedEvent payload
type SettlementAppliedEvent struct {
	SettlementID     string `json:"settlement_id"`
	VehicleID        string `json:"vehicle_id"`
	SettlementType   string `json:"settlement_type"`
	Amount           string `json:"amount"`
	PaymentMode      string `json:"payment_mode"`
	RemainingBalance string `json:"remaining_balance"`
}

// SettlementReversedEvent payload
type SettlementReversedEvent struct {
	ReversalID           string `json:"reversal_id"`
	OriginalSettlementID string `json:"original_settlement_id"`
	VehicleID            string `json:"vehicle_id"`
	Amount               string `json:"amount"`
}

// LedgerClosedEvent payload
type LedgerClosedEvent struct {
	VehicleID string `json:"vehicle_id"`
	ClosedAt  string `json:"closed_at"`
}
