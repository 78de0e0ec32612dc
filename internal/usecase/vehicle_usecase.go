package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
)

// VehicleUseCase handles the vehicle record lifecycle around the ledger:
// recording purchases and serving reads.
type VehicleUseCase struct {
	txManager   TransactionManager
	vehicleRepo VehicleRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewVehicleUseCase creates a new VehicleUseCase.
func NewVehicleUseCase(
	txManager TransactionManager,
	vehicleRepo VehicleRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *VehicleUseCase {
	return &VehicleUseCase{
		txManager:   txManager,
		vehicleRepo: vehicleRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// RecordPurchaseInput represents input for recording a vehicle purchase.
type RecordPurchaseInput struct {
	PurchaseDate       time.Time
	RegistrationNumber string
	Make               string
	Model              string
	Company            string
	FuelType           string
	PurchasePrice      decimal.Decimal
	ModificationCost   decimal.Decimal
	AgentCommission    decimal.Decimal
	OtherCost          decimal.Decimal
	// AmountPaidToSeller is what was paid up front; the rest of the purchase
	// price opens the seller balance.
	AmountPaidToSeller decimal.Decimal
}

// RecordPurchase creates a vehicle record with an empty settlement ledger.
// The unpaid part of the purchase price becomes the seller balance.
func (uc *VehicleUseCase) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*domain.VehicleSaleRecord, error) {
	if err := domain.ValidateVehicleName(input.Make + " " + input.Model); err != nil {
		return nil, domain.NewValidationError(err)
	}

	if input.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError(domain.ErrInvalidAmount)
	}

	for _, d := range []decimal.Decimal{input.ModificationCost, input.AgentCommission, input.OtherCost, input.AmountPaidToSeller} {
		if d.IsNegative() {
			return nil, domain.NewValidationError(domain.ErrInvalidAmount)
		}
	}

	if input.AmountPaidToSeller.GreaterThan(input.PurchasePrice) {
		return nil, domain.NewOverpaymentError(domain.SettlementToSeller, input.AmountPaidToSeller, input.PurchasePrice)
	}

	now := time.Now().UTC()
	purchaseDate := input.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = now
	}

	record := &domain.VehicleSaleRecord{
		ID:                      uc.idGen.Generate(),
		RegistrationNumber:      input.RegistrationNumber,
		Make:                    input.Make,
		Model:                   input.Model,
		Company:                 input.Company,
		FuelType:                input.FuelType,
		Status:                  domain.VehicleStatusInStock,
		PurchasePrice:           input.PurchasePrice,
		ModificationCost:        input.ModificationCost,
		AgentCommission:         input.AgentCommission,
		OtherCost:               input.OtherCost,
		SalePrice:               decimal.Zero,
		PaymentCash:             decimal.Zero,
		PaymentBankTransfer:     decimal.Zero,
		PaymentOnline:           decimal.Zero,
		PaymentLoan:             decimal.Zero,
		RemainingAmount:         decimal.Zero,
		RemainingAmountToSeller: input.PurchasePrice.Sub(input.AmountPaidToSeller),
		PurchaseDate:            purchaseDate,
		Version:                 0,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	record.RecomputePendingPayment()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.vehicleRepo.Create(txCtx, tx, record); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   record.ID,
		AggregateType: domain.AggregateTypeVehicle,
		EventType:     domain.EventTypePurchaseRecorded,
		Payload: map[string]any{
			"vehicle_id":     record.ID,
			"purchase_price": record.PurchasePrice.String(),
			"owed_to_seller": record.RemainingAmountToSeller.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		userID := "system"
		if user, ok := domain.UserFromContext(ctx); ok {
			userID = user.ID
		}

		log := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       userID,
			Action:       string(domain.AuditActionPurchaseRecord),
			ResourceType: "vehicle",
			ResourceID:   record.ID,
			AfterState:   domain.MarshalState(record),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PurchasesRecorded.Inc()
	}

	return record, nil
}

// GetVehicle retrieves a record with its full settlement ledger.
func (uc *VehicleUseCase) GetVehicle(ctx context.Context, id string) (*domain.VehicleSaleRecord, error) {
	return uc.vehicleRepo.GetByID(ctx, id)
}

// ListVehiclesInput represents input for listing vehicle records.
type ListVehiclesInput struct {
	Limit  int
	Offset int
}

// ListVehicles lists records with pagination, most recent sale first.
func (uc *VehicleUseCase) ListVehicles(ctx context.Context, input ListVehiclesInput) ([]*domain.VehicleSaleRecord, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	records, err := uc.vehicleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	domain.SortBySaleDateDesc(records)

	return records, nil
}

// History returns a vehicle's settlement ledger, most recent first.
func (uc *VehicleUseCase) History(ctx context.Context, vehicleID string) ([]*domain.SettlementEvent, error) {
	record, err := uc.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return record.History(), nil
}

// SettledTotals holds the per-direction settled sums for display.
type SettledTotals struct {
	FromCustomer decimal.Decimal
	ToSeller     decimal.Decimal
}

// SettledTotal returns how much has been settled in each direction so far.
func (uc *VehicleUseCase) SettledTotal(ctx context.Context, vehicleID string) (*SettledTotals, error) {
	record, err := uc.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return &SettledTotals{
		FromCustomer: record.SettledTotal(domain.SettlementFromCustomer),
		ToSeller:     record.SettledTotal(domain.SettlementToSeller),
	}, nil
}
