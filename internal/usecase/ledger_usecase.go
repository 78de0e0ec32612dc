package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
)

// LedgerUseCase owns the two mutation entry points of the payment ledger:
// recording a sale and applying (or reversing) a settlement. Every mutation
// runs in a single database transaction with the vehicle row locked, so the
// overpayment check never races a concurrent settlement and either the whole
// operation lands or none of it does.
type LedgerUseCase struct {
	txManager      TransactionManager
	vehicleRepo    VehicleRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
	retrier        Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	vehicleRepo VehicleRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:      txManager,
		vehicleRepo:    vehicleRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        m,
	}
}

// WithRetrier makes mutations replay on version conflicts and deadlocks. Each
// attempt re-reads the record, so the settlement is validated against the
// balance that actually won the race.
func (uc *LedgerUseCase) WithRetrier(r Retrier) *LedgerUseCase {
	uc.retrier = r
	return uc
}

func (uc *LedgerUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// RecordSaleInput represents input for recording a sale.
type RecordSaleInput struct {
	Cheque    *domain.SecurityCheque
	VehicleID string
	SalePrice decimal.Decimal
	Breakdown domain.PaymentBreakdown
}

// RecordSale marks a vehicle sold and opens its customer balance.
func (uc *LedgerUseCase) RecordSale(ctx context.Context, input RecordSaleInput) (*domain.VehicleSaleRecord, error) {
	var record *domain.VehicleSaleRecord
	err := uc.retry(ctx, func() error {
		var err error
		record, err = uc.recordSaleTx(ctx, input)
		return err
	})

	return record, err
}

func (uc *LedgerUseCase) recordSaleTx(ctx context.Context, input RecordSaleInput) (*domain.VehicleSaleRecord, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	record, err := uc.vehicleRepo.GetByIDForUpdate(txCtx, tx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := record.RecordSale(input.SalePrice, input.Breakdown, input.Cheque, now); err != nil {
		return nil, err
	}

	if err := uc.vehicleRepo.Update(txCtx, tx, record); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   record.ID,
		AggregateType: domain.AggregateTypeVehicle,
		EventType:     domain.EventTypeSaleRecorded,
		Payload: map[string]any{
			"vehicle_id":       record.ID,
			"sale_price":       record.SalePrice.String(),
			"remaining_amount": record.RemainingAmount.String(),
			"security_cheque":  record.SecurityCheque.Enabled,
			"sale_date":        now.Format(time.RFC3339),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSaleRecord, record.ID, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SalesRecorded.Inc()
		amount, _ := record.SalePrice.Float64()
		uc.metrics.SaleAmount.Observe(amount)
	}

	return record, nil
}

// ApplySettlementInput represents input for applying a settlement.
type ApplySettlementInput struct {
	VehicleID string
	Type      domain.SettlementType
	Mode      domain.PaymentMode
	Notes     string
	Amount    decimal.Decimal
}

// ApplySettlement appends one settlement event against a vehicle's
// outstanding balance. The acting user is taken from the context.
func (uc *LedgerUseCase) ApplySettlement(ctx context.Context, input ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
	if err := domain.ValidateSettlementAmount(input.Amount); err != nil {
		return nil, domain.NewValidationError(err)
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, domain.NewValidationError(err)
	}

	var record *domain.VehicleSaleRecord
	err := uc.retry(ctx, func() error {
		var err error
		record, err = uc.applySettlementTx(ctx, input)
		return err
	})

	return record, err
}

func (uc *LedgerUseCase) applySettlementTx(ctx context.Context, input ApplySettlementInput) (*domain.VehicleSaleRecord, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	record, err := uc.vehicleRepo.GetByIDForUpdate(txCtx, tx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	if record.Status != domain.VehicleStatusSold && input.Type == domain.SettlementFromCustomer {
		return nil, domain.NewValidationError(domain.ErrNotSold)
	}

	wasSettled := record.IsSettled()
	now := time.Now().UTC()

	event := &domain.SettlementEvent{
		ID:        uc.idGen.Generate(),
		VehicleID: record.ID,
		Type:      input.Type,
		Mode:      input.Mode,
		Amount:    input.Amount,
		Notes:     input.Notes,
		SettledBy: uc.actorID(ctx),
		SettledAt: now,
		CreatedAt: now,
	}

	if err := record.ApplySettlement(event); err != nil {
		return nil, err
	}

	if err := uc.settlementRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.vehicleRepo.Update(txCtx, tx, record); err != nil {
		return nil, err
	}

	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   event.ID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementApplied,
		Payload: map[string]any{
			"settlement_id":     event.ID,
			"vehicle_id":        record.ID,
			"settlement_type":   string(event.Type),
			"amount":            event.Amount.String(),
			"payment_mode":      string(event.Mode),
			"remaining_balance": record.OutstandingBalance(event.Type).String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	// Both balances reaching zero closes the ledger; emit that transition once.
	if !wasSettled && record.IsSettled() {
		closedEvent := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   record.ID,
			AggregateType: domain.AggregateTypeVehicle,
			EventType:     domain.EventTypeLedgerClosed,
			Payload: map[string]any{
				"vehicle_id": record.ID,
				"closed_at":  now.Format(time.RFC3339),
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, closedEvent); err != nil {
			return nil, err
		}
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSettlementApply, event.ID, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsApplied.WithLabelValues(string(event.Type)).Inc()
		amount, _ := event.Amount.Float64()
		uc.metrics.SettlementAmount.Observe(amount)
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}

	return record, nil
}

// ReverseSettlementInput represents input for reversing a settlement.
type ReverseSettlementInput struct {
	VehicleID    string
	SettlementID string
	Notes        string
}

// ReverseSettlement appends a compensating entry for a mistaken settlement
// and restores the balance it had reduced. History is never rewritten.
func (uc *LedgerUseCase) ReverseSettlement(ctx context.Context, input ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, domain.NewValidationError(err)
	}

	var record *domain.VehicleSaleRecord
	err := uc.retry(ctx, func() error {
		var err error
		record, err = uc.reverseSettlementTx(ctx, input)
		return err
	})

	return record, err
}

func (uc *LedgerUseCase) reverseSettlementTx(ctx context.Context, input ReverseSettlementInput) (*domain.VehicleSaleRecord, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	record, err := uc.vehicleRepo.GetByIDForUpdate(txCtx, tx, input.VehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversal := &domain.SettlementEvent{
		ID:        uc.idGen.Generate(),
		VehicleID: record.ID,
		Notes:     input.Notes,
		SettledBy: uc.actorID(ctx),
		SettledAt: now,
		CreatedAt: now,
	}

	if err := record.ReverseSettlement(input.SettlementID, reversal); err != nil {
		return nil, err
	}

	if err := uc.settlementRepo.Create(txCtx, tx, reversal); err != nil {
		return nil, err
	}

	if err := uc.settlementRepo.MarkReversed(txCtx, tx, input.SettlementID); err != nil {
		return nil, err
	}

	if err := uc.vehicleRepo.Update(txCtx, tx, record); err != nil {
		return nil, err
	}

	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   reversal.ID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementReversed,
		Payload: map[string]any{
			"reversal_id":            reversal.ID,
			"original_settlement_id": input.SettlementID,
			"vehicle_id":             record.ID,
			"amount":                 reversal.Amount.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSettlementReverse, reversal.ID, reversal); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsReversed.Inc()
	}

	return record, nil
}

func (uc *LedgerUseCase) actorID(ctx context.Context) string {
	if user, ok := domain.UserFromContext(ctx); ok {
		return user.ID
	}
	return "system"
}

func (uc *LedgerUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceID string, state any) error {
	if uc.auditRepo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       uc.actorID(ctx),
		Action:       string(action),
		ResourceType: resourceTypeFor(action),
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(state),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	return uc.auditRepo.CreateTx(ctx, tx, log)
}

func resourceTypeFor(action domain.AuditAction) string {
	switch action {
	case domain.AuditActionSettlementApply, domain.AuditActionSettlementReverse, domain.AuditActionSettlementView:
		return "settlement"
	case domain.AuditActionUserLogin, domain.AuditActionUserLogout:
		return "user"
	default:
		return "vehicle"
	}
}
