package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

const settlementColumns = `
	id, vehicle_id, settlement_type, payment_mode, amount, notes, settled_by,
	settled_at, created_at, reversed, reversal, reversal_of_id`

// SettlementRepository implements usecase.SettlementRepository. The table is
// append-only apart from the reversed flag.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Create inserts a settlement event within a transaction.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.SettlementEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := pgxTx.Exec(ctx, query,
		event.ID,
		event.VehicleID,
		string(event.Type),
		string(event.Mode),
		decimalToNumeric(event.Amount),
		event.Notes,
		event.SettledBy,
		timeToPgTimestamptz(event.SettledAt),
		timeToPgTimestamptz(event.CreatedAt),
		event.Reversed,
		event.Reversal,
		event.ReversalOfID,
	)

	return err
}

// MarkReversed flags an existing settlement as reversed within a transaction.
func (r *SettlementRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `UPDATE settlements SET reversed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrSettlementNotFound
	}

	return nil
}

// ListByVehicle retrieves a vehicle's settlement ledger, most recent first.
func (r *SettlementRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]*domain.SettlementEvent, error) {
	return loadSettlements(ctx, r.pool, vehicleID)
}

func loadSettlements(ctx context.Context, q querier, vehicleID string) ([]*domain.SettlementEvent, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements
		WHERE vehicle_id = $1 ORDER BY settled_at DESC, created_at DESC`

	rows, err := q.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.SettlementEvent
	for rows.Next() {
		event, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanSettlement(row pgx.Row) (*domain.SettlementEvent, error) {
	var (
		event     domain.SettlementEvent
		sType     string
		mode      string
		amount    pgtype.Numeric
		settledAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&event.ID,
		&event.VehicleID,
		&sType,
		&mode,
		&amount,
		&event.Notes,
		&event.SettledBy,
		&settledAt,
		&createdAt,
		&event.Reversed,
		&event.Reversal,
		&event.ReversalOfID,
	)
	if err != nil {
		return nil, err
	}

	event.Type = domain.SettlementType(sType)
	event.Mode = domain.PaymentMode(mode)
	event.Amount = numericToDecimal(amount)
	event.SettledAt = settledAt.Time
	event.CreatedAt = createdAt.Time

	return &event, nil
}
