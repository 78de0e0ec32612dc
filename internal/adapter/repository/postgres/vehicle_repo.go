package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/motorbook/dealerledger/internal/domain"
	"github.com/motorbook/dealerledger/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so row scanning is
// shared between pooled reads and in-transaction reads.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const vehicleColumns = `
	id, registration_number, make, model, company, fuel_type, status,
	purchase_price, modification_cost, agent_commission, other_cost,
	sale_price, payment_cash, payment_bank_transfer, payment_online, payment_loan,
	cheque_enabled, cheque_bank_name, cheque_account_number, cheque_number, cheque_amount,
	remaining_amount, remaining_amount_to_seller, pending_payment_type,
	purchase_date, sale_date, version, created_at, updated_at`

// VehicleRepository implements usecase.VehicleRepository.
type VehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

// Create inserts a new vehicle record within a transaction.
func (r *VehicleRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.VehicleSaleRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`

	_, err := pgxTx.Exec(ctx, query,
		record.ID,
		record.RegistrationNumber,
		record.Make,
		record.Model,
		record.Company,
		record.FuelType,
		string(record.Status),
		decimalToNumeric(record.PurchasePrice),
		decimalToNumeric(record.ModificationCost),
		decimalToNumeric(record.AgentCommission),
		decimalToNumeric(record.OtherCost),
		decimalToNumeric(record.SalePrice),
		decimalToNumeric(record.PaymentCash),
		decimalToNumeric(record.PaymentBankTransfer),
		decimalToNumeric(record.PaymentOnline),
		decimalToNumeric(record.PaymentLoan),
		record.SecurityCheque.Enabled,
		record.SecurityCheque.BankName,
		record.SecurityCheque.AccountNumber,
		record.SecurityCheque.ChequeNumber,
		decimalToNumeric(record.SecurityCheque.Amount),
		decimalToNumeric(record.RemainingAmount),
		decimalToNumeric(record.RemainingAmountToSeller),
		string(record.PendingPaymentType),
		timeToPgTimestamptz(record.PurchaseDate),
		timePtrToPgTimestamptz(record.SaleDate),
		record.Version,
		timeToPgTimestamptz(record.CreatedAt),
		timeToPgTimestamptz(record.UpdatedAt),
	)

	return err
}

// GetByID retrieves a vehicle record with its settlement ledger.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.VehicleSaleRecord, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate retrieves a vehicle record with a FOR UPDATE row lock.
func (r *VehicleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.VehicleSaleRecord, error) {
	pgxTx := tx.(*Tx).PgxTx()
	return r.getByID(ctx, pgxTx, id, true)
}

func (r *VehicleRepository) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*domain.VehicleSaleRecord, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	record, err := scanVehicle(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	settlements, err := loadSettlements(ctx, q, id)
	if err != nil {
		return nil, err
	}
	record.Settlements = settlements

	return record, nil
}

// Update persists the mutable fields guarded by the record's version. A stale
// version means another settlement landed first; the caller retries from a
// fresh read.
func (r *VehicleRepository) Update(ctx context.Context, tx usecase.Transaction, record *domain.VehicleSaleRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE vehicles SET
			status = $2,
			sale_price = $3,
			payment_cash = $4,
			payment_bank_transfer = $5,
			payment_online = $6,
			payment_loan = $7,
			cheque_enabled = $8,
			cheque_bank_name = $9,
			cheque_account_number = $10,
			cheque_number = $11,
			cheque_amount = $12,
			remaining_amount = $13,
			remaining_amount_to_seller = $14,
			pending_payment_type = $15,
			sale_date = $16,
			version = version + 1,
			updated_at = $17
		WHERE id = $1 AND version = $18`

	tag, err := pgxTx.Exec(ctx, query,
		record.ID,
		string(record.Status),
		decimalToNumeric(record.SalePrice),
		decimalToNumeric(record.PaymentCash),
		decimalToNumeric(record.PaymentBankTransfer),
		decimalToNumeric(record.PaymentOnline),
		decimalToNumeric(record.PaymentLoan),
		record.SecurityCheque.Enabled,
		record.SecurityCheque.BankName,
		record.SecurityCheque.AccountNumber,
		record.SecurityCheque.ChequeNumber,
		decimalToNumeric(record.SecurityCheque.Amount),
		decimalToNumeric(record.RemainingAmount),
		decimalToNumeric(record.RemainingAmountToSeller),
		string(record.PendingPaymentType),
		timePtrToPgTimestamptz(record.SaleDate),
		timeToPgTimestamptz(time.Now().UTC()),
		record.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	record.Version++

	return nil
}

// List lists vehicle records with pagination.
func (r *VehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.VehicleSaleRecord, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		ORDER BY COALESCE(sale_date, 'epoch'::timestamptz) DESC, created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanVehicles(rows)
	if err != nil {
		return nil, err
	}

	return r.attachSettlements(ctx, records)
}

// ListSold returns sold records, optionally bounded by sale date.
func (r *VehicleRepository) ListSold(ctx context.Context, from, to *time.Time) ([]*domain.VehicleSaleRecord, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1`
	args := []any{string(domain.VehicleStatusSold)}

	if from != nil {
		args = append(args, *from)
		query += ` AND sale_date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND sale_date <= $3`
		} else {
			query += ` AND sale_date <= $2`
		}
	}

	query += ` ORDER BY sale_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanVehicles(rows)
	if err != nil {
		return nil, err
	}

	return r.attachSettlements(ctx, records)
}

func (r *VehicleRepository) attachSettlements(ctx context.Context, records []*domain.VehicleSaleRecord) ([]*domain.VehicleSaleRecord, error) {
	for _, record := range records {
		settlements, err := loadSettlements(ctx, r.pool, record.ID)
		if err != nil {
			return nil, err
		}
		record.Settlements = settlements
	}

	return records, nil
}

func scanVehicles(rows pgx.Rows) ([]*domain.VehicleSaleRecord, error) {
	var records []*domain.VehicleSaleRecord
	for rows.Next() {
		record, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanVehicle(row pgx.Row) (*domain.VehicleSaleRecord, error) {
	var (
		record       domain.VehicleSaleRecord
		status       string
		pending      string
		purchase     pgtype.Numeric
		modification pgtype.Numeric
		commission   pgtype.Numeric
		other        pgtype.Numeric
		salePrice    pgtype.Numeric
		cash         pgtype.Numeric
		bank         pgtype.Numeric
		online       pgtype.Numeric
		loan         pgtype.Numeric
		chequeAmount pgtype.Numeric
		remaining    pgtype.Numeric
		toSeller     pgtype.Numeric
		purchaseDate pgtype.Timestamptz
		saleDate     pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.RegistrationNumber,
		&record.Make,
		&record.Model,
		&record.Company,
		&record.FuelType,
		&status,
		&purchase,
		&modification,
		&commission,
		&other,
		&salePrice,
		&cash,
		&bank,
		&online,
		&loan,
		&record.SecurityCheque.Enabled,
		&record.SecurityCheque.BankName,
		&record.SecurityCheque.AccountNumber,
		&record.SecurityCheque.ChequeNumber,
		&chequeAmount,
		&remaining,
		&toSeller,
		&pending,
		&purchaseDate,
		&saleDate,
		&record.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = domain.VehicleStatus(status)
	record.PendingPaymentType = domain.PendingPaymentType(pending)
	record.PurchasePrice = numericToDecimal(purchase)
	record.ModificationCost = numericToDecimal(modification)
	record.AgentCommission = numericToDecimal(commission)
	record.OtherCost = numericToDecimal(other)
	record.SalePrice = numericToDecimal(salePrice)
	record.PaymentCash = numericToDecimal(cash)
	record.PaymentBankTransfer = numericToDecimal(bank)
	record.PaymentOnline = numericToDecimal(online)
	record.PaymentLoan = numericToDecimal(loan)
	record.SecurityCheque.Amount = numericToDecimal(chequeAmount)
	record.RemainingAmount = numericToDecimal(remaining)
	record.RemainingAmountToSeller = numericToDecimal(toSeller)
	record.PurchaseDate = purchaseDate.Time
	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	if saleDate.Valid {
		t := saleDate.Time
		record.SaleDate = &t
	}

	return &record, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	// NaN and infinity carry a nil Int; coerce them to zero like NULL.
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
