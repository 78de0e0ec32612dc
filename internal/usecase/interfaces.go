package usecase

import (
	"context"
	"time"

	"github.com/motorbook/dealerledger/internal/domain"
)

// VehicleRepository defines data access for vehicle sale records. Reads
// return the full aggregate including the settlement ledger.
type VehicleRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.VehicleSaleRecord) error
	GetByID(ctx context.Context, id string) (*domain.VehicleSaleRecord, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.VehicleSaleRecord, error)
	// Update persists the mutable ledger fields guarded by the record's
	// version; a stale version fails with domain.ErrVersionConflict.
	Update(ctx context.Context, tx Transaction, record *domain.VehicleSaleRecord) error
	List(ctx context.Context, limit, offset int) ([]*domain.VehicleSaleRecord, error)
	// ListSold returns sold records, optionally bounded by sale date.
	ListSold(ctx context.Context, from, to *time.Time) ([]*domain.VehicleSaleRecord, error)
}

// SettlementRepository defines data access for the append-only settlement ledger.
type SettlementRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.SettlementEvent) error
	MarkReversed(ctx context.Context, tx Transaction, id string) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]*domain.SettlementEvent, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation that failed with a transient error, such as a
// deadlock or a lost optimistic-lock race.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
