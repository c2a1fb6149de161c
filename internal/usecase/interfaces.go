package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByOwnerID(ctx context.Context, ownerID string) (*domain.Wallet, error)
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error)
	GetByReferenceForUpdate(ctx context.Context, tx Transaction, reference string) (*domain.LedgerEntry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus, externalReference string, metadata map[string]any, updatedAt time.Time) error
	MarkFailed(ctx context.Context, id, reason string, updatedAt time.Time) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.LedgerEntry, error)
	SumSuccessful(ctx context.Context, walletID string) (decimal.Decimal, error)
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

// Retrier retries an operation on transient database errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// InitializeChargeInput is the request to the gateway's initialize operation.
// AmountSubunits is the amount converted to the gateway's smallest unit.
type InitializeChargeInput struct {
	Reference      string
	Email          string
	Currency       string
	AmountSubunits int64
}

// GatewayAuthorization is the redirect handle returned by the gateway.
type GatewayAuthorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// GatewayCharge is the gateway's view of a charge, as returned by verify.
type GatewayCharge struct {
	Reference      string
	GatewayRef     string
	Status         string
	AmountSubunits int64
	RawPayload     map[string]any
}

// PaymentGateway is the outbound connector to the external payment processor.
type PaymentGateway interface {
	InitializeCharge(ctx context.Context, input InitializeChargeInput) (*GatewayAuthorization, error)
	VerifyCharge(ctx context.Context, reference string) (*GatewayCharge, error)
}

// IdempotencyStore handles client-request idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
