package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const ledgerColumns = `id, wallet_id, amount, reference, external_reference, status, type, metadata, created_at, updated_at`

// Create inserts a new ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, wallet_id, amount, reference, external_reference, status, type, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		decimalToNumeric(entry.Amount),
		entry.Reference,
		entry.ExternalReference,
		string(entry.Status),
		string(entry.Type),
		metadata,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	return err
}

// GetByReference retrieves a ledger entry by its reference.
func (r *LedgerRepository) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE reference = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, reference))
}

// GetByReferenceForUpdate retrieves a ledger entry with a FOR UPDATE row
// lock. Concurrent processors of the same reference serialize here.
func (r *LedgerRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) (*domain.LedgerEntry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE reference = $1 FOR UPDATE`

	return scanEntry(pgxTx.QueryRow(ctx, query, reference))
}

// UpdateStatus updates an entry's status, external reference and metadata
// inside the caller's transaction.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, externalReference string, metadata map[string]any, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE ledger_entries
		SET status = $2, external_reference = $3, metadata = $4, updated_at = $5
		WHERE id = $1
	`

	raw, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, query, id, string(status), externalReference, raw, timeToPgTimestamptz(updatedAt))

	return err
}

// MarkFailed moves an entry to FAILED outside of a transaction, recording the
// reason in metadata. Used when initiation fails before any money moved.
func (r *LedgerRepository) MarkFailed(ctx context.Context, id, reason string, updatedAt time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $2,
		    metadata = metadata || jsonb_build_object('failure_reason', $3::text),
		    updated_at = $4
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, string(domain.EntryStatusFailed), reason, timeToPgTimestamptz(updatedAt))

	return err
}

// ListByWallet lists a wallet's entries, newest first.
func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListPendingBefore lists PENDING entries created before the cutoff, oldest
// first, capped at limit. SKIP LOCKED keeps the sweep from queueing behind a
// reconciler that holds an entry lock.
func (r *LedgerRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.pool.Query(ctx, query, string(domain.EntryStatusPending), timeToPgTimestamptz(cutoff), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumSuccessful returns the signed sum of a wallet's SUCCESS entries.
func (r *LedgerRepository) SumSuccessful(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = $3 THEN -amount ELSE amount END), 0)
		FROM ledger_entries
		WHERE wallet_id = $1 AND status = $2
	`

	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, query,
		walletID,
		string(domain.EntryStatusSuccess),
		string(domain.EntryTypeDebit),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	entry, err := scanEntryFields(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	entries := make([]*domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntryFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntryFields(scan func(dest ...any) error) (*domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		amount    pgtype.Numeric
		status    string
		entryType string
		metadata  []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := scan(
		&entry.ID,
		&entry.WalletID,
		&amount,
		&entry.Reference,
		&entry.ExternalReference,
		&status,
		&entryType,
		&metadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.Status = domain.EntryStatus(status)
	entry.Type = domain.EntryType(entryType)
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal entry metadata: %w", err)
		}
	}

	return &entry, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return []byte(`{}`), nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal entry metadata: %w", err)
	}

	return raw, nil
}
