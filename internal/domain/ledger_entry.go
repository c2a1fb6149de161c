package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusSuccess   EntryStatus = "SUCCESS"
	EntryStatusFailed    EntryStatus = "FAILED"
	EntryStatusAbandoned EntryStatus = "ABANDONED"
)

// EntryType distinguishes credits from debits.
type EntryType string

const (
	EntryTypeCredit EntryType = "CREDIT"
	EntryTypeDebit  EntryType = "DEBIT"
)

// ReferencePrefix prefixes every locally generated payment reference.
const ReferencePrefix = "txn_"

// LedgerEntry records a single payment attempt. The reference is the
// idempotency boundary: it is unique across all time and correlates the entry
// with the gateway's event stream. Entries are never deleted.
type LedgerEntry struct {
	ID                string
	WalletID          string
	Amount            decimal.Decimal
	Reference         string
	ExternalReference string
	Status            EntryStatus
	Type              EntryType
	Metadata          map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsTerminal reports whether the entry has reached a final state. Terminal
// entries never transition again and are never re-credited.
func (e *LedgerEntry) IsTerminal() bool {
	return e.Status != EntryStatusPending
}

// CanTransitionTo enforces the forward-only state machine:
// PENDING -> {SUCCESS | FAILED | ABANDONED}.
func (e *LedgerEntry) CanTransitionTo(next EntryStatus) bool {
	if e.Status != EntryStatusPending {
		return false
	}
	switch next {
	case EntryStatusSuccess, EntryStatusFailed, EntryStatusAbandoned:
		return true
	default:
		return false
	}
}

// NewReference generates a fresh globally unique payment reference.
func NewReference() string {
	return ReferencePrefix + uuid.NewString()
}

// ValidateReference checks the shape of a locally issued reference.
func ValidateReference(ref string) error {
	if !strings.HasPrefix(ref, ReferencePrefix) {
		return fmt.Errorf("%w: missing %q prefix", ErrInvalidReference, ReferencePrefix)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(ref, ReferencePrefix)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return nil
}
