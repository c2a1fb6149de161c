package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/infrastructure/metrics"
)

// ReconcileOutcome describes what a reconciliation attempt did.
type ReconcileOutcome string

const (
	// OutcomeApplied means the entry was settled and the wallet credited.
	OutcomeApplied ReconcileOutcome = "applied"
	// OutcomeAlreadyProcessed means a redelivered event found the entry
	// already SUCCESS; nothing changed.
	OutcomeAlreadyProcessed ReconcileOutcome = "already_processed"
	// OutcomeIgnored means the event type is not one we settle on, or the
	// entry was already in a terminal non-SUCCESS state.
	OutcomeIgnored ReconcileOutcome = "ignored"
	// OutcomeMismatched means the paid amount disagreed with the entry; the
	// entry is now FAILED and needs manual review.
	OutcomeMismatched ReconcileOutcome = "mismatched"
)

// ReconcileInput is a verified gateway event.
type ReconcileInput struct {
	EventType            string
	Reference            string
	GatewayTransactionID string
	AmountPaid           decimal.Decimal
	RawEvent             map[string]any
}

// ReconcileUseCase applies verified gateway confirmation events to the ledger
// and wallet exactly once. All mutation happens in a single database
// transaction with row locks taken in the fixed order ledger entry -> wallet.
type ReconcileUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	walletRepo WalletRepository
	retrier    Retrier
	tolerance  decimal.Decimal
	metrics    *metrics.Metrics
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	walletRepo WalletRepository,
	retrier Retrier,
	metrics *metrics.Metrics,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		walletRepo: walletRepo,
		retrier:    retrier,
		tolerance:  decimal.RequireFromString(AmountTolerance),
		metrics:    metrics,
	}
}

// Reconcile processes one gateway event. Transient commit failures
// (serialization conflicts, deadlocks) are retried from scratch; that is safe
// because a retry of an already-committed success observes SUCCESS and no-ops.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, input ReconcileInput) (ReconcileOutcome, error) {
	if input.EventType != EventChargeSucceeded {
		uc.observe(OutcomeIgnored)
		return OutcomeIgnored, nil
	}

	start := time.Now()

	var outcome ReconcileOutcome

	operation := func() error {
		o, err := uc.reconcileOnce(ctx, input)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		uc.observe("error")
		return "", err
	}

	uc.observe(outcome)
	if uc.metrics != nil {
		uc.metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}

	return outcome, nil
}

func (uc *ReconcileUseCase) reconcileOnce(ctx context.Context, input ReconcileInput) (ReconcileOutcome, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Row lock on the entry totally orders concurrent deliveries for this
	// reference; unrelated references are not blocked.
	entry, err := uc.ledgerRepo.GetByReferenceForUpdate(txCtx, tx, input.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrUnknownReference, input.Reference)
		}
		return "", err
	}

	if entry.Status == domain.EntryStatusSuccess {
		// Idempotent replay: the event was already applied.
		if err := tx.Commit(txCtx); err != nil {
			return "", err
		}
		return OutcomeAlreadyProcessed, nil
	}

	now := time.Now().UTC()

	if entry.IsTerminal() {
		// A confirmation arrived for an entry manually failed or swept to
		// ABANDONED. The state machine is forward-only, so record the event
		// for manual review and change nothing else.
		metadata := mergeMetadata(entry.Metadata, map[string]any{
			"late_event":         input.RawEvent,
			"late_event_at":      now.Format(time.RFC3339),
			"late_event_gateway": input.GatewayTransactionID,
		})
		if err := uc.ledgerRepo.UpdateStatus(txCtx, tx, entry.ID, entry.Status, entry.ExternalReference, metadata, now); err != nil {
			return "", err
		}
		if err := tx.Commit(txCtx); err != nil {
			return "", err
		}
		return OutcomeIgnored, nil
	}

	if entry.Amount.Sub(input.AmountPaid).Abs().GreaterThan(uc.tolerance) {
		metadata := mergeMetadata(entry.Metadata, map[string]any{
			"failure_reason": "amount mismatch",
			"amount_paid":    input.AmountPaid.String(),
			"amount_due":     entry.Amount.String(),
			"gateway_event":  input.RawEvent,
		})
		if err := uc.ledgerRepo.UpdateStatus(txCtx, tx, entry.ID, domain.EntryStatusFailed, input.GatewayTransactionID, metadata, now); err != nil {
			return "", err
		}
		if err := tx.Commit(txCtx); err != nil {
			return "", err
		}
		return OutcomeMismatched, nil
	}

	metadata := mergeMetadata(entry.Metadata, map[string]any{
		"gateway_event": input.RawEvent,
	})
	if err := uc.ledgerRepo.UpdateStatus(txCtx, tx, entry.ID, domain.EntryStatusSuccess, input.GatewayTransactionID, metadata, now); err != nil {
		return "", err
	}

	// Wallet is always locked after the entry. Every code path that touches
	// both rows keeps this order; violating it risks deadlock cycles.
	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, entry.WalletID)
	if err != nil {
		return "", err
	}

	newBalance := wallet.ApplyCredit(entry.Amount)
	if err := uc.walletRepo.UpdateBalance(txCtx, tx, wallet.ID, newBalance, now); err != nil {
		return "", err
	}

	if err := tx.Commit(txCtx); err != nil {
		return "", err
	}

	return OutcomeApplied, nil
}

func (uc *ReconcileUseCase) observe(outcome ReconcileOutcome) {
	if uc.metrics != nil {
		uc.metrics.WebhooksProcessed.WithLabelValues(string(outcome)).Inc()
	}
}

func mergeMetadata(existing, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}
	return merged
}
