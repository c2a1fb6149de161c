package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
)

// SweepUseCase resolves ledger entries left PENDING past the abandon
// threshold, typically because the user never completed checkout or a webhook
// was lost. Each entry is double-checked with the gateway first: a charge that
// actually settled is reconciled and credited, everything else is moved to
// ABANDONED.
type SweepUseCase struct {
	txManager    TransactionManager
	ledgerRepo   LedgerRepository
	gateway      PaymentGateway
	reconciler   *ReconcileUseCase
	abandonAfter time.Duration
	batchSize    int
	logger       *slog.Logger
}

// NewSweepUseCase creates a new SweepUseCase.
func NewSweepUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	gateway PaymentGateway,
	reconciler *ReconcileUseCase,
	abandonAfter time.Duration,
	batchSize int,
	logger *slog.Logger,
) *SweepUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SweepUseCase{
		txManager:    txManager,
		ledgerRepo:   ledgerRepo,
		gateway:      gateway,
		reconciler:   reconciler,
		abandonAfter: abandonAfter,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	Recovered int // settled at the gateway, credited via reconciliation
	Abandoned int // unpaid, moved to ABANDONED
	Skipped   int // gateway verify failed, retried next pass
}

// Sweep processes one batch of stale PENDING entries.
func (uc *SweepUseCase) Sweep(ctx context.Context) (*SweepResult, error) {
	cutoff := time.Now().UTC().Add(-uc.abandonAfter)

	entries, err := uc.ledgerRepo.ListPendingBefore(ctx, cutoff, uc.batchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}

	for _, entry := range entries {
		charge, err := uc.gateway.VerifyCharge(ctx, entry.Reference)
		if err != nil {
			uc.logger.Warn("gateway verify failed, skipping entry",
				"reference", entry.Reference,
				"error", err,
			)
			result.Skipped++
			continue
		}

		if charge.Status == GatewayStatusSuccess {
			outcome, err := uc.reconciler.Reconcile(ctx, ReconcileInput{
				EventType:            EventChargeSucceeded,
				Reference:            entry.Reference,
				GatewayTransactionID: charge.GatewayRef,
				AmountPaid:           decimal.NewFromInt(charge.AmountSubunits).Shift(-SubunitScale),
				RawEvent:             charge.RawPayload,
			})
			if err != nil {
				uc.logger.Error("failed to reconcile settled charge during sweep",
					"reference", entry.Reference,
					"error", err,
				)
				result.Skipped++
				continue
			}

			uc.logger.Info("recovered settled charge missed by webhooks",
				"reference", entry.Reference,
				"outcome", string(outcome),
			)
			result.Recovered++
			continue
		}

		if err := uc.abandon(ctx, entry.Reference); err != nil {
			uc.logger.Error("failed to abandon stale entry",
				"reference", entry.Reference,
				"error", err,
			)
			result.Skipped++
			continue
		}
		result.Abandoned++
	}

	return result, nil
}

// abandon moves a still-PENDING entry to ABANDONED under the entry row lock.
// A reconciler that slipped in first wins; the entry is left as found.
func (uc *SweepUseCase) abandon(ctx context.Context, reference string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.ledgerRepo.GetByReferenceForUpdate(txCtx, tx, reference)
	if err != nil {
		return err
	}

	if entry.Status != domain.EntryStatusPending {
		return tx.Commit(txCtx)
	}

	now := time.Now().UTC()
	metadata := mergeMetadata(entry.Metadata, map[string]any{
		"abandoned_at": now.Format(time.RFC3339),
	})

	if err := uc.ledgerRepo.UpdateStatus(txCtx, tx, entry.ID, domain.EntryStatusAbandoned, entry.ExternalReference, metadata, now); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
