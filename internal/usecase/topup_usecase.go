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

// TopUpUseCase initiates wallet top-ups against the external gateway.
type TopUpUseCase struct {
	walletRepo WalletRepository
	ledgerRepo LedgerRepository
	gateway    PaymentGateway
	idGen      IDGenerator
	minAmount  decimal.Decimal
	currency   string
	metrics    *metrics.Metrics
}

// NewTopUpUseCase creates a new TopUpUseCase. minAmount is the configured
// top-up floor; currency is the wallet currency assigned at creation.
func NewTopUpUseCase(
	walletRepo WalletRepository,
	ledgerRepo LedgerRepository,
	gateway PaymentGateway,
	idGen IDGenerator,
	minAmount decimal.Decimal,
	currency string,
	metrics *metrics.Metrics,
) *TopUpUseCase {
	return &TopUpUseCase{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		gateway:    gateway,
		idGen:      idGen,
		minAmount:  minAmount,
		currency:   currency,
		metrics:    metrics,
	}
}

// TopUpInput represents a top-up initiation request.
type TopUpInput struct {
	OwnerID string
	Amount  decimal.Decimal
	Email   string
}

// TopUpResult carries the gateway redirect handle back to the caller.
type TopUpResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// TopUp creates the owner's wallet if absent, records a PENDING CREDIT ledger
// entry under a fresh reference, and initializes the charge with the gateway.
// The entry insert and the gateway call are deliberately not atomic: a crash
// between them leaves a PENDING entry and no money moved, which the sweep
// resolves later.
func (uc *TopUpUseCase) TopUp(ctx context.Context, input TopUpInput) (*TopUpResult, error) {
	if err := domain.ValidateOwnerID(input.OwnerID); err != nil {
		return nil, err
	}
	if err := domain.ValidateTopUpAmount(input.Amount, uc.minAmount); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	wallet, err := uc.getOrCreateWallet(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.LedgerEntry{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Amount:    input.Amount,
		Reference: domain.NewReference(),
		Status:    domain.EntryStatusPending,
		Type:      domain.EntryTypeCredit,
		Metadata: map[string]any{
			"owner_id": input.OwnerID,
			"email":    input.Email,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	auth, err := uc.gateway.InitializeCharge(ctx, InitializeChargeInput{
		Reference:      entry.Reference,
		Email:          input.Email,
		Currency:       wallet.Currency,
		AmountSubunits: input.Amount.Shift(SubunitScale).IntPart(),
	})
	if err != nil {
		// Never leave the entry dangling in PENDING when the gateway call
		// failed: no charge exists for it, so no webhook will ever settle it.
		if markErr := uc.ledgerRepo.MarkFailed(ctx, entry.ID, err.Error(), time.Now().UTC()); markErr != nil {
			return nil, errors.Join(fmt.Errorf("%w: %v", domain.ErrGatewayInitiation, err), markErr)
		}

		if uc.metrics != nil {
			uc.metrics.TopUpFailures.WithLabelValues("gateway").Inc()
		}

		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayInitiation, err)
	}

	if uc.metrics != nil {
		uc.metrics.TopUpsInitiated.Inc()
	}

	return &TopUpResult{
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Reference:        entry.Reference,
	}, nil
}

// getOrCreateWallet looks up the owner's wallet, creating a zero-balance one
// on first top-up. Two concurrent first top-ups race on the owner_id unique
// constraint; the loser re-reads the winner's row.
func (uc *TopUpUseCase) getOrCreateWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByOwnerID(ctx, ownerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	wallet = domain.NewWallet(uc.idGen.Generate(), ownerID, uc.currency, time.Now().UTC())

	err = uc.walletRepo.Create(ctx, wallet)
	if err == nil {
		return wallet, nil
	}
	if errors.Is(err, domain.ErrWalletExists) {
		return uc.walletRepo.GetByOwnerID(ctx, ownerID)
	}

	return nil, err
}
