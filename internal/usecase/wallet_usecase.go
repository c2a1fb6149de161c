package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
)

// WalletUseCase serves read-only wallet queries.
type WalletUseCase struct {
	walletRepo      WalletRepository
	ledgerRepo      LedgerRepository
	defaultCurrency string
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository, ledgerRepo LedgerRepository, defaultCurrency string) *WalletUseCase {
	return &WalletUseCase{
		walletRepo:      walletRepo,
		ledgerRepo:      ledgerRepo,
		defaultCurrency: defaultCurrency,
	}
}

// BalanceOutput is the current balance for an owner.
type BalanceOutput struct {
	Balance  decimal.Decimal
	Currency string
}

// GetBalance returns the owner's current balance. An owner who has never
// topped up gets a zero balance; reads never create wallets.
func (uc *WalletUseCase) GetBalance(ctx context.Context, ownerID string) (*BalanceOutput, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return &BalanceOutput{Balance: decimal.Zero, Currency: uc.defaultCurrency}, nil
		}
		return nil, err
	}

	return &BalanceOutput{Balance: wallet.Balance, Currency: wallet.Currency}, nil
}

// ListEntries pages through the owner's ledger entries, newest first.
func (uc *WalletUseCase) ListEntries(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	wallet, err := uc.walletRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return []*domain.LedgerEntry{}, nil
		}
		return nil, err
	}

	return uc.ledgerRepo.ListByWallet(ctx, wallet.ID, limit, offset)
}

// ConsistencyReport compares a wallet's balance against its settled ledger.
type ConsistencyReport struct {
	OwnerID    string
	Balance    decimal.Decimal
	LedgerSum  decimal.Decimal
	Consistent bool
}

// CheckConsistency verifies the conservation invariant for one wallet:
// balance == sum(SUCCESS credits) - sum(SUCCESS debits).
func (uc *WalletUseCase) CheckConsistency(ctx context.Context, ownerID string) (*ConsistencyReport, error) {
	if err := domain.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.ledgerRepo.SumSuccessful(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		OwnerID:    ownerID,
		Balance:    wallet.Balance,
		LedgerSum:  sum,
		Consistent: wallet.Balance.Equal(sum),
	}, nil
}
