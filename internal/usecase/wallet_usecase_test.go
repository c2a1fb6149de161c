package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/usecase"
	"github.com/obiano/walletpay/internal/usecase/mocks"
)

func TestGetBalanceUnknownOwnerIsZero(t *testing.T) {
	uc := usecase.NewWalletUseCase(mocks.NewMockWalletRepository(), mocks.NewMockLedgerRepository(), "NGN")

	out, err := uc.GetBalance(context.Background(), "owner-never-seen")
	if err != nil {
		t.Fatalf("a missing wallet is not an error: %v", err)
	}
	if !out.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", out.Balance)
	}
	if out.Currency != "NGN" {
		t.Errorf("expected default currency NGN, got %s", out.Currency)
	}
}

func TestGetBalanceExistingWallet(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	wallet := domain.NewWallet("wal-1", "owner-1", "USD", time.Now().UTC())
	wallet.Balance = decimal.RequireFromString("312.45")
	if err := walletRepo.Create(context.Background(), wallet); err != nil {
		t.Fatal(err)
	}

	uc := usecase.NewWalletUseCase(walletRepo, mocks.NewMockLedgerRepository(), "NGN")

	out, err := uc.GetBalance(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Balance.Equal(decimal.RequireFromString("312.45")) {
		t.Errorf("expected 312.45, got %s", out.Balance)
	}
	if out.Currency != "USD" {
		t.Errorf("expected wallet currency, got %s", out.Currency)
	}
}

func TestGetBalanceRejectsEmptyOwner(t *testing.T) {
	uc := usecase.NewWalletUseCase(mocks.NewMockWalletRepository(), mocks.NewMockLedgerRepository(), "NGN")

	if _, err := uc.GetBalance(context.Background(), ""); !errors.Is(err, domain.ErrMissingOwner) {
		t.Fatalf("expected ErrMissingOwner, got %v", err)
	}
}

func TestListEntriesUnknownOwnerIsEmpty(t *testing.T) {
	uc := usecase.NewWalletUseCase(mocks.NewMockWalletRepository(), mocks.NewMockLedgerRepository(), "NGN")

	entries, err := uc.ListEntries(context.Background(), "owner-never-seen", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d entries", len(entries))
	}
}

func TestListEntriesClampsPagination(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	wallet := domain.NewWallet("wal-1", "owner-1", "NGN", time.Now().UTC())
	if err := walletRepo.Create(context.Background(), wallet); err != nil {
		t.Fatal(err)
	}

	var gotLimit, gotOffset int
	ledgerRepo.ListByWalletFunc = func(ctx context.Context, walletID string, limit, offset int) ([]*domain.LedgerEntry, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	uc := usecase.NewWalletUseCase(walletRepo, ledgerRepo, "NGN")

	if _, err := uc.ListEntries(context.Background(), "owner-1", 100000, -5); err != nil {
		t.Fatal(err)
	}
	if gotLimit != domain.MaxPageSize {
		t.Errorf("expected limit clamped to %d, got %d", domain.MaxPageSize, gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", gotOffset)
	}
}

func TestCheckConsistency(t *testing.T) {
	walletRepo := mocks.NewMockWalletRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	wallet := domain.NewWallet("wal-1", "owner-1", "NGN", time.Now().UTC())
	wallet.Balance = decimal.NewFromInt(150)
	if err := walletRepo.Create(context.Background(), wallet); err != nil {
		t.Fatal(err)
	}

	uc := usecase.NewWalletUseCase(walletRepo, ledgerRepo, "NGN")

	ledgerRepo.SumSuccessfulFunc = func(ctx context.Context, walletID string) (decimal.Decimal, error) {
		return decimal.NewFromInt(150), nil
	}
	report, err := uc.CheckConsistency(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if !report.Consistent {
		t.Error("expected consistent report")
	}

	ledgerRepo.SumSuccessfulFunc = func(ctx context.Context, walletID string) (decimal.Decimal, error) {
		return decimal.NewFromInt(140), nil
	}
	report, err = uc.CheckConsistency(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if report.Consistent {
		t.Error("a drifted wallet must be flagged")
	}
	if !report.LedgerSum.Equal(decimal.NewFromInt(140)) {
		t.Errorf("expected ledger sum 140, got %s", report.LedgerSum)
	}
}
