package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/usecase"
	"github.com/obiano/walletpay/internal/usecase/mocks"
)

func newTestSweeper(t *testing.T) *Sweeper {
	t.Helper()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockPaymentGateway(ctrl)
	gateway.EXPECT().VerifyCharge(gomock.Any(), gomock.Any()).Return(nil, errors.New("unreachable")).AnyTimes()

	ledgerRepo := mocks.NewMockLedgerRepository()
	txManager := mocks.NewMockTransactionManager()
	reconciler := usecase.NewReconcileUseCase(txManager, ledgerRepo, mocks.NewMockWalletRepository(), mocks.NewMockRetrier(), nil)
	sweep := usecase.NewSweepUseCase(txManager, ledgerRepo, gateway, reconciler, time.Hour, 10, nil)

	return New(Config{
		Sweep:    sweep,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Interval: 10 * time.Millisecond,
	})
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	s := newTestSweeper(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestRunOnceSurvivesSweepError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockPaymentGateway(ctrl)

	ledgerRepo := mocks.NewMockLedgerRepository()
	ledgerRepo.ListPendingBeforeFunc = func(ctx context.Context, cutoff time.Time, limit int) ([]*domain.LedgerEntry, error) {
		return nil, errors.New("database down")
	}

	txManager := mocks.NewMockTransactionManager()
	reconciler := usecase.NewReconcileUseCase(txManager, ledgerRepo, mocks.NewMockWalletRepository(), mocks.NewMockRetrier(), nil)
	sweep := usecase.NewSweepUseCase(txManager, ledgerRepo, gateway, reconciler, time.Hour, 10, nil)

	s := New(Config{
		Sweep:  sweep,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// Must log and return, not panic or stop the worker loop.
	s.runOnce(context.Background())
}
