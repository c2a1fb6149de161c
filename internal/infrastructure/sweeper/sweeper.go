package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/obiano/walletpay/internal/infrastructure/metrics"
	"github.com/obiano/walletpay/internal/usecase"
)

// Sweeper periodically resolves stale PENDING ledger entries.
type Sweeper struct {
	sweep    *usecase.SweepUseCase
	logger   *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
}

// Config for Sweeper.
type Config struct {
	Sweep    *usecase.SweepUseCase
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration // Polling interval
}

// New creates a new Sweeper.
func New(cfg Config) *Sweeper {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Sweeper{
		sweep:    cfg.Sweep,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		interval: cfg.Interval,
	}
}

// Start begins the sweep worker. It runs continuously until the context is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("sweeper started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	result, err := s.sweep.Sweep(ctx)
	if err != nil {
		s.logger.Error("sweep pass failed", slog.String("error", err.Error()))
		return
	}

	if s.metrics != nil {
		s.metrics.SweepsRun.Inc()
		s.metrics.EntriesAbandoned.Add(float64(result.Abandoned))
		s.metrics.EntriesRecovered.Add(float64(result.Recovered))
	}

	if result.Recovered == 0 && result.Abandoned == 0 && result.Skipped == 0 {
		return
	}

	s.logger.Info("sweep pass complete",
		slog.Int("recovered", result.Recovered),
		slog.Int("abandoned", result.Abandoned),
		slog.Int("skipped", result.Skipped))
}
