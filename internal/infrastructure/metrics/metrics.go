package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Top-up metrics
	TopUpsInitiated prometheus.Counter
	TopUpFailures   *prometheus.CounterVec
	TopUpAmount     prometheus.Histogram

	// Webhook / reconciliation metrics
	WebhooksReceived         prometheus.Counter
	WebhookSignatureFailures prometheus.Counter
	WebhooksProcessed        *prometheus.CounterVec
	ReconcileDuration        prometheus.Histogram

	// Sweep metrics
	SweepsRun        prometheus.Counter
	EntriesAbandoned prometheus.Counter
	EntriesRecovered prometheus.Counter

	// Wallet metrics
	WalletsCreated prometheus.Counter
	BalanceReads   prometheus.Counter
}

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		TopUpsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_topups_initiated_total",
			Help: "Total number of top-up initiations accepted",
		}),
		TopUpFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletpay_topup_failures_total",
				Help: "Total number of top-up initiation failures by reason",
			},
			[]string{"reason"},
		),
		TopUpAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletpay_topup_amount",
			Help:    "Requested top-up amounts",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),

		WebhooksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_webhooks_received_total",
			Help: "Total number of webhook deliveries received",
		}),
		WebhookSignatureFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_webhook_signature_failures_total",
			Help: "Total number of webhook deliveries rejected for bad signatures",
		}),
		WebhooksProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletpay_webhooks_processed_total",
				Help: "Total number of reconciliation attempts by outcome",
			},
			[]string{"outcome"},
		),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletpay_reconcile_duration_seconds",
			Help:    "Duration of reconciliation transactions",
			Buckets: prometheus.DefBuckets,
		}),

		SweepsRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_sweeps_run_total",
			Help: "Total number of pending-entry sweep passes",
		}),
		EntriesAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_entries_abandoned_total",
			Help: "Total number of ledger entries swept to ABANDONED",
		}),
		EntriesRecovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_entries_recovered_total",
			Help: "Total number of settled charges recovered by the sweep",
		}),

		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		BalanceReads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletpay_balance_reads_total",
			Help: "Total number of balance queries served",
		}),
	}
}
