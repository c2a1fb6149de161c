package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// AmountTolerance absorbs subunit rounding between the gateway's integer
	// amounts and ledger decimals. Anything larger is a real mismatch.
	AmountTolerance = "0.01"

	// EventChargeSucceeded is the gateway event type that settles a charge.
	EventChargeSucceeded = "charge.success"

	// GatewayStatusSuccess is the charge status the gateway's verify endpoint
	// reports once payment has settled.
	GatewayStatusSuccess = "success"

	// SubunitScale is the number of decimal places between a currency's major
	// unit and the gateway's smallest unit (e.g. naira to kobo).
	SubunitScale = 2
)
