package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletExists        = errors.New("wallet already exists for owner")
	ErrInsufficientBalance = errors.New("wallet balance cannot go negative")

	// Ledger entry errors
	ErrEntryNotFound    = errors.New("ledger entry not found")
	ErrUnknownReference = errors.New("reference was never issued")
	ErrEntryTerminal    = errors.New("ledger entry already in terminal state")
	ErrInvalidReference = errors.New("invalid payment reference")

	// Validation errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountBelowMinimum = errors.New("amount below configured minimum")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrMissingOwner       = errors.New("owner identity is required")

	// Reconciliation errors
	ErrAmountMismatch = errors.New("paid amount does not match ledger entry")

	// Gateway errors
	ErrGatewayInitiation = errors.New("gateway charge initiation failed")

	// Authentication errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
