package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/usecase"
)

// TopUpResponse represents an initiated top-up in API responses.
type TopUpResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// TopUpFromResult converts a use case result to a response.
func TopUpFromResult(result *usecase.TopUpResult) *TopUpResponse {
	return &TopUpResponse{
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		Reference:        result.Reference,
	}
}

// BalanceResponse represents a wallet balance in API responses.
type BalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID                string          `json:"id"`
	Amount            decimal.Decimal `json:"amount"`
	Reference         string          `json:"reference"`
	ExternalReference string          `json:"external_reference,omitempty"`
	Status            string          `json:"status"`
	Type              string          `json:"type"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:                e.ID,
		Amount:            e.Amount,
		Reference:         e.Reference,
		ExternalReference: e.ExternalReference,
		Status:            string(e.Status),
		Type:              string(e.Type),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain ledger entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a page of ledger entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Status string `json:"status"`
}

// SweepResponse summarizes a sweep pass triggered over the API.
type SweepResponse struct {
	Recovered int `json:"recovered"`
	Abandoned int `json:"abandoned"`
	Skipped   int `json:"skipped"`
}

// ConsistencyResponse reports the conservation check for a wallet.
type ConsistencyResponse struct {
	OwnerID    string          `json:"owner_id"`
	Balance    decimal.Decimal `json:"balance"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Consistent bool            `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
