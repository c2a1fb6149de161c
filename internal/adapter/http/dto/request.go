package dto

import (
	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/usecase"
)

// TopUpRequest represents a request to start a wallet top-up.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Email  string          `json:"email,omitempty"`
}

// ToUseCaseInput converts to use case input for the given owner.
func (r *TopUpRequest) ToUseCaseInput(ownerID string) usecase.TopUpInput {
	return usecase.TopUpInput{
		OwnerID: ownerID,
		Amount:  r.Amount,
		Email:   r.Email,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
