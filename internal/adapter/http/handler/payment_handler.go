package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/obiano/walletpay/internal/adapter/http/dto"
	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/usecase"
)

// TopUpService defines the top-up behavior needed by PaymentHandler.
type TopUpService interface {
	TopUp(ctx context.Context, input usecase.TopUpInput) (*usecase.TopUpResult, error)
}

// WalletService defines the read-side behavior needed by PaymentHandler.
type WalletService interface {
	GetBalance(ctx context.Context, ownerID string) (*usecase.BalanceOutput, error)
	ListEntries(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEntry, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	topUpUC  TopUpService
	walletUC WalletService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(topUpUC TopUpService, walletUC WalletService) *PaymentHandler {
	return &PaymentHandler{topUpUC: topUpUC, walletUC: walletUC}
}

// TopUp starts a checkout session for the authenticated owner.
func (h *PaymentHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	owner, ok := domain.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	var req dto.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(owner.ID)
	if input.Email == "" {
		input.Email = owner.Email
	}

	result, err := h.topUpUC.TopUp(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start top-up", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TopUpFromResult(result))
}

// Wallet returns the authenticated owner's balance.
func (h *PaymentHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	owner, ok := domain.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	balance, err := h.walletUC.GetBalance(r.Context(), owner.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Balance:  balance.Balance,
		Currency: balance.Currency,
	})
}

// Transactions pages through the authenticated owner's ledger entries.
func (h *PaymentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := domain.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.walletUC.ListEntries(r.Context(), owner.ID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   limit,
		Offset:  offset,
	})
}
