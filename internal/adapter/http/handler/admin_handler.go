package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/obiano/walletpay/internal/adapter/http/dto"
	"github.com/obiano/walletpay/internal/usecase"
)

// SweepService triggers a sweep pass over stale entries.
type SweepService interface {
	Sweep(ctx context.Context) (*usecase.SweepResult, error)
}

// ConsistencyService verifies wallet/ledger agreement.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context, ownerID string) (*usecase.ConsistencyReport, error)
}

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	sweepUC       SweepService
	consistencyUC ConsistencyService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sweepUC SweepService, consistencyUC ConsistencyService) *AdminHandler {
	return &AdminHandler{sweepUC: sweepUC, consistencyUC: consistencyUC}
}

// Sweep runs one sweep pass immediately.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweepUC.Sweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sweep failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{
		Recovered: result.Recovered,
		Abandoned: result.Abandoned,
		Skipped:   result.Skipped,
	})
}

// Consistency checks the conservation invariant for one owner's wallet.
func (h *AdminHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner ID", "")
		return
	}

	report, err := h.consistencyUC.CheckConsistency(r.Context(), ownerID)
	if err != nil {
		writeError(w, mapDomainError(err), "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		OwnerID:    report.OwnerID,
		Balance:    report.Balance,
		LedgerSum:  report.LedgerSum,
		Consistent: report.Consistent,
	})
}
