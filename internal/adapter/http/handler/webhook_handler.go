package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/obiano/walletpay/internal/adapter/gateway/paystack"
	"github.com/obiano/walletpay/internal/adapter/http/dto"
	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/infrastructure/metrics"
	"github.com/obiano/walletpay/internal/usecase"
)

const maxWebhookBodySize = 1 << 20

// SignatureVerifier validates a webhook body against its signature header.
type SignatureVerifier interface {
	Verify(body []byte, signature string) bool
}

// ReconcileService applies a verified gateway event.
type ReconcileService interface {
	Reconcile(ctx context.Context, input usecase.ReconcileInput) (usecase.ReconcileOutcome, error)
}

// WebhookHandler receives gateway confirmation events.
//
// Anything past signature verification is acknowledged with 200: the gateway
// treats non-2xx as a delivery failure and retries, and a redelivery will not
// fix a mismatched amount or an unknown reference. Those cases are logged for
// operators instead.
type WebhookHandler struct {
	verifier  SignatureVerifier
	reconcile ReconcileService
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier SignatureVerifier, reconcile ReconcileService, logger zerolog.Logger, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		reconcile: reconcile,
		logger:    logger,
		metrics:   m,
	}
}

// Receive handles a webhook delivery.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.metrics != nil {
		h.metrics.WebhooksReceived.Inc()
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	signature := r.Header.Get(paystack.SignatureHeader)
	if !h.verifier.Verify(body, signature) {
		if h.metrics != nil {
			h.metrics.WebhookSignatureFailures.Inc()
		}
		h.logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("webhook rejected: bad signature")
		writeError(w, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	input, err := paystack.ParseEvent(body)
	if err != nil {
		h.logger.Warn().Err(err).Msg("webhook body unparseable")
		writeError(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	outcome, err := h.reconcile.Reconcile(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownReference) {
			// Signed but unknown: nothing to settle against. Acknowledge so
			// the gateway stops retrying, and leave a trace for operators.
			h.logger.Warn().
				Str("reference", input.Reference).
				Str("event", input.EventType).
				Msg("webhook for unknown reference")
			writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "unknown_reference"})
			return
		}

		h.logger.Error().Err(err).
			Str("reference", input.Reference).
			Msg("webhook reconciliation failed")
		writeError(w, http.StatusInternalServerError, "reconciliation failed", "")
		return
	}

	if outcome == usecase.OutcomeMismatched {
		h.logger.Warn().
			Str("reference", input.Reference).
			Str("amount_paid", input.AmountPaid.String()).
			Msg("webhook amount mismatch, entry failed")
	}

	writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: string(outcome)})
}
