package paystack

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/usecase"
)

// Event is the envelope Paystack posts to the webhook endpoint.
type Event struct {
	Event string `json:"event"`
	Data  struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// ParseEvent decodes a webhook body into a reconciliation input. The subunit
// amount is converted back to major units here so everything past the
// adapter speaks decimals.
func ParseEvent(body []byte) (usecase.ReconcileInput, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return usecase.ReconcileInput{}, fmt.Errorf("decode webhook event: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return usecase.ReconcileInput{}, fmt.Errorf("decode webhook payload: %w", err)
	}

	return usecase.ReconcileInput{
		EventType:            event.Event,
		Reference:            event.Data.Reference,
		GatewayTransactionID: fmt.Sprintf("%d", event.Data.ID),
		AmountPaid:           decimal.NewFromInt(event.Data.Amount).Shift(-usecase.SubunitScale),
		RawEvent:             raw,
	}, nil
}
