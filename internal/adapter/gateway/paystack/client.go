package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/obiano/walletpay/internal/usecase"
)

const defaultBaseURL = "https://api.paystack.co"

// Client implements usecase.PaymentGateway against the Paystack REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a new Paystack client. An empty baseURL targets the live
// API; tests point it at a local server.
func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type initializeRequest struct {
	Reference string `json:"reference"`
	Email     string `json:"email"`
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeCharge creates a checkout session for the given reference.
func (c *Client) InitializeCharge(ctx context.Context, input usecase.InitializeChargeInput) (*usecase.GatewayAuthorization, error) {
	body, err := json.Marshal(initializeRequest{
		Reference: input.Reference,
		Email:     input.Email,
		Currency:  input.Currency,
		Amount:    input.AmountSubunits,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	var resp initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", resp.Message)
	}

	return &usecase.GatewayAuthorization{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID        int64  `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// VerifyCharge fetches the settled state of a charge from Paystack.
func (c *Client) VerifyCharge(ctx context.Context, reference string) (*usecase.GatewayCharge, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", resp.Message)
	}

	return &usecase.GatewayCharge{
		Reference:      resp.Data.Reference,
		GatewayRef:     fmt.Sprintf("%d", resp.Data.ID),
		Status:         resp.Data.Status,
		AmountSubunits: resp.Data.Amount,
		RawPayload: map[string]any{
			"id":        resp.Data.ID,
			"reference": resp.Data.Reference,
			"status":    resp.Data.Status,
			"amount":    resp.Data.Amount,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build paystack request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read paystack response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paystack %s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}

	return nil
}
