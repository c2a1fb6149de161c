package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/adapter/gateway/paystack"
	adaptershttp "github.com/obiano/walletpay/internal/adapter/http"
	"github.com/obiano/walletpay/internal/adapter/http/handler"
	"github.com/obiano/walletpay/internal/adapter/repository/postgres"
	redisrepo "github.com/obiano/walletpay/internal/adapter/repository/redis"
	infraredis "github.com/obiano/walletpay/internal/infrastructure/redis"
	"github.com/obiano/walletpay/internal/usecase"
	"github.com/obiano/walletpay/tests/testutil"
)

const gatewaySecret = "sk_test_integration"

// verifyState is what the stubbed gateway reports for a reference.
type verifyState struct {
	status   string
	amount   int64
	chargeID int64
}

// gatewayStub mimics the Paystack transaction endpoints.
type gatewayStub struct {
	server *httptest.Server

	mu      sync.Mutex
	charges map[string]verifyState
}

func newGatewayStub() *gatewayStub {
	stub := &gatewayStub{charges: map[string]verifyState{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reference string `json:"reference"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/" + req.Reference,
				"access_code":       "ac_" + req.Reference,
				"reference":         req.Reference,
			},
		})
	})
	mux.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimPrefix(r.URL.Path, "/transaction/verify/")

		stub.mu.Lock()
		state, ok := stub.charges[reference]
		stub.mu.Unlock()

		if !ok {
			state = verifyState{status: "abandoned"}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"id":        state.chargeID,
				"reference": reference,
				"status":    state.status,
				"amount":    state.amount,
			},
		})
	})

	stub.server = httptest.NewServer(mux)
	return stub
}

// SetVerify controls what a later verify call reports for a reference.
func (g *gatewayStub) SetVerify(reference, status string, amountSubunits, chargeID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges[reference] = verifyState{status: status, amount: amountSubunits, chargeID: chargeID}
}

func (g *gatewayStub) Close() {
	g.server.Close()
}

// testEnv wires the full HTTP stack against real Postgres and Redis.
type testEnv struct {
	DB      *testutil.TestDB
	Router  http.Handler
	Gateway *gatewayStub
	Sweep   *usecase.SweepUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	gatewayStub := newGatewayStub()
	t.Cleanup(gatewayStub.Close)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	gateway := paystack.NewClient(gatewaySecret, gatewayStub.server.URL, 5*time.Second)
	verifier := paystack.NewSignatureVerifier(gatewaySecret)

	topUpUC := usecase.NewTopUpUseCase(walletRepo, ledgerRepo, gateway, idGen, decimal.NewFromInt(12), "NGN", nil)
	walletUC := usecase.NewWalletUseCase(walletRepo, ledgerRepo, "NGN")
	reconcileUC := usecase.NewReconcileUseCase(txManager, ledgerRepo, walletRepo, retrier, nil)
	sweepUC := usecase.NewSweepUseCase(txManager, ledgerRepo, gateway, reconcileUC, 24*time.Hour, 100, nil)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		PaymentHandler:   handler.NewPaymentHandler(topUpUC, walletUC),
		WebhookHandler:   handler.NewWebhookHandler(verifier, reconcileUC, zerolog.Nop(), nil),
		AdminHandler:     handler.NewAdminHandler(sweepUC, walletUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   time.Hour,
		Logger:           zerolog.Nop(),
	})

	return &testEnv{
		DB:      testDB,
		Router:  router,
		Gateway: gatewayStub,
		Sweep:   sweepUC,
	}
}

// do performs a request against the in-process router as the given owner.
func (env *testEnv) do(method, path, owner string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
		req.Header.Set("X-Owner-Email", owner+"@example.com")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// topUp starts a top-up and returns the generated payment reference.
func (env *testEnv) topUp(t *testing.T, owner, amount string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"amount": amount})
	rec := env.do(http.MethodPost, "/api/v1/payment/topup", owner, body, map[string]string{
		"Content-Type": "application/json",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("top-up failed: status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse top-up response: %v", err)
	}
	if resp.Reference == "" {
		t.Fatalf("top-up response missing reference: %s", rec.Body.String())
	}

	return resp.Reference
}

// deliverWebhook signs and posts a charge.success event.
func (env *testEnv) deliverWebhook(t *testing.T, reference string, amountSubunits, chargeID int64) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"id":        chargeID,
			"reference": reference,
			"amount":    amountSubunits,
			"status":    "success",
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	verifier := paystack.NewSignatureVerifier(gatewaySecret)
	return env.do(http.MethodPost, "/api/v1/payment/webhook", "", body, map[string]string{
		paystack.SignatureHeader: verifier.Sign(body),
	})
}

// balance fetches the owner's balance over the API.
func (env *testEnv) balance(t *testing.T, owner string) decimal.Decimal {
	t.Helper()

	rec := env.do(http.MethodGet, "/api/v1/payment/wallet", owner, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance query failed: status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse balance response: %v", err)
	}

	return resp.Balance
}
