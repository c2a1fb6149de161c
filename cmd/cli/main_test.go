package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/obiano/walletpay/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestRequestSendsOwnerHeader(t *testing.T) {
	var gotOwner string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = r.Header.Get("X-Owner-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"balance":"0","currency":"NGN"}`))
	}))
	defer server.Close()

	origURL, origOwner, origTimeout := baseURL, ownerID, timeout
	defer func() { baseURL, ownerID, timeout = origURL, origOwner, origTimeout }()
	baseURL = server.URL
	ownerID = "owner-1"
	timeout = 5 * time.Second

	result, status, err := request(http.MethodGet, "/api/v1/payment/wallet")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if gotOwner != "owner-1" {
		t.Fatalf("expected owner header to be sent, got %q", gotOwner)
	}

	if result["currency"] != "NGN" {
		t.Fatalf("unexpected response: %+v", result)
	}
}

func TestTokenCmd(t *testing.T) {
	cmd := tokenCmd()
	cmd.SetArgs([]string{"owner-1", "--secret", "test-secret", "--email", "owner@example.com"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	token := strings.TrimSpace(out)
	if token == "" {
		t.Fatal("expected a token to be printed")
	}

	claims, err := auth.NewJWTManager("test-secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("expected minted token to verify: %v", err)
	}

	if claims.OwnerID != "owner-1" || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
