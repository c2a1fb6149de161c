package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/domain"
)

func TestValidateTopUpAmount(t *testing.T) {
	minimum := decimal.NewFromInt(12)

	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{"at minimum", decimal.NewFromInt(12), nil},
		{"above minimum", decimal.NewFromInt(100), nil},
		{"fractional above minimum", decimal.RequireFromString("12.50"), nil},
		{"below minimum", decimal.NewFromInt(5), domain.ErrAmountBelowMinimum},
		{"just below minimum", decimal.RequireFromString("11.99"), domain.ErrAmountBelowMinimum},
		{"zero", decimal.Zero, domain.ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-10), domain.ErrInvalidAmount},
		{"above maximum", decimal.RequireFromString("1000000001"), domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateTopUpAmount(tt.amount, minimum)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := domain.ValidateCurrency("NGN"); err != nil {
		t.Errorf("unexpected error for NGN: %v", err)
	}
	if err := domain.ValidateCurrency("usd"); err != nil {
		t.Errorf("expected case-insensitive match for usd, got %v", err)
	}
	if err := domain.ValidateCurrency("XXX"); !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency for XXX, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"user@example.com", false},
		{"", false}, // receipts are optional
		{"not-an-email", true},
		{"missing@tld", true},
	}

	for _, tt := range tests {
		err := domain.ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidateOwnerID(t *testing.T) {
	if err := domain.ValidateOwnerID("user-123"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := domain.ValidateOwnerID(""); !errors.Is(err, domain.ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner for empty owner, got %v", err)
	}
	if err := domain.ValidateOwnerID("  "); !errors.Is(err, domain.ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner for blank owner, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := domain.ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, _ = domain.ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit capped at 1000, got %d", limit)
	}
}
