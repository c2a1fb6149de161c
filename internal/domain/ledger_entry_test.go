package domain_test

import (
	"testing"

	"github.com/obiano/walletpay/internal/domain"
)

func TestLedgerEntryCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.EntryStatus
		to   domain.EntryStatus
		want bool
	}{
		{"pending to success", domain.EntryStatusPending, domain.EntryStatusSuccess, true},
		{"pending to failed", domain.EntryStatusPending, domain.EntryStatusFailed, true},
		{"pending to abandoned", domain.EntryStatusPending, domain.EntryStatusAbandoned, true},
		{"pending to pending", domain.EntryStatusPending, domain.EntryStatusPending, false},
		{"success to failed", domain.EntryStatusSuccess, domain.EntryStatusFailed, false},
		{"success to success", domain.EntryStatusSuccess, domain.EntryStatusSuccess, false},
		{"failed to success", domain.EntryStatusFailed, domain.EntryStatusSuccess, false},
		{"abandoned to success", domain.EntryStatusAbandoned, domain.EntryStatusSuccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &domain.LedgerEntry{Status: tt.from}
			if got := entry.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s) from %s = %v, want %v", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestLedgerEntryIsTerminal(t *testing.T) {
	for _, status := range []domain.EntryStatus{
		domain.EntryStatusSuccess,
		domain.EntryStatusFailed,
		domain.EntryStatusAbandoned,
	} {
		entry := &domain.LedgerEntry{Status: status}
		if !entry.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}

	entry := &domain.LedgerEntry{Status: domain.EntryStatusPending}
	if entry.IsTerminal() {
		t.Error("expected PENDING to be non-terminal")
	}
}

func TestNewReference(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		ref := domain.NewReference()

		if err := domain.ValidateReference(ref); err != nil {
			t.Fatalf("generated reference %q failed validation: %v", ref, err)
		}

		if seen[ref] {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = true
	}
}

func TestValidateReference(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"valid", domain.NewReference(), false},
		{"missing prefix", "f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"wrong prefix", "pay_f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"not a uuid", "txn_not-a-uuid", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateReference(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReference(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
		})
	}
}
