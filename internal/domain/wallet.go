package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the durable balance for a single owner. Exactly one wallet
// exists per owner; it is created lazily on first top-up and never deleted.
type Wallet struct {
	ID        string
	OwnerID   string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet creates a zero-balance wallet for an owner.
func NewWallet(id, ownerID, currency string, now time.Time) *Wallet {
	return &Wallet{
		ID:        id,
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyCredit returns the balance after crediting amount.
func (w *Wallet) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}

// ApplyDebit returns the balance after debiting amount.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}

// ValidateDebit checks that debiting amount would not drive the balance
// negative. Wallet balances are always non-negative.
func (w *Wallet) ValidateDebit(amount decimal.Decimal) error {
	if w.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}
