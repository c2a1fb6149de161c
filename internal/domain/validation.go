package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTopUpAmount  = "1000000000" // 1 billion, per single attempt
	MaxMetadataSize = 10240        // 10KB
	MaxOwnerIDLen   = 128
)

// Valid currency codes (ISO 4217 subset the gateway settles in)
var validCurrencies = map[string]bool{
	"NGN": true, "USD": true, "GHS": true, "ZAR": true, "KES": true,
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateTopUpAmount validates a requested top-up amount against the
// configured minimum.
func ValidateTopUpAmount(amount, minimum decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(minimum) {
		return fmt.Errorf("%w: minimum top-up is %s", ErrAmountBelowMinimum, minimum.String())
	}

	maxAmount, _ := decimal.NewFromString(MaxTopUpAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum top-up is %s", ErrInvalidAmount, MaxTopUpAmount)
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not supported", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateEmail validates email format. Empty email is allowed; receipts are
// optional.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateOwnerID validates the external identity reference.
func ValidateOwnerID(ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)

	if ownerID == "" {
		return ErrMissingOwner
	}

	if len(ownerID) > MaxOwnerIDLen {
		return fmt.Errorf("%w: owner id exceeds %d characters", ErrMissingOwner, MaxOwnerIDLen)
	}

	return nil
}

// ValidateMetadata validates metadata size.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("metadata size %d bytes exceeds limit of %d bytes", size, MaxMetadataSize)
	}

	return nil
}

// Pagination bounds for ledger listings.
const (
	MaxPageSize     = 1000
	DefaultPageSize = 50
)

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
