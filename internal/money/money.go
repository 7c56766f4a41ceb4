package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are fixed-point decimals with at most two decimal places.
// Request input arrives as strings and must never be trusted to be numeric.
const maxDecimalPlaces = 2

var (
	// MinDeposit is the smallest deposit the platform accepts.
	MinDeposit = decimal.NewFromInt(10)

	// MaxTransaction is an upper bound on any single amount. Anything above
	// it is a typo or an attack, not a trade.
	MaxTransaction = decimal.NewFromInt(100_000_000)
)

var (
	ErrNotANumber  = errors.New("amount must be a valid number")
	ErrNotPositive = errors.New("amount must be greater than zero")
	ErrTooLarge    = errors.New("amount exceeds the maximum allowed")
	ErrTooPrecise  = errors.New("amount cannot have more than 2 decimal places")
)

// ParseAmount converts user-supplied input into a bounded decimal amount.
// Thousand separators are tolerated because the dashboard renders them.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(strings.ReplaceAll(input, ",", ""))

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	if !amount.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}

	if amount.GreaterThan(MaxTransaction) {
		return decimal.Zero, ErrTooLarge
	}

	if amount.Exponent() < -maxDecimalPlaces {
		return decimal.Zero, ErrTooPrecise
	}

	return amount, nil
}
