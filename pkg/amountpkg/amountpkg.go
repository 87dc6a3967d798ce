// Package amountpkg validates and parses native-asset amounts.
// Stellar's native asset has exactly 7 fractional digits; any amount
// moving through the ledger is checked against that scale here.
package amountpkg

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits of the native asset.
const Scale = 7

var (
	// ErrInvalid indicates a non-numeric amount.
	ErrInvalid = errors.New("invalid amount")
	// ErrNotPositive indicates a zero or negative amount.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrTooPrecise indicates more fractional digits than the asset supports.
	ErrTooPrecise = errors.New("amount exceeds native asset precision")
)

// Parse returns the decimal value of a positive amount within the
// native asset's precision.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalid
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrNotPositive
	}

	if d.Exponent() < -Scale {
		return decimal.Decimal{}, ErrTooPrecise
	}

	return d, nil
}

// String formats d with the native asset's full scale, e.g. "5.0000000".
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
