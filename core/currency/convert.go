// Package currency - USDT/BOB conversion and display formatting
// Conversion is exact multiplication rounded to two decimals; the rate is
// always supplied by the caller, never looked up here.
package currency

import (
	"github.com/shopspring/decimal"
)

// Code identifies a supported currency
type Code string

const (
	// USDT is the base pricing currency
	USDT Code = "USDT"

	// BOB is the secondary display/settlement currency (boliviano)
	BOB Code = "BOB"
)

// FallbackRate is the documented USDT/BOB rate used when the live market
// source is unavailable (the official exchange rate).
var FallbackRate = decimal.RequireFromString("10.7")

// Convert converts a USDT amount to BOB at the given rate, rounded to two
// decimal places.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}
