// Package pricing - Pure pricing calculation engine
// Maps a validated cart description to a pricing breakdown. No I/O, no
// shared state; every invocation builds a fresh result from its inputs.
package pricing

import (
	"github.com/shopspring/decimal"
)

// MaxRoles is the largest cart the storefront sells
const MaxRoles = 6

// The quantity tier tables. A cart is priced at N times the per-unit price
// for its size N; the roles' individually listed prices do not participate.
// Index 0 is unused so the tables read naturally as 1..6.
var (
	tierUnitPrices = [MaxRoles + 1]int64{0, 120, 110, 110, 95, 95, 85}

	tierDiscounts = [MaxRoles + 1]string{"0", "0", "0.083", "0.083", "0.208", "0.208", "0.292"}
)

// UnitPrice returns the per-unit USDT price for a cart of the given size.
// Counts outside 1..6 never reach the engine through validated input; the
// single defensive branch falls back to the full single-role price.
func UnitPrice(roleCount int) decimal.Decimal {
	if roleCount < 1 || roleCount > MaxRoles {
		return decimal.NewFromInt(tierUnitPrices[1])
	}
	return decimal.NewFromInt(tierUnitPrices[roleCount])
}

// QuantityDiscount returns the discount fraction implied by the tier table
// for a cart of the given size. Out-of-range counts fall back to 0%.
func QuantityDiscount(roleCount int) decimal.Decimal {
	if roleCount < 1 || roleCount > MaxRoles {
		return decimal.Zero
	}
	return decimal.RequireFromString(tierDiscounts[roleCount])
}
