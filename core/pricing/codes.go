// Package pricing - Discount code rules
// Two unrelated branches: the stateless daily flash code and the
// database-tracked custom codes with usage caps and expiry.
package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlashCode is the reserved promotional code granting a fixed 5% discount
// for the remainder of the current day. It has no stored usage counter.
const FlashCode = "HOY5"

// FlashDiscount is the fraction granted by the flash code
var FlashDiscount = decimal.RequireFromString("0.05")

// FlashCodeValid reports whether the flash code is valid at the given
// moment: valid while the moment precedes the next local midnight. Since
// the next midnight is computed from the moment itself, an explicit check
// always succeeds; the comparison is kept as the reference behavior
// pending confirmation of a stricter day-boundary rule.
func FlashCodeValid(now time.Time) bool {
	y, m, d := now.Date()
	nextMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return now.Before(nextMidnight)
}

// CodeState is a custom discount code's lifecycle state
type CodeState string

const (
	// CodeInactive codes are excluded from lookups entirely
	CodeInactive CodeState = "inactive"

	// CodeActive codes grant their percentage
	CodeActive CodeState = "active"

	// CodeExpired codes are past their validity deadline
	CodeExpired CodeState = "expired"

	// CodeExhausted codes have reached their usage cap
	CodeExhausted CodeState = "exhausted"
)

// DiscountCode is a database-tracked promotional code. The engine only
// reads it; the usage counter is advanced by the order workflow after a
// successful order creation.
type DiscountCode struct {
	// ID uniquely identifies the code record
	ID uuid.UUID `json:"id"`

	// Code is the customer-facing token, stored uppercased
	Code string `json:"code"`

	// Description explains the promotion
	Description string `json:"description,omitempty"`

	// Percentage is the granted discount fraction
	Percentage decimal.Decimal `json:"percentage"`

	// MaxUses caps redemptions (nil = unlimited)
	MaxUses *int `json:"max_uses,omitempty"`

	// TimesUsed counts redemptions so far
	TimesUsed int `json:"times_used"`

	// ValidUntil is the validity deadline
	ValidUntil time.Time `json:"valid_until"`

	// Active indicates the code participates in lookups
	Active bool `json:"is_active"`
}

// State returns the code's lifecycle state at the given moment
func (c *DiscountCode) State(now time.Time) CodeState {
	if !c.Active {
		return CodeInactive
	}
	if !now.Before(c.ValidUntil) {
		return CodeExpired
	}
	if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
		return CodeExhausted
	}
	return CodeActive
}

// Usable reports whether the code may grant its discount at the given
// moment. Expired and exhausted codes answer identically to unknown ones;
// the caller must not distinguish the causes in its rejection.
func (c *DiscountCode) Usable(now time.Time) bool {
	return c.State(now) == CodeActive
}
