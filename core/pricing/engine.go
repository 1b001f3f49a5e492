// Package pricing - Cart pricing and discount composition
package pricing

import (
	"github.com/shopspring/decimal"

	"kuntur-store/core/catalog"
	"kuntur-store/internal/errors"
)

// discountCap is the hard ceiling on the combined discount fraction,
// applied to the raw sum before step rounding
var discountCap = decimal.RequireFromString("0.40")

// discountStep: the capped fraction is rounded up to the next multiple of
// 5 percentage points. This is business policy, not display formatting;
// it changes the money actually charged.
var discountStep = decimal.NewFromInt(20)

// Input is a validated cart description. The caller has already resolved
// the hosting plan and discount code records and computed the flash flag;
// the engine performs no lookups.
type Input struct {
	// Roles are the selected roles, 1 to 6 of them
	Roles []catalog.Role

	// Hosting is the chosen plan, or nil for no hosting
	Hosting *catalog.HostingPlan

	// Annual selects annual hosting billing
	Annual bool

	// FlashValid is set when the flash code was supplied and is valid
	FlashValid bool

	// Code is the resolved custom discount code, or nil. A cart carries
	// at most one code, so FlashValid and Code are mutually exclusive at
	// the API level.
	Code *DiscountCode
}

// Breakdown is the computed pricing result, produced fresh per calculation
// and never mutated afterwards. All amounts are USDT.
type Breakdown struct {
	// RoleCount is the number of selected roles
	RoleCount int `json:"role_count"`

	// UnitPrice is the tier per-unit price applied
	UnitPrice decimal.Decimal `json:"unit_price"`

	// SubtotalRoles = RoleCount x UnitPrice
	SubtotalRoles decimal.Decimal `json:"subtotal_roles"`

	// SubtotalHosting is the hosting price for the chosen period, 0 when
	// no plan was selected
	SubtotalHosting decimal.Decimal `json:"subtotal_hosting"`

	// Subtotal is the combined pre-discount sum
	Subtotal decimal.Decimal `json:"subtotal"`

	// QuantityDiscount is the fraction from the tier table
	QuantityDiscount decimal.Decimal `json:"discount_roles"`

	// HostingDiscount is the plan's annual discount fraction, 0 unless a
	// plan is present and annual billing was chosen
	HostingDiscount decimal.Decimal `json:"discount_hosting"`

	// FlashDiscount is 0.05 when the flash code applied, else 0
	FlashDiscount decimal.Decimal `json:"discount_flash"`

	// CodeDiscount is the custom code's fraction, else 0
	CodeDiscount decimal.Decimal `json:"discount_code"`

	// TotalDiscount is the capped, step-rounded combined fraction
	TotalDiscount decimal.Decimal `json:"discount_total"`

	// TotalUSDT is the final price, 2 decimal places
	TotalUSDT decimal.Decimal `json:"total_usdt"`

	// Saved = Subtotal - TotalUSDT, 2 decimal places
	Saved decimal.Decimal `json:"saved"`
}

// Calculate prices a cart. It fails fast on malformed input and never
// substitutes defaults for required fields.
func Calculate(in Input) (*Breakdown, error) {
	if len(in.Roles) == 0 {
		return nil, errors.Validation("at least one role is required")
	}

	count := len(in.Roles)
	unit := UnitPrice(count)
	subtotalRoles := unit.Mul(decimal.NewFromInt(int64(count)))

	subtotalHosting := decimal.Zero
	if in.Hosting != nil {
		subtotalHosting = in.Hosting.Price(in.Annual)
	}
	subtotal := subtotalRoles.Add(subtotalHosting)

	b := &Breakdown{
		RoleCount:        count,
		UnitPrice:        unit,
		SubtotalRoles:    subtotalRoles,
		SubtotalHosting:  subtotalHosting,
		Subtotal:         subtotal,
		QuantityDiscount: QuantityDiscount(count),
		HostingDiscount:  decimal.Zero,
		FlashDiscount:    decimal.Zero,
		CodeDiscount:     decimal.Zero,
	}

	if in.Hosting != nil && in.Annual {
		b.HostingDiscount = in.Hosting.AnnualDiscount
	}
	if in.FlashValid {
		b.FlashDiscount = FlashDiscount
	}
	if in.Code != nil {
		b.CodeDiscount = in.Code.Percentage
	}

	b.TotalDiscount = ComposeDiscount(b.QuantityDiscount, b.HostingDiscount, b.FlashDiscount, b.CodeDiscount)

	one := decimal.NewFromInt(1)
	b.TotalUSDT = subtotal.Mul(one.Sub(b.TotalDiscount)).Round(2)
	b.Saved = subtotal.Sub(b.TotalUSDT).Round(2)

	return b, nil
}

// ComposeDiscount combines independent discount fractions into the one
// effective fraction: sum, cap at 40%, then round up to the next multiple
// of 5 percentage points. Capping happens before rounding; since the cap
// is itself a multiple of 5%, the rounded result never exceeds it.
func ComposeDiscount(fractions ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range fractions {
		sum = sum.Add(f)
	}
	if sum.GreaterThan(discountCap) {
		sum = discountCap
	}
	return sum.Mul(discountStep).Ceil().Div(discountStep)
}
