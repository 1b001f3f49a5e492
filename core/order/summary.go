package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"kuntur-store/core/catalog"
	"kuntur-store/core/currency"
	"kuntur-store/core/pricing"
)

// Summary condenses a priced cart for audit-trail metadata and customer
// confirmations.
type Summary struct {
	RoleCount    int             `json:"role_count"`
	RoleNames    []string        `json:"role_names"`
	Hosting      *HostingSummary `json:"hosting,omitempty"`
	Discounts    DiscountSummary `json:"discounts"`
	SubtotalUSDT decimal.Decimal `json:"subtotal_usdt"`
	TotalUSDT    decimal.Decimal `json:"total_usdt"`
	TotalBOB     decimal.Decimal `json:"total_bob"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// HostingSummary describes the chosen hosting subscription
type HostingSummary struct {
	Plan   string          `json:"plan"`
	Period string          `json:"period"`
	Price  decimal.Decimal `json:"price"`
}

// DiscountSummary describes the applied discounts
type DiscountSummary struct {
	TotalPercent int             `json:"total_percent"`
	Applied      []string        `json:"applied,omitempty"`
	SavedUSDT    decimal.Decimal `json:"saved_usdt"`
	SavedBOB     decimal.Decimal `json:"saved_bob"`
}

// Summarize builds a summary from a priced cart
func Summarize(roles []catalog.Role, plan *catalog.HostingPlan, annual bool, b *pricing.Breakdown, rate decimal.Decimal) *Summary {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}

	s := &Summary{
		RoleCount: b.RoleCount,
		RoleNames: names,
		Discounts: DiscountSummary{
			TotalPercent: percent(b.TotalDiscount),
			Applied:      DiscountDescriptions(b, plan),
			SavedUSDT:    b.Saved,
			SavedBOB:     currency.Convert(b.Saved, rate),
		},
		SubtotalUSDT: b.Subtotal,
		TotalUSDT:    b.TotalUSDT,
		TotalBOB:     currency.Convert(b.TotalUSDT, rate),
		ExchangeRate: rate,
	}

	if plan != nil {
		period := "monthly"
		if annual {
			period = "annual"
		}
		s.Hosting = &HostingSummary{
			Plan:   plan.Name,
			Period: period,
			Price:  b.SubtotalHosting,
		}
	}

	return s
}

// DiscountDescriptions lists the discounts that contributed to a
// breakdown, for display
func DiscountDescriptions(b *pricing.Breakdown, plan *catalog.HostingPlan) []string {
	var out []string
	if b.QuantityDiscount.IsPositive() {
		out = append(out, fmt.Sprintf("%d%% discount for %d roles", percent(b.QuantityDiscount), b.RoleCount))
	}
	if b.HostingDiscount.IsPositive() && plan != nil {
		out = append(out, fmt.Sprintf("%d%% annual hosting discount", percent(b.HostingDiscount)))
	}
	if b.FlashDiscount.IsPositive() {
		out = append(out, fmt.Sprintf("%d%% discount %s", percent(b.FlashDiscount), pricing.FlashCode))
	}
	if b.CodeDiscount.IsPositive() {
		out = append(out, fmt.Sprintf("%d%% discount code", percent(b.CodeDiscount)))
	}
	return out
}

// percent rounds a fraction to a whole percentage for display
func percent(f decimal.Decimal) int {
	return int(f.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
