// Package catalog - Hosting plan types and reference data
package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tier identifies a hosting capacity tier
type Tier string

const (
	// TierEntry is the smallest plan, sized for a single role
	TierEntry Tier = "entry"

	// TierMid is the mid-size plan, sized for up to three roles
	TierMid Tier = "mid"

	// TierTop is the largest plan, required for four or more roles
	// and for the full bundle
	TierTop Tier = "top"
)

// String returns the string representation
func (t Tier) String() string {
	return string(t)
}

// Known reports whether the tier is one of the three catalog tiers
func (t Tier) Known() bool {
	switch t {
	case TierEntry, TierMid, TierTop:
		return true
	}
	return false
}

// HostingPlan is a recurring infrastructure subscription required to run
// purchased roles
type HostingPlan struct {
	// ID uniquely identifies the plan
	ID uuid.UUID `json:"id"`

	// Slug is the URL-safe identifier
	Slug string `json:"slug"`

	// Name is the display name
	Name string `json:"name"`

	// Tier is the capacity tier
	Tier Tier `json:"tier"`

	// MonthlyPrice is the USDT price when billed monthly
	MonthlyPrice decimal.Decimal `json:"monthly_price"`

	// AnnualPrice is the USDT price when billed annually
	AnnualPrice decimal.Decimal `json:"annual_price"`

	// AnnualDiscount is the discount fraction granted for annual billing,
	// fed into discount composition as one of the four sources
	AnnualDiscount decimal.Decimal `json:"discount_annual"`

	// MinRoles is an optional data-driven lower bound on compatible
	// role counts (nil = unbounded)
	MinRoles *int `json:"ideal_roles_min,omitempty"`

	// MaxRoles is an optional data-driven upper bound on compatible
	// role counts (nil = unbounded)
	MaxRoles *int `json:"ideal_roles_max,omitempty"`

	// Active indicates the plan is currently sold
	Active bool `json:"is_active"`
}

// Price returns the subscription price for the chosen billing period
func (p *HostingPlan) Price(annual bool) decimal.Decimal {
	if annual {
		return p.AnnualPrice
	}
	return p.MonthlyPrice
}

// ReferencePlans returns the built-in hosting catalog: one plan per tier.
func ReferencePlans() []HostingPlan {
	intp := func(v int) *int { return &v }
	mk := func(slug, name string, tier Tier, monthly, annual int64, discount string, minRoles, maxRoles *int) HostingPlan {
		return HostingPlan{
			ID:             uuid.NewSHA1(uuid.NameSpaceURL, []byte("kuntur-store/hosting/"+slug)),
			Slug:           slug,
			Name:           name,
			Tier:           tier,
			MonthlyPrice:   decimal.NewFromInt(monthly),
			AnnualPrice:    decimal.NewFromInt(annual),
			AnnualDiscount: decimal.RequireFromString(discount),
			MinRoles:       minRoles,
			MaxRoles:       maxRoles,
			Active:         true,
		}
	}

	return []HostingPlan{
		mk("starter", "Starter", TierEntry, 45, 432, "0.20", intp(1), intp(1)),
		mk("growth", "Growth", TierMid, 60, 540, "0.25", intp(1), intp(3)),
		mk("premium", "Premium", TierTop, 150, 1350, "0.25", intp(1), nil),
	}
}

// PlanByTier finds the reference plan for a tier
func PlanByTier(tier Tier) (HostingPlan, bool) {
	for _, p := range ReferencePlans() {
		if p.Tier == tier {
			return p, true
		}
	}
	return HostingPlan{}, false
}
