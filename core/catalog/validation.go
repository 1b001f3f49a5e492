// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants before any pricing.
package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PlanRule is a hosting plan validation rule
type PlanRule func(*HostingPlan) error

// DefaultPlanRules returns the standard hosting plan rules
func DefaultPlanRules() []PlanRule {
	return []PlanRule{
		validatePlanTier,
		validatePlanPrices,
		validatePlanDiscount,
		validatePlanBounds,
	}
}

// ValidatePlans checks hosting plans against validation rules
func ValidatePlans(plans []HostingPlan, rules []PlanRule) []error {
	var errs []error
	for i := range plans {
		for _, rule := range rules {
			if err := rule(&plans[i]); err != nil {
				errs = append(errs, fmt.Errorf("plan %s: %w", plans[i].Slug, err))
			}
		}
	}
	return errs
}

// ValidateRoles checks role catalog integrity
func ValidateRoles(roles []Role) []error {
	var errs []error
	seen := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r.Slug == "" {
			errs = append(errs, fmt.Errorf("role %s: empty slug", r.ID))
			continue
		}
		if seen[r.Slug] {
			errs = append(errs, fmt.Errorf("role %s: duplicate slug", r.Slug))
		}
		seen[r.Slug] = true
		if r.PriceUSDT.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, fmt.Errorf("role %s: price must be positive", r.Slug))
		}
	}
	return errs
}

func validatePlanTier(p *HostingPlan) error {
	if !p.Tier.Known() {
		return fmt.Errorf("unknown tier %q", p.Tier)
	}
	return nil
}

func validatePlanPrices(p *HostingPlan) error {
	if p.MonthlyPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("monthly price must be positive")
	}
	if p.AnnualPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("annual price must be positive")
	}
	// Annual billing must never cost more than twelve monthly payments
	if p.AnnualPrice.GreaterThan(p.MonthlyPrice.Mul(decimal.NewFromInt(12))) {
		return fmt.Errorf("annual price exceeds 12 monthly payments")
	}
	return nil
}

func validatePlanDiscount(p *HostingPlan) error {
	if p.AnnualDiscount.IsNegative() {
		return fmt.Errorf("annual discount cannot be negative")
	}
	if p.AnnualDiscount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("annual discount must be below 100%%")
	}
	return nil
}

func validatePlanBounds(p *HostingPlan) error {
	if p.MinRoles != nil && *p.MinRoles < 1 {
		return fmt.Errorf("min roles must be at least 1")
	}
	if p.MinRoles != nil && p.MaxRoles != nil && *p.MinRoles > *p.MaxRoles {
		return fmt.Errorf("min roles %d exceeds max roles %d", *p.MinRoles, *p.MaxRoles)
	}
	return nil
}

// MustValidateReference panics if the built-in catalog is inconsistent.
// Called when seeding a store from the reference data, so a bad edit to
// the catalog tables fails at startup rather than at checkout.
func MustValidateReference() {
	errs := ValidatePlans(ReferencePlans(), DefaultPlanRules())
	errs = append(errs, ValidateRoles(ReferenceRoles())...)
	if len(errs) > 0 {
		panic(fmt.Sprintf("reference catalog has %d validation errors: %v", len(errs), errors.Join(errs...)))
	}
}
