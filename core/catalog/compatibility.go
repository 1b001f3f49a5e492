// Package catalog - Hosting compatibility rules
// Decides whether a hosting tier may pair with a role count, independent
// of pricing. Two additive rule sets apply: the hardcoded tier ladder and
// the plan's own data-driven min/max bounds. Both must pass.
package catalog

import (
	"fmt"

	"kuntur-store/internal/errors"
)

// Compatibility is the outcome of a hosting compatibility check.
// Incompatibility is an expected business outcome, surfaced as a declined
// result with a reason rather than an error.
type Compatibility struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason,omitempty"`
}

func incompatible(reason string) Compatibility {
	return Compatibility{Compatible: false, Reason: reason}
}

var compatible = Compatibility{Compatible: true}

// CheckHosting validates a hosting plan against a cart's role count.
// A nil plan is always compatible: hosting is optional. An error is
// returned only for malformed input, never for a normal incompatibility.
func CheckHosting(plan *HostingPlan, roleCount int, hasFullBundle bool) (Compatibility, error) {
	if roleCount < 0 {
		return Compatibility{}, errors.Validationf("role count cannot be negative: %d", roleCount)
	}
	if plan == nil {
		return compatible, nil
	}
	if !plan.Tier.Known() {
		return Compatibility{}, errors.Validationf("unknown hosting tier: %q", plan.Tier)
	}

	if c := checkTierLadder(plan.Tier, roleCount, hasFullBundle); !c.Compatible {
		return c, nil
	}
	if c := checkPlanBounds(plan, roleCount); !c.Compatible {
		return c, nil
	}
	return compatible, nil
}

// checkTierLadder applies the hardcoded tier rules
func checkTierLadder(tier Tier, roleCount int, hasFullBundle bool) Compatibility {
	// The full bundle runs every role at once and needs top capacity
	// regardless of how it is counted.
	if hasFullBundle && tier != TierTop {
		return incompatible("the full bundle requires the top hosting tier")
	}

	switch {
	case roleCount <= 1:
		return compatible
	case roleCount <= 3:
		if tier == TierEntry {
			return incompatible("this plan supports only 1 role")
		}
		return compatible
	default:
		switch tier {
		case TierTop:
			return compatible
		case TierMid:
			return incompatible("this plan supports up to 3 roles")
		default:
			return incompatible(fmt.Sprintf("this plan is not compatible with %d roles", roleCount))
		}
	}
}

// checkPlanBounds applies the plan's own numeric bounds, independently of
// the tier ladder
func checkPlanBounds(plan *HostingPlan, roleCount int) Compatibility {
	if plan.MinRoles != nil && roleCount < *plan.MinRoles {
		return incompatible(fmt.Sprintf("this plan requires at least %d role(s)", *plan.MinRoles))
	}
	if plan.MaxRoles != nil && roleCount > *plan.MaxRoles {
		return incompatible(fmt.Sprintf("this plan allows at most %d role(s)", *plan.MaxRoles))
	}
	return compatible
}
