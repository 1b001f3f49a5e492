// Package catalog - Product catalog types and reference data
// Roles and hosting plans are read-only inputs to the pricing engine.
package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FullBundleSlug identifies the meta-role representing all base roles
// combined at a bundled price. Carts containing it are restricted to the
// top hosting tier.
const FullBundleSlug = "full-bundle"

// Role is a purchasable AI-agent product unit
type Role struct {
	// ID uniquely identifies the role
	ID uuid.UUID `json:"id"`

	// Slug is the URL-safe identifier
	Slug string `json:"slug"`

	// Name is the display name
	Name string `json:"name"`

	// Tagline is a short marketing line
	Tagline string `json:"tagline,omitempty"`

	// PriceUSDT is the listed per-unit price in USDT.
	// Note: the engine prices carts from the quantity tier table,
	// not from this field.
	PriceUSDT decimal.Decimal `json:"price_usdt"`

	// DeliveryDays is the setup lead time
	DeliveryDays int `json:"delivery_days,omitempty"`

	// Active indicates the role is currently sold
	Active bool `json:"is_active"`
}

// IsFullBundle reports whether this role is the full-bundle meta-role
func (r Role) IsFullBundle() bool {
	return r.Slug == FullBundleSlug
}

// ContainsFullBundle reports whether any role in the set is the full bundle
func ContainsFullBundle(roles []Role) bool {
	for _, r := range roles {
		if r.IsFullBundle() {
			return true
		}
	}
	return false
}

// ReferenceRoles returns the built-in role catalog. Deployments backed by a
// database seed from this set.
func ReferenceRoles() []Role {
	base := decimal.NewFromInt(120)
	mk := func(slug, name, tagline string, price decimal.Decimal, days int) Role {
		return Role{
			ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("kuntur-store/roles/"+slug)),
			Slug:         slug,
			Name:         name,
			Tagline:      tagline,
			PriceUSDT:    price,
			DeliveryDays: days,
			Active:       true,
		}
	}

	return []Role{
		mk("sales-agent", "Sales Agent", "Qualifies leads and closes deals over chat", base, 5),
		mk("support-agent", "Support Agent", "Answers customer questions around the clock", base, 5),
		mk("marketing-agent", "Marketing Agent", "Drafts campaigns and social content", base, 5),
		mk("collections-agent", "Collections Agent", "Follows up on unpaid invoices politely", base, 7),
		mk("booking-agent", "Booking Agent", "Schedules appointments and reminders", base, 5),
		mk(FullBundleSlug, "Full Bundle", "All roles working together for one business", decimal.NewFromInt(510), 10),
	}
}
