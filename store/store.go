// Package store - Persistence for the order workflow
// The pricing engine never touches this package; the workflow resolves
// catalog and discount records here and hands plain values to the engine.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kuntur-store/core/catalog"
	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
)

// CatalogStore resolves active catalog records
type CatalogStore interface {
	// ActiveRolesByID returns the active roles among the given IDs, in no
	// particular order. Missing or inactive IDs are simply absent.
	ActiveRolesByID(ctx context.Context, ids []uuid.UUID) ([]catalog.Role, error)

	// ActivePlanByID returns an active hosting plan, or a NOT_FOUND error
	ActivePlanByID(ctx context.Context, id uuid.UUID) (*catalog.HostingPlan, error)
}

// DiscountStore resolves and consumes custom discount codes
type DiscountStore interface {
	// ResolveCode returns a usable code record. Unknown, inactive,
	// expired and exhausted codes all produce the same CODE_ERROR so
	// callers cannot tell the causes apart.
	ResolveCode(ctx context.Context, code string, now time.Time) (*pricing.DiscountCode, error)

	// ConsumeUse atomically records one redemption. The increment is
	// conditional on the usage cap so two concurrent orders can never
	// both take the last use.
	ConsumeUse(ctx context.Context, id uuid.UUID) error
}

// PaymentUpdate describes a payment status transition
type PaymentUpdate struct {
	OrderID        uuid.UUID
	Status         order.PaymentStatus
	Method         order.PaymentMethod
	ComprobanteURL string
	PaidAt         *time.Time
}

// OrderDetail is an order joined with its hosting plan and audit trail
type OrderDetail struct {
	Order        *order.Order         `json:"order"`
	HostingPlan  *catalog.HostingPlan `json:"hosting_plan,omitempty"`
	Interactions []order.Interaction  `json:"interactions"`
}

// OrderStore persists orders and their audit trail
type OrderStore interface {
	// CreateOrder inserts the order and its initial interaction in one
	// transaction
	CreateOrder(ctx context.Context, o *order.Order, initial *order.Interaction) error

	// GetOrder returns an order by ID
	GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error)

	// GetOrderDetail returns an order with hosting plan and interactions
	GetOrderDetail(ctx context.Context, id uuid.UUID) (*OrderDetail, error)

	// UpdatePayment applies a payment status transition
	UpdatePayment(ctx context.Context, upd PaymentUpdate) (*order.Order, error)

	// AddInteraction appends one audit-trail entry
	AddInteraction(ctx context.Context, in *order.Interaction) error
}

// Store is the full persistence surface of the order workflow
type Store interface {
	CatalogStore
	DiscountStore
	OrderStore

	// Close releases underlying resources
	Close() error
}
