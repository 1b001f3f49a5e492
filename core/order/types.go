// Package order - Order domain types
// The order workflow persists these; the pricing engine never sees them.
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment lifecycle state of an order
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Known reports whether the status is a valid payment status
func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod is how the customer settled the order
type PaymentMethod string

const (
	MethodBankBOB   PaymentMethod = "bank_bob"
	MethodUSDTTRC20 PaymentMethod = "usdt_trc20"
)

// Known reports whether the method is a valid payment method
func (m PaymentMethod) Known() bool {
	return m == MethodBankBOB || m == MethodUSDTTRC20
}

// Source is the acquisition channel of an order
type Source string

const (
	SourceWeb       Source = "web"
	SourceWhatsApp  Source = "whatsapp"
	SourceInstagram Source = "instagram"
	SourceFacebook  Source = "facebook"
	SourceReferral  Source = "referral"
)

// Known reports whether the source is a valid channel
func (s Source) Known() bool {
	switch s {
	case SourceWeb, SourceWhatsApp, SourceInstagram, SourceFacebook, SourceReferral:
		return true
	}
	return false
}

// RoleSelection is the snapshot of one selected role stored on the order
type RoleSelection struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	PriceUSDT decimal.Decimal `json:"price_usdt"`
}

// Order is a purchase order
type Order struct {
	ID     uuid.UUID `json:"id"`
	Number string    `json:"order_number"`

	// Client
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientPhone    string `json:"client_phone,omitempty"`
	ClientBusiness string `json:"client_business,omitempty"`

	// Configuration
	Roles         []RoleSelection `json:"roles_selected"`
	HostingPlanID *uuid.UUID      `json:"hosting_plan_id,omitempty"`
	HostingAnnual bool            `json:"hosting_is_annual"`

	// Pricing snapshot, fixed at creation time
	SubtotalUSDT  decimal.Decimal `json:"subtotal_usdt"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TotalUSDT     decimal.Decimal `json:"total_usdt"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	TotalBOB      decimal.Decimal `json:"total_bob"`

	// Payment state
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentMethod        PaymentMethod `json:"payment_method,omitempty"`
	ComprobanteURL       string        `json:"comprobante_url,omitempty"`
	ComprobanteUploaded  *time.Time    `json:"comprobante_uploaded_at,omitempty"`
	PaidAt               *time.Time    `json:"paid_at,omitempty"`

	// Metadata
	Source    Source                 `json:"source"`
	UTMParams map[string]interface{} `json:"utm_params,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// RoleCount returns the number of selected roles
func (o *Order) RoleCount() int {
	return len(o.Roles)
}

// Interaction types recorded on the audit trail
const (
	InteractionOrderCreated     = "order_created"
	InteractionPaymentConfirmed = "payment_confirmed"
	InteractionPaymentFailed    = "payment_failed"
	InteractionStatusUpdated    = "status_updated"
	InteractionOrderCancelled   = "order_cancelled"
	InteractionReceiptUploaded  = "comprobante_uploaded"
)

// Interaction is one audit-trail entry for an order
type Interaction struct {
	ID          uuid.UUID              `json:"id"`
	OrderID     uuid.UUID              `json:"order_id"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// StatusInteractionType maps a payment status transition to the
// interaction type recorded for it
func StatusInteractionType(status PaymentStatus) string {
	switch status {
	case PaymentPaid:
		return InteractionPaymentConfirmed
	case PaymentFailed:
		return InteractionPaymentFailed
	default:
		return InteractionStatusUpdated
	}
}
