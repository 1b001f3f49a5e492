// Package api - Thin HTTP layer for the storefront
// The API is ONLY responsible for: input validation, record resolution,
// engine orchestration, output serialization. It NEVER performs pricing
// logic; all money math lives in core packages.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kuntur-store/core/order"
)

// Response is the uniform API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

// RoleSelectionRequest is one selected role in a create-order request
type RoleSelectionRequest struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	PriceUSDT decimal.Decimal `json:"price_usdt"`
}

// CreateOrderRequest is the POST /orders payload
type CreateOrderRequest struct {
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientPhone    string `json:"client_phone,omitempty"`
	ClientBusiness string `json:"client_business,omitempty"`

	Roles         []RoleSelectionRequest `json:"roles_selected"`
	HostingPlanID *uuid.UUID             `json:"hosting_plan_id,omitempty"`
	HostingAnnual bool                   `json:"hosting_is_annual"`

	DiscountCode string `json:"discount_code,omitempty"`

	Source    string                 `json:"source,omitempty"`
	UTMParams map[string]interface{} `json:"utm_params,omitempty"`
}

// AppliedDiscounts lists each discount source as a whole percentage
type AppliedDiscounts struct {
	Roles   int `json:"roles"`
	Hosting int `json:"hosting"`
	Flash   int `json:"flash"`
	Extra   int `json:"extra"`
}

// PricingDetails is the pricing portion of a create-order response
type PricingDetails struct {
	Subtotal           decimal.Decimal  `json:"subtotal"`
	SubtotalRoles      decimal.Decimal  `json:"subtotal_roles"`
	SubtotalHosting    decimal.Decimal  `json:"subtotal_hosting"`
	DiscountPercentage int              `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal  `json:"discount_amount"`
	Applied            AppliedDiscounts `json:"discounts_applied"`
}

// CreateOrderResponse is the POST /orders success payload
type CreateOrderResponse struct {
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	TotalUSDT    decimal.Decimal `json:"total_usdt"`
	TotalBOB     decimal.Decimal `json:"total_bob"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Pricing      PricingDetails  `json:"pricing_details"`
}

// UpdatePaymentRequest is the PATCH /orders/{id} payload
type UpdatePaymentRequest struct {
	PaymentStatus  order.PaymentStatus `json:"payment_status"`
	PaymentMethod  order.PaymentMethod `json:"payment_method,omitempty"`
	ComprobanteURL string              `json:"comprobante_url,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
}

// RateResponse is the GET /rate/usdt-bob payload
type RateResponse struct {
	Rate     decimal.Decimal `json:"rate"`
	Source   string          `json:"source"`
	TS       int64           `json:"ts"`
	Currency string          `json:"currency"`
	Base     string          `json:"base"`
	Degraded bool            `json:"degraded,omitempty"`
}
