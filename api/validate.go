package api

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+?591)?[67]\d{7}$`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

var maxRolePrice = decimal.NewFromInt(10000)

// normalizeCreateOrder trims and canonicalizes the request in place.
// Validation runs against the normalized forms.
func normalizeCreateOrder(req *CreateOrderRequest) {
	req.ClientName = spaceRuns.ReplaceAllString(strings.TrimSpace(req.ClientName), " ")
	req.ClientEmail = strings.ToLower(strings.TrimSpace(req.ClientEmail))
	req.ClientPhone = strings.ReplaceAll(strings.TrimSpace(req.ClientPhone), " ", "")
	req.ClientBusiness = strings.TrimSpace(req.ClientBusiness)
	req.DiscountCode = strings.ToUpper(strings.TrimSpace(req.DiscountCode))
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		req.Source = string(order.SourceWeb)
	}
	for i := range req.Roles {
		req.Roles[i].Slug = strings.TrimSpace(req.Roles[i].Slug)
		req.Roles[i].Name = strings.TrimSpace(req.Roles[i].Name)
	}
}

// validateCreateOrder returns every field problem at once so the client
// can fix the whole form in a single round trip.
func validateCreateOrder(req *CreateOrderRequest) []string {
	var details []string

	if n := len(req.ClientName); n < 2 || n > 200 {
		details = append(details, "client_name must be between 2 and 200 characters")
	}
	if len(req.ClientEmail) > 200 || !emailPattern.MatchString(req.ClientEmail) {
		details = append(details, "client_email must be a valid email address")
	}
	if req.ClientPhone != "" && !phonePattern.MatchString(req.ClientPhone) {
		details = append(details, "client_phone must be a valid Bolivian mobile number")
	}
	if len(req.ClientBusiness) > 200 {
		details = append(details, "client_business must be at most 200 characters")
	}

	if len(req.Roles) == 0 {
		details = append(details, "roles_selected must contain at least one role")
	}
	if len(req.Roles) > pricing.MaxRoles {
		details = append(details, "roles_selected must contain at most 6 roles")
	}
	seen := make(map[uuid.UUID]bool, len(req.Roles))
	for _, r := range req.Roles {
		if r.ID == uuid.Nil {
			details = append(details, "roles_selected entries must carry a role id")
			continue
		}
		if seen[r.ID] {
			details = append(details, "roles_selected must not repeat roles")
		}
		seen[r.ID] = true
		if n := len(r.Slug); n < 1 || n > 50 {
			details = append(details, "role slug must be between 1 and 50 characters")
		}
		if n := len(r.Name); n < 1 || n > 100 {
			details = append(details, "role name must be between 1 and 100 characters")
		}
		if !r.PriceUSDT.IsPositive() || r.PriceUSDT.GreaterThan(maxRolePrice) {
			details = append(details, "role price must be positive and at most 10000")
		} else if r.PriceUSDT.Exponent() < -2 {
			details = append(details, "role price must have at most two decimal places")
		}
	}

	if len(req.DiscountCode) > 20 {
		details = append(details, "discount_code must be at most 20 characters")
	}
	if !order.Source(req.Source).Known() {
		details = append(details, "source must be one of web, whatsapp, instagram, facebook, referral")
	}

	return details
}

func validateUpdatePayment(req *UpdatePaymentRequest) []string {
	var details []string
	if !req.PaymentStatus.Known() {
		details = append(details, "payment_status must be one of pending, paid, failed, refunded")
	}
	if req.PaymentMethod != "" && !req.PaymentMethod.Known() {
		details = append(details, "payment_method must be one of bank_bob, usdt_trc20")
	}
	return details
}
