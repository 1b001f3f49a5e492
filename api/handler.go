package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kuntur-store/core/catalog"
	"kuntur-store/core/currency"
	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
	apperrors "kuntur-store/internal/errors"
	"kuntur-store/internal/logging"
	"kuntur-store/rate"
	"kuntur-store/store"
)

// Handler orchestrates the order workflow. It resolves records through
// the store, delegates money math to the pricing engine and persists
// the resulting snapshot.
type Handler struct {
	store store.Store
	rates rate.Provider
	now   func() time.Time
}

// NewHandler creates a workflow handler
func NewHandler(st store.Store, rates rate.Provider) *Handler {
	return &Handler{
		store: st,
		rates: rates,
		now:   time.Now,
	}
}

// CreateOrder runs the full checkout: resolve catalog records, check
// hosting compatibility, resolve the discount code, price the cart and
// persist the order with its pricing snapshot frozen at the current
// exchange rate.
func (h *Handler) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	now := h.now()

	// Selected roles must all exist and be active. Listed prices on the
	// request are display-only; the engine prices by tier.
	ids := make([]uuid.UUID, len(req.Roles))
	for i, r := range req.Roles {
		ids[i] = r.ID
	}
	roles, err := h.store.ActiveRolesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, apperrors.Validation("some selected roles do not exist or are inactive")
	}

	var plan *catalog.HostingPlan
	if req.HostingPlanID != nil {
		plan, err = h.store.ActivePlanByID(ctx, *req.HostingPlanID)
		if err != nil {
			return nil, err
		}
	}
	compat, err := catalog.CheckHosting(plan, len(roles), catalog.ContainsFullBundle(roles))
	if err != nil {
		return nil, err
	}
	if !compat.Compatible {
		return nil, apperrors.Incompatible(compat.Reason)
	}

	flashValid := false
	var code *pricing.DiscountCode
	if req.DiscountCode != "" {
		if req.DiscountCode == pricing.FlashCode {
			if !pricing.FlashCodeValid(now) {
				return nil, apperrors.InvalidCode(req.DiscountCode)
			}
			flashValid = true
		} else {
			code, err = h.store.ResolveCode(ctx, req.DiscountCode, now)
			if err != nil {
				return nil, err
			}
		}
	}

	breakdown, err := pricing.Calculate(pricing.Input{
		Roles:      roles,
		Hosting:    plan,
		Annual:     req.HostingAnnual,
		FlashValid: flashValid,
		Code:       code,
	})
	if err != nil {
		return nil, err
	}

	// Rate retrieval is degraded-but-never-fatal: the cached provider
	// serves the fallback when the market source is down.
	current, err := h.rates.Current(ctx)
	if err != nil {
		current = rate.Fallback()
	}

	selections := make([]order.RoleSelection, len(roles))
	for i, r := range roles {
		selections[i] = order.RoleSelection{
			ID:        r.ID,
			Slug:      r.Slug,
			Name:      r.Name,
			PriceUSDT: r.PriceUSDT,
		}
	}

	o := &order.Order{
		ID:             uuid.New(),
		Number:         order.NewNumber(now),
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		ClientBusiness: req.ClientBusiness,
		Roles:          selections,
		HostingPlanID:  req.HostingPlanID,
		HostingAnnual:  req.HostingAnnual,
		SubtotalUSDT:   breakdown.Subtotal,
		DiscountTotal:  breakdown.TotalDiscount,
		TotalUSDT:      breakdown.TotalUSDT,
		ExchangeRate:   current.Value,
		TotalBOB:       currency.Convert(breakdown.TotalUSDT, current.Value),
		PaymentStatus:  order.PaymentPending,
		Source:         order.Source(req.Source),
		UTMParams:      req.UTMParams,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}

	summary := order.Summarize(roles, plan, req.HostingAnnual, breakdown, current.Value)
	initial := &order.Interaction{
		ID:          uuid.New(),
		OrderID:     o.ID,
		Type:        order.InteractionOrderCreated,
		Description: "Order created from " + req.Source,
		Metadata: map[string]interface{}{
			"summary":     summary,
			"rate_source": string(current.Source),
		},
		CreatedAt: now.UTC(),
	}

	if err := h.store.CreateOrder(ctx, o, initial); err != nil {
		return nil, err
	}

	// Redemption is recorded after the order exists. A lost race on the
	// last use leaves the order priced as quoted; the conflict is only
	// logged.
	if code != nil {
		if err := h.store.ConsumeUse(ctx, code.ID); err != nil {
			logging.Warn("discount code redemption not recorded",
				zap.String("code", code.Code), zap.Error(err))
		}
	}

	logging.Info("order created",
		zap.String("order_number", o.Number),
		zap.Int("roles", len(roles)),
		zap.String("total_usdt", o.TotalUSDT.String()))

	return &CreateOrderResponse{
		OrderID:      o.ID,
		OrderNumber:  o.Number,
		TotalUSDT:    o.TotalUSDT,
		TotalBOB:     o.TotalBOB,
		ExchangeRate: o.ExchangeRate,
		Pricing: PricingDetails{
			Subtotal:           breakdown.Subtotal,
			SubtotalRoles:      breakdown.SubtotalRoles,
			SubtotalHosting:    breakdown.SubtotalHosting,
			DiscountPercentage: wholePercent(breakdown.TotalDiscount),
			DiscountAmount:     breakdown.Saved,
			Applied: AppliedDiscounts{
				Roles:   wholePercent(breakdown.QuantityDiscount),
				Hosting: wholePercent(breakdown.HostingDiscount),
				Flash:   wholePercent(breakdown.FlashDiscount),
				Extra:   wholePercent(breakdown.CodeDiscount),
			},
		},
	}, nil
}

// GetOrder returns an order with its hosting plan and audit trail
func (h *Handler) GetOrder(ctx context.Context, id uuid.UUID) (*store.OrderDetail, error) {
	return h.store.GetOrderDetail(ctx, id)
}

// UpdatePayment applies a payment status transition and records it on
// the audit trail
func (h *Handler) UpdatePayment(ctx context.Context, id uuid.UUID, req *UpdatePaymentRequest) (*order.Order, error) {
	paidAt := req.PaidAt
	if req.PaymentStatus == order.PaymentPaid && paidAt == nil {
		t := h.now().UTC()
		paidAt = &t
	}

	updated, err := h.store.UpdatePayment(ctx, store.PaymentUpdate{
		OrderID:        id,
		Status:         req.PaymentStatus,
		Method:         req.PaymentMethod,
		ComprobanteURL: req.ComprobanteURL,
		PaidAt:         paidAt,
	})
	if err != nil {
		return nil, err
	}

	in := &order.Interaction{
		ID:          uuid.New(),
		OrderID:     id,
		Type:        order.StatusInteractionType(req.PaymentStatus),
		Description: "Payment status set to " + string(req.PaymentStatus),
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.AddInteraction(ctx, in); err != nil {
		logging.Warn("interaction not recorded", zap.String("order_id", id.String()), zap.Error(err))
	}

	return updated, nil
}

// CancelOrder cancels a pending order by marking it refunded. Orders
// that already moved past pending cannot be cancelled.
func (h *Handler) CancelOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	existing, err := h.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PaymentStatus != order.PaymentPending {
		return nil, apperrors.Conflict("only pending orders can be cancelled")
	}

	updated, err := h.store.UpdatePayment(ctx, store.PaymentUpdate{
		OrderID: id,
		Status:  order.PaymentRefunded,
	})
	if err != nil {
		return nil, err
	}

	in := &order.Interaction{
		ID:          uuid.New(),
		OrderID:     id,
		Type:        order.InteractionOrderCancelled,
		Description: "Order cancelled",
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.AddInteraction(ctx, in); err != nil {
		logging.Warn("interaction not recorded", zap.String("order_id", id.String()), zap.Error(err))
	}

	return updated, nil
}

// CurrentRate returns the current USDT/BOB rate
func (h *Handler) CurrentRate(ctx context.Context) (*RateResponse, error) {
	current, err := h.rates.Current(ctx)
	if err != nil {
		return nil, apperrors.Rate("exchange rate unavailable", err)
	}
	return &RateResponse{
		Rate:     current.Value,
		Source:   string(current.Source),
		TS:       current.FetchedAt.UnixMilli(),
		Currency: string(currency.BOB),
		Base:     string(currency.USDT),
		Degraded: current.Degraded,
	}, nil
}

// wholePercent renders a discount fraction as a whole percentage
func wholePercent(fraction decimal.Decimal) int {
	return int(fraction.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("order id must be a valid UUID")
	}
	return id, nil
}
