package order

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kuntur-store/core/catalog"
	"kuntur-store/core/pricing"
)

func TestNewNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)
	n := NewNumber(now)

	if !strings.HasPrefix(n, "KNT-20260831-") {
		t.Errorf("unexpected prefix: %s", n)
	}
	if len(n) != len("KNT-20260831-XXXX") {
		t.Errorf("unexpected length: %s", n)
	}

	// Suffixes are random; two consecutive numbers should differ
	if m := NewNumber(now); m == n {
		t.Errorf("consecutive numbers collided: %s", n)
	}
}

func TestStatusInteractionType(t *testing.T) {
	cases := map[PaymentStatus]string{
		PaymentPaid:     InteractionPaymentConfirmed,
		PaymentFailed:   InteractionPaymentFailed,
		PaymentPending:  InteractionStatusUpdated,
		PaymentRefunded: InteractionStatusUpdated,
	}
	for status, want := range cases {
		if got := StatusInteractionType(status); got != want {
			t.Errorf("StatusInteractionType(%s) = %s, want %s", status, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	plan, ok := catalog.PlanByTier(catalog.TierMid)
	if !ok {
		t.Fatal("no mid tier reference plan")
	}
	roles := []catalog.Role{
		{Slug: "sales-agent", Name: "Sales Agent", PriceUSDT: decimal.NewFromInt(120)},
		{Slug: "support-agent", Name: "Support Agent", PriceUSDT: decimal.NewFromInt(120)},
	}

	b, err := pricing.Calculate(pricing.Input{Roles: roles, Hosting: &plan, Annual: true, FlashValid: true})
	if err != nil {
		t.Fatal(err)
	}

	rate := decimal.RequireFromString("10.7")
	s := Summarize(roles, &plan, true, b, rate)

	if s.RoleCount != 2 || len(s.RoleNames) != 2 {
		t.Errorf("role count/names wrong: %+v", s)
	}
	if s.Hosting == nil || s.Hosting.Period != "annual" || s.Hosting.Plan != "Growth" {
		t.Errorf("hosting summary wrong: %+v", s.Hosting)
	}
	// 0.083 + 0.25 + 0.05 capped and stepped to 40%
	if s.Discounts.TotalPercent != 40 {
		t.Errorf("TotalPercent = %d, want 40", s.Discounts.TotalPercent)
	}
	if len(s.Discounts.Applied) != 3 {
		t.Errorf("expected 3 discount descriptions, got %v", s.Discounts.Applied)
	}
	if !s.TotalBOB.Equal(s.TotalUSDT.Mul(rate).Round(2)) {
		t.Errorf("TotalBOB = %s inconsistent with rate", s.TotalBOB)
	}
}

func TestSummarizeWithoutHosting(t *testing.T) {
	roles := []catalog.Role{{Slug: "sales-agent", Name: "Sales Agent", PriceUSDT: decimal.NewFromInt(120)}}
	b, err := pricing.Calculate(pricing.Input{Roles: roles})
	if err != nil {
		t.Fatal(err)
	}

	s := Summarize(roles, nil, false, b, decimal.RequireFromString("10.7"))
	if s.Hosting != nil {
		t.Errorf("expected no hosting summary, got %+v", s.Hosting)
	}
	if s.Discounts.TotalPercent != 0 || len(s.Discounts.Applied) != 0 {
		t.Errorf("expected no discounts, got %+v", s.Discounts)
	}
	if !s.TotalBOB.Equal(decimal.RequireFromString("1284.00")) {
		t.Errorf("TotalBOB = %s, want 1284.00", s.TotalBOB)
	}
}
