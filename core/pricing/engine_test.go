package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kuntur-store/core/catalog"
	"kuntur-store/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func roles(n int) []catalog.Role {
	rs := make([]catalog.Role, n)
	for i := range rs {
		rs[i] = catalog.Role{Slug: "role", Name: "Role", PriceUSDT: decimal.NewFromInt(120), Active: true}
	}
	return rs
}

func TestTierTables(t *testing.T) {
	cases := []struct {
		count    int
		unit     string
		discount string
	}{
		{1, "120", "0"},
		{2, "110", "0.083"},
		{3, "110", "0.083"},
		{4, "95", "0.208"},
		{5, "95", "0.208"},
		{6, "85", "0.292"},
		// Defensive fallback: out-of-range counts price as a single role
		{0, "120", "0"},
		{7, "120", "0"},
		{-3, "120", "0"},
	}

	for _, tc := range cases {
		if got := UnitPrice(tc.count); !got.Equal(dec(tc.unit)) {
			t.Errorf("UnitPrice(%d) = %s, want %s", tc.count, got, tc.unit)
		}
		if got := QuantityDiscount(tc.count); !got.Equal(dec(tc.discount)) {
			t.Errorf("QuantityDiscount(%d) = %s, want %s", tc.count, got, tc.discount)
		}
	}
}

func TestCalculateRejectsEmptyCart(t *testing.T) {
	_, err := Calculate(Input{})
	if err == nil {
		t.Fatal("expected error for empty role list")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestRoleSubtotalUsesTierPriceNotListedPrices(t *testing.T) {
	// Two roles with wildly different listed prices still price at
	// 2 x 110: the tier table overrides individual prices.
	in := Input{Roles: []catalog.Role{
		{Slug: "a", PriceUSDT: decimal.NewFromInt(500)},
		{Slug: "b", PriceUSDT: decimal.NewFromInt(1)},
	}}

	b, err := Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !b.SubtotalRoles.Equal(dec("220")) {
		t.Errorf("SubtotalRoles = %s, want 220", b.SubtotalRoles)
	}
}

func TestSingleRoleNoDiscounts(t *testing.T) {
	b, err := Calculate(Input{Roles: roles(1)})
	if err != nil {
		t.Fatal(err)
	}

	if !b.Subtotal.Equal(dec("120")) {
		t.Errorf("Subtotal = %s, want 120", b.Subtotal)
	}
	if !b.TotalDiscount.IsZero() {
		t.Errorf("TotalDiscount = %s, want 0", b.TotalDiscount)
	}
	if !b.TotalUSDT.Equal(dec("120")) {
		t.Errorf("TotalUSDT = %s, want 120.00", b.TotalUSDT)
	}
	if !b.Saved.IsZero() {
		t.Errorf("Saved = %s, want 0.00", b.Saved)
	}
}

func TestFourRolesWithMonthlyTopHosting(t *testing.T) {
	top := catalog.HostingPlan{
		Slug:           "premium",
		Tier:           catalog.TierTop,
		MonthlyPrice:   decimal.NewFromInt(150),
		AnnualPrice:    decimal.NewFromInt(1350),
		AnnualDiscount: dec("0.25"),
	}

	b, err := Calculate(Input{Roles: roles(4), Hosting: &top, Annual: false})
	if err != nil {
		t.Fatal(err)
	}

	if !b.SubtotalRoles.Equal(dec("380")) {
		t.Errorf("SubtotalRoles = %s, want 380", b.SubtotalRoles)
	}
	if !b.SubtotalHosting.Equal(dec("150")) {
		t.Errorf("SubtotalHosting = %s, want 150", b.SubtotalHosting)
	}
	if !b.Subtotal.Equal(dec("530")) {
		t.Errorf("Subtotal = %s, want 530", b.Subtotal)
	}
	// Monthly billing: no hosting discount. 20.8% rounds up to 25%.
	if !b.HostingDiscount.IsZero() {
		t.Errorf("HostingDiscount = %s, want 0", b.HostingDiscount)
	}
	if !b.TotalDiscount.Equal(dec("0.25")) {
		t.Errorf("TotalDiscount = %s, want 0.25", b.TotalDiscount)
	}
	if !b.TotalUSDT.Equal(dec("397.50")) {
		t.Errorf("TotalUSDT = %s, want 397.50", b.TotalUSDT)
	}
	if !b.Saved.Equal(dec("132.50")) {
		t.Errorf("Saved = %s, want 132.50", b.Saved)
	}
}

func TestTwoRolesAnnualMidHostingWithFlashCode(t *testing.T) {
	mid := catalog.HostingPlan{
		Slug:           "growth",
		Tier:           catalog.TierMid,
		MonthlyPrice:   decimal.NewFromInt(60),
		AnnualPrice:    decimal.NewFromInt(540),
		AnnualDiscount: dec("0.25"),
	}

	b, err := Calculate(Input{Roles: roles(2), Hosting: &mid, Annual: true, FlashValid: true})
	if err != nil {
		t.Fatal(err)
	}

	// 0.083 + 0.25 + 0.05 = 0.383, under the cap, rounds up to 0.40
	if !b.Subtotal.Equal(dec("760")) {
		t.Errorf("Subtotal = %s, want 760", b.Subtotal)
	}
	if !b.TotalDiscount.Equal(dec("0.40")) {
		t.Errorf("TotalDiscount = %s, want 0.40", b.TotalDiscount)
	}
	if !b.TotalUSDT.Equal(dec("456.00")) {
		t.Errorf("TotalUSDT = %s, want 456.00", b.TotalUSDT)
	}
	if !b.Saved.Equal(dec("304.00")) {
		t.Errorf("Saved = %s, want 304.00", b.Saved)
	}
}

func TestCustomCodeDiscountApplies(t *testing.T) {
	code := &DiscountCode{
		Code:       "LAUNCH10",
		Percentage: dec("0.10"),
		ValidUntil: time.Now().Add(24 * time.Hour),
		Active:     true,
	}

	b, err := Calculate(Input{Roles: roles(1), Code: code})
	if err != nil {
		t.Fatal(err)
	}
	if !b.CodeDiscount.Equal(dec("0.10")) {
		t.Errorf("CodeDiscount = %s, want 0.10", b.CodeDiscount)
	}
	if !b.TotalDiscount.Equal(dec("0.10")) {
		t.Errorf("TotalDiscount = %s, want 0.10", b.TotalDiscount)
	}
	if !b.TotalUSDT.Equal(dec("108.00")) {
		t.Errorf("TotalUSDT = %s, want 108.00", b.TotalUSDT)
	}
}

func TestComposeDiscount(t *testing.T) {
	cases := []struct {
		name      string
		fractions []string
		want      string
	}{
		{"zero", []string{"0"}, "0"},
		{"exact multiple unchanged", []string{"0.25"}, "0.25"},
		{"quantity tier rounds up", []string{"0.083"}, "0.10"},
		{"four-role tier rounds up", []string{"0.208"}, "0.25"},
		{"six-role tier rounds up", []string{"0.292"}, "0.30"},
		{"capped at forty percent", []string{"0.292", "0.25", "0.05"}, "0.40"},
		{"near cap rounds to cap", []string{"0.38"}, "0.40"},
		{"cap exactly stays", []string{"0.40"}, "0.40"},
		{"stacked under cap", []string{"0.083", "0.25", "0.05"}, "0.40"},
		{"small stack", []string{"0.083", "0.05"}, "0.15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := make([]decimal.Decimal, len(tc.fractions))
			for i, s := range tc.fractions {
				fs[i] = dec(s)
			}
			got := ComposeDiscount(fs...)
			if !got.Equal(dec(tc.want)) {
				t.Errorf("ComposeDiscount(%v) = %s, want %s", tc.fractions, got, tc.want)
			}
		})
	}
}

// TestDiscountAlwaysSteppedAndCapped sweeps all tier/hosting/code
// combinations and verifies the composed fraction is a multiple of 0.05,
// never above 0.40, and monotonic in each source.
func TestDiscountAlwaysSteppedAndCapped(t *testing.T) {
	step := dec("0.05")
	ceiling := dec("0.40")
	hostings := []string{"0", "0.10", "0.20", "0.25"}
	codes := []string{"0", "0.05", "0.15", "0.40"}

	for n := 1; n <= MaxRoles; n++ {
		for _, h := range hostings {
			for _, c := range codes {
				for _, flash := range []string{"0", "0.05"} {
					got := ComposeDiscount(QuantityDiscount(n), dec(h), dec(flash), dec(c))
					if got.GreaterThan(ceiling) {
						t.Fatalf("n=%d h=%s flash=%s c=%s: fraction %s exceeds cap", n, h, flash, c, got)
					}
					if !got.Mod(step).IsZero() {
						t.Fatalf("n=%d h=%s flash=%s c=%s: fraction %s not a multiple of 0.05", n, h, flash, c, got)
					}
				}
			}
		}
	}
}

// TestDiscountMonotonicInCodeSource verifies that raising one source never
// lowers the composed fraction.
func TestDiscountMonotonicInCodeSource(t *testing.T) {
	prev := decimal.Zero
	for _, c := range []string{"0", "0.01", "0.05", "0.10", "0.20", "0.30", "0.40", "0.50"} {
		got := ComposeDiscount(dec("0.083"), dec(c))
		if got.LessThan(prev) {
			t.Fatalf("fraction decreased from %s to %s at code=%s", prev, got, c)
		}
		prev = got
	}
}

// TestTotalPlusSavedEqualsSubtotal checks the accounting identity across
// a spread of cart shapes.
func TestTotalPlusSavedEqualsSubtotal(t *testing.T) {
	mid := catalog.HostingPlan{
		Slug:           "growth",
		Tier:           catalog.TierMid,
		MonthlyPrice:   decimal.NewFromInt(60),
		AnnualPrice:    decimal.NewFromInt(540),
		AnnualDiscount: dec("0.25"),
	}

	for n := 1; n <= MaxRoles; n++ {
		for _, annual := range []bool{false, true} {
			for _, hosting := range []*catalog.HostingPlan{nil, &mid} {
				b, err := Calculate(Input{Roles: roles(n), Hosting: hosting, Annual: annual, FlashValid: n%2 == 0})
				if err != nil {
					t.Fatal(err)
				}
				if !b.TotalUSDT.Add(b.Saved).Equal(b.Subtotal.Round(2)) {
					t.Errorf("n=%d annual=%v hosting=%v: total %s + saved %s != subtotal %s",
						n, annual, hosting != nil, b.TotalUSDT, b.Saved, b.Subtotal)
				}
			}
		}
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	in := Input{Roles: roles(3), FlashValid: true}
	a, err := Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Calculate(in)
	if err != nil {
		t.Fatal(err)
	}
	if !a.TotalUSDT.Equal(b.TotalUSDT) || !a.TotalDiscount.Equal(b.TotalDiscount) {
		t.Errorf("identical input produced different results: %+v vs %+v", a, b)
	}
}
