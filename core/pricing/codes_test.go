package pricing

import (
	"testing"
	"time"
)

func TestFlashCodeValidWheneverChecked(t *testing.T) {
	moments := []time.Time{
		time.Now(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 23, 59, 59, 0, time.Local),
	}
	for _, now := range moments {
		if !FlashCodeValid(now) {
			t.Errorf("FlashCodeValid(%s) = false, want true", now)
		}
	}
}

func TestDiscountCodeStates(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)
	three := 3

	cases := []struct {
		name string
		code DiscountCode
		want CodeState
	}{
		{"active unlimited", DiscountCode{Active: true, ValidUntil: future}, CodeActive},
		{"active under cap", DiscountCode{Active: true, ValidUntil: future, MaxUses: &three, TimesUsed: 2}, CodeActive},
		{"inactive", DiscountCode{Active: false, ValidUntil: future}, CodeInactive},
		{"expired", DiscountCode{Active: true, ValidUntil: past}, CodeExpired},
		{"deadline is exclusive", DiscountCode{Active: true, ValidUntil: now}, CodeExpired},
		{"exhausted at cap", DiscountCode{Active: true, ValidUntil: future, MaxUses: &three, TimesUsed: 3}, CodeExhausted},
		{"exhausted over cap", DiscountCode{Active: true, ValidUntil: future, MaxUses: &three, TimesUsed: 7}, CodeExhausted},
		// Expiry is checked before the usage cap
		{"expired and exhausted", DiscountCode{Active: true, ValidUntil: past, MaxUses: &three, TimesUsed: 3}, CodeExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.code.State(now); got != tc.want {
				t.Errorf("State = %s, want %s", got, tc.want)
			}
			wantUsable := tc.want == CodeActive
			if got := tc.code.Usable(now); got != wantUsable {
				t.Errorf("Usable = %v, want %v", got, wantUsable)
			}
		})
	}
}
