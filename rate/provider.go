// Package rate - USDT/BOB exchange rate retrieval
// Owned by the order workflow; the pricing engine consumes the rate as a
// plain number and never calls in here.
package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"kuntur-store/core/currency"
)

// Source tags the provenance of a rate
type Source string

const (
	// SourceBinanceP2P is a live market rate averaged from Binance P2P ads
	SourceBinanceP2P Source = "binance_p2p"

	// SourceFallback is the documented official fallback rate
	SourceFallback Source = "official_fallback"

	// SourceManual is an operator-supplied rate
	SourceManual Source = "manual"
)

// Rate is an exchange rate with provenance
type Rate struct {
	// Value is the USDT/BOB rate
	Value decimal.Decimal `json:"rate"`

	// Source tags where the rate came from
	Source Source `json:"source"`

	// FetchedAt is when the rate was obtained
	FetchedAt time.Time `json:"ts"`

	// Degraded is set when a fallback was served instead of a live rate
	Degraded bool `json:"degraded,omitempty"`
}

// Provider supplies the current exchange rate
type Provider interface {
	Current(ctx context.Context) (Rate, error)
}

// Fallback returns the documented fallback rate (10.7, official type)
func Fallback() Rate {
	return Rate{
		Value:     currency.FallbackRate,
		Source:    SourceFallback,
		FetchedAt: time.Now().UTC(),
		Degraded:  true,
	}
}

// Manual returns an operator-supplied rate
func Manual(value decimal.Decimal) Rate {
	return Rate{
		Value:     value,
		Source:    SourceManual,
		FetchedAt: time.Now().UTC(),
	}
}
