package rate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kuntur-store/internal/errors"
)

// DefaultEndpoint is the Binance P2P advert search endpoint
const DefaultEndpoint = "https://p2p.binance.com/bapi/c2c/v2/friendly/c2c/adv/search"

// Sanity band for a USDT/BOB rate; anything outside is treated as bad data
var (
	minPlausible = decimal.NewFromInt(5)
	maxPlausible = decimal.NewFromInt(20)
)

// BinanceP2P fetches the market rate from Binance P2P sell adverts
type BinanceP2P struct {
	endpoint string
	client   *http.Client
}

// NewBinanceP2P creates a fetcher against the given endpoint
func NewBinanceP2P(endpoint string, timeout time.Duration) *BinanceP2P {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &BinanceP2P{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type searchRequest struct {
	Page      int      `json:"page"`
	Rows      int      `json:"rows"`
	Asset     string   `json:"asset"`
	TradeType string   `json:"tradeType"`
	Fiat      string   `json:"fiat"`
	PayTypes  []string `json:"payTypes"`
}

type searchResponse struct {
	Data []struct {
		Adv struct {
			Price string `json:"price"`
		} `json:"adv"`
	} `json:"data"`
}

// Current fetches sell adverts and averages the top three prices. We buy
// USDT, so we quote against sellers.
func (b *BinanceP2P) Current(ctx context.Context) (Rate, error) {
	body, err := json.Marshal(searchRequest{
		Page:      1,
		Rows:      10,
		Asset:     "USDT",
		TradeType: "SELL",
		Fiat:      "BOB",
		PayTypes:  []string{},
	})
	if err != nil {
		return Rate{}, errors.Internal("failed to encode rate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return Rate{}, errors.Rate("failed to build rate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Rate{}, errors.Rate("rate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rate{}, errors.Newf(errors.TypeRate, "rate source returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Rate{}, errors.Rate("failed to decode rate response", err)
	}
	if len(parsed.Data) == 0 {
		return Rate{}, errors.New(errors.TypeRate, "no adverts in rate response")
	}

	top := parsed.Data
	if len(top) > 3 {
		top = top[:3]
	}
	sum := decimal.Zero
	for _, ad := range top {
		price, err := decimal.NewFromString(ad.Adv.Price)
		if err != nil {
			return Rate{}, errors.Rate("unparseable advert price", err)
		}
		sum = sum.Add(price)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(top)))).Round(4)

	if avg.LessThan(minPlausible) || avg.GreaterThan(maxPlausible) {
		return Rate{}, errors.Newf(errors.TypeRate, "rate %s outside plausible band", avg)
	}

	return Rate{
		Value:     avg,
		Source:    SourceBinanceP2P,
		FetchedAt: time.Now().UTC(),
	}, nil
}
