package rate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func adsResponse(prices ...string) string {
	type adv struct {
		Price string `json:"price"`
	}
	type row struct {
		Adv adv `json:"adv"`
	}
	rows := make([]row, len(prices))
	for i, p := range prices {
		rows[i] = row{Adv: adv{Price: p}}
	}
	out, _ := json.Marshal(map[string]interface{}{"data": rows})
	return string(out)
}

func binanceStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Asset != "USDT" || req.Fiat != "BOB" || req.TradeType != "SELL" {
			t.Errorf("unexpected search: %+v", req)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestBinanceAveragesTopThree(t *testing.T) {
	// Fourth advert must not participate
	srv := binanceStub(t, 200, adsResponse("13.40", "13.45", "13.50", "99.99"))
	defer srv.Close()

	r, err := NewBinanceP2P(srv.URL, time.Second).Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Value.Equal(decimal.RequireFromString("13.45")) {
		t.Errorf("Value = %s, want 13.45", r.Value)
	}
	if r.Source != SourceBinanceP2P {
		t.Errorf("Source = %s, want binance_p2p", r.Source)
	}
	if r.Degraded {
		t.Error("live rate must not be degraded")
	}
}

func TestBinanceFewerThanThreeAds(t *testing.T) {
	srv := binanceStub(t, 200, adsResponse("13.40", "13.60"))
	defer srv.Close()

	r, err := NewBinanceP2P(srv.URL, time.Second).Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Value.Equal(decimal.RequireFromString("13.5")) {
		t.Errorf("Value = %s, want 13.5", r.Value)
	}
}

func TestBinanceErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", 500, ""},
		{"empty data", 200, adsResponse()},
		{"bad price", 200, adsResponse("not-a-number")},
		{"below band", 200, adsResponse("1.00")},
		{"above band", 200, adsResponse("55.00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := binanceStub(t, tc.status, tc.body)
			defer srv.Close()

			if _, err := NewBinanceP2P(srv.URL, time.Second).Current(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type failingProvider struct{}

func (failingProvider) Current(context.Context) (Rate, error) {
	return Rate{}, context.DeadlineExceeded
}

type countingProvider struct {
	calls int
	rate  Rate
}

func (p *countingProvider) Current(context.Context) (Rate, error) {
	p.calls++
	return p.rate, nil
}

func TestCachedServesFallbackOnFailure(t *testing.T) {
	c := NewCached(failingProvider{}, time.Minute, time.Minute)

	r, err := c.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != SourceFallback || !r.Degraded {
		t.Errorf("expected degraded fallback, got %+v", r)
	}
	if !r.Value.Equal(decimal.RequireFromString("10.7")) {
		t.Errorf("Value = %s, want 10.7", r.Value)
	}
}

func TestCachedCachesLiveRate(t *testing.T) {
	p := &countingProvider{rate: Rate{Value: decimal.RequireFromString("13.42"), Source: SourceBinanceP2P}}
	c := NewCached(p, time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Current(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if p.calls != 1 {
		t.Errorf("inner provider called %d times, want 1", p.calls)
	}

	c.Invalidate()
	if _, err := c.Current(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.calls != 2 {
		t.Errorf("inner provider called %d times after invalidate, want 2", p.calls)
	}
}
