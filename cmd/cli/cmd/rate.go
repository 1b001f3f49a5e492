// Package cmd - rate command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"kuntur-store/core/currency"
	"kuntur-store/internal/config"
	"kuntur-store/rate"
)

// rateCmd fetches the current USDT/BOB exchange rate
var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Fetch the current USDT/BOB exchange rate",
	Long: `Fetch the current USDT/BOB rate from the Binance P2P market.

Falls back to the official rate when the market source is unavailable.`,
	RunE: runRate,
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	provider := rate.NewBinanceP2P(cfg.Rate.Endpoint, time.Duration(cfg.Rate.TimeoutSeconds)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	current, err := provider.Current(ctx)
	if err != nil {
		fmt.Printf("market source unavailable (%v), using fallback\n", err)
		current = rate.Fallback()
	}

	fmt.Printf("1 USDT = %s BOB\n", current.Value)
	fmt.Printf("source:  %s\n", current.Source)
	fmt.Printf("fetched: %s\n", current.FetchedAt.Format(time.RFC3339))
	hundred := decimal.NewFromInt(100)
	fmt.Printf("example: %s buys %s\n",
		currency.Format(hundred, currency.USDT),
		currency.Format(currency.Convert(hundred, current.Value), currency.BOB))
	return nil
}
