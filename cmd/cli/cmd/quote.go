// Package cmd - quote command
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"kuntur-store/core/catalog"
	"kuntur-store/core/currency"
	"kuntur-store/core/order"
	"kuntur-store/core/pricing"
)

var (
	roleCount   int
	roleSlugs   string
	hostingTier string
	annual      bool
	code        string
	manualRate  string
	quoteFormat string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a cart of AI roles",
	Long: `Price a cart using the reference catalog and print the breakdown.

Roles are picked from the reference catalog either by count or by slug.

Examples:
  kuntur quote --roles 3
  kuntur quote --slugs sales-agent,support-agent
  kuntur quote --roles 2 --hosting mid --annual --code HOY5
  kuntur quote --slugs full-bundle --hosting top`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().IntVarP(&roleCount, "roles", "n", 0, "number of roles to price")
	quoteCmd.Flags().StringVar(&roleSlugs, "slugs", "", "comma-separated role slugs")
	quoteCmd.Flags().StringVar(&hostingTier, "hosting", "", "hosting plan tier (entry, mid, top)")
	quoteCmd.Flags().BoolVar(&annual, "annual", false, "annual hosting billing")
	quoteCmd.Flags().StringVar(&code, "code", "", "discount code")
	quoteCmd.Flags().StringVar(&manualRate, "rate", "", "USDT/BOB rate to use (default: official fallback)")
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "cli", "output format (cli, json)")
}

func runQuote(cmd *cobra.Command, args []string) error {
	roles, err := pickRoles()
	if err != nil {
		return err
	}

	var plan *catalog.HostingPlan
	if hostingTier != "" {
		p, ok := catalog.PlanByTier(catalog.Tier(hostingTier))
		if !ok {
			return fmt.Errorf("unknown hosting tier: %s", hostingTier)
		}
		plan = &p
	}

	compat, err := catalog.CheckHosting(plan, len(roles), catalog.ContainsFullBundle(roles))
	if err != nil {
		return err
	}
	if !compat.Compatible {
		return fmt.Errorf("hosting plan not compatible: %s", compat.Reason)
	}

	flashValid := false
	if code != "" {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized != pricing.FlashCode {
			return fmt.Errorf("only the %s flash code can be quoted offline", pricing.FlashCode)
		}
		flashValid = pricing.FlashCodeValid(time.Now())
	}

	breakdown, err := pricing.Calculate(pricing.Input{
		Roles:      roles,
		Hosting:    plan,
		Annual:     annual,
		FlashValid: flashValid,
	})
	if err != nil {
		return err
	}

	rate := currency.FallbackRate
	if manualRate != "" {
		rate, err = decimal.NewFromString(manualRate)
		if err != nil || !rate.IsPositive() {
			return fmt.Errorf("invalid rate: %s", manualRate)
		}
	}

	if quoteFormat == "json" {
		summary := order.Summarize(roles, plan, annual, breakdown, rate)
		out, err := json.MarshalIndent(map[string]interface{}{
			"breakdown": breakdown,
			"summary":   summary,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printQuote(roles, plan, breakdown, rate)
	return nil
}

func pickRoles() ([]catalog.Role, error) {
	all := catalog.ReferenceRoles()

	if roleSlugs != "" {
		var picked []catalog.Role
		for _, slug := range strings.Split(roleSlugs, ",") {
			slug = strings.TrimSpace(slug)
			found := false
			for _, r := range all {
				if r.Slug == slug {
					picked = append(picked, r)
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown role slug: %s", slug)
			}
		}
		return picked, nil
	}

	if roleCount < 1 || roleCount > pricing.MaxRoles {
		return nil, fmt.Errorf("--roles must be between 1 and %d (or use --slugs)", pricing.MaxRoles)
	}
	return all[:roleCount], nil
}

func printQuote(roles []catalog.Role, plan *catalog.HostingPlan, b *pricing.Breakdown, rate decimal.Decimal) {
	fmt.Println("Quote")
	fmt.Println(strings.Repeat("-", 46))
	for _, r := range roles {
		fmt.Printf("  %-28s %s\n", r.Name, currency.Format(b.UnitPrice, currency.USDT))
	}
	if plan != nil {
		period := "monthly"
		if annual {
			period = "annual"
		}
		fmt.Printf("  %-28s %s\n", fmt.Sprintf("%s hosting (%s)", plan.Name, period),
			currency.Format(b.SubtotalHosting, currency.USDT))
	}
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-28s %s\n", "Subtotal", currency.Format(b.Subtotal, currency.USDT))

	for _, d := range order.DiscountDescriptions(b, plan) {
		fmt.Printf("  - %s\n", d)
	}
	if b.TotalDiscount.IsPositive() {
		fmt.Printf("  %-28s %s%%\n", "Total discount",
			b.TotalDiscount.Mul(decimal.NewFromInt(100)).Round(0))
		fmt.Printf("  %-28s %s\n", "You save", currency.Format(b.Saved, currency.USDT))
	}

	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-28s %s\n", "Total", currency.Format(b.TotalUSDT, currency.USDT))
	fmt.Printf("  %-28s %s  (rate %s)\n", "Total in bolivianos",
		currency.Format(currency.Convert(b.TotalUSDT, rate), currency.BOB), rate)
}
