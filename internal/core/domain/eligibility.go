package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPolicy decides whether a campaign still has budget headroom. The
// listing scan and the single-frame serving path historically substituted
// different defaults for missing or malformed frame prices, so each call
// site keeps its own named policy.
type BudgetPolicy struct {
	// DefaultPricePerClick substitutes for a missing or malformed frame
	// price.
	DefaultPricePerClick decimal.Decimal
}

var (
	// LenientBudgetPolicy is applied by the listing scan: an unpriced
	// frame counts as free.
	LenientBudgetPolicy = BudgetPolicy{DefaultPricePerClick: decimal.Zero}

	// StrictBudgetPolicy is applied by the single-frame accounting path:
	// an unpriced frame is billed at 0.24 per click and the campaign is
	// rejected once spend reaches the budget.
	StrictBudgetPolicy = BudgetPolicy{DefaultPricePerClick: decimal.New(24, -2)}
)

// Spend returns clicks multiplied by the effective price per click.
func (p BudgetPolicy) Spend(priceText string, clicks int64) decimal.Decimal {
	price := ParseMoney(priceText).Or(p.DefaultPricePerClick)
	return price.Mul(decimal.NewFromInt(clicks))
}

// WithinBudget reports whether the campaign can keep serving under this
// policy. A zero or missing budget means unlimited; otherwise spend must
// stay strictly below the budget.
func (p BudgetPolicy) WithinBudget(budget Money, priceText string, clicks int64) bool {
	b := budget.Or(decimal.Zero)
	if b.Sign() <= 0 {
		return true
	}
	return p.Spend(priceText, clicks).LessThan(b)
}

// Eligible is the listing-scan activity check: the campaign must be
// approved, unexpired and within budget for the frame's click count.
// A missing end date is tolerated; a malformed one rejects the frame.
func Eligible(c Campaign, f Frame, frameClicks int64, now time.Time) bool {
	if c.Status != StatusApproved {
		return false
	}
	end := c.Details.EndDate
	if !end.IsZero() {
		if !end.Valid() || end.Expired(now) {
			return false
		}
	}
	return LenientBudgetPolicy.WithinBudget(c.Details.Budget, f.PricePerClick, frameClicks)
}
