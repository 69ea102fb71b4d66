package client

import (
	"time"

	"github.com/shopspring/decimal"
)

type TierThreshold struct {
	Tier     Tier
	MinSpent decimal.Decimal
}

// LoyaltyRules drives points, tiers and RFM scores.
type LoyaltyRules struct {
	// PointValue is the amount spent per loyalty point.
	PointValue decimal.Decimal
	// Tiers must be sorted by MinSpent ascending.
	Tiers []TierThreshold
	// RecencyDays bounds recency scores 5 down to 2, older orders score 1.
	// FrequencyOrders and MonetarySpent bound scores 1 up to 4, anything above scores 5.
	RecencyDays     []int
	FrequencyOrders []int
	MonetarySpent   []decimal.Decimal
}

func DefaultLoyaltyRules() LoyaltyRules {
	return LoyaltyRules{
		PointValue: decimal.NewFromInt(10),
		Tiers: []TierThreshold{
			{Tier: TierBronze, MinSpent: decimal.Zero},
			{Tier: TierSilver, MinSpent: decimal.NewFromInt(1000)},
			{Tier: TierGold, MinSpent: decimal.NewFromInt(5000)},
			{Tier: TierPlatinum, MinSpent: decimal.NewFromInt(15000)},
		},
		RecencyDays:     []int{30, 90, 180, 365},
		FrequencyOrders: []int{1, 3, 6, 10},
		MonetarySpent: []decimal.Decimal{
			decimal.NewFromInt(1000),
			decimal.NewFromInt(3000),
			decimal.NewFromInt(7000),
			decimal.NewFromInt(15000),
		},
	}
}

// Points returns the whole points earned for an amount.
func (r LoyaltyRules) Points(amount decimal.Decimal) int64 {
	if !amount.IsPositive() || !r.PointValue.IsPositive() {
		return 0
	}
	return amount.Div(r.PointValue).Floor().IntPart()
}

func (r LoyaltyRules) TierFor(totalSpent decimal.Decimal) Tier {
	tier := TierBronze
	for _, t := range r.Tiers {
		if totalSpent.GreaterThanOrEqual(t.MinSpent) {
			tier = t.Tier
		}
	}
	return tier
}

// Apply books an order of the given amount completed at now onto the client's counters.
func (r LoyaltyRules) Apply(c *Client, amount decimal.Decimal, now time.Time) {
	c.LoyaltyPoints += r.Points(amount)
	c.TotalSpent = c.TotalSpent.Add(amount).Round(2)
	c.OrderCount++
	c.LastOrderAt = &now
	c.LoyaltyTier = r.TierFor(c.TotalSpent)
	r.Score(c, now)
}

// Score recomputes the RFM scores (1..5) from the client's counters.
func (r LoyaltyRules) Score(c *Client, now time.Time) {
	c.RecencyScore = 0
	if c.LastOrderAt != nil {
		days := int(now.Sub(*c.LastOrderAt).Hours() / 24)
		c.RecencyScore = 1
		for i, bound := range r.RecencyDays {
			if days <= bound {
				c.RecencyScore = 5 - i
				break
			}
		}
	}

	c.FrequencyScore = 5
	for i, bound := range r.FrequencyOrders {
		if c.OrderCount <= bound {
			c.FrequencyScore = i + 1
			break
		}
	}
	if c.OrderCount == 0 {
		c.FrequencyScore = 0
	}

	c.MonetaryScore = 5
	for i, bound := range r.MonetarySpent {
		if c.TotalSpent.LessThan(bound) {
			c.MonetaryScore = i + 1
			break
		}
	}
	if c.TotalSpent.IsZero() {
		c.MonetaryScore = 0
	}
}
