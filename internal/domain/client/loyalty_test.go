package client

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoyaltyRules_Points(t *testing.T) {
	r := DefaultLoyaltyRules()

	assert.EqualValues(t, 0, r.Points(decimal.RequireFromString("9.99")))
	assert.EqualValues(t, 20, r.Points(decimal.RequireFromString("200.00")))
	assert.EqualValues(t, 20, r.Points(decimal.RequireFromString("209.99")))
	assert.EqualValues(t, 0, r.Points(decimal.NewFromInt(-50)))
}

func TestLoyaltyRules_TierFor(t *testing.T) {
	r := DefaultLoyaltyRules()

	assert.Equal(t, TierBronze, r.TierFor(decimal.Zero))
	assert.Equal(t, TierBronze, r.TierFor(decimal.RequireFromString("999.99")))
	assert.Equal(t, TierSilver, r.TierFor(decimal.NewFromInt(1000)))
	assert.Equal(t, TierGold, r.TierFor(decimal.NewFromInt(5000)))
	assert.Equal(t, TierPlatinum, r.TierFor(decimal.NewFromInt(20000)))
}

func TestLoyaltyRules_Apply(t *testing.T) {
	r := DefaultLoyaltyRules()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c := &Client{TotalSpent: decimal.NewFromInt(900), OrderCount: 3, LoyaltyPoints: 90}
	r.Apply(c, decimal.NewFromInt(200), now)

	assert.EqualValues(t, 110, c.LoyaltyPoints)
	assert.Equal(t, "1100.00", c.TotalSpent.StringFixed(2))
	assert.Equal(t, 4, c.OrderCount)
	assert.Equal(t, TierSilver, c.LoyaltyTier)
	assert.Equal(t, 5, c.RecencyScore)
	assert.Equal(t, 3, c.FrequencyScore)
	assert.Equal(t, 2, c.MonetaryScore)
}

func TestLoyaltyRules_ScoreRecencyDecays(t *testing.T) {
	r := DefaultLoyaltyRules()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	last := now.AddDate(0, 0, -100)
	c := &Client{LastOrderAt: &last, OrderCount: 12, TotalSpent: decimal.NewFromInt(16000)}
	r.Score(c, now)
	assert.Equal(t, 3, c.RecencyScore)
	assert.Equal(t, 5, c.FrequencyScore)
	assert.Equal(t, 5, c.MonetaryScore)

	last = now.AddDate(-2, 0, 0)
	r.Score(c, now)
	assert.Equal(t, 1, c.RecencyScore)

	fresh := &Client{}
	r.Score(fresh, now)
	assert.Zero(t, fresh.RecencyScore)
	assert.Zero(t, fresh.FrequencyScore)
	assert.Zero(t, fresh.MonetaryScore)
}
