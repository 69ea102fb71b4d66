package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type UrgencyTier struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Hours      int             `json:"hours"`
}

// Config carries every pricing table. DefaultConfig matches the shop's published rules;
// tests and other branches can pass their own.
type Config struct {
	Urgency map[Urgency]UrgencyTier
	// Discounts holds the fixed percent of every discount type except CUSTOM.
	Discounts map[DiscountType]decimal.Decimal
	// MinPercentOfBase and MaxPercentOfBase bound the final price. The upper bound only
	// applies to items without modifiers.
	MinPercentOfBase decimal.Decimal
	MaxPercentOfBase decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		Urgency: map[Urgency]UrgencyTier{
			UrgencyNormal: {Multiplier: decimal.NewFromInt(1), Hours: 0},
			Urgency48h:    {Multiplier: decimal.RequireFromString("1.5"), Hours: 48},
			Urgency24h:    {Multiplier: decimal.NewFromInt(2), Hours: 24},
		},
		Discounts: map[DiscountType]decimal.Decimal{
			DiscountNone:        decimal.Zero,
			DiscountEvercard:    decimal.NewFromInt(10),
			DiscountSocialMedia: decimal.NewFromInt(5),
			DiscountMilitary:    decimal.NewFromInt(10),
		},
		MinPercentOfBase: decimal.NewFromInt(50),
		MaxPercentOfBase: decimal.NewFromInt(300),
	}
}

func (c Config) UrgencyTier(u Urgency) (UrgencyTier, error) {
	if u == "" {
		u = UrgencyNormal
	}
	tier, ok := c.Urgency[u]
	if !ok {
		return UrgencyTier{}, fmt.Errorf("%w: %s", ErrUnknownUrgency, u)
	}
	return tier, nil
}

// DiscountPercent resolves the percent of a discount choice.
func (c Config) DiscountPercent(d Discount) (decimal.Decimal, error) {
	t := d.Type
	if t == "" {
		t = DiscountNone
	}

	var pct decimal.Decimal
	if t == DiscountCustom {
		if d.Percent == nil {
			return decimal.Zero, fmt.Errorf("%w: custom discount requires a percent", ErrInvalidDiscount)
		}
		pct = *d.Percent
	} else {
		p, ok := c.Discounts[t]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: unknown type %s", ErrInvalidDiscount, t)
		}
		pct = p
	}

	if pct.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: percent must not be negative", ErrInvalidDiscount)
	}
	if pct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrDiscountTooHigh
	}
	return pct, nil
}

// DiscountMultiplier returns 1 - percent/100 for a discount choice.
func (c Config) DiscountMultiplier(d Discount) (decimal.Decimal, error) {
	pct, err := c.DiscountPercent(d)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100))), nil
}
