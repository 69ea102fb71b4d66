// Package money holds the currency helpers used across pricing, orders and receipts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DisplayPlaces is the precision prices are stored and shown with.
	DisplayPlaces int32 = 2
	// WorkingPlaces is the precision of intermediate percentage math.
	WorkingPlaces int32 = 4

	CurrencySymbol = "₴"
)

var hundred = decimal.NewFromInt(100)

// RoundPrice rounds half-up to kopiykas. A nil price is treated as zero.
func RoundPrice(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero.Round(DisplayPlaces)
	}
	return p.Round(DisplayPlaces)
}

// Round is RoundPrice for values.
func Round(p decimal.Decimal) decimal.Decimal {
	return p.Round(DisplayPlaces)
}

// Work rounds an intermediate result to working precision.
func Work(p decimal.Decimal) decimal.Decimal {
	return p.Round(WorkingPlaces)
}

// ApplyPercent returns x * (1 + p/100).
func ApplyPercent(x, p decimal.Decimal) decimal.Decimal {
	return Work(x.Mul(decimal.NewFromInt(1).Add(p.Div(hundred))))
}

// PercentOf returns x * p / 100.
func PercentOf(x, p decimal.Decimal) decimal.Decimal {
	return Work(x.Mul(p).Div(hundred))
}

// FormatUAH renders an amount the Ukrainian way: "1 234,50 ₴".
func FormatUAH(p decimal.Decimal) string {
	return FormatAmount(p) + " " + CurrencySymbol
}

// FormatAmount renders the number part only: "1 234,50".
func FormatAmount(p decimal.Decimal) string {
	s := Round(p).StringFixed(DisplayPlaces)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac
	if neg && !Round(p).IsZero() {
		out = "-" + out
	}
	return out
}
