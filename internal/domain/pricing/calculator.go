package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"drycleaning/internal/pkg/money"
)

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config {
	return c.cfg
}

// Calculate prices one item: base total, modifiers in catalog order, urgency, then discount.
func (c *Calculator) Calculate(in Input) (*Breakdown, error) {
	if in.BasePrice.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidBasePrice
	}
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tier, err := c.cfg.UrgencyTier(in.Urgency)
	if err != nil {
		return nil, err
	}
	pct, err := c.cfg.DiscountPercent(in.Discount)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	baseTotal := money.Work(in.BasePrice.Mul(qty))

	steps, afterModifiers, err := applyModifiers(baseTotal, in.Quantity, in.Modifiers)
	if err != nil {
		return nil, err
	}

	afterUrgency := money.Work(afterModifiers.Mul(tier.Multiplier))

	discounted := afterUrgency
	applied := pct.IsPositive() && !in.ExcludeDiscount
	if applied {
		discounted = afterUrgency.Sub(money.PercentOf(afterUrgency, pct))
	}

	subtotal := money.Round(afterModifiers)
	urgent := money.Round(afterUrgency)
	final := money.Round(discounted)

	if err := c.checkBand(baseTotal, final, len(in.Modifiers) > 0); err != nil {
		return nil, err
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	discountType := in.Discount.Type
	if discountType == "" {
		discountType = DiscountNone
	}

	return &Breakdown{
		BaseUnitPrice:     money.Round(in.BasePrice),
		Quantity:          in.Quantity,
		BaseTotal:         money.Round(baseTotal),
		Steps:             steps,
		AfterModifiers:    subtotal,
		Urgency:           urgency,
		UrgencyMultiplier: tier.Multiplier,
		UrgencySurcharge:  urgent.Sub(subtotal),
		DiscountType:      discountType,
		DiscountPercent:   pct,
		DiscountApplied:   applied,
		DiscountAmount:    urgent.Sub(final),
		FinalPrice:        final,
		UnitFinalPrice:    final.DivRound(qty, money.DisplayPlaces),
	}, nil
}

// CalculateOrder prices every item with the order-level urgency and discount.
func (c *Calculator) CalculateOrder(items []Input, urgency Urgency, discount Discount) (*Totals, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	totals := &Totals{
		Items:            make([]Breakdown, 0, len(items)),
		Subtotal:         decimal.Zero,
		UrgencySurcharge: decimal.Zero,
		DiscountAmount:   decimal.Zero,
		Total:            decimal.Zero,
	}
	for i, item := range items {
		item.Urgency = urgency
		item.Discount = discount
		b, err := c.Calculate(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		totals.Items = append(totals.Items, *b)
		totals.Subtotal = totals.Subtotal.Add(b.AfterModifiers)
		totals.UrgencySurcharge = totals.UrgencySurcharge.Add(b.UrgencySurcharge)
		totals.DiscountAmount = totals.DiscountAmount.Add(b.DiscountAmount)
		totals.Total = totals.Total.Add(b.FinalPrice)
	}
	return totals, nil
}

func (c *Calculator) checkBand(baseTotal, final decimal.Decimal, hasModifiers bool) error {
	minPrice := money.Round(money.PercentOf(baseTotal, c.cfg.MinPercentOfBase))
	if final.LessThan(minPrice) {
		return fmt.Errorf("%w: %s is below %s", ErrPriceOutOfRange, final.StringFixed(2), minPrice.StringFixed(2))
	}
	if hasModifiers {
		return nil
	}
	maxPrice := money.Round(money.PercentOf(baseTotal, c.cfg.MaxPercentOfBase))
	if final.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: %s is above %s", ErrPriceOutOfRange, final.StringFixed(2), maxPrice.StringFixed(2))
	}
	return nil
}

func applyModifiers(start decimal.Decimal, quantity int, selected []SelectedModifier) ([]Step, decimal.Decimal, error) {
	ordered := make([]SelectedModifier, len(selected))
	copy(ordered, selected)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rule.SortOrder < ordered[j].Rule.SortOrder
	})

	running := start
	steps := make([]Step, 0, len(ordered))
	for _, m := range ordered {
		next, rate, err := applyModifier(running, quantity, m)
		if err != nil {
			return nil, decimal.Zero, err
		}
		steps = append(steps, Step{
			Code:  m.Rule.Code,
			Name:  m.Rule.Name,
			Type:  m.Rule.Type,
			Rate:  rate,
			Delta: money.Round(next.Sub(running)),
			Total: money.Round(next),
		})
		running = next
	}
	return steps, running, nil
}

func applyModifier(price decimal.Decimal, quantity int, m SelectedModifier) (decimal.Decimal, decimal.Decimal, error) {
	switch m.Rule.Type {
	case ModifierPercentage:
		return money.ApplyPercent(price, m.Rule.Value), m.Rule.Value, nil
	case ModifierRange:
		if m.Rule.Min.GreaterThan(m.Rule.Max) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s has min above max", ErrInvalidModifier, m.Rule.Code)
		}
		p := ClampRange(m.Rule, m.Value)
		return money.ApplyPercent(price, p), p, nil
	case ModifierFixed:
		count := m.Count
		if count <= 0 {
			count = quantity
		}
		add := m.Rule.Value.Mul(decimal.NewFromInt(int64(count)))
		return money.Work(price.Add(add)), m.Rule.Value, nil
	case ModifierAddition:
		return money.Work(price.Add(m.Rule.Value)), m.Rule.Value, nil
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s has type %q", ErrInvalidModifier, m.Rule.Code, m.Rule.Type)
	}
}

// ClampRange returns the percent a RANGE rule applies: the chosen value clamped to [Min, Max],
// or the midpoint when nothing was chosen.
func ClampRange(rule ModifierRule, chosen *decimal.Decimal) decimal.Decimal {
	if chosen == nil {
		return rule.Min.Add(rule.Max).Div(decimal.NewFromInt(2))
	}
	p := *chosen
	if p.LessThan(rule.Min) {
		return rule.Min
	}
	if p.GreaterThan(rule.Max) {
		return rule.Max
	}
	return p
}
