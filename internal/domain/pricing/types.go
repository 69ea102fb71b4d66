package pricing

import "github.com/shopspring/decimal"

type ModifierType string

const (
	ModifierPercentage ModifierType = "PERCENTAGE"
	ModifierFixed      ModifierType = "FIXED"
	ModifierRange      ModifierType = "RANGE"
	ModifierAddition   ModifierType = "ADDITION"
)

func (t ModifierType) Valid() bool {
	switch t {
	case ModifierPercentage, ModifierFixed, ModifierRange, ModifierAddition:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyNormal Urgency = "NORMAL"
	Urgency48h    Urgency = "URGENT_48H"
	Urgency24h    Urgency = "URGENT_24H"
)

type DiscountType string

const (
	DiscountNone        DiscountType = "NONE"
	DiscountEvercard    DiscountType = "EVERCARD"
	DiscountSocialMedia DiscountType = "SOCIAL_MEDIA"
	DiscountMilitary    DiscountType = "MILITARY"
	DiscountCustom      DiscountType = "CUSTOM"
)

// Discount is the order-level discount choice. Percent is read only for CUSTOM.
type Discount struct {
	Type    DiscountType     `json:"type"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

func NoDiscount() Discount {
	return Discount{Type: DiscountNone}
}

// ModifierRule is one price adjustment as defined in the catalog.
// Value is a percent for PERCENTAGE, an amount per piece for FIXED and a flat amount for ADDITION.
// Min and Max bound the percent of a RANGE rule.
type ModifierRule struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      ModifierType    `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	SortOrder int             `json:"sort_order"`
}

// SelectedModifier is a rule chosen for an item.
// Value is the chosen percent of a RANGE rule (midpoint when nil).
// Count is the number of pieces for a FIXED rule (item quantity when zero).
type SelectedModifier struct {
	Rule  ModifierRule     `json:"rule"`
	Value *decimal.Decimal `json:"value,omitempty"`
	Count int              `json:"count,omitempty"`
}

type Input struct {
	CategoryCode string             `json:"category_code"`
	BasePrice    decimal.Decimal    `json:"base_price"`
	Quantity     int                `json:"quantity"`
	Modifiers    []SelectedModifier `json:"modifiers"`
	Urgency      Urgency            `json:"urgency"`
	Discount     Discount           `json:"discount"`

	// ExcludeDiscount is set from the item's category; the discount is then never applied.
	ExcludeDiscount bool `json:"exclude_discount,omitempty"`
}

// Step records the effect of one modifier on the running total.
type Step struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Type  ModifierType    `json:"type"`
	Rate  decimal.Decimal `json:"rate"`
	Delta decimal.Decimal `json:"delta"`
	Total decimal.Decimal `json:"total"`
}

type Breakdown struct {
	BaseUnitPrice     decimal.Decimal `json:"base_unit_price"`
	Quantity          int             `json:"quantity"`
	BaseTotal         decimal.Decimal `json:"base_total"`
	Steps             []Step          `json:"steps"`
	AfterModifiers    decimal.Decimal `json:"after_modifiers"`
	Urgency           Urgency         `json:"urgency"`
	UrgencyMultiplier decimal.Decimal `json:"urgency_multiplier"`
	UrgencySurcharge  decimal.Decimal `json:"urgency_surcharge"`
	DiscountType      DiscountType    `json:"discount_type"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	DiscountApplied   bool            `json:"discount_applied"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	FinalPrice        decimal.Decimal `json:"final_price"`
	UnitFinalPrice    decimal.Decimal `json:"unit_final_price"`
}

// Totals aggregates item breakdowns. Total == Subtotal + UrgencySurcharge - DiscountAmount.
type Totals struct {
	Items            []Breakdown     `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	UrgencySurcharge decimal.Decimal `json:"urgency_surcharge"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	Total            decimal.Decimal `json:"total"`
}
