package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/pricing"
)

// ModifierChoice is a modifier picked for an item. Value is the percent of a RANGE modifier,
// Count the number of pieces of a FIXED one.
type ModifierChoice struct {
	Code  string           `json:"code" binding:"required"`
	Value *decimal.Decimal `json:"value,omitempty"`
	Count int              `json:"count,omitempty"`
}

type PreviewRequest struct {
	PriceItemID int64            `json:"price_item_id" binding:"required"`
	Color       string           `json:"color"`
	Quantity    int              `json:"quantity" binding:"required,min=1,max=1000"`
	Modifiers   []ModifierChoice `json:"modifiers"`
	Urgency     pricing.Urgency  `json:"urgency"`
	Discount    pricing.Discount `json:"discount"`
}

type PriceItemRequest struct {
	CategoryCode  string           `json:"category_code" binding:"required"`
	CatalogNumber int              `json:"catalog_number"`
	Name          string           `json:"name" binding:"required,max=255"`
	Unit          string           `json:"unit" binding:"max=20"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	PriceBlack    *decimal.Decimal `json:"price_black"`
	PriceColor    *decimal.Decimal `json:"price_color"`
	Active        *bool            `json:"active"`
}

type ModifierRequest struct {
	Code        string               `json:"code"`
	Name        string               `json:"name" binding:"required,max=160"`
	Description string               `json:"description"`
	Type        pricing.ModifierType `json:"type" binding:"required"`
	Scope       Scope                `json:"scope"`
	Value       decimal.Decimal      `json:"value"`
	Min         decimal.Decimal      `json:"min"`
	Max         decimal.Decimal      `json:"max"`
	SortOrder   int                  `json:"sort_order"`
	Active      *bool                `json:"active"`
}

func (r ModifierRequest) applyTo(m *ModifierDefinition) {
	m.Name = strings.TrimSpace(r.Name)
	m.Description = r.Description
	m.Type = pricing.ModifierType(strings.ToUpper(string(r.Type)))
	m.Scope = Scope(strings.ToUpper(string(r.Scope)))
	if m.Scope == "" {
		m.Scope = ScopeGeneral
	}
	m.Value = r.Value
	m.Min = r.Min
	m.Max = r.Max
	m.SortOrder = r.SortOrder
	if r.Active != nil {
		m.Active = *r.Active
	}
}
