package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/pricing"
)

type Scope string

const (
	ScopeGeneral Scope = "GENERAL"
	ScopeTextile Scope = "TEXTILE"
	ScopeLeather Scope = "LEATHER"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank orders risk levels, unknown values rank lowest.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

type IssueKind string

const (
	IssueStain  IssueKind = "STAIN"
	IssueDefect IssueKind = "DEFECT"
	IssueRisk   IssueKind = "RISK"
)

type ServiceCategory struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Code         string    `json:"code" gorm:"size:40;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:120;not null"`
	Unit         string    `json:"unit" gorm:"size:20;not null;default:'шт'"`
	Discountable bool      `json:"discountable" gorm:"not null"`
	StandardDays int       `json:"standard_days" gorm:"not null;default:2"`
	SortOrder    int       `json:"sort_order" gorm:"not null;default:0"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

type PriceListItem struct {
	ID            int64               `json:"id" gorm:"primaryKey"`
	CategoryCode  string              `json:"category_code" gorm:"size:40;index;not null"`
	CatalogNumber int                 `json:"catalog_number" gorm:"not null;default:0"`
	Name          string              `json:"name" gorm:"size:255;not null"`
	Unit          string              `json:"unit" gorm:"size:20;not null;default:'шт'"`
	BasePrice     decimal.Decimal     `json:"base_price" gorm:"type:numeric(12,2);not null"`
	PriceBlack    decimal.NullDecimal `json:"price_black" gorm:"type:numeric(12,2)"`
	PriceColor    decimal.NullDecimal `json:"price_color" gorm:"type:numeric(12,2)"`
	Active        bool                `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (PriceListItem) TableName() string { return "price_list_items" }

// PriceFor returns the base price for an item of the given color.
func (p PriceListItem) PriceFor(color string) decimal.Decimal {
	switch strings.ToLower(strings.TrimSpace(color)) {
	case "black", "чорний":
		if p.PriceBlack.Valid {
			return p.PriceBlack.Decimal
		}
	case "", "white", "білий":
	default:
		if p.PriceColor.Valid {
			return p.PriceColor.Decimal
		}
	}
	return p.BasePrice
}

type ModifierDefinition struct {
	ID          int64                `json:"id" gorm:"primaryKey"`
	Code        string               `json:"code" gorm:"size:60;uniqueIndex;not null"`
	Name        string               `json:"name" gorm:"size:160;not null"`
	Description string               `json:"description" gorm:"type:text"`
	Type        pricing.ModifierType `json:"type" gorm:"size:20;not null"`
	Scope       Scope                `json:"scope" gorm:"size:20;not null;default:'GENERAL'"`
	Value       decimal.Decimal      `json:"value" gorm:"type:numeric(12,4);not null;default:0"`
	Min         decimal.Decimal      `json:"min" gorm:"type:numeric(12,4);not null;default:0"`
	Max         decimal.Decimal      `json:"max" gorm:"type:numeric(12,4);not null;default:0"`
	SortOrder   int                  `json:"sort_order" gorm:"not null;default:0"`
	Active      bool                 `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func (ModifierDefinition) TableName() string { return "price_modifier_definitions" }

func (m ModifierDefinition) Rule() pricing.ModifierRule {
	return pricing.ModifierRule{
		Code:      m.Code,
		Name:      m.Name,
		Type:      m.Type,
		Value:     m.Value,
		Min:       m.Min,
		Max:       m.Max,
		SortOrder: m.SortOrder,
	}
}

// IssueAttributes is the record shared by stains, defects and risks.
type IssueAttributes struct {
	Code        string    `json:"code" gorm:"size:60;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:160;not null"`
	Description string    `json:"description" gorm:"type:text"`
	RiskLevel   RiskLevel `json:"risk_level" gorm:"size:10;not null;default:'LOW'"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
}

type StainType struct {
	ID              int64 `json:"id" gorm:"primaryKey"`
	IssueAttributes `gorm:"embedded"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (StainType) TableName() string { return "stain_types" }

type DefectType struct {
	ID              int64 `json:"id" gorm:"primaryKey"`
	IssueAttributes `gorm:"embedded"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (DefectType) TableName() string { return "defect_types" }

type RiskType struct {
	ID              int64 `json:"id" gorm:"primaryKey"`
	IssueAttributes `gorm:"embedded"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (RiskType) TableName() string { return "risk_types" }

// Issue is a stain, defect or risk as seen by the recommendation engine.
type Issue struct {
	Kind IssueKind `json:"kind"`
	IssueAttributes
}

func (s StainType) Issue() Issue {
	return Issue{Kind: IssueStain, IssueAttributes: s.IssueAttributes}
}

func (d DefectType) Issue() Issue {
	return Issue{Kind: IssueDefect, IssueAttributes: d.IssueAttributes}
}

func (r RiskType) Issue() Issue {
	return Issue{Kind: IssueRisk, IssueAttributes: r.IssueAttributes}
}

// ScopeMatches reports whether a modifier scope applies to a service category.
func ScopeMatches(scope Scope, categoryCode string) bool {
	code := strings.ToUpper(categoryCode)
	switch scope {
	case ScopeGeneral, "":
		return true
	case ScopeTextile:
		return containsAny(code, "CLOTHING", "LAUNDRY", "IRONING", "DYEING")
	case ScopeLeather:
		return containsAny(code, "LEATHER", "PADDING", "FUR")
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Models returns every catalog table for migration.
func Models() []any {
	return []any{
		&ServiceCategory{},
		&PriceListItem{},
		&ModifierDefinition{},
		&StainType{},
		&DefectType{},
		&RiskType{},
	}
}
