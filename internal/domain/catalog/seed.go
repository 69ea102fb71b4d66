package catalog

import (
	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/pricing"
)

// Seed is the reference data a fresh branch starts with.
type Seed struct {
	Categories []ServiceCategory
	PriceItems []PriceListItem
	Modifiers  []ModifierDefinition
	Stains     []StainType
	Defects    []DefectType
	Risks      []RiskType
}

func DefaultSeed() Seed {
	return Seed{
		Categories: []ServiceCategory{
			{Code: "CLOTHING", Name: "Чистка одягу та текстилю", Unit: "шт", Discountable: true, StandardDays: 2, SortOrder: 1, Active: true},
			{Code: "LAUNDRY", Name: "Прання білизни", Unit: "кг", Discountable: false, StandardDays: 2, SortOrder: 2, Active: true},
			{Code: "IRONING", Name: "Прасування", Unit: "шт", Discountable: false, StandardDays: 2, SortOrder: 3, Active: true},
			{Code: "DYEING", Name: "Фарбування текстилю", Unit: "шт", Discountable: false, StandardDays: 2, SortOrder: 4, Active: true},
			{Code: "LEATHER", Name: "Чистка та відновлення шкіряних виробів", Unit: "шт", Discountable: true, StandardDays: 14, SortOrder: 5, Active: true},
			{Code: "PADDING", Name: "Дублянки", Unit: "шт", Discountable: true, StandardDays: 14, SortOrder: 6, Active: true},
			{Code: "FUR", Name: "Вироби із натурального хутра", Unit: "шт", Discountable: true, StandardDays: 14, SortOrder: 7, Active: true},
		},
		PriceItems: []PriceListItem{
			priceItem("CLOTHING", 1, "Сорочка", "шт", "100.00", "", ""),
			priceItem("CLOTHING", 2, "Брюки", "шт", "150.00", "", ""),
			priceItem("CLOTHING", 3, "Піджак", "шт", "250.00", "270.00", "290.00"),
			priceItem("CLOTHING", 4, "Пальто", "шт", "450.00", "480.00", "520.00"),
			priceItem("CLOTHING", 5, "Сукня", "шт", "300.00", "", ""),
			priceItem("LAUNDRY", 1, "Білизна", "кг", "60.00", "", ""),
			priceItem("IRONING", 1, "Прасування сорочки", "шт", "50.00", "", ""),
			priceItem("DYEING", 1, "Фарбування куртки", "шт", "600.00", "", ""),
			priceItem("LEATHER", 1, "Шкіряна куртка", "шт", "900.00", "950.00", "1050.00"),
			priceItem("PADDING", 1, "Дублянка", "шт", "1200.00", "", ""),
			priceItem("FUR", 1, "Шуба", "шт", "1800.00", "", ""),
		},
		Modifiers: []ModifierDefinition{
			percent("KIDS_ITEMS", "Дитячі речі (до 30 розміру)", ScopeTextile, "-30", 10),
			percent("MANUAL_CLEANING", "Ручна чистка", ScopeTextile, "20", 20),
			rangeMod("VERY_DIRTY", "Дуже забруднені речі", ScopeTextile, "20", "100", 30),
			percent("FUR_COLLARS", "Хутряні коміри та манжети", ScopeTextile, "30", 40),
			percent("WATER_REPELLENT", "Водовідштовхувальне покриття", ScopeTextile, "30", 50),
			percent("SILK_PRODUCTS", "Вироби з натурального шовку", ScopeTextile, "50", 60),
			percent("COMBINED_PRODUCTS", "Комбіновані вироби (шкіра + текстиль)", ScopeTextile, "100", 70),
			percent("LARGE_TOYS", "Великі м'які іграшки", ScopeTextile, "100", 80),
			fixed("SEWING_BUTTONS", "Пришивання гудзиків", ScopeTextile, "10", 90),
			percent("BLACK_LIGHT_COLORS", "Чорний та світлі тони", ScopeTextile, "20", 100),
			percent("WEDDING_DRESS", "Весільна сукня зі шлейфом", ScopeTextile, "30", 110),
			percent("LEATHER_IRONING", "Прасування шкіряних виробів", ScopeLeather, "-30", 210),
			percent("LEATHER_WATER_REPELLENT", "Водовідштовхувальне покриття шкіри", ScopeLeather, "30", 220),
			percent("LEATHER_COLORING_AFTER_OUR", "Фарбування після нашої чистки", ScopeLeather, "50", 230),
			percent("LEATHER_COLORING_AFTER_OTHER", "Фарбування після чистки деінде", ScopeLeather, "100", 240),
			percent("LEATHER_WITH_INSERTS", "Шкіра зі вставками", ScopeLeather, "30", 250),
			percent("PEARL_COATING", "Перламутрове покриття", ScopeLeather, "30", 260),
			percent("NATURAL_SHEEPSKIN", "Натуральні дублянки на штучному хутрі", ScopeLeather, "-20", 270),
			fixed("LEATHER_SEWING_BUTTONS", "Пришивання гудзиків до шкіри", ScopeLeather, "10", 280),
			percent("MANUAL_LEATHER_CLEANING", "Ручна чистка шкіри", ScopeLeather, "30", 290),
			addition("EXPRESS_PACKAGING", "Пакування у чохол", ScopeGeneral, "50", 900),
		},
		Stains: []StainType{
			{IssueAttributes: issue("grease", "Жир", RiskMedium)},
			{IssueAttributes: issue("blood", "Кров", RiskHigh)},
			{IssueAttributes: issue("protein", "Білок", RiskMedium)},
			{IssueAttributes: issue("wine", "Вино", RiskHigh)},
			{IssueAttributes: issue("coffee", "Кава", RiskMedium)},
			{IssueAttributes: issue("grass", "Трава", RiskMedium)},
			{IssueAttributes: issue("ink", "Чорнило", RiskHigh)},
			{IssueAttributes: issue("cosmetics", "Косметика", RiskMedium)},
			{IssueAttributes: issue("oil", "Олія", RiskHigh)},
			{IssueAttributes: issue("sweat", "Піт", RiskLow)},
			{IssueAttributes: issue("dust", "Пил", RiskLow)},
		},
		Defects: []DefectType{
			{IssueAttributes: issue("worn", "Потертості", RiskLow)},
			{IssueAttributes: issue("torn", "Порване", RiskMedium)},
			{IssueAttributes: issue("holes", "Дірки", RiskMedium)},
			{IssueAttributes: issue("missing_accessories", "Відсутність фурнітури", RiskLow)},
			{IssueAttributes: issue("damaged_accessories", "Пошкодження фурнітури", RiskMedium)},
			{IssueAttributes: issue("severely_worn", "Сильно зношене", RiskHigh)},
			{IssueAttributes: issue("structural_damage", "Структурні пошкодження", RiskHigh)},
			{IssueAttributes: issue("color_fading", "Вигоряння кольору", RiskHigh)},
			{IssueAttributes: issue("fabric_degradation", "Деградація тканини", RiskHigh)},
		},
		Risks: []RiskType{
			{IssueAttributes: issue("color_change_risk", "Ризики зміни кольору", RiskMedium)},
			{IssueAttributes: issue("deformation_risk", "Ризики деформації", RiskMedium)},
			{IssueAttributes: issue("texture_change_risk", "Ризики зміни фактури", RiskLow)},
		},
	}
}

func priceItem(category string, number int, name, unit, base, black, color string) PriceListItem {
	return PriceListItem{
		CategoryCode:  category,
		CatalogNumber: number,
		Name:          name,
		Unit:          unit,
		BasePrice:     decimal.RequireFromString(base),
		PriceBlack:    nullDecimal(black),
		PriceColor:    nullDecimal(color),
		Active:        true,
	}
}

func nullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func percent(code, name string, scope Scope, value string, order int) ModifierDefinition {
	return ModifierDefinition{
		Code:      code,
		Name:      name,
		Type:      pricing.ModifierPercentage,
		Scope:     scope,
		Value:     decimal.RequireFromString(value),
		SortOrder: order,
		Active:    true,
	}
}

func rangeMod(code, name string, scope Scope, lo, hi string, order int) ModifierDefinition {
	return ModifierDefinition{
		Code:      code,
		Name:      name,
		Type:      pricing.ModifierRange,
		Scope:     scope,
		Min:       decimal.RequireFromString(lo),
		Max:       decimal.RequireFromString(hi),
		SortOrder: order,
		Active:    true,
	}
}

func fixed(code, name string, scope Scope, perPiece string, order int) ModifierDefinition {
	m := percent(code, name, scope, perPiece, order)
	m.Type = pricing.ModifierFixed
	return m
}

func addition(code, name string, scope Scope, amount string, order int) ModifierDefinition {
	m := percent(code, name, scope, amount, order)
	m.Type = pricing.ModifierAddition
	return m
}

func issue(code, name string, level RiskLevel) IssueAttributes {
	return IssueAttributes{Code: code, Name: name, RiskLevel: level, Active: true}
}
