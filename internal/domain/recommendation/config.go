package recommendation

import (
	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/catalog"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) rank() int {
	return catalog.RiskLevel(p).Rank()
}

// Candidate is a modifier suggested for an issue of some risk level.
// Value is the suggested percent for RANGE modifiers.
type Candidate struct {
	ModifierCode string
	Value        *decimal.Decimal
	Priority     Priority
}

// Config holds every table the engine and the issue analysis read.
type Config struct {
	StainRules  map[catalog.RiskLevel][]Candidate
	DefectRules map[catalog.RiskLevel][]Candidate

	// CriticalStainCombinations are stain sets that are hard to remove together.
	CriticalStainCombinations [][]string
	// NoWarrantyDefects force the no-warranty mode when any of them is selected.
	NoWarrantyDefects map[string]bool
	// RiskWarnings maps a risk code to the warning shown when it is selected.
	RiskWarnings map[string]string

	MaxStains           int
	MaxDefects          int
	CustomTextMin       int
	CustomTextMax       int
	NoWarrantyReasonMin int
	// ManyIssuesThreshold is the issue count above which a consultation is advised.
	ManyIssuesThreshold int
}

func DefaultConfig() Config {
	return Config{
		StainRules: map[catalog.RiskLevel][]Candidate{
			catalog.RiskHigh: {
				{ModifierCode: "VERY_DIRTY", Value: pct(70), Priority: PriorityHigh},
				{ModifierCode: "MANUAL_CLEANING", Priority: PriorityHigh},
			},
			catalog.RiskMedium: {
				{ModifierCode: "VERY_DIRTY", Value: pct(50), Priority: PriorityMedium},
				{ModifierCode: "MANUAL_CLEANING", Priority: PriorityMedium},
			},
			catalog.RiskLow: {
				{ModifierCode: "VERY_DIRTY", Value: pct(30), Priority: PriorityLow},
			},
		},
		DefectRules: map[catalog.RiskLevel][]Candidate{
			catalog.RiskHigh: {
				{ModifierCode: "MANUAL_CLEANING", Priority: PriorityHigh},
			},
			catalog.RiskMedium: {
				{ModifierCode: "MANUAL_CLEANING", Priority: PriorityMedium},
			},
		},
		CriticalStainCombinations: [][]string{
			{"blood", "protein"},
			{"oil", "wine"},
			{"ink", "cosmetics"},
		},
		NoWarrantyDefects: map[string]bool{
			"severely_worn":      true,
			"structural_damage":  true,
			"color_fading":       true,
			"fabric_degradation": true,
		},
		RiskWarnings: map[string]string{
			"color_change_risk": "risk: the color may change during cleaning",
			"deformation_risk":  "risk: the item may deform during cleaning",
		},
		MaxStains:           10,
		MaxDefects:          8,
		CustomTextMin:       3,
		CustomTextMax:       100,
		NoWarrantyReasonMin: 10,
		ManyIssuesThreshold: 5,
	}
}

func pct(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
