// Package recommendation suggests price modifiers for the stains and defects found on an item
// and checks that the selection is consistent.
package recommendation

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/catalog"
)

type Recommendation struct {
	ModifierCode   string           `json:"modifier_code"`
	ModifierName   string           `json:"modifier_name"`
	Priority       Priority         `json:"priority"`
	SuggestedValue *decimal.Decimal `json:"suggested_value,omitempty"`
	IssueCodes     []string         `json:"issue_codes"`
}

type IssueSource interface {
	LookupIssues(ctx context.Context, codes []string) ([]catalog.Issue, error)
}

type ModifierSource interface {
	ModifiersForCategory(ctx context.Context, categoryCode string) ([]catalog.ModifierDefinition, error)
}

type Engine struct {
	cfg       Config
	issues    IssueSource
	modifiers ModifierSource
}

func NewEngine(cfg Config, issues IssueSource, modifiers ModifierSource) *Engine {
	return &Engine{cfg: cfg, issues: issues, modifiers: modifiers}
}

func (e *Engine) Config() Config { return e.cfg }

// Recommend looks up the selected issues and returns the modifiers worth applying to an item
// of the given category.
func (e *Engine) Recommend(ctx context.Context, issueCodes []string, categoryCode string) ([]Recommendation, error) {
	if len(issueCodes) == 0 {
		return []Recommendation{}, nil
	}

	issues, err := e.issues.LookupIssues(ctx, issueCodes)
	if err != nil {
		return nil, fmt.Errorf("lookup issues: %w", err)
	}
	mods, err := e.modifiers.ModifiersForCategory(ctx, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("load modifiers: %w", err)
	}
	return e.cfg.Recommend(issues, mods), nil
}

// Recommend maps issues to candidates and keeps those present in the compatible modifiers.
// A modifier suggested by several issues is listed once with its highest priority.
func (c Config) Recommend(issues []catalog.Issue, compatible []catalog.ModifierDefinition) []Recommendation {
	names := make(map[string]string, len(compatible))
	for _, m := range compatible {
		names[m.Code] = m.Name
	}

	byCode := make(map[string]*Recommendation)
	for _, issue := range issues {
		var rules map[catalog.RiskLevel][]Candidate
		switch issue.Kind {
		case catalog.IssueStain:
			rules = c.StainRules
		case catalog.IssueDefect:
			rules = c.DefectRules
		default:
			continue
		}

		for _, cand := range rules[issue.RiskLevel] {
			name, ok := names[cand.ModifierCode]
			if !ok {
				continue
			}

			rec, seen := byCode[cand.ModifierCode]
			if !seen {
				byCode[cand.ModifierCode] = &Recommendation{
					ModifierCode:   cand.ModifierCode,
					ModifierName:   name,
					Priority:       cand.Priority,
					SuggestedValue: cand.Value,
					IssueCodes:     []string{issue.Code},
				}
				continue
			}

			rec.IssueCodes = append(rec.IssueCodes, issue.Code)
			if cand.Priority.rank() > rec.Priority.rank() {
				rec.Priority = cand.Priority
				rec.SuggestedValue = cand.Value
			}
		}
	}

	out := make([]Recommendation, 0, len(byCode))
	for _, rec := range byCode {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority.rank() != out[j].Priority.rank() {
			return out[i].Priority.rank() > out[j].Priority.rank()
		}
		return out[i].ModifierCode < out[j].ModifierCode
	})
	return out
}

// Warnings returns one client-facing warning per high-risk stain or defect.
func Warnings(issues []catalog.Issue) []string {
	out := make([]string, 0)
	for _, issue := range issues {
		if issue.RiskLevel != catalog.RiskHigh || issue.Kind == catalog.IssueRisk {
			continue
		}
		kind := "stain"
		if issue.Kind == catalog.IssueDefect {
			kind = "defect"
		}
		out = append(out, fmt.Sprintf("high-risk %s %q: the result of cleaning is not guaranteed", kind, issue.Name))
	}
	return out
}

type Advice struct {
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []string         `json:"warnings"`
}

// Advise combines recommendations with the high-risk warnings for the same issues.
func (e *Engine) Advise(ctx context.Context, issueCodes []string, categoryCode string) (*Advice, error) {
	if len(issueCodes) == 0 {
		return &Advice{Recommendations: []Recommendation{}, Warnings: []string{}}, nil
	}

	issues, err := e.issues.LookupIssues(ctx, issueCodes)
	if err != nil {
		return nil, fmt.Errorf("lookup issues: %w", err)
	}
	mods, err := e.modifiers.ModifiersForCategory(ctx, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("load modifiers: %w", err)
	}
	return &Advice{
		Recommendations: e.cfg.Recommend(issues, mods),
		Warnings:        Warnings(issues),
	}, nil
}
