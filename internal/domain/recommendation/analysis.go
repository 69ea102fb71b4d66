package recommendation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"drycleaning/internal/pkg/validation"
)

// Selection is what the operator marked on an item in the stains and defects step.
type Selection struct {
	Stains           []string `json:"stains"`
	Defects          []string `json:"defects"`
	Risks            []string `json:"risks"`
	CustomStain      string   `json:"custom_stain,omitempty"`
	CustomDefect     string   `json:"custom_defect,omitempty"`
	NoWarranty       bool     `json:"no_warranty"`
	NoWarrantyReason string   `json:"no_warranty_reason,omitempty"`
}

func (s Selection) IssueCount() int {
	n := len(s.Stains) + len(s.Defects) + len(s.Risks)
	if strings.TrimSpace(s.CustomStain) != "" {
		n++
	}
	if strings.TrimSpace(s.CustomDefect) != "" {
		n++
	}
	return n
}

// Codes returns stains, defects and risks as one list.
func (s Selection) Codes() []string {
	out := make([]string, 0, len(s.Stains)+len(s.Defects)+len(s.Risks))
	out = append(out, s.Stains...)
	out = append(out, s.Defects...)
	return append(out, s.Risks...)
}

// AnalyzeIssues checks a selection against the engine's configuration.
func (e *Engine) AnalyzeIssues(sel Selection) validation.Result {
	return e.cfg.Analyze(sel)
}

// Analyze validates a stains and defects selection. Critical combinations and risky
// selections only produce warnings.
func (c Config) Analyze(sel Selection) validation.Result {
	var v validation.Collector

	if sel.IssueCount() == 0 && !sel.NoWarranty {
		v.Add("select at least one stain, defect or risk, or mark the item as no-warranty")
	}

	v.AddIf(len(sel.Stains) > c.MaxStains, fmt.Sprintf("at most %d stains can be selected", c.MaxStains))
	v.AddIf(len(sel.Defects) > c.MaxDefects, fmt.Sprintf("at most %d defects can be selected", c.MaxDefects))

	c.checkCustomText(&v, "custom stain", sel.CustomStain)
	c.checkCustomText(&v, "custom defect", sel.CustomDefect)

	if sel.NoWarranty {
		reason := strings.TrimSpace(sel.NoWarrantyReason)
		switch {
		case reason == "":
			v.Add("a reason is required when the item is accepted without warranty")
		case utf8.RuneCountInString(reason) < c.NoWarrantyReasonMin:
			v.Add(fmt.Sprintf("the no-warranty reason must be at least %d characters", c.NoWarrantyReasonMin))
		}
	} else if c.RequiresNoWarranty(sel.Defects) {
		v.Add("the selected defects require the no-warranty mode")
	}

	if combo := c.CriticalCombination(sel.Stains); combo != nil {
		v.Warn(fmt.Sprintf("critical stain combination %s needs special treatment", strings.Join(combo, " + ")))
	}
	if sel.NoWarranty && c.RequiresNoWarranty(sel.Defects) {
		v.Warn("the selected defects rule out any warranty")
	}
	for _, risk := range sel.Risks {
		if msg, ok := c.RiskWarnings[risk]; ok {
			v.Warn(msg)
		}
	}
	if c.ManyIssuesThreshold > 0 && sel.IssueCount() > c.ManyIssuesThreshold {
		v.Warn("many issues selected: a detailed consultation with the client is advised")
	}

	return v.Result()
}

// CriticalCombination returns the first configured combination fully present in stains.
func (c Config) CriticalCombination(stains []string) []string {
	if len(stains) < 2 {
		return nil
	}
	selected := make(map[string]bool, len(stains))
	for _, s := range stains {
		selected[s] = true
	}

	for _, combo := range c.CriticalStainCombinations {
		all := len(combo) > 0
		for _, code := range combo {
			if !selected[code] {
				all = false
				break
			}
		}
		if all {
			return combo
		}
	}
	return nil
}

func (c Config) RequiresNoWarranty(defects []string) bool {
	for _, d := range defects {
		if c.NoWarrantyDefects[d] {
			return true
		}
	}
	return false
}

func (c Config) checkCustomText(v *validation.Collector, field, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	n := utf8.RuneCountInString(text)
	v.AddIf(n < c.CustomTextMin, fmt.Sprintf("%s must be at least %d characters", field, c.CustomTextMin))
	v.AddIf(n > c.CustomTextMax, fmt.Sprintf("%s must be at most %d characters", field, c.CustomTextMax))
}
