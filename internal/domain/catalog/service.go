package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"drycleaning/internal/database"
	"drycleaning/internal/domain/pricing"
)

type Service struct {
	repo *Repository
	calc *pricing.Calculator
}

func NewService(repo *Repository, calc *pricing.Calculator) *Service {
	return &Service{repo: repo, calc: calc}
}

func (s *Service) Repository() *Repository { return s.repo }

func (s *Service) ListCategories(ctx context.Context) ([]ServiceCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, code string) (*ServiceCategory, error) {
	return s.repo.GetCategory(ctx, code)
}

func (s *Service) ListPriceItems(ctx context.Context, f PriceItemFilter) ([]PriceListItem, int64, error) {
	return s.repo.ListPriceItems(ctx, f)
}

func (s *Service) GetPriceItem(ctx context.Context, id int64) (*PriceListItem, error) {
	return s.repo.GetPriceItem(ctx, id)
}

// ModifiersForCategory returns the modifiers whose scope matches the category, in catalog order.
func (s *Service) ModifiersForCategory(ctx context.Context, categoryCode string) ([]ModifierDefinition, error) {
	all, err := s.repo.ListModifiers(ctx)
	if err != nil {
		return nil, err
	}
	if categoryCode == "" {
		return all, nil
	}

	out := make([]ModifierDefinition, 0, len(all))
	for _, m := range all {
		if ScopeMatches(m.Scope, categoryCode) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Service) ListIssues(ctx context.Context, kind IssueKind) ([]Issue, error) {
	return s.repo.ListIssues(ctx, kind)
}

// LookupIssues resolves issue codes and fails on the first unknown one.
func (s *Service) LookupIssues(ctx context.Context, codes []string) ([]Issue, error) {
	found, err := s.repo.IssuesByCode(ctx, codes)
	if err != nil {
		return nil, err
	}
	if len(found) == len(uniq(codes)) {
		return found, nil
	}

	known := make(map[string]bool, len(found))
	for _, i := range found {
		known[i.Code] = true
	}
	for _, c := range codes {
		if !known[c] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownIssue, c)
		}
	}
	return found, nil
}

// ResolveModifiers turns client choices into pricing input, rejecting repeated codes and codes
// that do not apply to the category.
func (s *Service) ResolveModifiers(ctx context.Context, categoryCode string, choices []ModifierChoice) ([]pricing.SelectedModifier, error) {
	if len(choices) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(choices))
	for _, c := range choices {
		codes = append(codes, c.Code)
	}
	defs, err := s.repo.ModifiersByCode(ctx, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]ModifierDefinition, len(defs))
	for _, d := range defs {
		byCode[d.Code] = d
	}

	out := make([]pricing.SelectedModifier, 0, len(choices))
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		if seen[c.Code] {
			return nil, fmt.Errorf("%w: %s chosen more than once", ErrInvalidModifier, c.Code)
		}
		seen[c.Code] = true
		def, ok := byCode[c.Code]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModifierNotFound, c.Code)
		}
		if !ScopeMatches(def.Scope, categoryCode) {
			return nil, fmt.Errorf("%w: %s does not apply to %s", ErrInvalidModifier, c.Code, categoryCode)
		}
		out = append(out, pricing.SelectedModifier{Rule: def.Rule(), Value: c.Value, Count: c.Count})
	}
	return out, nil
}

// PreviewPrice prices a single item without persisting anything.
func (s *Service) PreviewPrice(ctx context.Context, req PreviewRequest) (*pricing.Breakdown, error) {
	item, err := s.repo.GetPriceItem(ctx, req.PriceItemID)
	if err != nil {
		return nil, err
	}

	cat, err := s.repo.GetCategory(ctx, item.CategoryCode)
	if err != nil {
		return nil, err
	}
	mods, err := s.ResolveModifiers(ctx, item.CategoryCode, req.Modifiers)
	if err != nil {
		return nil, err
	}

	return s.calc.Calculate(pricing.Input{
		CategoryCode:    item.CategoryCode,
		BasePrice:       item.PriceFor(req.Color),
		Quantity:        req.Quantity,
		Modifiers:       mods,
		Urgency:         req.Urgency,
		Discount:        req.Discount,
		ExcludeDiscount: !cat.Discountable,
	})
}

func (s *Service) CreatePriceItem(ctx context.Context, req PriceItemRequest) (*PriceListItem, error) {
	if _, err := s.repo.GetCategory(ctx, req.CategoryCode); err != nil {
		return nil, err
	}
	if !req.BasePrice.IsPositive() {
		return nil, fmt.Errorf("%w: base price must be positive", ErrInvalidPriceItem)
	}

	item := &PriceListItem{
		CategoryCode:  strings.ToUpper(req.CategoryCode),
		CatalogNumber: req.CatalogNumber,
		Name:          strings.TrimSpace(req.Name),
		Unit:          req.Unit,
		BasePrice:     req.BasePrice,
		PriceBlack:    optional(req.PriceBlack),
		PriceColor:    optional(req.PriceColor),
		Active:        true,
	}
	if item.Unit == "" {
		item.Unit = "шт"
	}
	if err := s.repo.CreatePriceItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdatePriceItem(ctx context.Context, id int64, req PriceItemRequest) (*PriceListItem, error) {
	item, err := s.repo.GetPriceItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.BasePrice.IsPositive() {
		return nil, fmt.Errorf("%w: base price must be positive", ErrInvalidPriceItem)
	}

	item.Name = strings.TrimSpace(req.Name)
	item.CatalogNumber = req.CatalogNumber
	item.BasePrice = req.BasePrice
	item.PriceBlack = optional(req.PriceBlack)
	item.PriceColor = optional(req.PriceColor)
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.repo.SavePriceItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) CreateModifier(ctx context.Context, req ModifierRequest) (*ModifierDefinition, error) {
	m := &ModifierDefinition{Code: strings.ToUpper(strings.TrimSpace(req.Code)), Active: true}
	req.applyTo(m)
	if err := validateModifier(m); err != nil {
		return nil, err
	}

	if err := s.repo.CreateModifier(ctx, m); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrModifierExists
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateModifier(ctx context.Context, code string, req ModifierRequest) (*ModifierDefinition, error) {
	m, err := s.repo.GetModifier(ctx, code)
	if err != nil {
		return nil, err
	}
	req.applyTo(m)
	if err := validateModifier(m); err != nil {
		return nil, err
	}
	if err := s.repo.SaveModifier(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func validateModifier(m *ModifierDefinition) error {
	if m.Code == "" || m.Name == "" {
		return fmt.Errorf("%w: code and name are required", ErrInvalidModifier)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidModifier, m.Type)
	}
	switch m.Scope {
	case ScopeGeneral, ScopeTextile, ScopeLeather:
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidModifier, m.Scope)
	}
	if m.Type == pricing.ModifierRange && m.Min.GreaterThan(m.Max) {
		return fmt.Errorf("%w: min is above max", ErrInvalidModifier)
	}
	if m.Type == pricing.ModifierPercentage && m.Value.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return fmt.Errorf("%w: percentage must be above -100", ErrInvalidModifier)
	}
	return nil
}

func optional(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func uniq(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
