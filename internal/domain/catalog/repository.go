package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]ServiceCategory, error) {
	var out []ServiceCategory
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order asc, code asc").
		Find(&out).Error
	return out, err
}

func (r *Repository) GetCategory(ctx context.Context, code string) (*ServiceCategory, error) {
	var c ServiceCategory
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoriesByCode loads the given categories keyed by code; unknown codes are skipped.
func (r *Repository) CategoriesByCode(ctx context.Context, codes []string) (map[string]ServiceCategory, error) {
	out := make(map[string]ServiceCategory, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	var rows []ServiceCategory
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.Code] = c
	}
	return out, nil
}

type PriceItemFilter struct {
	CategoryCode string
	Search       string
	Limit        int
	Offset       int
}

func (r *Repository) ListPriceItems(ctx context.Context, f PriceItemFilter) ([]PriceListItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&PriceListItem{}).Where("active = ?", true)

	if f.CategoryCode != "" {
		q = q.Where("category_code = ?", strings.ToUpper(f.CategoryCode))
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 100
	}

	var items []PriceListItem
	err := q.Order("category_code asc, catalog_number asc, id asc").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	return items, total, err
}

func (r *Repository) GetPriceItem(ctx context.Context, id int64) (*PriceListItem, error) {
	var item PriceListItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPriceItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreatePriceItem(ctx context.Context, item *PriceListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) SavePriceItem(ctx context.Context, item *PriceListItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// ListModifiers returns active modifiers in catalog order.
func (r *Repository) ListModifiers(ctx context.Context) ([]ModifierDefinition, error) {
	var out []ModifierDefinition
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order asc, code asc").
		Find(&out).Error
	return out, err
}

func (r *Repository) ModifiersByCode(ctx context.Context, codes []string) ([]ModifierDefinition, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var out []ModifierDefinition
	err := r.db.WithContext(ctx).
		Where("code IN ? AND active = ?", codes, true).
		Order("sort_order asc, code asc").
		Find(&out).Error
	return out, err
}

func (r *Repository) GetModifier(ctx context.Context, code string) (*ModifierDefinition, error) {
	var m ModifierDefinition
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModifierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) CreateModifier(ctx context.Context, m *ModifierDefinition) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) SaveModifier(ctx context.Context, m *ModifierDefinition) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// ListIssues returns the active catalog of one kind, or of every kind when kind is empty.
func (r *Repository) ListIssues(ctx context.Context, kind IssueKind) ([]Issue, error) {
	var out []Issue

	if kind == "" || kind == IssueStain {
		var rows []StainType
		if err := r.activeIssues(ctx, &rows, nil); err != nil {
			return nil, err
		}
		for _, s := range rows {
			out = append(out, s.Issue())
		}
	}
	if kind == "" || kind == IssueDefect {
		var rows []DefectType
		if err := r.activeIssues(ctx, &rows, nil); err != nil {
			return nil, err
		}
		for _, d := range rows {
			out = append(out, d.Issue())
		}
	}
	if kind == "" || kind == IssueRisk {
		var rows []RiskType
		if err := r.activeIssues(ctx, &rows, nil); err != nil {
			return nil, err
		}
		for _, rt := range rows {
			out = append(out, rt.Issue())
		}
	}
	return out, nil
}

// IssuesByCode resolves codes across stains, defects and risks. Unknown codes are skipped.
func (r *Repository) IssuesByCode(ctx context.Context, codes []string) ([]Issue, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var out []Issue

	var stains []StainType
	if err := r.activeIssues(ctx, &stains, codes); err != nil {
		return nil, err
	}
	for _, s := range stains {
		out = append(out, s.Issue())
	}

	var defects []DefectType
	if err := r.activeIssues(ctx, &defects, codes); err != nil {
		return nil, err
	}
	for _, d := range defects {
		out = append(out, d.Issue())
	}

	var risks []RiskType
	if err := r.activeIssues(ctx, &risks, codes); err != nil {
		return nil, err
	}
	for _, rt := range risks {
		out = append(out, rt.Issue())
	}
	return out, nil
}

func (r *Repository) activeIssues(ctx context.Context, dest any, codes []string) error {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if codes != nil {
		q = q.Where("code IN ?", codes)
	}
	return q.Order("code asc").Find(dest).Error
}

// ApplySeed inserts reference rows that are not there yet. Existing rows are left untouched.
func (r *Repository) ApplySeed(ctx context.Context, s Seed) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byCode := clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}

		if len(s.Categories) > 0 {
			if err := tx.Clauses(byCode).Create(&s.Categories).Error; err != nil {
				return err
			}
		}
		if len(s.Modifiers) > 0 {
			if err := tx.Clauses(byCode).Create(&s.Modifiers).Error; err != nil {
				return err
			}
		}
		if len(s.Stains) > 0 {
			if err := tx.Clauses(byCode).Create(&s.Stains).Error; err != nil {
				return err
			}
		}
		if len(s.Defects) > 0 {
			if err := tx.Clauses(byCode).Create(&s.Defects).Error; err != nil {
				return err
			}
		}
		if len(s.Risks) > 0 {
			if err := tx.Clauses(byCode).Create(&s.Risks).Error; err != nil {
				return err
			}
		}

		// Price items have no natural key: only seed an empty list.
		var count int64
		if err := tx.Model(&PriceListItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(s.PriceItems) > 0 {
			if err := tx.Create(&s.PriceItems).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
