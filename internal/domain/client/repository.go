package client

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

func (r *Repository) Create(ctx context.Context, c *Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	return getByID(r.db.WithContext(ctx), id)
}

func getByID(db *gorm.DB, id int64) (*Client, error) {
	var c Client
	err := db.Preload("Channels").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsBy reports whether another active client already uses the value in column.
func (r *Repository) ExistsBy(ctx context.Context, column, value string, exceptID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&Client{}).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves the client and replaces its channel rows.
func (r *Repository) Update(ctx context.Context, c *Client) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", c.ID).Delete(&CommunicationChannel{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Channels").Save(c).Error; err != nil {
			return err
		}
		if len(c.Channels) == 0 {
			return nil
		}
		for i := range c.Channels {
			c.Channels[i].ID = 0
			c.Channels[i].ClientID = c.ID
		}
		return tx.Create(&c.Channels).Error
	})
}

func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Client, error) {
	raw := "%" + query + "%"
	lower := "%" + strings.ToLower(query) + "%"

	match := r.db.Where("LOWER(first_name) LIKE ? OR first_name LIKE ?", lower, raw).
		Or("LOWER(last_name) LIKE ? OR last_name LIKE ?", lower, raw).
		Or("LOWER(email) LIKE ?", lower).
		Or("discount_card_number = ?", query)
	if digits := onlyDigits(query); len(digits) >= 2 {
		match = match.Or("phone LIKE ?", "%"+digits+"%")
	}

	q := r.db.WithContext(ctx).Preload("Channels").Where(match)

	var out []Client
	err := q.Order("last_name asc, first_name asc, id asc").Limit(limit).Find(&out).Error
	return out, err
}

func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Client{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClientNotFound
		}
		return tx.Delete(&Client{}, id).Error
	})
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
