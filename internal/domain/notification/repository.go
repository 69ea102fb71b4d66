package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Filter struct {
	ClientID int64
	OrderID  int64
	Limit    int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *ClientNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Repository) List(ctx context.Context, f Filter) ([]ClientNotification, error) {
	q := r.db.WithContext(ctx).Model(&ClientNotification{})
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.OrderID != 0 {
		q = q.Where("order_id = ?", f.OrderID)
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []ClientNotification
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// DeleteOlderThan removes notifications created before now-age and reports how many went.
func (r *Repository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", time.Now().Add(-age)).Delete(&ClientNotification{})
	return res.RowsAffected, res.Error
}
