package order

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Filter struct {
	Status   Status
	ClientID int64
	Search   string
	Limit    int
	Offset   int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	return getByID(r.db.WithContext(ctx), id)
}

func getByID(db *gorm.DB, id int64) (*Order, error) {
	var o Order
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).Preload("Payments").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// lockByID reads the order row FOR UPDATE inside tx.
func lockByID(tx *gorm.DB, id int64) (*Order, error) {
	var o Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetByReceiptNumber(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).Where("receipt_number = ?", number).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return getByID(r.db.WithContext(ctx), o.ID)
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("receipt_number LIKE ? OR tag_number LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var orders []Order
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(f.Offset).Find(&orders).Error
	return orders, total, err
}

func (r *Repository) ReceiptNumberTaken(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Order{}).Where("receipt_number = ?", number).Count(&count).Error
	return count > 0, err
}
