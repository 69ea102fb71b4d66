package photo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemPhoto is a picture of an order item taken at intake. The bytes live in object storage.
type ItemPhoto struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID     int64     `json:"order_id" gorm:"index;not null"`
	OrderItemID int64     `json:"order_item_id" gorm:"index;not null"`
	ObjectKey   string    `json:"-" gorm:"size:255;not null"`
	FileName    string    `json:"file_name" gorm:"size:255"`
	MimeType    string    `json:"mime_type" gorm:"size:50;not null"`
	Size        int64     `json:"size" gorm:"not null"`
	OperatorID  int64     `json:"operator_id"`
	CreatedAt   time.Time `json:"created_at"`

	URL string `json:"url,omitempty" gorm:"-"`
}

func (ItemPhoto) TableName() string { return "item_photos" }

func (p *ItemPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func Models() []any {
	return []any{&ItemPhoto{}}
}
