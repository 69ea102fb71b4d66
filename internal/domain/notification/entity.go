package notification

import (
	"time"

	"gorm.io/datatypes"

	"drycleaning/internal/domain/order"
)

// ClientNotification is one message sent to a client about their order.
type ClientNotification struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	ClientID  int64           `json:"client_id" gorm:"index:idx_client_notifications_client,priority:1;not null"`
	OrderID   int64           `json:"order_id" gorm:"index;not null"`
	Type      order.EventType `json:"type" gorm:"size:30;not null"`
	Channel   string          `json:"channel" gorm:"size:20;not null"`
	Message   string          `json:"message" gorm:"type:text;not null"`
	Data      datatypes.JSON  `json:"data,omitempty"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
	CreatedAt time.Time       `json:"created_at" gorm:"index:idx_client_notifications_client,priority:2"`
}

func (ClientNotification) TableName() string { return "client_notifications" }

func Models() []any {
	return []any{&ClientNotification{}}
}

// ChannelNone marks notifications kept only in the log because the client picked no channel.
const ChannelNone = "NONE"
