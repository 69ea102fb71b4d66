package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventCreated         EventType = "ORDER_CREATED"
	EventInProgress      EventType = "ORDER_IN_PROGRESS"
	EventCompleted       EventType = "ORDER_COMPLETED"
	EventCancelled       EventType = "ORDER_CANCELLED"
	EventPaymentReceived EventType = "PAYMENT_RECEIVED"
)

// Event describes a change clients and shop screens are told about.
type Event struct {
	Type                 EventType       `json:"type"`
	OrderID              int64           `json:"order_id"`
	ClientID             int64           `json:"client_id"`
	ReceiptNumber        string          `json:"receipt_number"`
	Status               Status          `json:"status"`
	Total                decimal.Decimal `json:"total"`
	PaidAmount           decimal.Decimal `json:"paid_amount"`
	Amount               decimal.Decimal `json:"amount"`
	ExpectedCompletionAt time.Time       `json:"expected_completion_at"`
	At                   time.Time       `json:"at"`
}

type Notifier interface {
	OrderChanged(ctx context.Context, e Event) error
}

func NewEvent(t EventType, o *Order, at time.Time) Event {
	return Event{
		Type:                 t,
		OrderID:              o.ID,
		ClientID:             o.ClientID,
		ReceiptNumber:        o.ReceiptNumber,
		Status:               o.Status,
		Total:                o.Total,
		PaidAmount:           o.PaidAmount,
		ExpectedCompletionAt: o.ExpectedCompletionAt,
		At:                   at,
	}
}

// StatusEvent maps a status to the event announcing it.
func StatusEvent(s Status) EventType {
	switch s {
	case StatusInProgress:
		return EventInProgress
	case StatusCompleted:
		return EventCompleted
	case StatusCancelled:
		return EventCancelled
	default:
		return EventCreated
	}
}
