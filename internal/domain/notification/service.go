package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/pkg/money"
)

type ClientLookup interface {
	Get(ctx context.Context, id int64) (*client.Client, error)
}

// Service logs client notifications and feeds the order board. It implements order.Notifier.
type Service struct {
	repo    *Repository
	hub     *Hub
	clients ClientLookup
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo *Repository, hub *Hub, clients ClientLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, hub: hub, clients: clients, log: log, now: time.Now}
}

// OrderChanged publishes the event to the board and notifies the client.
func (s *Service) OrderChanged(ctx context.Context, e order.Event) error {
	s.Publish(e)
	return s.Notify(ctx, e)
}

// Publish pushes the event to the connected shop screens.
func (s *Service) Publish(e order.Event) {
	if s.hub != nil {
		s.hub.Broadcast(BoardEvent{Type: e.Type, Order: e})
	}
}

// Notify stores the client-facing message of the event on the client's preferred channel.
func (s *Service) Notify(ctx context.Context, e order.Event) error {
	channel := ChannelNone
	c, err := s.clients.Get(ctx, e.ClientID)
	if err != nil {
		s.log.Warn("notification client lookup failed", zap.Int64("client_id", e.ClientID), zap.Error(err))
	} else if chs := c.ChannelList(); len(chs) > 0 {
		channel = string(chs[0])
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	n := &ClientNotification{
		ClientID: e.ClientID,
		OrderID:  e.OrderID,
		Type:     e.Type,
		Channel:  channel,
		Message:  Message(e),
		Data:     datatypes.JSON(data),
	}
	if channel != ChannelNone {
		now := s.now()
		n.SentAt = &now
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	s.log.Info("client notified",
		zap.Int64("order_id", e.OrderID),
		zap.String("type", string(e.Type)),
		zap.String("channel", channel),
	)
	return nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]ClientNotification, error) {
	return s.repo.List(ctx, f)
}

const dateLayout = "02.01.2006 15:04"

// Message renders the client-facing text of an event.
func Message(e order.Event) string {
	switch e.Type {
	case order.EventCreated:
		return fmt.Sprintf("Замовлення %s прийнято. Сума: %s. Орієнтовна готовність: %s.",
			e.ReceiptNumber, money.FormatUAH(e.Total), e.ExpectedCompletionAt.Format(dateLayout))
	case order.EventInProgress:
		return fmt.Sprintf("Замовлення %s передано в роботу. Готовність: %s.",
			e.ReceiptNumber, e.ExpectedCompletionAt.Format(dateLayout))
	case order.EventCompleted:
		return fmt.Sprintf("Замовлення %s готове до видачі. До сплати: %s.",
			e.ReceiptNumber, money.FormatUAH(e.Total.Sub(e.PaidAmount)))
	case order.EventCancelled:
		return fmt.Sprintf("Замовлення %s скасовано.", e.ReceiptNumber)
	case order.EventPaymentReceived:
		return fmt.Sprintf("Отримано оплату %s за замовлення %s. Залишок: %s.",
			money.FormatUAH(e.Amount), e.ReceiptNumber, money.FormatUAH(e.Total.Sub(e.PaidAmount)))
	default:
		return fmt.Sprintf("Замовлення %s: %s.", e.ReceiptNumber, e.Status)
	}
}
