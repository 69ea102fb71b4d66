package receipt

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/order"
)

type OrderReader interface {
	Get(ctx context.Context, id int64) (*order.Order, error)
}

type ClientReader interface {
	Get(ctx context.Context, id int64) (*client.Client, error)
}

type Service struct {
	orders   OrderReader
	clients  ClientReader
	renderer *Renderer
	branch   Branch
	locale   string
	log      *zap.Logger
}

func NewService(orders OrderReader, clients ClientReader, renderer *Renderer, branch Branch, defaultLocale string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orders:   orders,
		clients:  clients,
		renderer: renderer,
		branch:   branch,
		locale:   defaultLocale,
		log:      log,
	}
}

// Build loads the order and its client and lays out the receipt sections.
// A removed client does not block printing; the customer block stays empty.
func (s *Service) Build(ctx context.Context, orderID int64, locale string) (Receipt, *order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return Receipt{}, nil, err
	}

	c, err := s.clients.Get(ctx, o.ClientID)
	if err != nil {
		if !errors.Is(err, client.ErrClientNotFound) {
			return Receipt{}, nil, err
		}
		s.log.Warn("receipt without client", zap.Int64("order_id", o.ID), zap.Int64("client_id", o.ClientID))
		c = nil
	}

	if locale == "" {
		locale = s.locale
	}
	return Build(o, c, s.branch, MessagesFor(locale)), o, nil
}

func (s *Service) Generate(ctx context.Context, orderID int64, locale string) ([]byte, *order.Order, error) {
	rc, o, err := s.Build(ctx, orderID, locale)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.Render(rc)
	if err != nil {
		s.log.Error("receipt rendering failed", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	s.log.Info("receipt generated",
		zap.Int64("order_id", o.ID),
		zap.String("receipt_number", o.ReceiptNumber),
		zap.String("locale", rc.Locale),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, o, nil
}
