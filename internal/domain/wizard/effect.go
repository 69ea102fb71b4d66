package wizard

import "drycleaning/internal/domain/order"

// Effect is work Transition asks the driver to do. The driver reports the outcome back as an event.
type Effect interface {
	Name() string
	isEffect()
}

// PriceOrder quotes the current draft; answered by OrderPriced or EffectFailed.
type PriceOrder struct {
	Draft order.Draft
}

// PersistOrder stores the confirmed draft; answered by OrderPersisted or EffectFailed.
type PersistOrder struct {
	Draft      order.Draft
	OperatorID int64
}

type NotifyClient struct {
	Event order.Event
}

type PublishBoard struct {
	Event order.Event
}

func (PriceOrder) Name() string   { return "PRICE_ORDER" }
func (PersistOrder) Name() string { return "PERSIST_ORDER" }
func (NotifyClient) Name() string { return "NOTIFY_CLIENT" }
func (PublishBoard) Name() string { return "PUBLISH_BOARD" }

func (PriceOrder) isEffect()   {}
func (PersistOrder) isEffect() {}
func (NotifyClient) isEffect() {}
func (PublishBoard) isEffect() {}
