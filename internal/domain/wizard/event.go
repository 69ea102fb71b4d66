package wizard

import (
	"encoding/json"
	"fmt"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
)

// Event is something the operator (or the driver) did. The set of events is closed.
type Event interface {
	Type() string
	isEvent()
}

type sealed struct{}

func (sealed) isEvent() {}

// StartOrder opens a new order. Info is allocated by the driver.
type StartOrder struct {
	sealed
	Info order.OrderInfo `json:"-"`
}

// SelectClient picks the client. Name and Phone are filled by the driver from the directory.
type SelectClient struct {
	sealed
	ClientID int64  `json:"client_id"`
	Name     string `json:"-"`
	Phone    string `json:"-"`
}

type SubmitOrderInfo struct {
	sealed
	order.OrderInfo
}

type StartItem struct{ sealed }

// SubmitItemBasicInfo picks a price list entry. The driver copies name, category and unit from it.
type SubmitItemBasicInfo struct {
	sealed
	order.ItemBasicInfo
}

type SubmitCharacteristics struct {
	sealed
	order.Characteristics
}

// SubmitDefectsStains carries the operator's selection plus the advice the driver looked up for it.
type SubmitDefectsStains struct {
	sealed
	recommendation.Selection
	Recommendations []recommendation.Recommendation `json:"-"`
	Warnings        []string                        `json:"-"`
}

// SubmitPricing carries the chosen modifiers and the driver's price preview of the item.
type SubmitPricing struct {
	sealed
	Modifiers []catalog.ModifierChoice `json:"modifiers"`
	Preview   *pricing.Breakdown       `json:"-"`
}

type SubmitPhotos struct {
	sealed
	Photos []order.PhotoMeta `json:"photos"`
	Notes  string            `json:"notes"`
}

type CancelItem struct{ sealed }

type EditItem struct {
	sealed
	Index int `json:"index"`
}

type DeleteItem struct {
	sealed
	Index int `json:"index"`
}

type ItemsCompleted struct{ sealed }

type SetExecutionParams struct {
	sealed
	order.ExecutionParams
}

type ApplyDiscount struct {
	sealed
	Discount pricing.Discount `json:"discount"`
}

type SetPayment struct {
	sealed
	order.PaymentParams
}

type SetAdditionalInfo struct {
	sealed
	order.AdditionalInfo
}

type ConfirmOrder struct {
	sealed
	Confirmation
}

type GoBack struct{ sealed }

type JumpTo struct {
	sealed
	Step Step `json:"step"`
}

type CancelOrder struct{ sealed }

// Fail moves the session to ERROR.
type Fail struct {
	sealed
	Reason string `json:"reason"`
}

// Reset starts over from client selection. Info is allocated by the driver.
type Reset struct {
	sealed
	Info order.OrderInfo `json:"-"`
}

// OrderPriced reports a finished PriceOrder effect.
type OrderPriced struct {
	sealed
	Quote Quote
}

// OrderPersisted reports a finished PersistOrder effect.
type OrderPersisted struct {
	sealed
	OrderID       int64
	ReceiptNumber string
	Event         order.Event
}

// EffectFailed reports an effect that did not go through. System failures send the session to ERROR;
// the others are shown to the operator and the step is kept.
type EffectFailed struct {
	sealed
	Effect  string
	Message string
	System  bool
}

func (StartOrder) Type() string            { return "START_ORDER" }
func (SelectClient) Type() string          { return "SELECT_CLIENT" }
func (SubmitOrderInfo) Type() string       { return "SUBMIT_ORDER_INFO" }
func (StartItem) Type() string             { return "START_ITEM" }
func (SubmitItemBasicInfo) Type() string   { return "SUBMIT_ITEM_BASIC_INFO" }
func (SubmitCharacteristics) Type() string { return "SUBMIT_CHARACTERISTICS" }
func (SubmitDefectsStains) Type() string   { return "SUBMIT_DEFECTS_STAINS" }
func (SubmitPricing) Type() string         { return "SUBMIT_PRICING" }
func (SubmitPhotos) Type() string          { return "SUBMIT_PHOTOS" }
func (CancelItem) Type() string            { return "CANCEL_ITEM" }
func (EditItem) Type() string              { return "EDIT_ITEM" }
func (DeleteItem) Type() string            { return "DELETE_ITEM" }
func (ItemsCompleted) Type() string        { return "ITEMS_COMPLETED" }
func (SetExecutionParams) Type() string    { return "SET_EXECUTION_PARAMS" }
func (ApplyDiscount) Type() string         { return "APPLY_DISCOUNT" }
func (SetPayment) Type() string            { return "SET_PAYMENT" }
func (SetAdditionalInfo) Type() string     { return "SET_ADDITIONAL_INFO" }
func (ConfirmOrder) Type() string          { return "CONFIRM_ORDER" }
func (GoBack) Type() string                { return "GO_BACK" }
func (JumpTo) Type() string                { return "JUMP_TO" }
func (CancelOrder) Type() string           { return "CANCEL_ORDER" }
func (Fail) Type() string                  { return "FAIL" }
func (Reset) Type() string                 { return "RESET" }
func (OrderPriced) Type() string           { return "ORDER_PRICED" }
func (OrderPersisted) Type() string        { return "ORDER_PERSISTED" }
func (EffectFailed) Type() string          { return "EFFECT_FAILED" }

// operatorEvents are the events a client of the API may send. Driver feedback events are not among them.
var operatorEvents = map[string]func() Event{
	"START_ORDER":            func() Event { return &StartOrder{} },
	"SELECT_CLIENT":          func() Event { return &SelectClient{} },
	"SUBMIT_ORDER_INFO":      func() Event { return &SubmitOrderInfo{} },
	"START_ITEM":             func() Event { return &StartItem{} },
	"SUBMIT_ITEM_BASIC_INFO": func() Event { return &SubmitItemBasicInfo{} },
	"SUBMIT_CHARACTERISTICS": func() Event { return &SubmitCharacteristics{} },
	"SUBMIT_DEFECTS_STAINS":  func() Event { return &SubmitDefectsStains{} },
	"SUBMIT_PRICING":         func() Event { return &SubmitPricing{} },
	"SUBMIT_PHOTOS":          func() Event { return &SubmitPhotos{} },
	"CANCEL_ITEM":            func() Event { return &CancelItem{} },
	"EDIT_ITEM":              func() Event { return &EditItem{} },
	"DELETE_ITEM":            func() Event { return &DeleteItem{} },
	"ITEMS_COMPLETED":        func() Event { return &ItemsCompleted{} },
	"SET_EXECUTION_PARAMS":   func() Event { return &SetExecutionParams{} },
	"APPLY_DISCOUNT":         func() Event { return &ApplyDiscount{} },
	"SET_PAYMENT":            func() Event { return &SetPayment{} },
	"SET_ADDITIONAL_INFO":    func() Event { return &SetAdditionalInfo{} },
	"CONFIRM_ORDER":          func() Event { return &ConfirmOrder{} },
	"GO_BACK":                func() Event { return &GoBack{} },
	"JUMP_TO":                func() Event { return &JumpTo{} },
	"CANCEL_ORDER":           func() Event { return &CancelOrder{} },
	"RESET":                  func() Event { return &Reset{} },
}

// DecodeEvent builds an operator event from its type name and JSON payload.
func DecodeEvent(typ string, payload json.RawMessage) (Event, error) {
	newEvent, ok := operatorEvents[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, typ)
	}
	ptr := newEvent()
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, ptr); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidPayload, typ, err)
		}
	}
	return deref(ptr), nil
}

// deref turns the pointer the decoder filled back into the value event Transition switches on.
func deref(e Event) Event {
	switch v := e.(type) {
	case *StartOrder:
		return *v
	case *SelectClient:
		return *v
	case *SubmitOrderInfo:
		return *v
	case *StartItem:
		return *v
	case *SubmitItemBasicInfo:
		return *v
	case *SubmitCharacteristics:
		return *v
	case *SubmitDefectsStains:
		return *v
	case *SubmitPricing:
		return *v
	case *SubmitPhotos:
		return *v
	case *CancelItem:
		return *v
	case *EditItem:
		return *v
	case *DeleteItem:
		return *v
	case *ItemsCompleted:
		return *v
	case *SetExecutionParams:
		return *v
	case *ApplyDiscount:
		return *v
	case *SetPayment:
		return *v
	case *SetAdditionalInfo:
		return *v
	case *ConfirmOrder:
		return *v
	case *GoBack:
		return *v
	case *JumpTo:
		return *v
	case *CancelOrder:
		return *v
	case *Reset:
		return *v
	}
	return e
}
