package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
	"drycleaning/internal/pkg/validation"
)

// maxFeedback bounds how many effect outcomes one operator event may trigger.
const maxFeedback = 8

type OrderService interface {
	Rules() order.Rules
	IssueRules() recommendation.Config
	PricingConfig() pricing.Config
	NewOrderInfo() order.OrderInfo
	Quote(ctx context.Context, d order.Draft) (*order.Order, error)
	Create(ctx context.Context, d order.Draft, operatorID int64) (*order.Order, error)
}

type Catalog interface {
	GetPriceItem(ctx context.Context, id int64) (*catalog.PriceListItem, error)
	GetCategory(ctx context.Context, code string) (*catalog.ServiceCategory, error)
	PreviewPrice(ctx context.Context, req catalog.PreviewRequest) (*pricing.Breakdown, error)
}

type Advisor interface {
	Advise(ctx context.Context, issueCodes []string, categoryCode string) (*recommendation.Advice, error)
}

type ClientDirectory interface {
	Get(ctx context.Context, id int64) (*client.Client, error)
}

type ClientNotifier interface {
	Notify(ctx context.Context, e order.Event) error
}

type BoardPublisher interface {
	Publish(e order.Event)
}

// Dependencies are the services the driver runs lookups and effects against.
// Notifier and Board are optional.
type Dependencies struct {
	Orders   OrderService
	Catalog  Catalog
	Advisor  Advisor
	Clients  ClientDirectory
	Notifier ClientNotifier
	Board    BoardPublisher
}

// Driver owns the sessions. It enriches operator events with catalog data, feeds them
// through Transition and executes the resulting effects.
type Driver struct {
	deps  Dependencies
	store *Store
	log   *zap.Logger
	now   func() time.Time
}

func NewDriver(deps Dependencies, store *Store, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{deps: deps, store: store, log: log, now: time.Now}
}

func (d *Driver) rules() Rules {
	return Rules{
		Order:   d.deps.Orders.Rules(),
		Issues:  d.deps.Orders.IssueRules(),
		Pricing: d.deps.Orders.PricingConfig(),
		Now:     d.now(),
	}
}

// Initialize opens a session and starts an order in it.
func (d *Driver) Initialize(ctx context.Context, operatorID int64) State {
	st := d.run(ctx, NewState(uuid.NewString(), operatorID), StartOrder{})
	d.store.Put(st)
	d.log.Info("wizard session started",
		zap.String("session_id", st.SessionID),
		zap.Int64("operator_id", operatorID),
	)
	return st
}

func (d *Driver) Get(sessionID string) (State, error) {
	st, ok := d.store.Get(sessionID)
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return st, nil
}

func (d *Driver) Advance(ctx context.Context, sessionID string, e Event) (State, error) {
	return d.store.Update(sessionID, func(s State) (State, error) {
		return d.run(ctx, s, e), nil
	})
}

func (d *Driver) Retreat(ctx context.Context, sessionID string) (State, error) {
	return d.Advance(ctx, sessionID, GoBack{})
}

func (d *Driver) JumpTo(ctx context.Context, sessionID string, step Step) (State, error) {
	return d.Advance(ctx, sessionID, JumpTo{Step: step})
}

func (d *Driver) Discard(sessionID string) error {
	if !d.store.Delete(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}

func (d *Driver) run(ctx context.Context, s State, e Event) State {
	rules := d.rules()
	next, effects := d.apply(rules, s, d.enrich(ctx, s, e))

	for rounds := 0; len(effects) > 0; rounds++ {
		if rounds == maxFeedback {
			d.log.Error("wizard effect loop stopped",
				zap.String("session_id", s.SessionID),
				zap.Int("pending", len(effects)),
			)
			break
		}
		eff := effects[0]
		effects = effects[1:]

		feedback := d.execute(ctx, next, eff)
		if feedback == nil {
			continue
		}
		var more []Effect
		next, more = d.apply(rules, next, feedback)
		effects = append(effects, more...)
	}
	return next
}

func (d *Driver) apply(rules Rules, s State, e Event) (State, []Effect) {
	next, effects := Transition(rules, s, e)
	if next.Step == StepError && s.Step != StepError {
		d.log.Error("wizard failed",
			zap.String("session_id", s.SessionID),
			zap.String("step", string(s.Step)),
			zap.String("event", e.Type()),
			zap.String("reason", next.LastError),
		)
	} else if next.Step != s.Step {
		d.log.Debug("wizard transition",
			zap.String("session_id", s.SessionID),
			zap.String("from", string(s.Step)),
			zap.String("to", string(next.Step)),
			zap.String("event", e.Type()),
		)
	}
	return next, effects
}

// enrich fills the parts of an operator event that come from the catalog or the client directory.
// A failed lookup replaces the event with EffectFailed.
func (d *Driver) enrich(ctx context.Context, s State, e Event) Event {
	switch ev := e.(type) {
	case StartOrder:
		ev.Info = d.deps.Orders.NewOrderInfo()
		return ev
	case Reset:
		ev.Info = d.deps.Orders.NewOrderInfo()
		return ev

	case SelectClient:
		if s.Step != StepClientSelection || ev.ClientID <= 0 {
			return ev
		}
		c, err := d.deps.Clients.Get(ctx, ev.ClientID)
		if err != nil {
			return d.failed(s, "LOOKUP_CLIENT", err)
		}
		ev.Name = strings.TrimSpace(c.LastName + " " + c.FirstName)
		ev.Phone = c.Phone
		return ev

	case SubmitItemBasicInfo:
		if !d.atItemStep(s, ItemBasicInfo) || ev.PriceListItemID <= 0 {
			return ev
		}
		pi, err := d.deps.Catalog.GetPriceItem(ctx, ev.PriceListItemID)
		if err == nil && !pi.Active {
			err = catalog.ErrPriceItemNotFound
		}
		if err != nil {
			return d.failed(s, "LOOKUP_PRICE_ITEM", err)
		}
		cat, err := d.deps.Catalog.GetCategory(ctx, pi.CategoryCode)
		if err != nil {
			return d.failed(s, "LOOKUP_CATEGORY", err)
		}
		ev.Name = pi.Name
		ev.CategoryCode = pi.CategoryCode
		ev.Unit = pi.Unit
		ev.ExcludeDiscount = !cat.Discountable
		return ev

	case SubmitDefectsStains:
		if !d.atItemStep(s, ItemDefectsStains) || d.deps.Advisor == nil {
			return ev
		}
		advice, err := d.deps.Advisor.Advise(ctx, ev.Codes(), s.CurrentItem.CategoryCode)
		if err != nil {
			return d.failed(s, "ADVISE", err)
		}
		ev.Recommendations = advice.Recommendations
		ev.Warnings = advice.Warnings
		return ev

	case SubmitPricing:
		if !d.atItemStep(s, ItemPricing) || !order.ValidateModifiers(ev.Modifiers).Valid {
			return ev
		}
		cur := s.CurrentItem
		urgency := pricing.UrgencyNormal
		if s.Execution != nil {
			urgency = s.Execution.Urgency
		}
		preview, err := d.deps.Catalog.PreviewPrice(ctx, catalog.PreviewRequest{
			PriceItemID: cur.PriceListItemID,
			Color:       cur.EffectiveColor(),
			Quantity:    cur.Quantity,
			Modifiers:   ev.Modifiers,
			Urgency:     urgency,
			Discount:    pricing.NoDiscount(),
		})
		if err != nil {
			return d.failed(s, "PREVIEW_PRICE", err)
		}
		ev.Preview = preview
		return ev
	}
	return e
}

func (d *Driver) atItemStep(s State, step ItemStep) bool {
	return s.Step == StepItemWizard && s.CurrentItem != nil && s.ItemStep == step
}

func (d *Driver) execute(ctx context.Context, s State, eff Effect) Event {
	switch eff := eff.(type) {
	case PriceOrder:
		o, err := d.deps.Orders.Quote(ctx, eff.Draft)
		if err != nil {
			return d.failed(s, eff.Name(), err)
		}
		return OrderPriced{Quote: QuoteOf(o)}

	case PersistOrder:
		o, err := d.deps.Orders.Create(ctx, eff.Draft, eff.OperatorID)
		if err != nil {
			return d.failed(s, eff.Name(), err)
		}
		e := order.NewEvent(order.EventCreated, o, d.now())
		e.Amount = o.PaidAmount
		d.log.Info("wizard order stored",
			zap.String("session_id", s.SessionID),
			zap.Int64("order_id", o.ID),
			zap.String("receipt_number", o.ReceiptNumber),
		)
		return OrderPersisted{OrderID: o.ID, ReceiptNumber: o.ReceiptNumber, Event: e}

	case NotifyClient:
		if d.deps.Notifier == nil {
			return nil
		}
		if err := d.deps.Notifier.Notify(ctx, eff.Event); err != nil {
			d.log.Warn("wizard effect failed",
				zap.String("session_id", s.SessionID),
				zap.String("effect", eff.Name()),
				zap.Int64("order_id", eff.Event.OrderID),
				zap.Error(err),
			)
		}
		return nil

	case PublishBoard:
		if d.deps.Board != nil {
			d.deps.Board.Publish(eff.Event)
		}
		return nil
	}
	return nil
}

func (d *Driver) failed(s State, effect string, err error) Event {
	msg, system := classify(err)
	d.log.Warn("wizard effect failed",
		zap.String("session_id", s.SessionID),
		zap.String("step", string(s.Step)),
		zap.String("effect", effect),
		zap.Bool("system", system),
		zap.Error(err),
	)
	return EffectFailed{Effect: effect, Message: msg, System: system}
}

// classify splits errors the operator can fix from system failures.
func classify(err error) (msg string, system bool) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Result.Message(), false
	}
	if _, _, ok := order.ErrorCode(err); ok {
		return err.Error(), false
	}
	if errors.Is(err, catalog.ErrUnknownIssue) || errors.Is(err, catalog.ErrCategoryNotFound) {
		return err.Error(), false
	}
	return "operation failed", true
}
