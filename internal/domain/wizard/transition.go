package wizard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
	"drycleaning/internal/pkg/validation"
)

// Rules are the business tables transitions validate against. Now is the clock reading of the call.
type Rules struct {
	Order   order.Rules
	Issues  recommendation.Config
	Pricing pricing.Config
	Now     time.Time
}

// Transition computes the next state of a session and the effects the driver has to run.
// It never modifies s. Validation failures keep the step and fill Errors; events that make
// no sense in the current step keep the step and fill LastError.
func Transition(r Rules, s State, e Event) (State, []Effect) {
	next := s.clone()
	if e == nil {
		return reject(next, "empty event")
	}
	if !HasSession(s) {
		return reject(next, "no wizard session")
	}

	switch ev := e.(type) {
	case Reset:
		fresh := NewState(s.SessionID, s.OperatorID)
		fresh.Suggested = ev.Info
		fresh.Step = StepClientSelection
		return fresh, nil
	case EffectFailed:
		if ev.System {
			return fail(next, s.Step, ev.Message)
		}
		next.LastError = ev.Message
		return next, nil
	}

	if s.Step == StepError {
		return reject(next, "the wizard stopped after an error, reset it to start over")
	}
	if s.Step.Terminal() {
		return reject(next, "order intake is already finished")
	}

	switch ev := e.(type) {
	case Fail:
		return fail(next, s.Step, ev.Reason)
	case CancelOrder:
		next.Step = StepCancelled
		next.CurrentItem = nil
		return next, nil
	case OrderPriced:
		q := ev.Quote
		next.Quote = &q
		return next, nil
	case GoBack:
		return goBack(next)
	case JumpTo:
		return jump(next, ev.Step)
	}

	switch s.Step {
	case StepInitial:
		if ev, ok := e.(StartOrder); ok {
			next.Suggested = ev.Info
			next.Step = StepClientSelection
			return next, nil
		}
	case StepClientSelection:
		if ev, ok := e.(SelectClient); ok {
			return selectClient(next, ev)
		}
	case StepOrderInitialization:
		if ev, ok := e.(SubmitOrderInfo); ok {
			return submitOrderInfo(r, next, ev)
		}
	case StepItemManagement:
		return manageItems(r, next, e)
	case StepItemWizard:
		return itemWizard(r, next, e)
	case StepExecutionParams:
		if ev, ok := e.(SetExecutionParams); ok {
			return setExecution(r, next, ev)
		}
	case StepGlobalDiscounts:
		if ev, ok := e.(ApplyDiscount); ok {
			return applyDiscount(r, next, ev)
		}
	case StepPayment:
		if ev, ok := e.(SetPayment); ok {
			return setPayment(next, ev)
		}
	case StepAdditionalInfo:
		if ev, ok := e.(SetAdditionalInfo); ok {
			res := r.Order.ValidateAdditionalInfo(ev.AdditionalInfo)
			if !res.Valid {
				return invalid(next, res)
			}
			info := ev.AdditionalInfo
			next.Additional = &info
			next.Warnings = res.Warnings
			next.Step = StepConfirmation
			return next, nil
		}
	case StepConfirmation:
		switch ev := e.(type) {
		case ConfirmOrder:
			return confirm(r, next, ev)
		case OrderPersisted:
			next.OrderID = ev.OrderID
			next.ReceiptNumber = ev.ReceiptNumber
			next.Step = StepCompleted
			return next, []Effect{NotifyClient{Event: ev.Event}, PublishBoard{Event: ev.Event}}
		}
	}
	return notAllowed(next, s.Step, e)
}

func selectClient(next State, ev SelectClient) (State, []Effect) {
	if ev.ClientID <= 0 {
		return invalid(next, validation.Failure("select a client"))
	}
	next.Client = &ClientSelection{ClientID: ev.ClientID, Name: ev.Name, Phone: ev.Phone}
	next.Step = StepOrderInitialization
	return next, nil
}

func submitOrderInfo(r Rules, next State, ev SubmitOrderInfo) (State, []Effect) {
	info := ev.OrderInfo
	info.TagNumber = strings.TrimSpace(info.TagNumber)
	if info.ReceiptNumber == "" {
		info.ReceiptNumber = next.Suggested.ReceiptNumber
	}
	if strings.TrimSpace(info.BranchCode) == "" {
		info.BranchCode = next.Suggested.BranchCode
	}
	if res := r.Order.ValidateOrderInfo(info); !res.Valid {
		return invalid(next, res)
	}
	next.Info = &info
	next.Step = StepItemManagement
	return next, nil
}

func manageItems(r Rules, next State, e Event) (State, []Effect) {
	switch ev := e.(type) {
	case StartItem:
		if len(next.Items) >= r.Order.MaxItems {
			return reject(next, fmt.Sprintf("an order can hold at most %d items", r.Order.MaxItems))
		}
		next.CurrentItem = &order.ItemDraft{}
		next.EditIndex = -1
		return openItem(next), nil
	case EditItem:
		if ev.Index < 0 || ev.Index >= len(next.Items) {
			return reject(next, fmt.Sprintf("there is no item %d", ev.Index+1))
		}
		item := next.Items[ev.Index]
		next.CurrentItem = &item
		next.EditIndex = ev.Index
		return openItem(next), nil
	case DeleteItem:
		if ev.Index < 0 || ev.Index >= len(next.Items) {
			return reject(next, fmt.Sprintf("there is no item %d", ev.Index+1))
		}
		next.Items = slices.Delete(next.Items, ev.Index, ev.Index+1)
		if len(next.Items) == 0 {
			next.Quote = nil
			return next, nil
		}
		return next, priceOrder(next)
	case ItemsCompleted:
		if !HasItems(next) {
			return invalid(next, validation.Failure("add at least one item"))
		}
		next.Step = StepExecutionParams
		return next, nil
	}
	return notAllowed(next, StepItemManagement, e)
}

func openItem(next State) State {
	next.ItemStep = ItemBasicInfo
	next.Recommendations = nil
	next.ItemPreview = nil
	next.Step = StepItemWizard
	return next
}

func closeItem(next State) State {
	next.CurrentItem = nil
	next.EditIndex = -1
	next.ItemStep = ""
	next.Recommendations = nil
	next.ItemPreview = nil
	next.Step = StepItemManagement
	return next
}

func itemWizard(r Rules, next State, e Event) (State, []Effect) {
	if !EditingItem(next) {
		return reject(next, "no item is being edited")
	}
	if _, ok := e.(CancelItem); ok {
		return closeItem(next), nil
	}

	cur := next.CurrentItem
	switch ev := e.(type) {
	case SubmitItemBasicInfo:
		if next.ItemStep != ItemBasicInfo {
			break
		}
		res := r.Order.ValidateItemBasicInfo(ev.ItemBasicInfo)
		if res.Valid && strings.TrimSpace(ev.CategoryCode) == "" {
			res = res.Combine(validation.Failure("the price list item has no category"))
		}
		if !res.Valid {
			return invalid(next, res)
		}
		if cur.CategoryCode != "" && cur.CategoryCode != ev.CategoryCode {
			cur.Modifiers = nil
		}
		cur.ItemBasicInfo = ev.ItemBasicInfo
		next.ItemStep = ItemCharacteristics
		return next, nil

	case SubmitCharacteristics:
		if next.ItemStep != ItemCharacteristics {
			break
		}
		res := r.Order.ValidateCharacteristics(ev.Characteristics)
		if !res.Valid {
			return invalid(next, res)
		}
		cur.Characteristics = ev.Characteristics
		next.Warnings = res.Warnings
		next.ItemStep = ItemDefectsStains
		return next, nil

	case SubmitDefectsStains:
		if next.ItemStep != ItemDefectsStains {
			break
		}
		res := order.ValidateDefectsStains(r.Issues, ev.Selection)
		if !res.Valid {
			return invalid(next, res)
		}
		cur.Issues = ev.Selection
		next.Recommendations = ev.Recommendations
		next.Warnings = append(res.Warnings, ev.Warnings...)
		next.ItemStep = ItemPricing
		return next, nil

	case SubmitPricing:
		if next.ItemStep != ItemPricing {
			break
		}
		if res := order.ValidateModifiers(ev.Modifiers); !res.Valid {
			return invalid(next, res)
		}
		if ev.Preview == nil {
			return reject(next, "the item has not been priced")
		}
		cur.Modifiers = ev.Modifiers
		next.ItemPreview = ev.Preview
		next.ItemStep = ItemPhotos
		return next, nil

	case SubmitPhotos:
		if next.ItemStep != ItemPhotos {
			break
		}
		cur.Photos = ev.Photos
		cur.Notes = strings.TrimSpace(ev.Notes)
		if res := r.Order.ValidateItem(r.Issues, *cur); !res.Valid {
			return invalid(next, res)
		}
		if next.EditIndex >= 0 && next.EditIndex < len(next.Items) {
			next.Items[next.EditIndex] = *cur
		} else {
			next.Items = append(next.Items, *cur)
		}
		next = closeItem(next)
		return next, priceOrder(next)
	}

	if next.ItemStep != "" {
		return reject(next, fmt.Sprintf("event %s is not allowed in item step %s", e.Type(), next.ItemStep))
	}
	return notAllowed(next, StepItemWizard, e)
}

func setExecution(r Rules, next State, ev SetExecutionParams) (State, []Effect) {
	p := ev.ExecutionParams
	if p.Urgency == "" {
		p.Urgency = pricing.UrgencyNormal
	}
	res := order.ValidateExecution(r.Pricing, p, r.Now)
	if !res.Valid {
		return invalid(next, res)
	}
	next.Execution = &p
	next.Step = StepGlobalDiscounts
	return next, priceOrder(next)
}

func applyDiscount(r Rules, next State, ev ApplyDiscount) (State, []Effect) {
	d := ev.Discount
	if d.Type == "" {
		d.Type = pricing.DiscountNone
	}
	excluded := make([]bool, 0, len(next.Items))
	for _, it := range next.Items {
		excluded = append(excluded, it.ExcludeDiscount)
	}
	res := order.ValidateDiscount(r.Pricing, d, excluded)
	if !res.Valid {
		return invalid(next, res)
	}
	next.Discount = &d
	next.Warnings = res.Warnings
	next.Step = StepPayment
	return next, priceOrder(next)
}

func setPayment(next State, ev SetPayment) (State, []Effect) {
	if next.Quote == nil {
		return reject(next, "the order has not been priced yet")
	}
	p := ev.PaymentParams
	if res := order.ValidatePayment(p, next.Quote.Total); !res.Valid {
		return invalid(next, res)
	}
	next.Payment = &p
	next.Step = StepAdditionalInfo
	return next, nil
}

func confirm(r Rules, next State, ev ConfirmOrder) (State, []Effect) {
	if !HasAdditionalInfo(next) {
		return reject(next, "the order is not complete, go through the previous steps")
	}
	c := ev.Confirmation
	next.Confirmation = &c

	d, _ := next.Draft()
	res := order.ValidateConfirmation(c.TermsAccepted, c.SignatureProvided).Combine(
		r.Order.ValidateDraft(r.Issues, r.Pricing, d, r.Now),
		order.ValidatePayment(d.Payment, next.Quote.Total),
	)
	if !res.Valid {
		return invalid(next, res)
	}
	next.Warnings = res.Warnings
	return next, []Effect{PersistOrder{Draft: d, OperatorID: next.OperatorID}}
}

func goBack(next State) (State, []Effect) {
	if next.Step == StepItemWizard {
		i := slices.Index(itemFlow, next.ItemStep)
		if i > 0 {
			next.ItemStep = itemFlow[i-1]
			return next, nil
		}
		return closeItem(next), nil
	}
	i := flowIndex(next.Step)
	if i <= 0 {
		return reject(next, "there is no previous step")
	}
	next.Step = flow[i-1]
	return next, nil
}

func jump(next State, target Step) (State, []Effect) {
	if flowIndex(target) < 0 {
		return reject(next, fmt.Sprintf("cannot jump to step %s", target))
	}
	if next.Step == StepItemWizard {
		return reject(next, "finish or cancel the current item first")
	}
	if !CanEnter(target, next) {
		return reject(next, fmt.Sprintf("complete the steps before %s first", target))
	}
	next.Step = target
	return next, nil
}

func priceOrder(s State) []Effect {
	d, ok := s.Draft()
	if !ok || len(d.Items) == 0 {
		return nil
	}
	d.Accept = false
	return []Effect{PriceOrder{Draft: d}}
}

func invalid(next State, res validation.Result) (State, []Effect) {
	next.Errors = append([]string{}, res.Errors...)
	next.Warnings = res.Warnings
	return next, nil
}

func reject(next State, msg string) (State, []Effect) {
	next.LastError = msg
	return next, nil
}

func fail(next State, at Step, reason string) (State, []Effect) {
	if reason == "" {
		reason = "operation failed"
	}
	next.FailedStep = at
	next.Step = StepError
	next.LastError = reason
	return next, nil
}

func notAllowed(next State, step Step, e Event) (State, []Effect) {
	return reject(next, fmt.Sprintf("event %s is not allowed in step %s", e.Type(), step))
}
