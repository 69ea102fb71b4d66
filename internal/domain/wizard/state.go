// Package wizard drives the order intake flow: one sequential state machine per operator session.
package wizard

import (
	"time"

	"github.com/shopspring/decimal"

	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
)

type Step string

const (
	StepInitial             Step = "INITIAL"
	StepClientSelection     Step = "CLIENT_SELECTION"
	StepOrderInitialization Step = "ORDER_INITIALIZATION"
	StepItemManagement      Step = "ITEM_MANAGEMENT"
	StepItemWizard          Step = "ITEM_WIZARD"
	StepExecutionParams     Step = "EXECUTION_PARAMS"
	StepGlobalDiscounts     Step = "GLOBAL_DISCOUNTS"
	StepPayment             Step = "PAYMENT"
	StepAdditionalInfo      Step = "ADDITIONAL_INFO"
	StepConfirmation        Step = "CONFIRMATION"
	StepCompleted           Step = "COMPLETED"
	StepCancelled           Step = "CANCELLED"
	StepError               Step = "ERROR"
)

// flow is the main sequence JumpTo and GoBack move along. ITEM_WIZARD hangs off ITEM_MANAGEMENT.
var flow = []Step{
	StepClientSelection,
	StepOrderInitialization,
	StepItemManagement,
	StepExecutionParams,
	StepGlobalDiscounts,
	StepPayment,
	StepAdditionalInfo,
	StepConfirmation,
}

func flowIndex(s Step) int {
	for i, f := range flow {
		if f == s {
			return i
		}
	}
	return -1
}

func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepCancelled
}

type ItemStep string

const (
	ItemBasicInfo       ItemStep = "BASIC_INFO"
	ItemCharacteristics ItemStep = "CHARACTERISTICS"
	ItemDefectsStains   ItemStep = "DEFECTS_STAINS"
	ItemPricing         ItemStep = "PRICING"
	ItemPhotos          ItemStep = "PHOTOS"
)

var itemFlow = []ItemStep{ItemBasicInfo, ItemCharacteristics, ItemDefectsStains, ItemPricing, ItemPhotos}

type ClientSelection struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type Confirmation struct {
	TermsAccepted     bool `json:"terms_accepted"`
	SignatureProvided bool `json:"signature_provided"`
}

type ItemQuote struct {
	Name       string          `json:"name"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Quote is the latest pricing of the whole draft.
type Quote struct {
	Items                []ItemQuote     `json:"items"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	UrgencySurcharge     decimal.Decimal `json:"urgency_surcharge"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	Total                decimal.Decimal `json:"total"`
	ExpectedCompletionAt time.Time       `json:"expected_completion_at"`
}

func QuoteOf(o *order.Order) Quote {
	q := Quote{
		Items:                make([]ItemQuote, 0, len(o.Items)),
		Subtotal:             o.Subtotal,
		UrgencySurcharge:     o.UrgencySurcharge,
		DiscountAmount:       o.DiscountAmount,
		Total:                o.Total,
		ExpectedCompletionAt: o.ExpectedCompletionAt,
	}
	for _, it := range o.Items {
		q.Items = append(q.Items, ItemQuote{Name: it.Name, FinalPrice: it.FinalPrice})
	}
	return q
}

// State is everything one wizard session knows. Nil sections have not been submitted yet.
type State struct {
	SessionID  string `json:"session_id"`
	OperatorID int64  `json:"operator_id"`
	Step       Step   `json:"step"`

	// Suggested holds the receipt number and branch allocated when the order was started.
	Suggested order.OrderInfo  `json:"suggested"`
	Client    *ClientSelection `json:"client,omitempty"`
	Info      *order.OrderInfo `json:"info,omitempty"`

	Items       []order.ItemDraft `json:"items"`
	CurrentItem *order.ItemDraft  `json:"current_item,omitempty"`
	ItemStep    ItemStep          `json:"item_step,omitempty"`
	// EditIndex is the position of the item being edited, -1 for a new one.
	EditIndex       int                             `json:"edit_index"`
	Recommendations []recommendation.Recommendation `json:"recommendations,omitempty"`
	ItemPreview     *pricing.Breakdown              `json:"item_preview,omitempty"`

	Execution    *order.ExecutionParams `json:"execution,omitempty"`
	Discount     *pricing.Discount      `json:"discount,omitempty"`
	Payment      *order.PaymentParams   `json:"payment,omitempty"`
	Additional   *order.AdditionalInfo  `json:"additional,omitempty"`
	Confirmation *Confirmation          `json:"confirmation,omitempty"`
	Quote        *Quote                 `json:"quote,omitempty"`

	OrderID       int64  `json:"order_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`

	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings,omitempty"`
	LastError string   `json:"last_error,omitempty"`
	// FailedStep is where the session was when it went to ERROR.
	FailedStep Step `json:"failed_step,omitempty"`
}

// NewState is a session that has not started an order yet.
func NewState(sessionID string, operatorID int64) State {
	return State{SessionID: sessionID, OperatorID: operatorID, Step: StepInitial, EditIndex: -1, Errors: []string{}}
}

// clone copies the parts transitions write to so that the input state is never modified.
func (s State) clone() State {
	out := s
	out.Items = append([]order.ItemDraft(nil), s.Items...)
	if s.CurrentItem != nil {
		item := *s.CurrentItem
		out.CurrentItem = &item
	}
	out.Errors = []string{}
	out.Warnings = nil
	out.LastError = ""
	return out
}

// Draft assembles the order the session describes. ok is false until a client and order info exist.
func (s State) Draft() (order.Draft, bool) {
	if s.Client == nil || s.Info == nil {
		return order.Draft{}, false
	}
	d := order.Draft{
		ClientID: s.Client.ClientID,
		Info:     *s.Info,
		Items:    append([]order.ItemDraft(nil), s.Items...),
		Discount: pricing.NoDiscount(),
	}
	d.Execution.Urgency = pricing.UrgencyNormal
	if s.Execution != nil {
		d.Execution = *s.Execution
	}
	if s.Discount != nil {
		d.Discount = *s.Discount
	}
	if s.Payment != nil {
		d.Payment = *s.Payment
	}
	if s.Additional != nil {
		d.Additional = *s.Additional
	}
	if s.Confirmation != nil {
		d.TermsAccepted = s.Confirmation.TermsAccepted
		d.SignatureProvided = s.Confirmation.SignatureProvided
		d.Accept = true
	}
	return d, true
}
