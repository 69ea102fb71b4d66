package wizard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func testRules() Rules {
	return Rules{
		Order:   order.DefaultRules(),
		Issues:  recommendation.DefaultConfig(),
		Pricing: pricing.DefaultConfig(),
		Now:     testNow,
	}
}

// step applies e and fails the test when it was rejected or did not validate.
func step(t *testing.T, s State, e Event) (State, []Effect) {
	t.Helper()
	next, effects := Transition(testRules(), s, e)
	require.Empty(t, next.Errors, "event %s", e.Type())
	require.Empty(t, next.LastError, "event %s", e.Type())
	return next, effects
}

func started(t *testing.T) State {
	t.Helper()
	s, _ := step(t, NewState("session-1", 7), StartOrder{Info: order.OrderInfo{
		ReceiptNumber: "AKSI-MAIN-20260302-100000-001",
		BranchCode:    "MAIN",
	}})
	return s
}

func atItems(t *testing.T) State {
	t.Helper()
	s, _ := step(t, started(t), SelectClient{ClientID: 3, Name: "Шевченко Олена", Phone: "+380501234567"})
	s, _ = step(t, s, SubmitOrderInfo{OrderInfo: order.OrderInfo{TagNumber: "T-001"}})
	return s
}

func shirtEvents() []Event {
	return []Event{
		StartItem{},
		SubmitItemBasicInfo{ItemBasicInfo: order.ItemBasicInfo{PriceListItemID: 1, Name: "Сорочка", CategoryCode: "CLOTHING", Unit: "шт", Quantity: 1}},
		SubmitCharacteristics{Characteristics: order.Characteristics{Material: "бавовна", Color: "білий", WearPercent: 10}},
		SubmitDefectsStains{Selection: recommendation.Selection{Stains: []string{"coffee"}}},
		SubmitPricing{Preview: &pricing.Breakdown{FinalPrice: decimal.NewFromInt(100)}},
		SubmitPhotos{Notes: "ґудзик ледь тримається"},
	}
}

func withShirt(t *testing.T) State {
	t.Helper()
	s := atItems(t)
	for _, e := range shirtEvents() {
		s, _ = step(t, s, e)
	}
	return s
}

func TestTransition_FullFlow(t *testing.T) {
	s := started(t)
	assert.Equal(t, StepClientSelection, s.Step)

	s, _ = step(t, s, SelectClient{ClientID: 3, Name: "Шевченко Олена"})
	assert.Equal(t, StepOrderInitialization, s.Step)

	s, _ = step(t, s, SubmitOrderInfo{OrderInfo: order.OrderInfo{TagNumber: " T-001 "}})
	assert.Equal(t, StepItemManagement, s.Step)
	require.NotNil(t, s.Info)
	assert.Equal(t, "AKSI-MAIN-20260302-100000-001", s.Info.ReceiptNumber)
	assert.Equal(t, "MAIN", s.Info.BranchCode)
	assert.Equal(t, "T-001", s.Info.TagNumber)

	var effects []Effect
	for _, e := range shirtEvents() {
		s, effects = step(t, s, e)
	}
	assert.Equal(t, StepItemManagement, s.Step)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "ґудзик ледь тримається", s.Items[0].Notes)
	assert.Nil(t, s.CurrentItem)
	require.Len(t, effects, 1)
	priced, ok := effects[0].(PriceOrder)
	require.True(t, ok)
	assert.Equal(t, int64(3), priced.Draft.ClientID)
	assert.Len(t, priced.Draft.Items, 1)

	s, _ = step(t, s, OrderPriced{Quote: Quote{Total: decimal.NewFromInt(100)}})
	s, _ = step(t, s, ItemsCompleted{})
	assert.Equal(t, StepExecutionParams, s.Step)

	s, effects = step(t, s, SetExecutionParams{ExecutionParams: order.ExecutionParams{Urgency: pricing.Urgency24h}})
	assert.Equal(t, StepGlobalDiscounts, s.Step)
	require.Len(t, effects, 1)
	assert.Equal(t, pricing.Urgency24h, effects[0].(PriceOrder).Draft.Execution.Urgency)
	s, _ = step(t, s, OrderPriced{Quote: Quote{Total: decimal.NewFromInt(200)}})

	s, effects = step(t, s, ApplyDiscount{})
	assert.Equal(t, StepPayment, s.Step)
	assert.Equal(t, pricing.DiscountNone, s.Discount.Type)
	assert.Len(t, effects, 1)

	s, _ = step(t, s, SetPayment{PaymentParams: order.PaymentParams{Method: order.PaymentCash, Prepayment: decimal.NewFromInt(50)}})
	assert.Equal(t, StepAdditionalInfo, s.Step)

	s, _ = step(t, s, SetAdditionalInfo{AdditionalInfo: order.AdditionalInfo{CustomerNotes: "зателефонувати"}})
	assert.Equal(t, StepConfirmation, s.Step)

	s, effects = step(t, s, ConfirmOrder{Confirmation: Confirmation{TermsAccepted: true, SignatureProvided: true}})
	assert.Equal(t, StepConfirmation, s.Step)
	require.Len(t, effects, 1)
	persist, ok := effects[0].(PersistOrder)
	require.True(t, ok)
	assert.True(t, persist.Draft.Accept)
	assert.Equal(t, int64(7), persist.OperatorID)
	assert.True(t, persist.Draft.Payment.Prepayment.Equal(decimal.NewFromInt(50)))

	ev := order.Event{Type: order.EventCreated, OrderID: 11}
	s, effects = step(t, s, OrderPersisted{OrderID: 11, ReceiptNumber: "AKSI-MAIN-20260302-100000-001", Event: ev})
	assert.Equal(t, StepCompleted, s.Step)
	assert.Equal(t, int64(11), s.OrderID)
	assert.Equal(t, []Effect{NotifyClient{Event: ev}, PublishBoard{Event: ev}}, effects)
}

func TestTransition_DoesNotModifyInput(t *testing.T) {
	s := atItems(t)
	s, _ = step(t, s, StartItem{})
	before := *s.CurrentItem

	next, _ := step(t, s, shirtEvents()[1])
	assert.Equal(t, before, *s.CurrentItem)
	assert.Equal(t, ItemBasicInfo, s.ItemStep)
	assert.Equal(t, ItemCharacteristics, next.ItemStep)
	assert.Equal(t, "Сорочка", next.CurrentItem.Name)
}

func TestTransition_ValidationKeepsStep(t *testing.T) {
	s := started(t)

	next, effects := Transition(testRules(), s, SelectClient{})
	assert.Equal(t, StepClientSelection, next.Step)
	assert.Equal(t, []string{"select a client"}, next.Errors)
	assert.Empty(t, effects)

	s = atItems(t)
	s, _ = step(t, s, StartItem{})
	s, _ = step(t, s, shirtEvents()[1])
	next, _ = Transition(testRules(), s, SubmitCharacteristics{Characteristics: order.Characteristics{Color: "білий", CustomColor: "Білий"}})
	assert.Equal(t, ItemCharacteristics, next.ItemStep)
	assert.Contains(t, next.Errors, "material is required")
	assert.Contains(t, next.Errors, "choose either a standard color or a custom one")

	// the next valid event clears the messages
	next, _ = step(t, next, shirtEvents()[2])
	assert.Empty(t, next.Errors)
}

func TestTransition_RepeatedModifierKeepsPricingStep(t *testing.T) {
	s := atItems(t)
	for _, e := range shirtEvents()[:4] {
		s, _ = step(t, s, e)
	}
	require.Equal(t, ItemPricing, s.ItemStep)

	manual := catalog.ModifierChoice{Code: "MANUAL_CLEANING"}
	next, effects := Transition(testRules(), s, SubmitPricing{
		Modifiers: []catalog.ModifierChoice{manual, manual},
		Preview:   &pricing.Breakdown{FinalPrice: decimal.NewFromInt(144)},
	})
	assert.Equal(t, ItemPricing, next.ItemStep)
	assert.Equal(t, []string{"modifier MANUAL_CLEANING is chosen more than once"}, next.Errors)
	assert.Nil(t, next.ItemPreview)
	assert.Empty(t, effects)

	next, _ = step(t, next, SubmitPricing{
		Modifiers: []catalog.ModifierChoice{manual},
		Preview:   &pricing.Breakdown{FinalPrice: decimal.NewFromInt(120)},
	})
	assert.Equal(t, ItemPhotos, next.ItemStep)
	assert.Equal(t, []catalog.ModifierChoice{manual}, next.CurrentItem.Modifiers)
}

func TestTransition_DiscountWarnsAboutExcludedItems(t *testing.T) {
	s := withShirt(t)
	s, _ = step(t, s, StartItem{})
	s, _ = step(t, s, SubmitItemBasicInfo{ItemBasicInfo: order.ItemBasicInfo{
		PriceListItemID: 2, Name: "Білизна", CategoryCode: "LAUNDRY", Unit: "кг", Quantity: 2, ExcludeDiscount: true,
	}})
	for _, e := range shirtEvents()[2:] {
		s, _ = step(t, s, e)
	}
	require.Len(t, s.Items, 2)
	s, _ = step(t, s, ItemsCompleted{})
	s, _ = step(t, s, SetExecutionParams{})

	s, _ = step(t, s, ApplyDiscount{Discount: pricing.Discount{Type: pricing.DiscountEvercard}})
	assert.Equal(t, StepPayment, s.Step)
	assert.Equal(t, []string{"the discount does not apply to 1 of 2 items"}, s.Warnings)
}

func TestTransition_RejectsEventsOutOfPlace(t *testing.T) {
	s := started(t)
	next, _ := Transition(testRules(), s, ItemsCompleted{})
	assert.Equal(t, StepClientSelection, next.Step)
	assert.Equal(t, "event ITEMS_COMPLETED is not allowed in step CLIENT_SELECTION", next.LastError)

	s = atItems(t)
	s, _ = step(t, s, StartItem{})
	next, _ = Transition(testRules(), s, shirtEvents()[2])
	assert.Equal(t, ItemBasicInfo, next.ItemStep)
	assert.Contains(t, next.LastError, "item step BASIC_INFO")

	next, _ = Transition(testRules(), s, nil)
	assert.Equal(t, "empty event", next.LastError)

	next, _ = Transition(testRules(), State{Step: StepClientSelection}, SelectClient{ClientID: 1})
	assert.Equal(t, "no wizard session", next.LastError)
	assert.Nil(t, next.Client)
}

func TestTransition_GoBackAndJump(t *testing.T) {
	s := atItems(t)
	s, _ = step(t, s, StartItem{})
	s, _ = step(t, s, shirtEvents()[1])
	s, _ = step(t, s, GoBack{})
	assert.Equal(t, ItemBasicInfo, s.ItemStep)
	s, _ = step(t, s, GoBack{})
	assert.Equal(t, StepItemManagement, s.Step)
	assert.Nil(t, s.CurrentItem)

	s, _ = step(t, s, GoBack{})
	assert.Equal(t, StepOrderInitialization, s.Step)

	next, _ := Transition(testRules(), s, JumpTo{Step: StepPayment})
	assert.Equal(t, StepOrderInitialization, next.Step)
	assert.Contains(t, next.LastError, "complete the steps before PAYMENT")

	s, _ = step(t, s, JumpTo{Step: StepItemManagement})
	assert.Equal(t, StepItemManagement, s.Step)
	s, _ = step(t, s, JumpTo{Step: StepClientSelection})
	next, _ = Transition(testRules(), s, GoBack{})
	assert.Equal(t, "there is no previous step", next.LastError)

	next, _ = Transition(testRules(), s, JumpTo{Step: StepItemWizard})
	assert.Equal(t, "cannot jump to step ITEM_WIZARD", next.LastError)
}

func TestTransition_EditAndDeleteItems(t *testing.T) {
	s := withShirt(t)

	s, _ = step(t, s, EditItem{Index: 0})
	assert.Equal(t, StepItemWizard, s.Step)
	assert.Equal(t, 0, s.EditIndex)
	assert.Equal(t, "Сорочка", s.CurrentItem.Name)

	edited := shirtEvents()[1].(SubmitItemBasicInfo)
	edited.Quantity = 3
	s, _ = step(t, s, edited)
	for _, e := range shirtEvents()[2:] {
		s, _ = step(t, s, e)
	}
	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)

	next, _ := Transition(testRules(), s, EditItem{Index: 4})
	assert.Equal(t, "there is no item 5", next.LastError)

	s, _ = step(t, s, OrderPriced{Quote: Quote{Total: decimal.NewFromInt(300)}})
	s, effects := step(t, s, DeleteItem{Index: 0})
	assert.Empty(t, s.Items)
	assert.Nil(t, s.Quote)
	assert.Empty(t, effects)

	next, _ = Transition(testRules(), s, ItemsCompleted{})
	assert.Equal(t, []string{"add at least one item"}, next.Errors)
	assert.Equal(t, StepItemManagement, next.Step)
}

func TestTransition_ItemLimit(t *testing.T) {
	r := testRules()
	r.Order.MaxItems = 1
	s := withShirt(t)

	next, _ := Transition(r, s, StartItem{})
	assert.Equal(t, StepItemManagement, next.Step)
	assert.Equal(t, "an order can hold at most 1 items", next.LastError)
}

func TestTransition_Payment(t *testing.T) {
	s := withShirt(t)
	s, _ = step(t, s, ItemsCompleted{})
	s, _ = step(t, s, SetExecutionParams{})
	assert.Equal(t, pricing.UrgencyNormal, s.Execution.Urgency)
	s, _ = step(t, s, ApplyDiscount{})

	next, _ := Transition(testRules(), s, SetPayment{PaymentParams: order.PaymentParams{Method: order.PaymentCash}})
	assert.Equal(t, "the order has not been priced yet", next.LastError)

	s, _ = step(t, s, OrderPriced{Quote: Quote{Total: decimal.NewFromInt(100)}})
	next, _ = Transition(testRules(), s, SetPayment{PaymentParams: order.PaymentParams{Method: order.PaymentCash, Prepayment: decimal.NewFromInt(150)}})
	assert.Equal(t, StepPayment, next.Step)
	assert.Equal(t, []string{"prepayment must not exceed the order total"}, next.Errors)
}

func TestTransition_PastCompletionDate(t *testing.T) {
	s := withShirt(t)
	s, _ = step(t, s, ItemsCompleted{})
	past := testNow.AddDate(0, 0, -1)

	next, effects := Transition(testRules(), s, SetExecutionParams{ExecutionParams: order.ExecutionParams{Urgency: pricing.UrgencyNormal, CompletionDate: &past}})
	assert.Equal(t, StepExecutionParams, next.Step)
	assert.Equal(t, []string{"completion date must not be in the past"}, next.Errors)
	assert.Empty(t, effects)
}

func TestTransition_ErrorAndReset(t *testing.T) {
	s := atItems(t)

	failed, _ := Transition(testRules(), s, EffectFailed{Effect: "PRICE_ORDER", Message: "price out of range"})
	assert.Equal(t, StepItemManagement, failed.Step)
	assert.Equal(t, "price out of range", failed.LastError)

	failed, _ = Transition(testRules(), s, EffectFailed{Effect: "PRICE_ORDER", Message: "operation failed", System: true})
	assert.Equal(t, StepError, failed.Step)
	assert.Equal(t, StepItemManagement, failed.FailedStep)

	next, _ := Transition(testRules(), failed, StartItem{})
	assert.Equal(t, StepError, next.Step)
	assert.Contains(t, next.LastError, "reset")

	info := order.OrderInfo{ReceiptNumber: "AKSI-MAIN-20260302-100500-002", BranchCode: "MAIN"}
	next, _ = step(t, failed, Reset{Info: info})
	assert.Equal(t, StepClientSelection, next.Step)
	assert.Equal(t, "session-1", next.SessionID)
	assert.Equal(t, int64(7), next.OperatorID)
	assert.Equal(t, info, next.Suggested)
	assert.Nil(t, next.Client)
	assert.Empty(t, next.Items)

	next, _ = Transition(testRules(), s, Fail{})
	assert.Equal(t, StepError, next.Step)
	assert.Equal(t, "operation failed", next.LastError)
}

func TestTransition_CancelOrder(t *testing.T) {
	s, _ := step(t, withShirt(t), CancelOrder{})
	assert.Equal(t, StepCancelled, s.Step)

	next, _ := Transition(testRules(), s, StartItem{})
	assert.Equal(t, StepCancelled, next.Step)
	assert.Equal(t, "order intake is already finished", next.LastError)
}
