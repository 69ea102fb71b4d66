package wizard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/domain/order"
)

var allSteps = []Step{
	StepInitial, StepClientSelection, StepOrderInitialization, StepItemManagement, StepItemWizard,
	StepExecutionParams, StepGlobalDiscounts, StepPayment, StepAdditionalInfo, StepConfirmation,
	StepCompleted, StepCancelled, StepError, Step("BOGUS"),
}

func TestGuards_FalseWithoutSession(t *testing.T) {
	odd := []State{
		{},
		{Client: &ClientSelection{ClientID: 1}},
		{Info: &order.OrderInfo{BranchCode: "MAIN"}, Items: []order.ItemDraft{{}}},
		{CurrentItem: &order.ItemDraft{}, Step: StepItemWizard},
		{SessionID: "   ", OrderID: 5},
	}
	for _, s := range odd {
		for _, step := range allSteps {
			assert.NotPanics(t, func() {
				assert.False(t, CanEnter(step, s), "step %s", step)
			})
		}
		assert.False(t, HasSession(s))
		assert.False(t, HasPayment(s))
		assert.False(t, IsPersisted(s))
	}
}

func TestGuards_PartialState(t *testing.T) {
	s := State{SessionID: "x", Client: &ClientSelection{}}
	assert.True(t, CanEnter(StepClientSelection, s))
	assert.False(t, CanEnter(StepOrderInitialization, s), "client id 0")

	s.Client.ClientID = 3
	s.Info = &order.OrderInfo{BranchCode: "MAIN"}
	assert.True(t, CanEnter(StepItemManagement, s))
	assert.False(t, CanEnter(StepExecutionParams, s))
	assert.False(t, CanEnter(StepItemWizard, s))

	s.Items = []order.ItemDraft{{}}
	s.Execution = &order.ExecutionParams{}
	assert.True(t, CanEnter(StepGlobalDiscounts, s))
	assert.False(t, CanEnter(StepInitial, s), "INITIAL is never re-entered")
}

func TestTransition_NeverPanics(t *testing.T) {
	events := []Event{
		StartOrder{}, SelectClient{}, SubmitOrderInfo{}, StartItem{}, SubmitItemBasicInfo{},
		SubmitCharacteristics{}, SubmitDefectsStains{}, SubmitPricing{}, SubmitPhotos{}, CancelItem{},
		EditItem{Index: -1}, DeleteItem{Index: 99}, ItemsCompleted{}, SetExecutionParams{}, ApplyDiscount{},
		SetPayment{}, SetAdditionalInfo{}, ConfirmOrder{}, GoBack{}, JumpTo{}, CancelOrder{}, Fail{},
		Reset{}, OrderPriced{}, OrderPersisted{}, EffectFailed{}, nil,
	}
	for _, step := range allSteps {
		for _, e := range events {
			s := State{SessionID: "x", Step: step}
			assert.NotPanics(t, func() { Transition(testRules(), s, e) }, "step %s", step)
		}
	}
}

func TestDecodeEvent(t *testing.T) {
	e, err := DecodeEvent("SELECT_CLIENT", json.RawMessage(`{"client_id": 42}`))
	require.NoError(t, err)
	assert.Equal(t, SelectClient{ClientID: 42}, e)

	e, err = DecodeEvent("SUBMIT_ITEM_BASIC_INFO", json.RawMessage(`{"price_list_item_id": 5, "quantity": 2}`))
	require.NoError(t, err)
	basic := e.(SubmitItemBasicInfo)
	assert.Equal(t, int64(5), basic.PriceListItemID)
	assert.Equal(t, 2, basic.Quantity)

	e, err = DecodeEvent("APPLY_DISCOUNT", json.RawMessage(`{"discount": {"type": "EVERCARD"}}`))
	require.NoError(t, err)
	assert.Equal(t, "EVERCARD", string(e.(ApplyDiscount).Discount.Type))

	e, err = DecodeEvent("GO_BACK", nil)
	require.NoError(t, err)
	assert.Equal(t, GoBack{}, e)

	_, err = DecodeEvent("ORDER_PERSISTED", nil)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = DecodeEvent("SELECT_CLIENT", json.RawMessage(`{"client_id": "x"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestStore_TTL(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	st := NewStore(time.Minute)
	st.now = func() time.Time { return now }

	st.Put(NewState("a", 1))
	st.Put(NewState("b", 1))
	assert.Equal(t, 2, st.Len())

	now = now.Add(50 * time.Second)
	_, err := st.Update("a", func(s State) (State, error) {
		s.Step = StepClientSelection
		return s, nil
	})
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	got, ok := st.Get("a")
	require.True(t, ok, "updates extend the lifetime")
	assert.Equal(t, StepClientSelection, got.Step)

	_, ok = st.Get("b")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 0, st.Len())

	_, err = st.Update("a", func(s State) (State, error) { return s, nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, st.Delete("a"))
}

func TestStore_UpdateLosesToDelete(t *testing.T) {
	st := NewStore(time.Minute)
	st.Put(NewState("a", 1))

	entered := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		_, err := st.Update("a", func(s State) (State, error) {
			close(entered)
			<-release
			s.Step = StepClientSelection
			return s, nil
		})
		first <- err
	}()
	<-entered

	// queued behind the running update, or arriving after the delete
	second := make(chan error, 1)
	ran := make(chan struct{}, 1)
	go func() {
		_, err := st.Update("a", func(s State) (State, error) {
			ran <- struct{}{}
			return s, nil
		})
		second <- err
	}()

	assert.True(t, st.Delete("a"))
	close(release)

	assert.ErrorIs(t, <-first, ErrSessionNotFound)
	assert.ErrorIs(t, <-second, ErrSessionNotFound)
	assert.Empty(t, ran)
	assert.Equal(t, 0, st.Len())
	_, ok := st.Get("a")
	assert.False(t, ok)
}

func TestStore_SweepSkipsSessionInUpdate(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	st := NewStore(time.Minute)
	st.now = func() time.Time { return now }
	st.Put(NewState("a", 1))

	got, err := st.Update("a", func(s State) (State, error) {
		now = now.Add(5 * time.Minute)
		assert.Equal(t, 0, st.Sweep())
		s.Step = StepClientSelection
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StepClientSelection, got.Step)

	stored, ok := st.Get("a")
	require.True(t, ok)
	assert.Equal(t, StepClientSelection, stored.Step)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
}
