package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/database"
	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/recommendation"
	"drycleaning/internal/pkg/validation"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderChanged(ctx context.Context, e Event) error {
	return m.Called(ctx, e).Error(0)
}

type fixture struct {
	svc       *Service
	clients   *client.Service
	clientID  int64
	shirtID   int64
	laundryID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenInMemory("order_" + t.Name())
	require.NoError(t, err)
	models := append(catalog.Models(), client.Models()...)
	require.NoError(t, database.Migrate(db, append(models, Models()...)...))

	repo := catalog.NewRepository(db)
	require.NoError(t, repo.ApplySeed(ctx, catalog.DefaultSeed()))
	calc := pricing.NewCalculator(pricing.DefaultConfig())
	catalogs := catalog.NewService(repo, calc)
	clients := client.NewService(db, client.DefaultLoyaltyRules(), nil)

	c, err := clients.Create(ctx, client.ClientRequest{
		FirstName: "Олена",
		LastName:  "Шевченко",
		Phone:     "+380501234567",
		Channels:  []client.Channel{client.ChannelViber},
	})
	require.NoError(t, err)

	rules := DefaultRules()
	rules.Location = time.UTC
	svc := NewService(db, catalogs, clients, calc, rules, recommendation.DefaultConfig(), nil)
	svc.now = func() time.Time { return testNow }

	return &fixture{
		svc:       svc,
		clients:   clients,
		clientID:  c.ID,
		shirtID:   firstItem(t, catalogs, "CLOTHING"),
		laundryID: firstItem(t, catalogs, "LAUNDRY"),
	}
}

func firstItem(t *testing.T, s *catalog.Service, category string) int64 {
	t.Helper()
	items, _, err := s.ListPriceItems(context.Background(), catalog.PriceItemFilter{CategoryCode: category})
	require.NoError(t, err)
	require.NotEmpty(t, items)
	return items[0].ID
}

func item(priceItemID int64, qty int) ItemDraft {
	return ItemDraft{
		ItemBasicInfo:   ItemBasicInfo{PriceListItemID: priceItemID, Quantity: qty},
		Characteristics: Characteristics{Material: "бавовна", Color: "білий", WearPercent: 10},
		Issues:          recommendation.Selection{Stains: []string{"coffee"}},
	}
}

func (f *fixture) draft(urgency pricing.Urgency, items ...ItemDraft) Draft {
	return Draft{
		ClientID:  f.clientID,
		Info:      OrderInfo{BranchCode: "MAIN", TagNumber: "T-001"},
		Items:     items,
		Execution: ExecutionParams{Urgency: urgency},
		Payment:   PaymentParams{Method: PaymentCash},
	}
}

func (f *fixture) accepted(t *testing.T, d Draft) *Order {
	t.Helper()
	d.Accept = true
	d.TermsAccepted = true
	d.SignatureProvided = true
	o, err := f.svc.Create(context.Background(), d, 1)
	require.NoError(t, err)
	return o
}

func TestCreate_UrgentShirtCostsDouble(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.Create(context.Background(), f.draft(pricing.Urgency24h, item(f.shirtID, 1)), 7)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, o.Status)
	assert.True(t, ValidReceiptNumber(o.ReceiptNumber), o.ReceiptNumber)
	assert.Equal(t, int64(7), o.OperatorID)
	assert.Equal(t, "100.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "100.00", o.UrgencySurcharge.StringFixed(2))
	assert.Equal(t, "200.00", o.Total.StringFixed(2))
	assert.True(t, time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC).Equal(o.ExpectedCompletionAt), o.ExpectedCompletionAt)

	require.Len(t, o.Items, 1)
	it := o.Items[0]
	assert.Equal(t, "Сорочка", it.Name)
	assert.Equal(t, "CLOTHING", it.CategoryCode)
	assert.Equal(t, "100.00", it.BasePrice.StringFixed(2))
	assert.Equal(t, "200.00", it.FinalPrice.StringFixed(2))
	assert.Equal(t, []string{"coffee"}, []string(it.Stains))
	assert.Empty(t, o.Payments)
}

func TestCreate_ModifiersAreSnapshotted(t *testing.T) {
	f := newFixture(t)

	it := item(f.shirtID, 2)
	it.Modifiers = []catalog.ModifierChoice{{Code: "MANUAL_CLEANING"}}
	o, err := f.svc.Create(context.Background(), f.draft(pricing.UrgencyNormal, it), 1)
	require.NoError(t, err)

	require.Len(t, o.Items[0].Modifiers, 1)
	m := o.Items[0].Modifiers[0]
	assert.Equal(t, "MANUAL_CLEANING", m.Code)
	assert.Equal(t, "40.00", m.Delta.StringFixed(2))
	assert.Equal(t, "240.00", o.Total.StringFixed(2))
	assert.Equal(t, "120.00", o.Items[0].UnitPrice().StringFixed(2))
}

func TestCreate_AcceptWithPrepayment(t *testing.T) {
	f := newFixture(t)

	d := f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Payment = PaymentParams{Method: PaymentTerminal, Prepayment: decimal.NewFromInt(40)}
	o := f.accepted(t, d)

	assert.Equal(t, StatusInProgress, o.Status)
	assert.Equal(t, "40.00", o.PaidAmount.StringFixed(2))
	assert.Equal(t, "60.00", o.AmountDue().StringFixed(2))
	require.Len(t, o.Payments, 1)
	assert.Equal(t, PaymentTerminal, o.Payments[0].Method)
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Accept = true
	_, err := f.svc.Create(ctx, d, 1)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Result.Errors, "the client must accept the terms of service")

	d = f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.ClientID = 9999
	_, err = f.svc.Create(ctx, d, 1)
	assert.ErrorIs(t, err, client.ErrClientNotFound)

	d = f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Payment.Prepayment = decimal.NewFromInt(101)
	_, err = f.svc.Create(ctx, d, 1)
	require.True(t, errors.As(err, &verr))

	d = f.draft(pricing.UrgencyNormal, item(424242, 1))
	_, err = f.svc.Create(ctx, d, 1)
	assert.ErrorIs(t, err, catalog.ErrPriceItemNotFound)

	leather := item(f.shirtID, 1)
	leather.Modifiers = []catalog.ModifierChoice{{Code: "PEARL_COATING"}}
	_, err = f.svc.Create(ctx, f.draft(pricing.UrgencyNormal, leather), 1)
	assert.ErrorIs(t, err, catalog.ErrInvalidModifier)

	twice := item(f.shirtID, 1)
	twice.Modifiers = []catalog.ModifierChoice{{Code: "MANUAL_CLEANING"}, {Code: "MANUAL_CLEANING"}}
	_, err = f.svc.Create(ctx, f.draft(pricing.UrgencyNormal, twice), 1)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Result.Errors, "item 1: modifier MANUAL_CLEANING is chosen more than once")

	// quoting skips draft validation, the catalog still refuses the repeat
	_, err = f.svc.Quote(ctx, f.draft(pricing.UrgencyNormal, twice))
	assert.ErrorIs(t, err, catalog.ErrInvalidModifier)
}

func TestCreate_RetriesTakenReceiptNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)), 1)
	require.NoError(t, err)

	d := f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Info.ReceiptNumber = first.ReceiptNumber
	second, err := f.svc.Create(ctx, d, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
	assert.True(t, ValidReceiptNumber(second.ReceiptNumber))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n := new(mockNotifier)
	n.On("OrderChanged", mock.Anything, mock.MatchedBy(func(e Event) bool {
		return e.Type == EventCompleted && e.Total.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	f.svc.SetNotifier(n)

	draft, err := f.svc.Create(ctx, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)), 1)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, draft.ID, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	o := f.accepted(t, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)))
	done, err := f.svc.UpdateStatus(ctx, o.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	c, err := f.clients.Get(ctx, f.clientID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", c.TotalSpent.StringFixed(2))
	assert.Equal(t, 1, c.OrderCount)
	assert.Equal(t, int64(10), c.LoyaltyPoints)

	_, err = f.svc.UpdateStatus(ctx, o.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	n.AssertExpectations(t)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.accepted(t, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)))

	_, err := f.svc.RecordPayment(ctx, o.ID, decimal.Zero, PaymentCash)
	assert.ErrorIs(t, err, ErrInvalidPayment)
	_, err = f.svc.RecordPayment(ctx, o.ID, decimal.NewFromInt(10), "COUPON")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	_, err = f.svc.RecordPayment(ctx, o.ID, decimal.RequireFromString("100.01"), PaymentCash)
	assert.ErrorIs(t, err, ErrOverpayment)

	paid, err := f.svc.RecordPayment(ctx, o.ID, decimal.NewFromInt(60), PaymentCash)
	require.NoError(t, err)
	paid, err = f.svc.RecordPayment(ctx, o.ID, decimal.NewFromInt(40), PaymentBankTransfer)
	require.NoError(t, err)
	assert.Equal(t, "100.00", paid.PaidAmount.StringFixed(2))
	assert.True(t, paid.AmountDue().IsZero())
	assert.Len(t, paid.Payments, 2)
	assert.Equal(t, PaymentBankTransfer, paid.PaymentMethod)

	_, err = f.svc.UpdateStatus(ctx, o.ID, StatusCompleted)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, o.ID, decimal.NewFromInt(1), PaymentCash)
	assert.ErrorIs(t, err, ErrPaymentsClosed)
}

func TestEditItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Discount = pricing.Discount{Type: pricing.DiscountEvercard}
	o, err := f.svc.Create(ctx, d, 1)
	require.NoError(t, err)
	assert.Equal(t, "90.00", o.Total.StringFixed(2))

	o, err = f.svc.AddItem(ctx, o.ID, item(f.laundryID, 2))
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "120.00", o.Items[1].FinalPrice.StringFixed(2))
	assert.Equal(t, "210.00", o.Total.StringFixed(2))
	assert.Equal(t, "10.00", o.DiscountAmount.StringFixed(2))

	o, err = f.svc.RemoveItem(ctx, o.ID, o.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "120.00", o.Total.StringFixed(2))

	_, err = f.svc.RemoveItem(ctx, o.ID, o.Items[0].ID)
	assert.ErrorIs(t, err, ErrNoItems)
	_, err = f.svc.RemoveItem(ctx, o.ID, 9999)
	assert.ErrorIs(t, err, ErrItemNotFound)

	active := f.accepted(t, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)))
	_, err = f.svc.AddItem(ctx, active.ID, item(f.shirtID, 1))
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = f.svc.ChangeClient(ctx, active.ID, f.clientID)
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestDeleteAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(pricing.UrgencyNormal, item(f.shirtID, 1))
	d.Payment.Prepayment = decimal.NewFromInt(20)
	draft, err := f.svc.Create(ctx, d, 1)
	require.NoError(t, err)
	active := f.accepted(t, f.draft(pricing.UrgencyNormal, item(f.shirtID, 1)))

	orders, total, err := f.svc.List(ctx, Filter{Status: StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, active.ID, orders[0].ID)

	byNumber, err := f.svc.GetByReceiptNumber(ctx, active.ReceiptNumber)
	require.NoError(t, err)
	assert.Equal(t, active.ID, byNumber.ID)

	assert.ErrorIs(t, f.svc.Delete(ctx, active.ID), ErrNotDeletable)
	require.NoError(t, f.svc.Delete(ctx, draft.ID))
	_, err = f.svc.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
