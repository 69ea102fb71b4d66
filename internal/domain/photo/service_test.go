package photo

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/database"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/pkg/validation"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func png(size int) []byte {
	b := make([]byte, size)
	copy(b, pngHeader)
	return b
}

type testEnv struct {
	svc     *Service
	storage *MemoryStorage
	order   *order.Order
}

func newTestEnv(t *testing.T, status order.Status) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory("photo_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(order.Models(), Models()...)...))

	o := &order.Order{
		ReceiptNumber: "AKSI-MAIN-20260302-100000-001",
		ClientID:      1,
		BranchCode:    "MAIN",
		Status:        status,
		Items: []order.OrderItem{{
			Name:         "Сорочка",
			CategoryCode: "CLOTHING",
			Quantity:     1,
			BasePrice:    decimal.NewFromInt(100),
			FinalPrice:   decimal.NewFromInt(100),
		}},
	}
	require.NoError(t, db.Create(o).Error)

	rules := order.DefaultRules()
	rules.MaxPhotosPerItem = 2
	rules.MaxPhotoBytes = 1024
	rules.MaxTotalPhotoSize = 1500

	storage := NewMemoryStorage()
	return &testEnv{svc: NewService(db, storage, rules, nil), storage: storage, order: o}
}

func (e *testEnv) upload(name string, body []byte) (*ItemPhoto, error) {
	return e.svc.Upload(context.Background(), UploadInput{
		OrderID:  e.order.ID,
		ItemID:   e.order.Items[0].ID,
		FileName: name,
		Body:     bytes.NewReader(body),
	})
}

func TestUpload_StoresAndPresigns(t *testing.T) {
	e := newTestEnv(t, order.StatusDraft)

	p, err := e.upload("../../coat.png", png(600))
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MimeType)
	assert.Equal(t, "coat.png", p.FileName)
	assert.Equal(t, int64(600), p.Size)
	assert.Contains(t, p.ObjectKey, ".png")
	assert.Equal(t, "memory://"+p.ObjectKey, p.URL)

	body, contentType, ok := e.storage.Get(p.ObjectKey)
	require.True(t, ok)
	assert.Equal(t, "image/png", contentType)
	assert.Len(t, body, 600)

	list, err := e.svc.List(context.Background(), e.order.ID, e.order.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestUpload_Limits(t *testing.T) {
	e := newTestEnv(t, order.StatusInProgress)
	var verr *validation.Error

	_, err := e.upload("a.gif", append([]byte("GIF89a"), make([]byte, 10)...))
	require.True(t, errors.As(err, &verr))

	_, err = e.upload("big.png", png(1025))
	require.True(t, errors.As(err, &verr))

	_, err = e.upload("empty.png", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = e.upload("1.png", png(700))
	require.NoError(t, err)
	_, err = e.upload("2.png", png(900))
	require.True(t, errors.As(err, &verr), "total size")
	_, err = e.upload("2.png", png(700))
	require.NoError(t, err)
	_, err = e.upload("3.png", png(10))
	require.True(t, errors.As(err, &verr), "count")

	assert.Equal(t, 2, e.storage.Len())
}

func TestUpload_ClosedOrderAndUnknownItem(t *testing.T) {
	e := newTestEnv(t, order.StatusCompleted)

	_, err := e.upload("a.png", png(10))
	assert.ErrorIs(t, err, ErrOrderClosed)

	_, err = e.svc.Upload(context.Background(), UploadInput{OrderID: e.order.ID, ItemID: 999, Body: bytes.NewReader(png(10))})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t, order.StatusDraft)
	ctx := context.Background()
	itemID := e.order.Items[0].ID

	p, err := e.upload("a.png", png(10))
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.Delete(ctx, e.order.ID, itemID, "missing"), ErrPhotoNotFound)
	require.NoError(t, e.svc.Delete(ctx, e.order.ID, itemID, p.ID))
	assert.Equal(t, 0, e.storage.Len())
}
