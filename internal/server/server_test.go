package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/config"
	"drycleaning/internal/database"
	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/operator"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/photo"
	"drycleaning/internal/domain/receipt"
	"drycleaning/internal/domain/wizard"
)

type testApp struct {
	*App
	token string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cfg, err := config.LoadFrom(map[string]string{"RECEIPT_PREFIX": "AKSI"})
	require.NoError(t, err)

	db, err := database.OpenInMemory("server_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))

	app, err := New(cfg, db, photo.NewMemoryStorage(), nil)
	require.NoError(t, err)
	require.NoError(t, catalog.NewRepository(db).ApplySeed(ctx, catalog.DefaultSeed()))

	_, created, err := app.Operators.EnsureAdmin(ctx, operator.CreateRequest{
		Login:      "admin",
		Password:   "admin-password",
		FullName:   "Адміністратор",
		BranchCode: "MAIN",
	})
	require.NoError(t, err)
	require.True(t, created)

	ta := &testApp{App: app}
	rr := ta.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"login": "admin", "password": "admin-password"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var login struct {
		Data operator.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)
	ta.token = login.Data.AccessToken
	return ta
}

func (a *testApp) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	require.True(t, env.Success, rr.Body.String())
	return env.Data
}

func (a *testApp) event(t *testing.T, sessionID, typ string, payload any) wizard.State {
	t.Helper()
	rr := a.do(http.MethodPost, "/api/v1/wizard/sessions/"+sessionID+"/events", map[string]any{"type": typ, "payload": payload})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	st := decode[struct {
		Session wizard.State `json:"session"`
	}](t, rr).Session
	require.Empty(t, st.Errors, "%s: %v", typ, st.Errors)
	require.Empty(t, st.LastError, typ)
	return st
}

func TestHealth(t *testing.T) {
	a := setupApp(t)
	a.token = ""
	rr := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := setupApp(t)
	a.token = ""
	for _, path := range []string{"/api/v1/clients/1", "/api/v1/orders", "/api/v1/catalog/categories"} {
		rr := a.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestUrgentOrderThroughWizard(t *testing.T) {
	a := setupApp(t)
	ctx := context.Background()

	rr := a.do(http.MethodPost, "/api/v1/clients", map[string]any{
		"first_name": "Олена",
		"last_name":  "Шевченко",
		"phone":      "+380501234567",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	cl := decode[struct {
		Client client.Client `json:"client"`
	}](t, rr).Client

	rr = a.do(http.MethodGet, "/api/v1/catalog/price-list?category=CLOTHING", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[struct {
		Items []catalog.PriceListItem `json:"items"`
	}](t, rr).Items
	require.NotEmpty(t, items)
	shirt := items[0]
	require.Equal(t, "100.00", shirt.BasePrice.StringFixed(2))

	rr = a.do(http.MethodPost, "/api/v1/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decode[struct {
		Session wizard.State `json:"session"`
	}](t, rr).Session.SessionID

	a.event(t, id, "SELECT_CLIENT", map[string]any{"client_id": cl.ID})
	a.event(t, id, "SUBMIT_ORDER_INFO", map[string]any{})
	a.event(t, id, "START_ITEM", nil)
	a.event(t, id, "SUBMIT_ITEM_BASIC_INFO", map[string]any{"price_list_item_id": shirt.ID, "quantity": 1})
	a.event(t, id, "SUBMIT_CHARACTERISTICS", map[string]any{"material": "бавовна", "color": "білий"})
	a.event(t, id, "SUBMIT_DEFECTS_STAINS", map[string]any{})
	a.event(t, id, "SUBMIT_PRICING", map[string]any{})
	st := a.event(t, id, "SUBMIT_PHOTOS", map[string]any{})
	require.NotNil(t, st.Quote)
	assert.Equal(t, "100.00", st.Quote.Total.StringFixed(2))

	a.event(t, id, "ITEMS_COMPLETED", nil)
	st = a.event(t, id, "SET_EXECUTION_PARAMS", map[string]any{"urgency": "URGENT_24H"})
	assert.Equal(t, "200.00", st.Quote.Total.StringFixed(2))
	a.event(t, id, "APPLY_DISCOUNT", map[string]any{"discount": map[string]any{"type": "NONE"}})
	a.event(t, id, "SET_PAYMENT", map[string]any{"method": "CASH"})
	a.event(t, id, "SET_ADDITIONAL_INFO", map[string]any{})
	st = a.event(t, id, "CONFIRM_ORDER", map[string]any{"terms_accepted": true, "signature_provided": true})
	require.Equal(t, wizard.StepCompleted, st.Step)
	require.Positive(t, st.OrderID)

	rr = a.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", st.OrderID), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	o := decode[struct {
		Order order.Order `json:"order"`
	}](t, rr).Order
	assert.Equal(t, order.StatusInProgress, o.Status)
	assert.Equal(t, "200.00", o.Total.StringFixed(2))
	assert.Equal(t, cl.ID, o.ClientID)

	rr = a.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d/receipt", st.OrderID), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))

	stored, err := a.Orders.Get(ctx, st.OrderID)
	require.NoError(t, err)
	c, err := a.Clients.Get(ctx, cl.ID)
	require.NoError(t, err)
	m := receipt.UkrainianMessages()
	rc := receipt.Build(stored, c, receipt.Branch{Name: "Хімчистка"}, m)
	total, ok := rc.Summary.Value(m.Total)
	require.True(t, ok)
	assert.Equal(t, "200,00 ₴", total)

	rr = a.do(http.MethodGet, fmt.Sprintf("/api/v1/notifications?order_id=%d", st.OrderID), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "ORDER_CREATED")
}

func TestOrderStatusGuard(t *testing.T) {
	a := setupApp(t)
	rr := a.do(http.MethodPatch, "/api/v1/orders/999/status", map[string]any{"status": "COMPLETED"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
