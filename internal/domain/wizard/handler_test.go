package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drycleaning/internal/middleware"
)

func setupTestRouter(t *testing.T, operatorID *int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextOperatorID, *operatorID)
		c.Next()
	})
	NewHandler(f.driver).RegisterRoutes(api)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type sessionEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Session State `json:"session"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) sessionEnvelope {
	t.Helper()
	var env sessionEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestWizardEndpoints(t *testing.T) {
	operator := int64(7)
	r := setupTestRouter(t, &operator)

	rr := doJSON(r, http.MethodPost, "/api/v1/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	started := decodeSession(t, rr)
	assert.True(t, started.Success)
	assert.Equal(t, StepClientSelection, started.Data.Session.Step)
	base := "/api/v1/wizard/sessions/" + started.Data.Session.SessionID

	rr = doJSON(r, http.MethodPost, base+"/events", map[string]any{
		"type":    "SELECT_CLIENT",
		"payload": map[string]any{"client_id": 1},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	st := decodeSession(t, rr).Data.Session
	assert.Equal(t, StepOrderInitialization, st.Step)
	assert.Equal(t, "Шевченко Олена", st.Client.Name)

	rr = doJSON(r, http.MethodPost, base+"/events", map[string]any{"type": "ORDER_PERSISTED"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_EVENT", decodeSession(t, rr).Error.Code)

	rr = doJSON(r, http.MethodPost, base+"/events", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, StepClientSelection, decodeSession(t, rr).Data.Session.Step)

	rr = doJSON(r, http.MethodPost, base+"/jump", map[string]any{"step": "PAYMENT"})
	require.Equal(t, http.StatusOK, rr.Code)
	st = decodeSession(t, rr).Data.Session
	assert.Equal(t, StepClientSelection, st.Step)
	assert.NotEmpty(t, st.LastError)

	rr = doJSON(r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	operator = 8
	rr = doJSON(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doJSON(r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	operator = 7
	rr = doJSON(r, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doJSON(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWizardEndpoints_UnknownSession(t *testing.T) {
	operator := int64(7)
	r := setupTestRouter(t, &operator)

	for _, path := range []string{"/events", "/back", "/jump"} {
		rr := doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/wizard/sessions/missing%s", path), map[string]any{"type": "GO_BACK", "step": "PAYMENT"})
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}
