package wizard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/middleware"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	driver *Driver
}

func NewHandler(driver *Driver) *Handler {
	return &Handler{driver: driver}
}

func (h *Handler) Start(c *gin.Context) {
	st := h.driver.Initialize(c.Request.Context(), c.GetInt64(middleware.ContextOperatorID))
	response.Success(c, http.StatusCreated, gin.H{"session": st})
}

func (h *Handler) Get(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}

// Send feeds one operator event into the session: {"type": "SELECT_CLIENT", "payload": {...}}.
func (h *Handler) Send(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	e, err := DecodeEvent(req.Type, req.Payload)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_EVENT", err.Error())
		return
	}
	st, err := h.driver.Advance(c.Request.Context(), c.Param("id"), e)
	h.respond(c, st, err)
}

func (h *Handler) Back(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	st, err := h.driver.Retreat(c.Request.Context(), c.Param("id"))
	h.respond(c, st, err)
}

func (h *Handler) Jump(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	var req JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	st, err := h.driver.JumpTo(c.Request.Context(), c.Param("id"), req.Step)
	h.respond(c, st, err)
}

func (h *Handler) Discard(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	if err := h.driver.Discard(c.Param("id")); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "session discarded"})
}

// session loads the session and makes sure it belongs to the calling operator.
func (h *Handler) session(c *gin.Context) (State, bool) {
	st, err := h.driver.Get(c.Param("id"))
	if err != nil || st.OperatorID != c.GetInt64(middleware.ContextOperatorID) {
		response.NotFound(c, ErrSessionNotFound.Error())
		return State{}, false
	}
	return st, true
}

func (h *Handler) respond(c *gin.Context, st State, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.Internal(c, "wizard step failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": st})
}
