package order

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/middleware"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var d Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if d.Info.BranchCode == "" {
		d.Info.BranchCode = c.GetString(middleware.ContextBranchCode)
	}

	o, err := h.service.Create(c.Request.Context(), d, c.GetInt64(middleware.ContextOperatorID))
	if err != nil {
		handleError(c, err)
		return
	}
	h.service.Announce(c.Request.Context(), o, EventCreated, o.PaidAmount)
	response.Success(c, http.StatusCreated, gin.H{"order": o})
}

// Quote prices a draft without storing it.
func (h *Handler) Quote(c *gin.Context) {
	var d Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	o, err := h.service.Quote(c.Request.Context(), d)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) List(c *gin.Context) {
	f := Filter{
		Status: Status(strings.ToUpper(c.Query("status"))),
		Search: strings.ToUpper(strings.TrimSpace(c.Query("search"))),
		Limit:  20,
	}
	if id, err := strconv.ParseInt(c.Query("client_id"), 10, 64); err == nil {
		f.ClientID = id
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		f.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		f.Offset = (page - 1) * f.Limit
	}

	orders, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":  f.Offset/f.Limit + 1,
			"limit": f.Limit,
			"total": total,
		},
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) GetByReceipt(c *gin.Context) {
	o, err := h.service.GetByReceiptNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), id, Status(strings.ToUpper(string(req.Status))))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.RecordPayment(c.Request.Context(), id, req.Amount, PaymentMethod(strings.ToUpper(string(req.Method))))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) ChangeClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ChangeClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	o, err := h.service.ChangeClient(c.Request.Context(), id, req.ClientID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var item ItemDraft
	if err := c.ShouldBindJSON(&item); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	o, err := h.service.AddItem(c.Request.Context(), id, item)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order": o})
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	o, err := h.service.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"order": o})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param)
		return 0, false
	}
	return id, true
}

// ErrorCode maps order errors to a status and a stable code. ok is false for unknown errors.
func ErrorCode(err error) (status int, code string, ok bool) {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, catalog.ErrPriceItemNotFound),
		errors.Is(err, catalog.ErrModifierNotFound):
		return http.StatusNotFound, "NOT_FOUND", true
	case errors.Is(err, ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", true
	case errors.Is(err, ErrNotEditable),
		errors.Is(err, ErrNotDeletable),
		errors.Is(err, ErrPaymentsClosed):
		return http.StatusConflict, "ORDER_LOCKED", true
	case errors.Is(err, ErrOverpayment):
		return http.StatusUnprocessableEntity, "OVERPAYMENT", true
	case errors.Is(err, ErrInvalidPayment),
		errors.Is(err, ErrInvalidPaymentMethod):
		return http.StatusBadRequest, "INVALID_PAYMENT", true
	case errors.Is(err, ErrTooManyItems),
		errors.Is(err, ErrNoItems),
		errors.Is(err, catalog.ErrInvalidModifier):
		return http.StatusUnprocessableEntity, "INVALID_ITEMS", true
	}
	if code, ok := catalog.PricingErrorCode(err); ok {
		return http.StatusUnprocessableEntity, code, true
	}
	return 0, "", false
}

func handleError(c *gin.Context, err error) {
	if response.InvalidIfValidation(c, err) {
		return
	}
	if status, code, ok := ErrorCode(err); ok {
		response.Error(c, status, code, err.Error())
		return
	}
	response.Internal(c, "Failed to process order request")
}
