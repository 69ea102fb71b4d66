package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) ListPriceItems(c *gin.Context) {
	f := PriceItemFilter{
		CategoryCode: c.Query("category"),
		Search:       c.Query("search"),
		Limit:        100,
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 200 {
		f.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		f.Offset = (page - 1) * f.Limit
	}

	items, total, err := h.service.ListPriceItems(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":  f.Offset/f.Limit + 1,
			"limit": f.Limit,
			"total": total,
		},
	})
}

func (h *Handler) GetPriceItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid price item ID")
		return
	}
	item, err := h.service.GetPriceItem(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) ListModifiers(c *gin.Context) {
	mods, err := h.service.ModifiersForCategory(c.Request.Context(), strings.ToUpper(c.Query("category")))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiers": mods})
}

func (h *Handler) ListIssues(c *gin.Context) {
	kind := IssueKind(strings.ToUpper(c.Query("kind")))
	switch kind {
	case "", IssueStain, IssueDefect, IssueRisk:
	default:
		response.BadRequest(c, "kind must be STAIN, DEFECT or RISK")
		return
	}

	issues, err := h.service.ListIssues(c.Request.Context(), kind)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"issues": issues})
}

func (h *Handler) PreviewPrice(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	breakdown, err := h.service.PreviewPrice(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"breakdown": breakdown})
}

func (h *Handler) CreatePriceItem(c *gin.Context) {
	var req PriceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.CreatePriceItem(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) UpdatePriceItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid price item ID")
		return
	}
	var req PriceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.UpdatePriceItem(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

func (h *Handler) CreateModifier(c *gin.Context) {
	var req ModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.service.CreateModifier(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"modifier": m})
}

func (h *Handler) UpdateModifier(c *gin.Context) {
	var req ModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.service.UpdateModifier(c.Request.Context(), strings.ToUpper(c.Param("code")), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifier": m})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrPriceItemNotFound),
		errors.Is(err, ErrModifierNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrModifierExists):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidModifier),
		errors.Is(err, ErrInvalidPriceItem),
		errors.Is(err, ErrUnknownIssue):
		response.BadRequest(c, err.Error())
	default:
		if code, ok := PricingErrorCode(err); ok {
			response.Error(c, http.StatusUnprocessableEntity, code, err.Error())
			return
		}
		response.Internal(c, "Failed to process catalog request")
	}
}

// PricingErrorCode maps calculator errors to stable API codes.
func PricingErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, pricing.ErrPriceOutOfRange):
		return "PRICE_OUT_OF_RANGE", true
	case errors.Is(err, pricing.ErrDiscountTooHigh):
		return "DISCOUNT_TOO_HIGH", true
	case errors.Is(err, pricing.ErrInvalidDiscount):
		return "INVALID_DISCOUNT", true
	case errors.Is(err, pricing.ErrUnknownUrgency):
		return "INVALID_URGENCY", true
	case errors.Is(err, pricing.ErrInvalidBasePrice),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidModifier),
		errors.Is(err, pricing.ErrNoItems):
		return "INVALID_PRICE_INPUT", true
	}
	return "", false
}
