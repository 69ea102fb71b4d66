package recommendation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type adviceRequest struct {
	IssueCodes   []string `json:"issue_codes"`
	CategoryCode string   `json:"category_code" binding:"required"`
}

func (h *Handler) Advise(c *gin.Context) {
	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	advice, err := h.engine.Advise(c.Request.Context(), req.IssueCodes, strings.ToUpper(req.CategoryCode))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownIssue) {
			response.BadRequest(c, err.Error())
			return
		}
		response.Internal(c, "Failed to build recommendations")
		return
	}
	response.Success(c, http.StatusOK, advice)
}

func (h *Handler) Analyze(c *gin.Context) {
	var sel Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, http.StatusOK, h.engine.AnalyzeIssues(sel))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/catalog/recommendations", h.Advise)
	r.POST("/catalog/issues/analyze", h.Analyze)
}
