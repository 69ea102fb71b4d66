package receipt

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/domain/order"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download streams the receipt PDF of an order. ?locale=uk|en
func (h *Handler) Download(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid order id")
		return
	}

	pdf, o, err := h.service.Generate(c.Request.Context(), id, c.Query("locale"))
	if err != nil {
		if status, code, ok := order.ErrorCode(err); ok {
			response.Error(c, status, code, err.Error())
			return
		}
		response.Internal(c, "failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "receipt-"+o.ReceiptNumber+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
