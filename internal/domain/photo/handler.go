package photo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drycleaning/internal/middleware"
	"drycleaning/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Upload(c *gin.Context) {
	orderID, itemID, ok := parseIDs(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "no file provided")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "cannot read the uploaded file")
		return
	}
	defer file.Close()

	p, err := h.service.Upload(c.Request.Context(), UploadInput{
		OrderID:    orderID,
		ItemID:     itemID,
		OperatorID: c.GetInt64(middleware.ContextOperatorID),
		FileName:   fh.Filename,
		Body:       file,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"photo": p})
}

func (h *Handler) List(c *gin.Context) {
	orderID, itemID, ok := parseIDs(c)
	if !ok {
		return
	}
	photos, err := h.service.List(c.Request.Context(), orderID, itemID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photos": photos})
}

func (h *Handler) Delete(c *gin.Context) {
	orderID, itemID, ok := parseIDs(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), orderID, itemID, c.Param("photoId")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseIDs(c *gin.Context) (int64, int64, bool) {
	orderID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	itemID, err2 := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err1 != nil || err2 != nil || orderID <= 0 || itemID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order or item ID")
		return 0, 0, false
	}
	return orderID, itemID, true
}

func handleError(c *gin.Context, err error) {
	if response.InvalidIfValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrPhotoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrEmptyFile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrOrderClosed):
		response.Error(c, http.StatusConflict, "ORDER_LOCKED", err.Error())
	default:
		response.Internal(c, "Failed to process photo request")
	}
}
