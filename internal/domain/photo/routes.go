package photo

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	photos := r.Group("/orders/:id/items/:itemId/photos")
	{
		photos.GET("", h.List)
		photos.POST("", h.Upload) // multipart field "file"
		photos.DELETE("/:photoId", h.Delete)
	}
}
