package wizard

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/wizard/sessions")
	{
		sessions.POST("", h.Start)
		sessions.GET("/:id", h.Get)
		sessions.POST("/:id/events", h.Send)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/jump", h.Jump)
		sessions.DELETE("/:id", h.Discard)
	}
}
