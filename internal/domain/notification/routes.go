package notification

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications", h.List) // ?client_id=&order_id=&limit=
}

// RegisterPublicRoutes mounts the websocket, which authenticates by query token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/ws/orders", h.OrderBoard)
}
