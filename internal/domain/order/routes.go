package order

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("", h.List) // ?status=&client_id=&search=&page=
		orders.POST("", h.Create)
		orders.POST("/quote", h.Quote)
		orders.GET("/receipt-number/:number", h.GetByReceipt)
		orders.GET("/:id", h.Get)
		orders.DELETE("/:id", h.Delete)
		orders.PATCH("/:id/status", h.UpdateStatus)
		orders.POST("/:id/payments", h.RecordPayment)
		orders.PUT("/:id/client", h.ChangeClient)
		orders.POST("/:id/items", h.AddItem)
		orders.DELETE("/:id/items/:itemId", h.RemoveItem)
	}
}
