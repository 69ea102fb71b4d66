package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/categories", h.ListCategories)
		catalog.GET("/price-list", h.ListPriceItems) // ?category=CLOTHING&search=...
		catalog.GET("/price-list/:id", h.GetPriceItem)
		catalog.GET("/modifiers", h.ListModifiers) // ?category=LEATHER
		catalog.GET("/issues", h.ListIssues)       // ?kind=STAIN|DEFECT|RISK
		catalog.POST("/price-preview", h.PreviewPrice)
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.POST("/price-list", h.CreatePriceItem)
		catalog.PUT("/price-list/:id", h.UpdatePriceItem)
		catalog.POST("/modifiers", h.CreateModifier)
		catalog.PUT("/modifiers/:code", h.UpdateModifier)
	}
}
