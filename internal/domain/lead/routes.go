package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.POST("", handler.CreateLead)
		leads.GET("/:id", handler.GetLead)
		leads.PATCH("/:id", handler.UpdateStatus)
	}

	r.PATCH("/lead/edit/:id", handler.EditLead)
}
