package note

import "github.com/gin-gonic/gin"

// RegisterRoutes registers note routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/leads/:id/notes", handler.ListNotes)
	r.POST("/leads/:id/notes", handler.CreateNote)
	r.DELETE("/notes/:id", handler.DeleteNote)
}
