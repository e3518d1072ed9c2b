package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes data as the bare response body.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Created writes {"id": id} with 201.
func Created(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Message writes {"message": message}.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// Error writes the error envelope {"error": message}. It is the only failure
// shape the API returns.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}
