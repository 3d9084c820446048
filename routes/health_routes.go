package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterHealthRoutes(router *gin.Engine) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "Bay Elite booking server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
