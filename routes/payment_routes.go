package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/controllers/tip_controller"
)

// RegisterPaymentRoutes mounts the gateway webhook. It is authenticated by the
// provider signature, so no rate limiter sits in front of it.
func RegisterPaymentRoutes(router *gin.Engine, tc *tip_controller.TipController) {
	router.POST("/api/payments/webhook", tc.PaymentWebhook)
}
