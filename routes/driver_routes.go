package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/controllers/driver_controller"
	middleware "github.com/joy095/bayelite/middlewares"
	"github.com/redis/go-redis/v9"
)

func RegisterDriverRoutes(router *gin.Engine, dc *driver_controller.DriverController, rdb *redis.Client, writeRate string) {
	writes := middleware.NewRateLimiter(rdb, writeRate, "driver-write")

	driverGroup := router.Group("/api/drivers")
	{
		driverGroup.GET("", dc.GetDrivers)
		driverGroup.POST("", writes, dc.CreateDriver)
		driverGroup.PUT("/:id", writes, dc.UpdateDriver)
		driverGroup.DELETE("/:id", writes, dc.DeleteDriver)
	}
}
