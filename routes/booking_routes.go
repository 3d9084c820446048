package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/controllers/booking_controller"
	"github.com/joy095/bayelite/controllers/tip_controller"
	middleware "github.com/joy095/bayelite/middlewares"
	"github.com/redis/go-redis/v9"
)

// RegisterBookingRoutes mounts the booking endpoints under /api/bookings. Writes are
// rate limited per client; rdb may be nil for an in-process limiter.
func RegisterBookingRoutes(router *gin.Engine, bc *booking_controller.BookingController, tc *tip_controller.TipController, rdb *redis.Client, writeRate string) {
	bookingGroup := router.Group("/api/bookings")
	{
		bookingGroup.GET("", bc.GetAllBookings)
		bookingGroup.GET("/:id", bc.GetBooking)
		bookingGroup.GET("/:id/receipt", bc.DownloadReceipt)

		bookingGroup.POST("", middleware.NewRateLimiter(rdb, writeRate, "booking-create"), bc.CreateBooking)
		bookingGroup.PUT("/:id", middleware.NewRateLimiter(rdb, writeRate, "booking-update"), bc.UpdateBooking)

		// Riders submit these from emailed links
		bookingGroup.POST("/:id/rating",
			middleware.CombinedRateLimiter(rdb, "booking-rating", "5-1m", "20-1h"),
			bc.SubmitRating)
		bookingGroup.POST("/:id/tip",
			middleware.CombinedRateLimiter(rdb, "booking-tip", "5-1m", "20-1h"),
			tc.CreateTipOrder)
	}
}
