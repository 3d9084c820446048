package booking_controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/badwords"
	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/services/booking_service"
	"github.com/joy095/bayelite/utils"
	"github.com/joy095/bayelite/utils/receipt"
)

type bookingStore interface {
	List(ctx context.Context) ([]booking_models.Booking, error)
	Create(ctx context.Context, nb booking_models.NewBooking) (*booking_models.Booking, error)
}

type bookingResolver interface {
	Resolve(ctx context.Context, identifier string) (*booking_models.Booking, error)
}

type bookingUpdater interface {
	Apply(ctx context.Context, identifier string, raw map[string]any) (*booking_models.Booking, error)
}

// BookingController serves the booking endpoints.
type BookingController struct {
	store    bookingStore
	resolver bookingResolver
	updater  bookingUpdater
	now      func() time.Time
}

func NewBookingController(store bookingStore, resolver bookingResolver, updater bookingUpdater) *BookingController {
	return &BookingController{
		store:    store,
		resolver: resolver,
		updater:  updater,
		now:      time.Now,
	}
}

type CreateBookingRequest struct {
	BookingID       string          `json:"bookingId" binding:"required,max=50"`
	FirstName       string          `json:"firstName" binding:"required,max=100"`
	LastName        string          `json:"lastName" binding:"required,max=100"`
	Email           string          `json:"email" binding:"required,email"`
	Phone           string          `json:"phone" binding:"required,max=20"`
	ServiceType     string          `json:"serviceType" binding:"required"`
	VehicleType     string          `json:"vehicleType" binding:"required"`
	PickupDate      string          `json:"pickupDate" binding:"required,datetime=2006-01-02"`
	PickupTime      string          `json:"pickupTime" binding:"required"`
	PickupAddress   string          `json:"pickupAddress" binding:"required"`
	Destination     string          `json:"destination"`
	Passengers      *int            `json:"passengers" binding:"omitempty,min=1"`
	Miles           float64         `json:"miles"`
	Hours           float64         `json:"hours"`
	TotalAmount     *float64        `json:"totalAmount" binding:"required,gte=0"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
	PaymentStatus   string          `json:"paymentStatus"`
	SpecialRequests string          `json:"specialRequests"`
	BillingAddress  string          `json:"billingAddress"`
	StopPoints      json.RawMessage `json:"stopPoints"`
	NavigationURL   string          `json:"navigationUrl"`
	OTP             string          `json:"otp" binding:"omitempty,max=10"`
}

// toNewBooking applies the creation defaults.
func (r CreateBookingRequest) toNewBooking() booking_models.NewBooking {
	nb := booking_models.NewBooking{
		BookingID:       r.BookingID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		ServiceType:     r.ServiceType,
		VehicleType:     r.VehicleType,
		PickupDate:      r.PickupDate,
		PickupTime:      r.PickupTime,
		PickupAddress:   r.PickupAddress,
		Destination:     r.Destination,
		Passengers:      1,
		Miles:           r.Miles,
		Hours:           r.Hours,
		TotalAmount:     *r.TotalAmount,
		PaymentMethod:   r.PaymentMethod,
		PaymentStatus:   r.PaymentStatus,
		SpecialRequests: r.SpecialRequests,
		BillingAddress:  r.BillingAddress,
		StopPoints:      r.StopPoints,
		NavigationURL:   r.NavigationURL,
		OTP:             r.OTP,
	}
	if r.Passengers != nil {
		nb.Passengers = *r.Passengers
	}
	if nb.PaymentStatus == "" {
		nb.PaymentStatus = "pending"
	}
	if len(nb.StopPoints) == 0 || string(nb.StopPoints) == "null" {
		nb.StopPoints = json.RawMessage("[]")
	}
	if nb.OTP == "" {
		nb.OTP = utils.GenerateSecureOTP()
	}
	return nb
}

// GetAllBookings lists every booking, newest first.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	bookings, err := bc.store.List(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Get all bookings error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnLogger.Warnf("Invalid booking request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.StopPoints) > 0 && !json.Valid(req.StopPoints) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "stopPoints must be valid JSON"})
		return
	}

	booking, err := bc.store.Create(c.Request.Context(), req.toNewBooking())
	if err != nil {
		switch {
		case errors.Is(err, booking_models.ErrDuplicateBookingID):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Booking ID already exists"})
		case errors.Is(err, booking_models.ErrInvalidValue):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			logger.ErrorLogger.Errorf("Booking creation error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// GetBooking accepts either the external booking id or the numeric id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, err := bc.resolver.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// UpdateBooking applies a partial update. Field names may be camelCase or snake_case.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Request body must be a JSON object"})
		return
	}

	booking, err := bc.updater.Apply(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		respondError(c, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type RatingRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

// SubmitRating stores the rider's rating and screened feedback.
func (bc *BookingController) SubmitRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rating must be between 1 and 5"})
		return
	}

	booking, err := bc.updater.Apply(c.Request.Context(), c.Param("id"), map[string]any{
		"rating":   req.Rating,
		"feedback": badwords.Mask(req.Feedback),
	})
	if err != nil {
		respondError(c, err, "Failed to save rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// DownloadReceipt renders the booking's PDF receipt.
func (bc *BookingController) DownloadReceipt(c *gin.Context) {
	booking, err := bc.resolver.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}

	pdf, filename, err := receipt.Build(booking, bc.now())
	if err != nil {
		logger.ErrorLogger.Errorf("Receipt for %s failed: %v", booking.BookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to build receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// respondError maps booking service errors to status codes.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, booking_service.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
	case errors.Is(err, booking_service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		logger.ErrorLogger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}
