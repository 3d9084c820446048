package tip_controller

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/bayelite/clients"
	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/services/booking_service"
)

const maxWebhookBody = 1 << 20

type bookingResolver interface {
	Resolve(ctx context.Context, identifier string) (*booking_models.Booking, error)
}

type bookingUpdater interface {
	Apply(ctx context.Context, identifier string, raw map[string]any) (*booking_models.Booking, error)
}

// TipController takes rider tips through the configured payment gateway. A nil
// gateway turns both endpoints into 503s.
type TipController struct {
	gateway  clients.PaymentGateway
	resolver bookingResolver
	updater  bookingUpdater
	currency string
}

func NewTipController(gateway clients.PaymentGateway, resolver bookingResolver, updater bookingUpdater, currency string) *TipController {
	if currency == "" {
		currency = "USD"
	}
	return &TipController{
		gateway:  gateway,
		resolver: resolver,
		updater:  updater,
		currency: currency,
	}
}

type TipRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreateTipOrder opens a gateway order for a tip on booking :id.
func (tc *TipController) CreateTipOrder(c *gin.Context) {
	if tc.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Tipping is not available"})
		return
	}

	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tip amount must be greater than zero"})
		return
	}

	booking, err := tc.resolver.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking_service.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
			return
		}
		logger.ErrorLogger.Errorf("Tip order lookup for %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create tip order"})
		return
	}

	order, err := tc.gateway.CreateOrder(c.Request.Context(), clients.OrderRequest{
		Receipt:       "tip_" + uuid.NewString(),
		AmountMinor:   int64(math.Round(req.Amount * 100)),
		Currency:      tc.currency,
		BookingID:     booking.BookingID,
		CustomerName:  booking.FirstName + " " + booking.LastName,
		CustomerEmail: booking.Email,
		CustomerPhone: booking.Phone,
	})
	if err != nil {
		logger.ErrorLogger.Errorf("%s tip order for %s failed: %v", tc.gateway.Name(), booking.BookingID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to create tip order"})
		return
	}

	logger.InfoLogger.Infof("Tip order %s created for booking %s", order.OrderID, booking.BookingID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// PaymentWebhook records a captured tip reported by the gateway.
func (tc *TipController) PaymentWebhook(c *gin.Context) {
	if tc.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Payments are not configured"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read body"})
		return
	}

	if !tc.gateway.VerifyWebhook(c.Request.Header, body) {
		logger.WarnLogger.Warnf("Rejected %s webhook with bad signature from %s", tc.gateway.Name(), c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid signature"})
		return
	}

	event, err := tc.gateway.ParseTipEvent(body)
	switch {
	case errors.Is(err, clients.ErrIgnoredEvent):
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event ignored"})
		return
	case err != nil:
		logger.WarnLogger.Warnf("Unreadable %s webhook: %v", tc.gateway.Name(), err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid event"})
		return
	}

	// Set, not added: gateways redeliver webhooks.
	if _, err := tc.updater.Apply(c.Request.Context(), event.BookingID, map[string]any{"tip_amount": event.Amount}); err != nil {
		if errors.Is(err, booking_service.ErrBookingNotFound) {
			logger.WarnLogger.Warnf("Tip payment %s references unknown booking %s", event.PaymentID, event.BookingID)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking not found, event dropped"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to record tip %s on booking %s: %v", event.PaymentID, event.BookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record tip"})
		return
	}

	logger.InfoLogger.Infof("Tip %.2f %s recorded on booking %s (payment %s)", event.Amount, event.Currency, event.BookingID, event.PaymentID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
