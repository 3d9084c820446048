package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/joy095/bayelite/config"
)

var (
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrUnsupportedProvider  = errors.New("unsupported payment provider")
	ErrIgnoredEvent         = errors.New("webhook event ignored")
	ErrInvalidEvent         = errors.New("invalid webhook event")
)

// OrderRequest describes a tip order. Amounts are in the currency's minor unit.
type OrderRequest struct {
	Receipt       string
	AmountMinor   int64
	Currency      string
	BookingID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Order is what the checkout page needs to collect the payment.
type Order struct {
	Provider         string `json:"provider"`
	OrderID          string `json:"order_id"`
	AmountMinor      int64  `json:"amount"`
	Currency         string `json:"currency"`
	KeyID            string `json:"key_id,omitempty"`
	PaymentSessionID string `json:"payment_session_id,omitempty"`
}

// TipEvent is a captured tip payment reported by a webhook.
type TipEvent struct {
	BookingID string
	PaymentID string
	Amount    float64 // major units
	Currency  string
}

// PaymentGateway is the tip checkout provider.
type PaymentGateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifyWebhook(header http.Header, body []byte) bool
	// ParseTipEvent returns ErrIgnoredEvent for events that do not record a captured tip.
	ParseTipEvent(body []byte) (*TipEvent, error)
}

// NewPaymentGateway builds the configured provider. It returns ErrGatewayNotConfigured
// when credentials are missing.
func NewPaymentGateway(cfg config.PaymentConfig) (PaymentGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, ErrGatewayNotConfigured
	}

	switch cfg.Provider {
	case "razorpay":
		return NewRazorpayClient(cfg.KeyID, cfg.KeySecret, cfg.WebhookSecret), nil
	case "cashfree":
		return NewCashfreeClient(cfg.KeyID, cfg.KeySecret, cfg.Environment), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
}

func minorToMajor(amount int64) float64 {
	return float64(amount) / 100
}
