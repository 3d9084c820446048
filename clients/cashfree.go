package clients

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const cashfreeAPIVersion = "2023-08-01"

// CashfreeClient takes tips through the Cashfree PG orders API.
type CashfreeClient struct {
	AppID       string
	SecretKey   string
	Environment string // "sandbox" or "production"
	BaseURL     string
	HTTPClient  *http.Client
}

// CashfreeOrderRequest represents the order creation request
type CashfreeOrderRequest struct {
	OrderID         string                 `json:"order_id"`
	OrderAmount     float64                `json:"order_amount"`
	OrderCurrency   string                 `json:"order_currency"`
	CustomerDetails map[string]interface{} `json:"customer_details"`
	OrderNote       string                 `json:"order_note,omitempty"`
	OrderTags       map[string]string      `json:"order_tags,omitempty"`
}

// CashfreeOrderResponse represents the order creation response
type CashfreeOrderResponse struct {
	CFOrderID        string  `json:"cf_order_id"`
	OrderID          string  `json:"order_id"`
	OrderStatus      string  `json:"order_status"`
	PaymentSessionID string  `json:"payment_session_id"`
	OrderAmount      float64 `json:"order_amount"`
	OrderCurrency    string  `json:"order_currency"`
	Message          string  `json:"message"`
}

func NewCashfreeClient(appID, secretKey, environment string) *CashfreeClient {
	baseURL := "https://sandbox.cashfree.com/pg"
	if environment == "production" {
		baseURL = "https://api.cashfree.com/pg"
	}

	return &CashfreeClient{
		AppID:       appID,
		SecretKey:   secretKey,
		Environment: environment,
		BaseURL:     baseURL,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *CashfreeClient) Name() string { return "cashfree" }

func (c *CashfreeClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	customerID := req.BookingID
	if customerID == "" {
		customerID = req.Receipt
	}
	orderReq := CashfreeOrderRequest{
		OrderID:       req.Receipt,
		OrderAmount:   minorToMajor(req.AmountMinor),
		OrderCurrency: req.Currency,
		CustomerDetails: map[string]interface{}{
			"customer_id":    customerID,
			"customer_name":  req.CustomerName,
			"customer_email": req.CustomerEmail,
			"customer_phone": req.CustomerPhone,
		},
		OrderNote: "Tip for booking " + req.BookingID,
		OrderTags: map[string]string{"booking_id": req.BookingID, "purpose": "tip"},
	}

	jsonData, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-version", cashfreeAPIVersion)
	httpReq.Header.Set("x-client-id", c.AppID)
	httpReq.Header.Set("x-client-secret", c.SecretKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var result CashfreeOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cashfree API error: %d - %s", resp.StatusCode, result.Message)
	}

	return &Order{
		Provider:         c.Name(),
		OrderID:          result.OrderID,
		AmountMinor:      req.AmountMinor,
		Currency:         result.OrderCurrency,
		PaymentSessionID: result.PaymentSessionID,
	}, nil
}

// VerifyWebhook checks x-webhook-signature, the base64 HMAC-SHA256 of the timestamp
// header followed by the raw body, keyed with the client secret.
func (c *CashfreeClient) VerifyWebhook(header http.Header, body []byte) bool {
	signature := header.Get("x-webhook-signature")
	timestamp := header.Get("x-webhook-timestamp")
	if signature == "" || timestamp == "" || len(body) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

type cashfreeWebhook struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID   string            `json:"order_id"`
			OrderTags map[string]string `json:"order_tags"`
		} `json:"order"`
		Payment struct {
			CFPaymentID   json.Number `json:"cf_payment_id"`
			PaymentStatus string      `json:"payment_status"`
			PaymentAmount float64     `json:"payment_amount"`
			PaymentCurr   string      `json:"payment_currency"`
		} `json:"payment"`
	} `json:"data"`
}

func (c *CashfreeClient) ParseTipEvent(body []byte) (*TipEvent, error) {
	var hook cashfreeWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if hook.Type != "PAYMENT_SUCCESS_WEBHOOK" || hook.Data.Payment.PaymentStatus != "SUCCESS" {
		return nil, fmt.Errorf("%w: %s", ErrIgnoredEvent, hook.Type)
	}

	bookingID := hook.Data.Order.OrderTags["booking_id"]
	if bookingID == "" || hook.Data.Payment.PaymentAmount <= 0 {
		return nil, fmt.Errorf("%w: order %s has no booking id or amount", ErrInvalidEvent, hook.Data.Order.OrderID)
	}

	return &TipEvent{
		BookingID: bookingID,
		PaymentID: hook.Data.Payment.CFPaymentID.String(),
		Amount:    math.Round(hook.Data.Payment.PaymentAmount*100) / 100,
		Currency:  hook.Data.Payment.PaymentCurr,
	}, nil
}
