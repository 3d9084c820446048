package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

const razorpaySignatureHeader = "X-Razorpay-Signature"

// RazorpayClient takes tips through Razorpay orders.
type RazorpayClient struct {
	Client        *razorpay.Client
	keyID         string
	webhookSecret string
}

func NewRazorpayClient(keyID, keySecret, webhookSecret string) *RazorpayClient {
	return &RazorpayClient{
		Client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayClient) Name() string { return "razorpay" }

// CreateOrder creates a Razorpay order. The SDK call takes no context, so ctx is only
// checked before the request goes out.
func (r *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes": map[string]interface{}{
			"booking_id": req.BookingID,
			"purpose":    "tip",
		},
	}

	body, err := r.Client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order create: response has no id: %v", body)
	}
	return &Order{
		Provider:    r.Name(),
		OrderID:     orderID,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		KeyID:       r.keyID,
	}, nil
}

func (r *RazorpayClient) VerifyWebhook(header http.Header, body []byte) bool {
	signature := header.Get(razorpaySignatureHeader)
	if signature == "" || r.webhookSecret == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, r.webhookSecret)
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID       string            `json:"id"`
				Amount   int64             `json:"amount"`
				Currency string            `json:"currency"`
				Status   string            `json:"status"`
				Notes    map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (r *RazorpayClient) ParseTipEvent(body []byte) (*TipEvent, error) {
	var hook razorpayWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if hook.Event != "payment.captured" && hook.Event != "order.paid" {
		return nil, fmt.Errorf("%w: %s", ErrIgnoredEvent, hook.Event)
	}

	payment := hook.Payload.Payment.Entity
	bookingID := payment.Notes["booking_id"]
	if bookingID == "" || payment.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment %s has no booking id or amount", ErrInvalidEvent, payment.ID)
	}

	return &TipEvent{
		BookingID: bookingID,
		PaymentID: payment.ID,
		Amount:    minorToMajor(payment.Amount),
		Currency:  payment.Currency,
	}, nil
}
