package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/badwords"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/services/booking_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) List(ctx context.Context) ([]booking_models.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]booking_models.Booking)
	return bookings, args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, nb booking_models.NewBooking) (*booking_models.Booking, error) {
	args := m.Called(ctx, nb)
	b, _ := args.Get(0).(*booking_models.Booking)
	return b, args.Error(1)
}

type MockResolver struct{ mock.Mock }

func (m *MockResolver) Resolve(ctx context.Context, identifier string) (*booking_models.Booking, error) {
	args := m.Called(ctx, identifier)
	b, _ := args.Get(0).(*booking_models.Booking)
	return b, args.Error(1)
}

type MockUpdater struct{ mock.Mock }

func (m *MockUpdater) Apply(ctx context.Context, identifier string, raw map[string]any) (*booking_models.Booking, error) {
	args := m.Called(ctx, identifier, raw)
	b, _ := args.Get(0).(*booking_models.Booking)
	return b, args.Error(1)
}

type harness struct {
	router   *gin.Engine
	store    *MockStore
	resolver *MockResolver
	updater  *MockUpdater
}

func newHarness() *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{store: new(MockStore), resolver: new(MockResolver), updater: new(MockUpdater)}
	bc := NewBookingController(h.store, h.resolver, h.updater)

	r := gin.New()
	r.GET("/api/bookings", bc.GetAllBookings)
	r.POST("/api/bookings", bc.CreateBooking)
	r.GET("/api/bookings/:id", bc.GetBooking)
	r.PUT("/api/bookings/:id", bc.UpdateBooking)
	r.POST("/api/bookings/:id/rating", bc.SubmitRating)
	r.GET("/api/bookings/:id/receipt", bc.DownloadReceipt)
	h.router = r
	return h
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		_ = json.NewEncoder(&buf).Encode(v)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sampleBooking() *booking_models.Booking {
	return &booking_models.Booking{
		ID:            7,
		BookingID:     "B-1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Phone:         "555-0100",
		ServiceType:   "airport",
		VehicleType:   "sedan",
		PickupDate:    "2026-11-02",
		PickupTime:    "09:30:00",
		PickupAddress: "1 Main St",
		TotalAmount:   120.5,
		PaymentMethod: "card",
		Status:        booking_models.StatusConfirmed,
	}
}

func validCreatePayload() map[string]any {
	return map[string]any{
		"bookingId":     "B-100",
		"firstName":     "Ada",
		"lastName":      "Lovelace",
		"email":         "ada@example.com",
		"phone":         "555-0100",
		"serviceType":   "airport",
		"vehicleType":   "sedan",
		"pickupDate":    "2026-11-02",
		"pickupTime":    "09:30",
		"pickupAddress": "1 Main St",
		"totalAmount":   120.5,
		"paymentMethod": "card",
	}
}

func TestGetAllBookings(t *testing.T) {
	h := newHarness()
	h.store.On("List", mock.Anything).Return([]booking_models.Booking{*sampleBooking()}, nil)

	w := h.do(http.MethodGet, "/api/bookings", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	bookings, ok := body["bookings"].([]any)
	require.True(t, ok)
	assert.Len(t, bookings, 1)
}

func TestGetAllBookings_StoreError(t *testing.T) {
	h := newHarness()
	h.store.On("List", mock.Anything).Return(nil, errors.New("connection reset"))

	w := h.do(http.MethodGet, "/api/bookings", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestCreateBooking_AppliesDefaults(t *testing.T) {
	h := newHarness()
	var got booking_models.NewBooking
	h.store.On("Create", mock.Anything, mock.AnythingOfType("booking_models.NewBooking")).
		Run(func(args mock.Arguments) { got = args.Get(1).(booking_models.NewBooking) }).
		Return(sampleBooking(), nil)

	w := h.do(http.MethodPost, "/api/bookings", validCreatePayload())

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Booking created successfully", body["message"])

	assert.Equal(t, 1, got.Passengers)
	assert.Equal(t, "pending", got.PaymentStatus)
	assert.JSONEq(t, "[]", string(got.StopPoints))
	assert.Len(t, got.OTP, 6)
}

func TestCreateBooking_KeepsSuppliedValues(t *testing.T) {
	h := newHarness()
	var got booking_models.NewBooking
	h.store.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(booking_models.NewBooking) }).
		Return(sampleBooking(), nil)

	payload := validCreatePayload()
	payload["passengers"] = 3
	payload["paymentStatus"] = "paid"
	payload["stopPoints"] = []string{"2 Elm St"}
	payload["otp"] = "4321"

	w := h.do(http.MethodPost, "/api/bookings", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, got.Passengers)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.JSONEq(t, `["2 Elm St"]`, string(got.StopPoints))
	assert.Equal(t, "4321", got.OTP)
}

func TestCreateBooking_MissingField(t *testing.T) {
	h := newHarness()
	payload := validCreatePayload()
	delete(payload, "email")

	w := h.do(http.MethodPost, "/api/bookings", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	h.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_StoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", booking_models.ErrDuplicateBookingID, http.StatusConflict},
		{"invalid value", fmt.Errorf("%w: pickup_time", booking_models.ErrInvalidValue), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.store.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := h.do(http.MethodPost, "/api/bookings", validCreatePayload())

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, false, decode(t, w)["success"])
		})
	}
}

func TestGetBooking(t *testing.T) {
	h := newHarness()
	h.resolver.On("Resolve", mock.Anything, "7").Return(sampleBooking(), nil)
	h.resolver.On("Resolve", mock.Anything, "nope").Return(nil, booking_service.ErrBookingNotFound)

	w := h.do(http.MethodGet, "/api/bookings/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	booking := decode(t, w)["booking"].(map[string]any)
	assert.Equal(t, "B-1", booking["booking_id"])

	w = h.do(http.MethodGet, "/api/bookings/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBooking_PassesRawPayload(t *testing.T) {
	h := newHarness()
	updated := sampleBooking()
	updated.Status = booking_models.StatusCompleted
	h.updater.On("Apply", mock.Anything, "B-1", map[string]any{"status": "completed", "driverId": "D1"}).
		Return(updated, nil)

	w := h.do(http.MethodPut, "/api/bookings/B-1", map[string]any{"status": "completed", "driverId": "D1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode(t, w)["booking"].(map[string]any)["status"])
	h.updater.AssertExpectations(t)
}

func TestUpdateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no fields", booking_service.ErrNoFields, http.StatusBadRequest},
		{"ambiguous", fmt.Errorf("%w: \"pickupTime\" and \"pickup_time\"", booking_service.ErrAmbiguousField), http.StatusBadRequest},
		{"unknown field", booking_service.ErrUnknownField, http.StatusBadRequest},
		{"not found", booking_service.ErrBookingNotFound, http.StatusNotFound},
		{"persistence", fmt.Errorf("%w: timeout", booking_service.ErrPersistence), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.updater.On("Apply", mock.Anything, "B-1", mock.Anything).Return(nil, tt.err)

			w := h.do(http.MethodPut, "/api/bookings/B-1", map[string]any{"status": "x"})

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateBooking_NotAnObject(t *testing.T) {
	h := newHarness()

	w := h.do(http.MethodPut, "/api/bookings/B-1", `["status"]`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	h.updater.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRating_MasksFeedback(t *testing.T) {
	badwords.LoadDefaultBadWords()
	h := newHarness()
	rated := sampleBooking()
	h.updater.On("Apply", mock.Anything, "B-1", map[string]any{"rating": 5, "feedback": "**** good driver"}).
		Return(rated, nil)

	w := h.do(http.MethodPost, "/api/bookings/B-1/rating", map[string]any{"rating": 5, "feedback": "damn good driver"})

	require.Equal(t, http.StatusOK, w.Code)
	h.updater.AssertExpectations(t)
}

func TestSubmitRating_OutOfRange(t *testing.T) {
	for _, rating := range []int{0, 6} {
		h := newHarness()
		w := h.do(http.MethodPost, "/api/bookings/B-1/rating", map[string]any{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
	}
}

func TestDownloadReceipt(t *testing.T) {
	h := newHarness()
	h.resolver.On("Resolve", mock.Anything, "B-1").Return(sampleBooking(), nil)

	w := h.do(http.MethodGet, "/api/bookings/B-1/receipt", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RECEIPT_B-1.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDownloadReceipt_NotFound(t *testing.T) {
	h := newHarness()
	h.resolver.On("Resolve", mock.Anything, "B-9").Return(nil, booking_service.ErrBookingNotFound)

	w := h.do(http.MethodGet, "/api/bookings/B-9/receipt", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
