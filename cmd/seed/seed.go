package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/joy095/bayelite/logger"
)

// seedBooking is the camelCase create payload the booking API accepts.
type seedBooking struct {
	BookingID     string  `json:"bookingId"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	ServiceType   string  `json:"serviceType"`
	VehicleType   string  `json:"vehicleType"`
	PickupDate    string  `json:"pickupDate"`
	PickupTime    string  `json:"pickupTime"`
	PickupAddress string  `json:"pickupAddress"`
	Destination   string  `json:"destination"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentMethod string  `json:"paymentMethod"`
	Passengers    int     `json:"passengers"`
}

// sampleBookings returns one ride inside the 48 hour edit cutoff and one outside it.
func sampleBookings(now time.Time) []seedBooking {
	stamp := now.UnixMilli()
	return []seedBooking{
		{
			BookingID:     fmt.Sprintf("test-blocked-%d", stamp),
			FirstName:     "Blocked",
			LastName:      "User",
			Email:         "blocked@test.com",
			Phone:         "555-0101",
			ServiceType:   "transfer",
			VehicleType:   "sedan",
			PickupDate:    now.AddDate(0, 0, 1).Format("2006-01-02"),
			PickupTime:    "12:00",
			PickupAddress: "100 Short Notice St",
			Destination:   "Blocked Destination",
			TotalAmount:   100,
			PaymentMethod: "credit",
			Passengers:    2,
		},
		{
			BookingID:     fmt.Sprintf("test-allowed-%d", stamp),
			FirstName:     "Allowed",
			LastName:      "User",
			Email:         "allowed@test.com",
			Phone:         "555-0102",
			ServiceType:   "transfer",
			VehicleType:   "suv",
			PickupDate:    now.AddDate(0, 0, 5).Format("2006-01-02"),
			PickupTime:    "12:00",
			PickupAddress: "500 Future Way",
			Destination:   "Allowed Destination",
			TotalAmount:   200,
			PaymentMethod: "credit",
			Passengers:    4,
		},
	}
}

type seeder struct {
	baseURL string
	client  *http.Client
}

// create posts each booking and returns the ids that were accepted.
func (s *seeder) create(ctx context.Context, bookings []seedBooking) ([]string, error) {
	var created []string
	for _, b := range bookings {
		body, err := json.Marshal(b)
		if err != nil {
			return created, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/bookings", bytes.NewReader(body))
		if err != nil {
			return created, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", b.BookingID, err)
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			logger.ErrorLogger.Errorf("FAILED: %s (status %d): %s", b.BookingID, resp.StatusCode, msg)
			continue
		}
		logger.InfoLogger.Infof("Created booking %s", b.BookingID)
		created = append(created, b.BookingID)
	}
	return created, nil
}

type listedBooking struct {
	ID        int64  `json:"id"`
	BookingID string `json:"booking_id"`
}

// probe lists every booking and fetches the first one by both of its ids. It returns
// the status codes for the external and the numeric lookup.
func (s *seeder) probe(ctx context.Context) (int, int, error) {
	var list struct {
		Bookings []listedBooking `json:"bookings"`
	}
	if _, err := s.getJSON(ctx, "/api/bookings", &list); err != nil {
		return 0, 0, err
	}

	for _, b := range list.Bookings {
		logger.InfoLogger.Infof("Numeric ID: %d, String ID (booking_id): %s", b.ID, b.BookingID)
	}
	if len(list.Bookings) == 0 {
		return 0, 0, nil
	}

	sample := list.Bookings[0]
	byExternal, err := s.getJSON(ctx, "/api/bookings/"+url.PathEscape(sample.BookingID), nil)
	if err != nil {
		return 0, 0, err
	}
	byNumeric, err := s.getJSON(ctx, fmt.Sprintf("/api/bookings/%d", sample.ID), nil)
	if err != nil {
		return byExternal, 0, err
	}

	logger.InfoLogger.Infof("Fetch %q: status %d", sample.BookingID, byExternal)
	logger.InfoLogger.Infof("Fetch %q: status %d", fmt.Sprint(sample.ID), byNumeric)
	return byExternal, byNumeric, nil
}

func (s *seeder) getJSON(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}
