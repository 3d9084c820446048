package booking_service

import (
	"context"
	"sync"

	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/utils/mail"
	"github.com/stretchr/testify/mock"
)

// memoryStore keeps bookings in memory and records every write attempt.
type memoryStore struct {
	mu       sync.Mutex
	bookings []*booking_models.Booking
	attempts []booking_models.Lookup
	writes   [][]booking_models.Field
	err      error
}

func newMemoryStore(bookings ...*booking_models.Booking) *memoryStore {
	return &memoryStore{bookings: bookings}
}

func (s *memoryStore) find(lookup booking_models.Lookup) *booking_models.Booking {
	for _, b := range s.bookings {
		switch lookup.Key {
		case booking_models.ByBookingID:
			if b.BookingID == lookup.Value {
				return b
			}
		case booking_models.ByID:
			if id, ok := lookup.Value.(int64); ok && b.ID == id {
				return b
			}
		}
	}
	return nil
}

func (s *memoryStore) FindOne(_ context.Context, lookup booking_models.Lookup) (*booking_models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	b := s.find(lookup)
	if b == nil {
		return nil, booking_models.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memoryStore) UpdateFields(_ context.Context, lookup booking_models.Lookup, fields []booking_models.Field) (*booking_models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, lookup)
	if s.err != nil {
		return nil, s.err
	}
	b := s.find(lookup)
	if b == nil {
		return nil, booking_models.ErrBookingNotFound
	}

	s.writes = append(s.writes, fields)
	for _, f := range fields {
		v, _ := f.Value.(string)
		switch f.Column {
		case "status":
			b.Status = v
		case "email":
			b.Email = v
		case "first_name":
			b.FirstName = v
		case "last_name":
			b.LastName = v
		case "pickup_address":
			b.PickupAddress = v
		}
	}
	cp := *b
	return &cp, nil
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRefundNotice(ctx context.Context, notice mail.RefundNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNotifier) SendRatingRequest(ctx context.Context, req mail.RatingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type recordedDispatch struct {
	bookingID string
	raw       map[string]any
}

type recordingEffects struct {
	calls []recordedDispatch
}

func (r *recordingEffects) Dispatch(bookingID string, raw map[string]any) {
	r.calls = append(r.calls, recordedDispatch{bookingID: bookingID, raw: raw})
}

func sampleBooking() *booking_models.Booking {
	return &booking_models.Booking{
		ID:            7,
		BookingID:     "B-1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		PickupDate:    "2026-02-01",
		PickupTime:    "10:00:00",
		PickupAddress: "1 Main St",
		Status:        booking_models.StatusConfirmed,
	}
}
