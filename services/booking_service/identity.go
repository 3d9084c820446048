package booking_service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joy095/bayelite/models/booking_models"
)

// BookingReader is the read side of the booking store.
type BookingReader interface {
	FindOne(ctx context.Context, lookup booking_models.Lookup) (*booking_models.Booking, error)
}

// BookingWriter is the write side used by the reconciler.
type BookingWriter interface {
	UpdateFields(ctx context.Context, lookup booking_models.Lookup, fields []booking_models.Field) (*booking_models.Booking, error)
}

// Candidates lists the lookups tried for identifier, in order: the external booking id
// first, then the internal numeric id when identifier is a base-10 integer that fits the
// int4 id column.
func Candidates(identifier string) []booking_models.Lookup {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}

	lookups := []booking_models.Lookup{{Key: booking_models.ByBookingID, Value: identifier}}
	if id, err := strconv.ParseInt(identifier, 10, 32); err == nil {
		lookups = append(lookups, booking_models.Lookup{Key: booking_models.ByID, Value: id})
	}
	return lookups
}

// IdentityResolver finds a booking by its external or internal identifier.
type IdentityResolver struct {
	store BookingReader
}

// NewIdentityResolver returns a resolver reading from store.
func NewIdentityResolver(store BookingReader) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// Resolve returns the booking identifier refers to under the first candidate that
// matches, or ErrBookingNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, identifier string) (*booking_models.Booking, error) {
	for _, lookup := range Candidates(identifier) {
		b, err := r.store.FindOne(ctx, lookup)
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return b, nil
	}
	return nil, ErrBookingNotFound
}
