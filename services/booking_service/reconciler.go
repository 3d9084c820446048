package booking_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/booking_models"
)

// SideEffects receives every successful update.
type SideEffects interface {
	Dispatch(bookingID string, raw map[string]any)
}

// UpdateReconciler applies loosely named partial updates to a single booking.
type UpdateReconciler struct {
	store   BookingWriter
	effects SideEffects
}

func NewUpdateReconciler(store BookingWriter, effects SideEffects) *UpdateReconciler {
	return &UpdateReconciler{store: store, effects: effects}
}

// Apply normalizes raw and writes it to the booking identifier refers to, trying the
// external id before the numeric id. It returns the stored record after the write.
func (u *UpdateReconciler) Apply(ctx context.Context, identifier string, raw map[string]any) (*booking_models.Booking, error) {
	fields, err := NormalizeFields(raw)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	var updated *booking_models.Booking
	for _, lookup := range Candidates(identifier) {
		b, err := u.store.UpdateFields(ctx, lookup, fields)
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			logger.DebugLogger.Debugf("No booking matched %s", lookup)
			continue
		}
		if err != nil {
			return nil, translateStoreError(err)
		}
		updated = b
		break
	}
	if updated == nil {
		return nil, ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s updated (%d fields)", updated.BookingID, len(fields))

	if u.effects != nil {
		u.effects.Dispatch(updated.BookingID, raw)
	}
	return updated, nil
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, booking_models.ErrUnknownColumn):
		return fmt.Errorf("%w: %w", ErrUnknownField, err)
	case errors.Is(err, booking_models.ErrInvalidValue):
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	case errors.Is(err, ErrValidation):
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
