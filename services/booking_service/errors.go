package booking_service

import (
	"errors"
	"fmt"

	"github.com/joy095/bayelite/models/booking_models"
)

var (
	// ErrValidation marks every failure caused by the request payload.
	ErrValidation      = errors.New("validation error")
	ErrNoFields        = fmt.Errorf("%w: no fields to update", ErrValidation)
	ErrAmbiguousField  = fmt.Errorf("%w: ambiguous field", ErrValidation)
	ErrUnknownField    = fmt.Errorf("%w: unknown field", ErrValidation)
	ErrInvalidValue    = fmt.Errorf("%w: invalid field value", ErrValidation)
	ErrBookingNotFound = booking_models.ErrBookingNotFound
	ErrPersistence     = errors.New("persistence error")
	// ErrNotification is only ever logged.
	ErrNotification = errors.New("notification error")
)
