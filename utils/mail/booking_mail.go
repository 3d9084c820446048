package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joy095/bayelite/logger"
)

type RefundNotice struct {
	BookingID string
	FirstName string
	LastName  string
}

type RatingRequest struct {
	BookingID string
	Email     string
	FirstName string
}

type PickupReminder struct {
	BookingID     string
	Email         string
	FirstName     string
	PickupAt      time.Time
	PickupAddress string
}

// Alerter posts short plain-text messages to an operator channel.
type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// BookingMailer composes the booking notifications and hands them to a Sender.
type BookingMailer struct {
	sender      Sender
	alerter     Alerter
	adminEmail  string
	frontendURL string
	now         func() time.Time
}

func NewBookingMailer(sender Sender, alerter Alerter, adminEmail, frontendURL string) *BookingMailer {
	return &BookingMailer{
		sender:      sender,
		alerter:     alerter,
		adminEmail:  adminEmail,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// RatingURL is the page where a rider rates and tips a finished ride.
func (m *BookingMailer) RatingURL(bookingID string) string {
	return fmt.Sprintf("%s/rate-ride/%s", m.frontendURL, bookingID)
}

// SendRefundNotice emails the operator address and mirrors the notice to the operator
// chat when one is configured.
func (m *BookingMailer) SendRefundNotice(ctx context.Context, n RefundNotice) error {
	logger.InfoLogger.Infof("Sending refund notice for booking %s", n.BookingID)

	var errs []error
	if m.alerter != nil {
		text := fmt.Sprintf("Refund requested for booking %s by %s %s", n.BookingID, n.FirstName, n.LastName)
		if err := m.alerter.Alert(ctx, text); err != nil {
			errs = append(errs, fmt.Errorf("operator alert: %w", err))
		}
	}

	if m.adminEmail == "" {
		errs = append(errs, fmt.Errorf("refund notice: ADMIN_EMAIL: %w", ErrNoRecipient))
		return errors.Join(errs...)
	}

	body, err := render(refundNoticeTemplate, struct {
		RefundNotice
		Year int
	}{n, m.now().Year()})
	if err != nil {
		return errors.Join(append(errs, err)...)
	}

	err = m.sender.Send(ctx, Message{
		To:      m.adminEmail,
		Subject: fmt.Sprintf("Refund Requested - Booking %s", n.BookingID),
		HTML:    body,
	})
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *BookingMailer) SendRatingRequest(ctx context.Context, r RatingRequest) error {
	if r.Email == "" {
		return ErrNoRecipient
	}
	logger.InfoLogger.Infof("Sending rating request for booking %s to %s", r.BookingID, r.Email)

	body, err := render(ratingRequestTemplate, struct {
		RatingRequest
		RatingURL string
		Year      int
	}{r, m.RatingURL(r.BookingID), m.now().Year()})
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      r.Email,
		Subject: fmt.Sprintf("Rate your ride - Booking %s", r.BookingID),
		HTML:    body,
	})
}

func (m *BookingMailer) SendPickupReminder(ctx context.Context, r PickupReminder) error {
	if r.Email == "" {
		return ErrNoRecipient
	}
	logger.InfoLogger.Infof("Sending pickup reminder for booking %s to %s", r.BookingID, r.Email)

	body, err := render(pickupReminderTemplate, struct {
		BookingID     string
		FirstName     string
		PickupAt      string
		PickupAddress string
		Year          int
	}{
		BookingID:     r.BookingID,
		FirstName:     r.FirstName,
		PickupAt:      r.PickupAt.Format("Mon, Jan 2 at 3:04 PM"),
		PickupAddress: r.PickupAddress,
		Year:          m.now().Year(),
	})
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      r.Email,
		Subject: "Your Bay Elite pickup is coming up",
		HTML:    body,
	})
}
