package booking_service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/utils/mail"
)

const (
	defaultQueueSize  = 64
	notificationGrace = 30 * time.Second
)

// StatusNotifier delivers the messages triggered by status transitions.
type StatusNotifier interface {
	SendRefundNotice(ctx context.Context, notice mail.RefundNotice) error
	SendRatingRequest(ctx context.Context, req mail.RatingRequest) error
}

// Resolver looks a booking up by either of its identifiers.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*booking_models.Booking, error)
}

type dispatchJob struct {
	bookingID string
	raw       map[string]any
}

// Dispatcher runs the notifications triggered by an update on a background worker. The
// caller never waits for them and never sees their errors; failures go to an error
// channel that is drained into the log.
type Dispatcher struct {
	notifier StatusNotifier
	resolver Resolver
	timeout  time.Duration

	jobs chan dispatchJob
	errs chan error

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(notifier StatusNotifier, resolver Resolver, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		notifier: notifier,
		resolver: resolver,
		timeout:  notificationGrace,
		jobs:     make(chan dispatchJob, queueSize),
		errs:     make(chan error, queueSize),
	}

	d.wg.Add(2)
	go d.work()
	go d.logErrors()
	return d
}

// Dispatch queues the side effects for an update of bookingID. It never blocks: when
// the queue is full the job is dropped and logged.
func (d *Dispatcher) Dispatch(bookingID string, raw map[string]any) {
	status, _ := lookupString(raw, "status")
	if status != booking_models.StatusRefundRequested && status != booking_models.StatusCompleted {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.WarnLogger.Warnf("Dispatcher closed, dropping %s notification for booking %s", status, bookingID)
		return
	}

	select {
	case d.jobs <- dispatchJob{bookingID: bookingID, raw: copyFields(raw)}:
	default:
		logger.WarnLogger.Warnf("Notification queue full, dropping %s notification for booking %s", status, bookingID)
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	defer close(d.errs)

	for job := range d.jobs {
		if err := d.run(job); err != nil {
			d.errs <- err
		}
	}
}

func (d *Dispatcher) logErrors() {
	defer d.wg.Done()
	for err := range d.errs {
		logger.ErrorLogger.Errorf("Booking notification failed: %v", err)
	}
}

func (d *Dispatcher) run(job dispatchJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic for booking %s: %v", ErrNotification, job.bookingID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.handle(ctx, job.bookingID, job.raw)
}

// handle performs the side effect for one update synchronously.
func (d *Dispatcher) handle(ctx context.Context, bookingID string, raw map[string]any) error {
	status, _ := lookupString(raw, "status")

	switch status {
	case booking_models.StatusRefundRequested:
		first, _ := lookupString(raw, "first_name")
		last, _ := lookupString(raw, "last_name")
		notice := mail.RefundNotice{BookingID: bookingID, FirstName: first, LastName: last}
		if err := d.notifier.SendRefundNotice(ctx, notice); err != nil {
			return fmt.Errorf("%w: refund notice for booking %s: %w", ErrNotification, bookingID, err)
		}
		logger.InfoLogger.Infof("Refund notice sent for booking %s", bookingID)

	case booking_models.StatusCompleted:
		req := mail.RatingRequest{BookingID: bookingID}
		req.Email, _ = lookupString(raw, "email")
		req.FirstName, _ = lookupString(raw, "first_name")

		if req.Email == "" {
			b, err := d.resolver.Resolve(ctx, bookingID)
			if err != nil && !errors.Is(err, ErrBookingNotFound) {
				return fmt.Errorf("%w: re-read booking %s: %w", ErrNotification, bookingID, err)
			}
			if b != nil {
				req.Email = b.Email
				if req.FirstName == "" {
					req.FirstName = b.FirstName
				}
			}
		}
		if req.Email == "" {
			logger.InfoLogger.Infof("No email on booking %s, skipping rating request", bookingID)
			return nil
		}

		if err := d.notifier.SendRatingRequest(ctx, req); err != nil {
			return fmt.Errorf("%w: rating request for booking %s: %w", ErrNotification, bookingID, err)
		}
		logger.InfoLogger.Infof("Rating request sent for booking %s", bookingID)
	}
	return nil
}

func copyFields(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	return out
}
