package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/joy095/bayelite/config"
	"github.com/joy095/bayelite/logger"
	"github.com/joy095/bayelite/models/booking_models"
	"github.com/joy095/bayelite/utils/mail"
)

type reminderStore interface {
	ListPendingReminders(ctx context.Context) ([]booking_models.Booking, error)
	MarkNotificationSent(ctx context.Context, id int64) (bool, error)
}

type reminderSender interface {
	SendPickupReminder(ctx context.Context, r mail.PickupReminder) error
}

// ReminderScheduler sends one pre-ride reminder per confirmed booking when its pickup
// falls inside the configured window.
type ReminderScheduler struct {
	store  reminderStore
	sender reminderSender
	dedupe Deduper
	cfg    config.SchedulerConfig
	now    func() time.Time
}

func New(store reminderStore, sender reminderSender, dedupe Deduper, cfg config.SchedulerConfig) *ReminderScheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if dedupe == nil {
		dedupe = NewMemoryDeduper()
	}
	return &ReminderScheduler{
		store:  store,
		sender: sender,
		dedupe: dedupe,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Start runs a pass every interval until ctx is cancelled. Passes run inline, so a slow
// pass delays the next one instead of overlapping it.
func (s *ReminderScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	logger.InfoLogger.Infof("Reminder scheduler started (interval %s, window %s-%s, zone %s)",
		s.cfg.Interval, s.cfg.WindowStart, s.cfg.WindowEnd, s.cfg.Location)

	for {
		select {
		case <-ctx.Done():
			logger.InfoLogger.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ReminderScheduler) claimTTL() time.Duration {
	return s.cfg.WindowEnd - s.cfg.WindowStart + s.cfg.Interval
}

func (s *ReminderScheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLogger.Errorf("Reminder pass panicked: %v\n%s", r, debug.Stack())
		}
	}()

	bookings, err := s.store.ListPendingReminders(ctx)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch pending reminders: %v", err)
		return
	}

	now := s.now().In(s.cfg.Location)
	sent := 0
	for _, b := range bookings {
		if ctx.Err() != nil {
			return
		}
		ok, err := s.remind(ctx, b, now)
		if err != nil {
			logger.ErrorLogger.Errorf("Reminder for booking %s failed: %v", b.BookingID, err)
			continue
		}
		if ok {
			sent++
		}
	}

	if sent > 0 {
		logger.InfoLogger.Infof("Sent %d pickup reminders (%d pending)", sent, len(bookings))
	}
}

// remind sends the reminder for b if it is due. It reports whether a reminder went out.
func (s *ReminderScheduler) remind(ctx context.Context, b booking_models.Booking, now time.Time) (bool, error) {
	pickup, err := PickupInstant(b.PickupDate, b.PickupTime, s.cfg.Location)
	if err != nil {
		return false, err
	}
	if !InWindow(pickup, now, s.cfg.WindowStart, s.cfg.WindowEnd) {
		return false, nil
	}

	key := fmt.Sprintf("reminder:%d", b.ID)
	claimed, err := s.dedupe.Claim(ctx, key, s.claimTTL())
	if err != nil {
		return false, err
	}
	if !claimed {
		logger.DebugLogger.Debugf("Reminder for booking %s already claimed", b.BookingID)
		return false, nil
	}

	err = s.sender.SendPickupReminder(ctx, mail.PickupReminder{
		BookingID:     b.BookingID,
		Email:         b.Email,
		FirstName:     b.FirstName,
		PickupAt:      pickup,
		PickupAddress: b.PickupAddress,
	})
	if err != nil {
		if relErr := s.dedupe.Release(ctx, key); relErr != nil {
			logger.WarnLogger.Warnf("Could not release %s: %v", key, relErr)
		}
		return false, fmt.Errorf("send: %w", err)
	}

	// The claim stays in place if this write fails, which keeps later passes from
	// resending while the booking is still inside the window.
	marked, err := s.store.MarkNotificationSent(ctx, b.ID)
	if err != nil {
		return true, fmt.Errorf("reminder sent but flag not saved: %w", err)
	}
	if !marked {
		logger.WarnLogger.Warnf("Booking %s was already marked notified", b.BookingID)
	}

	logger.InfoLogger.Infof("Pickup reminder sent for booking %s (pickup %s)", b.BookingID, pickup.Format(time.RFC3339))
	return true, nil
}
