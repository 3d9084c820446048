package booking_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joy095/bayelite/logger"
)

const (
	StatusConfirmed       = "confirmed"
	StatusCompleted       = "completed"
	StatusRefundRequested = "refund_requested"
	StatusCancelled       = "cancelled"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDuplicateBookingID = errors.New("booking id already exists")
	ErrUnknownColumn      = errors.New("unknown booking column")
	ErrInvalidValue       = errors.New("invalid value for booking column")
)

// Booking is one ride reservation. Pickup date and time are kept as the wall-clock text
// Postgres stores, never as a time.Time, so no timezone conversion can move the day.
type Booking struct {
	ID                 int64           `json:"id"`
	BookingID          string          `json:"booking_id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	ServiceType        string          `json:"service_type"`
	VehicleType        string          `json:"vehicle_type"`
	PickupDate         string          `json:"pickup_date"` // YYYY-MM-DD
	PickupTime         string          `json:"pickup_time"` // HH:MM:SS
	PickupAddress      string          `json:"pickup_address"`
	Destination        *string         `json:"destination"`
	Passengers         *int            `json:"passengers"`
	Miles              *float64        `json:"miles"`
	Hours              *float64        `json:"hours"`
	TotalAmount        float64         `json:"total_amount"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      *string         `json:"payment_status"`
	SpecialRequests    *string         `json:"special_requests"`
	BillingAddress     *string         `json:"billing_address"`
	StopPoints         json.RawMessage `json:"stop_points"`
	NavigationURL      *string         `json:"navigation_url"`
	Status             string          `json:"status"`
	AssignedDriverID   *string         `json:"assigned_driver_id"`
	AssignedDriverName *string         `json:"assigned_driver_name"`
	OTP                *string         `json:"otp"`
	NotificationSent   bool            `json:"notification_sent"`
	Rating             *int            `json:"rating"`
	Feedback           *string         `json:"feedback"`
	TipAmount          *float64        `json:"tip_amount"`
	CreatedAt          *time.Time      `json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at"`
}

// NewBooking carries the attributes supplied together at creation.
type NewBooking struct {
	BookingID       string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	ServiceType     string
	VehicleType     string
	PickupDate      string
	PickupTime      string
	PickupAddress   string
	Destination     string
	Passengers      int
	Miles           float64
	Hours           float64
	TotalAmount     float64
	PaymentMethod   string
	PaymentStatus   string
	SpecialRequests string
	BillingAddress  string
	StopPoints      json.RawMessage
	NavigationURL   string
	OTP             string
}

// LookupKey names the column a booking identifier is matched against.
type LookupKey string

const (
	ByBookingID LookupKey = "booking_id"
	ByID        LookupKey = "id"
)

// Lookup is one way of locating a booking: a key column and the value to match.
type Lookup struct {
	Key   LookupKey
	Value any
}

func (l Lookup) String() string {
	return fmt.Sprintf("%s=%v", l.Key, l.Value)
}

// Field is a canonical column and the value to store in it.
type Field struct {
	Column string
	Value  any
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type BookingStore struct {
	db DBTX
}

func NewBookingStore(db DBTX) *BookingStore {
	return &BookingStore{db: db}
}

const bookingColumns = `id, booking_id, first_name, last_name, email, phone, service_type, vehicle_type,
	to_char(pickup_date, 'YYYY-MM-DD'), to_char(pickup_time, 'HH24:MI:SS'),
	pickup_address, destination, passengers, miles::float8, hours::float8, total_amount::float8,
	payment_method, payment_status, special_requests, billing_address, stop_points, navigation_url,
	COALESCE(status, ''), assigned_driver_id, assigned_driver_name, otp, notification_sent,
	rating, feedback, tip_amount::float8, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var stops []byte
	err := row.Scan(
		&b.ID, &b.BookingID, &b.FirstName, &b.LastName, &b.Email, &b.Phone,
		&b.ServiceType, &b.VehicleType, &b.PickupDate, &b.PickupTime,
		&b.PickupAddress, &b.Destination, &b.Passengers, &b.Miles, &b.Hours, &b.TotalAmount,
		&b.PaymentMethod, &b.PaymentStatus, &b.SpecialRequests, &b.BillingAddress, &stops, &b.NavigationURL,
		&b.Status, &b.AssignedDriverID, &b.AssignedDriverName, &b.OTP, &b.NotificationSent,
		&b.Rating, &b.Feedback, &b.TipAmount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(stops) > 0 {
		b.StopPoints = json.RawMessage(stops)
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// List returns every booking, newest first.
func (s *BookingStore) List(ctx context.Context) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to query bookings: %v", err)
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	bookings, err := collectBookings(rows)
	if err != nil {
		logger.ErrorLogger.Error(err)
		return nil, err
	}
	logger.InfoLogger.Infof("Fetched %d bookings", len(bookings))
	return bookings, nil
}

func (s *BookingStore) Create(ctx context.Context, nb NewBooking) (*Booking, error) {
	stops := nb.StopPoints
	if len(stops) == 0 {
		stops = json.RawMessage("[]")
	}

	query := `
		INSERT INTO bookings (
			booking_id, first_name, last_name, email, phone,
			service_type, vehicle_type, pickup_date, pickup_time,
			pickup_address, destination, passengers, miles, hours,
			total_amount, payment_method, payment_status, special_requests,
			billing_address, stop_points, navigation_url, otp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9::time, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20::jsonb, $21, $22)
		RETURNING ` + bookingColumns

	row := s.db.QueryRow(ctx, query,
		nb.BookingID, nb.FirstName, nb.LastName, nb.Email, nb.Phone,
		nb.ServiceType, nb.VehicleType, nb.PickupDate, nb.PickupTime,
		nb.PickupAddress, nb.Destination, nb.Passengers, nb.Miles, nb.Hours,
		nb.TotalAmount, nb.PaymentMethod, nb.PaymentStatus, nb.SpecialRequests,
		nb.BillingAddress, string(stops), nb.NavigationURL, nb.OTP,
	)
	b, err := scanBooking(row)
	if err != nil {
		err = translatePgError(err)
		logger.ErrorLogger.Errorf("Failed to insert booking %s: %v", nb.BookingID, err)
		if errors.Is(err, ErrDuplicateBookingID) || errors.Is(err, ErrInvalidValue) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	logger.InfoLogger.Infof("Booking saved: %s (id %d)", b.BookingID, b.ID)
	return b, nil
}

// FindOne returns the booking matching lookup, or ErrBookingNotFound.
func (s *BookingStore) FindOne(ctx context.Context, lookup Lookup) (*Booking, error) {
	if err := lookup.validate(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s = $1`, bookingColumns, lookup.Key)
	b, err := scanBooking(s.db.QueryRow(ctx, query, lookup.Value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking by %s: %w", lookup, err)
	}
	return b, nil
}

// UpdateFields applies fields to the booking matching lookup and bumps updated_at. It
// returns ErrBookingNotFound when no row matched.
func (s *BookingStore) UpdateFields(ctx context.Context, lookup Lookup, fields []Field) (*Booking, error) {
	query, args, err := buildUpdateQuery(lookup, fields)
	if err != nil {
		return nil, err
	}

	b, err := scanBooking(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		err = translatePgError(err)
		if errors.Is(err, ErrUnknownColumn) || errors.Is(err, ErrInvalidValue) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update booking by %s: %w", lookup, err)
	}
	return b, nil
}

// ListPendingReminders returns confirmed bookings that have not been sent a reminder.
func (s *BookingStore) ListPendingReminders(ctx context.Context) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE notification_sent = false AND status = $1`

	rows, err := s.db.Query(ctx, query, StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reminders: %w", err)
	}
	return collectBookings(rows)
}

// MarkNotificationSent flips notification_sent to true. The write is guarded so the flag
// only ever moves from false to true; it reports whether this call made the transition.
func (s *BookingStore) MarkNotificationSent(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE bookings SET notification_sent = true, updated_at = NOW() WHERE id = $1 AND notification_sent = false`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking %d notified: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", ErrDuplicateBookingID, pgErr.Detail)
	case "42703":
		return fmt.Errorf("%w: %s", ErrUnknownColumn, pgErr.Message)
	case "22P02", "22007", "22008", "22003", "23502", "23514":
		return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.Message)
	}
	return err
}
