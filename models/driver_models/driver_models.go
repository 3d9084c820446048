package driver_models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joy095/bayelite/logger"
)

const StatusAvailable = "available"

var (
	ErrDriverNotFound   = errors.New("driver not found")
	ErrDuplicateEmail   = errors.New("driver email already exists")
	ErrNoFields         = errors.New("no fields to update")
	ErrFieldNotAllowed  = errors.New("field is not allowed for updates")
	ErrMissingAttribute = errors.New("missing required driver attribute")
	ErrAmbiguousField   = errors.New("field supplied under more than one name")
)

type Driver struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Vehicle         string     `json:"vehicle"`
	Status          string     `json:"status"`
	CurrentLocation *string    `json:"current_location"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// allowedUpdateFields maps accepted request keys to driver columns.
var allowedUpdateFields = map[string]string{
	"name":             "name",
	"email":            "email",
	"phone":            "phone",
	"vehicle":          "vehicle",
	"status":           "status",
	"current_location": "current_location",
	"currentLocation":  "current_location",
}

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DriverStore struct {
	db  DBTX
	now func() time.Time
}

func NewDriverStore(db DBTX) *DriverStore {
	return &DriverStore{db: db, now: time.Now}
}

const driverColumns = `id, name, email, phone, vehicle, COALESCE(status, ''), current_location, created_at, updated_at`

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Vehicle, &d.Status, &d.CurrentLocation, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// NewDriverID builds a roster id from the creation instant, e.g. "D1718000000000".
func NewDriverID(now time.Time) string {
	return fmt.Sprintf("D%d", now.UnixMilli())
}

// List returns the roster ordered by name.
func (s *DriverStore) List(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY name`)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to query drivers: %v", err)
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	drivers := []Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drivers: %w", err)
	}
	return drivers, nil
}

type NewDriver struct {
	Name            string
	Email           string
	Phone           string
	Vehicle         string
	Status          string
	CurrentLocation *string
}

func (s *DriverStore) Create(ctx context.Context, nd NewDriver) (*Driver, error) {
	for attr, v := range map[string]string{"name": nd.Name, "email": nd.Email, "phone": nd.Phone, "vehicle": nd.Vehicle} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, attr)
		}
	}
	if nd.Status == "" {
		nd.Status = StatusAvailable
	}

	query := `
		INSERT INTO drivers (id, name, email, phone, vehicle, status, current_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + driverColumns

	d, err := scanDriver(s.db.QueryRow(ctx, query,
		NewDriverID(s.now()), nd.Name, nd.Email, nd.Phone, nd.Vehicle, nd.Status, nd.CurrentLocation))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		logger.ErrorLogger.Errorf("Failed to insert driver %s: %v", nd.Email, err)
		return nil, fmt.Errorf("failed to insert driver: %w", err)
	}

	logger.InfoLogger.Infof("Driver added: %s (%s)", d.ID, d.Name)
	return d, nil
}

// Update applies the allow-listed fields in updates to driver id.
func (s *DriverStore) Update(ctx context.Context, id string, updates map[string]any) (*Driver, error) {
	query, args, err := buildDriverUpdate(id, updates)
	if err != nil {
		return nil, err
	}

	d, err := scanDriver(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update driver %s: %w", id, err)
	}
	return d, nil
}

func buildDriverUpdate(id string, updates map[string]any) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, ErrNoFields
	}

	columns := make(map[string]any, len(updates))
	for key, value := range updates {
		column, ok := allowedUpdateFields[key]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrFieldNotAllowed, key)
		}
		if _, dup := columns[column]; dup {
			return "", nil, fmt.Errorf("%w: %s", ErrAmbiguousField, column)
		}
		columns[column] = value
	}

	names := make([]string, 0, len(columns))
	for c := range columns {
		names = append(names, c)
	}
	sort.Strings(names)

	setClauses := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+1)
	for i, c := range names {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", c, i+1))
		args = append(args, columns[c])
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE drivers SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), driverColumns)
	return query, args, nil
}

func (s *DriverStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	logger.InfoLogger.Infof("Driver deleted: %s", id)
	return nil
}
