package booking_models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNoFields      = errors.New("no fields to update")
	ErrInvalidLookup = errors.New("invalid booking lookup")
)

func (l Lookup) validate() error {
	switch l.Key {
	case ByBookingID, ByID:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidLookup, l.Key)
}

// buildUpdateQuery renders one UPDATE statement for fields scoped by lookup. Column names
// are quoted as identifiers; values always travel as parameters. The lookup value is the
// last parameter so the same SET clause and arguments serve every lookup key.
func buildUpdateQuery(lookup Lookup, fields []Field) (string, []any, error) {
	if err := lookup.validate(); err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		column := f.Column
		if column == "" || column != strings.TrimSpace(column) {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", pgx.Identifier{column}.Sanitize(), i+1))
		args = append(args, encodeValue(f.Value))
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, lookup.Value)

	query := fmt.Sprintf("UPDATE bookings SET %s WHERE %s = $%d RETURNING %s",
		strings.Join(setClauses, ", "), lookup.Key, len(args), bookingColumns)
	return query, args, nil
}

// encodeValue turns decoded JSON objects and arrays into JSON text so they can be stored
// in a jsonb column. Scalars pass through unchanged.
func encodeValue(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(b)
	}
	return v
}
