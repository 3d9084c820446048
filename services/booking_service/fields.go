package booking_service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joy095/bayelite/models/booking_models"
)

// fieldAliases maps every accepted spelling of a booking attribute to its column.
// Adding a spelling is an entry here; names missing from the table pass through as-is.
var fieldAliases = map[string]string{
	"id": "id",

	"booking_id": "booking_id",
	"bookingId":  "booking_id",
	"bookingID":  "booking_id",

	"first_name": "first_name",
	"firstName":  "first_name",
	"last_name":  "last_name",
	"lastName":   "last_name",
	"email":      "email",
	"phone":      "phone",

	"service_type": "service_type",
	"serviceType":  "service_type",
	"vehicle_type": "vehicle_type",
	"vehicleType":  "vehicle_type",

	"pickup_date":    "pickup_date",
	"pickupDate":     "pickup_date",
	"pickup_time":    "pickup_time",
	"pickupTime":     "pickup_time",
	"pickup_address": "pickup_address",
	"pickupAddress":  "pickup_address",
	"destination":    "destination",

	"passengers":   "passengers",
	"miles":        "miles",
	"hours":        "hours",
	"total_amount": "total_amount",
	"totalAmount":  "total_amount",

	"payment_method": "payment_method",
	"paymentMethod":  "payment_method",
	"payment_status": "payment_status",
	"paymentStatus":  "payment_status",

	"special_requests": "special_requests",
	"specialRequests":  "special_requests",
	"billing_address":  "billing_address",
	"billingAddress":   "billing_address",
	"stop_points":      "stop_points",
	"stopPoints":       "stop_points",
	"navigation_url":   "navigation_url",
	"navigationUrl":    "navigation_url",
	"navigationURL":    "navigation_url",

	"status":               "status",
	"assigned_driver_id":   "assigned_driver_id",
	"assignedDriverId":     "assigned_driver_id",
	"driverId":             "assigned_driver_id",
	"assigned_driver_name": "assigned_driver_name",
	"assignedDriverName":   "assigned_driver_name",
	"driverName":           "assigned_driver_name",
	"otp":                  "otp",

	"notification_sent": "notification_sent",
	"notificationSent":  "notification_sent",

	"rating":     "rating",
	"feedback":   "feedback",
	"tip_amount": "tip_amount",
	"tipAmount":  "tip_amount",

	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
}

// immutableColumns are never written from a client payload. updated_at is set by the
// store on every write and notification_sent only by the reminder scheduler.
var immutableColumns = map[string]bool{
	"id":                true,
	"booking_id":        true,
	"created_at":        true,
	"updated_at":        true,
	"notification_sent": true,
}

// CanonicalField returns the column name a payload key maps to. Surrounding whitespace
// is not part of the name.
func CanonicalField(name string) string {
	name = strings.TrimSpace(name)
	if column, ok := fieldAliases[name]; ok {
		return column
	}
	return name
}

// NormalizeFields translates raw payload keys to booking columns and drops the ones a
// client may not write. Values are kept as supplied. Two keys that land on the same
// column are rejected with ErrAmbiguousField. The result is sorted by column.
func NormalizeFields(raw map[string]any) ([]booking_models.Field, error) {
	seen := make(map[string]string, len(raw))
	fields := make([]booking_models.Field, 0, len(raw))

	for name, value := range raw {
		column := CanonicalField(name)
		if column == "" {
			return nil, fmt.Errorf("%w: blank field name", ErrUnknownField)
		}
		if immutableColumns[column] {
			continue
		}
		if prev, dup := seen[column]; dup {
			first, second := prev, name
			if second < first {
				first, second = second, first
			}
			return nil, fmt.Errorf("%w: %q and %q both set %s", ErrAmbiguousField, first, second, column)
		}
		seen[column] = name
		fields = append(fields, booking_models.Field{Column: column, Value: value})
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].Column < fields[j].Column })
	return fields, nil
}

// lookupString returns the string value stored under any spelling of column. Keys are
// checked in sorted order so the answer is stable when several spellings are present.
func lookupString(raw map[string]any, column string) (string, bool) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		if CanonicalField(name) == column {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if s, ok := raw[name].(string); ok {
			return s, true
		}
	}
	return "", false
}
