package scheduler

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// PickupInstant joins a stored pickup date (YYYY-MM-DD) and wall-clock time (HH:MM or
// HH:MM:SS) into an instant in loc. Both parts are read as calendar fields, so the day
// never shifts with the server's UTC offset.
func PickupInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, date+" "+clock, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid pickup date/time %q %q", date, clock)
}

// InWindow reports whether pickup is between start and end from now, both inclusive.
func InWindow(pickup, now time.Time, start, end time.Duration) bool {
	diff := pickup.Sub(now)
	return diff >= start && diff <= end
}
