package models

import (
	"fmt"
	"time"

	"github.com/messmill/backend/internal/types"
)

// Location is the time zone in which calendar days begin and end.
var Location = time.UTC

var now = time.Now

// SetLocation sets the time zone used for day boundaries by IANA name.
func SetLocation(name string) error {
	if name == "" {
		Location = time.UTC
		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", name, err)
	}

	Location = loc
	return nil
}

// SetClock replaces the function used to determine the current time.
// The returned function restores the previous clock.
func SetClock(f func() time.Time) func() {
	previous := now
	now = f
	return func() {
		now = previous
	}
}

// Now returns the current time in the configured location.
func Now() time.Time {
	return now().In(Location)
}

// Today returns the current calendar date in the configured location.
func Today() types.Date {
	return types.DateOf(Now())
}

// ThisMonth returns the current month in the configured location.
func ThisMonth() types.Month {
	return types.MonthOf(Now())
}
