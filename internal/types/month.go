// Package types implements calendar types for the mill ledger.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month is a month in a specific year.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// String returns the time formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Key returns the month in the "M-YYYY" format used by the legacy
// storage layout, e.g. "7-2025".
func (m Month) Key() string {
	if m.IsZero() {
		return ""
	}

	return fmt.Sprintf("%d-%d", time.Time(m).Month(), time.Time(m).Year())
}

// MarshalJSON implements the json.Marshaler interface.
func (m Month) MarshalJSON() ([]byte, error) {
	return time.Time(m).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The month is expected to be a string in RFC3339, "2006-01-02"
// or "2006-01" format. Everything except the year and month is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`) // get rid of "
	if value == "" || value == "null" {
		return nil
	}

	pattern := "2006-01-02T15:04:05Z07:00"
	if match, _ := regexp.MatchString("^[0-9]{4}-[0-9]{2}-[0-9]{2}$", value); match {
		pattern = "2006-01-02"
	} else if match, _ := regexp.MatchString("^[0-9]{4}-[0-9]{2}$", value); match {
		pattern = "2006-01"
	}

	t, err := time.Parse(pattern, value)
	if err != nil {
		return err
	}

	*m = NewMonth(t.Year(), t.Month())
	return nil
}

// MonthOf returns the Month in which a time occurs in that time's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}

	return MonthOf(t), nil
}

// UnmarshalParam parses a month in "YYYY-MM" format from a query
// parameter. An empty parameter is the zero month.
func (m *Month) UnmarshalParam(param string) error {
	if param == "" {
		*m = Month{}
		return nil
	}

	parsed, err := ParseMonth(param)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// ParseMonthKey parses a month in "M-YYYY" format.
func ParseMonthKey(s string) (Month, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("%q is not a month in M-YYYY format", s)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%q is not a month in M-YYYY format", s)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("%q is not a month in M-YYYY format", s)
	}

	return NewMonth(year, time.Month(month)), nil
}

// Scan writes the value from the database.
func (m *Month) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*m = Month(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (m Month) Value() (driver.Value, error) {
	year, month, _ := time.Time(m).Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm the type.
func (Month) GormDataType() string {
	return "date"
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Year() == time.Time(n).Year() && time.Time(m).Month() == time.Time(n).Month()
}

// Contains reports whether the date is in the month.
func (m Month) Contains(d Date) bool {
	return MonthOf(time.Time(d)).Equal(m)
}

// FirstDay returns the first day of the month.
func (m Month) FirstDay() Date {
	return NewDate(time.Time(m).Year(), time.Time(m).Month(), 1)
}
