package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without a time of day.
//
// It is stored as midnight UTC so that equal dates always have the
// same database representation.
type Date time.Time

const (
	dateFormat       = "2006-01-02"
	legacyDateFormat = "02/01/2006"
)

// NewDate returns a new Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// ParseDate parses a date in "2006-01-02" format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return Date{}, err
	}

	return DateOf(t), nil
}

// ParseLegacyDate parses a date in the "dd/mm/yyyy" format of the
// legacy storage layout. Single digit days and months are accepted.
func ParseLegacyDate(s string) (Date, error) {
	t, err := time.Parse("2/1/2006", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%q is not a date in dd/mm/yyyy format", s)
	}

	return DateOf(t), nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return time.Time(d).Format(dateFormat)
}

// Legacy returns the date formatted as dd/mm/yyyy.
func (d Date) Legacy() string {
	if d.IsZero() {
		return ""
	}

	return time.Time(d).Format(legacyDateFormat)
}

// Month returns the month the date is in.
func (d Date) Month() Month {
	return MonthOf(time.Time(d))
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Accepted formats are "2006-01-02" and RFC3339.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	if parsed, err := ParseDate(value); err == nil {
		*d = parsed
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}

	*d = DateOf(t)
	return nil
}

// UnmarshalParam parses a date from a URI parameter.
func (d *Date) UnmarshalParam(param string) error {
	parsed, err := ParseDate(param)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Scan writes the value from the database.
func (d *Date) Scan(value interface{}) error {
	nullTime := &sql.NullTime{}
	err := nullTime.Scan(value)
	*d = DateOf(nullTime.Time.UTC())
	if !nullTime.Valid {
		*d = Date{}
	}
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Date) Value() (driver.Value, error) {
	year, month, day := time.Time(d).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm the type.
func (Date) GormDataType() string {
	return "date"
}

// IsZero reports if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Equal reports whether d and e are the same calendar date.
func (d Date) Equal(e Date) bool {
	return d.String() == e.String()
}

// Before reports whether d is before e.
func (d Date) Before(e Date) bool {
	return time.Time(d).Before(time.Time(e))
}

// Compare returns -1 if d is before e, +1 if d is after e and 0 if
// they are the same date.
func (d Date) Compare(e Date) int {
	return time.Time(d).Compare(time.Time(e))
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date(time.Time(d).AddDate(0, 0, n))
}
