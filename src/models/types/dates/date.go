// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package dates

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultServerDateFormat is the Go layout for Date objects
	DefaultServerDateFormat = "2006-01-02"
)

// Date is a calendar day without time component.
//
// It JSON marshals as "YYYY-MM-DD" and the zero Date is stored as NULL.
type Date struct {
	time.Time
}

// NewDate returns the Date of the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// dateOf truncates t to its calendar day, keeping t's wall clock.
func dateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String method for Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(DefaultServerDateFormat)
}

// ToDateTime returns the DateTime at midnight of this Date
func (d Date) ToDateTime() DateTime {
	return DateTime{d.Time}
}

// MarshalJSON for Date type
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("false"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, d.String())), nil
}

// UnmarshalJSON for Date type. It accepts "YYYY-MM-DD" strings,
// and null or false for the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var src interface{}
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	switch v := src.(type) {
	case nil, bool:
		*d = Date{}
		return nil
	case string:
		return d.Scan(v)
	}
	return fmt.Errorf("cannot unmarshal %s into a Date", string(data))
}

// Value formats our Date for storing in database
// The zero Date is stored as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan casts the database output to a Date
func (d *Date) Scan(src interface{}) error {
	switch t := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = dateOf(t)
		return nil
	case []byte:
		return d.Scan(string(t))
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			*d = Date{}
			return nil
		}
		val, err := ParseDateWithLayout(DefaultServerDateFormat, t)
		if err != nil {
			var dt DateTime
			if dtErr := dt.Scan(t); dtErr != nil {
				return err
			}
			val = dt.ToDate()
		}
		*d = val
		return nil
	}
	return fmt.Errorf("date data is not time.Time but %T", src)
}

var _ driver.Valuer = Date{}
var _ sql.Scanner = new(Date)
var _ json.Unmarshaler = new(Date)

// Equal reports whether d and other represent the same day
func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

// Greater returns true if d is strictly greater than other
func (d Date) Greater(other Date) bool {
	return d.Sub(other) > 0
}

// GreaterEqual returns true if d is greater than or equal to other
func (d Date) GreaterEqual(other Date) bool {
	return d.Sub(other) >= 0
}

// Lower returns true if d is strictly lower than other
func (d Date) Lower(other Date) bool {
	return d.Sub(other) < 0
}

// LowerEqual returns true if d is lower than or equal to other
func (d Date) LowerEqual(other Date) bool {
	return d.Sub(other) <= 0
}

// AddDate adds the given years, months or days to the current date
func (d Date) AddDate(years, months, days int) Date {
	return dateOf(d.Time.AddDate(years, months, days))
}

// Sub returns the duration d-t.
func (d Date) Sub(t Date) time.Duration {
	return d.Time.Sub(t.Time)
}

// Today returns the current date
func Today() Date {
	return dateOf(time.Now())
}

// ParseDate returns a date from the given string value
// that is formatted with the default YYYY-MM-DD format.
//
// It panics in case the parsing cannot be done.
func ParseDate(value string) Date {
	d, err := ParseDateWithLayout(DefaultServerDateFormat, value)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDateWithLayout returns a date from the given string value
// that is formatted with layout.
func ParseDateWithLayout(layout, value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, err
	}
	return dateOf(t), nil
}
