// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package dates

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultServerDateTimeFormat is the Go layout for DateTime objects
	DefaultServerDateTimeFormat = "2006-01-02 15:04:05"
)

// altDateTimeLayouts are the other layouts accepted when scanning a DateTime
var altDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
}

// DateTime type that JSON marshals and unmarshals as "YYYY-MM-DD HH:MM:SS".
// Values are always kept in UTC.
type DateTime struct {
	time.Time
}

// String method for DateTime.
func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(DefaultServerDateTimeFormat)
}

// ToDate returns the Date of this DateTime
func (d DateTime) ToDate() Date {
	return dateOf(d.Time)
}

// MarshalJSON for DateTime type
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("false"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, d.String())), nil
}

// Value formats our DateTime for storing in database.
// The zero DateTime is stored as NULL.
func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan casts the database output to a DateTime
func (d *DateTime) Scan(src interface{}) error {
	switch t := src.(type) {
	case nil:
		*d = DateTime{}
		return nil
	case time.Time:
		d.Time = t.UTC()
		return nil
	case []byte:
		return d.Scan(string(t))
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			*d = DateTime{}
			return nil
		}
		val, err := ParseDateTimeWithLayout(DefaultServerDateTimeFormat, t)
		if err == nil {
			*d = val
			return nil
		}
		for _, layout := range altDateTimeLayouts {
			if alt, altErr := ParseDateTimeWithLayout(layout, t); altErr == nil {
				*d = alt
				return nil
			}
		}
		return err
	}
	return fmt.Errorf("DateTime data is not time.Time but %T", src)
}

var _ driver.Valuer = DateTime{}
var _ sql.Scanner = new(DateTime)

// Now returns the current date/time with UTC timezone, truncated to the second
func Now() DateTime {
	return DateTime{time.Now().UTC().Truncate(time.Second)}
}

// ParseDateTime returns a datetime from the given string value
// that is formatted with the default YYYY-MM-DD HH:MM:SS format.
//
// It panics in case the parsing cannot be done.
func ParseDateTime(value string) DateTime {
	dt, err := ParseDateTimeWithLayout(DefaultServerDateTimeFormat, value)
	if err != nil {
		panic(err)
	}
	return dt
}

// ParseDateTimeWithLayout returns a datetime from the given string value
// that is formatted with layout.
func ParseDateTimeWithLayout(layout, value string) (DateTime, error) {
	t, err := time.Parse(layout, value)
	return DateTime{Time: t.UTC()}, err
}

// Equal reports whether d and other represent the same time instant
func (d DateTime) Equal(other DateTime) bool {
	return d.Time.Equal(other.Time)
}

// Lower returns true if d is strictly lower than other
func (d DateTime) Lower(other DateTime) bool {
	return d.Time.Before(other.Time)
}
