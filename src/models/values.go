// Copyright 2026 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
	"github.com/pkg/errors"
)

// convertValue converts the given user value to the database value of fi.
//
// nil (and false for non boolean fields) clears the field and is returned
// as nil. Values that cannot be converted without loss return an error
// caused by ErrInvalidValue.
func convertValue(fi *Field, value interface{}) (interface{}, error) {
	if value == nil {
		if fi.fieldType == fieldtype.Boolean {
			return false, nil
		}
		return nil, nil
	}
	if b, ok := value.(bool); ok && !b && fi.fieldType != fieldtype.Boolean {
		return nil, nil
	}
	invalid := func() error {
		return errors.Wrapf(ErrInvalidValue, "%v (%T) for %s field %s.%s", value, value, fi.fieldType, fi.model.name, fi.name)
	}
	switch fi.fieldType {
	case fieldtype.Boolean:
		b, ok := value.(bool)
		if !ok {
			return nil, invalid()
		}
		return b, nil
	case fieldtype.Char, fieldtype.Text, fieldtype.Selection:
		s, ok := value.(string)
		if !ok {
			return nil, invalid()
		}
		if s == "" {
			return nil, nil
		}
		if fi.fieldType == fieldtype.Char && fi.size > 0 && utf8.RuneCountInString(s) > fi.size {
			return nil, errors.Wrapf(ErrInvalidValue, "%s.%s is limited to %d characters", fi.model.name, fi.name, fi.size)
		}
		if fi.fieldType == fieldtype.Selection {
			if _, ok := fi.selection[s]; !ok {
				return nil, errors.Wrapf(ErrInvalidValue, "'%s' is not a valid choice for %s.%s", s, fi.model.name, fi.name)
			}
		}
		return s, nil
	case fieldtype.Integer, fieldtype.Many2One:
		i, ok := toInt64(value)
		if !ok {
			return nil, invalid()
		}
		if fi.fieldType == fieldtype.Many2One {
			if i < 0 {
				return nil, invalid()
			}
			if i == 0 {
				return nil, nil
			}
		}
		return i, nil
	case fieldtype.Float:
		f, ok := toFloat64(value)
		if !ok {
			return nil, invalid()
		}
		return f, nil
	case fieldtype.Date:
		d, ok := toDate(value)
		if !ok {
			return nil, invalid()
		}
		if d.IsZero() {
			// the zero date is stored as NULL and could not be read back
			return nil, invalid()
		}
		return d, nil
	case fieldtype.DateTime:
		dt, ok := toDateTime(value)
		if !ok {
			return nil, invalid()
		}
		if dt.IsZero() {
			return nil, invalid()
		}
		return dt, nil
	}
	return nil, invalid()
}

// toInt64 converts value to an int64 if it can be done without loss.
func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	}
	return 0, false
}

// toFloat64 converts numeric values to float64
func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	if i, ok := toInt64(value); ok {
		return float64(i), true
	}
	return 0, false
}

// toDate converts value to a Date. Strings must use the YYYY-MM-DD layout.
func toDate(value interface{}) (dates.Date, bool) {
	switch v := value.(type) {
	case dates.Date:
		return v, true
	case dates.DateTime:
		return v.ToDate(), true
	case time.Time:
		return dates.DateTime{Time: v}.ToDate(), true
	case string:
		d, err := dates.ParseDateWithLayout(dates.DefaultServerDateFormat, v)
		return d, err == nil
	}
	return dates.Date{}, false
}

// toDateTime converts value to a DateTime. Strings must use the
// YYYY-MM-DD HH:MM:SS layout or RFC3339.
func toDateTime(value interface{}) (dates.DateTime, bool) {
	switch v := value.(type) {
	case dates.DateTime:
		return v, true
	case dates.Date:
		return v.ToDateTime(), true
	case time.Time:
		return dates.DateTime{Time: v.UTC()}, true
	case string:
		for _, layout := range []string{dates.DefaultServerDateTimeFormat, time.RFC3339} {
			if dt, err := dates.ParseDateTimeWithLayout(layout, v); err == nil {
				return dt, true
			}
		}
	}
	return dates.DateTime{}, false
}

// convertFromDB converts a value scanned from the database to the Go
// value of fi. NULL is returned as nil, except for booleans.
func convertFromDB(fi *Field, raw interface{}) (interface{}, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if raw == nil {
		if fi.fieldType == fieldtype.Boolean {
			return false, nil
		}
		return nil, nil
	}
	fail := func(err error) error {
		return errors.Wrapf(err, "reading %s.%s from %v (%T)", fi.model.name, fi.name, raw, raw)
	}
	switch fi.fieldType {
	case fieldtype.Boolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fail(err)
			}
			return b, nil
		}
	case fieldtype.Char, fieldtype.Text, fieldtype.Selection:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case fieldtype.Integer, fieldtype.Many2One:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case string:
			i, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fail(err)
			}
			return i, nil
		}
	case fieldtype.Float:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fail(err)
			}
			return f, nil
		}
	case fieldtype.Date:
		var d dates.Date
		if err := d.Scan(raw); err != nil {
			return nil, fail(err)
		}
		if d.IsZero() {
			// the zero date is stored as NULL and could not be read back
			return nil, fail(ErrInvalidValue)
		}
		return d, nil
	case fieldtype.DateTime:
		var dt dates.DateTime
		if err := dt.Scan(raw); err != nil {
			return nil, fail(err)
		}
		if dt.IsZero() {
			return nil, fail(ErrInvalidValue)
		}
		return dt, nil
	}
	return nil, fail(ErrInvalidValue)
}
