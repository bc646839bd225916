// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package fieldtype

import (
	"reflect"

	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
)

// A Type defines a type of a model's field
type Type string

// Types for model fields
const (
	NoType    Type = ""
	Boolean   Type = "boolean"
	Char      Type = "char"
	Date      Type = "date"
	DateTime  Type = "datetime"
	Float     Type = "float"
	Integer   Type = "integer"
	Many2One  Type = "many2one"
	Selection Type = "selection"
	Text      Type = "text"
)

// IsValid returns true if t is a known field type
func (t Type) IsValid() bool {
	switch t {
	case Boolean, Char, Date, DateTime, Float, Integer, Many2One, Selection, Text:
		return true
	}
	return false
}

// IsRelationType returns true if this type is a relation.
func (t Type) IsRelationType() bool {
	return t == Many2One
}

// IsFKRelationType returns true for relation types
// that are stored in the model's table (i.e. M2O)
func (t Type) IsFKRelationType() bool {
	return t == Many2One
}

// IsNullInDB returns true if this type's zero value is
// saved as null in database.
func (t Type) IsNullInDB() bool {
	return t.IsFKRelationType() || t == Char || t == Text || t == Selection || t == Date || t == DateTime
}

// DefaultGoType returns this Type's default Go type
func (t Type) DefaultGoType() reflect.Type {
	switch t {
	case Char, Text, Selection:
		return reflect.TypeOf(*new(string))
	case Boolean:
		return reflect.TypeOf(true)
	case Date:
		return reflect.TypeOf(*new(dates.Date))
	case DateTime:
		return reflect.TypeOf(*new(dates.DateTime))
	case Float:
		return reflect.TypeOf(*new(float64))
	case Integer, Many2One:
		return reflect.TypeOf(*new(int64))
	}
	return reflect.TypeOf(nil)
}
