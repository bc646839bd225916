// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models/operator"
	"github.com/pkg/errors"
)

// A Predicate is a single condition on a field of a model.
type Predicate struct {
	// Field is the name or JSON name of the field
	Field string
	// Operator compares the field to Value
	Operator operator.Operator
	// Value is the value to compare the field to. It must be a slice
	// for multi operators.
	Value interface{}
}

// Cond returns a new Predicate
func Cond(field string, op operator.Operator, value interface{}) Predicate {
	return Predicate{
		Field:    field,
		Operator: op,
		Value:    value,
	}
}

// String returns a human readable representation of this Predicate
func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %v", p.Field, p.Operator, p.Value)
}

// A Query is the set of conditions, limit and offset of a search.
type Query struct {
	predicates []Predicate
	limit      int
	offset     int
}

// whereClause returns the SQL WHERE clause of the given query with its
// arguments, or an empty string if there is no predicate.
func (q Query) whereClause(adapter dbAdapter, model *Model) (string, []interface{}, error) {
	if len(q.predicates) == 0 {
		return "", nil, nil
	}
	var (
		parts []string
		args  []interface{}
	)
	for _, p := range q.predicates {
		sql, arg, err := predicateSQL(adapter, model, p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		if arg != nil {
			args = append(args, arg)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// limitClause returns the LIMIT and OFFSET clauses of the query
func (q Query) limitClause() string {
	var res string
	if q.limit > 0 {
		res += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	if q.offset > 0 {
		if q.limit <= 0 {
			res += fmt.Sprintf(" LIMIT %d", int64(math.MaxInt64))
		}
		res += fmt.Sprintf(" OFFSET %d", q.offset)
	}
	return res
}

// predicateSQL returns the SQL condition of p with its argument.
// The returned argument is nil if the condition has no placeholder.
func predicateSQL(adapter dbAdapter, model *Model, p Predicate) (string, interface{}, error) {
	fi, ok := model.fields.Get(p.Field)
	if !ok {
		return "", nil, errors.Wrapf(ErrUnknownField, "%s.%s", model.name, p.Field)
	}
	if !p.Operator.IsValid() {
		return "", nil, errors.Wrapf(ErrInvalidValue, "unknown operator '%s'", p.Operator)
	}
	column := fmt.Sprintf("%s.%s", adapter.quoteTableName(model.tableName), fi.json)
	if p.Operator.IsMulti() {
		val := reflect.ValueOf(p.Value)
		if p.Value == nil || val.Kind() != reflect.Slice {
			return "", nil, errors.Wrapf(ErrInvalidValue, "operator '%s' needs a list of values", p.Operator)
		}
		if val.Len() == 0 {
			if p.Operator.IsNegative() {
				return "1 = 1", nil, nil
			}
			return "1 = 0", nil, nil
		}
		values := make([]interface{}, val.Len())
		for i := range values {
			v, err := predicateValue(fi, val.Index(i).Interface())
			if err != nil {
				return "", nil, err
			}
			values[i] = v
		}
		return fmt.Sprintf("%s %s", column, adapter.operatorSQL(p.Operator)), values, nil
	}
	if p.Operator == operator.Like || p.Operator == operator.ILike {
		s, ok := p.Value.(string)
		if !ok {
			return "", nil, errors.Wrapf(ErrInvalidValue, "operator '%s' needs a string", p.Operator)
		}
		return fmt.Sprintf("%s %s", column, adapter.operatorSQL(p.Operator)), s, nil
	}
	value, err := predicateValue(fi, p.Value)
	if err != nil {
		return "", nil, err
	}
	if value == nil {
		switch p.Operator {
		case operator.Equals:
			return fmt.Sprintf("%s IS NULL", column), nil, nil
		case operator.NotEquals:
			return fmt.Sprintf("%s IS NOT NULL", column), nil, nil
		default:
			return "", nil, errors.Wrapf(ErrInvalidValue, "cannot compare %s.%s to null with '%s'", model.name, fi.name, p.Operator)
		}
	}
	return fmt.Sprintf("%s %s", column, adapter.operatorSQL(p.Operator)), value, nil
}

// predicateValue converts the given search value for fi. Unlike user
// input, selection values are not checked.
func predicateValue(fi *Field, value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok && fi.selection != nil {
		return s, nil
	}
	if fi.json == "id" {
		i, ok := toInt64(value)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidValue, "%v is not a valid id", value)
		}
		return i, nil
	}
	return convertValue(fi, value)
}
