// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package operator

// An Operator inside an SQL WHERE clause
type Operator string

// Operators
const (
	Equals         Operator = "="
	NotEquals      Operator = "!="
	Greater        Operator = ">"
	GreaterOrEqual Operator = ">="
	Lower          Operator = "<"
	LowerOrEqual   Operator = "<="
	Like           Operator = "=like"
	ILike          Operator = "=ilike"
	In             Operator = "in"
	NotIn          Operator = "not in"
)

var allowedOperators = map[Operator]bool{
	Equals:         true,
	NotEquals:      true,
	Greater:        true,
	GreaterOrEqual: true,
	Lower:          true,
	LowerOrEqual:   true,
	Like:           true,
	ILike:          true,
	In:             true,
	NotIn:          true,
}

var multiOperator = map[Operator]bool{
	In:    true,
	NotIn: true,
}

// IsMulti returns true if the operator expects a array as arguments
func (o Operator) IsMulti() bool {
	return multiOperator[o]
}

// IsValid returns true if o is a known operator.
func (o Operator) IsValid() bool {
	return allowedOperators[o]
}

// IsNegative returns true if this is a negative operator
func (o Operator) IsNegative() bool {
	return o == NotEquals || o == NotIn
}
