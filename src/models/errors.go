// Copyright 2026 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import "github.com/pkg/errors"

// Errors returned by the models package. They are always wrapped with
// context, use errors.Cause to compare.
var (
	// ErrUnknownModel is returned when a model name is not in the registry
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownField is returned when a field name is not declared on a model
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldCollision is returned when a declaration reuses an existing field name or column
	ErrFieldCollision = errors.New("field already exists")
	// ErrInvalidField is returned for an invalid field declaration
	ErrInvalidField = errors.New("invalid field declaration")
	// ErrDuplicateExtension is returned when an extension is applied twice to the same model
	ErrDuplicateExtension = errors.New("extension already applied")
	// ErrBootstrapped is returned when declaring models or fields after bootstrap
	ErrBootstrapped = errors.New("registry already bootstrapped")
	// ErrNotBootstrapped is returned when using the database before bootstrap
	ErrNotBootstrapped = errors.New("registry not bootstrapped")
	// ErrInvalidValue is returned when a value cannot be converted to its field type
	ErrInvalidValue = errors.New("invalid value")
	// ErrRequiredField is returned when a required field is missing or cleared
	ErrRequiredField = errors.New("required field")
	// ErrRecordNotFound is returned when a record does not exist
	ErrRecordNotFound = errors.New("record not found")
)

// IsValidationError returns true if err was caused by values given by
// the caller, as opposed to storage or declaration failures.
func IsValidationError(err error) bool {
	switch errors.Cause(err) {
	case ErrUnknownField, ErrInvalidValue, ErrRequiredField:
		return true
	}
	return false
}
