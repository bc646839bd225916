// Copyright 2018 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"sort"

	"github.com/pkg/errors"
)

// FieldMap is a map of interface{} specifically used for holding model
// fields values. Keys can be field names or JSON names.
type FieldMap map[string]interface{}

// Keys returns the FieldMap keys as a slice of strings
func (fm FieldMap) Keys() (res []string) {
	for k := range fm {
		res = append(res, k)
	}
	return
}

// OrderedKeys returns the keys of this FieldMap ordered.
func (fm FieldMap) OrderedKeys() []string {
	keys := fm.Keys()
	sort.Strings(keys)
	return keys
}

// RemovePK removes the entries of our FieldMap which
// references the ID field.
func (fm FieldMap) RemovePK() {
	delete(fm, "id")
	delete(fm, "ID")
}

// Get returns the value of the given field referring to the given model.
// field can be either a field name or a field JSON name.
// The second returned value is true if the field has been found in the FieldMap
func (fm FieldMap) Get(field string, model *Model) (interface{}, bool) {
	fi, ok := model.fields.Get(field)
	if !ok {
		return nil, false
	}
	val, ok := fm[fi.name]
	if !ok {
		val, ok = fm[fi.json]
	}
	return val, ok
}

// Copy returns a shallow copy of this FieldMap
func (fm FieldMap) Copy() FieldMap {
	res := make(FieldMap, len(fm))
	for k, v := range fm {
		res[k] = v
	}
	return res
}

// resolve returns the fields of model referenced by the keys of this
// FieldMap, associated with their values. It fails if a key is not a
// field of model or if a field is given twice.
func (fm FieldMap) resolve(model *Model) (map[*Field]interface{}, error) {
	res := make(map[*Field]interface{}, len(fm))
	for _, key := range fm.OrderedKeys() {
		fi, ok := model.fields.Get(key)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%s.%s", model.name, key)
		}
		if _, exists := res[fi]; exists {
			return nil, errors.Wrapf(ErrInvalidValue, "%s.%s is given twice", model.name, fi.name)
		}
		res[fi] = fm[key]
	}
	return res, nil
}
