// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package types

import (
	"encoding/json"
	"sort"
)

// A Selection is a set of possible (key, label) values for a model
// "selection" field.
type Selection map[string]string

// Keys returns the keys of this Selection, sorted.
func (s Selection) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON function for the Selection type
func (s Selection) MarshalJSON() ([]byte, error) {
	selSlice := make([][2]string, 0, len(s))
	for _, key := range s.Keys() {
		selSlice = append(selSlice, [2]string{0: key, 1: s[key]})
	}
	return json.Marshal(selSlice)
}

var _ json.Marshaler = Selection{}
