// Copyright 2026 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// An Extension is an additive change to the schema of a model declared
// by another module than the one owning the model.
//
// Each extension targets exactly one model. A module extending several
// models declares one Extension per model.
type Extension struct {
	// Name of the extension, usually the name of the declaring module
	Name string
	// Version of the extension
	Version string
	// Model is the name of the extended model
	Model string
	// Fields are the new fields to add to the model
	Fields map[string]FieldDefinition
}

// String returns the name@version identifier of this extension
func (e Extension) String() string {
	if e.Version == "" {
		return e.Name
	}
	return fmt.Sprintf("%s@%s", e.Name, e.Version)
}

// Extend merges the fields of ext into its target model.
//
// The merge is all or nothing: if the target model does not exist, if
// one of the fields is invalid or collides with an existing field name or
// column, or if the registry is bootstrapped, an error is returned and the
// model is left unchanged.
func (r *Registry) Extend(ext Extension) error {
	if ext.Name == "" {
		return errors.Wrap(ErrInvalidField, "extension has no name")
	}
	if len(ext.Fields) == 0 {
		return errors.Wrapf(ErrInvalidField, "extension %s declares no field", ext)
	}
	r.Lock()
	defer r.Unlock()
	if r.bootstrapped {
		return errors.Wrapf(ErrBootstrapped, "applying extension %s", ext)
	}
	m, ok := r.registryByName[ext.Model]
	if !ok {
		return errors.Wrapf(ErrUnknownModel, "extension %s targets '%s'", ext, ext.Model)
	}
	for _, applied := range m.extensions {
		if applied.Name == ext.Name {
			return errors.Wrapf(ErrDuplicateExtension, "%s on %s", ext, m.name)
		}
	}
	if err := m.addFields(ext.Fields, ext.String()); err != nil {
		return errors.Wrapf(err, "extension %s", ext)
	}
	m.extensions = append(m.extensions, ext)
	log.Info("Model extended", "model", m.name, "extension", ext.String(), "fields", len(ext.Fields))
	return nil
}
