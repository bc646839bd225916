// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import "github.com/pkg/errors"

// An Environment gives access to the records of the models of a
// registry stored in a database.
type Environment struct {
	db       *DB
	registry *Registry
}

// NewEnvironment returns a new Environment on the given database for
// the models of the given registry.
func NewEnvironment(db *DB, registry *Registry) Environment {
	return Environment{
		db:       db,
		registry: registry,
	}
}

// DB returns the database of this Environment
func (env Environment) DB() *DB {
	return env.db
}

// Registry returns the model registry of this Environment
func (env Environment) Registry() *Registry {
	return env.registry
}

// Pool returns an empty RecordCollection for the given modelName.
//
// It panics if the model does not exist.
func (env Environment) Pool(modelName string) *RecordCollection {
	return newRecordCollection(env, env.registry.MustGet(modelName))
}

// PoolIfExists returns an empty RecordCollection for the given
// modelName or ErrUnknownModel.
func (env Environment) PoolIfExists(modelName string) (*RecordCollection, error) {
	mi, ok := env.registry.Get(modelName)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "'%s'", modelName)
	}
	return newRecordCollection(env, mi), nil
}
