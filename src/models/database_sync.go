// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SyncDatabase creates or updates database tables with the data in the
// given bootstrapped registry.
//
// Synchronization is additive only: missing tables, columns and indexes
// are created, but nothing is ever dropped or altered. Columns added to an
// existing table are nullable and existing rows keep NULL unless the
// field has a default value.
func (db *DB) SyncDatabase(ctx context.Context, r *Registry) error {
	if !r.BootStrapped() {
		return ErrNotBootstrapped
	}
	log.Info("Updating database schema")
	dbTables, err := db.adapter.tables(ctx, db.DB)
	if err != nil {
		return err
	}
	models := r.Models()
	for _, model := range models {
		if dbTables[model.tableName] {
			continue
		}
		if err := db.createDBTable(ctx, model); err != nil {
			return err
		}
	}
	env := NewEnvironment(db, r)
	for _, model := range models {
		if err := db.updateDBColumns(ctx, env, model); err != nil {
			return err
		}
		if err := db.updateDBIndexes(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

// createDBTable creates a table in the database from the given Model.
//
// Many2one columns are added afterwards by updateDBColumns so that all
// referenced tables exist.
func (db *DB) createDBTable(ctx context.Context, m *Model) error {
	columns := []string{fmt.Sprintf("id %s", db.adapter.primaryKeySQL())}
	for _, fi := range m.fields.stored() {
		if fi.fieldType.IsFKRelationType() {
			continue
		}
		columns = append(columns, fmt.Sprintf("%s %s", fi.json, db.adapter.columnSQLDefinition(fi, false)))
	}
	query := fmt.Sprintf(`
CREATE TABLE %s (
	%s
)`, db.adapter.quoteTableName(m.tableName), strings.Join(columns, ",\n\t"))
	log.Info("Creating table", "model", m.name, "table", m.tableName)
	return db.execNoTx(ctx, query)
}

// updateDBColumns creates the missing columns of the given Model.
func (db *DB) updateDBColumns(ctx context.Context, env Environment, m *Model) error {
	dbColumns, err := db.adapter.columns(ctx, db.DB, m.tableName)
	if err != nil {
		return err
	}
	for _, fi := range m.fields.stored() {
		dbColData, ok := dbColumns[fi.json]
		if !ok {
			if err := db.createDBColumn(ctx, env, fi); err != nil {
				return err
			}
			continue
		}
		if baseSQLType(dbColData.DataType) != baseSQLType(db.adapter.typeSQL(fi)) {
			log.Warn("Column type differs from field definition, leaving it unchanged", "model", m.name, "field", fi.name,
				"column", dbColData.DataType, "expected", db.adapter.typeSQL(fi))
		}
	}
	for colName := range dbColumns {
		if _, ok := m.fields.Get(colName); !ok {
			log.Debug("Column is not declared in model, keeping it", "model", m.name, "column", colName)
		}
	}
	return nil
}

// createDBColumn inserts the column described by Field in the database.
//
// The column is always nullable. If the field has a default value, it is
// written to existing rows.
func (db *DB) createDBColumn(ctx context.Context, env Environment, fi *Field) error {
	query := fmt.Sprintf(`
		ALTER TABLE %s
		ADD COLUMN %s %s
	`, db.adapter.quoteTableName(fi.model.tableName), fi.json, db.adapter.columnSQLDefinition(fi, true))
	log.Info("Adding column", "model", fi.model.name, "field", fi.name, "column", fi.json, "extension", fi.extension)
	if err := db.execNoTx(ctx, query); err != nil {
		return err
	}
	if fi.defaultFunc == nil {
		return nil
	}
	defaultValue, err := convertValue(fi, fi.defaultFunc(env))
	if err != nil {
		return errors.Wrapf(err, "default value of %s.%s", fi.model.name, fi.name)
	}
	if defaultValue == nil {
		return nil
	}
	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = ? WHERE %s IS NULL
	`, db.adapter.quoteTableName(fi.model.tableName), fi.json, fi.json)
	return db.execNoTx(ctx, updateQuery, defaultValue)
}

// updateDBIndexes creates the missing indexes of the given Model
func (db *DB) updateDBIndexes(ctx context.Context, m *Model) error {
	for _, fi := range m.fields.stored() {
		if !fi.index {
			continue
		}
		indexName := fmt.Sprintf("%s_%s_index", m.tableName, fi.json)
		exists, err := db.adapter.indexExists(ctx, db.DB, m.tableName, indexName)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		query := fmt.Sprintf(`
			CREATE INDEX %s ON %s (%s)
		`, indexName, db.adapter.quoteTableName(m.tableName), fi.json)
		if err := db.execNoTx(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// baseSQLType returns the given SQL type without its size
func baseSQLType(typ string) string {
	if i := strings.Index(typ, "("); i >= 0 {
		typ = typ[:i]
	}
	return strings.ToLower(strings.TrimSpace(typ))
}
