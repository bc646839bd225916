// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hexya-erp/saledeliverydate/src/models/operator"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ConnectionParams are the database connection parameters.
type ConnectionParams struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// A DB is a connection pool to the database with the adapter of its driver.
type DB struct {
	*sqlx.DB
	adapter dbAdapter
}

// A ColumnData holds information from the db schema about one column
type ColumnData struct {
	ColumnName string
	DataType   string
	IsNullable bool
}

// dbAdapter abstracts the SQL differences between database engines
type dbAdapter interface {
	// connectionString returns the connection string for the given parameters
	connectionString(ConnectionParams) string
	// configure is called once after opening the pool
	configure(*sqlx.DB)
	// primaryKeySQL returns the SQL definition of the id column
	primaryKeySQL() string
	// typeSQL returns the SQL type string, including columns constraints if any
	typeSQL(fi *Field) string
	// columnSQLDefinition returns the SQL type string, including columns constraints if any
	//
	// If null is true, then the column will be nullable, whatever the field.
	columnSQLDefinition(fi *Field, null bool) string
	// quoteTableName returns the given table name with sql quotes
	quoteTableName(string) string
	// tables returns the list of table names in the database
	tables(ctx context.Context, db *sqlx.DB) (map[string]bool, error)
	// columns returns a list of ColumnData for the given tableName
	columns(ctx context.Context, db *sqlx.DB, tableName string) (map[string]ColumnData, error)
	// indexExists returns true if an index with the given name exists in the given table
	indexExists(ctx context.Context, db *sqlx.DB, table string, name string) (bool, error)
	// operatorSQL returns the sql string for the given operator
	operatorSQL(operator.Operator) string
}

// adapters lists the available dbAdapters by driver name
var adapters = make(map[string]dbAdapter)

// registerDBAdapter adds the given adapter for the given driver
func registerDBAdapter(driver string, adapter dbAdapter) {
	adapters[driver] = adapter
}

// Connect opens a connection pool to the database described by params and
// checks that it is reachable.
func Connect(ctx context.Context, params ConnectionParams) (*DB, error) {
	adapter, ok := adapters[params.Driver]
	if !ok {
		return nil, errors.Errorf("unsupported database driver '%s'", params.Driver)
	}
	sdb, err := sqlx.ConnectContext(ctx, params.Driver, adapter.connectionString(params))
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s database '%s'", params.Driver, params.DBName)
	}
	adapter.configure(sdb)
	log.Info("Connected to database", "driver", params.Driver, "host", params.Host, "name", params.DBName)
	return &DB{DB: sdb, adapter: adapter}, nil
}

// execNoTx executes the given query outside of any transaction
func (db *DB) execNoTx(ctx context.Context, query string, args ...interface{}) error {
	query = db.Rebind(query)
	defer logQuery(time.Now(), query, args)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "executing %s", strings.TrimSpace(query))
	}
	return nil
}

// A txExecutor runs queries within a transaction
type txExecutor struct {
	tx *sqlx.Tx
}

// exec executes the given query, after expanding slice arguments
func (te txExecutor) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	query, args, err := te.prepare(query, args...)
	if err != nil {
		return nil, err
	}
	defer logQuery(time.Now(), query, args)
	res, err := te.tx.ExecContext(ctx, query, args...)
	return res, errors.Wrapf(err, "executing %s", query)
}

// get scans the single row returned by the given query into dest
func (te txExecutor) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	query, args, err := te.prepare(query, args...)
	if err != nil {
		return err
	}
	defer logQuery(time.Now(), query, args)
	return errors.Wrapf(te.tx.GetContext(ctx, dest, query, args...), "querying %s", query)
}

// query returns the rows of the given query
func (te txExecutor) query(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	query, args, err := te.prepare(query, args...)
	if err != nil {
		return nil, err
	}
	defer logQuery(time.Now(), query, args)
	rows, err := te.tx.QueryxContext(ctx, query, args...)
	return rows, errors.Wrapf(err, "querying %s", query)
}

// prepare expands slice arguments and rebinds the query to the driver's
// placeholders.
func (te txExecutor) prepare(query string, args ...interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, errors.Wrapf(err, "expanding %s", query)
	}
	return te.tx.Rebind(query), args, nil
}

// logQuery logs the given query with its duration since start
func logQuery(start time.Time, query string, args []interface{}) {
	log.Debug("Query executed", "query", query, "args", args, "duration", time.Since(start))
}

// inTx runs fnct within a new transaction which is committed if fnct
// returns nil and rolled back otherwise.
func (db *DB) inTx(ctx context.Context, fnct func(te txExecutor) error) (rErr error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if rErr != nil {
			if err := tx.Rollback(); err != nil {
				log.Warn("Unable to rollback transaction", "error", err)
			}
			return
		}
		rErr = errors.Wrap(tx.Commit(), "committing transaction")
	}()
	return fnct(txExecutor{tx: tx})
}

// fkSQL returns the REFERENCES clause of a many2one column
func fkSQL(adapter dbAdapter, fi *Field) string {
	if !fi.fieldType.IsFKRelationType() || fi.relatedModel == nil {
		return ""
	}
	return fmt.Sprintf(" REFERENCES %s (id) ON DELETE %s", adapter.quoteTableName(fi.relatedModel.tableName), strings.ToUpper(string(fi.onDelete)))
}

// sel scans all the rows returned by the given query into dest
func (te txExecutor) sel(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	query, args, err := te.prepare(query, args...)
	if err != nil {
		return err
	}
	defer logQuery(time.Now(), query, args)
	return errors.Wrapf(te.tx.SelectContext(ctx, dest, query, args...), "querying %s", query)
}
