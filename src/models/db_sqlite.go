// Copyright 2026 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/operator"
	"github.com/jmoiron/sqlx"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type sqliteAdapter struct{}

var sqliteOperators = map[operator.Operator]string{
	operator.Equals:         "= ?",
	operator.NotEquals:      "!= ?",
	operator.Like:           "LIKE ?",
	operator.ILike:          "LIKE ?",
	operator.In:             "IN (?)",
	operator.NotIn:          "NOT IN (?)",
	operator.Lower:          "< ?",
	operator.LowerOrEqual:   "<= ?",
	operator.Greater:        "> ?",
	operator.GreaterOrEqual: ">= ?",
}

var sqliteTypes = map[fieldtype.Type]string{
	fieldtype.Boolean:   "boolean",
	fieldtype.Char:      "varchar",
	fieldtype.Text:      "text",
	fieldtype.Date:      "date",
	fieldtype.DateTime:  "timestamp",
	fieldtype.Integer:   "integer",
	fieldtype.Float:     "real",
	fieldtype.Selection: "varchar",
	fieldtype.Many2One:  "integer",
}

// connectionString returns the file name of the database with the
// options of the driver. An empty DBName opens an in-memory database.
func (d *sqliteAdapter) connectionString(params ConnectionParams) string {
	name := params.DBName
	if name == "" {
		name = ":memory:"
	}
	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return name + sep + "_foreign_keys=1"
}

// configure restricts the pool to a single connection: each in-memory
// connection is a separate database.
func (d *sqliteAdapter) configure(db *sqlx.DB) {
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
}

// primaryKeySQL returns the SQL definition of the id column
func (d *sqliteAdapter) primaryKeySQL() string {
	return "integer PRIMARY KEY AUTOINCREMENT"
}

// operatorSQL returns the sql string for the given operator
func (d *sqliteAdapter) operatorSQL(do operator.Operator) string {
	return sqliteOperators[do]
}

// typeSQL returns the sql type string for the given Field
func (d *sqliteAdapter) typeSQL(fi *Field) string {
	typ := sqliteTypes[fi.fieldType]
	if fi.fieldType == fieldtype.Char && fi.size > 0 {
		typ = fmt.Sprintf("%s(%d)", typ, fi.size)
	}
	return typ
}

// columnSQLDefinition returns the SQL type string, including columns constraints if any
func (d *sqliteAdapter) columnSQLDefinition(fi *Field, null bool) string {
	res := d.typeSQL(fi)
	if fi.required && !null {
		res += " NOT NULL"
	}
	return res + fkSQL(d, fi)
}

// quoteTableName returns the given table name with sql quotes
func (d *sqliteAdapter) quoteTableName(tableName string) string {
	return fmt.Sprintf(`"%s"`, tableName)
}

// tables returns a map of table names of the database
func (d *sqliteAdapter) tables(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var resList []string
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	if err := db.SelectContext(ctx, &resList, query); err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}
	res := make(map[string]bool, len(resList))
	for _, tableName := range resList {
		res[tableName] = true
	}
	return res, nil
}

// columns returns a list of ColumnData for the given tableName
func (d *sqliteAdapter) columns(ctx context.Context, db *sqlx.DB, tableName string) (map[string]ColumnData, error) {
	var colData []struct {
		CID       int            `db:"cid"`
		Name      string         `db:"name"`
		Type      string         `db:"type"`
		NotNull   bool           `db:"notnull"`
		Default   sql.NullString `db:"dflt_value"`
		PKOrdinal int            `db:"pk"`
	}
	query := fmt.Sprintf(`PRAGMA table_info(%s)`, d.quoteTableName(tableName))
	if err := db.SelectContext(ctx, &colData, query); err != nil {
		return nil, errors.Wrapf(err, "listing columns of %s", tableName)
	}
	res := make(map[string]ColumnData, len(colData))
	for _, col := range colData {
		res[col.Name] = ColumnData{
			ColumnName: col.Name,
			DataType:   strings.ToLower(col.Type),
			IsNullable: !col.NotNull,
		}
	}
	return res, nil
}

// indexExists returns true if an index with the given name exists in the given table
func (d *sqliteAdapter) indexExists(ctx context.Context, db *sqlx.DB, table string, name string) (bool, error) {
	var cnt int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?`
	if err := db.GetContext(ctx, &cnt, query, table, name); err != nil {
		return false, errors.Wrapf(err, "looking for index %s", name)
	}
	return cnt > 0, nil
}

func init() {
	registerDBAdapter("sqlite3", new(sqliteAdapter))
}

var _ dbAdapter = new(sqliteAdapter)
