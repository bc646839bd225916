// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/operator"
	"github.com/jmoiron/sqlx"
	// PostgreSQL driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type postgresAdapter struct{}

var pgOperators = map[operator.Operator]string{
	operator.Equals:         "= ?",
	operator.NotEquals:      "!= ?",
	operator.Like:           "LIKE ?",
	operator.ILike:          "ILIKE ?",
	operator.In:             "IN (?)",
	operator.NotIn:          "NOT IN (?)",
	operator.Lower:          "< ?",
	operator.LowerOrEqual:   "<= ?",
	operator.Greater:        "> ?",
	operator.GreaterOrEqual: ">= ?",
}

var pgTypes = map[fieldtype.Type]string{
	fieldtype.Boolean:   "boolean",
	fieldtype.Char:      "character varying",
	fieldtype.Text:      "text",
	fieldtype.Date:      "date",
	fieldtype.DateTime:  "timestamp without time zone",
	fieldtype.Integer:   "integer",
	fieldtype.Float:     "numeric",
	fieldtype.Selection: "character varying",
	fieldtype.Many2One:  "integer",
}

// connectionString returns the connection string for the given parameters
func (d *postgresAdapter) connectionString(params ConnectionParams) string {
	var parts []string
	for _, p := range []struct{ key, value string }{
		{"host", params.Host},
		{"port", params.Port},
		{"user", params.User},
		{"password", params.Password},
		{"dbname", params.DBName},
		{"sslmode", params.SSLMode},
	} {
		if p.value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", p.key, p.value))
	}
	return strings.Join(parts, " ")
}

// configure is a no op for postgres
func (d *postgresAdapter) configure(*sqlx.DB) {}

// primaryKeySQL returns the SQL definition of the id column
func (d *postgresAdapter) primaryKeySQL() string {
	return "serial NOT NULL PRIMARY KEY"
}

// operatorSQL returns the sql string for the given operator
func (d *postgresAdapter) operatorSQL(do operator.Operator) string {
	return pgOperators[do]
}

// typeSQL returns the sql type string for the given Field
func (d *postgresAdapter) typeSQL(fi *Field) string {
	typ := pgTypes[fi.fieldType]
	if fi.fieldType == fieldtype.Char && fi.size > 0 {
		typ = fmt.Sprintf("%s(%d)", typ, fi.size)
	}
	return typ
}

// columnSQLDefinition returns the SQL type string, including columns constraints if any
func (d *postgresAdapter) columnSQLDefinition(fi *Field, null bool) string {
	res := d.typeSQL(fi)
	if fi.required && !null {
		res += " NOT NULL"
	}
	return res + fkSQL(d, fi)
}

// quoteTableName returns the given table name with sql quotes
func (d *postgresAdapter) quoteTableName(tableName string) string {
	return fmt.Sprintf(`"%s"`, tableName)
}

// tables returns a map of table names of the database
func (d *postgresAdapter) tables(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	var resList []string
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
			AND table_schema NOT IN ('pg_catalog', 'information_schema')`
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
func (d *postgresAdapter) columns(ctx context.Context, db *sqlx.DB, tableName string) (map[string]ColumnData, error) {
	var colData []struct {
		ColumnName string `db:"column_name"`
		DataType   string `db:"data_type"`
		IsNullable string `db:"is_nullable"`
	}
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema') AND table_name = $1`
	if err := db.SelectContext(ctx, &colData, query, tableName); err != nil {
		return nil, errors.Wrapf(err, "listing columns of %s", tableName)
	}
	res := make(map[string]ColumnData, len(colData))
	for _, col := range colData {
		res[col.ColumnName] = ColumnData{
			ColumnName: col.ColumnName,
			DataType:   col.DataType,
			IsNullable: col.IsNullable == "YES",
		}
	}
	return res, nil
}

// indexExists returns true if an index with the given name exists in the given table
func (d *postgresAdapter) indexExists(ctx context.Context, db *sqlx.DB, table string, name string) (bool, error) {
	var cnt int
	query := `SELECT COUNT(*) FROM pg_indexes WHERE tablename = $1 AND indexname = $2`
	if err := db.GetContext(ctx, &cnt, query, table, name); err != nil {
		return false, errors.Wrapf(err, "looking for index %s", name)
	}
	return cnt > 0, nil
}

func init() {
	registerDBAdapter("postgres", new(postgresAdapter))
}

var _ dbAdapter = new(postgresAdapter)
