// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
	"github.com/pkg/errors"
)

// RecordCollection is a generic struct representing several
// records of a model.
type RecordCollection struct {
	env   Environment
	model *Model
	ids   []int64
	query Query
}

// newRecordCollection returns a new empty RecordCollection in the
// given environment for the given model.
func newRecordCollection(env Environment, model *Model) *RecordCollection {
	return &RecordCollection{
		env:   env,
		model: model,
	}
}

// String returns the string representation of a RecordSet
func (rc *RecordCollection) String() string {
	idsStr := make([]string, len(rc.ids))
	for i, id := range rc.ids {
		idsStr[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s(%s)", rc.model.name, strings.Join(idsStr, ","))
}

// Env returns the RecordSet's Environment
func (rc *RecordCollection) Env() Environment {
	return rc.env
}

// ModelName returns the model name of the RecordSet
func (rc *RecordCollection) ModelName() string {
	return rc.model.name
}

// Model returns the Model of the RecordSet
func (rc *RecordCollection) Model() *Model {
	return rc.model
}

// IDs returns the ids of the records in this RecordCollection
func (rc *RecordCollection) IDs() []int64 {
	res := make([]int64, len(rc.ids))
	copy(res, rc.ids)
	return res
}

// ID returns the ID of the first record of this RecordCollection or 0
// if it is empty.
func (rc *RecordCollection) ID() int64 {
	if len(rc.ids) == 0 {
		return 0
	}
	return rc.ids[0]
}

// Len returns the number of records in this RecordCollection
func (rc *RecordCollection) Len() int {
	return len(rc.ids)
}

// IsEmpty returns true if this RecordCollection has no record
func (rc *RecordCollection) IsEmpty() bool {
	return len(rc.ids) == 0
}

// clone returns a copy of this RecordCollection
func (rc *RecordCollection) clone() *RecordCollection {
	res := *rc
	res.ids = rc.IDs()
	res.query.predicates = append([]Predicate(nil), rc.query.predicates...)
	return &res
}

// withIDs returns a copy of this RecordCollection with the given ids,
// removing duplicates.
func (rc *RecordCollection) withIDs(ids []int64) *RecordCollection {
	res := rc.clone()
	res.ids = make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res.ids = append(res.ids, id)
	}
	return res
}

// Browse returns a new RecordCollection with the records with the given ids.
// Existence of the records is only checked when they are used.
func (rc *RecordCollection) Browse(ids ...int64) *RecordCollection {
	return rc.withIDs(ids)
}

// Limit returns a copy of this RecordCollection whose searches return
// at most limit records.
func (rc *RecordCollection) Limit(limit int) *RecordCollection {
	res := rc.clone()
	res.query.limit = limit
	return res
}

// Offset returns a copy of this RecordCollection whose searches skip
// the first offset records.
func (rc *RecordCollection) Offset(offset int) *RecordCollection {
	res := rc.clone()
	res.query.offset = offset
	return res
}

// checkReady returns an error if records cannot be accessed yet
func (rc *RecordCollection) checkReady() error {
	if !rc.env.registry.BootStrapped() {
		return ErrNotBootstrapped
	}
	if rc.env.db == nil {
		return errors.New("no database in environment")
	}
	return nil
}

// Create inserts a record in the database with the given data and
// returns it. Fields that are not given take their default value, or
// NULL if they have none.
func (rc *RecordCollection) Create(ctx context.Context, data FieldMap) (*RecordCollection, error) {
	if err := rc.checkReady(); err != nil {
		return nil, err
	}
	values, err := rc.convertData(data)
	if err != nil {
		return nil, err
	}
	for _, fi := range rc.model.fields.stored() {
		if _, ok := values[fi]; ok || !fi.isWritable() {
			continue
		}
		switch {
		case fi.defaultFunc != nil:
			val, err := convertValue(fi, fi.defaultFunc(rc.env))
			if err != nil {
				return nil, errors.Wrapf(err, "default value of %s.%s", rc.model.name, fi.name)
			}
			values[fi] = val
		case fi.fieldType == fieldtype.Boolean:
			values[fi] = false
		}
	}
	for _, fi := range rc.model.fields.stored() {
		if fi.required && fi.isWritable() && values[fi] == nil {
			return nil, errors.Wrapf(ErrRequiredField, "%s.%s", rc.model.name, fi.name)
		}
	}
	now := dates.Now()
	values[rc.model.fields.MustGet("CreateDate")] = now
	values[rc.model.fields.MustGet("WriteDate")] = now

	var (
		cols         []string
		placeholders []string
		args         []interface{}
	)
	for _, fi := range rc.model.fields.stored() {
		val, ok := values[fi]
		if !ok {
			continue
		}
		cols = append(cols, fi.json)
		placeholders = append(placeholders, "?")
		args = append(args, val)
	}
	adapter := rc.env.db.adapter
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		adapter.quoteTableName(rc.model.tableName), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	var id int64
	err = rc.env.db.inTx(ctx, func(te txExecutor) error {
		if err := rc.checkRelations(ctx, te, values); err != nil {
			return err
		}
		return te.get(ctx, &id, query, args...)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s record", rc.model.name)
	}
	log.Debug("Record created", "model", rc.model.name, "id", id)
	return rc.withIDs([]int64{id}), nil
}

// Write updates the records of this RecordCollection with the given data.
// Fields that are not given are left unchanged.
func (rc *RecordCollection) Write(ctx context.Context, data FieldMap) error {
	if err := rc.checkReady(); err != nil {
		return err
	}
	values, err := rc.convertData(data)
	if err != nil {
		return err
	}
	for fi, val := range values {
		if fi.required && val == nil {
			return errors.Wrapf(ErrRequiredField, "%s.%s cannot be cleared", rc.model.name, fi.name)
		}
	}
	if rc.IsEmpty() {
		return nil
	}
	values[rc.model.fields.MustGet("WriteDate")] = dates.Now()
	var (
		sets []string
		args []interface{}
	)
	for _, fi := range rc.model.fields.stored() {
		val, ok := values[fi]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = ?", fi.json))
		args = append(args, val)
	}
	args = append(args, rc.ids)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id IN (?)`,
		rc.env.db.adapter.quoteTableName(rc.model.tableName), strings.Join(sets, ", "))
	err = rc.env.db.inTx(ctx, func(te txExecutor) error {
		if err := rc.checkExists(ctx, te); err != nil {
			return err
		}
		if err := rc.checkRelations(ctx, te, values); err != nil {
			return err
		}
		_, err := te.exec(ctx, query, args...)
		return err
	})
	return errors.Wrapf(err, "updating %s", rc)
}

// Unlink deletes the records of this RecordCollection from the database.
// It returns the number of deleted records.
func (rc *RecordCollection) Unlink(ctx context.Context) (int64, error) {
	if err := rc.checkReady(); err != nil {
		return 0, err
	}
	if rc.IsEmpty() {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id IN (?)`, rc.env.db.adapter.quoteTableName(rc.model.tableName))
	var num int64
	err := rc.env.db.inTx(ctx, func(te txExecutor) error {
		res, err := te.exec(ctx, query, rc.ids)
		if err != nil {
			return err
		}
		num, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, errors.Wrapf(err, "deleting %s", rc)
	}
	log.Debug("Records deleted", "model", rc.model.name, "count", num)
	return num, nil
}

// Read returns the values of the given fields for each record of this
// RecordCollection, in the order of its ids. All fields are returned if
// none is given. The id is always returned.
//
// Maps are keyed by JSON names. Unset fields are nil, except booleans
// which are false.
func (rc *RecordCollection) Read(ctx context.Context, fields ...string) ([]FieldMap, error) {
	if err := rc.checkReady(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = rc.model.fields.Names()
	}
	fInfos := []*Field{rc.model.fields.MustGet("ID")}
	cols := []string{"id"}
	for _, f := range fields {
		fi, ok := rc.model.fields.Get(f)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%s.%s", rc.model.name, f)
		}
		if !fi.isStored() {
			continue
		}
		fInfos = append(fInfos, fi)
		cols = append(cols, fi.json)
	}
	if rc.IsEmpty() {
		return []FieldMap{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (?)`,
		strings.Join(cols, ", "), rc.env.db.adapter.quoteTableName(rc.model.tableName))
	byID := make(map[int64]FieldMap, len(rc.ids))
	err := rc.env.db.inTx(ctx, func(te txExecutor) error {
		rows, err := te.query(ctx, query, rc.ids)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			raw, err := rows.SliceScan()
			if err != nil {
				return errors.Wrap(err, "scanning row")
			}
			fm := make(FieldMap, len(fInfos))
			for i, fi := range fInfos {
				val, err := convertFromDB(fi, raw[i])
				if err != nil {
					return err
				}
				fm[fi.json] = val
			}
			byID[fm["id"].(int64)] = fm
		}
		return errors.Wrap(rows.Err(), "iterating rows")
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", rc)
	}
	res := make([]FieldMap, 0, len(rc.ids))
	for _, id := range rc.ids {
		fm, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(ErrRecordNotFound, "%s(%d)", rc.model.name, id)
		}
		res = append(res, fm)
	}
	return res, nil
}

// ReadOne returns the values of the given fields of this singleton.
func (rc *RecordCollection) ReadOne(ctx context.Context, fields ...string) (FieldMap, error) {
	if rc.Len() != 1 {
		return nil, errors.Errorf("expected singleton, got %s", rc)
	}
	fms, err := rc.Read(ctx, fields...)
	if err != nil {
		return nil, err
	}
	return fms[0], nil
}

// Get returns the value of the given field of this singleton.
func (rc *RecordCollection) Get(ctx context.Context, field string) (interface{}, error) {
	if rc.Len() != 1 {
		return nil, errors.Errorf("expected singleton, got %s", rc)
	}
	fi, ok := rc.model.fields.Get(field)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownField, "%s.%s", rc.model.name, field)
	}
	fms, err := rc.Read(ctx, fi.name)
	if err != nil {
		return nil, err
	}
	return fms[0][fi.json], nil
}

// Search returns a new RecordCollection with the records of the model
// matching all the given predicates, ordered by id.
func (rc *RecordCollection) Search(ctx context.Context, predicates ...Predicate) (*RecordCollection, error) {
	if err := rc.checkReady(); err != nil {
		return nil, err
	}
	q := rc.query
	q.predicates = append(append([]Predicate(nil), q.predicates...), predicates...)
	adapter := rc.env.db.adapter
	where, args, err := q.whereClause(adapter, rc.model)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id FROM %s%s ORDER BY id%s`, adapter.quoteTableName(rc.model.tableName), where, q.limitClause())
	var ids []int64
	err = rc.env.db.inTx(ctx, func(te txExecutor) error {
		return te.sel(ctx, &ids, query, args...)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "searching %s", rc.model.name)
	}
	return rc.withIDs(ids), nil
}

// SearchAll returns a RecordCollection with all the records of the model
func (rc *RecordCollection) SearchAll(ctx context.Context) (*RecordCollection, error) {
	return rc.Search(ctx)
}

// SearchCount returns the number of records matching the given
// predicates, ignoring limit and offset.
func (rc *RecordCollection) SearchCount(ctx context.Context, predicates ...Predicate) (int, error) {
	if err := rc.checkReady(); err != nil {
		return 0, err
	}
	q := Query{predicates: append(append([]Predicate(nil), rc.query.predicates...), predicates...)}
	adapter := rc.env.db.adapter
	where, args, err := q.whereClause(adapter, rc.model)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, adapter.quoteTableName(rc.model.tableName), where)
	var cnt int
	err = rc.env.db.inTx(ctx, func(te txExecutor) error {
		return te.get(ctx, &cnt, query, args...)
	})
	return cnt, errors.Wrapf(err, "counting %s", rc.model.name)
}

// convertData checks and converts the given data to database values
func (rc *RecordCollection) convertData(data FieldMap) (map[*Field]interface{}, error) {
	given, err := data.resolve(rc.model)
	if err != nil {
		return nil, err
	}
	values := make(map[*Field]interface{}, len(given))
	for fi, v := range given {
		if !fi.isWritable() {
			return nil, errors.Wrapf(ErrInvalidValue, "%s.%s is read only", rc.model.name, fi.name)
		}
		val, err := convertValue(fi, v)
		if err != nil {
			return nil, err
		}
		values[fi] = val
	}
	return values, nil
}

// checkExists returns ErrRecordNotFound if a record of this
// RecordCollection is not in the database.
func (rc *RecordCollection) checkExists(ctx context.Context, te txExecutor) error {
	var cnt int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id IN (?)`, rc.env.db.adapter.quoteTableName(rc.model.tableName))
	if err := te.get(ctx, &cnt, query, rc.ids); err != nil {
		return err
	}
	if cnt != len(rc.ids) {
		return errors.Wrapf(ErrRecordNotFound, "%s", rc)
	}
	return nil
}

// checkRelations returns an error if a many2one value of values
// references a record that does not exist.
func (rc *RecordCollection) checkRelations(ctx context.Context, te txExecutor, values map[*Field]interface{}) error {
	for fi, val := range values {
		if !fi.fieldType.IsFKRelationType() || val == nil {
			continue
		}
		var cnt int
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, rc.env.db.adapter.quoteTableName(fi.relatedModel.tableName))
		if err := te.get(ctx, &cnt, query, val); err != nil {
			return err
		}
		if cnt == 0 {
			return errors.Wrapf(ErrInvalidValue, "%s.%s references unknown %s(%d)", rc.model.name, fi.name, fi.relatedModelName, val)
		}
	}
	return nil
}
