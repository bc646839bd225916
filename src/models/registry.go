// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"reflect"
	"sort"
	"sync"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/tools/logging"
	"github.com/hexya-erp/saledeliverydate/src/tools/strutils"
	"github.com/pkg/errors"
)

var log logging.Logger

func init() {
	log = logging.GetLogger("models")
}

// A Registry holds the definitions of all the business objects of an
// application. Models and extensions are declared on it during startup,
// then it is bootstrapped and becomes read-only.
type Registry struct {
	sync.RWMutex
	bootstrapped        bool
	registryByName      map[string]*Model
	registryByTableName map[string]*Model
}

// NewRegistry returns a pointer to a new empty Registry
func NewRegistry() *Registry {
	return &Registry{
		registryByName:      make(map[string]*Model),
		registryByTableName: make(map[string]*Model),
	}
}

// Get the given Model by name or by table name
func (r *Registry) Get(nameOrTable string) (mi *Model, ok bool) {
	r.RLock()
	defer r.RUnlock()
	mi, ok = r.registryByName[nameOrTable]
	if !ok {
		mi, ok = r.registryByTableName[nameOrTable]
	}
	return
}

// MustGet the given Model by name or by table name.
// It panics if the Model does not exist
func (r *Registry) MustGet(nameOrTable string) *Model {
	mi, ok := r.Get(nameOrTable)
	if !ok {
		log.Panic("Unknown model", "model", nameOrTable)
	}
	return mi
}

// Models returns all the models of this registry sorted by name
func (r *Registry) Models() []*Model {
	r.RLock()
	defer r.RUnlock()
	res := make([]*Model, 0, len(r.registryByName))
	for _, m := range r.registryByName {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].name < res[j].name
	})
	return res
}

// BootStrapped returns true if this registry has been bootstrapped
func (r *Registry) BootStrapped() bool {
	r.RLock()
	defer r.RUnlock()
	return r.bootstrapped
}

// NewModel declares a new model with the given name in this registry.
// The model gets the ID, CreateDate and WriteDate fields.
//
// It panics if a model with this name already exists or if the
// registry is bootstrapped.
func (r *Registry) NewModel(name string) *Model {
	m, err := r.declareModel(name)
	if err != nil {
		log.Panic("Unable to declare model", "model", name, "error", err)
	}
	return m
}

// declareModel creates and populates a new Model with the given name
func (r *Registry) declareModel(name string) (*Model, error) {
	r.Lock()
	defer r.Unlock()
	if r.bootstrapped {
		return nil, errors.Wrapf(ErrBootstrapped, "declaring model %s", name)
	}
	if !fieldNameRegex.MatchString(name) {
		return nil, errors.Errorf("invalid model name '%s'", name)
	}
	tableName := strutils.SnakeCase(name)
	if _, exists := r.registryByName[name]; exists {
		return nil, errors.Errorf("model %s already exists", name)
	}
	if _, exists := r.registryByTableName[tableName]; exists {
		return nil, errors.Errorf("table %s of model %s is already used", tableName, name)
	}
	mi := &Model{
		name:      name,
		tableName: tableName,
		registry:  r,
		fields:    newFieldsCollection(),
	}
	mi.fields.model = mi
	mi.fields.add(&Field{
		model:       mi,
		name:        "ID",
		json:        "id",
		description: "ID",
		required:    true,
		readOnly:    true,
		fieldType:   fieldtype.Integer,
		goType:      reflect.TypeOf(int64(0)),
	})
	for _, f := range []struct{ name, json, desc string }{
		{"CreateDate", "create_date", "Created On"},
		{"WriteDate", "write_date", "Last Updated On"},
	} {
		mi.fields.add(&Field{
			model:       mi,
			name:        f.name,
			json:        f.json,
			description: f.desc,
			readOnly:    true,
			fieldType:   fieldtype.DateTime,
			goType:      fieldtype.DateTime.DefaultGoType(),
		})
	}
	r.registryByName[name] = mi
	r.registryByTableName[tableName] = mi
	log.Debug("Model declared", "model", name)
	return mi, nil
}

// BootStrap freezes the registry after resolving the relations between
// models. Models, fields and extensions cannot be declared afterwards.
func (r *Registry) BootStrap() error {
	r.Lock()
	defer r.Unlock()
	if r.bootstrapped {
		return ErrBootstrapped
	}
	for _, m := range r.registryByName {
		for _, fi := range m.fields.registryByName {
			if !fi.fieldType.IsRelationType() {
				continue
			}
			rm, ok := r.registryByName[fi.relatedModelName]
			if !ok {
				return errors.Wrapf(ErrUnknownModel, "field %s.%s relates to '%s'", m.name, fi.name, fi.relatedModelName)
			}
			fi.relatedModel = rm
		}
	}
	r.bootstrapped = true
	log.Info("Models bootstrapped", "count", len(r.registryByName))
	return nil
}

// A Model is the definition of a business object (e.g. a partner, a sale order, etc.)
type Model struct {
	name       string
	tableName  string
	registry   *Registry
	fields     *FieldsCollection
	extensions []Extension
}

// Name returns the name of this model
func (m *Model) Name() string {
	return m.name
}

// TableName return the db table name
func (m *Model) TableName() string {
	return m.tableName
}

// Fields returns the fields collection of this model
func (m *Model) Fields() *FieldsCollection {
	return m.fields
}

// Extensions returns the extensions applied to this model, in order
func (m *Model) Extensions() []Extension {
	m.registry.RLock()
	defer m.registry.RUnlock()
	res := make([]Extension, len(m.extensions))
	copy(res, m.extensions)
	return res
}

// AddFields adds the given fields to the model.
//
// This is meant for the module that owns the model. Other modules must
// declare an Extension instead. It panics if a field already exists.
func (m *Model) AddFields(fields map[string]FieldDefinition) {
	m.registry.Lock()
	defer m.registry.Unlock()
	if err := m.addFields(fields, ""); err != nil {
		log.Panic("Unable to add fields", "model", m.name, "error", err)
	}
}

// addFields declares all the given fields and adds them to the model
// only if all of them are valid. origin is the extension adding them.
//
// The caller must hold the registry lock.
func (m *Model) addFields(fields map[string]FieldDefinition, origin string) error {
	if m.registry.bootstrapped {
		return errors.Wrapf(ErrBootstrapped, "adding fields to %s", m.name)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	newFields := make([]*Field, 0, len(names))
	newJSON := make(map[string]bool)
	for _, name := range names {
		def := fields[name]
		if def == nil {
			return errors.Wrapf(ErrInvalidField, "%s.%s has no definition", m.name, name)
		}
		if !fieldNameRegex.MatchString(name) {
			return errors.Wrapf(ErrInvalidField, "'%s' is not a valid field name", name)
		}
		if _, exists := m.fields.Get(name); exists {
			return errors.Wrapf(ErrFieldCollision, "%s.%s", m.name, name)
		}
		fi, err := def.DeclareField(m.fields, name)
		if err != nil {
			return errors.Wrapf(err, "%s.%s", m.name, name)
		}
		if _, exists := m.fields.Get(fi.json); exists || newJSON[fi.json] {
			return errors.Wrapf(ErrFieldCollision, "column %s of %s.%s", fi.json, m.name, name)
		}
		newJSON[fi.json] = true
		fi.extension = origin
		newFields = append(newFields, fi)
	}
	for _, fi := range newFields {
		m.fields.add(fi)
	}
	return nil
}

// FieldsGet returns the definition of each given field, or of all
// fields if none is given. The result map is indexed by JSON names.
func (m *Model) FieldsGet(fields ...string) (map[string]*FieldInfo, error) {
	if len(fields) == 0 {
		fields = m.fields.Names()
	}
	res := make(map[string]*FieldInfo, len(fields))
	for _, f := range fields {
		fi, ok := m.fields.Get(f)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%s.%s", m.name, f)
		}
		res[fi.json] = fi.info()
	}
	return res, nil
}
