// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/types"
	"github.com/hexya-erp/saledeliverydate/src/tools/strutils"
	"github.com/pkg/errors"
)

// fieldNameRegex matches valid model and field names
var fieldNameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// A FieldDefinition is a struct that declares a new field in a fields collection;
type FieldDefinition interface {
	// DeclareField creates a new Field with the given name and returns it.
	DeclareField(*FieldsCollection, string) (*Field, error)
}

// A Field holds the meta information about a model's field.
type Field struct {
	model            *Model
	name             string
	json             string
	description      string
	help             string
	required         bool
	readOnly         bool
	index            bool
	size             int
	fieldType        fieldtype.Type
	goType           reflect.Type
	selection        types.Selection
	relatedModelName string
	relatedModel     *Model
	onDelete         OnDeleteAction
	defaultFunc      func(Environment) interface{}
	extension        string
}

// Name returns the Go name of this field
func (f *Field) Name() string {
	return f.name
}

// JSON returns the json name of this field, which is also its column name
func (f *Field) JSON() string {
	return f.json
}

// Type returns the fieldtype of this field
func (f *Field) Type() fieldtype.Type {
	return f.fieldType
}

// String returns the human readable label of this field
func (f *Field) String() string {
	return f.description
}

// Help returns the help text of this field
func (f *Field) Help() string {
	return f.help
}

// Required returns true if this field must always have a value
func (f *Field) Required() bool {
	return f.required
}

// Extension returns the name@version of the extension that added this
// field, or an empty string if the field belongs to the model itself.
func (f *Field) Extension() string {
	return f.extension
}

// Model returns the model of this field
func (f *Field) Model() *Model {
	return f.model
}

// isStored returns true if this field has a column in the model's table
func (f *Field) isStored() bool {
	return f.json != "id"
}

// isWritable returns true if this field can be set by Create and Write
func (f *Field) isWritable() bool {
	return !f.readOnly
}

// SetProperty sets the given property value in this field
// This method uses switch as they are unexported struct fields
func (f *Field) SetProperty(property string, value interface{}) {
	switch property {
	case "description":
		f.description = value.(string)
	case "help":
		f.help = value.(string)
	case "required":
		f.required = value.(bool)
	case "index":
		f.index = value.(bool)
	case "size":
		f.size = value.(int)
	case "selection":
		f.selection = value.(types.Selection)
	case "relationModel":
		f.relatedModelName = value.(string)
	case "onDelete":
		f.onDelete = value.(OnDeleteAction)
	case "defaultFunc":
		f.defaultFunc = value.(func(Environment) interface{})
	default:
		log.Panic("Unknown field property", "model", f.model.name, "field", f.name, "property", property)
	}
}

// info returns the FieldInfo of this field
func (f *Field) info() *FieldInfo {
	return &FieldInfo{
		Name:      f.name,
		JSON:      f.json,
		String:    f.description,
		Help:      f.help,
		Type:      f.fieldType,
		Required:  f.required,
		ReadOnly:  f.readOnly,
		Size:      f.size,
		Selection: f.selection,
		Relation:  f.relatedModelName,
		Extension: f.extension,
	}
}

// FieldInfo is the exportable field information struct
type FieldInfo struct {
	Name      string          `json:"name"`
	JSON      string          `json:"json"`
	String    string          `json:"string"`
	Help      string          `json:"help"`
	Type      fieldtype.Type  `json:"type"`
	Required  bool            `json:"required"`
	ReadOnly  bool            `json:"readonly"`
	Size      int             `json:"size,omitempty"`
	Selection types.Selection `json:"selection,omitempty"`
	Relation  string          `json:"relation,omitempty"`
	Extension string          `json:"extension,omitempty"`
}

// CreateFieldFromStruct creates a Field of the given type from the common
// attributes of a field definition struct: JSON, String, Help, Required,
// Index and Default. Type specific attributes are set afterwards with
// SetProperty.
func CreateFieldFromStruct(fc *FieldsCollection, fStruct interface{}, name string, fieldType fieldtype.Type) (*Field, error) {
	if !fieldType.IsValid() {
		return nil, errors.Wrapf(ErrInvalidField, "unknown type '%s'", fieldType)
	}
	val := reflect.Indirect(reflect.ValueOf(fStruct))
	if val.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidField, "definition of %s is not a struct", name)
	}
	stringAttr := func(attr string) string {
		if v := val.FieldByName(attr); v.IsValid() && v.Kind() == reflect.String {
			return v.String()
		}
		return ""
	}
	boolAttr := func(attr string) bool {
		if v := val.FieldByName(attr); v.IsValid() && v.Kind() == reflect.Bool {
			return v.Bool()
		}
		return false
	}
	json, str := getJSONAndString(name, fieldType, stringAttr("JSON"), stringAttr("String"))
	if json == "id" || strings.ContainsAny(json, " .\"'") {
		return nil, errors.Wrapf(ErrInvalidField, "invalid column name '%s'", json)
	}
	fi := &Field{
		model:       fc.model,
		name:        name,
		json:        json,
		description: str,
		help:        stringAttr("Help"),
		required:    boolAttr("Required"),
		index:       boolAttr("Index"),
		fieldType:   fieldType,
		goType:      fieldType.DefaultGoType(),
	}
	if def := val.FieldByName("Default"); def.IsValid() && !def.IsNil() {
		defaultFunc, ok := def.Interface().(func(Environment) interface{})
		if !ok {
			return nil, errors.Wrapf(ErrInvalidField, "default of %s has type %s", name, def.Type())
		}
		fi.defaultFunc = defaultFunc
	}
	return fi, nil
}

// getJSONAndString computes the default json and description fields for the
// given name. It returns this default value unless given json or str are not
// empty strings, in which case the latters are returned.
func getJSONAndString(name string, typ fieldtype.Type, json, str string) (string, string) {
	if json == "" {
		json = SnakeCaseFieldName(name, typ)
	}
	if str == "" {
		str = strutils.Title(name)
	}
	return json, str
}

// SnakeCaseFieldName returns the default snake case name of a field,
// adding the _id suffix to many2one fields.
func SnakeCaseFieldName(fName string, typ fieldtype.Type) string {
	res := strutils.SnakeCase(fName)
	if typ.IsFKRelationType() && !strings.HasSuffix(res, "_id") {
		res += "_id"
	}
	return res
}

// OnDeleteAction defines what to do with a many2one field when the
// referenced record is deleted.
type OnDeleteAction string

// Available OnDeleteActions
const (
	SetNull  OnDeleteAction = "set null"
	Restrict OnDeleteAction = "restrict"
	Cascade  OnDeleteAction = "cascade"
)

// DefaultValue returns a func(Environment) interface{} that always returns value.
func DefaultValue(value interface{}) func(Environment) interface{} {
	return func(Environment) interface{} {
		return value
	}
}

// FieldsCollection is a collection of Field instances in a model.
type FieldsCollection struct {
	sync.RWMutex
	model          *Model
	registryByName map[string]*Field
	registryByJSON map[string]*Field
	names          []string
}

// newFieldsCollection returns a pointer to a new empty FieldsCollection
func newFieldsCollection() *FieldsCollection {
	return &FieldsCollection{
		registryByName: make(map[string]*Field),
		registryByJSON: make(map[string]*Field),
	}
}

// Get returns the Field of the field with the given name.
// name can be either the name of the field or its JSON name.
func (fc *FieldsCollection) Get(name string) (fi *Field, ok bool) {
	fc.RLock()
	defer fc.RUnlock()
	fi, ok = fc.registryByName[name]
	if !ok {
		fi, ok = fc.registryByJSON[name]
	}
	return
}

// MustGet returns the Field of the field with the given name or panics
// name can be either the name of the field or its JSON name.
func (fc *FieldsCollection) MustGet(name string) *Field {
	fi, ok := fc.Get(name)
	if !ok {
		log.Panic("Unknown field in model", "model", fc.model.name, "field", name)
	}
	return fi
}

// Names returns the names of all fields in declaration order
func (fc *FieldsCollection) Names() []string {
	fc.RLock()
	defer fc.RUnlock()
	res := make([]string, len(fc.names))
	copy(res, fc.names)
	return res
}

// stored returns the stored fields in declaration order, without the ID.
func (fc *FieldsCollection) stored() []*Field {
	fc.RLock()
	defer fc.RUnlock()
	var res []*Field
	for _, name := range fc.names {
		if fi := fc.registryByName[name]; fi.isStored() {
			res = append(res, fi)
		}
	}
	return res
}

// add the given Field to the FieldsCollection.
func (fc *FieldsCollection) add(fInfo *Field) {
	fc.Lock()
	defer fc.Unlock()
	if _, exists := fc.registryByName[fInfo.name]; exists {
		panic(fmt.Sprintf("field %s already exists in %s", fInfo.name, fc.model.name))
	}
	fc.registryByName[fInfo.name] = fInfo
	fc.registryByJSON[fInfo.json] = fInfo
	fc.names = append(fc.names, fInfo.name)
}
