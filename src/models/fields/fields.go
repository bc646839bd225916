// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package fields

import (
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/hexya-erp/saledeliverydate/src/models/types"
	"github.com/pkg/errors"
)

// A Boolean is a field for storing true/false values.
type Boolean struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates a boolean field for the given models.FieldsCollection with the given name.
func (bf Boolean) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &bf, name, fieldtype.Boolean)
}

// A Char is a field for storing short text. There is no
// default max size, but it can be forced by setting the Size value.
type Char struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Size     int
	Default  func(models.Environment) interface{}
}

// DeclareField creates a char field for the given models.FieldsCollection with the given name.
func (cf Char) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	fInfo, err := models.CreateFieldFromStruct(fc, &cf, name, fieldtype.Char)
	if err != nil {
		return nil, err
	}
	if cf.Size < 0 {
		return nil, errors.Wrapf(models.ErrInvalidField, "negative size for %s", name)
	}
	fInfo.SetProperty("size", cf.Size)
	return fInfo, nil
}

// A Date is a field for storing dates without time.
//
// An empty Date is stored as NULL.
type Date struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates a date field for the given models.FieldsCollection with the given name.
func (df Date) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &df, name, fieldtype.Date)
}

// A DateTime is a field for storing dates with time, in UTC.
type DateTime struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates a datetime field for the given models.FieldsCollection with the given name.
func (df DateTime) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &df, name, fieldtype.DateTime)
}

// A Float is a field for storing decimal numbers.
type Float struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates a float field for the given models.FieldsCollection with the given name.
func (ff Float) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &ff, name, fieldtype.Float)
}

// An Integer is a field for storing non decimal numbers.
type Integer struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Index    bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates an integer field for the given models.FieldsCollection with the given name.
func (i Integer) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &i, name, fieldtype.Integer)
}

// Many2One is a field storing a reference to a single record of
// RelationModel. Its column is suffixed with _id by default.
type Many2One struct {
	JSON          string
	String        string
	Help          string
	RelationModel string
	Required      bool
	Index         bool
	OnDelete      models.OnDeleteAction
	Default       func(models.Environment) interface{}
}

// DeclareField creates a many2one field for the given models.FieldsCollection with the given name.
func (mf Many2One) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	if mf.RelationModel == "" {
		return nil, errors.Wrapf(models.ErrInvalidField, "no relation model for %s", name)
	}
	fInfo, err := models.CreateFieldFromStruct(fc, &mf, name, fieldtype.Many2One)
	if err != nil {
		return nil, err
	}
	onDelete := models.SetNull
	if mf.OnDelete != "" {
		onDelete = mf.OnDelete
	}
	if mf.Required && onDelete == models.SetNull {
		onDelete = models.Restrict
	}
	fInfo.SetProperty("relationModel", mf.RelationModel)
	fInfo.SetProperty("onDelete", onDelete)
	return fInfo, nil
}

// A Selection is a field that can take one of the keys of Selection.
type Selection struct {
	JSON      string
	String    string
	Help      string
	Selection types.Selection
	Required  bool
	Index     bool
	Default   func(models.Environment) interface{}
}

// DeclareField creates a selection field for the given models.FieldsCollection with the given name.
func (sf Selection) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	if len(sf.Selection) == 0 {
		return nil, errors.Wrapf(models.ErrInvalidField, "empty selection for %s", name)
	}
	fInfo, err := models.CreateFieldFromStruct(fc, &sf, name, fieldtype.Selection)
	if err != nil {
		return nil, err
	}
	fInfo.SetProperty("selection", sf.Selection)
	return fInfo, nil
}

// A Text is a field for storing long text. There is no default max size.
type Text struct {
	JSON     string
	String   string
	Help     string
	Required bool
	Default  func(models.Environment) interface{}
}

// DeclareField creates a text field for the given models.FieldsCollection with the given name.
func (tf Text) DeclareField(fc *models.FieldsCollection, name string) (*models.Field, error) {
	return models.CreateFieldFromStruct(fc, &tf, name, fieldtype.Text)
}

var (
	_ models.FieldDefinition = Boolean{}
	_ models.FieldDefinition = Char{}
	_ models.FieldDefinition = Date{}
	_ models.FieldDefinition = DateTime{}
	_ models.FieldDefinition = Float{}
	_ models.FieldDefinition = Integer{}
	_ models.FieldDefinition = Many2One{}
	_ models.FieldDefinition = Selection{}
	_ models.FieldDefinition = Text{}
)
