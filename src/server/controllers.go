// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/views"
	"github.com/pkg/errors"
)

// defaultLimit is the number of records returned by searchRead when no
// limit is given
const defaultLimit = 80

// listModules returns the manifests of the loaded modules
func listModules(c *Context) {
	c.JSON(http.StatusOK, c.instance.Modules)
}

// loadModel is a middleware that sets the pool of the model of the URL
func loadModel(c *Context) {
	rc, err := c.Env().PoolIfExists(c.Param("model"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Set("pool", rc)
	c.Next()
}

// fieldsGet returns the definition of the fields of the model
func fieldsGet(c *Context) {
	var fields []string
	if f := c.Query("fields"); f != "" {
		fields = strings.Split(f, ",")
	}
	res, err := c.Pool().Model().FieldsGet(fields...)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// viewResponse is the JSON representation of a view
type viewResponse struct {
	ID     string                       `json:"id"`
	Name   string                       `json:"name"`
	Model  string                       `json:"model"`
	Type   views.ViewType               `json:"type"`
	Arch   string                       `json:"arch"`
	Fields map[string]*models.FieldInfo `json:"fields"`
}

// getView returns the first view of the requested type with the
// definition of its fields
func getView(c *Context) {
	model := c.Pool().Model()
	view := c.instance.Views.GetFirstViewForModel(model.Name(), views.ViewType(c.Param("type")))
	if view == nil {
		c.Fail(errors.Wrapf(models.ErrRecordNotFound, "no %s view for %s", c.Param("type"), model.Name()))
		return
	}
	fInfos, err := model.FieldsGet(view.Fields...)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, viewResponse{
		ID:     view.ID,
		Name:   view.Name,
		Model:  view.Model,
		Type:   view.Type,
		Arch:   view.Arch(),
		Fields: fInfos,
	})
}

// searchRead returns the records of the model, paginated with the limit
// and offset query parameters.
func searchRead(c *Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		c.Fail(errors.Wrapf(models.ErrInvalidValue, "invalid limit '%s'", c.Query("limit")))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.Fail(errors.Wrapf(models.ErrInvalidValue, "invalid offset '%s'", c.Query("offset")))
		return
	}
	var fields []string
	if f := c.Query("fields"); f != "" {
		fields = strings.Split(f, ",")
	}
	rs, err := c.Pool().Limit(limit).Offset(offset).SearchAll(c.Request.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	res, err := rs.Read(c.Request.Context(), fields...)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// createRecord creates a record with the JSON object of the body
func createRecord(c *Context) {
	data, ok := c.BindFieldMap()
	if !ok {
		return
	}
	rs, err := c.Pool().Create(c.Request.Context(), data)
	if err != nil {
		c.Fail(err)
		return
	}
	res, err := rs.ReadOne(c.Request.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// readRecord returns the record of the URL
func readRecord(c *Context) {
	id, ok := c.RecordID()
	if !ok {
		return
	}
	var fields []string
	if f := c.Query("fields"); f != "" {
		fields = strings.Split(f, ",")
	}
	res, err := c.Pool().Browse(id).ReadOne(c.Request.Context(), fields...)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeRecord updates the record of the URL with the JSON object of the body
func writeRecord(c *Context) {
	id, ok := c.RecordID()
	if !ok {
		return
	}
	data, ok := c.BindFieldMap()
	if !ok {
		return
	}
	data.RemovePK()
	rs := c.Pool().Browse(id)
	if err := rs.Write(c.Request.Context(), data); err != nil {
		c.Fail(err)
		return
	}
	res, err := rs.ReadOne(c.Request.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// unlinkRecord deletes the record of the URL
func unlinkRecord(c *Context) {
	id, ok := c.RecordID()
	if !ok {
		return
	}
	num, err := c.Pool().Browse(id).Unlink(c.Request.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	if num == 0 {
		c.Fail(errors.Wrapf(models.ErrRecordNotFound, "%s(%d)", c.Pool().ModelName(), id))
		return
	}
	c.Status(http.StatusNoContent)
}
