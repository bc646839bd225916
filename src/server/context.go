// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/pkg/errors"
)

// A Context holds the data of the current request
type Context struct {
	*gin.Context
	instance *Instance
}

// errorDetail is the error returned to the client
type errorDetail struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// errorResponse is the body of error responses
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// RequestID returns the unique id of the current request
func (c *Context) RequestID() string {
	return c.GetString("RequestID")
}

// Env returns an Environment on the instance's database
func (c *Context) Env() models.Environment {
	return c.instance.Env()
}

// Pool returns the empty RecordCollection of the model of the request
func (c *Context) Pool() *models.RecordCollection {
	return c.MustGet("pool").(*models.RecordCollection)
}

// RecordID returns the id parameter of the request, or aborts with 404.
func (c *Context) RecordID() (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Fail(errors.Wrapf(models.ErrRecordNotFound, "invalid id '%s'", c.Param("id")))
		return 0, false
	}
	return id, true
}

// BindFieldMap decodes the JSON object of the request body, keeping
// numbers as json.Number. It aborts with 400 on invalid JSON.
func (c *Context) BindFieldMap() (models.FieldMap, bool) {
	var data models.FieldMap
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil || data == nil {
		if err == nil {
			err = errors.New("body must be a JSON object")
		}
		c.abortWithError(http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return nil, false
	}
	return data, true
}

// Fail aborts the request with the status matching err.
func (c *Context) Fail(err error) {
	c.abortWithError(errorStatus(err), err)
}

// abortWithError aborts the request with the given status and error message
func (c *Context) abortWithError(status int, err error) {
	c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{
		Error: errorDetail{
			Message:   err.Error(),
			RequestID: c.RequestID(),
		},
	})
}

// errorStatus returns the HTTP status for the given error
func errorStatus(err error) int {
	switch errors.Cause(err) {
	case models.ErrUnknownModel, models.ErrRecordNotFound:
		return http.StatusNotFound
	}
	if models.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
