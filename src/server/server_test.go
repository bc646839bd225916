// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
	. "github.com/smartystreets/goconvey/convey"
)

const orderViews = `<hexya><data>
<view id="order_form" model="Order">
	<form>
		<field name="name"/>
		<field name="date_order"/>
	</form>
</view>
</data></hexya>`

const orderDateViews = `<hexya><data>
<view id="order_form_delivery" inherit_id="order_form">
	<field name="date_order" position="after">
		<field name="requested_delivery_date"/>
	</field>
</view>
</data></hexya>`

func httpTestModules() ModulesList {
	return ModulesList{
		{
			Name:        "orders",
			Installable: true,
			Data:        []string{"views.xml"},
			Resources:   fstest.MapFS{"views.xml": {Data: []byte(orderViews)}},
			Declare: func(r *models.Registry) error {
				r.NewModel("Order").AddFields(map[string]models.FieldDefinition{
					"Name":      fields.Char{Required: true},
					"DateOrder": fields.Date{},
				})
				return nil
			},
		},
		{
			Name:        "order_delivery_date",
			Depends:     []string{"orders"},
			Installable: true,
			Data:        []string{"views.xml"},
			Resources:   fstest.MapFS{"views.xml": {Data: []byte(orderDateViews)}},
			Declare: func(r *models.Registry) error {
				return r.Extend(models.Extension{
					Name:  "order_delivery_date",
					Model: "Order",
					Fields: map[string]models.FieldDefinition{
						"RequestedDeliveryDate": fields.Date{String: "Requested Delivery Date"},
					},
				})
			},
			PostInit: func(ctx context.Context, env models.Environment) error {
				_, err := env.Pool("Order").Create(ctx, models.FieldMap{"Name": "Initial"})
				return err
			},
		},
	}
}

func doRequest(s *Server, method, url, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestServer(t *testing.T) {
	ctx := context.Background()
	Convey("Serving an instance over HTTP", t, func() {
		inst, err := PreInit(httpTestModules(), []string{"order_delivery_date"})
		So(err, ShouldBeNil)
		db, err := models.Connect(ctx, models.ConnectionParams{Driver: "sqlite3"})
		So(err, ShouldBeNil)
		defer db.Close()
		So(inst.Start(ctx, db), ShouldBeNil)
		s := NewServer(inst)
		Convey("Listing modules", func() {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/modules", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			var mods []map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &mods), ShouldBeNil)
			So(mods, ShouldHaveLength, 2)
			So(mods[1]["name"], ShouldEqual, "order_delivery_date")
			So(w.Header().Get(requestIDHeader), ShouldNotBeEmpty)
		})
		Convey("Getting fields", func() {
			w, res := doRequest(s, http.MethodGet, "/web/model/Order/fields", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(res, ShouldContainKey, "requested_delivery_date")
			fi := res["requested_delivery_date"].(map[string]interface{})
			So(fi["type"], ShouldEqual, "date")
			So(fi["required"], ShouldEqual, false)
			So(fi["string"], ShouldEqual, "Requested Delivery Date")
		})
		Convey("Getting the extended form view", func() {
			w, res := doRequest(s, http.MethodGet, "/web/model/Order/views/form", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(res["id"], ShouldEqual, "order_form")
			So(res["arch"], ShouldContainSubstring, `<field name="requested_delivery_date"/>`)
			So(res["fields"], ShouldContainKey, "requested_delivery_date")
			w, _ = doRequest(s, http.MethodGet, "/web/model/Order/views/tree", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
		Convey("Creating and reading records", func() {
			w, res := doRequest(s, http.MethodPost, "/web/model/Order/records", `{"name": "SO042", "requested_delivery_date": "2024-05-17"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(res["requested_delivery_date"], ShouldEqual, "2024-05-17")
			id := int64(res["id"].(float64))
			url := "/web/model/Order/records/" + jsonInt(id)
			w, res = doRequest(s, http.MethodGet, url, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(res["name"], ShouldEqual, "SO042")
			So(res["requested_delivery_date"], ShouldEqual, "2024-05-17")
			Convey("Updating the delivery date", func() {
				w, res = doRequest(s, http.MethodPatch, url, `{"requested_delivery_date": false}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(res["requested_delivery_date"], ShouldBeNil)
				So(res["name"], ShouldEqual, "SO042")
			})
			Convey("Writing back a read record", func() {
				body, _ := json.Marshal(map[string]interface{}{
					"id":                      id,
					"name":                    "SO042-B",
					"requested_delivery_date": "2024-06-03",
				})
				w, res = doRequest(s, http.MethodPatch, url, string(body))
				So(w.Code, ShouldEqual, http.StatusOK)
				So(res["id"], ShouldEqual, float64(id))
				So(res["name"], ShouldEqual, "SO042-B")
				So(res["requested_delivery_date"], ShouldEqual, "2024-06-03")
			})
			Convey("Invalid dates should be rejected", func() {
				w, res = doRequest(s, http.MethodPatch, url, `{"requested_delivery_date": "17/05/2024"}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(res["error"], ShouldNotBeNil)
			})
			Convey("Deleting the record", func() {
				w, _ = doRequest(s, http.MethodDelete, url, "")
				So(w.Code, ShouldEqual, http.StatusNoContent)
				w, _ = doRequest(s, http.MethodGet, url, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				w, _ = doRequest(s, http.MethodDelete, url, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
		Convey("Listing records", func() {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/model/Order/records?fields=name,requested_delivery_date", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			var records []map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0]["name"], ShouldEqual, "Initial")
			So(records[0]["requested_delivery_date"], ShouldBeNil)
			So(records[0], ShouldNotContainKey, "date_order")
			w, _ = doRequest(s, http.MethodGet, "/web/model/Order/records?limit=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
		Convey("Errors should be mapped to statuses", func() {
			w, _ := doRequest(s, http.MethodGet, "/web/model/Invoice/fields", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			w, _ = doRequest(s, http.MethodPost, "/web/model/Order/records", `{"unknown": 1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w, _ = doRequest(s, http.MethodPost, "/web/model/Order/records", `{"requested_delivery_date": "2024-05-17"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			w, res := doRequest(s, http.MethodPost, "/web/model/Order/records", `[1, 2]`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(res["error"].(map[string]interface{})["request_id"], ShouldNotBeEmpty)
			w, _ = doRequest(s, http.MethodGet, "/web/model/Order/records/abc", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func jsonInt(i int64) string {
	b, _ := json.Marshal(i)
	return string(b)
}
