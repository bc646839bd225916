// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models_test

import (
	"testing"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
	"github.com/hexya-erp/saledeliverydate/src/models/fieldtype"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModelDeclaration(t *testing.T) {
	Convey("Declaring models", t, func() {
		r := newTestRegistry()
		Convey("Models should be listed by name", func() {
			ms := r.Models()
			So(ms, ShouldHaveLength, 2)
			So(ms[0].Name(), ShouldEqual, "Partner")
			So(ms[1].Name(), ShouldEqual, "SaleOrder")
			So(ms[1].TableName(), ShouldEqual, "sale_order")
		})
		Convey("Models should be found by name and by table", func() {
			m, ok := r.Get("SaleOrder")
			So(ok, ShouldBeTrue)
			m2, ok := r.Get("sale_order")
			So(ok, ShouldBeTrue)
			So(m2, ShouldEqual, m)
			_, ok = r.Get("SaleOrderLine")
			So(ok, ShouldBeFalse)
			So(func() { r.MustGet("SaleOrderLine") }, ShouldPanic)
		})
		Convey("Automatic fields should be declared", func() {
			m := r.MustGet("Partner")
			So(m.Fields().Names(), ShouldResemble, []string{"ID", "CreateDate", "WriteDate", "Customer", "Email", "Name"})
			fi := m.Fields().MustGet("create_date")
			So(fi.Name(), ShouldEqual, "CreateDate")
			So(fi.Type(), ShouldEqual, fieldtype.DateTime)
		})
		Convey("Field names should give default JSON names and labels", func() {
			m := r.MustGet("SaleOrder")
			fi := m.Fields().MustGet("Customer")
			So(fi.JSON(), ShouldEqual, "customer_id")
			So(fi.String(), ShouldEqual, "Customer")
			fi = m.Fields().MustGet("partner_name")
			So(fi.Name(), ShouldEqual, "Partner")
			fi = m.Fields().MustGet("AmountTotal")
			So(fi.JSON(), ShouldEqual, "amount_total")
			So(fi.String(), ShouldEqual, "Amount Total")
			So(fi.Extension(), ShouldBeEmpty)
		})
		Convey("Declaring a model twice should panic", func() {
			So(func() { r.NewModel("Partner") }, ShouldPanic)
			So(func() { r.NewModel("partner") }, ShouldPanic)
		})
		Convey("Adding an existing field should panic", func() {
			So(func() {
				r.MustGet("Partner").AddFields(map[string]models.FieldDefinition{
					"Email": fields.Text{},
				})
			}, ShouldPanic)
		})
		Convey("Invalid field definitions should panic", func() {
			So(func() {
				r.MustGet("Partner").AddFields(map[string]models.FieldDefinition{
					"Parent": fields.Many2One{},
				})
			}, ShouldPanic)
			So(func() {
				r.MustGet("Partner").AddFields(map[string]models.FieldDefinition{
					"lowercase": fields.Char{},
				})
			}, ShouldPanic)
		})
		Convey("FieldsGet should return field information by JSON name", func() {
			infos, err := r.MustGet("SaleOrder").FieldsGet("Name", "state")
			So(err, ShouldBeNil)
			So(infos, ShouldHaveLength, 2)
			So(infos["name"].String, ShouldEqual, "Order Reference")
			So(infos["name"].Required, ShouldBeTrue)
			So(infos["state"].Type, ShouldEqual, fieldtype.Selection)
			So(infos["state"].Selection, ShouldContainKey, "draft")
			_, err = r.MustGet("SaleOrder").FieldsGet("Unknown")
			So(errors.Cause(err), ShouldEqual, models.ErrUnknownField)
		})
		Convey("Bootstrap should resolve relations and freeze the registry", func() {
			So(r.BootStrap(), ShouldBeNil)
			So(r.BootStrapped(), ShouldBeTrue)
			So(errors.Cause(r.BootStrap()), ShouldEqual, models.ErrBootstrapped)
			So(func() { r.NewModel("Product") }, ShouldPanic)
		})
		Convey("Bootstrap should fail on unknown relation models", func() {
			r.MustGet("Partner").AddFields(map[string]models.FieldDefinition{
				"Company": fields.Many2One{RelationModel: "Company"},
			})
			So(errors.Cause(r.BootStrap()), ShouldEqual, models.ErrUnknownModel)
		})
	})
}

func TestExtensions(t *testing.T) {
	Convey("Extending models", t, func() {
		r := newTestRegistry()
		order := r.MustGet("SaleOrder")
		before := order.Fields().Names()
		Convey("Applying the delivery date extension", func() {
			So(r.Extend(deliveryDateExtension), ShouldBeNil)
			Convey("The model should have all its former fields plus the new one", func() {
				names := order.Fields().Names()
				So(names, ShouldHaveLength, len(before)+1)
				So(names[:len(before)], ShouldResemble, before)
				So(names[len(before)], ShouldEqual, "RequestedDeliveryDate")
			})
			Convey("The new field should be an optional date", func() {
				fi := order.Fields().MustGet("requested_delivery_date")
				So(fi.Name(), ShouldEqual, "RequestedDeliveryDate")
				So(fi.Type(), ShouldEqual, fieldtype.Date)
				So(fi.Required(), ShouldBeFalse)
				So(fi.String(), ShouldEqual, "Requested Delivery Date")
				So(fi.Help(), ShouldEqual, "Date requested by the customer for the delivery.")
				So(fi.Extension(), ShouldEqual, "sale_order_delivery_date@0.1")
			})
			Convey("The extension should be recorded on the model", func() {
				exts := order.Extensions()
				So(exts, ShouldHaveLength, 1)
				So(exts[0].String(), ShouldEqual, "sale_order_delivery_date@0.1")
			})
			Convey("Applying it twice should fail", func() {
				err := r.Extend(deliveryDateExtension)
				So(errors.Cause(err), ShouldEqual, models.ErrDuplicateExtension)
				So(order.Fields().Names(), ShouldHaveLength, len(before)+1)
			})
			Convey("Other models should not change", func() {
				_, ok := r.MustGet("Partner").Fields().Get("RequestedDeliveryDate")
				So(ok, ShouldBeFalse)
			})
		})
		Convey("An extension colliding with an existing field should fail", func() {
			err := r.Extend(models.Extension{
				Name:  "collision",
				Model: "SaleOrder",
				Fields: map[string]models.FieldDefinition{
					"Note": fields.Date{},
				},
			})
			So(errors.Cause(err), ShouldEqual, models.ErrFieldCollision)
			So(order.Fields().Names(), ShouldResemble, before)
			So(order.Extensions(), ShouldBeEmpty)
		})
		Convey("An extension colliding with an existing column should fail", func() {
			err := r.Extend(models.Extension{
				Name:  "collision",
				Model: "SaleOrder",
				Fields: map[string]models.FieldDefinition{
					"PartnerName": fields.Char{},
				},
			})
			So(errors.Cause(err), ShouldEqual, models.ErrFieldCollision)
		})
		Convey("Extensions should be applied atomically", func() {
			err := r.Extend(models.Extension{
				Name:  "partial",
				Model: "SaleOrder",
				Fields: map[string]models.FieldDefinition{
					"CommitmentDate": fields.Date{},
					"Name":           fields.Char{},
				},
			})
			So(errors.Cause(err), ShouldEqual, models.ErrFieldCollision)
			_, ok := order.Fields().Get("CommitmentDate")
			So(ok, ShouldBeFalse)
			So(order.Fields().Names(), ShouldResemble, before)
		})
		Convey("Two new fields with the same column should fail", func() {
			err := r.Extend(models.Extension{
				Name:  "same_column",
				Model: "SaleOrder",
				Fields: map[string]models.FieldDefinition{
					"CommitmentDate": fields.Date{},
					"Commitment":     fields.Date{JSON: "commitment_date"},
				},
			})
			So(errors.Cause(err), ShouldEqual, models.ErrFieldCollision)
			So(order.Fields().Names(), ShouldResemble, before)
		})
		Convey("Extending an unknown model should fail", func() {
			ext := deliveryDateExtension
			ext.Model = "PurchaseOrder"
			So(errors.Cause(r.Extend(ext)), ShouldEqual, models.ErrUnknownModel)
		})
		Convey("Extensions without name or fields should fail", func() {
			ext := deliveryDateExtension
			ext.Name = ""
			So(errors.Cause(r.Extend(ext)), ShouldEqual, models.ErrInvalidField)
			So(errors.Cause(r.Extend(models.Extension{Name: "empty", Model: "SaleOrder"})), ShouldEqual, models.ErrInvalidField)
		})
		Convey("Extending a bootstrapped registry should fail", func() {
			So(r.BootStrap(), ShouldBeNil)
			So(errors.Cause(r.Extend(deliveryDateExtension)), ShouldEqual, models.ErrBootstrapped)
			So(order.Fields().Names(), ShouldResemble, before)
		})
	})
}
