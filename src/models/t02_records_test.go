// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/operator"
	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecords(t *testing.T) {
	ctx := context.Background()
	Convey("Working with records", t, func() {
		db := newTestDB()
		defer db.Close()
		env := setupEnv(db, newTestRegistry(deliveryDateExtension))
		partner, err := env.Pool("Partner").Create(ctx, models.FieldMap{"Name": "Agrolait", "email": "info@agrolait.com"})
		So(err, ShouldBeNil)
		So(partner.Len(), ShouldEqual, 1)
		Convey("Created records should have their defaults", func() {
			fms, err := partner.Read(ctx)
			So(err, ShouldBeNil)
			So(fms, ShouldHaveLength, 1)
			So(fms[0]["id"], ShouldEqual, partner.ID())
			So(fms[0]["name"], ShouldEqual, "Agrolait")
			So(fms[0]["email"], ShouldEqual, "info@agrolait.com")
			So(fms[0]["customer"], ShouldEqual, true)
			So(fms[0]["create_date"], ShouldHaveSameTypeAs, dates.DateTime{})
		})
		Convey("An order without delivery date should read it as nil", func() {
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{
				"Name":     "SO001",
				"Customer": partner.ID(),
			})
			So(err, ShouldBeNil)
			val, err := order.Get(ctx, "RequestedDeliveryDate")
			So(err, ShouldBeNil)
			So(val, ShouldBeNil)
			state, err := order.Get(ctx, "State")
			So(err, ShouldBeNil)
			So(state, ShouldEqual, "draft")
			dateOrder, err := order.Get(ctx, "DateOrder")
			So(err, ShouldBeNil)
			So(dateOrder, ShouldHaveSameTypeAs, dates.DateTime{})
		})
		Convey("Delivery dates should be stored and read back unchanged", func() {
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{
				"Name":                    "SO002",
				"requested_delivery_date": "2024-05-17",
			})
			So(err, ShouldBeNil)
			val, err := order.Get(ctx, "requested_delivery_date")
			So(err, ShouldBeNil)
			So(val, ShouldHaveSameTypeAs, dates.Date{})
			So(val.(dates.Date).Equal(dates.NewDate(2024, time.May, 17)), ShouldBeTrue)
			Convey("and updated with a Date value", func() {
				So(order.Write(ctx, models.FieldMap{"RequestedDeliveryDate": dates.NewDate(2024, time.June, 1)}), ShouldBeNil)
				val, err := order.Get(ctx, "RequestedDeliveryDate")
				So(err, ShouldBeNil)
				So(val.(dates.Date).String(), ShouldEqual, "2024-06-01")
			})
			Convey("and cleared with nil or false", func() {
				So(order.Write(ctx, models.FieldMap{"RequestedDeliveryDate": nil}), ShouldBeNil)
				val, err := order.Get(ctx, "RequestedDeliveryDate")
				So(err, ShouldBeNil)
				So(val, ShouldBeNil)
				So(order.Write(ctx, models.FieldMap{"RequestedDeliveryDate": "2024-06-01"}), ShouldBeNil)
				So(order.Write(ctx, models.FieldMap{"RequestedDeliveryDate": false}), ShouldBeNil)
				val, err = order.Get(ctx, "RequestedDeliveryDate")
				So(err, ShouldBeNil)
				So(val, ShouldBeNil)
			})
			Convey("Updating the date should not change other fields", func() {
				before, err := order.Read(ctx, "Name", "State", "DateOrder")
				So(err, ShouldBeNil)
				So(order.Write(ctx, models.FieldMap{"RequestedDeliveryDate": "2025-01-31"}), ShouldBeNil)
				after, err := order.Read(ctx, "Name", "State", "DateOrder")
				So(err, ShouldBeNil)
				So(after, ShouldResemble, before)
			})
			Convey("Orders should be searchable by delivery date", func() {
				_, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO003"})
				So(err, ShouldBeNil)
				found, err := env.Pool("SaleOrder").Search(ctx, models.Cond("RequestedDeliveryDate", operator.Equals, nil))
				So(err, ShouldBeNil)
				So(found.Len(), ShouldEqual, 1)
				found, err = env.Pool("SaleOrder").Search(ctx, models.Cond("RequestedDeliveryDate", operator.GreaterOrEqual, "2024-05-01"))
				So(err, ShouldBeNil)
				So(found.IDs(), ShouldResemble, []int64{order.ID()})
			})
		})
		Convey("Invalid delivery dates should be rejected", func() {
			for _, value := range []interface{}{"17/05/2024", "2024-02-30", "tomorrow", 20240517, true, "0001-01-01", dates.Date{}} {
				_, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{
					"Name":                  "SO004",
					"RequestedDeliveryDate": value,
				})
				So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
				So(models.IsValidationError(err), ShouldBeTrue)
			}
			cnt, err := env.Pool("SaleOrder").SearchCount(ctx)
			So(err, ShouldBeNil)
			So(cnt, ShouldEqual, 0)
		})
		Convey("Required fields should be enforced", func() {
			_, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Note": "no name"})
			So(errors.Cause(err), ShouldEqual, models.ErrRequiredField)
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO005"})
			So(err, ShouldBeNil)
			err = order.Write(ctx, models.FieldMap{"Name": ""})
			So(errors.Cause(err), ShouldEqual, models.ErrRequiredField)
		})
		Convey("Values should be checked against field definitions", func() {
			_, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO006", "State": "unknown"})
			So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
			_, err = env.Pool("Partner").Create(ctx, models.FieldMap{"Name": string(make([]rune, 65))})
			So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
			_, err = env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO006", "Customer": int64(9999)})
			So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
			_, err = env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO006", "Unknown": 1})
			So(errors.Cause(err), ShouldEqual, models.ErrUnknownField)
			_, err = env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO006", "ID": 12})
			So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
			_, err = env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO006", "name": "SO007"})
			So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
		})
		Convey("JSON decoded numbers should be accepted", func() {
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{
				"Name":        "SO008",
				"Customer":    json.Number("1"),
				"AmountTotal": json.Number("125.5"),
			})
			So(err, ShouldBeNil)
			fms, err := order.Read(ctx, "Customer", "AmountTotal")
			So(err, ShouldBeNil)
			So(fms[0]["customer_id"], ShouldEqual, partner.ID())
			So(fms[0]["amount_total"], ShouldEqual, 125.5)
		})
		Convey("Integers should be stored without loss", func() {
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO009", "Sequence": float64(42)})
			So(err, ShouldBeNil)
			seq, err := order.Get(ctx, "Sequence")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, int64(42))
			for _, value := range []interface{}{float64(math.MaxInt64), -math.Pow(2, 64), 1.5, json.Number("1e30")} {
				err = order.Write(ctx, models.FieldMap{"Sequence": value})
				So(errors.Cause(err), ShouldEqual, models.ErrInvalidValue)
			}
			seq, err = order.Get(ctx, "Sequence")
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, int64(42))
		})
		Convey("Searching with limit and offset", func() {
			for _, name := range []string{"SO010", "SO011", "SO012"} {
				_, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": name})
				So(err, ShouldBeNil)
			}
			all, err := env.Pool("SaleOrder").SearchAll(ctx)
			So(err, ShouldBeNil)
			So(all.Len(), ShouldEqual, 3)
			page, err := env.Pool("SaleOrder").Limit(1).Offset(1).SearchAll(ctx)
			So(err, ShouldBeNil)
			So(page.IDs(), ShouldResemble, all.IDs()[1:2])
			found, err := env.Pool("SaleOrder").Search(ctx, models.Cond("Name", operator.In, []string{"SO010", "SO012"}))
			So(err, ShouldBeNil)
			So(found.Len(), ShouldEqual, 2)
			found, err = env.Pool("SaleOrder").Search(ctx, models.Cond("name", operator.ILike, "so01%"))
			So(err, ShouldBeNil)
			So(found.Len(), ShouldEqual, 3)
			_, err = env.Pool("SaleOrder").Search(ctx, models.Cond("Unknown", operator.Equals, 1))
			So(errors.Cause(err), ShouldEqual, models.ErrUnknownField)
		})
		Convey("Deleting records", func() {
			order, err := env.Pool("SaleOrder").Create(ctx, models.FieldMap{"Name": "SO020"})
			So(err, ShouldBeNil)
			num, err := order.Unlink(ctx)
			So(err, ShouldBeNil)
			So(num, ShouldEqual, 1)
			_, err = order.Read(ctx)
			So(errors.Cause(err), ShouldEqual, models.ErrRecordNotFound)
			err = order.Write(ctx, models.FieldMap{"Note": "gone"})
			So(errors.Cause(err), ShouldEqual, models.ErrRecordNotFound)
		})
		Convey("Browsing should remove duplicate ids", func() {
			rs := env.Pool("Partner").Browse(partner.ID(), partner.ID())
			So(rs.Len(), ShouldEqual, 1)
			So(rs.String(), ShouldEqual, "Partner(1)")
		})
	})
}
