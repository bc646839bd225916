// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package dates

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func checkDate(date Date) {
	So(date.Year(), ShouldEqual, 2017)
	So(date.Month(), ShouldEqual, 8)
	So(date.Day(), ShouldEqual, 1)
}

func TestDate(t *testing.T) {
	Convey("Testing Date objects", t, func() {
		date, err := ParseDateWithLayout(DefaultServerDateTimeFormat, "2017-08-01 10:02:57")
		Convey("Parsing should be correct and drop the time part", func() {
			So(err, ShouldBeNil)
			checkDate(date)
			So(date.Hour(), ShouldEqual, 0)
			So(date.Equal(NewDate(2017, time.August, 1)), ShouldBeTrue)
		})
		Convey("Direct parsing functions should work", func() {
			So(func() { ParseDate("2017-08-01") }, ShouldNotPanic)
			So(func() { ParseDate("2017-08-01 11:23:32") }, ShouldPanic)
			So(func() { ParseDate("not a date") }, ShouldPanic)
		})
		Convey("Marshaling and String should work", func() {
			So(date.String(), ShouldEqual, "2017-08-01")
			data, _ := json.Marshal(date)
			So(string(data), ShouldEqual, "\"2017-08-01\"")
			data, _ = json.Marshal(Date{})
			So(string(data), ShouldEqual, "false")
		})
		Convey("Unmarshaling", func() {
			var d Date
			So(json.Unmarshal([]byte(`"2017-08-01"`), &d), ShouldBeNil)
			checkDate(d)
			So(json.Unmarshal([]byte(`null`), &d), ShouldBeNil)
			So(d.IsZero(), ShouldBeTrue)
			So(json.Unmarshal([]byte(`false`), &d), ShouldBeNil)
			So(d.IsZero(), ShouldBeTrue)
			So(json.Unmarshal([]byte(`"tomorrow"`), &d), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`12`), &d), ShouldNotBeNil)
		})
		Convey("Scanning date strings and bytes", func() {
			dateScan := &Date{}
			So(dateScan.Scan("2017-08-01 10:02:57"), ShouldBeNil)
			checkDate(*dateScan)
			So(dateScan.Equal(date), ShouldBeTrue)
			So(dateScan.Scan(""), ShouldBeNil)
			So(dateScan.IsZero(), ShouldBeTrue)
			So(dateScan.Scan([]byte("2017-08-01")), ShouldBeNil)
			checkDate(*dateScan)
			So(dateScan.Scan(nil), ShouldBeNil)
			So(dateScan.IsZero(), ShouldBeTrue)
			So(dateScan.Scan("01/08/2017"), ShouldNotBeNil)
		})
		Convey("Scanning date time.Time", func() {
			dateScan := &Date{}
			So(dateScan.Scan(time.Date(2017, 8, 1, 23, 10, 0, 0, time.FixedZone("X", 3600))), ShouldBeNil)
			checkDate(*dateScan)
			So(dateScan.Location(), ShouldEqual, time.UTC)
			So(dateScan.Scan(time.Time{}), ShouldBeNil)
			So(dateScan.IsZero(), ShouldBeTrue)
		})
		Convey("Scanning date wrong type", func() {
			dateScan := &Date{}
			So(dateScan.Scan([]string{"foo", "bar"}), ShouldNotBeNil)
		})
		Convey("Valuing Date", func() {
			val, err := date.Value()
			So(err, ShouldBeNil)
			So(val, ShouldEqual, "2017-08-01")
			val, err = Date{}.Value()
			So(err, ShouldBeNil)
			So(val, ShouldBeNil)
		})
		Convey("Today() should not panic", func() {
			So(func() { Today() }, ShouldNotPanic)
		})
	})
	Convey("Checking comparisons on Date", t, func() {
		date1 := ParseDate("2017-08-01")
		date2 := ParseDate("2017-08-03")
		So(date2.Greater(date1), ShouldBeTrue)
		So(date2.GreaterEqual(date2), ShouldBeTrue)
		So(date2.Lower(date1), ShouldBeFalse)
		So(date2.LowerEqual(date2), ShouldBeTrue)
		So(date1.AddDate(0, 2, 3).Equal(ParseDate("2017-10-04")), ShouldBeTrue)
	})
}

func TestDateTime(t *testing.T) {
	Convey("Testing DateTime objects", t, func() {
		dt := ParseDateTime("2017-08-01 10:02:57")
		So(dt.String(), ShouldEqual, "2017-08-01 10:02:57")
		So(dt.ToDate().String(), ShouldEqual, "2017-08-01")
		data, _ := json.Marshal(dt)
		So(string(data), ShouldEqual, `"2017-08-01 10:02:57"`)
		Convey("Scanning", func() {
			var scanned DateTime
			So(scanned.Scan("2017-08-01T10:02:57Z"), ShouldBeNil)
			So(scanned.Equal(dt), ShouldBeTrue)
			So(scanned.Scan([]byte("2017-08-01 10:02:57")), ShouldBeNil)
			So(scanned.Equal(dt), ShouldBeTrue)
			So(scanned.Scan(dt.Time), ShouldBeNil)
			So(scanned.Equal(dt), ShouldBeTrue)
			So(scanned.Scan(nil), ShouldBeNil)
			So(scanned.IsZero(), ShouldBeTrue)
			So(scanned.Scan(3), ShouldNotBeNil)
		})
		Convey("Valuing", func() {
			val, _ := dt.Value()
			So(val, ShouldEqual, "2017-08-01 10:02:57")
			val, _ = DateTime{}.Value()
			So(val, ShouldBeNil)
		})
		Convey("Now is truncated to the second", func() {
			So(Now().Nanosecond(), ShouldEqual, 0)
			So(ParseDateTime("2017-08-01 10:02:56").Lower(dt), ShouldBeTrue)
		})
	})
}
