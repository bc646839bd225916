// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package fieldtype

import (
	"reflect"
	"testing"

	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFieldTypes(t *testing.T) {
	Convey("Testing field types", t, func() {
		So(Date.IsValid(), ShouldBeTrue)
		So(Type("binary").IsValid(), ShouldBeFalse)
		So(NoType.IsValid(), ShouldBeFalse)
		So(Many2One.IsFKRelationType(), ShouldBeTrue)
		So(Date.IsRelationType(), ShouldBeFalse)
		So(Date.IsNullInDB(), ShouldBeTrue)
		So(Boolean.IsNullInDB(), ShouldBeFalse)
		So(Date.DefaultGoType(), ShouldEqual, reflect.TypeOf(dates.Date{}))
		So(Many2One.DefaultGoType(), ShouldEqual, reflect.TypeOf(int64(0)))
	})
}
