// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testModules() ModulesList {
	return ModulesList{
		{Name: "base", Installable: true},
		{Name: "sale", Depends: []string{"base"}, Installable: true},
		{Name: "stock", Depends: []string{"base"}, Installable: true},
		{Name: "sale_stock", Depends: []string{"sale", "stock"}, Installable: true, AutoInstall: true},
		{Name: "sale_order_delivery_date", Depends: []string{"sale_stock"}, Installable: true},
		{Name: "crm", Depends: []string{"base"}, Installable: false},
	}
}

func TestResolveModules(t *testing.T) {
	Convey("Resolving modules", t, func() {
		ml := testModules()
		Convey("Dependencies should be loaded first", func() {
			mods, err := ml.Resolve([]string{"sale_order_delivery_date"})
			So(err, ShouldBeNil)
			So(mods.Names(), ShouldResemble, []string{"base", "sale", "stock", "sale_stock", "sale_order_delivery_date"})
		})
		Convey("Auto install modules should be added when their dependencies are", func() {
			mods, err := ml.Resolve([]string{"sale", "stock"})
			So(err, ShouldBeNil)
			So(mods.Names(), ShouldResemble, []string{"base", "sale", "stock", "sale_stock"})
			mods, err = ml.Resolve([]string{"sale"})
			So(err, ShouldBeNil)
			So(mods.Names(), ShouldResemble, []string{"base", "sale"})
		})
		Convey("Requesting a module twice should load it once", func() {
			mods, err := ml.Resolve([]string{"sale", "base", "sale"})
			So(err, ShouldBeNil)
			So(mods.Names(), ShouldResemble, []string{"base", "sale"})
		})
		Convey("Unknown modules should fail", func() {
			_, err := ml.Resolve([]string{"purchase"})
			So(err, ShouldNotBeNil)
			ml = append(ml, &Module{Name: "sale_margin", Depends: []string{"product"}, Installable: true})
			_, err = ml.Resolve([]string{"sale_margin"})
			So(err.Error(), ShouldContainSubstring, "required by sale_margin")
		})
		Convey("Modules that are not installable should fail", func() {
			_, err := ml.Resolve([]string{"crm"})
			So(err.Error(), ShouldContainSubstring, "not installable")
			_, err = ModulesList{{Name: "a"}}.Resolve([]string{"a"})
			So(err, ShouldNotBeNil)
		})
		Convey("Circular dependencies should fail", func() {
			ml = ModulesList{
				{Name: "a", Depends: []string{"b"}, Installable: true},
				{Name: "b", Depends: []string{"a"}, Installable: true},
			}
			_, err := ml.Resolve([]string{"a"})
			So(err.Error(), ShouldContainSubstring, "circular")
		})
		Convey("Modules registered twice should fail", func() {
			ml = append(ml, &Module{Name: "base", Installable: true})
			_, err := ml.Resolve([]string{"base"})
			So(err, ShouldNotBeNil)
		})
		Convey("Manifests should be YAML", func() {
			mod, ok := ml.Get("sale_order_delivery_date")
			So(ok, ShouldBeTrue)
			manifest, err := mod.Manifest()
			So(err, ShouldBeNil)
			So(string(manifest), ShouldContainSubstring, "name: sale_order_delivery_date")
			So(string(manifest), ShouldContainSubstring, "- sale_stock")
			So(string(manifest), ShouldContainSubstring, "auto_install: false")
			_, ok = ml.Get("purchase")
			So(ok, ShouldBeFalse)
		})
	})
}
