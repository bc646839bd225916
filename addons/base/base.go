// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package base declares the business objects shared by all modules.
package base

import (
	"embed"

	"github.com/hexya-erp/saledeliverydate/src/server"
)

// MODULE_NAME is the name of this module
const MODULE_NAME string = "base"

//go:embed resources
var resources embed.FS

// Module is the base module
var Module = &server.Module{
	Name:        MODULE_NAME,
	Version:     "0.1",
	Category:    "Hidden",
	Description: "The kernel of Hexya, needed for all installation.",
	Author:      "NDP Systèmes",
	Website:     "http://www.ndp-systemes.fr",
	Data:        []string{"resources/res_partner_views.xml"},
	Installable: true,
	Resources:   resources,
	Declare:     declarePartner,
}
