// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package sale manages sales quotations and orders.
package sale

import (
	"embed"

	"github.com/hexya-erp/saledeliverydate/addons/base"
	"github.com/hexya-erp/saledeliverydate/src/server"
)

// MODULE_NAME is the name of this module
const MODULE_NAME string = "sale"

//go:embed resources
var resources embed.FS

// Module is the sale module
var Module = &server.Module{
	Name:     MODULE_NAME,
	Version:  "0.1",
	Category: "Sales",
	Description: `
Manage sales quotations and orders
==================================

This application allows you to manage your sales goals in an effective and efficient manner
by keeping track of all sales orders and history.

It handles the sales workflow:

* **Quotation** -> **Sales order**
`,
	Author:      "NDP Systèmes",
	Website:     "http://www.ndp-systemes.fr",
	Depends:     []string{base.MODULE_NAME},
	Data:        []string{"resources/sale_views.xml"},
	Installable: true,
	Resources:   resources,
	Declare:     declareSaleOrder,
}
