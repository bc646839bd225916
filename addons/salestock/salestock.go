// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package salestock links sales orders to warehouse deliveries.
package salestock

import (
	"embed"

	"github.com/hexya-erp/saledeliverydate/addons/sale"
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
	"github.com/hexya-erp/saledeliverydate/src/models/types"
	"github.com/hexya-erp/saledeliverydate/src/server"
)

// MODULE_NAME is the name of this module
const MODULE_NAME string = "sale_stock"

//go:embed resources
var resources embed.FS

// Module is the sale_stock module
var Module = &server.Module{
	Name:        MODULE_NAME,
	Version:     "0.1",
	Category:    "Hidden",
	Description: "Bridge module between Sales and Warehouse. Adds the shipping policy of sales orders.",
	Author:      "NDP Systèmes",
	Website:     "http://www.ndp-systemes.fr",
	Depends:     []string{sale.MODULE_NAME},
	Data:        []string{"resources/sale_stock_views.xml"},
	Installable: true,
	AutoInstall: true,
	Resources:   resources,
	Declare: func(r *models.Registry) error {
		return r.Extend(models.Extension{
			Name:    MODULE_NAME,
			Version: "0.1",
			Model:   "SaleOrder",
			Fields: map[string]models.FieldDefinition{
				"PickingPolicy": fields.Selection{String: "Shipping Policy", Required: true,
					Selection: types.Selection{
						"direct": "Deliver each product when available",
						"one":    "Deliver all products at once",
					},
					Default: models.DefaultValue("direct")},
				"Incoterm": fields.Char{String: "Incoterms", Size: 16,
					Help: "International Commercial Terms are a series of predefined commercial terms used in international transactions."},
			},
		})
	},
}
