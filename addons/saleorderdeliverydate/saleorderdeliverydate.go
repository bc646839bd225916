// Copyright 2026 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package saleorderdeliverydate adds a requested delivery date to sales orders.
package saleorderdeliverydate

import (
	"embed"

	"github.com/hexya-erp/saledeliverydate/addons/salestock"
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
	"github.com/hexya-erp/saledeliverydate/src/server"
)

// MODULE_NAME is the name of this module
const MODULE_NAME string = "sale_order_delivery_date"

//go:embed resources
var resources embed.FS

// DeliveryDate is the extension adding the requested delivery date
// to the SaleOrder model.
var DeliveryDate = models.Extension{
	Name:    MODULE_NAME,
	Version: "0.1",
	Model:   "SaleOrder",
	Fields: map[string]models.FieldDefinition{
		"RequestedDeliveryDate": fields.Date{String: "Requested Delivery Date",
			Help: "Date requested by the customer for the delivery."},
	},
}

// Module is the sale_order_delivery_date module
var Module = &server.Module{
	Name:        MODULE_NAME,
	Version:     "0.1",
	Category:    "Sales Management",
	Description: "Add an additionnal requested_delivery_date field to the sales order.",
	Author:      "David Bertha",
	Website:     "http://www..com",
	Depends:     []string{salestock.MODULE_NAME},
	Data:        []string{"resources/sale_order_delivery_date_view.xml"},
	Installable: true,
	AutoInstall: false,
	Resources:   resources,
	Declare: func(r *models.Registry) error {
		return r.Extend(DeliveryDate)
	},
}
