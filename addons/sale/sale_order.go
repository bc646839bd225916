// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package sale

import (
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
	"github.com/hexya-erp/saledeliverydate/src/models/types"
	"github.com/hexya-erp/saledeliverydate/src/models/types/dates"
)

// States of a sale order
var orderStates = types.Selection{
	"draft":  "Quotation",
	"sent":   "Quotation Sent",
	"sale":   "Sales Order",
	"done":   "Locked",
	"cancel": "Cancelled",
}

// declareSaleOrder declares the SaleOrder model
func declareSaleOrder(r *models.Registry) error {
	saleOrder := r.NewModel("SaleOrder")
	saleOrder.AddFields(map[string]models.FieldDefinition{
		"Name": fields.Char{String: "Order Reference", Required: true, Index: true,
			Default: models.DefaultValue("New")},
		"Partner": fields.Many2One{String: "Customer", RelationModel: "Partner", Required: true, Index: true},
		"DateOrder": fields.DateTime{String: "Order Date", Required: true, Index: true,
			Default: func(models.Environment) interface{} {
				return dates.Now()
			}},
		"State": fields.Selection{String: "Status", Selection: orderStates, Index: true,
			Default: models.DefaultValue("draft")},
		"ClientOrderRef": fields.Char{String: "Customer Reference"},
		"AmountTotal":    fields.Float{String: "Total"},
		"Note":           fields.Text{String: "Terms and conditions"},
	})
	return nil
}
