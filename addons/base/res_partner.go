// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package base

import (
	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/models/fields"
)

// declarePartner declares the Partner model
func declarePartner(r *models.Registry) error {
	partnerModel := r.NewModel("Partner")
	partnerModel.AddFields(map[string]models.FieldDefinition{
		"Name":  fields.Char{String: "Name", Required: true, Index: true},
		"Email": fields.Char{},
		"Customer": fields.Boolean{String: "Is a Customer", Default: models.DefaultValue(true),
			Help: "Check this box if this contact is a customer."},
	})
	return nil
}
