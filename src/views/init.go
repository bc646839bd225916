// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package views

import (
	"strings"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/tools/logging"
	"github.com/hexya-erp/saledeliverydate/src/tools/xmlutils"
	"github.com/pkg/errors"
)

const maxInheritanceDepth = 100

var log logging.Logger

// BootStrap makes the necessary updates to view definitions. In particular:
// - applies inheriting views to their base view,
// - checks that views reference existing models and fields,
// - populates the fields list from the views arch.
//
// Models must be bootstrapped first.
func (vc *Collection) BootStrap(registry *models.Registry) error {
	if !registry.BootStrapped() {
		return errors.New("models must be bootstrapped before bootstrapping views")
	}
	vc.Lock()
	defer vc.Unlock()
	if vc.bootstrapped {
		return errors.New("views are already bootstrapped")
	}
	for loop := 0; loop < maxInheritanceDepth && len(vc.inherited) > 0; loop++ {
		var remaining []*ViewXML
		for _, xmlView := range vc.inherited {
			baseView, ok := vc.baseView(xmlView.InheritID)
			if !ok {
				remaining = append(remaining, xmlView)
				continue
			}
			if err := vc.applyInheritedView(baseView, xmlView); err != nil {
				return err
			}
		}
		if len(remaining) == len(vc.inherited) {
			break
		}
		vc.inherited = remaining
	}
	if len(vc.inherited) > 0 {
		return errors.Errorf("view %s inherits unknown view %s", vc.inherited[0].ID, vc.inherited[0].InheritID)
	}
	for _, v := range vc.views {
		log.Debug("Postprocessing view", "viewID", v.ID, "model", v.Model, "Type", v.Type)
		if err := checkView(registry, v); err != nil {
			return err
		}
		v.populateFields()
	}
	vc.bootstrapped = true
	return nil
}

// baseView returns the view with the given id. If id is an inheriting
// view already applied, its base view is returned instead.
func (vc *Collection) baseView(id string) (*View, bool) {
	if root, ok := vc.inheritRoots[id]; ok {
		id = root
	}
	v, ok := vc.views[id]
	return v, ok
}

// applyInheritedView modifies baseView with the specs of xmlView
func (vc *Collection) applyInheritedView(baseView *View, xmlView *ViewXML) error {
	if xmlView.ID != "" {
		if _, exists := vc.views[xmlView.ID]; exists {
			return errors.Errorf("view %s is already defined", xmlView.ID)
		}
		if _, exists := vc.inheritRoots[xmlView.ID]; exists {
			return errors.Errorf("view %s is already defined", xmlView.ID)
		}
		for _, id := range baseView.InheritedBy {
			if id == xmlView.ID {
				return errors.Errorf("view %s is already applied to %s", xmlView.ID, baseView.ID)
			}
		}
	}
	if xmlView.Model != "" && xmlView.Model != baseView.Model {
		return errors.Errorf("view %s extends %s of model %s, not %s", xmlView.ID, baseView.ID, baseView.Model, xmlView.Model)
	}
	specDoc, err := xmlutils.XMLToDocument("<data>" + xmlView.Arch + "</data>")
	if err != nil {
		return errors.Wrapf(err, "view %s", xmlView.ID)
	}
	newArch, err := xmlutils.ApplyExtensions(baseView.arch, specDoc.Root())
	if err != nil {
		return errors.Wrapf(err, "applying view %s to %s", xmlView.ID, baseView.ID)
	}
	baseView.arch = newArch
	baseView.InheritedBy = append(baseView.InheritedBy, strings.TrimSpace(xmlView.ID))
	if xmlView.ID != "" {
		vc.inheritRoots[strings.TrimSpace(xmlView.ID)] = baseView.ID
	}
	log.Debug("View extended", "view", baseView.ID, "by", xmlView.ID)
	return nil
}

// checkView returns an error if v refers to an unknown model or if a
// field of its arch is not the JSON name of a field of the model.
func checkView(registry *models.Registry, v *View) error {
	model, ok := registry.Get(v.Model)
	if !ok {
		return errors.Wrapf(models.ErrUnknownModel, "view %s", v.ID)
	}
	for _, f := range v.arch.FindElements("//field") {
		name := f.SelectAttrValue("name", "")
		if fi, ok := model.Fields().Get(name); !ok || fi.JSON() != name {
			return errors.Wrapf(models.ErrUnknownField, "view %s references %s.%s", v.ID, model.Name(), name)
		}
	}
	return nil
}

func init() {
	log = logging.GetLogger("views")
}
