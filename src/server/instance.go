// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"context"
	"io/fs"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/hexya-erp/saledeliverydate/src/views"
	"github.com/pkg/errors"
)

// An Instance is an application made of a set of loaded modules
type Instance struct {
	Modules  ModulesList
	Registry *models.Registry
	Views    *views.Collection
	DB       *models.DB
}

// PreInit loads the requested modules of available with their
// dependencies: models and extensions are declared then bootstrapped,
// and views are loaded.
//
// The database is not accessed. Call Start to use it.
func PreInit(available ModulesList, requested []string) (*Instance, error) {
	mods, err := available.Resolve(requested)
	if err != nil {
		return nil, err
	}
	log.Info("Loading modules", "modules", mods.Names())
	registry := models.NewRegistry()
	for _, mod := range mods {
		if mod.Declare == nil {
			continue
		}
		if err := mod.Declare(registry); err != nil {
			return nil, errors.Wrapf(err, "declaring module %s", mod.Name)
		}
	}
	if err := registry.BootStrap(); err != nil {
		return nil, err
	}
	vc := views.NewCollection()
	for _, mod := range mods {
		if err := loadModuleData(vc, mod); err != nil {
			return nil, err
		}
	}
	if err := vc.BootStrap(registry); err != nil {
		return nil, err
	}
	return &Instance{
		Modules:  mods,
		Registry: registry,
		Views:    vc,
	}, nil
}

// loadModuleData loads the Data files of mod into vc
func loadModuleData(vc *views.Collection, mod *Module) error {
	if len(mod.Data) > 0 && mod.Resources == nil {
		return errors.Errorf("module %s has data files but no resources", mod.Name)
	}
	for _, fileName := range mod.Data {
		data, err := fs.ReadFile(mod.Resources, fileName)
		if err != nil {
			return errors.Wrapf(err, "reading %s of module %s", fileName, mod.Name)
		}
		if err := vc.LoadFromString(string(data)); err != nil {
			return errors.Wrapf(err, "loading %s of module %s", fileName, mod.Name)
		}
		log.Debug("Data file loaded", "module", mod.Name, "file", fileName)
	}
	return nil
}

// Start synchronizes the database schema with the loaded models, then
// runs the PostInit function of each module.
func (i *Instance) Start(ctx context.Context, db *models.DB) error {
	if err := db.SyncDatabase(ctx, i.Registry); err != nil {
		return errors.Wrap(err, "synchronizing database")
	}
	i.DB = db
	env := i.Env()
	for _, mod := range i.Modules {
		if mod.PostInit == nil {
			continue
		}
		if err := mod.PostInit(ctx, env); err != nil {
			return errors.Wrapf(err, "post init of module %s", mod.Name)
		}
	}
	log.Info("Instance started", "modules", len(i.Modules))
	return nil
}

// Env returns a new Environment on the instance's database
func (i *Instance) Env() models.Environment {
	return models.NewEnvironment(i.DB, i.Registry)
}
