// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"context"
	"io/fs"
	"sort"

	"github.com/hexya-erp/saledeliverydate/src/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Module is a go package that implements business features.
// This struct is used to register modules.
type Module struct {
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	Category    string   `yaml:"category,omitempty" json:"category,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
	Website     string   `yaml:"website,omitempty" json:"website,omitempty"`
	Depends     []string `yaml:"depends" json:"depends"`
	// Data lists the XML files of Resources to load, in order
	Data        []string `yaml:"data,omitempty" json:"data,omitempty"`
	Installable bool     `yaml:"installable" json:"installable"`
	AutoInstall bool     `yaml:"auto_install" json:"auto_install"`
	// Resources holds the Data files of the module
	Resources fs.FS `yaml:"-" json:"-"`
	// Declare adds the models and extensions of the module to the registry
	Declare func(*models.Registry) error `yaml:"-" json:"-"`
	// PostInit is run once the database is synchronized
	PostInit func(context.Context, models.Environment) error `yaml:"-" json:"-"`
}

// Manifest returns the YAML manifest of this module
func (m *Module) Manifest() ([]byte, error) {
	res, err := yaml.Marshal(m)
	return res, errors.Wrapf(err, "marshalling manifest of %s", m.Name)
}

// A ModulesList is a list of Module objects
type ModulesList []*Module

// Names returns a list of all module names in this ModuleList.
func (ml ModulesList) Names() []string {
	res := make([]string, len(ml))
	for i, module := range ml {
		res[i] = module.Name
	}
	return res
}

// Get returns the module with the given name
func (ml ModulesList) Get(name string) (*Module, bool) {
	for _, module := range ml {
		if module.Name == name {
			return module, true
		}
	}
	return nil, false
}

// Resolve returns the modules to load for the requested module names,
// in loading order.
//
// The result holds the requested modules, all their dependencies, and
// the auto_install modules whose dependencies are all selected.
// Dependencies always come before the modules that depend on them, ties
// being broken by name.
func (ml ModulesList) Resolve(requested []string) (ModulesList, error) {
	byName := make(map[string]*Module, len(ml))
	for _, mod := range ml {
		if _, exists := byName[mod.Name]; exists {
			return nil, errors.Errorf("module %s is registered twice", mod.Name)
		}
		byName[mod.Name] = mod
	}
	selected := make(map[string]bool)
	var selectModule func(name, from string) error
	selectModule = func(name, from string) error {
		if selected[name] {
			return nil
		}
		mod, ok := byName[name]
		if !ok {
			if from == "" {
				return errors.Errorf("unknown module %s", name)
			}
			return errors.Errorf("unknown module %s required by %s", name, from)
		}
		if !mod.Installable {
			return errors.Errorf("module %s is not installable", name)
		}
		selected[name] = true
		for _, dep := range mod.Depends {
			if err := selectModule(dep, name); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range requested {
		if err := selectModule(name, ""); err != nil {
			return nil, err
		}
	}
	for changed := true; changed; {
		changed = false
		for _, mod := range ml {
			if selected[mod.Name] || !mod.AutoInstall || !mod.Installable || len(mod.Depends) == 0 {
				continue
			}
			if allSelected(mod.Depends, selected) {
				selected[mod.Name] = true
				changed = true
			}
		}
	}
	return sortModules(byName, selected)
}

// allSelected returns true if all names are in selected
func allSelected(names []string, selected map[string]bool) bool {
	for _, name := range names {
		if !selected[name] {
			return false
		}
	}
	return true
}

// sortModules returns the selected modules with dependencies first.
func sortModules(byName map[string]*Module, selected map[string]bool) (ModulesList, error) {
	inDegree := make(map[string]int, len(selected))
	dependents := make(map[string][]string)
	for name := range selected {
		for _, dep := range byName[name].Depends {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}
	var ready []string
	for name := range selected {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	res := make(ModulesList, 0, len(selected))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		res = append(res, byName[name])
		for _, d := range dependents[name] {
			inDegree[d]--
			if inDegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(res) != len(selected) {
		var cycle []string
		for name := range selected {
			if inDegree[name] > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, errors.Errorf("circular dependency between modules %v", cycle)
	}
	return res, nil
}
