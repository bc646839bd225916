// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package views

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/hexya-erp/saledeliverydate/src/tools/xmlutils"
	"github.com/pkg/errors"
)

// A ViewType defines the type of a view
type ViewType string

// View types
const (
	ViewTypeTree   ViewType = "tree"
	ViewTypeForm   ViewType = "form"
	ViewTypeSearch ViewType = "search"
)

// defaultPriority is the priority of views that do not set one
const defaultPriority uint8 = 16

// ViewXML is used to unmarshal the XML definition of a View
type ViewXML struct {
	ID        string `xml:"id,attr"`
	Name      string `xml:"name,attr"`
	Model     string `xml:"model,attr"`
	Priority  uint8  `xml:"priority,attr"`
	Arch      string `xml:",innerxml"`
	InheritID string `xml:"inherit_id,attr"`
}

// View is the internal definition of a view in the application
type View struct {
	ID       string
	Name     string
	Model    string
	Type     ViewType
	Priority uint8
	// Fields are the names of the fields displayed in the view, in order
	Fields []string
	// InheritedBy lists the ids of the views that extended this view
	InheritedBy []string
	arch        *etree.Element
}

// Arch returns the arch XML string of this view
func (v *View) Arch() string {
	res, err := xmlutils.ElementToXML(v.arch)
	if err != nil {
		log.Warn("Unable to render view", "view", v.ID, "error", err)
		return ""
	}
	return strings.TrimSpace(string(res))
}

// populateFields scans arch and sets the Fields of the view.
func (v *View) populateFields() {
	v.Fields = nil
	for _, f := range v.arch.FindElements("//field") {
		v.Fields = append(v.Fields, f.SelectAttrValue("name", ""))
	}
}

// A Collection is a view collection
type Collection struct {
	sync.RWMutex
	views        map[string]*View
	orderedViews map[string][]*View
	inherited    []*ViewXML
	// inheritRoots maps applied inheriting view ids to their base view id
	inheritRoots map[string]string
	bootstrapped bool
}

// NewCollection returns a pointer to a new
// Collection instance
func NewCollection() *Collection {
	return &Collection{
		views:        make(map[string]*View),
		orderedViews: make(map[string][]*View),
		inheritRoots: make(map[string]string),
	}
}

// add adds the given view to our Collection.
func (vc *Collection) add(v *View) error {
	if _, exists := vc.views[v.ID]; exists {
		return errors.Errorf("view %s is already defined", v.ID)
	}
	vc.views[v.ID] = v
	ordered := append(vc.orderedViews[v.Model], v)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})
	vc.orderedViews[v.Model] = ordered
	return nil
}

// GetByID returns the View with the given id
func (vc *Collection) GetByID(id string) *View {
	vc.RLock()
	defer vc.RUnlock()
	return vc.views[id]
}

// GetAll returns a list of all views of this Collection, sorted by id.
func (vc *Collection) GetAll() []*View {
	vc.RLock()
	defer vc.RUnlock()
	res := make([]*View, 0, len(vc.views))
	for _, view := range vc.views {
		res = append(res, view)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return res
}

// GetFirstViewForModel returns the view of type viewType for the given
// model with the lowest priority, or nil if there is none.
func (vc *Collection) GetFirstViewForModel(model string, viewType ViewType) *View {
	vc.RLock()
	defer vc.RUnlock()
	for _, view := range vc.orderedViews[model] {
		if view.Type == viewType {
			return view
		}
	}
	return nil
}

// GetAllViewsForModel returns a list with all views for the given model
func (vc *Collection) GetAllViewsForModel(model string) []*View {
	vc.RLock()
	defer vc.RUnlock()
	res := make([]*View, len(vc.orderedViews[model]))
	copy(res, vc.orderedViews[model])
	return res
}

// LoadFromString loads all the <view> elements of the given XML data
// document into this collection.
func (vc *Collection) LoadFromString(data string) error {
	doc, err := xmlutils.XMLToDocument(data)
	if err != nil {
		return err
	}
	elts := doc.FindElements("//view")
	if len(elts) == 0 {
		return errors.New("no view found in XML data")
	}
	for _, elt := range elts {
		if err := vc.LoadFromEtree(elt); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromEtree reads the view given etree.Element, and adds it to the
// collection. Views with an inherit_id are kept until BootStrap.
func (vc *Collection) LoadFromEtree(element *etree.Element) error {
	xmlBytes, err := xmlutils.ElementToXML(element)
	if err != nil {
		return err
	}
	var viewXML ViewXML
	if err := xml.Unmarshal(xmlBytes, &viewXML); err != nil {
		return errors.Wrap(err, "unable to unmarshal view")
	}
	vc.Lock()
	defer vc.Unlock()
	if vc.bootstrapped {
		return errors.Errorf("cannot load view %s: views are bootstrapped", viewXML.ID)
	}
	if viewXML.InheritID != "" {
		vc.inherited = append(vc.inherited, &viewXML)
		return nil
	}
	return vc.createNewViewFromXML(element, viewXML)
}

// createNewViewFromXML creates and register a new view with the given XML
func (vc *Collection) createNewViewFromXML(element *etree.Element, viewXML ViewXML) error {
	if viewXML.ID == "" || viewXML.Model == "" {
		return errors.New("views must have an id and a model")
	}
	children := element.ChildElements()
	if len(children) != 1 {
		return errors.Errorf("view %s must have exactly one root element", viewXML.ID)
	}
	priority := defaultPriority
	if viewXML.Priority != 0 {
		priority = viewXML.Priority
	}
	view := &View{
		ID:       viewXML.ID,
		Name:     viewXML.Name,
		Model:    viewXML.Model,
		Priority: priority,
		Type:     ViewType(children[0].Tag),
		arch:     children[0].Copy(),
	}
	if view.Name == "" {
		view.Name = fmt.Sprintf("%s.%s", view.Model, view.Type)
	}
	log.Debug("View loaded", "view", view.ID, "model", view.Model, "type", view.Type)
	return vc.add(view)
}
