// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package xmlutils provides utilities for working with XML view
// descriptions.
package xmlutils

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// XMLToDocument parses the given xml string and returns an etree.Document
func XMLToDocument(xmlStr string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlStr); err != nil {
		return nil, errors.Wrap(err, "unable to parse XML")
	}
	return doc, nil
}

// ElementToXML returns the XML bytes of the given element and
// all its children.
func ElementToXML(element *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(element.Copy())
	doc.Indent(2)
	xml, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal element")
	}
	return xml, nil
}

// NextSibling returns the next sibling of the given token or nil if this
// is the last token of its parent
func NextSibling(token etree.Token) etree.Token {
	var found bool
	for _, el := range token.Parent().Child {
		if found {
			return el
		}
		if el == token {
			found = true
		}
	}
	return nil
}

// ApplyExtensions returns a copy of base with the extension specs applied.
//
// Each child element of specs locates a node of base, either with an
// <xpath expr="..."> element or with a tag and one attribute, such as
// <field name="date_order">, and carries a position attribute that is
// one of before, after, inside, replace or attributes.
func ApplyExtensions(base *etree.Element, specs *etree.Element) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.SetRoot(base.Copy())
	baseElem := doc.Root()
	for _, spec := range specs.ChildElements() {
		xpath, err := getInheritXPathFromSpec(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "error in spec <%s>", spec.Tag)
		}
		path, err := etree.CompilePath(xpath)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path %s", xpath)
		}
		nodeToModify := doc.FindElementPath(path)
		if nodeToModify == nil {
			return nil, fmt.Errorf("node not found in parent view: %s", xpath)
		}
		modifyAction := spec.SelectAttr("position")
		if modifyAction == nil {
			return nil, fmt.Errorf("spec should include 'position' attribute: %s", xpath)
		}
		newNodes := specContent(spec)
		switch modifyAction.Value {
		case "before":
			for _, node := range newNodes {
				nodeToModify.Parent().InsertChild(nodeToModify, node)
			}
		case "after":
			nextNode := NextSibling(nodeToModify)
			for _, node := range newNodes {
				nodeToModify.Parent().InsertChild(nextNode, node)
			}
		case "replace":
			if nodeToModify == baseElem {
				return nil, errors.New("the root node of a view cannot be replaced")
			}
			for _, node := range newNodes {
				nodeToModify.Parent().InsertChild(nodeToModify, node)
			}
			nodeToModify.Parent().RemoveChild(nodeToModify)
		case "inside":
			for _, node := range newNodes {
				nodeToModify.AddChild(node)
			}
		case "attributes":
			for _, node := range spec.FindElements("./attribute") {
				attrName := node.SelectAttrValue("name", "")
				nodeToModify.RemoveAttr(attrName)
				nodeToModify.CreateAttr(attrName, node.Text())
			}
		default:
			return nil, fmt.Errorf("unknown position '%s' in spec %s", modifyAction.Value, xpath)
		}
	}
	return baseElem, nil
}

// specContent returns copies of the child tokens of spec, without the
// leading newline of the first one.
func specContent(spec *etree.Element) []etree.Token {
	specCopy := spec.Copy()
	res := make([]etree.Token, len(specCopy.Child))
	copy(res, specCopy.Child)
	if len(res) > 0 {
		if sp0, ok := res[0].(*etree.CharData); ok && strings.HasPrefix(sp0.Data, "\n") {
			sp0.Data = strings.TrimPrefix(sp0.Data, "\n")
		}
	}
	return res
}

// getInheritXPathFromSpec returns an XPath string that is suitable for
// searching the base view and find the node to modify.
func getInheritXPathFromSpec(spec *etree.Element) (string, error) {
	if spec.Tag == "xpath" {
		expr := spec.SelectAttr("expr")
		if expr == nil {
			return "", errors.New("xpath spec without 'expr' attribute")
		}
		return expr.Value, nil
	}
	if len(spec.Attr) < 1 || len(spec.Attr) > 2 {
		return "", errors.New("invalid view inherit spec")
	}
	var attrStr string
	for _, attr := range spec.Attr {
		if attr.Key != "position" {
			attrStr = fmt.Sprintf("[@%s='%s']", attr.Key, attr.Value)
			break
		}
	}
	return fmt.Sprintf("//%s%s", spec.Tag, attrStr), nil
}
