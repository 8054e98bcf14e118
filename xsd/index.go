package xsd

import (
	"encoding/xml"

	"github.com/pihentagy/xampler/internal/ordered"
	"github.com/pihentagy/xampler/xmltree"
)

// A declaration is looked up by its qualified name and by the kind
// of declaration, since an element and a type may share a name.
type declKey struct {
	Name, Kind xml.Name
}

// A schemaIndex finds the top-level declarations of all schema
// documents. Only direct children of <schema> can be the target of a
// ref attribute.
type schemaIndex struct {
	byName map[declKey]*xmltree.Element
}

func (idx *schemaIndex) ByName(name, kind xml.Name) (*xmltree.Element, bool) {
	el, ok := idx.byName[declKey{name, kind}]
	return el, ok
}

func indexSchema(schema map[string]*xmltree.Element) *schemaIndex {
	index := &schemaIndex{byName: make(map[declKey]*xmltree.Element)}
	ordered.Range(schema, func(targetNS string, root *xmltree.Element) {
		for i := range root.Children {
			el := &root.Children[i]
			if el.Name.Space != schemaNS {
				continue
			}
			if name := el.Attr("", "name"); name != "" {
				key := declKey{xml.Name{Space: targetNS, Local: name}, el.Name}
				if _, dup := index.byName[key]; !dup {
					index.byName[key] = el
				}
			}
		}
	})
	return index
}
