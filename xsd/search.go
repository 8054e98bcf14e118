package xsd

import "github.com/pihentagy/xampler/xmltree"

// Search predicates for the xmltree.Element.SearchFunc method
type predicate func(el *xmltree.Element) bool

func and(fns ...predicate) predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if !f(el) {
				return false
			}
		}
		return true
	}
}

func or(fns ...predicate) predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if f(el) {
				return true
			}
		}
		return false
	}
}

func hasChild(fn predicate) predicate {
	return func(el *xmltree.Element) bool {
		for i := range el.Children {
			if fn(&el.Children[i]) {
				return true
			}
		}
		return false
	}
}

func isElem(space, local string) predicate {
	return func(el *xmltree.Element) bool {
		if el.Name.Local != local {
			return false
		}
		return space == "" || el.Name.Space == space
	}
}

func hasAttr(space, local string) predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) != ""
	}
}

func hasAttrValue(space, local, value string) predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) == value
	}
}

var (
	isType           = or(isElem(schemaNS, "complexType"), isElem(schemaNS, "simpleType"))
	isAnonymousType  = and(isType, hasAttrValue("", "name", ""))
	hasAnonymousType = hasChild(isAnonymousType)
	isDeref          = hasAttrValue("", "_deref", "true")
)

// searchDecls returns every <local> element in the XML Schema
// namespace below root, without looking inside copies made by
// derefRefs; those are found at their original declaration.
func searchDecls(root *xmltree.Element, local string) []*xmltree.Element {
	var result []*xmltree.Element
	match := isElem(schemaNS, local)
	var search func(el *xmltree.Element)
	search = func(el *xmltree.Element) {
		for i := range el.Children {
			c := &el.Children[i]
			if isDeref(c) {
				continue
			}
			if match(c) {
				result = append(result, c)
			}
			search(c)
		}
	}
	search(root)
	return result
}
