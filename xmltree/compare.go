package xmltree

import (
	"bytes"
	"encoding/xml"
	"sort"
)

const maxCompareDepth = 1000

// Equal returns true if two xmltree.Elements are equal, ignoring
// differences in white space, sub-element order, and namespace prefixes.
// Neither tree is modified.
func Equal(a, b *Element) bool {
	return equal(a, b, 0)
}

// SameShape returns true if a and b have the same element names in the
// same order and nesting, and every element carries the same set of
// attribute names. Attribute values and character data are ignored.
func SameShape(a, b *Element) bool {
	return sameShape(a, b, 0)
}

func byName(children []Element) []*Element {
	sorted := make([]*Element, len(children))
	for i := range children {
		sorted[i] = &children[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		x, y := sorted[i].Name, sorted[j].Name
		return x.Space+x.Local < y.Space+y.Local
	})
	return sorted
}

func equal(a, b *Element, depth int) bool {
	if depth > maxCompareDepth {
		return false
	}
	if a.Name != b.Name || !sameAttrs(a, b, true) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if len(a.Children) == 0 {
		return bytes.Equal(bytes.TrimSpace(a.Content), bytes.TrimSpace(b.Content))
	}
	x, y := byName(a.Children), byName(b.Children)
	for i := range x {
		if !equal(x[i], y[i], depth+1) {
			return false
		}
	}
	return true
}

func sameShape(a, b *Element, depth int) bool {
	if depth > maxCompareDepth {
		return false
	}
	if a.Name != b.Name || !sameAttrs(a, b, false) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !sameShape(&a.Children[i], &b.Children[i], depth+1) {
			return false
		}
	}
	return true
}

func isNSDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

func sameAttrs(a, b *Element, values bool) bool {
	attrs := make(map[xml.Name]string)
	for _, v := range a.StartElement.Attr {
		if !isNSDecl(v) {
			attrs[v.Name] = v.Value
		}
	}
	n := 0
	for _, v := range b.StartElement.Attr {
		if isNSDecl(v) {
			continue
		}
		n++
		have, ok := attrs[v.Name]
		if !ok || (values && have != v.Value) {
			return false
		}
	}
	return n == len(attrs)
}
