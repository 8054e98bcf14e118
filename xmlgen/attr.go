package xmlgen

import (
	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

const xmlNS = "http://www.w3.org/XML/1998/namespace"

// attributes fills in the attributes declared for the type of node, in
// declaration order.
func (g *generator) attributes(node Node, out *xmltree.Element) {
	t, ok := node.Element.Type.(*xsd.ComplexType)
	if !ok {
		return
	}
	for _, attr := range xsd.Attributes(t) {
		attr := attr
		an := Node{
			Name:      attr.Name,
			Attribute: &attr,
			Owner:     node.Name,
			Depth:     node.Depth,
			Context:   node.Context,
		}
		if !g.present(an) {
			continue
		}
		within(attr.Name.Local, func() {
			// Only the xml: prefix is predeclared; other attributes
			// are written unqualified.
			space := ""
			if attr.Name.Space == xmlNS {
				space = xmlNS
			}
			out.SetAttr(space, attr.Name.Local, g.value(an, out))
		})
	}
}

// present decides whether an attribute appears. Prohibited attributes
// never do and required ones always do; for optional attributes a
// non-zero count from the repeat hook, or else a random draw, decides.
func (g *generator) present(node Node) bool {
	switch node.Attribute.Use {
	case xsd.Prohibited:
		return false
	case xsd.Required:
		return true
	}
	if g.repeatHook != nil {
		if n, ok := g.repeatHook(node); ok {
			return n != 0
		}
	}
	return g.rand.Float64() < g.optionalChance
}
