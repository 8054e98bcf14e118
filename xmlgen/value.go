package xmlgen

import (
	"strings"

	"github.com/juju/errors"

	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

// Items generated for a value of a list type.
const maxListItems = 5

// value returns the text of an element or the value of an attribute.
// The value hook comes first, then a fixed value constraint, then a
// default value if UseDefaults is set, then the declared type.
func (g *generator) value(node Node, out *xmltree.Element) string {
	if g.valueHook != nil {
		if v, ok := g.valueHook(node, out); ok {
			return v
		}
	}
	if fixed := node.fixed(); fixed != "" {
		return fixed
	}
	if g.useDefaults {
		if d := node.defaultValue(); d != "" {
			return d
		}
	}
	return g.typeValue(node.Type())
}

func (g *generator) typeValue(t xsd.Type) string {
	switch t := t.(type) {
	case xsd.Builtin:
		fn, ok := g.primitives.Lookup(t)
		if !ok {
			fail(errors.NotFoundf("value generator for built-in type %s", t))
		}
		return fn(g.rand)
	case *xsd.SimpleType:
		switch {
		case t.List:
			items := make([]string, 1+g.rand.Intn(maxListItems))
			for i := range items {
				items[i] = g.typeValue(t.Base)
			}
			return strings.Join(items, " ")
		case len(t.Union) > 0:
			return g.typeValue(t.Union[g.rand.Intn(len(t.Union))])
		}
		return g.restricted(t.Name, &t.Restriction, t.Base)
	case *xsd.ComplexType:
		if !t.SimpleContent {
			fail(errors.NotSupportedf("text value of complex type %s", t.Name.Local))
		}
		if t.Extends {
			return g.typeValue(t.Base)
		}
		return g.restricted(t.Name, &t.Restriction, t.Base)
	}
	fail(errors.NotSupportedf("unknown type %T", t))
	return ""
}
