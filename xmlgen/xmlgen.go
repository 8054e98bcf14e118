package xmlgen

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/untillpro/goutils/logger"

	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

const (
	indentShift = 4
	xsiNS       = "http://www.w3.org/2001/XMLSchema-instance"
)

// generator carries the state of one Generate call.
type generator struct {
	*Config
}

// Generate builds a document whose root element is declared by root.
// The root element occurs exactly once, whatever its occurrence bounds.
// On failure the returned error is an *Error locating the declaration
// that could not be generated.
func (cfg *Config) Generate(root xsd.Element) (doc *xmltree.Element, err error) {
	defer catchError(&err)
	g := generator{cfg}
	out := xmltree.New(root.Name.Local)
	g.trace(0, fmt.Sprintf("<!-- %s 1 -->", root.Name.Local))
	g.doc(0, root.Doc)
	within(root.Name.Local, func() {
		g.node(Node{Name: root.Name, Element: &root}, out)
	})
	return out, nil
}

// GenerateInto adds the occurrences of the element declared by decl to
// parent. The number of occurrences is chosen as for any child element.
func (cfg *Config) GenerateInto(parent *xmltree.Element, decl xsd.Element) (err error) {
	defer catchError(&err)
	g := generator{cfg}
	g.slot(Node{Name: decl.Name, Element: &decl}, parent)
	return nil
}

// slot generates every occurrence of a child element.
func (g *generator) slot(node Node, parent *xmltree.Element) {
	e := node.Element
	label := node.Name.Local
	if e.Wildcard {
		label = "*"
	}
	within(label, func() {
		if e.Wildcard {
			fail(errors.NotSupportedf("wildcard element"))
		}
		if e.Abstract {
			fail(errors.NotSupportedf("abstract element"))
		}
		if node.Depth > g.maxDepth {
			fail(errors.Errorf("elements nested deeper than %d", g.maxDepth))
		}
		count := g.repeat(node)
		if logger.IsVerbose() {
			g.trace(node.Depth, fmt.Sprintf("<!-- %s %d (%d-%s) -->", node.Name.Local, count, e.MinOccurs, occurs(e.MaxOccurs)))
			g.doc(node.Depth, e.Doc)
		}
		for i := 0; i < count; i++ {
			out := parent.AddChild(xml.Name{Local: node.Name.Local})
			g.node(node, out)
		}
	})
}

// node generates the attributes and content of one element.
func (g *generator) node(node Node, out *xmltree.Element) {
	if g.contextHook != nil {
		node = node.with(g.contextHook(node, out))
	}
	if node.Element.Nillable && g.nilChance > 0 && g.rand.Float64() < g.nilChance {
		g.attributes(node, out)
		out.Declare("xsi", xsiNS)
		out.SetAttr(xsiNS, "nil", "true")
		return
	}
	t, ok := node.Element.Type.(*xsd.ComplexType)
	if !ok || t.SimpleContent {
		g.attributes(node, out)
		out.SetText(g.value(node, out))
		return
	}
	if g.elementHook != nil {
		g.elementHook(node, out)
	}
	if m := xsd.Model(t); m != xsd.SequenceModel {
		fail(errors.NotSupportedf("%s content model of type %s", m, t.Name.Local))
	}
	g.attributes(node, out)
	for _, child := range xsd.Elements(t) {
		child := child
		g.slot(Node{Name: child.Name, Element: &child, Depth: node.Depth + 1, Context: node.Context}, out)
	}
}

func occurs(n int) string {
	if n == xsd.Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(n)
}

func (g *generator) trace(depth int, msg string) {
	if logger.IsVerbose() {
		logger.Verbose(strings.Repeat(" ", indentShift*depth) + msg)
	}
}

func (g *generator) doc(depth int, doc string) {
	if doc != "" {
		g.trace(depth, "<!-- "+strings.Join(strings.Fields(doc), " ")+" -->")
	}
}
