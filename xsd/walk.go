package xsd

import (
	"strings"

	"github.com/pihentagy/xampler/xmltree"
)

// A schemaError is raised with stop from anywhere inside a walk. The
// innermost walk records the child it was visiting, and each walk it
// unwinds through adds the label of its own root, so the trail reads
// from the outermost walked element down to the faulty one.
type schemaError struct {
	trail []string
	msg   string
}

func (e *schemaError) Error() string {
	if len(e.trail) == 0 {
		return "xsd: " + e.msg
	}
	return "xsd: " + strings.Join(e.trail, "/") + ": " + e.msg
}

func stop(msg string) {
	panic(&schemaError{msg: msg})
}

// label names a schema element in an error trail, as tag[name] or
// tag[@ref].
func label(el *xmltree.Element) string {
	if name := el.Attr("", "name"); name != "" {
		return el.Name.Local + "[" + name + "]"
	}
	if ref := el.Attr("", "ref"); ref != "" {
		return el.Name.Local + "[@" + ref + "]"
	}
	return el.Name.Local
}

// walk calls fn on each child of root in the XML Schema namespace.
// Children appended by fn are visited too.
func walk(root *xmltree.Element, fn func(*xmltree.Element)) {
	var cur *xmltree.Element
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		serr, ok := r.(*schemaError)
		if !ok {
			panic(r)
		}
		if len(serr.trail) == 0 && cur != nil {
			serr.trail = []string{label(cur)}
		}
		serr.trail = append([]string{label(root)}, serr.trail...)
		panic(serr)
	}()
	for i := 0; i < len(root.Children); i++ {
		if cur = &root.Children[i]; cur.Name.Space == schemaNS {
			fn(cur)
		}
	}
}

// recoverSchemaError stores a schemaError raised by stop in *err. Any
// other panic is passed on.
func recoverSchemaError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	serr, ok := r.(*schemaError)
	if !ok {
		panic(r)
	}
	*err = serr
}
