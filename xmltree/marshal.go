package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const xmlNS = "http://www.w3.org/XML/1998/namespace"

// Header is a generic XML declaration, suitable for writing in front
// of the output of Encode.
const Header = xml.Header

// Marshal produces the XML encoding of an Element as a self-contained
// document fragment. Namespace prefixes that are in scope for el but
// declared on one of its ancestors are declared on the root tag.
func Marshal(el *Element) []byte {
	return MarshalIndent(el, "", "")
}

// MarshalIndent is like Marshal, but each child element begins on a new
// line starting with prefix and followed by one or more copies of indent
// according to its nesting depth. Elements without children are written
// on a single line.
func MarshalIndent(el *Element, prefix, indent string) []byte {
	var buf bytes.Buffer
	if err := EncodeIndent(&buf, el, prefix, indent); err != nil {
		// bytes.Buffer.Write does not return errors
		panic(err)
	}
	return buf.Bytes()
}

// Encode writes the XML encoding of the Element to w. Encode returns
// any errors encountered writing to w.
func Encode(w io.Writer, el *Element) error {
	return EncodeIndent(w, el, "", "")
}

// EncodeIndent is the streaming form of MarshalIndent.
func EncodeIndent(w io.Writer, el *Element, prefix, indent string) error {
	bw := bufio.NewWriter(w)
	enc := encoder{w: bw, prefix: prefix, indent: indent, pretty: prefix != "" || indent != ""}
	if err := enc.encode(el, true, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// String returns the XML encoding of an Element and its children as
// a string.
func (el *Element) String() string {
	return string(Marshal(el))
}

type encoder struct {
	w              *bufio.Writer
	prefix, indent string
	pretty         bool
}

func (e *encoder) encode(el *Element, root bool, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	e.w.WriteByte('<')
	e.w.WriteString(qualifiedName(el, el.Name))
	for _, a := range el.StartElement.Attr {
		e.w.WriteByte(' ')
		e.w.WriteString(attrName(el, a.Name))
		e.w.WriteString(`="`)
		escapeAttr(e.w, a.Value)
		e.w.WriteByte('"')
	}
	if root {
		for _, ns := range undeclared(el) {
			e.w.WriteString(" xmlns")
			if ns.Local != "" {
				e.w.WriteByte(':')
				e.w.WriteString(ns.Local)
			}
			e.w.WriteString(`="`)
			escapeAttr(e.w, ns.Space)
			e.w.WriteByte('"')
		}
	}
	e.w.WriteByte('>')

	if len(el.Children) == 0 {
		e.w.Write(el.Content)
	}
	for i := range el.Children {
		e.newline(depth + 1)
		if err := e.encode(&el.Children[i], false, depth+1); err != nil {
			return err
		}
	}
	if len(el.Children) > 0 {
		e.newline(depth)
	}
	e.w.WriteString("</")
	e.w.WriteString(qualifiedName(el, el.Name))
	_, err := e.w.WriteString(">")
	return err
}

func (e *encoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.w.WriteByte('\n')
	e.w.WriteString(e.prefix)
	for i := 0; i < depth; i++ {
		e.w.WriteString(e.indent)
	}
}

func qualifiedName(el *Element, name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	if qname := el.Prefix(name); qname != "" {
		return qname
	}
	return name.Local
}

func attrName(el *Element, name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case xmlNS:
		return "xml:" + name.Local
	}
	return qualifiedName(el, name)
}

// undeclared lists the namespace bindings in el's scope that el does
// not declare itself, keeping only the innermost binding per prefix.
func undeclared(el *Element) []xml.Name {
	declared := make(map[string]bool)
	for _, a := range el.StartElement.Attr {
		switch {
		case a.Name.Space == "xmlns":
			declared[a.Name.Local] = true
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			declared[""] = true
		}
	}
	var result []xml.Name
	for i := len(el.Scope) - 1; i >= 0; i-- {
		ns := el.Scope[i]
		if declared[ns.Local] {
			continue
		}
		declared[ns.Local] = true
		result = append(result, ns)
	}
	return result
}

var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	"\t", "&#x9;",
	"\n", "&#xA;",
	"\r", "&#xD;",
)

func escapeAttr(w io.Writer, s string) {
	attrEscaper.WriteString(w, s)
}
