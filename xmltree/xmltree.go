// Package xmltree holds XML documents as a tree of Go structs.
//
// The xmltree package is used in two directions. Schema documents are
// read with Parse and queried with Search and Resolve, which understand
// the namespace-prefixed strings XML Schema puts in attribute values.
// Generated documents are built with AddChild, SetAttr and SetText and
// written out with Encode or MarshalIndent.
package xmltree // import "github.com/pihentagy/xampler/xmltree"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// An Element represents a single element in an XML document. Elements
// may have zero or more children. Content holds the raw, still escaped,
// inner XML of the element; for parsed documents the backing array is
// shared among all elements and should not be modified. An Element also
// captures xml namespace prefixes, so that QNames in attribute values
// can be resolved.
type Element struct {
	xml.StartElement
	Content  []byte
	Children []Element
	// Defined XML namespace prefixes, from least specific to most
	// specific. The Space field is the canonical xml namespace, and
	// the Local field is the prefix.
	Scope []xml.Name
}

// New returns an empty element with the given local name.
func New(local string) *Element {
	return &Element{StartElement: xml.StartElement{Name: xml.Name{Local: local}}}
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered. If no attribute matches,
// the empty string is returned.
func (el *Element) Attr(space, local string) string {
	v, _ := el.LookupAttr(space, local)
	return v
}

// LookupAttr is like Attr, but reports whether the attribute exists.
func (el *Element) LookupAttr(space, local string) (string, bool) {
	for _, v := range el.StartElement.Attr {
		if v.Name.Local != local {
			continue
		}
		if space == "" || space == v.Name.Space {
			return v.Value, true
		}
	}
	return "", false
}

// SetAttr adds an XML attribute to an Element's existing Attributes.
// If the attribute already exists, it is replaced. Values are stored
// unescaped; Encode escapes them.
func (el *Element) SetAttr(space, local, value string) {
	for i, a := range el.StartElement.Attr {
		if a.Name.Local != local {
			continue
		}
		if space == "" || a.Name.Space == space {
			el.StartElement.Attr[i].Value = value
			return
		}
	}
	el.StartElement.Attr = append(el.StartElement.Attr, xml.Attr{
		Name:  xml.Name{Space: space, Local: local},
		Value: value,
	})
}

// Declare binds prefix to the namespace uri for el and the children
// added to it afterwards. An xmlns attribute is added unless the
// binding is already in scope. The prefix must not be empty.
func (el *Element) Declare(prefix, uri string) {
	if p, ok := el.lookupPrefix(uri); ok && p == prefix {
		return
	}
	decl := xml.Attr{Name: xml.Name{Space: "xmlns", Local: prefix}, Value: uri}
	el.SetAttr(decl.Name.Space, decl.Name.Local, decl.Value)
	el.pushNS(xml.StartElement{Attr: []xml.Attr{decl}})
}

// AddChild appends a new, empty child element and returns a pointer
// to it. The pointer refers into el.Children and is only valid until
// the next call to AddChild on el.
func (el *Element) AddChild(name xml.Name) *Element {
	el.Children = append(el.Children, Element{
		StartElement: xml.StartElement{Name: name},
		Scope:        el.Scope,
	})
	return &el.Children[len(el.Children)-1]
}

// SetText replaces the content of el with the character data s.
func (el *Element) SetText(s string) {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	xml.EscapeText(&buf, []byte(s))
	el.Content = buf.Bytes()
}

// Text returns the character data directly inside el, with entities
// decoded. Markup of child elements is skipped.
func (el *Element) Text() string {
	var text strings.Builder
	d := xml.NewDecoder(bytes.NewReader(el.Content))
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				text.Write(tok)
			}
		}
	}
	return text.String()
}

// Unmarshal parses the XML encoding of the Element and stores the result
// in the value pointed to by v. Unmarshal follows the same rules as
// xml.Unmarshal, but only parses the portion of the XML document
// contained by the Element.
func Unmarshal(el *Element, v interface{}) error {
	start := el.StartElement
	for _, ns := range el.Scope {
		name := xml.Name{Local: "xmlns"}
		if ns.Local != "" {
			name.Local += ":" + ns.Local
		}
		start.Attr = append(start.Attr, xml.Attr{Name: name, Value: ns.Space})
	}
	if start.Name.Space != "" {
		prefix, ok := el.lookupPrefix(start.Name.Space)
		if !ok {
			return fmt.Errorf("could not find namespace prefix for %q when decoding %s",
				start.Name.Space, start.Name.Local)
		}
		start.Name.Space = ""
		if prefix != "" {
			start.Name.Local = prefix + ":" + start.Name.Local
		}
	}

	var buf bytes.Buffer
	e := xml.NewEncoder(&buf)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Flush(); err != nil {
		return err
	}
	// Content reflects the parsed document; edits to Children are
	// not seen here.
	buf.Write(el.Content)
	if err := e.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return err
	}
	if err := e.Flush(); err != nil {
		return err
	}
	return xml.Unmarshal(buf.Bytes(), v)
}

// Resolve translates an XML QName (namespace-prefixed string) to an
// xml.Name with a canonicalized namespace in its Space field. If qname
// does not have a prefix, the default namespace is used. If a prefix
// cannot be resolved, the returned value's Space field is the
// unresolved prefix; use ResolveNS to detect that case.
func (el *Element) Resolve(qname string) xml.Name {
	name, _ := el.ResolveNS(qname)
	return name
}

// ResolveNS is like Resolve, but returns false for its second return
// value if a namespace prefix cannot be resolved.
func (el *Element) ResolveNS(qname string) (xml.Name, bool) {
	prefix, local := "", qname
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		prefix, local = qname[:i], qname[i+1:]
	}
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Local == prefix {
			return xml.Name{Space: el.Scope[i].Space, Local: local}, true
		}
	}
	if prefix == "xml" {
		return xml.Name{Space: xmlNS, Local: local}, true
	}
	return xml.Name{Space: prefix, Local: local}, false
}

// Prefix is the inverse of Resolve. It uses the closest prefix defined
// for a namespace to create a string of the form prefix:local, or just
// local for the default namespace. If the namespace cannot be found,
// an empty string is returned.
func (el *Element) Prefix(name xml.Name) (qname string) {
	prefix, ok := el.lookupPrefix(name.Space)
	switch {
	case !ok:
		return ""
	case prefix == "":
		return name.Local
	}
	return prefix + ":" + name.Local
}

func (el *Element) lookupPrefix(space string) (string, bool) {
	for i := len(el.Scope) - 1; i >= 0; i-- {
		if el.Scope[i].Space == space {
			return el.Scope[i].Local, true
		}
	}
	return "", false
}

func (el *Element) pushNS(tag xml.StartElement) {
	var scope []xml.Name
	for _, attr := range tag.Attr {
		if attr.Name.Space == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value, Local: attr.Name.Local})
		} else if attr.Name.Local == "xmlns" {
			scope = append(scope, xml.Name{Space: attr.Value})
		}
	}
	if len(scope) > 0 {
		el.Scope = append(el.Scope, scope...)
		// Force later additions into a new backing array, so that
		// sibling scopes do not clobber each other.
		el.Scope = el.Scope[:len(el.Scope):len(el.Scope)]
	}
}

type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.Token()
	return s.err == nil
}

// Parse builds a tree of Elements by reading an XML document with a
// single root element. Documents declaring a non-UTF-8 encoding are
// transcoded to UTF-8 first, so Content is always UTF-8.
func Parse(doc []byte) (*Element, error) {
	doc, err := toUTF8(doc)
	if err != nil {
		return nil, err
	}
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}
	scanner := scanner{Decoder: d}
	root := new(Element)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			root.StartElement = start.Copy()
			break
		}
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := root.parse(&scanner, doc, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// toUTF8 transcodes doc according to the encoding named in its XML
// declaration.
func toUTF8(doc []byte) ([]byte, error) {
	if !bytes.HasPrefix(doc, []byte("<?xml")) {
		return doc, nil
	}
	d := xml.NewDecoder(bytes.NewReader(doc))
	// Only the declaration is read here; it is ASCII in any encoding.
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}
	tok, err := d.RawToken()
	if err != nil {
		return nil, err
	}
	decl, ok := tok.(xml.ProcInst)
	if !ok || decl.Target != "xml" {
		return doc, nil
	}
	label := procInstParam(string(decl.Inst), "encoding")
	if label == "" || strings.EqualFold(label, "utf-8") {
		return doc, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return ioutil.ReadAll(r)
}

func procInstParam(inst, param string) string {
	i := strings.Index(inst, param+"=")
	if i < 0 {
		return ""
	}
	v := inst[i+len(param)+1:]
	if len(v) < 2 {
		return ""
	}
	q := v[0]
	if q != '"' && q != '\'' {
		return ""
	}
	if j := strings.IndexByte(v[1:], q); j >= 0 {
		return v[1 : j+1]
	}
	return ""
}

func (el *Element) parse(scanner *scanner, data []byte, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	el.pushNS(el.StartElement)

	begin := scanner.InputOffset()
	end := begin
walk:
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := Element{StartElement: tok.Copy(), Scope: el.Scope}
			if err := child.parse(scanner, data, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			if tok.Name != el.Name {
				return fmt.Errorf("expecting </%s>, got </%s>", el.Name.Local, tok.Name.Local)
			}
			el.Content = data[int(begin):int(end)]
			break walk
		}
		end = scanner.InputOffset()
	}
	return scanner.err
}

// SearchFunc traverses the Element tree in depth-first order and returns
// a slice of Elements for which fn returns true. The children of
// matching elements are searched as well.
func (root *Element) SearchFunc(fn func(*Element) bool) []*Element {
	var results []*Element
	var search func(el *Element)

	search = func(el *Element) {
		if fn(el) {
			results = append(results, el)
		}
		for i := range el.Children {
			search(&el.Children[i])
		}
	}
	for i := range root.Children {
		search(&root.Children[i])
	}
	return results
}

// Search searches the Element tree for Elements with an xml tag
// matching the name and xml namespace. If space is the empty string,
// any namespace is matched.
func (root *Element) Search(space, local string) []*Element {
	return root.SearchFunc(func(el *Element) bool {
		if local != el.Name.Local {
			return false
		}
		return space == "" || space == el.Name.Space
	})
}
