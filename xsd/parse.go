package xsd

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pihentagy/xampler/internal/ordered"
	"github.com/pihentagy/xampler/xmltree"
)

// tnsPrefix is bound to the target namespace of every schema document
// before parsing, so that generated QNames always resolve.
const tnsPrefix = "_tns"

// A Ref contains the canonical namespace of a schema document, and
// possibly a URI to retrieve the document from. It is not required
// for XML Schema documents to provide the location of schema that
// they import; it is expected that all well-known schema namespaces
// are available to the consumer of a schema beforehand.
type Ref struct {
	Namespace, Location string
}

// Imports reads an XML document containing one or more <schema>
// elements and returns a list of canonical XML name spaces that
// the schema imports or includes, along with a URL for the schema,
// if provided.
func Imports(data []byte) ([]Ref, error) {
	var result []Ref

	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}

	for _, tree := range schemaRoots(root) {
		ns := tree.Attr("", "targetNamespace")
		for _, v := range tree.Search(schemaNS, "import") {
			result = append(result, Ref{v.Attr("", "namespace"), v.Attr("", "schemaLocation")})
		}
		for _, v := range tree.Search(schemaNS, "include") {
			result = append(result, Ref{ns, v.Attr("", "schemaLocation")})
		}
	}
	return result, nil
}

// TargetNamespaces returns the target namespace of every <schema>
// element in an XML document.
func TargetNamespaces(data []byte) ([]string, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, tree := range schemaRoots(root) {
		result = append(result, tree.Attr("", "targetNamespace"))
	}
	return result, nil
}

func schemaRoots(root *xmltree.Element) []*xmltree.Element {
	if (root.Name == xml.Name{Space: schemaNS, Local: "schema"}) {
		return []*xmltree.Element{root}
	}
	return root.Search(schemaNS, "schema")
}

// Parse reads XML documents containing one or more <schema>
// elements, such as .xsd files or WSDL documents. The returned slice
// has one Schema for every target namespace in the documents. Parse
// will not fetch schema used in <import> or <include> statements;
// use the Imports function to find any additional schema documents
// required for a schema.
func Parse(docs ...[]byte) ([]Schema, error) {
	docs = append(docs, StandardSchema...)
	schema := make(map[string]*xmltree.Element, len(docs))

	for _, data := range docs {
		root, err := xmltree.Parse(data)
		if err != nil {
			return nil, err
		}
		// Documents with the same target namespace are merged, which
		// is how <include> declarations are handled.
		for _, s := range schemaRoots(root) {
			ns := s.Attr("", "targetNamespace")
			if v, ok := schema[ns]; ok {
				v.Children = append(v.Children, s.Children...)
			} else {
				schema[ns] = s
			}
		}
	}

	var err error
	ordered.Range(schema, func(tns string, root *xmltree.Element) {
		if err == nil {
			err = prepare(root, tns)
		}
	})
	if err != nil {
		return nil, err
	}
	index := indexSchema(schema)
	ordered.Range(schema, func(_ string, root *xmltree.Element) {
		if err == nil {
			err = derefRefs(root, index)
		}
	})
	if err != nil {
		return nil, err
	}

	var (
		result = make([]Schema, 0, len(schema))
		types  = make(map[xml.Name]Type)
	)
	ordered.Range(schema, func(tns string, root *xmltree.Element) {
		if err != nil {
			return
		}
		s := Schema{TargetNS: tns, Types: make(map[xml.Name]Type)}
		if err = s.parseTypes(root); err == nil {
			result = append(result, s)
		}
	})
	if err != nil {
		return nil, err
	}
	for _, s := range result {
		for name, t := range s.Types {
			types[name] = t
		}
	}
	for i := range result {
		s := &result[i]
		if err := s.resolvePartialTypes(types); err != nil {
			return nil, err
		}
		if err := s.parseElements(schema[s.TargetNS], types); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func parseType(name xml.Name) Type {
	if name.Local == "" {
		return AnyType
	}
	builtin, err := ParseBuiltin(name)
	if err != nil {
		return linkedType(name)
	}
	return builtin
}

// prepare binds tnsPrefix to the target namespace on every element of
// the schema and gives every anonymous type a name.
func prepare(root *xmltree.Element, targetNS string) error {
	bind := xml.Name{Space: targetNS, Local: tnsPrefix}
	root.Scope = append(root.Scope[:len(root.Scope):len(root.Scope)], bind)
	for _, el := range root.SearchFunc(func(*xmltree.Element) bool { return true }) {
		el.Scope = append(el.Scope[:len(el.Scope):len(el.Scope)], bind)
	}
	return nameAnonymousTypes(root)
}

/*
Convert

  <xs:element name="a">
    <xs:simpleType>
      <xs:restriction base="xs:int"/>
    </xs:simpleType>
  </xs:element>

to

  <xs:element name="a" type="_tns:_anon1">
    <xs:simpleType name="_anon1" _isAnonymous="true">
      <xs:restriction base="xs:int"/>
    </xs:simpleType>
  </xs:element>
*/
func nameAnonymousTypes(root *xmltree.Element) error {
	var typeCounter int
	for _, el := range root.SearchFunc(hasAnonymousType) {
		if el.Name.Space != schemaNS {
			continue
		}
		var (
			updateAttr string
			accum      bool
		)
		switch el.Name.Local {
		case "element", "attribute":
			updateAttr = "type"
		case "list":
			updateAttr = "itemType"
		case "restriction":
			updateAttr = "base"
		case "union":
			updateAttr = "memberTypes"
			accum = true
		default:
			return fmt.Errorf("did not expect <%s> to have an anonymous type", el.Name.Local)
		}
		for i := range el.Children {
			t := &el.Children[i]
			if !isAnonymousType(t) {
				continue
			}
			typeCounter++
			name := fmt.Sprintf("_anon%d", typeCounter)
			t.SetAttr("", "name", name)
			t.SetAttr("", "_isAnonymous", "true")
			qname := tnsPrefix + ":" + name
			if accum {
				qname = strings.TrimSpace(el.Attr("", updateAttr) + " " + qname)
			}
			el.SetAttr("", updateAttr, qname)
			if !accum {
				break
			}
		}
	}
	return nil
}

/*
Replace references to top-level declarations with a copy of the
declaration, so that

  <xs:complexType name="Array">
    <xs:group ref="tns:Array" minOccurs="0" />
    <xs:attributeGroup ref="tns:commonAttributes" />
  </xs:complexType>

is parsed as if the group and attribute group were written inline.
Attributes of the referencing element, such as minOccurs, are kept.
*/
func derefRefs(root *xmltree.Element, index *schemaIndex) error {
	for _, el := range root.SearchFunc(hasAttr("", "ref")) {
		if el.Name.Space != schemaNS {
			continue
		}
		ref := el.Resolve(el.Attr("", "ref"))
		real, ok := index.ByName(ref, el.Name)
		if !ok {
			return fmt.Errorf("could not dereference <%s ref=%q>", el.Name.Local, el.Attr("", "ref"))
		}
		extraAttr := el.StartElement.Attr
		el.StartElement = real.StartElement.Copy()
		el.Content = real.Content
		el.Children = real.Children
		el.Scope = real.Scope
		for _, attr := range extraAttr {
			if attr.Name.Local == "ref" {
				continue
			}
			el.SetAttr(attr.Name.Space, attr.Name.Local, attr.Value)
		}
		el.SetAttr("", "_deref", "true")
	}
	return nil
}

func (s *Schema) parseTypes(root *xmltree.Element) (err error) {
	defer recoverSchemaError(&err)

	walk(root, func(el *xmltree.Element) {
		if el.Name.Local == "annotation" {
			s.Doc = string(annotation(s.Doc).append(parseAnnotation(el)))
		}
	})
	for _, el := range searchDecls(root, "complexType") {
		t := s.parseComplexType(el)
		s.Types[t.Name] = t
	}
	for _, el := range searchDecls(root, "simpleType") {
		t := s.parseSimpleType(el)
		s.Types[t.Name] = t
	}
	return err
}

func (s *Schema) parseElements(root *xmltree.Element, types map[xml.Name]Type) (err error) {
	defer recoverSchemaError(&err)

	walk(root, func(el *xmltree.Element) {
		if el.Name.Local != "element" {
			return
		}
		e := parseElement(s.TargetNS, el)
		e.MinOccurs, e.MaxOccurs = 1, 1
		if ref, ok := e.Type.(linkedType); ok {
			t, ok := s.lookupType(ref, types)
			if !ok {
				stop(fmt.Sprintf("could not find type %s in namespace %s", ref.Local, ref.Space))
			}
			e.Type = t
		}
		s.Elements = append(s.Elements, e)
	})
	return err
}

// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-complexType
func (s *Schema) parseComplexType(root *xmltree.Element) *ComplexType {
	var (
		t       ComplexType
		doc     annotation
		derived bool
	)
	t.Name = xml.Name{Space: s.TargetNS, Local: root.Attr("", "name")}
	t.Abstract = parseBool(root.Attr("", "abstract"))
	// We set this special attribute in a pre-processing step.
	t.Anonymous = (root.Attr("", "_isAnonymous") == "true")

	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		case "simpleContent":
			derived = true
			t.parseSimpleContent(s.TargetNS, el)
		case "complexContent":
			derived = true
			t.parseComplexContent(s.TargetNS, el)
		}
	})
	if !derived {
		// a complex type defined without any simpleContent or
		// complexContent is shorthand for complex content that
		// restricts anyType.
		t.Base = AnyType
		t.parseParticles(s.TargetNS, root)
	}
	t.Doc = string(doc.append(annotation(t.Doc)))
	return &t
}

// simpleContent indicates that the content model of the new type
// contains only character data and no elements
func (t *ComplexType) parseSimpleContent(ns string, root *xmltree.Element) {
	var doc annotation
	t.SimpleContent = true
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		case "extension":
			t.Extends = true
			fallthrough
		case "restriction":
			t.Base = parseType(el.Resolve(el.Attr("", "base")))
			t.parseParticles(ns, el)
			if el.Name.Local == "restriction" {
				t.Restriction = parseSimpleRestriction(el)
			}
		}
	})
	t.Doc += string(doc)
}

// The complexContent element signals that we intend to restrict or extend
// the content model of a complex type.
func (t *ComplexType) parseComplexContent(ns string, root *xmltree.Element) {
	var doc annotation
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "extension":
			t.Extends = true
			fallthrough
		case "restriction":
			t.Base = parseType(el.Resolve(el.Attr("", "base")))
			t.parseParticles(ns, el)
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		default:
			stop("unexpected element " + el.Name.Local)
		}
	})
	t.Doc += string(doc)
}

// parseParticles collects the elements and attributes declared directly
// in a type definition, flattening model groups in document order.
// Declarations inside nested element definitions are not collected.
func (t *ComplexType) parseParticles(ns string, root *xmltree.Element) {
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "sequence", "group":
			t.parseParticles(ns, el)
		case "choice":
			t.Model = ChoiceModel
			t.parseParticles(ns, el)
		case "all":
			if t.Model == SequenceModel {
				t.Model = AllModel
			}
			t.parseParticles(ns, el)
		case "element":
			t.Elements = append(t.Elements, parseElement(ns, el))
		case "any":
			t.Elements = append(t.Elements, parseAnyElement(ns, el))
		case "attribute":
			t.Attributes = append(t.Attributes, parseAttribute(ns, el))
		case "attributeGroup":
			t.parseParticles(ns, el)
		}
	})
}

// declName returns the name of a declaration. Copies of top-level
// declarations keep the namespace of the schema they came from.
func declName(el *xmltree.Element, ns string) xml.Name {
	name := xml.Name{Space: ns, Local: el.Attr("", "name")}
	if isDeref(el) {
		if tns, ok := el.ResolveNS(tnsPrefix + ":" + name.Local); ok {
			name.Space = tns.Space
		}
	}
	return name
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		stop(err.Error())
	}
	return n
}

func parseOccurs(s string) int {
	switch s {
	case "":
		return 1
	case "unbounded":
		return Unbounded
	}
	n := parseInt(s)
	if n < 0 {
		stop("negative occurrence bound " + s)
	}
	return n
}

func parseBool(s string) bool {
	switch s {
	case "", "0", "false":
		return false
	case "1", "true":
		return true
	}
	stop("Invalid boolean value " + s)
	return false
}

func setOccurs(e *Element, el *xmltree.Element) {
	e.MinOccurs = parseOccurs(el.Attr("", "minOccurs"))
	e.MaxOccurs = parseOccurs(el.Attr("", "maxOccurs"))
}

func parseAnyElement(ns string, el *xmltree.Element) Element {
	e := Element{
		Type:     AnyType,
		Wildcard: true,
	}
	setOccurs(&e, el)
	return e
}

func parseElement(ns string, el *xmltree.Element) Element {
	var doc annotation
	e := Element{
		Name:     declName(el, ns),
		Type:     parseType(el.Resolve(el.Attr("", "type"))),
		Default:  el.Attr("", "default"),
		Fixed:    el.Attr("", "fixed"),
		Abstract: parseBool(el.Attr("", "abstract")),
		Nillable: parseBool(el.Attr("", "nillable")),
	}
	setOccurs(&e, el)

	walk(el, func(el *xmltree.Element) {
		if el.Name.Local == "annotation" {
			doc = doc.append(parseAnnotation(el))
		}
	})
	e.Doc = string(doc)
	return e
}

func parseAttributeUse(s string) AttributeUse {
	switch s {
	case "", "optional":
		return Optional
	case "required":
		return Required
	case "prohibited":
		return Prohibited
	}
	stop("invalid attribute use " + s)
	return Optional
}

func parseAttribute(ns string, el *xmltree.Element) Attribute {
	var a Attribute
	var doc annotation
	// Local attributes are unqualified.
	a.Name = declName(el, "")
	a.Type = parseType(el.Resolve(el.Attr("", "type")))
	if a.Type == AnyType {
		a.Type = AnySimpleType
	}
	a.Default = el.Attr("", "default")
	a.Fixed = el.Attr("", "fixed")
	a.Use = parseAttributeUse(el.Attr("", "use"))

	walk(el, func(el *xmltree.Element) {
		if el.Name.Local == "annotation" {
			doc = doc.append(parseAnnotation(el))
		}
	})
	a.Doc = string(doc)
	return a
}

func (s *Schema) parseSimpleType(root *xmltree.Element) *SimpleType {
	var t SimpleType
	var doc annotation

	t.Name = xml.Name{Space: s.TargetNS, Local: root.Attr("", "name")}
	t.Anonymous = (root.Attr("", "_isAnonymous") == "true")
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "restriction":
			t.Base = parseType(el.Resolve(el.Attr("", "base")))
			t.Restriction = parseSimpleRestriction(el)
		case "list":
			t.Base = parseType(el.Resolve(el.Attr("", "itemType")))
			t.List = true
		case "union":
			for _, name := range strings.Fields(el.Attr("", "memberTypes")) {
				t.Union = append(t.Union, parseType(el.Resolve(name)))
			}
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		}
	})
	t.Doc = string(doc)
	return &t
}

func parseAnnotation(el *xmltree.Element) (doc annotation) {
	if err := xmltree.Unmarshal(el, &doc); err != nil {
		stop(err.Error())
	}
	return doc
}

func parseSimpleRestriction(root *xmltree.Element) Restriction {
	var r Restriction
	var doc annotation
	var patterns []string

	bound := func(el *xmltree.Element, dst *float64, has, exclusive *bool, excl bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(el.Attr("", "value")), 64)
		if err != nil {
			// Range facets on dates and durations are not modeled.
			r.Ignored = append(r.Ignored, el.Name.Local)
			return
		}
		*dst, *has, *exclusive = v, true, excl
	}
	walk(root, func(el *xmltree.Element) {
		switch el.Name.Local {
		case "enumeration":
			r.Enum = append(r.Enum, el.Attr("", "value"))
		case "minExclusive":
			bound(el, &r.Min, &r.HasMin, &r.MinExclusive, true)
		case "minInclusive":
			bound(el, &r.Min, &r.HasMin, &r.MinExclusive, false)
		case "maxExclusive":
			bound(el, &r.Max, &r.HasMax, &r.MaxExclusive, true)
		case "maxInclusive":
			bound(el, &r.Max, &r.HasMax, &r.MaxExclusive, false)
		case "length":
			r.MinLength = parseInt(el.Attr("", "value"))
			r.MaxLength = r.MinLength
			r.HasMinLength, r.HasMaxLength = true, true
		case "minLength":
			r.MinLength = parseInt(el.Attr("", "value"))
			r.HasMinLength = true
		case "maxLength":
			r.MaxLength = parseInt(el.Attr("", "value"))
			r.HasMaxLength = true
		case "pattern":
			patterns = append(patterns, el.Attr("", "value"))
		case "fractionDigits":
			r.Precision = parseInt(el.Attr("", "value"))
			if r.Precision < 0 {
				stop("Invalid fractionDigits value " + el.Attr("", "value"))
			}
		case "annotation":
			doc = doc.append(parseAnnotation(el))
		case "simpleType", "attribute", "attributeGroup", "anyAttribute",
			"sequence", "choice", "all", "group":
			// not facets
		default:
			r.Ignored = append(r.Ignored, el.Name.Local)
		}
	})
	if len(patterns) > 0 {
		pat := strings.Join(patterns, "|")
		// We don't fully implement XML Schema's pattern language, and
		// we don't want to stop a parse because of this. Instead, if we
		// cannot compile a regex, we'll add the error msg to the annotation
		// for this restriction.
		reg, err := parsePattern(pat)
		if err != nil {
			msg := fmt.Sprintf("This type must conform to the pattern %q, but the XSD library could not parse the regular expression. (%v)", pat, err)
			doc = doc.append(annotation(msg))
			r.Ignored = append(r.Ignored, "pattern")
		}
		r.Pattern = reg
	}
	r.Doc = string(doc)
	return r
}

// XML Schema defines its own flavor of regular expressions here:
//
// http://www.w3.org/TR/xmlschema-0/#regexAppendix
//
// They are close enough to RE2 that most patterns compile unchanged.
// XML Schema patterns always match the whole value, so the result is
// anchored.
func parsePattern(pat string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pat + `)$`)
}

// Resolve all linkedTypes in a schema, so that all types are based
// on a SimpleType, ComplexType, or a Builtin. Also resolve the types
// of all Attributes and Elements.
func (s *Schema) resolvePartialTypes(types map[xml.Name]Type) error {
	resolve := func(t Type, what string, name xml.Name) (Type, error) {
		ref, ok := t.(linkedType)
		if !ok {
			return t, nil
		}
		real, ok := s.lookupType(ref, types)
		if !ok {
			return nil, fmt.Errorf("%s: could not find type %s in namespace %s", what, ref.Local, ref.Space)
		}
		return real, nil
	}
	var err error
	ordered.RangeNames(s.Types, func(name xml.Name, t Type) {
		if err != nil {
			return
		}
		switch t := t.(type) {
		case *ComplexType:
			what := "complexType " + name.Local
			if t.Base != nil {
				if t.Base, err = resolve(t.Base, what+" base", name); err != nil {
					return
				}
			}
			for i := range t.Elements {
				e := &t.Elements[i]
				if e.Type, err = resolve(e.Type, what+" element "+e.Name.Local, name); err != nil {
					return
				}
			}
			for i := range t.Attributes {
				a := &t.Attributes[i]
				if a.Type, err = resolve(a.Type, what+" attribute "+a.Name.Local, name); err != nil {
					return
				}
			}
		case *SimpleType:
			what := "simpleType " + name.Local
			if t.Base != nil {
				if t.Base, err = resolve(t.Base, what+" base", name); err != nil {
					return
				}
			}
			for i := range t.Union {
				if t.Union[i], err = resolve(t.Union[i], what+" union member", name); err != nil {
					return
				}
			}
		default:
			// The parse functions only add *SimpleType or *ComplexType
			// to the Types map.
			panic(fmt.Sprintf("Unexpected type %s (%T) in Schema.Types map", name.Local, t))
		}
	})
	return err
}

func (s *Schema) lookupType(name linkedType, ext map[xml.Name]Type) (Type, bool) {
	if b, err := ParseBuiltin(xml.Name(name)); err == nil {
		return b, true
	}
	if v, ok := ext[xml.Name(name)]; ok {
		return v, true
	}
	v, ok := s.Types[xml.Name(name)]
	return v, ok
}
