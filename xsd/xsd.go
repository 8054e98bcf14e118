// Package xsd parses type and element declarations in XML Schema documents.
//
// The xsd package implements a parser for the subset of the XML Schema
// standard that is needed to produce sample documents: elements with
// their occurrence bounds, attributes with their use, complex types
// with their content model, and simple types with the facets that
// constrain their values. It does not validate schema documents.
// Element and attribute groups are de-referenced before parsing, and
// nested sequences of elements are flattened; the content model of a
// complex type records whether a choice or all group was flattened away.
//
// The xsd package respects XML name spaces in schema documents, and can
// parse schema documents that import or include other schema documents.
package xsd // import "github.com/pihentagy/xampler/xsd"

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
)

const schemaNS = "http://www.w3.org/2001/XMLSchema"

// Unbounded is the MaxOccurs of an element declared with
// maxOccurs="unbounded".
const Unbounded = -1

// Types in XML Schema Documents are derived from one of the built-in types
// defined by the standard, by restricting or extending the range of values
// a type may contain. A Type is one of *SimpleType, *ComplexType,
// or Builtin.
type Type interface {
	// just for compile-time type checking
	isType()
}

// An Element describes an XML element that may appear as part of a complex
// type, or at the top level of a schema.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-element
type Element struct {
	// Annotations for this element
	Doc string
	// The canonical name of this element
	Name xml.Name
	// True if this element can have any name. See
	// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-any
	Wildcard bool
	// Type of this element.
	Type Type
	// An abstract element does not appear in the xml document, but
	// is "implemented" by other elements in its substitution group.
	Abstract bool
	// Occurrence bounds. MaxOccurs is Unbounded for
	// maxOccurs="unbounded". Both default to 1.
	MinOccurs, MaxOccurs int
	// True if the element may be given xsi:nil="true" in place of
	// its content.
	Nillable bool
	// Default and Fixed hold the value constraints of the element,
	// if any.
	Default, Fixed string
}

// AttributeUse tells whether an attribute must, may, or must not
// appear on an element.
type AttributeUse int

const (
	Optional AttributeUse = iota
	Required
	Prohibited
)

func (u AttributeUse) String() string {
	switch u {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Prohibited:
		return "prohibited"
	}
	return fmt.Sprintf("AttributeUse(%d)", int(u))
}

// An Attribute describes the key=value pairs that may appear within the
// opening tag of an element. Only complex types may contain attributes.
// The Type of an Attribute can only be a Builtin or SimpleType.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-attribute
type Attribute struct {
	// The canonical name of this attribute. It is uncommon for attributes
	// to have a name space.
	Name xml.Name
	// Annotation provided for this attribute by the schema author.
	Doc string
	// The type of the attribute value. Must be a simple or built-in Type.
	Type Type
	Use  AttributeUse
	// Value constraints of the attribute, if any.
	Default, Fixed string
}

// A Schema is the decoded form of an XSD <schema> element. It contains
// the types and top-level elements declared in the schema.
type Schema struct {
	// The Target namespace of the schema. All types defined in this
	// schema will be in this name space.
	TargetNS string `xml:"targetNamespace,attr"`
	// Types defined in this schema declaration
	Types map[xml.Name]Type
	// Top-level element declarations, in document order. These are
	// the candidate root elements of an instance document.
	Elements []Element
	// Any annotations declared at the top-level of the schema, separated
	// by new lines.
	Doc string
}

// FindElement looks up a top-level element declaration. If name.Space
// is empty, only the local name is compared.
func (s *Schema) FindElement(name xml.Name) (Element, bool) {
	for _, el := range s.Elements {
		if el.Name.Local != name.Local {
			continue
		}
		if name.Space == "" || name.Space == el.Name.Space {
			return el, true
		}
	}
	return Element{}, false
}

// FindElement searches a set of schemas, in order, for a top-level
// element declaration.
func FindElement(schemas []Schema, name xml.Name) (Element, bool) {
	for i := range schemas {
		if el, ok := schemas[i].FindElement(name); ok {
			return el, true
		}
	}
	return Element{}, false
}

// An XSD type can reference other types when deriving new types or
// describing elements. These types don't have to appear in-order; a type
// may be declared before its dependencies.  To handle this, we define a
// "stub" Type, which we can resolve in a second pass.
type linkedType xml.Name

func (linkedType) isType() {}

// ContentModel describes how the child elements of a complex type are
// grouped.
type ContentModel int

const (
	// The children appear once each, in declaration order. Complex
	// types without any child elements also have this model.
	SequenceModel ContentModel = iota
	// Only one of the children appears. Set if any <choice> appears
	// in the type's content, at any depth.
	ChoiceModel
	// The children appear in any order. Set for an <all> group.
	AllModel
)

func (m ContentModel) String() string {
	switch m {
	case SequenceModel:
		return "sequence"
	case ChoiceModel:
		return "choice"
	case AllModel:
		return "all"
	}
	return fmt.Sprintf("ContentModel(%d)", int(m))
}

// A ComplexType describes an XML element that may contain attributes
// and elements in its content. Complex types are derived by extending
// or restricting another type. The xsd package records the elements and
// attributes declared by the type itself; use the Elements and
// Attributes functions to include those of its base types.
//
// http://www.w3.org/TR/2004/REC-xmlschema-1-20041028/structures.html#element-complexType
type ComplexType struct {
	// Annotations provided by the schema author.
	Doc string
	// The canonical name of this type.
	Name xml.Name
	// The type this type is derived from. For simple content, this
	// is the type of the character data.
	Base Type
	// True if this is an anonymous type
	Anonymous bool
	// XML elements that this type may contain in its content.
	Elements []Element
	// Possible attributes for the element's opening tag.
	Attributes []Attribute
	// How Elements are grouped.
	Model ContentModel
	// True if the content of this type is character data described
	// by Base, declared with <simpleContent>.
	SimpleContent bool
	// Facets of a <simpleContent> restriction.
	Restriction Restriction
	// An abstract type does not appear in the xml document, but
	// is "implemented" by other types in its substitution group.
	Abstract bool
	// If true, this type is an extension to Base.  Otherwise,
	// this type is derived by restricting the set of elements and
	// attributes allowed in Base.
	Extends bool
}

func (*ComplexType) isType() {}

// A SimpleType describes an XML element that does not contain elements
// or attributes. SimpleTypes are suitable for use as attribute values.
// A SimpleType can be an "atomic" type (int, string, etc), or a list of
// atomic types, separated by white space. In addition, a SimpleType may
// be declared as a union; or one of a set of SimpleTypes. A SimpleType
// is part of a linked list, through its Base field, that ends in a
// Builtin value.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#element-simpleType
type SimpleType struct {
	// True if this is an anonymous type
	Anonymous bool
	// True if this type is a whitespace-delimited list, with
	// items of type Base.
	List bool
	// A simpleType may be described as a union: one of many
	// possible simpleTypes.
	Union []Type
	// Restrictions on this type's values
	Restriction Restriction
	// The canonical name of this type
	Name xml.Name
	// Any annotations for this type, as provided by the schema
	// author.
	Doc string
	// The type this type is derived from.
	Base Type
}

func (*SimpleType) isType() {}

// A SimpleType can be derived from a built-in or SimpleType by
// restricting the set of values it may contain. Facets that are
// present in the schema have their Has* flag set, so that a zero
// bound can be told apart from a missing one.
//
// http://www.w3.org/TR/2004/REC-xmlschema-2-20041028/datatypes.html#element-restriction
type Restriction struct {
	// The max digits to the right of the decimal point for
	// floating-point values.
	Precision int
	// If len(Enum) > 0, the type must be one of the values contained
	// in Enum.
	Enum []string
	// Numeric bounds. MinExclusive and MaxExclusive tell whether the
	// bound itself is excluded.
	Min, Max                   float64
	HasMin, HasMax             bool
	MinExclusive, MaxExclusive bool
	// Maximum and minimum length (in characters) of this type
	MinLength, MaxLength       int
	HasMinLength, HasMaxLength bool
	// Regular expression that values of this type must match in
	// full. Multiple <pattern> facets are joined as alternatives.
	Pattern *regexp.Regexp
	// Facets that were declared but are not modeled by this
	// package, or could not be parsed, by element name.
	Ignored []string
	// Any annotations for the restriction, if present.
	Doc string
}

// HasLength returns true if a length, minLength or maxLength facet
// is present.
func (r *Restriction) HasLength() bool {
	return r.HasMinLength || r.HasMaxLength
}

// HasRange returns true if a numeric bound is present.
func (r *Restriction) HasRange() bool {
	return r.HasMin || r.HasMax
}

// Empty returns true if r has no modeled facet. Ignored facets do not
// count.
func (r *Restriction) Empty() bool {
	return len(r.Enum) == 0 && r.Pattern == nil && !r.HasLength() && !r.HasRange()
}

type annotation string

func (a annotation) append(extra annotation) annotation {
	if a != "" && extra != "" {
		a += "\n\n"
	}
	return a + extra
}

// An <xs:annotation> element may contain zero or more <xs:documentation>
// children.  The xsd package joins the content of these children, separated
// with blank lines.
func (doc *annotation) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var parts [][]byte
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.EndElement:
			*doc = annotation(bytes.Join(parts, []byte("\n\n")))
			return nil
		case xml.StartElement:
			if (tok.Name != xml.Name{Space: schemaNS, Local: "documentation"}) {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var frag struct {
				Text []byte `xml:",chardata"`
			}
			if err := d.DecodeElement(&frag, &tok); err != nil {
				return err
			}
			if text := bytes.TrimSpace(frag.Text); len(text) > 0 {
				parts = append(parts, text)
			}
		}
	}
}

// Base returns the base type that a Type is derived from.
// If the value is of type Builtin, Base will return nil.
func Base(t Type) Type {
	switch t := t.(type) {
	case *ComplexType:
		return t.Base
	case *SimpleType:
		return t.Base
	case Builtin:
		return nil
	case linkedType:
		return nil
	}
	panic(fmt.Sprintf("xsd: unexpected xsd.Type %[1]T %[1]v passed to Base", t))
}

// StandardSchema lists well-known schemas that are always added to
// the documents passed to Parse, so that references into them resolve.
var StandardSchema = [][]byte{
	xmlnsxsd, // http://www.w3.org/XML/1998/namespace
}
