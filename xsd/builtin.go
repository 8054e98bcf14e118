package xsd

import (
	"encoding/xml"
	"fmt"
)

// A Builtin represents one of the built-in xml schema types, as
// defined in the W3C specification, "XML Schema Part 2: Datatypes".
//
// http://www.w3.org/TR/xmlschema-2/#built-in-datatypes
type Builtin int

func (Builtin) isType() {}

const (
	AnyType Builtin = iota
	ENTITIES
	ENTITY
	ID
	IDREF
	IDREFS
	NCName
	NMTOKEN
	NMTOKENS
	NOTATION
	Name
	QName
	AnyURI
	Base64Binary
	Boolean
	Byte
	Date
	DateTime
	Decimal
	Double
	Duration
	Float
	GDay
	GMonth
	GMonthDay // ISO 8601 format: --MM-DD
	GYear
	GYearMonth
	HexBinary
	Int
	Integer
	Language
	Long
	NegativeInteger
	NonNegativeInteger
	NonPositiveInteger
	NormalizedString
	PositiveInteger
	Short
	String
	Time
	Token
	UnsignedByte
	UnsignedInt
	UnsignedLong
	UnsignedShort
	AnySimpleType
)

var builtinNames = [...]string{
	AnyType:            "anyType",
	ENTITIES:           "ENTITIES",
	ENTITY:             "ENTITY",
	ID:                 "ID",
	IDREF:              "IDREF",
	IDREFS:             "IDREFS",
	NCName:             "NCName",
	NMTOKEN:            "NMTOKEN",
	NMTOKENS:           "NMTOKENS",
	NOTATION:           "NOTATION",
	Name:               "Name",
	QName:              "QName",
	AnyURI:             "anyURI",
	Base64Binary:       "base64Binary",
	Boolean:            "boolean",
	Byte:               "byte",
	Date:               "date",
	DateTime:           "dateTime",
	Decimal:            "decimal",
	Double:             "double",
	Duration:           "duration",
	Float:              "float",
	GDay:               "gDay",
	GMonth:             "gMonth",
	GMonthDay:          "gMonthDay",
	GYear:              "gYear",
	GYearMonth:         "gYearMonth",
	HexBinary:          "hexBinary",
	Int:                "int",
	Integer:            "integer",
	Language:           "language",
	Long:               "long",
	NegativeInteger:    "negativeInteger",
	NonNegativeInteger: "nonNegativeInteger",
	NonPositiveInteger: "nonPositiveInteger",
	NormalizedString:   "normalizedString",
	PositiveInteger:    "positiveInteger",
	Short:              "short",
	String:             "string",
	Time:               "time",
	Token:              "token",
	UnsignedByte:       "unsignedByte",
	UnsignedInt:        "unsignedInt",
	UnsignedLong:       "unsignedLong",
	UnsignedShort:      "unsignedShort",
	AnySimpleType:      "anySimpleType",
}

// String returns the local name of the built-in type, as it
// appears in a schema document.
func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
	return builtinNames[b]
}

// Name returns the canonical name of the built-in type. All
// built-in types are in the standard XML schema namespace,
// http://www.w3.org/2001/XMLSchema.
func (b Builtin) Name() xml.Name {
	return xml.Name{Space: schemaNS, Local: b.String()}
}

// Integral returns true if b is xs:integer or derived from it.
func (b Builtin) Integral() bool {
	switch b {
	case Integer, Int, Long, Short, Byte,
		NegativeInteger, NonNegativeInteger, NonPositiveInteger, PositiveInteger,
		UnsignedByte, UnsignedInt, UnsignedLong, UnsignedShort:
		return true
	}
	return false
}

// Numeric returns true if values of b are numbers.
func (b Builtin) Numeric() bool {
	switch b {
	case Decimal, Double, Float:
		return true
	}
	return b.Integral()
}

// ParseBuiltin looks up a Builtin by name. If qname
// does not name a built-in type, ParseBuiltin returns
// a non-nil error.
func ParseBuiltin(qname xml.Name) (Builtin, error) {
	if qname.Space == schemaNS {
		for i, name := range builtinNames {
			if name == qname.Local {
				return Builtin(i), nil
			}
		}
	}
	return -1, fmt.Errorf("xsd:%s is not a built-in", qname.Local)
}

// BuiltinOf follows the Base chain of a simple type down to the
// built-in type it is derived from. For lists it returns the built-in
// of the item type, and for unions and complex types without simple
// content it returns false.
func BuiltinOf(t Type) (Builtin, bool) {
	for depth := 0; t != nil && depth < 100; depth++ {
		switch v := t.(type) {
		case Builtin:
			return v, true
		case *SimpleType:
			if len(v.Union) > 0 {
				return -1, false
			}
			t = Base(v)
		case *ComplexType:
			if !v.SimpleContent {
				return -1, false
			}
			t = Base(v)
		default:
			return -1, false
		}
	}
	return -1, false
}
