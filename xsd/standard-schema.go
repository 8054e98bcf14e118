package xsd

// Attributes of the http://www.w3.org/XML/1998/namespace namespace,
// as published at http://www.w3.org/2001/xml.xsd, without the
// accompanying prose.
var xmlnsxsd = []byte(`<?xml version='1.0'?>
<xs:schema targetNamespace="http://www.w3.org/XML/1998/namespace"
  xmlns:xs="http://www.w3.org/2001/XMLSchema"
  xml:lang="en">

  <xs:attribute name="lang">
    <xs:annotation>
      <xs:documentation>
        Denotes an attribute whose value is a language code for the
        natural language of the content of any element; its value is
        inherited.
      </xs:documentation>
    </xs:annotation>
    <xs:simpleType>
      <xs:union memberTypes="xs:language">
        <xs:simpleType>
          <xs:restriction base="xs:string">
            <xs:enumeration value=""/>
          </xs:restriction>
        </xs:simpleType>
      </xs:union>
    </xs:simpleType>
  </xs:attribute>

  <xs:attribute name="space">
    <xs:annotation>
      <xs:documentation>
        Signals an intention that in that element, white space should
        be preserved by applications.
      </xs:documentation>
    </xs:annotation>
    <xs:simpleType>
      <xs:restriction base="xs:NCName">
        <xs:enumeration value="default"/>
        <xs:enumeration value="preserve"/>
      </xs:restriction>
    </xs:simpleType>
  </xs:attribute>

  <xs:attribute name="base" type="xs:anyURI">
    <xs:annotation>
      <xs:documentation>
        Provides a URI to be used as the base for interpreting any
        relative URIs in the scope of the element on which it appears.
      </xs:documentation>
    </xs:annotation>
  </xs:attribute>

  <xs:attribute name="id" type="xs:ID">
    <xs:annotation>
      <xs:documentation>
        Establishes the identity of the element on which it appears.
      </xs:documentation>
    </xs:annotation>
  </xs:attribute>

  <xs:attributeGroup name="specialAttrs">
    <xs:attribute ref="xml:base"/>
    <xs:attribute ref="xml:lang"/>
    <xs:attribute ref="xml:space"/>
    <xs:attribute ref="xml:id"/>
  </xs:attributeGroup>

</xs:schema>
`)
