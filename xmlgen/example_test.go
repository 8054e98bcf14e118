package xmlgen_test

import (
	"encoding/xml"
	"fmt"
	"log"

	"github.com/pihentagy/xampler/xmlgen"
	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

var noteSchema = []byte(`
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:note">
  <xs:element name="note">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="to" type="xs:string"/>
        <xs:element name="priority">
          <xs:simpleType>
            <xs:restriction base="xs:string">
              <xs:enumeration value="high"/>
            </xs:restriction>
          </xs:simpleType>
        </xs:element>
        <xs:element name="line" type="xs:string" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="version" type="xs:string" use="required" fixed="1.0"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`)

func ExampleConfig_Generate() {
	schemas, err := xsd.Parse(noteSchema)
	if err != nil {
		log.Fatal(err)
	}
	root, ok := xsd.FindElement(schemas, xml.Name{Space: "urn:note", Local: "note"})
	if !ok {
		log.Fatal("no note element")
	}

	cfg := xmlgen.New(
		xmlgen.Seed(1),
		xmlgen.RepeatHook(func(n xmlgen.Node) (int, bool) {
			return 2, n.Key() == "line"
		}),
		xmlgen.ValueHook(func(n xmlgen.Node, _ *xmltree.Element) (string, bool) {
			switch n.Key() {
			case "to":
				return "Tove", true
			case "line":
				return "Don't forget me this weekend!", true
			}
			return "", false
		}),
	)
	doc, err := cfg.Generate(root)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", xmltree.MarshalIndent(doc, "", "  "))

	// Output:
	// <note version="1.0">
	//   <to>Tove</to>
	//   <priority>high</priority>
	//   <line>Don&#39;t forget me this weekend!</line>
	//   <line>Don&#39;t forget me this weekend!</line>
	// </note>
}
