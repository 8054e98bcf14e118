package xmltree

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
)

var exampleDoc = []byte(`<?xml version="1.0" encoding="utf-8"?>
<wsdl:definitions xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/" xmlns:tm="http://microsoft.com/wsdl/mime/textMatching/" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/" xmlns:mime="http://schemas.xmlsoap.org/wsdl/mime/" xmlns:tns="http://www.sci-grupo.com.mx/" xmlns:s="http://www.w3.org/2001/XMLSchema" xmlns:soap12="http://schemas.xmlsoap.org/wsdl/soap12/" xmlns:http="http://schemas.xmlsoap.org/wsdl/http/" targetNamespace="http://www.sci-grupo.com.mx/" xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns="http://defaultns.net/">
  <wsdl:types>
    <s:schema elementFormDefault="qualified" targetNamespace="http://www.sci-grupo.com.mx/">
      <s:element name="RecibeCFD">
        <s:complexType>
          <s:sequence>
            <s:element minOccurs="0" maxOccurs="1" name="XMLCFD" type="s:string" />
          </s:sequence>
        </s:complexType>
      </s:element>
      <s:element name="RecibeCFDResponse">
        <s:complexType>
          <s:sequence>
            <s:element minOccurs="0" maxOccurs="1" name="RecibeCFDResult" type="s:string" />
          </s:sequence>
        </s:complexType>
      </s:element>
    </s:schema>
  </wsdl:types>
  <wsdl:message name="RecibeCFDSoapIn">
    <wsdl:part name="parameters" element="tns:RecibeCFD" />
  </wsdl:message>
  <wsdl:message name="RecibeCFDSoapOut">
    <wsdl:part name="parameters" element="tns:RecibeCFDResponse" />
  </wsdl:message>
  <wsdl:portType name="wseDocReciboSoap">
    <wsdl:operation name="RecibeCFD">
      <wsdl:input message="tns:RecibeCFDSoapIn" />
      <wsdl:output message="tns:RecibeCFDSoapOut" />
    </wsdl:operation>
  </wsdl:portType>
  <wsdl:binding name="wseDocReciboSoap" type="tns:wseDocReciboSoap" xmlns="http://custom2/">
    <soap:binding transport="http://schemas.xmlsoap.org/soap/http" />
    <wsdl:operation name="RecibeCFD">
      <soap:operation soapAction="http://www.sci-grupo.com.mx/RecibeCFD" style="document" />
      <wsdl:input>
        <soap:body use="literal" />
      </wsdl:input>
      <wsdl:output>
        <soap:body use="literal" />
      </wsdl:output>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:binding name="wseDocReciboSoap12" type="tns:wseDocReciboSoap" xmlns="http://custom/">
    <soap12:binding transport="http://schemas.xmlsoap.org/soap/http" />
    <wsdl:operation name="RecibeCFD">
      <soap12:operation soapAction="http://www.sci-grupo.com.mx/RecibeCFD" style="document" />
      <wsdl:input>
        <soap12:body use="literal" />
      </wsdl:input>
      <wsdl:output>
        <soap12:body use="literal" />
      </wsdl:output>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="wseDocRecibo">
    <wsdl:port name="wseDocReciboSoap" binding="tns:wseDocReciboSoap">
      <soap:address location="http://www2.soriana.com/integracion/recibecfd/wseDocRecibo.asmx" />
    </wsdl:port>
    <wsdl:port name="wseDocReciboSoap12" binding="tns:wseDocReciboSoap12">
      <soap12:address location="http://www2.soriana.com/integracion/recibecfd/wseDocRecibo.asmx" />
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`)

func parseDoc(t *testing.T, document []byte) *Element {
	root, err := Parse(document)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestSearch(t *testing.T) {
	root := parseDoc(t, exampleDoc)

	result := root.Search("http://schemas.xmlsoap.org/wsdl/", "binding")
	if len(result) != 2 {
		t.Errorf("Expected Search(\"http://schemas.xmlsoap.org/wsdl/\", \"binding\") to return 2 results, got %d",
			len(result))
	}
}

func TestNSResolution(t *testing.T) {
	root := parseDoc(t, exampleDoc)

	for _, prefix := range []string{"soap", "wsdl", "s", "soap12"} {
		if _, ok := root.ResolveNS(prefix + ":foo"); !ok {
			t.Errorf("Failed to resolve %s: prefix at <%s>", prefix, root.Name.Local)
		}
	}

	defaultns := root.SearchFunc(func(el *Element) bool {
		if (el.Name != xml.Name{Space: "http://schemas.xmlsoap.org/wsdl/", Local: "binding"}) {
			return false
		}
		return el.Attr("", "name") == "wseDocReciboSoap12"
	})[0]

	name := defaultns.Resolve("foo")
	if name.Space != "http://custom/" {
		t.Errorf("Resolve default namespace at <%s name=%q>: wanted %q, got %q",
			defaultns.Prefix(defaultns.Name), defaultns.Attr("", "name"), defaultns.Attr("", "xmlns"), name.Space)
	}
}

func TestStringRoundTrip(t *testing.T) {
	root := parseDoc(t, exampleDoc)
	again := parseDoc(t, []byte(root.String()))
	if !Equal(root, again) {
		t.Errorf("document changed after String/Parse round trip:\n%s", again)
	}
}

func TestSubtreeKeepsNamespaces(t *testing.T) {
	root := parseDoc(t, exampleDoc)
	schema := root.Search("http://www.w3.org/2001/XMLSchema", "schema")[0]
	sub := parseDoc(t, Marshal(schema))
	if len(sub.Search("http://www.w3.org/2001/XMLSchema", "sequence")) == 0 {
		t.Errorf("Could not find <s:sequence> in %s", sub)
	}
}

func TestModification(t *testing.T) {
	from := []byte(`<ul><li>1</li><em>bad</em><li>2</li></ul>`)
	to := `<ul><li>1</li><li>2</li></ul>`
	root := parseDoc(t, from)
	valid := make([]Element, 0, len(root.Children))
	for _, p := range root.Search("", "li") {
		valid = append(valid, *p)
	}
	root.Children = valid
	if s := root.String(); s != to {
		t.Errorf("%s -> %s, expected %s", from, s, to)
	}
}

func TestBuildEscapes(t *testing.T) {
	root := New("order")
	item := root.AddChild(xml.Name{Local: "item"})
	item.SetAttr("", "note", `a "quoted" <tag> & more`)
	item.SetText("1 < 2 && 3 > 2")

	doc := Marshal(root)
	parsed := parseDoc(t, doc)
	got := parsed.Search("", "item")
	if len(got) != 1 {
		t.Fatalf("expected 1 <item> in %s", doc)
	}
	if v := got[0].Attr("", "note"); v != `a "quoted" <tag> & more` {
		t.Errorf("attribute did not survive round trip: %q", v)
	}
	if v := got[0].Text(); v != "1 < 2 && 3 > 2" {
		t.Errorf("text did not survive round trip: %q", v)
	}
}

func TestAddChildKeepsOrder(t *testing.T) {
	root := New("list")
	for _, name := range []string{"a", "b", "c"} {
		root.AddChild(xml.Name{Local: name}).SetText(name)
	}
	want := `<list><a>a</a><b>b</b><c>c</c></list>`
	if s := root.String(); s != want {
		t.Errorf("got %s, want %s", s, want)
	}
}

func TestMarshalIndent(t *testing.T) {
	root := New("a")
	b := root.AddChild(xml.Name{Local: "b"})
	b.AddChild(xml.Name{Local: "c"}).SetText("x")
	root.AddChild(xml.Name{Local: "d"})

	want := strings.Join([]string{
		"<a>",
		"  <b>",
		"    <c>x</c>",
		"  </b>",
		"  <d></d>",
		"</a>",
	}, "\n")
	if got := string(MarshalIndent(root, "", "  ")); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestParseLatin1(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<name>Jos\xe9</name>")
	root := parseDoc(t, doc)
	if got := root.Text(); got != "Jos\u00e9" {
		t.Errorf("got %q, want %q", got, "Jos\u00e9")
	}
	if !bytes.Equal(root.Content, []byte("Jos\u00e9")) {
		t.Errorf("Content not transcoded: %q", root.Content)
	}
}

func TestSameShape(t *testing.T) {
	a := parseDoc(t, []byte(`<r><i id="1">x</i><i id="2">y</i></r>`))
	b := parseDoc(t, []byte(`<r><i id="9">z</i><i id="8"/></r>`))
	c := parseDoc(t, []byte(`<r><i id="9">z</i><i/></r>`))
	if !SameShape(a, b) {
		t.Error("expected documents differing only in values to have the same shape")
	}
	if SameShape(a, c) {
		t.Error("expected a missing attribute to change the shape")
	}
}

func TestUnmarshal(t *testing.T) {
	root := parseDoc(t, exampleDoc)
	var op struct {
		Name string `xml:"name,attr"`
	}
	ops := root.Search("http://schemas.xmlsoap.org/wsdl/", "operation")
	if len(ops) == 0 {
		t.Fatal("no wsdl:operation found")
	}
	if err := Unmarshal(ops[0], &op); err != nil {
		t.Fatal(err)
	}
	if op.Name != "RecibeCFD" {
		t.Errorf("got operation %q, want RecibeCFD", op.Name)
	}
}

func TestParseBadDeclaration(t *testing.T) {
	for _, doc := range []string{
		`<?xml version="1.0" encoding="ISO-8859-1"`,
		`<?xml version="1.0" encoding="x-no-such-charset"?><a/>`,
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected an error parsing %q", doc)
		}
	}
}

func TestDeclare(t *testing.T) {
	const xsi = "http://www.w3.org/2001/XMLSchema-instance"
	root := New("a")
	root.Declare("x", "urn:x")
	b := root.AddChild(xml.Name{Local: "b"})
	b.Declare("x", "urn:x")
	b.SetAttr("urn:x", "id", "1")
	c := root.AddChild(xml.Name{Local: "c"})
	c.Declare("xsi", xsi)
	c.Declare("xsi", xsi)
	c.SetAttr(xsi, "nil", "true")

	want := `<a xmlns:x="urn:x"><b x:id="1"></b>` +
		`<c xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:nil="true"></c></a>`
	if s := root.String(); s != want {
		t.Errorf("got %s, want %s", s, want)
	}
	parsed := parseDoc(t, []byte(root.String()))
	if v := parsed.Children[1].Attr(xsi, "nil"); v != "true" {
		t.Errorf("xsi:nil did not survive round trip: %q", v)
	}
}
