package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"

	"github.com/pihentagy/xampler/internal/testutil"
	"github.com/pihentagy/xampler/xmltree"
	"github.com/pihentagy/xampler/xsd"
)

func generateFile(t *testing.T, args ...string) *xmltree.Element {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.xml")
	args = append([]string{"xampler", "generate", "-o", out}, args...)
	require.NoError(t, execRootCmd(args, "0.1.0"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte(xmltree.Header)))
	doc, err := xmltree.Parse(data)
	require.NoError(t, err)
	return doc
}

func TestGenerate(t *testing.T) {
	require := require.New(t)

	doc := generateFile(t, "--seed", "7", "--repeat", "item=3", "--value", "order@id=o-1", "testdata/order.xsd")
	require.Equal("order", doc.Name.Local)
	require.Equal("o-1", doc.Attr("", "id"))
	require.Contains([]string{"EUR", "USD"}, doc.Attr("", "currency"))

	items := doc.Search("", "item")
	require.Len(items, 3)
	for _, item := range items {
		require.Len(item.Children, 2)
		require.Regexp(`^[A-Z]{3}-[0-9]{4}$`, item.Children[0].Text())
		qty, err := strconv.ParseInt(item.Children[1].Text(), 10, 64)
		require.NoError(err)
		require.Positive(qty)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	a := generateFile(t, "--seed", "11", "testdata/order.xsd")
	b := generateFile(t, "--seed", "11", "testdata/order.xsd")
	require.Equal(t, a.String(), b.String())
}

func TestGenerateConfigFile(t *testing.T) {
	require := require.New(t)

	config := filepath.Join(t.TempDir(), "xampler.yaml")
	require.NoError(os.WriteFile(config, []byte(`
seed: 3
repeat:
  item: 5
  note: 1
values:
  note: hello
  qty: "42"
`), 0644))

	doc := generateFile(t, "--config", config, "--repeat", "item=2", "testdata/order.xsd")
	items := doc.Search("", "item")
	require.Len(items, 2, "flags override the config file")
	for _, item := range items {
		require.Equal("42", item.Children[1].Text())
	}
	notes := doc.Search("", "note")
	require.Len(notes, 1)
	require.Equal("hello", notes[0].Text())
}

func TestGenerateConstraints(t *testing.T) {
	require := require.New(t)
	const xsi = "http://www.w3.org/2001/XMLSchema-instance"

	schema := filepath.Join(t.TempDir(), "box.xsd")
	require.NoError(os.WriteFile(schema, []byte(`
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:box">
  <xs:element name="box">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="label" type="xs:string" nillable="true"/>
        <xs:element name="weight" type="xs:decimal" default="1.5"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`), 0644))

	doc := generateFile(t, "--seed", "5", "--nil-chance", "1", "--use-defaults", schema)
	require.Equal("true", doc.Search("", "label")[0].Attr(xsi, "nil"))
	require.Equal("1.5", doc.Search("", "weight")[0].Text())

	config := filepath.Join(t.TempDir(), "box.yaml")
	require.NoError(os.WriteFile(config, []byte("nilChance: 1\nuseDefaults: true\n"), 0644))
	doc = generateFile(t, "--config", config, "--nil-chance", "0", schema)
	_, ok := doc.Search("", "label")[0].LookupAttr(xsi, "nil")
	require.False(ok, "flags override the config file")
	require.Equal("1.5", doc.Search("", "weight")[0].Text())
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(config, []byte("seeds: 3\n"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{"missing schema", []string{"testdata/nothing.xsd"}},
		{"unknown element", []string{"--element", "invoice", "testdata/order.xsd"}},
		{"bad repeat count", []string{"--repeat", "item=many", "testdata/order.xsd"}},
		{"bad log level", []string{"--log-level", "loud", "testdata/order.xsd"}},
		{"unknown config key", []string{"--config", config, "testdata/order.xsd"}},
		{"negative max repeat", []string{"--max-repeat", "-1", "testdata/order.xsd"}},
		{"nil chance above one", []string{"--nil-chance", "2", "testdata/order.xsd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"xampler", "generate", "-o", filepath.Join(dir, "out.xml")}, tt.args...)
			require.Error(t, execRootCmd(args, "0.1.0"))
		})
	}
}

func TestElements(t *testing.T) {
	var out bytes.Buffer
	cmd := newElementsCmd(nil)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"testdata/order.xsd"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "order\turn:order\n", out.String())
}

func TestRemoteImports(t *testing.T) {
	require := require.New(t)

	files := map[string][]byte{}
	for _, name := range []string{"order.xsd", "order-types.xsd", "common.xsd"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(err)
		files["https://example.com/schemas/"+name] = data
	}
	client, srv := testutil.FakeClient(files)

	docs, err := loadSchemas(client, "https://example.com/schemas/order.xsd")
	require.NoError(err)
	require.Equal([]string{
		"https://example.com/schemas/order.xsd",
		"https://example.com/schemas/common.xsd",
		"https://example.com/schemas/order-types.xsd",
	}, srv.Requested())
	require.Equal([][]byte{
		files["https://example.com/schemas/common.xsd"],
		files["https://example.com/schemas/order-types.xsd"],
		files["https://example.com/schemas/order.xsd"],
	}, docs, "imported documents come first")

	var out bytes.Buffer
	cmd := newGenerateCmd(client)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--seed", "1", "https://example.com/schemas/order.xsd"})
	require.NoError(cmd.Execute())
	doc, err := xmltree.Parse(out.Bytes())
	require.NoError(err)
	require.Equal("order", doc.Name.Local)

	_, err = loadSchemas(client, "https://example.com/schemas/missing.xsd")
	require.Error(err)
	require.Contains(err.Error(), "404")
}

func TestUnresolvedImport(t *testing.T) {
	schema := filepath.Join(t.TempDir(), "lonely.xsd")
	require.NoError(t, os.WriteFile(schema, []byte(`
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:lonely">
  <xs:import namespace="urn:nowhere"/>
  <xs:import namespace="http://www.w3.org/XML/1998/namespace" schemaLocation="http://www.w3.org/2001/xml.xsd"/>
  <xs:element name="lonely" type="xs:string"/>
</xs:schema>`), 0644))

	client, srv := testutil.FakeClient(nil)
	_, err := loadSchemas(client, schema)
	require.True(t, errors.IsNotFound(err), "%v", err)
	require.Contains(t, err.Error(), "urn:nowhere")
	require.Empty(t, srv.Requested(), "built-in schemas are not fetched")
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"order.xsd", "common.xsd", "common.xsd"},
		{"schemas/order.xsd", "common.xsd", filepath.Join("schemas", "common.xsd")},
		{"schemas/order.xsd", "../shared/common.xsd", filepath.Join("shared", "common.xsd")},
		{"schemas/order.xsd", "https://example.com/common.xsd", "https://example.com/common.xsd"},
		{"https://example.com/a/order.xsd", "common.xsd", "https://example.com/a/common.xsd"},
		{"https://example.com/a/order.xsd", "../b/common.xsd", "https://example.com/b/common.xsd"},
		{"https://example.com/a/order.xsd", "/common.xsd", "https://example.com/common.xsd"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, resolveLocation(tt.base, tt.ref), "%s + %s", tt.base, tt.ref)
	}
}

func TestSelectRoot(t *testing.T) {
	require := require.New(t)

	schemas, err := xsd.Parse(
		[]byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:x">
		  <xs:element name="a" type="xs:string"/>
		  <xs:element name="b" type="xs:string"/>
		</xs:schema>`),
		[]byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:y">
		  <xs:element name="a" type="xs:int"/>
		</xs:schema>`),
	)
	require.NoError(err)

	_, err = selectRoot(schemas, "", "")
	require.ErrorContains(err, "--element")

	_, err = selectRoot(schemas, "a", "")
	require.ErrorContains(err, "--ns")

	el, err := selectRoot(schemas, "a", "urn:y")
	require.NoError(err)
	require.Equal(xsd.Int, el.Type)

	el, err = selectRoot(schemas, "b", "")
	require.NoError(err)
	require.Equal("urn:x", el.Name.Space)

	_, err = selectRoot(schemas, "c", "")
	require.True(errors.IsNotFound(err))
}
