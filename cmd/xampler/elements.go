package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/pihentagy/xampler/xsd"
)

func newElementsCmd(client *http.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elements schema.xsd...",
		Short: "List the top-level elements a document can be generated for",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, err := parseSchemas(client, args)
			if err != nil {
				return err
			}
			for _, el := range topLevelElements(schemas) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", el.Name.Local, el.Name.Space)
			}
			return nil
		},
	}
	cmd.SilenceErrors = true
	return cmd
}

func parseSchemas(client *http.Client, locations []string) ([]xsd.Schema, error) {
	docs, err := loadSchemas(client, locations...)
	if err != nil {
		return nil, err
	}
	schemas, err := xsd.Parse(docs...)
	return schemas, errors.Trace(err)
}

// topLevelElements lists the elements declared at the top level of
// the schemas, leaving out the built-in schemas.
func topLevelElements(schemas []xsd.Schema) []xsd.Element {
	standard := standardNamespaces()
	var result []xsd.Element
	for _, s := range schemas {
		if !standard[s.TargetNS] {
			result = append(result, s.Elements...)
		}
	}
	return result
}

// selectRoot picks the root element of the generated document. With no
// name, the schemas must declare exactly one top-level element. The
// name space is only needed when the name is ambiguous.
func selectRoot(schemas []xsd.Schema, name, ns string) (xsd.Element, error) {
	all := topLevelElements(schemas)
	var found []xsd.Element
	for _, el := range all {
		if name == "" || (el.Name.Local == name && (ns == "" || el.Name.Space == ns)) {
			found = append(found, el)
		}
	}
	switch {
	case len(found) == 1:
		return found[0], nil
	case name == "" && len(found) == 0:
		return xsd.Element{}, errors.NotFoundf("top-level element declaration")
	case name == "":
		return xsd.Element{}, errors.Errorf("schema declares %d top-level elements (%s), choose one with --element",
			len(found), names(found))
	case len(found) == 0:
		return xsd.Element{}, errors.NotFoundf("top-level element %s", name)
	}
	return xsd.Element{}, errors.Errorf("element %s is declared in several name spaces (%s), choose one with --ns",
		name, namespaces(found))
}

func names(elems []xsd.Element) string {
	s := make([]string, len(elems))
	for i, el := range elems {
		s[i] = el.Name.Local
	}
	return strings.Join(s, ", ")
}

func namespaces(elems []xsd.Element) string {
	s := make([]string, len(elems))
	for i, el := range elems {
		s[i] = el.Name.Space
	}
	return strings.Join(s, ", ")
}
