package dependency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var flattenTests = []struct {
	name    string
	edges   []string
	ordered []string
}{
	{
		name: "imports before importers",
		edges: []string{
			"order.xsd -> common.xsd",
			"order.xsd -> item.xsd",
			"item.xsd -> common.xsd",
			"invoice.xsd -> common.xsd",
		},
		ordered: []string{
			"common.xsd",
			"invoice.xsd",
			"item.xsd",
			"order.xsd",
		},
	},
	{
		name: "insertion order does not matter",
		edges: []string{
			"invoice.xsd -> common.xsd",
			"item.xsd -> common.xsd",
			"order.xsd -> item.xsd",
			"order.xsd -> common.xsd",
		},
		ordered: []string{
			"common.xsd",
			"invoice.xsd",
			"item.xsd",
			"order.xsd",
		},
	},
	{
		name: "cycles are not followed",
		edges: []string{
			"a.xsd -> b.xsd",
			"b.xsd -> a.xsd",
			"c.xsd -> b.xsd",
		},
		ordered: []string{
			"b.xsd",
			"a.xsd",
			"c.xsd",
		},
	},
	{
		name: "targets without dependencies",
		edges: []string{
			"standalone.xsd",
			"main.xsd -> lib.xsd",
		},
		ordered: []string{
			"lib.xsd",
			"main.xsd",
			"standalone.xsd",
		},
	},
}

func TestFlatten(t *testing.T) {
	for _, tt := range flattenTests {
		t.Run(tt.name, func(t *testing.T) {
			var graph Graph
			for _, edge := range tt.edges {
				target, dep, ok := strings.Cut(edge, " -> ")
				if ok {
					graph.Add(target, dep)
				} else {
					graph.Add(target)
				}
			}
			var got []string
			graph.Flatten(func(vertex string) {
				got = append(got, vertex)
			})
			require.Equal(t, tt.ordered, got)
		})
	}
}

func TestEmptyGraph(t *testing.T) {
	var graph Graph
	graph.Flatten(func(string) { t.Fatal("empty graph has no vertices") })
}
