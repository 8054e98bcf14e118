package ordered

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	m := map[string]int{"b": 2, "c": 3, "a": 1}
	var keys []string
	var sum int
	Range(m, func(k string, v int) {
		keys = append(keys, k)
		sum += v
	})
	require.Equal(t, []string{"a", "b", "c"}, keys)
	require.Equal(t, 6, sum)
	require.Empty(t, Keys(map[string]bool{}))
}

func TestRangeNames(t *testing.T) {
	m := map[xml.Name]bool{
		{Space: "urn:b", Local: "a"}: true,
		{Space: "urn:a", Local: "z"}: true,
		{Space: "urn:a", Local: "b"}: true,
		{Local: "x"}:                 true,
	}
	var got []xml.Name
	RangeNames(m, func(name xml.Name, _ bool) {
		got = append(got, name)
	})
	require.Equal(t, []xml.Name{
		{Local: "x"},
		{Space: "urn:a", Local: "b"},
		{Space: "urn:a", Local: "z"},
		{Space: "urn:b", Local: "a"},
	}, got)
}
