// Package ordered provides ordered, deterministic traversal of maps.
package ordered

import (
	"encoding/xml"
	"sort"
)

// Keys returns the keys of m in ascending order.
func Keys[M ~map[K]V, K ~string, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Range calls fn on each entry of m, in ascending key order.
func Range[M ~map[K]V, K ~string, V any](m M, fn func(K, V)) {
	for _, k := range Keys(m) {
		fn(k, m[k])
	}
}

// RangeNames calls fn on each entry of a map keyed by XML names,
// ordered by name space and then by local name.
func RangeNames[M ~map[xml.Name]V, V any](m M, fn func(xml.Name, V)) {
	names := make([]xml.Name, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].Space != names[j].Space {
			return names[i].Space < names[j].Space
		}
		return names[i].Local < names[j].Local
	})
	for _, name := range names {
		fn(name, m[name])
	}
}
