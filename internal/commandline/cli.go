// Package commandline contains helper types for collecting
// command-line arguments.
package commandline

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// A Pair is a name and a value, provided on the command line as a
// single "name=value" string.
type Pair struct {
	Name, Value string
}

// The Pairs type can be used to collect multiple name=value options,
// in the order provided. It implements the pflag.Value interface.
type Pairs []Pair

func (p *Pairs) String() string {
	items := make([]string, len(*p))
	for i, item := range *p {
		items[i] = item.Name + "=" + item.Value
	}
	return strings.Join(items, ",")
}

// Set adds a pair to the list. The value may be empty and may
// contain further '=' characters; the name may not be empty.
func (p *Pairs) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return errors.NotValidf("option %q, must be \"name=value\",", s)
	}
	*p = append(*p, Pair{name, value})
	return nil
}

func (p *Pairs) Type() string {
	return "name=value"
}

// Strings returns the pairs as a map. Later pairs replace earlier
// pairs with the same name.
func (p Pairs) Strings() map[string]string {
	m := make(map[string]string, len(p))
	for _, item := range p {
		m[item.Name] = item.Value
	}
	return m
}

// Ints is like Strings, but every value must be a decimal integer.
func (p Pairs) Ints() (map[string]int, error) {
	m := make(map[string]int, len(p))
	for _, item := range p {
		n, err := strconv.Atoi(strings.TrimSpace(item.Value))
		if err != nil {
			return nil, errors.NotValidf("count %q for %s", item.Value, item.Name)
		}
		m[item.Name] = n
	}
	return m, nil
}
