package main

import (
	"io"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/pihentagy/xampler/xmlgen"
	"github.com/pihentagy/xampler/xmltree"
)

// overrides customize generation. They are read from a YAML file and
// from command-line flags, flags taking precedence:
//
//	seed: 42
//	maxRepeat: 5
//	nilChance: 0.1
//	useDefaults: true
//	repeat:
//	  item: 3
//	  order@note: 0
//	values:
//	  currency: EUR
//	  order@id: o-1
type overrides struct {
	Seed           *int64            `yaml:"seed"`
	MaxRepeat      *int              `yaml:"maxRepeat"`
	MaxDepth       *int              `yaml:"maxDepth"`
	OptionalChance *float64          `yaml:"optionalChance"`
	NilChance      *float64          `yaml:"nilChance"`
	UseDefaults    *bool             `yaml:"useDefaults"`
	Repeat         map[string]int    `yaml:"repeat"`
	Values         map[string]string `yaml:"values"`
}

func readOverrides(filename string) (ov overrides, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return ov, errors.Trace(err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&ov); err != nil && err != io.EOF {
		return ov, errors.Annotatef(err, "reading %s", filename)
	}
	return ov, ov.validate()
}

func (ov *overrides) validate() error {
	if ov.MaxRepeat != nil && *ov.MaxRepeat < 0 {
		return errors.NotValidf("maxRepeat %d", *ov.MaxRepeat)
	}
	if ov.MaxDepth != nil && *ov.MaxDepth < 0 {
		return errors.NotValidf("maxDepth %d", *ov.MaxDepth)
	}
	if p := ov.OptionalChance; p != nil && (*p < 0 || *p > 1) {
		return errors.NotValidf("optionalChance %g", *p)
	}
	if p := ov.NilChance; p != nil && (*p < 0 || *p > 1) {
		return errors.NotValidf("nilChance %g", *p)
	}
	return nil
}

// merge copies the settings of other into ov, replacing settings that
// are present in both.
func (ov *overrides) merge(other overrides) {
	if other.Seed != nil {
		ov.Seed = other.Seed
	}
	if other.MaxRepeat != nil {
		ov.MaxRepeat = other.MaxRepeat
	}
	if other.MaxDepth != nil {
		ov.MaxDepth = other.MaxDepth
	}
	if other.OptionalChance != nil {
		ov.OptionalChance = other.OptionalChance
	}
	if other.NilChance != nil {
		ov.NilChance = other.NilChance
	}
	if other.UseDefaults != nil {
		ov.UseDefaults = other.UseDefaults
	}
	for k, v := range other.Repeat {
		if ov.Repeat == nil {
			ov.Repeat = make(map[string]int)
		}
		ov.Repeat[k] = v
	}
	for k, v := range other.Values {
		if ov.Values == nil {
			ov.Values = make(map[string]string)
		}
		ov.Values[k] = v
	}
}

// options converts the overrides to generator options. Repeat and
// value overrides are keyed by element name, or by element@attribute
// for attributes.
func (ov *overrides) options() []xmlgen.Option {
	var opts []xmlgen.Option
	if ov.Seed != nil {
		opts = append(opts, xmlgen.Seed(*ov.Seed))
	}
	if ov.MaxRepeat != nil {
		opts = append(opts, xmlgen.MaxRepeat(*ov.MaxRepeat))
	}
	if ov.MaxDepth != nil {
		opts = append(opts, xmlgen.MaxDepth(*ov.MaxDepth))
	}
	if ov.OptionalChance != nil {
		opts = append(opts, xmlgen.OptionalChance(*ov.OptionalChance))
	}
	if ov.NilChance != nil {
		opts = append(opts, xmlgen.NilChance(*ov.NilChance))
	}
	if ov.UseDefaults != nil {
		opts = append(opts, xmlgen.UseDefaults(*ov.UseDefaults))
	}
	if repeat := ov.Repeat; len(repeat) > 0 {
		opts = append(opts, xmlgen.RepeatHook(func(n xmlgen.Node) (int, bool) {
			count, ok := repeat[n.Key()]
			return count, ok
		}))
	}
	if values := ov.Values; len(values) > 0 {
		opts = append(opts, xmlgen.ValueHook(func(n xmlgen.Node, _ *xmltree.Element) (string, bool) {
			v, ok := values[n.Key()]
			return v, ok
		}))
	}
	return opts
}
