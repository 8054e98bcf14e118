package xmlgen

import (
	"encoding/xml"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/juju/errors"
	"github.com/untillpro/goutils/logger"

	"github.com/pihentagy/xampler/xsd"
)

// Bounds used for a numeric range that is only limited on one side.
const openRangeSpan = 1e6

// Values drawn from a pattern before giving up on the patterns of the
// base types.
const maxPatternTries = 100

// facets are the effective facets of a restriction: its own, narrowed
// by those of every type it is derived from by restriction.
type facets struct {
	xsd.Restriction
	// Patterns of base types. A value must match each of them as well
	// as Pattern.
	inherited []*regexp.Regexp
	// The first base type that is not a restriction.
	base xsd.Type
}

// derivedFrom returns the restriction facets of t and the type t is
// derived from. The facets are nil for a simple content extension.
func derivedFrom(t xsd.Type) (*xsd.Restriction, xsd.Type, bool) {
	switch t := t.(type) {
	case *xsd.SimpleType:
		if t.List || len(t.Union) > 0 {
			return nil, nil, false
		}
		return &t.Restriction, t.Base, true
	case *xsd.ComplexType:
		switch {
		case !t.SimpleContent:
			return nil, nil, false
		case t.Extends:
			return nil, t.Base, true
		}
		return &t.Restriction, t.Base, true
	}
	return nil, nil, false
}

func effectiveFacets(r *xsd.Restriction, base xsd.Type) facets {
	f := facets{Restriction: *r, base: base}
	f.Ignored = append([]string(nil), r.Ignored...)
	seen := map[xsd.Type]bool{}
	for !seen[f.base] {
		seen[f.base] = true
		br, next, ok := derivedFrom(f.base)
		if !ok || next == nil {
			break
		}
		if br != nil {
			f.inherit(br)
		}
		f.base = next
	}
	return f
}

func (f *facets) inherit(b *xsd.Restriction) {
	if len(f.Enum) == 0 {
		f.Enum = b.Enum
	}
	if b.Pattern != nil {
		if f.Pattern == nil {
			f.Pattern = b.Pattern
		} else {
			f.inherited = append(f.inherited, b.Pattern)
		}
	}
	if b.HasMinLength && (!f.HasMinLength || b.MinLength > f.MinLength) {
		f.MinLength, f.HasMinLength = b.MinLength, true
	}
	if b.HasMaxLength && (!f.HasMaxLength || b.MaxLength < f.MaxLength) {
		f.MaxLength, f.HasMaxLength = b.MaxLength, true
	}
	if b.HasMin && (!f.HasMin || b.Min > f.Min || (b.Min == f.Min && b.MinExclusive)) {
		f.Min, f.MinExclusive, f.HasMin = b.Min, b.MinExclusive, true
	}
	if b.HasMax && (!f.HasMax || b.Max < f.Max || (b.Max == f.Max && b.MaxExclusive)) {
		f.Max, f.MaxExclusive, f.HasMax = b.Max, b.MaxExclusive, true
	}
	if b.Precision > 0 && (f.Precision == 0 || b.Precision < f.Precision) {
		f.Precision = b.Precision
	}
	f.Ignored = append(f.Ignored, b.Ignored...)
}

// allows reports whether an enumerated value satisfies the other
// facets.
func (f *facets) allows(v string) bool {
	n := utf8.RuneCountInString(v)
	if (f.HasMinLength && n < f.MinLength) || (f.HasMaxLength && n > f.MaxLength) {
		return false
	}
	if f.HasRange() {
		if x, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			if f.HasMin && (x < f.Min || (f.MinExclusive && x == f.Min)) {
				return false
			}
			if f.HasMax && (x > f.Max || (f.MaxExclusive && x == f.Max)) {
				return false
			}
		}
	}
	if f.Pattern != nil && !f.Pattern.MatchString(v) {
		return false
	}
	return f.matchesInherited(v)
}

func (f *facets) matchesInherited(v string) bool {
	for _, re := range f.inherited {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// restricted returns a value satisfying the facets of r, a restriction
// of base, and of the types base is itself restricted from. Without
// modeled facets the first unrestricted base type decides.
func (g *generator) restricted(name xml.Name, r *xsd.Restriction, base xsd.Type) string {
	f := effectiveFacets(r, base)
	g.warnIgnored(name, r, &f)
	switch {
	case len(f.Enum) > 0:
		var allowed []string
		for _, v := range f.Enum {
			if f.allows(v) {
				allowed = append(allowed, v)
			}
		}
		if len(allowed) == 0 {
			fail(errors.NotValidf("enumeration of type %s, no value satisfies the other facets,", name.Local))
		}
		return allowed[g.rand.Intn(len(allowed))]
	case f.Pattern != nil:
		gen, err := g.pattern(f.Pattern.String())
		if err != nil {
			fail(errors.Annotatef(err, "pattern of type %s", name.Local))
		}
		v := gen.Generate(g.rand)
		for i := 1; i < maxPatternTries && !f.matchesInherited(v); i++ {
			v = gen.Generate(g.rand)
		}
		if !f.matchesInherited(v) {
			logger.Warning(fmt.Sprintf("type %s: %q does not match the patterns of its base types", name.Local, v))
		}
		return v
	case f.HasLength():
		min, max := 0, maxStringLength
		if f.HasMinLength {
			min = f.MinLength
		}
		if f.HasMaxLength {
			max = f.MaxLength
		} else if min > max {
			max = min
		}
		if max < min {
			fail(errors.NotValidf("length range [%d, %d] of type %s", min, max, name.Local))
		}
		return randString(g.rand, stringChars, min, max)
	case f.HasRange() || f.Precision > 0:
		return g.number(name, &f.Restriction, f.base)
	}
	return g.typeValue(f.base)
}

// warnIgnored reports facets that do not take part in generation, once
// per restriction.
func (g *generator) warnIgnored(name xml.Name, r *xsd.Restriction, f *facets) {
	if g.warned[r] {
		return
	}
	g.warned[r] = true
	if len(f.Ignored) > 0 {
		logger.Warning(fmt.Sprintf("type %s: ignoring unsupported facets %s", name.Local, strings.Join(f.Ignored, ", ")))
	}
	if f.Pattern != nil && len(f.Enum) == 0 && f.HasLength() {
		logger.Warning(fmt.Sprintf("type %s has both pattern and length facets; ignoring length", name.Local))
	}
}

// number returns a number within the range facets of r, with at most
// r.Precision fraction digits. Types derived from xs:integer get
// integers.
func (g *generator) number(name xml.Name, r *xsd.Restriction, base xsd.Type) string {
	b, _ := xsd.BuiltinOf(base)
	lo, hi := r.Min, r.Max
	switch {
	case !r.HasMin && !r.HasMax:
		lo, hi = -openRangeSpan, openRangeSpan
	case !r.HasMin:
		lo = hi - openRangeSpan
	case !r.HasMax:
		hi = lo + openRangeSpan
	}
	switch b {
	case xsd.PositiveInteger:
		lo = math.Max(lo, 1)
	case xsd.NonNegativeInteger, xsd.UnsignedLong, xsd.UnsignedInt, xsd.UnsignedShort, xsd.UnsignedByte:
		lo = math.Max(lo, 0)
	case xsd.NegativeInteger:
		hi = math.Min(hi, -1)
	case xsd.NonPositiveInteger:
		hi = math.Min(hi, 0)
	}

	if b.Integral() {
		ilo, ihi := math.Ceil(lo), math.Floor(hi)
		if r.MinExclusive && ilo == lo {
			ilo++
		}
		if r.MaxExclusive && ihi == hi {
			ihi--
		}
		if ilo > ihi {
			fail(errors.NotValidf("range of type %s", name.Local))
		}
		v := ilo + math.Floor(g.rand.Float64()*(ihi-ilo+1))
		return strconv.FormatFloat(math.Min(v, ihi), 'f', 0, 64)
	}

	if lo > hi || (lo == hi && (r.MinExclusive || r.MaxExclusive)) {
		fail(errors.NotValidf("range of type %s", name.Local))
	}
	v := lo + g.rand.Float64()*(hi-lo)
	if (r.MinExclusive && v <= lo) || (r.MaxExclusive && v >= hi) {
		v = lo + (hi-lo)/2
	}
	if r.Precision <= 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// Truncate to the allowed number of fraction digits, then step
	// back inside the lower bound if truncation left it.
	scale := math.Pow(10, float64(r.Precision))
	t := math.Floor(v*scale) / scale
	if t < lo || (r.MinExclusive && t == lo) {
		t = math.Ceil(lo*scale) / scale
		if r.MinExclusive && t == lo {
			t += 1 / scale
		}
	}
	if t > hi || (r.MaxExclusive && t == hi) {
		fail(errors.NotValidf("range of type %s with %d fraction digits", name.Local, r.Precision))
	}
	return strconv.FormatFloat(t, 'f', r.Precision, 64)
}
