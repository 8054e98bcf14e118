// Package regen produces random strings matching a regular expression.
//
// Patterns use the RE2 syntax of the regexp package, which covers the
// commonly used part of the XML Schema pattern language. Anchors and
// word boundaries generate nothing, so a pattern already wrapped in
// ^(?:...)$ produces the same strings as the bare pattern.
package regen

import (
	"math/rand"
	"regexp/syntax"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxRepeat is the number of extra repetitions generated for
// unbounded quantifiers such as * and +.
const DefaultMaxRepeat = 10

// A Generator produces strings matching a compiled pattern. A Generator
// holds no mutable state and may be shared; the caller supplies the
// source of randomness.
type Generator struct {
	pattern   string
	re        *syntax.Regexp
	maxRepeat int
}

// Compile parses a regular expression and returns a Generator for it.
func Compile(pattern string) (*Generator, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, err
	}
	return &Generator{pattern: pattern, re: re, maxRepeat: DefaultMaxRepeat}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be
// parsed.
func MustCompile(pattern string) *Generator {
	g, err := Compile(pattern)
	if err != nil {
		panic("regen: Compile(" + pattern + "): " + err.Error())
	}
	return g
}

// String returns the source pattern.
func (g *Generator) String() string { return g.pattern }

// MaxRepeat returns a copy of g that generates at most n extra
// repetitions for unbounded quantifiers.
func (g *Generator) MaxRepeat(n int) *Generator {
	c := *g
	if n < 0 {
		n = 0
	}
	c.maxRepeat = n
	return &c
}

// Generate returns a random string matching the pattern.
func (g *Generator) Generate(r *rand.Rand) string {
	var b strings.Builder
	g.gen(&b, r, g.re)
	return b.String()
}

func (g *Generator) gen(b *strings.Builder, r *rand.Rand, re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, c := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 && r.Intn(2) == 0 {
				c = unicode.SimpleFold(c)
			}
			b.WriteRune(c)
		}
	case syntax.OpCharClass:
		b.WriteRune(pickClass(r, re.Rune))
	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		b.WriteRune(rune(' ' + 1 + r.Intn('~'-' ')))
	case syntax.OpCapture:
		g.gen(b, r, re.Sub[0])
	case syntax.OpStar:
		g.repeat(b, r, re.Sub[0], 0, g.maxRepeat)
	case syntax.OpPlus:
		g.repeat(b, r, re.Sub[0], 1, 1+g.maxRepeat)
	case syntax.OpQuest:
		g.repeat(b, r, re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		max := re.Max
		if max < 0 {
			max = re.Min + g.maxRepeat
		}
		g.repeat(b, r, re.Sub[0], re.Min, max)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			g.gen(b, r, sub)
		}
	case syntax.OpAlternate:
		g.gen(b, r, re.Sub[r.Intn(len(re.Sub))])
	}
	// OpEmptyMatch, anchors and word boundaries match the empty
	// string. OpNoMatch has no matching string at all.
}

func (g *Generator) repeat(b *strings.Builder, r *rand.Rand, re *syntax.Regexp, min, max int) {
	n := min
	if max > min {
		n += r.Intn(max - min + 1)
	}
	for i := 0; i < n; i++ {
		g.gen(b, r, re)
	}
}

// pickClass chooses a rune from a character class, given as sorted
// lo-hi pairs. Printable ASCII members are preferred; negated classes
// otherwise reach far into the Unicode range.
func pickClass(r *rand.Rand, ranges []rune) rune {
	if c, ok := pickRanges(r, clip(ranges, ' ', '~')); ok {
		return c
	}
	for i := 0; i < 100; i++ {
		c, ok := pickRanges(r, ranges)
		if !ok {
			break
		}
		if unicode.IsPrint(c) && utf8.ValidRune(c) {
			return c
		}
	}
	if len(ranges) > 0 {
		return ranges[0]
	}
	return utf8.RuneError
}

func pickRanges(r *rand.Rand, ranges []rune) (rune, bool) {
	var total int
	for i := 0; i+1 < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}
	if total == 0 {
		return 0, false
	}
	n := r.Intn(total)
	for i := 0; i+1 < len(ranges); i += 2 {
		size := int(ranges[i+1]-ranges[i]) + 1
		if n < size {
			return ranges[i] + rune(n), true
		}
		n -= size
	}
	panic("unreachable")
}

// clip returns the parts of ranges that fall within [lo, hi].
func clip(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		a, z := ranges[i], ranges[i+1]
		if a < lo {
			a = lo
		}
		if z > hi {
			z = hi
		}
		if a <= z {
			out = append(out, a, z)
		}
	}
	return out
}
