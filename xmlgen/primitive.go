package xmlgen

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	fuzz "github.com/google/gofuzz"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/pihentagy/xampler/xsd"
)

// A PrimitiveFunc returns a random value, in its lexical form, of a
// built-in type.
type PrimitiveFunc func(r *rand.Rand) string

// Primitives is a table of value generators for built-in types.
type Primitives struct {
	funcs map[xsd.Builtin]PrimitiveFunc
}

// NewPrimitives returns an empty table.
func NewPrimitives() *Primitives {
	return &Primitives{funcs: make(map[xsd.Builtin]PrimitiveFunc)}
}

// Set registers fn for t and returns the generator it replaces, if
// any. A nil fn removes the generator for t.
func (p *Primitives) Set(t xsd.Builtin, fn PrimitiveFunc) (prev PrimitiveFunc) {
	prev = p.funcs[t]
	if fn == nil {
		delete(p.funcs, t)
	} else {
		p.funcs[t] = fn
	}
	return prev
}

// Lookup returns the generator registered for t.
func (p *Primitives) Lookup(t xsd.Builtin) (PrimitiveFunc, bool) {
	fn, ok := p.funcs[t]
	return fn, ok
}

// Clone returns a copy of p that can be changed independently.
func (p *Primitives) Clone() *Primitives {
	c := NewPrimitives()
	for t, fn := range p.funcs {
		c.funcs[t] = fn
	}
	return c
}

const (
	letters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	stringChars = letters + digits + punctuation
	nameChars   = letters + digits + ".-_"

	maxStringLength = 2000
	dateTimeLayout  = "2006-01-02T15:04:05Z"
)

var (
	minTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTime = time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
)

var languages = []language.Tag{
	language.English,
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Hungarian,
	language.Japanese,
	language.BrazilianPortuguese,
	language.SimplifiedChinese,
}

// randString returns a string of length [min, max] drawn from chars.
func randString(r *rand.Rand, chars string, min, max int) string {
	n := min
	if max > min {
		n += r.Intn(max - min + 1)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[r.Intn(len(chars))]
	}
	return string(b)
}

// randInt returns an integer in [lo, hi].
func randInt(r *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	if span >= math.MaxInt64 {
		for {
			var v int64
			fuzz.New().RandSource(r).Fuzz(&v)
			if v >= lo && v <= hi {
				return v
			}
		}
	}
	return lo + r.Int63n(int64(span)+1)
}

func randTime(r *rand.Rand) time.Time {
	return time.Unix(randInt(r, minTime, maxTime), 0).UTC()
}

func intFunc(lo, hi int64) PrimitiveFunc {
	return func(r *rand.Rand) string {
		return strconv.FormatInt(randInt(r, lo, hi), 10)
	}
}

func genString(r *rand.Rand) string {
	return randString(r, stringChars, 0, maxStringLength)
}

func genName(r *rand.Rand) string {
	return randString(r, letters, 1, 1) + randString(r, nameChars, 0, 15)
}

func genID(r *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		// reads from a math/rand source do not fail
		panic(err)
	}
	return "id-" + id.String()
}

// DefaultPrimitives returns a table with a generator for the commonly
// used built-in types. Types without a generator, such as xs:QName or
// xs:duration, need one registered with TypeValue.
func DefaultPrimitives() *Primitives {
	p := NewPrimitives()
	// The upper bound is one past the range of a 32-bit int.
	p.Set(xsd.Int, intFunc(-1<<31, 1<<31))
	p.Set(xsd.Long, func(r *rand.Rand) string {
		var v int64
		fuzz.New().RandSource(r).Fuzz(&v)
		return strconv.FormatInt(v, 10)
	})
	p.Set(xsd.Integer, p.funcs[xsd.Long])
	p.Set(xsd.Short, intFunc(math.MinInt16, math.MaxInt16))
	p.Set(xsd.Byte, intFunc(math.MinInt8, math.MaxInt8))
	p.Set(xsd.UnsignedLong, func(r *rand.Rand) string {
		var v uint64
		fuzz.New().RandSource(r).Fuzz(&v)
		return strconv.FormatUint(v, 10)
	})
	p.Set(xsd.UnsignedInt, intFunc(0, math.MaxUint32))
	p.Set(xsd.UnsignedShort, intFunc(0, math.MaxUint16))
	p.Set(xsd.UnsignedByte, intFunc(0, math.MaxUint8))
	p.Set(xsd.PositiveInteger, intFunc(1, math.MaxInt64))
	p.Set(xsd.NonNegativeInteger, intFunc(0, math.MaxInt64))
	p.Set(xsd.NegativeInteger, intFunc(math.MinInt64, -1))
	p.Set(xsd.NonPositiveInteger, intFunc(math.MinInt64, 0))
	p.Set(xsd.Decimal, func(r *rand.Rand) string {
		return strconv.FormatFloat(-1e32+r.Float64()*2e32, 'f', -1, 64)
	})
	p.Set(xsd.Double, func(r *rand.Rand) string {
		return strconv.FormatFloat(-1e32+r.Float64()*2e32, 'g', -1, 64)
	})
	p.Set(xsd.Float, func(r *rand.Rand) string {
		return strconv.FormatFloat(float64(float32(-1e32+r.Float64()*2e32)), 'g', -1, 32)
	})
	p.Set(xsd.Boolean, func(r *rand.Rand) string {
		var v bool
		fuzz.New().RandSource(r).Fuzz(&v)
		return strconv.FormatBool(v)
	})
	p.Set(xsd.DateTime, func(r *rand.Rand) string {
		return randTime(r).Format(dateTimeLayout)
	})
	p.Set(xsd.Date, func(r *rand.Rand) string {
		return randTime(r).Format("2006-01-02")
	})
	p.Set(xsd.Time, func(r *rand.Rand) string {
		return randTime(r).Format("15:04:05")
	})
	p.Set(xsd.String, genString)
	p.Set(xsd.AnyType, genString)
	p.Set(xsd.AnySimpleType, genString)
	p.Set(xsd.NormalizedString, func(r *rand.Rand) string {
		return randString(r, letters+digits+" ", 0, 64)
	})
	p.Set(xsd.Token, func(r *rand.Rand) string {
		return randString(r, letters+digits, 1, 32)
	})
	p.Set(xsd.NCName, genName)
	p.Set(xsd.Name, genName)
	p.Set(xsd.NMTOKEN, func(r *rand.Rand) string {
		return randString(r, nameChars, 1, 16)
	})
	p.Set(xsd.ID, genID)
	p.Set(xsd.IDREF, genID)
	p.Set(xsd.AnyURI, func(r *rand.Rand) string {
		return "https://example.com/" + randString(r, "abcdefghijklmnopqrstuvwxyz0123456789", 1, 16)
	})
	p.Set(xsd.Language, func(r *rand.Rand) string {
		return languages[r.Intn(len(languages))].String()
	})
	return p
}
