package xmlgen

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/pihentagy/xampler/xsd"
)

func checkInt(lo, hi int64) func(*testing.T, string) {
	return func(t *testing.T, s string) {
		v, err := strconv.ParseInt(s, 10, 64)
		require.NoError(t, err)
		require.True(t, v >= lo && v <= hi, "%d not in [%d, %d]", v, lo, hi)
	}
}

func checkTime(layout string) func(*testing.T, string) {
	lo := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC)
	return func(t *testing.T, s string) {
		v, err := time.Parse(layout, s)
		require.NoError(t, err)
		if layout == "15:04:05" {
			return
		}
		require.False(t, v.Before(lo) || v.After(hi), "%s out of range", s)
	}
}

func TestPrimitiveDomains(t *testing.T) {
	checks := map[xsd.Builtin]func(*testing.T, string){
		xsd.DateTime: checkTime(dateTimeLayout),
		xsd.Date:     checkTime("2006-01-02"),
		xsd.Time:     checkTime("15:04:05"),
		xsd.Int:      checkInt(-1<<31, 1<<31),
		xsd.Long:     checkInt(math.MinInt64, math.MaxInt64),
		xsd.Integer:  checkInt(math.MinInt64, math.MaxInt64),
		xsd.Short:    checkInt(math.MinInt16, math.MaxInt16),
		xsd.Byte:     checkInt(math.MinInt8, math.MaxInt8),
		xsd.UnsignedLong: func(t *testing.T, s string) {
			_, err := strconv.ParseUint(s, 10, 64)
			require.NoError(t, err)
		},
		xsd.UnsignedInt:        checkInt(0, math.MaxUint32),
		xsd.UnsignedShort:      checkInt(0, math.MaxUint16),
		xsd.UnsignedByte:       checkInt(0, math.MaxUint8),
		xsd.PositiveInteger:    checkInt(1, math.MaxInt64),
		xsd.NonNegativeInteger: checkInt(0, math.MaxInt64),
		xsd.NegativeInteger:    checkInt(math.MinInt64, -1),
		xsd.NonPositiveInteger: checkInt(math.MinInt64, 0),
		xsd.Decimal: func(t *testing.T, s string) {
			require.NotContains(t, s, "e", "decimal uses plain notation")
			v, err := strconv.ParseFloat(s, 64)
			require.NoError(t, err)
			require.True(t, v >= -1e32 && v <= 1e32, "%s out of range", s)
		},
		xsd.Double: func(t *testing.T, s string) {
			_, err := strconv.ParseFloat(s, 64)
			require.NoError(t, err)
		},
		xsd.Float: func(t *testing.T, s string) {
			_, err := strconv.ParseFloat(s, 32)
			require.NoError(t, err)
		},
		xsd.Boolean: func(t *testing.T, s string) {
			require.Contains(t, []string{"true", "false"}, s)
		},
		xsd.String: func(t *testing.T, s string) {
			require.LessOrEqual(t, len(s), maxStringLength)
			require.Empty(t, strings.Trim(s, stringChars))
		},
		xsd.NCName: func(t *testing.T, s string) {
			require.Regexp(t, `^[A-Za-z][A-Za-z0-9._-]*$`, s)
		},
		xsd.NMTOKEN: func(t *testing.T, s string) {
			require.Regexp(t, `^[A-Za-z0-9._-]+$`, s)
		},
		xsd.ID: func(t *testing.T, s string) {
			require.Regexp(t, `^id-[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, s)
		},
		xsd.AnyURI: func(t *testing.T, s string) {
			require.True(t, strings.HasPrefix(s, "https://example.com/"), s)
		},
		xsd.Language: func(t *testing.T, s string) {
			_, err := language.Parse(s)
			require.NoError(t, err)
			require.Regexp(t, `^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`, s)
		},
	}

	p := DefaultPrimitives()
	r := rand.New(rand.NewSource(1))
	for b, check := range checks {
		fn, ok := p.Lookup(b)
		require.True(t, ok, "no generator for %s", b)
		for i := 0; i < 200; i++ {
			check(t, fn(r))
		}
	}
}

func TestPrimitivesSet(t *testing.T) {
	p := DefaultPrimitives()
	_, ok := p.Lookup(xsd.QName)
	require.False(t, ok)

	c := p.Clone()
	prev := c.Set(xsd.String, func(*rand.Rand) string { return "x" })
	require.NotNil(t, prev)
	fn, _ := c.Lookup(xsd.String)
	require.Equal(t, "x", fn(nil))

	fn, _ = p.Lookup(xsd.String)
	require.NotEqual(t, "x", fn(rand.New(rand.NewSource(3))), "clones are independent")

	c.Set(xsd.String, nil)
	_, ok = c.Lookup(xsd.String)
	require.False(t, ok)
}
