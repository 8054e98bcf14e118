package commandline

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/require"
)

func TestPairs(t *testing.T) {
	require := require.New(t)

	var p Pairs
	require.NoError(p.Set("item=3"))
	require.NoError(p.Set(" order@id =a=b"))
	require.NoError(p.Set("note="))
	require.NoError(p.Set("item=5"))
	require.Equal("item=3,order@id=a=b,note=,item=5", p.String())

	require.Equal(map[string]string{
		"item":     "5",
		"order@id": "a=b",
		"note":     "",
	}, p.Strings())

	for _, bad := range []string{"item", "=3", ""} {
		err := p.Set(bad)
		require.Error(err, bad)
		require.True(errors.IsNotValid(err), bad)
	}
}

func TestPairsInts(t *testing.T) {
	p := Pairs{{"item", "3"}, {"note", " 0 "}, {"line", "-1"}}
	m, err := p.Ints()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"item": 3, "note": 0, "line": -1}, m)

	p = append(p, Pair{"bad", "many"})
	_, err = p.Ints()
	require.True(t, errors.IsNotValid(err))
	require.Contains(t, err.Error(), "bad")
}
