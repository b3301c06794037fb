package symbol_test

import (
	"testing"

	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewsAndSuffixes(t *testing.T) {
	c := symbol.New("c", sortkind.BitVec(4))
	assert.Equal(t, "c", c.String())

	p := c.Prime()
	assert.True(t, p.IsPrime())
	assert.Equal(t, "c_N", p.String())
	assert.Equal(t, c, p.RefVar())

	prev := c.PrevOf()
	assert.True(t, prev.IsPrev())
	assert.Equal(t, "c_P", prev.String())

	at5 := symbol.AtTime(c, 5)
	assert.True(t, at5.IsTimed())
	assert.Equal(t, "c_AT5", at5.String())

	pt5 := symbol.AtPtime(c, 5)
	assert.True(t, pt5.IsTimed())
	assert.Equal(t, "c_ATP5", pt5.String())
}

func TestPrimeOfNonCurrentPanics(t *testing.T) {
	c := symbol.New("c", sortkind.BoolSort)
	p := c.Prime()
	require.Panics(t, func() { p.Prime() })
}

func TestParseRoundTrip(t *testing.T) {
	c := symbol.New("x", sortkind.BitVec(8))
	cases := []symbol.Symbol{
		c,
		c.Prime(),
		c.PrevOf(),
		symbol.AtTime(c, 3),
		symbol.AtPtime(c, 3),
	}
	for _, s := range cases {
		got := symbol.Parse(s.String(), sortkind.BitVec(8))
		assert.Equal(t, s, got, s.String())
	}
}
