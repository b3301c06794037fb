package sortkind_test

import (
	"testing"

	"github.com/htsmc/htsmc/sortkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVecPanicsOnZeroWidth(t *testing.T) {
	require.Panics(t, func() { sortkind.BitVec(0) })
}

func TestArrayPanicsOnZeroWidth(t *testing.T) {
	require.Panics(t, func() { sortkind.Array(0, 8) })
	require.Panics(t, func() { sortkind.Array(8, 0) })
}

func TestEqual(t *testing.T) {
	a := sortkind.BitVec(8)
	b := sortkind.BitVec(8)
	c := sortkind.BitVec(16)
	assert.True(t, sortkind.Equal(a, b))
	assert.False(t, sortkind.Equal(a, c))
	assert.False(t, sortkind.Equal(a, sortkind.BoolSort))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, sortkind.BoolSort.IsBool())
	assert.True(t, sortkind.BitVec(4).IsBitVec())
	assert.True(t, sortkind.Array(4, 8).IsArray())
}

func TestString(t *testing.T) {
	assert.Equal(t, "Bool", sortkind.BoolSort.String())
	assert.Equal(t, "BitVec(4)", sortkind.BitVec(4).String())
	assert.Equal(t, "Array(BV(4)->BV(8))", sortkind.Array(4, 8).String())
}
