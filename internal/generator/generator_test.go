package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickNeverRepeatsExcluded(t *testing.T) {
	g := NewWithSeed(1)
	prev := -1
	for i := 0; i < 2000; i++ {
		idx := g.Pick(144, prev)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 144)
		require.NotEqual(t, prev, idx)
		prev = idx
	}
}

func TestPickTwoCellsAlternates(t *testing.T) {
	g := NewWithSeed(3)
	assert.Equal(t, 1, g.Pick(2, 0))
	assert.Equal(t, 0, g.Pick(2, 1))
}

func TestPickCoversBoard(t *testing.T) {
	g := NewWithSeed(5)
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		seen[g.Pick(16, -1)] = true
	}
	assert.Len(t, seen, 16)
}

func TestPickDeterministicWithSeed(t *testing.T) {
	a := NewWithSeed(42)
	b := NewWithSeed(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Pick(144, i%144), b.Pick(144, i%144))
	}
}

func TestPickMinTravel(t *testing.T) {
	g := NewWithSeed(9, WithMinTravel(16, 4))
	prev := 0
	for i := 0; i < 500; i++ {
		idx := g.Pick(144, prev)
		require.NotEqual(t, prev, idx)
		assert.GreaterOrEqual(t, travel(idx, prev, 16), 4)
		prev = idx
	}
}

func TestPickMinTravelFallsBack(t *testing.T) {
	// No cell on a 2x1 board is 5 apart, so the fallback must still pick the other one.
	g := NewWithSeed(9, WithMinTravel(2, 5))
	assert.Equal(t, 1, g.Pick(2, 0))
}

func TestTravel(t *testing.T) {
	assert.Equal(t, 0, travel(5, 5, 16))
	assert.Equal(t, 1, travel(0, 17, 16))
	assert.Equal(t, 15, travel(0, 15, 16))
	assert.Equal(t, 8, travel(0, 8*16+3, 16))
}
