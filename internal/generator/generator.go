// Package generator picks target cells for a training session.
package generator

import (
	"math/rand"
	"time"
)

// maxTravelAttempts bounds the retries spent looking for a far enough cell.
const maxTravelAttempts = 32

// Generator produces randomized target indices. It is not safe for
// concurrent use; the engine calls it under its own lock.
type Generator struct {
	rnd       *rand.Rand
	columns   int
	minTravel int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMinTravel asks for targets at least minCells apart (Chebyshev distance)
// from the excluded cell on a board with the given column count.
func WithMinTravel(columns, minCells int) Option {
	return func(g *Generator) {
		g.columns = columns
		g.minTravel = minCells
	}
}

// New returns a Generator seeded with the current time.
func New(opts ...Option) *Generator {
	return NewWithSeed(time.Now().UnixNano(), opts...)
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64, opts ...Option) *Generator {
	g := &Generator{rnd: rand.New(rand.NewSource(seed))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Pick returns a uniform index in [0, cellCount) different from exclude.
// With a minimum travel configured it retries a bounded number of times and
// then settles for any cell other than exclude.
func (g *Generator) Pick(cellCount, exclude int) int {
	if cellCount <= 1 {
		return 0
	}
	if g.minTravel > 0 && g.columns > 0 && exclude >= 0 {
		for i := 0; i < maxTravelAttempts; i++ {
			idx := g.pickOther(cellCount, exclude)
			if travel(idx, exclude, g.columns) >= g.minTravel {
				return idx
			}
		}
	}
	return g.pickOther(cellCount, exclude)
}

func (g *Generator) pickOther(cellCount, exclude int) int {
	if exclude < 0 || exclude >= cellCount {
		return g.rnd.Intn(cellCount)
	}
	idx := g.rnd.Intn(cellCount - 1)
	if idx >= exclude {
		idx++
	}
	return idx
}

func travel(a, b, columns int) int {
	dx := abs(a%columns - b%columns)
	dy := abs(a/columns - b/columns)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
