package scheduler

import (
	"math/rand"

	"github.com/circuitmesh/mpcore/tuple"
)

// fakeGenerator is a trusted-dealer tuple.Generator for tests; duplicated
// from engine's test-only copy since Go test files aren't importable across
// packages.
type fakeGenerator struct {
	booleans   []tuple.Boolean
	integers   []tuple.Integer
	integer    bool
	boolCursor int
	intCursor  int
}

func newFakeGenerator(booleans []tuple.Boolean, integers []tuple.Integer, supportsInteger bool) *fakeGenerator {
	return &fakeGenerator{booleans: booleans, integers: integers, integer: supportsInteger}
}

func (g *fakeGenerator) BooleanTuples(n int) ([]tuple.Boolean, error) {
	out := g.booleans[g.boolCursor : g.boolCursor+n]
	g.boolCursor += n
	return out, nil
}

func (g *fakeGenerator) IntegerTuples(n int) ([]tuple.Integer, error) {
	out := g.integers[g.intCursor : g.intCursor+n]
	g.intCursor += n
	return out, nil
}

func (g *fakeGenerator) CompositeBooleanTuples(n int, requests []tuple.CompositeRequest) ([]tuple.Boolean, map[int][]tuple.Composite, error) {
	normal, _ := g.BooleanTuples(n)
	return normal, nil, nil
}

func (g *fakeGenerator) SupportsCompositeTupleGeneration() bool { return false }
func (g *fakeGenerator) SupportsIntegerTuples() bool            { return g.integer }
func (g *fakeGenerator) TrafficStatistics() (sent, received uint64) { return 0, 0 }

func dealBit(n int, v bool, rng *rand.Rand) []bool {
	shares := make([]bool, n)
	acc := false
	for i := 0; i < n-1; i++ {
		shares[i] = rng.Intn(2) == 1
		acc = acc != shares[i]
	}
	shares[n-1] = acc != v
	return shares
}

func dealBooleanTuples(n, count int, rng *rand.Rand) [][]tuple.Boolean {
	out := make([][]tuple.Boolean, n)
	for p := range out {
		out[p] = make([]tuple.Boolean, count)
	}
	for i := 0; i < count; i++ {
		a := rng.Intn(2) == 1
		b := rng.Intn(2) == 1
		c := a && b
		aShares := dealBit(n, a, rng)
		bShares := dealBit(n, b, rng)
		cShares := dealBit(n, c, rng)
		for p := 0; p < n; p++ {
			out[p][i] = tuple.Boolean{A: aShares[p], B: bShares[p], C: cShares[p]}
		}
	}
	return out
}
