package engine

import (
	"math/rand"

	"github.com/circuitmesh/mpcore/tuple"
)

// fakeGenerator is a trusted-dealer tuple.Generator for tests: tuples are
// dealt once (by dealBooleanTuples etc. below) against a fixed plaintext and
// split across parties, so every party's fakeGenerator must be constructed
// from the same dealt batch to agree with its peers.
type fakeGenerator struct {
	booleans   []tuple.Boolean
	composites map[int][]tuple.Composite
	integers   []tuple.Integer

	composite bool
	integer   bool

	boolCursor int
	compCursor map[int]int
	intCursor  int
}

func newFakeGenerator(booleans []tuple.Boolean, composites map[int][]tuple.Composite, integers []tuple.Integer, supportsComposite, supportsInteger bool) *fakeGenerator {
	return &fakeGenerator{
		booleans:   booleans,
		composites: composites,
		integers:   integers,
		composite:  supportsComposite,
		integer:    supportsInteger,
		compCursor: make(map[int]int),
	}
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
	out := make(map[int][]tuple.Composite, len(requests))
	for _, req := range requests {
		start := g.compCursor[req.Width]
		out[req.Width] = g.composites[req.Width][start : start+req.Count]
		g.compCursor[req.Width] = start + req.Count
	}
	return normal, out, nil
}

func (g *fakeGenerator) SupportsCompositeTupleGeneration() bool { return g.composite }
func (g *fakeGenerator) SupportsIntegerTuples() bool            { return g.integer }
func (g *fakeGenerator) TrafficStatistics() (sent, received uint64) { return 0, 0 }

// dealBit splits plaintext v into n XOR shares using rng for all but the
// last, which is solved for.
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

// dealU64 splits plaintext v into n additive shares mod 2^64.
func dealU64(n int, v uint64, rng *rand.Rand) []uint64 {
	shares := make([]uint64, n)
	var acc uint64
	for i := 0; i < n-1; i++ {
		shares[i] = rng.Uint64()
		acc += shares[i]
	}
	shares[n-1] = v - acc
	return shares
}

// dealBooleanTuples deals count independent Beaver triples across n
// parties, returning one []tuple.Boolean per party in the same order.
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

// dealCompositeTuples deals count width-wide composite tuples across n
// parties.
func dealCompositeTuples(n, width, count int, rng *rand.Rand) [][]tuple.Composite {
	out := make([][]tuple.Composite, n)
	for p := range out {
		out[p] = make([]tuple.Composite, count)
	}
	for i := 0; i < count; i++ {
		a := rng.Intn(2) == 1
		aShares := dealBit(n, a, rng)
		bShares := make([][]bool, width)
		cShares := make([][]bool, width)
		for w := 0; w < width; w++ {
			b := rng.Intn(2) == 1
			c := a && b
			bShares[w] = dealBit(n, b, rng)
			cShares[w] = dealBit(n, c, rng)
		}
		for p := 0; p < n; p++ {
			bp := make([]bool, width)
			cp := make([]bool, width)
			for w := 0; w < width; w++ {
				bp[w] = bShares[w][p]
				cp[w] = cShares[w][p]
			}
			out[p][i] = tuple.Composite{A: aShares[p], B: bp, C: cp}
		}
	}
	return out
}

// dealIntegerTuples deals count additive Beaver triples across n parties.
func dealIntegerTuples(n, count int, rng *rand.Rand) [][]tuple.Integer {
	out := make([][]tuple.Integer, n)
	for p := range out {
		out[p] = make([]tuple.Integer, count)
	}
	for i := 0; i < count; i++ {
		a := rng.Uint64()
		b := rng.Uint64()
		c := a * b
		aShares := dealU64(n, a, rng)
		bShares := dealU64(n, b, rng)
		cShares := dealU64(n, c, rng)
		for p := 0; p < n; p++ {
			out[p][i] = tuple.Integer{A: aShares[p], B: bShares[p], C: cShares[p]}
		}
	}
	return out
}
