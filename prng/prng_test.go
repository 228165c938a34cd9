package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_DeterministicFromSameSeed(t *testing.T) {
	var seed Seed
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	a := New(seed)
	b := New(seed)

	assert.Equal(t, a.GetRandomBits(100), b.GetRandomBits(100))
	assert.Equal(t, a.GetRandomU64(10), b.GetRandomU64(10))
}

func TestGenerator_DifferentSeedsDiverge(t *testing.T) {
	var seedA, seedB Seed
	seedB[0] = 1

	a := New(seedA).GetRandomBits(256)
	b := New(seedB).GetRandomBits(256)

	assert.NotEqual(t, a, b)
}

func TestGenerator_StreamContinues(t *testing.T) {
	var seed Seed
	g := New(seed)

	first := g.GetRandomBits(8)
	second := g.GetRandomBits(8)

	fresh := New(seed).GetRandomBits(16)
	assert.Equal(t, first, fresh[:8], "first 8 bits of a fresh stream must match the first call on another instance")
	assert.Equal(t, second, fresh[8:], "a second call must continue the stream where the first stopped")
}

func TestGenerator_EmptyRequests(t *testing.T) {
	g := New(Seed{})
	assert.Empty(t, g.GetRandomBits(0))
	assert.Empty(t, g.GetRandomU64(0))
}

func TestGenerator_NextBitMatchesGetRandomBits(t *testing.T) {
	var seed Seed
	a := New(seed)
	b := New(seed)

	var viaNext []bool
	for i := 0; i < 40; i++ {
		viaNext = append(viaNext, a.NextBit())
	}
	assert.Equal(t, viaNext, b.GetRandomBits(40))
}
