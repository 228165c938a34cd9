package tuplegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitmesh/mpcore/tuple"
)

func newParties(t *testing.T, n int, cfg Config) []*Dealer {
	t.Helper()
	var master MasterSeed
	for i := range master {
		master[i] = byte(i * 7)
	}
	dealers := make([]*Dealer, n)
	for i := 0; i < n; i++ {
		d, err := New(i, n, master, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		dealers[i] = d
	}
	return dealers
}

func TestDealer_BooleanTuples_RecombineCorrectly(t *testing.T) {
	dealers := newParties(t, 3, Config{})

	rows := make([][]tuple.Boolean, 3)
	for i, d := range dealers {
		tuples, err := d.BooleanTuples(5)
		require.NoError(t, err)
		rows[i] = tuples
	}

	for i := 0; i < 5; i++ {
		var a, b, c bool
		for p := 0; p < 3; p++ {
			a = a != rows[p][i].A
			b = b != rows[p][i].B
			c = c != rows[p][i].C
		}
		assert.Equal(t, a && b, c, "tuple %d must satisfy a && b == c", i)
	}
}

func TestDealer_IntegerTuples_RecombineCorrectly(t *testing.T) {
	dealers := newParties(t, 2, Config{SupportsIntegerTuples: true})

	rows := make([][]tuple.Integer, 2)
	for i, d := range dealers {
		tuples, err := d.IntegerTuples(4)
		require.NoError(t, err)
		rows[i] = tuples
	}

	for i := 0; i < 4; i++ {
		a := rows[0][i].A + rows[1][i].A
		b := rows[0][i].B + rows[1][i].B
		c := rows[0][i].C + rows[1][i].C
		assert.Equal(t, a*b, c)
	}
}

func TestDealer_IntegerTuples_ErrorsWhenUnsupported(t *testing.T) {
	dealers := newParties(t, 2, Config{})
	_, err := dealers[0].IntegerTuples(1)
	assert.Error(t, err)
}

func TestDealer_CompositeBooleanTuples_RecombineCorrectly(t *testing.T) {
	dealers := newParties(t, 2, Config{SupportsCompositeTupleGeneration: true})

	req := []tuple.CompositeRequest{{Width: 3, Count: 2}}

	normal := make([][]tuple.Boolean, 2)
	composite := make([]map[int][]tuple.Composite, 2)
	for i, d := range dealers {
		n, c, err := d.CompositeBooleanTuples(2, req)
		require.NoError(t, err)
		normal[i] = n
		composite[i] = c
	}

	for i := 0; i < 2; i++ {
		var a bool
		a = a != normal[0][i].A
		a = a != normal[1][i].A
		var b bool
		b = b != normal[0][i].B
		b = b != normal[1][i].B
		var c bool
		c = c != normal[0][i].C
		c = c != normal[1][i].C
		assert.Equal(t, a && b, c)
	}

	for i := 0; i < 2; i++ {
		ct0 := composite[0][3][i]
		ct1 := composite[1][3][i]
		a := ct0.A != ct1.A
		for w := 0; w < 3; w++ {
			b := ct0.B[w] != ct1.B[w]
			c := ct0.C[w] != ct1.C[w]
			assert.Equal(t, a && b, c)
		}
	}
}

func TestDealer_SameMasterSeed_ProducesReproducibleTuples(t *testing.T) {
	d1 := newParties(t, 2, Config{})
	d2 := newParties(t, 2, Config{})

	t1, err := d1[0].BooleanTuples(3)
	require.NoError(t, err)
	t2, err := d2[0].BooleanTuples(3)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}
