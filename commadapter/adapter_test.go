package commadapter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/transport"
)

// threeParties wires three Adapters together over in-memory transport
// agents, one pair per unordered party combination.
func threeParties(t *testing.T) [3]*Adapter {
	t.Helper()

	agents := [3]map[int]transport.Agent{{}, {}, {}}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			a, b := transport.NewMemPair()
			agents[i][j] = a
			agents[j][i] = b
		}
	}

	var out [3]*Adapter
	for i := range out {
		out[i] = New(i, agents[i], nil)
	}
	return out
}

func runAll(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	wg.Add(len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func TestAdapter_ExchangeKeys(t *testing.T) {
	parties := threeParties(t)

	seeds := [3]prng.Seed{}
	for i := range seeds {
		seeds[i][0] = byte(i + 1)
	}

	results := make([]map[int]prng.Seed, 3)
	err := runAll(
		func() (err error) {
			results[0], err = parties[0].ExchangeKeys(map[int]prng.Seed{1: seeds[0], 2: seeds[0]})
			return
		},
		func() (err error) {
			results[1], err = parties[1].ExchangeKeys(map[int]prng.Seed{0: seeds[1], 2: seeds[1]})
			return
		},
		func() (err error) {
			results[2], err = parties[2].ExchangeKeys(map[int]prng.Seed{0: seeds[2], 1: seeds[2]})
			return
		},
	)
	require.NoError(t, err)

	assert.Equal(t, seeds[1], results[0][1])
	assert.Equal(t, seeds[2], results[0][2])
	assert.Equal(t, seeds[0], results[1][0])
	assert.Equal(t, seeds[2], results[1][2])
	assert.Equal(t, seeds[0], results[2][0])
	assert.Equal(t, seeds[1], results[2][1])
}

func TestAdapter_OpenBoolToAll(t *testing.T) {
	parties := threeParties(t)

	// plaintext [true, false, true], split into 3 XOR shares arbitrarily
	shares := [3][]bool{
		{true, true, false},
		{false, true, true},
		{false, false, false},
	}

	results := make([][]bool, 3)
	err := runAll(
		func() (err error) { results[0], err = parties[0].OpenBoolToAll(shares[0]); return },
		func() (err error) { results[1], err = parties[1].OpenBoolToAll(shares[1]); return },
		func() (err error) { results[2], err = parties[2].OpenBoolToAll(shares[2]); return },
	)
	require.NoError(t, err)

	want := []bool{true, false, true}
	assert.Equal(t, want, results[0])
	assert.Equal(t, want, results[1])
	assert.Equal(t, want, results[2])
}

func TestAdapter_OpenU64ToAll(t *testing.T) {
	parties := threeParties(t)

	shares := [3][]uint64{{10}, {20}, {5}}
	results := make([][]uint64, 3)
	err := runAll(
		func() (err error) { results[0], err = parties[0].OpenU64ToAll(shares[0]); return },
		func() (err error) { results[1], err = parties[1].OpenU64ToAll(shares[1]); return },
		func() (err error) { results[2], err = parties[2].OpenU64ToAll(shares[2]); return },
	)
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, []uint64{35}, r)
	}
}

func TestAdapter_OpenBoolToParty(t *testing.T) {
	parties := threeParties(t)

	shares := [3][]bool{{true}, {true}, {false}}
	results := make([][]bool, 3)
	err := runAll(
		func() (err error) { results[0], err = parties[0].OpenBoolToParty(0, shares[0]); return },
		func() (err error) { results[1], err = parties[1].OpenBoolToParty(0, shares[1]); return },
		func() (err error) { results[2], err = parties[2].OpenBoolToParty(0, shares[2]); return },
	)
	require.NoError(t, err)

	assert.Equal(t, []bool{false}, results[0], "XOR of true,true,false")
	assert.Equal(t, []bool{false}, results[1], "non-recipient gets the dummy vector, never read")
	assert.Equal(t, []bool{false}, results[2])
}

func TestAdapter_EmptyBatchNoNetwork(t *testing.T) {
	parties := threeParties(t)

	results := make([][]bool, 3)
	err := runAll(
		func() (err error) { results[0], err = parties[0].OpenBoolToAll(nil); return },
		func() (err error) { results[1], err = parties[1].OpenBoolToAll(nil); return },
		func() (err error) { results[2], err = parties[2].OpenBoolToAll(nil); return },
	)
	require.NoError(t, err)
	for _, r := range results {
		assert.Empty(t, r)
	}

	for _, p := range parties {
		sent, received := p.TrafficStatistics()
		assert.Zero(t, sent)
		assert.Zero(t, received)
	}
}

func TestAdapter_TrafficStatisticsAggregatesAllPeers(t *testing.T) {
	parties := threeParties(t)

	shares := [3][]bool{{true, false}, {false, false}, {true, true}}
	err := runAll(
		func() (err error) { _, err = parties[0].OpenBoolToAll(shares[0]); return },
		func() (err error) { _, err = parties[1].OpenBoolToAll(shares[1]); return },
		func() (err error) { _, err = parties[2].OpenBoolToAll(shares[2]); return },
	)
	require.NoError(t, err)

	sent, received := parties[0].TrafficStatistics()
	assert.NotZero(t, sent)
	assert.NotZero(t, received)
}
