package engine

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/transport"
	"github.com/circuitmesh/mpcore/tuple"
)

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

type twoPartyOpts struct {
	boolCount         int
	compositeWidths   map[int]int // width -> count
	integerCount      int
	supportsComposite bool
	supportsInteger   bool
}

func newTwoPartyEngines(t *testing.T, opts twoPartyOpts) (e0, e1 *Engine) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	dealtBool := dealBooleanTuples(2, opts.boolCount, rng)
	dealtInt := dealIntegerTuples(2, opts.integerCount, rng)

	perPartyComposites := [2]map[int][]tuple.Composite{{}, {}}
	for width, count := range opts.compositeWidths {
		dealt := dealCompositeTuples(2, width, count, rng)
		perPartyComposites[0][width] = dealt[0]
		perPartyComposites[1][width] = dealt[1]
	}

	gen0 := newFakeGenerator(dealtBool[0], perPartyComposites[0], dealtInt[0], opts.supportsComposite, opts.supportsInteger)
	gen1 := newFakeGenerator(dealtBool[1], perPartyComposites[1], dealtInt[1], opts.supportsComposite, opts.supportsInteger)

	agentA, agentB := transport.NewMemPair()
	adapter0 := commadapter.New(0, map[int]transport.Agent{1: agentA}, nil)
	adapter1 := commadapter.New(1, map[int]transport.Agent{0: agentB}, nil)

	var seed0, seed1 prng.Seed
	seed0[0] = 1
	seed1[0] = 2

	err := runAll(
		func() (err error) {
			e0, err = New(0, 2, Seeds{1: seed0}, adapter0, gen0, nil)
			return
		},
		func() (err error) {
			e1, err = New(1, 2, Seeds{0: seed1}, adapter1, gen1, nil)
			return
		},
	)
	require.NoError(t, err)
	return e0, e1
}

func TestEngine_InputBool_OwnerMasksAgainstEveryPeer(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})

	var share0, share1 bool
	err := runAll(
		func() (err error) { share0, err = e0.SetInputBool(0, boolPtr(true)); return },
		func() (err error) { share1, err = e1.SetInputBool(0, nil); return },
	)
	require.NoError(t, err)
	assert.Equal(t, true, share0 != share1)
}

func TestEngine_InputBool_OwnerWithoutValueIsError(t *testing.T) {
	e0, _ := newTwoPartyEngines(t, twoPartyOpts{})
	_, err := e0.SetInputBool(0, nil)
	assert.Error(t, err)
}

func TestEngine_InputU64_AdditiveSharing(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})

	var share0, share1 uint64
	v := uint64(12345)
	err := runAll(
		func() (err error) { share0, err = e0.SetInputU64(0, &v); return },
		func() (err error) { share1, err = e1.SetInputU64(0, nil); return },
	)
	require.NoError(t, err)
	assert.Equal(t, v, share0+share1)
}

func TestEngine_SymmetricXOR_RecombinesCorrectly(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})

	var a0, a1, b0, b1 bool
	va, vb := true, false
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputBool(0, &va); return },
		func() (err error) { a1, err = e1.SetInputBool(0, nil); return },
	))
	require.NoError(t, runAll(
		func() (err error) { b0, err = e0.SetInputBool(1, nil); return },
		func() (err error) { b1, err = e1.SetInputBool(1, &vb); return },
	))

	z0 := e0.SymmetricXOR(a0, b0)
	z1 := e1.SymmetricXOR(a1, b1)
	assert.Equal(t, va != vb, z0 != z1)
}

func TestEngine_AsymmetricXOR_OnlyParty0TouchesPublic(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})
	var a0, a1 bool
	va := true
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputBool(0, &va); return },
		func() (err error) { a1, err = e1.SetInputBool(0, nil); return },
	))

	z0 := e0.AsymmetricXOR(a0, true)
	z1 := e1.AsymmetricXOR(a1, true)
	assert.Equal(t, va != true, z0 != z1)
}

func TestEngine_FreeAND_WithPublicConstant(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})
	var a0, a1 bool
	va := true
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputBool(0, &va); return },
		func() (err error) { a1, err = e1.SetInputBool(0, nil); return },
	))

	// AND with public true leaves the value unchanged.
	assert.Equal(t, va, e0.FreeAND(a0, true) != e1.FreeAND(a1, true))
	// AND with public false is always false.
	assert.False(t, e0.FreeAND(a0, false) != e1.FreeAND(a1, false))
}

func TestEngine_NonFreeAND_BeaverProtocol(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{boolCount: 1})

	var a0, a1, b0, b1 bool
	va, vb := true, true
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputBool(0, &va); return },
		func() (err error) { a1, err = e1.SetInputBool(0, nil); return },
	))
	require.NoError(t, runAll(
		func() (err error) { b0, err = e0.SetInputBool(1, nil); return },
		func() (err error) { b1, err = e1.SetInputBool(1, &vb); return },
	))

	idx0 := e0.ScheduleAnd(a0, b0)
	idx1 := e1.ScheduleAnd(a1, b1)

	require.NoError(t, runAll(
		func() error { return e0.ExecuteScheduledOperations() },
		func() error { return e1.ExecuteScheduledOperations() },
	))

	z0 := e0.AndResult(idx0)
	z1 := e1.AndResult(idx1)
	assert.Equal(t, va && vb, z0 != z1)
}

func TestEngine_BatchAND(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{boolCount: 3})

	xs := []bool{true, true, false}
	ys := []bool{true, false, false}

	// party 0 owns xs, party 1 owns ys.
	var x0, x1, y0, y1 []bool
	require.NoError(t, runAll(
		func() (err error) { x0, err = e0.SetInputBoolBatch(0, xs, 3); return },
		func() (err error) { x1, err = e1.SetInputBoolBatch(0, nil, 3); return },
	))
	require.NoError(t, runAll(
		func() (err error) { y0, err = e0.SetInputBoolBatch(1, nil, 3); return },
		func() (err error) { y1, err = e1.SetInputBoolBatch(1, ys, 3); return },
	))

	idx0 := e0.ScheduleBatchAnd(x0, y0)
	idx1 := e1.ScheduleBatchAnd(x1, y1)
	require.NoError(t, runAll(
		func() error { return e0.ExecuteScheduledOperations() },
		func() error { return e1.ExecuteScheduledOperations() },
	))

	r0 := e0.BatchAndResult(idx0)
	r1 := e1.BatchAndResult(idx1)
	require.Len(t, r0, 3)
	for i := range r0 {
		assert.Equal(t, xs[i] && ys[i], r0[i] != r1[i])
	}
}

func TestEngine_CompositeAND_NativeSupport(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{
		compositeWidths:   map[int]int{3: 1},
		supportsComposite: true,
	})

	left := true
	rights := []bool{true, false, true}

	var l0, l1 bool
	require.NoError(t, runAll(
		func() (err error) { l0, err = e0.SetInputBool(0, &left); return },
		func() (err error) { l1, err = e1.SetInputBool(0, nil); return },
	))

	r0 := make([]bool, 3)
	r1 := make([]bool, 3)
	for i, v := range rights {
		v := v
		i := i
		require.NoError(t, runAll(
			func() (err error) { r0[i], err = e0.SetInputBool(1, nil); return },
			func() (err error) { r1[i], err = e1.SetInputBool(1, &v); return },
		))
	}

	ci0 := e0.ScheduleCompositeAnd(l0, r0)
	ci1 := e1.ScheduleCompositeAnd(l1, r1)
	assert.True(t, ci0.native)
	require.NoError(t, runAll(
		func() error { return e0.ExecuteScheduledOperations() },
		func() error { return e1.ExecuteScheduledOperations() },
	))

	out0 := e0.CompositeAndResult(ci0)
	out1 := e1.CompositeAndResult(ci1)
	require.Len(t, out0, 3)
	for i := range out0 {
		assert.Equal(t, left && rights[i], out0[i] != out1[i])
	}
}

func TestEngine_CompositeAND_FallsBackToScalarWhenUnsupported(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{
		boolCount:         3,
		supportsComposite: false,
	})

	left := true
	rights := []bool{true, false, true}

	var l0, l1 bool
	require.NoError(t, runAll(
		func() (err error) { l0, err = e0.SetInputBool(0, &left); return },
		func() (err error) { l1, err = e1.SetInputBool(0, nil); return },
	))

	r0 := make([]bool, 3)
	r1 := make([]bool, 3)
	for i, v := range rights {
		v := v
		i := i
		require.NoError(t, runAll(
			func() (err error) { r0[i], err = e0.SetInputBool(1, nil); return },
			func() (err error) { r1[i], err = e1.SetInputBool(1, &v); return },
		))
	}

	ci0 := e0.ScheduleCompositeAnd(l0, r0)
	ci1 := e1.ScheduleCompositeAnd(l1, r1)
	assert.False(t, ci0.native)
	require.NoError(t, runAll(
		func() error { return e0.ExecuteScheduledOperations() },
		func() error { return e1.ExecuteScheduledOperations() },
	))

	out0 := e0.CompositeAndResult(ci0)
	out1 := e1.CompositeAndResult(ci1)
	require.Len(t, out0, 3)
	for i := range out0 {
		assert.Equal(t, left && rights[i], out0[i] != out1[i])
	}
}

func TestEngine_Mult_AdditiveBeaverProtocol(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{integerCount: 1, supportsInteger: true})

	va, vb := uint64(7), uint64(9)
	var a0, a1, b0, b1 uint64
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputU64(0, &va); return },
		func() (err error) { a1, err = e1.SetInputU64(0, nil); return },
	))
	require.NoError(t, runAll(
		func() (err error) { b0, err = e0.SetInputU64(1, nil); return },
		func() (err error) { b1, err = e1.SetInputU64(1, &vb); return },
	))

	idx0, err := e0.ScheduleMult(a0, b0)
	require.NoError(t, err)
	idx1, err := e1.ScheduleMult(a1, b1)
	require.NoError(t, err)

	require.NoError(t, runAll(
		func() error { return e0.ExecuteScheduledOperations() },
		func() error { return e1.ExecuteScheduledOperations() },
	))

	z0 := e0.MultResult(idx0)
	z1 := e1.MultResult(idx1)
	assert.Equal(t, va*vb, z0+z1)
}

func TestEngine_ScheduleMult_ErrorsWhenGeneratorLacksIntegerSupport(t *testing.T) {
	e0, _ := newTwoPartyEngines(t, twoPartyOpts{supportsInteger: false})
	_, err := e0.ScheduleMult(1, 1)
	assert.Error(t, err)
}

func TestEngine_RevealToParty(t *testing.T) {
	e0, e1 := newTwoPartyEngines(t, twoPartyOpts{})

	va := true
	var a0, a1 bool
	require.NoError(t, runAll(
		func() (err error) { a0, err = e0.SetInputBool(0, &va); return },
		func() (err error) { a1, err = e1.SetInputBool(0, nil); return },
	))

	var revealed0, revealed1 []bool
	require.NoError(t, runAll(
		func() (err error) { revealed0, err = e0.RevealToParty(0, []bool{a0}); return },
		func() (err error) { revealed1, err = e1.RevealToParty(0, []bool{a1}); return },
	))
	assert.Equal(t, []bool{va}, revealed0)
	assert.Len(t, revealed1, 1) // non-recipient's dummy vector, not meaningful
}

func boolPtr(v bool) *bool { return &v }
