package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeeper_AllocateGetSet(t *testing.T) {
	k := NewKeeper(ArenaSafe)

	id := k.AllocateBool(true, 3)
	v, err := k.GetBool(id)
	require.NoError(t, err)
	assert.True(t, v)

	lvl, err := k.BoolLevel(id)
	require.NoError(t, err)
	assert.EqualValues(t, 3, lvl)

	require.NoError(t, k.SetBool(id, false))
	v, err = k.GetBool(id)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestKeeper_RefcountFreesSlot(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	id := k.AllocateBool(true, 0)

	require.NoError(t, k.IncBoolRef(id))
	require.NoError(t, k.DecBoolRef(id))
	_, err := k.GetBool(id) // still one ref left
	require.NoError(t, err)

	require.NoError(t, k.DecBoolRef(id))
	_, err = k.GetBool(id)
	assert.Error(t, err, "reading a freed wire must be an error")
}

func TestKeeper_DecRefBelowZeroIsError(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	id := k.AllocateBool(true, 0)
	require.NoError(t, k.DecBoolRef(id))
	assert.Error(t, k.DecBoolRef(id))
}

func TestKeeper_IncRefAfterZeroIsError(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	id := k.AllocateBool(true, 0)
	require.NoError(t, k.DecBoolRef(id))
	assert.Error(t, k.IncBoolRef(id))
}

func TestKeeper_WireStatisticsTracksLeaks(t *testing.T) {
	k := NewKeeper(ArenaSafe)

	ids := make([]BoolID, 5)
	for i := range ids {
		ids[i] = k.AllocateBool(true, 0)
	}

	allocated, deallocated := k.Stats()
	assert.EqualValues(t, 5, allocated)
	assert.Zero(t, deallocated)

	for _, id := range ids[:3] {
		require.NoError(t, k.DecBoolRef(id))
	}

	allocated, deallocated = k.Stats()
	assert.EqualValues(t, 5, allocated)
	assert.EqualValues(t, 3, deallocated)
}

func TestKeeper_BatchSizeMismatchIsError(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	id := k.AllocateBoolBatch([]bool{true, false, true}, 0)

	assert.Error(t, k.SetBoolBatch(id, []bool{true, false}))
	assert.NoError(t, k.SetBoolBatch(id, []bool{false, false, false}))
}

func TestKeeper_ArenaUnsafeRecyclesIds(t *testing.T) {
	k := NewKeeper(ArenaUnsafe)
	id1 := k.AllocateBool(true, 0)
	require.NoError(t, k.DecBoolRef(id1))

	id2 := k.AllocateBool(false, 0)
	assert.Equal(t, id1, id2, "unsafe arena recycles freed ids")

	v, err := k.GetBool(id2)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestKeeper_MapBackedNeverAliasesIds(t *testing.T) {
	k := NewKeeper(MapBacked)
	id1 := k.AllocateBool(true, 0)
	require.NoError(t, k.DecBoolRef(id1))

	id2 := k.AllocateBool(false, 0)
	assert.NotEqual(t, id1, id2)

	_, err := k.GetBool(id1)
	assert.Error(t, err)
}

func TestKeeper_ReadOutOfRangeID(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	_, err := k.GetBool(BoolID(42))
	assert.Error(t, err)
}

func TestKeeper_SetLevelMonotoneUsageByCaller(t *testing.T) {
	k := NewKeeper(ArenaSafe)
	id := k.AllocateU64Batch([]uint64{1, 2, 3}, 2)
	require.NoError(t, k.SetU64BatchLevel(id, 4))
	lvl, err := k.U64BatchLevel(id)
	require.NoError(t, err)
	assert.EqualValues(t, 4, lvl)
}
