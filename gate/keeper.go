package gate

import (
	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/wire"
)

// DefaultMaxUnexecutedGates is the source's undocumented threshold (spec.md
// §9 flags it as a tunable, not a hard constant); kept as the default here.
const DefaultMaxUnexecutedGates = 100_000

// level is one entry in the keeper's deque: every gate here shares the same
// free/non-free class, per the scheduling invariant (§3.3).
type level struct {
	free  bool
	gates []*Gate
}

// Keeper is the gate keeper (L6). It owns no wire values itself — it calls
// into a wire.Keeper to read input levels and allocate output wires — but it
// owns the leveled DAG of pending gates and the batching-limit backpressure.
type Keeper struct {
	wires *wire.Keeper

	levels               []*level
	firstUnexecutedLevel uint32
	pendingGates         int
	maxUnexecutedGates   int

	freeGateCount    uint64
	nonFreeGateCount uint64
}

// NewKeeper constructs a Keeper over wires, with maxUnexecuted as the
// batching-limit threshold. A maxUnexecuted <= 0 selects
// DefaultMaxUnexecutedGates.
func NewKeeper(wires *wire.Keeper, maxUnexecuted int) *Keeper {
	if maxUnexecuted <= 0 {
		maxUnexecuted = DefaultMaxUnexecutedGates
	}
	return &Keeper{wires: wires, maxUnexecutedGates: maxUnexecuted}
}

// isLevelFree reports whether level ℓ holds free gates (even levels do).
func isLevelFree(l uint32) bool { return l%2 == 0 }

// minLevelForClass is the per-contributor "minimum available level" from
// SPEC_FULL.md §3.1 / GateKeeper.cpp's getFirstAvailableLevelForNewWire:
// a contributor at level l satisfies a gate of the given free/non-free
// class at l itself if the parity already matches, otherwise at l+1.
func minLevelForClass(l uint32, gateIsFree bool) uint32 {
	if isLevelFree(l) == gateIsFree {
		return l
	}
	return l + 1
}

// FirstUnexecutedLevel reports the level the next call to
// PopFirstUnexecutedLevel will return, if one is pending.
func (k *Keeper) FirstUnexecutedLevel() uint32 { return k.firstUnexecutedLevel }

// PendingGates reports the number of gates currently queued across all
// un-popped levels.
func (k *Keeper) PendingGates() int { return k.pendingGates }

// HasReachedBatchingLimit reports whether pending gates exceed the
// configured threshold; the lazy scheduler polls this to force a flush.
func (k *Keeper) HasReachedBatchingLimit() bool {
	return k.pendingGates > k.maxUnexecutedGates
}

// GateStatistics returns the cumulative free/non-free gate counts, counted
// at the point a gate is added (scalar: 1, batch: batch size, composite:
// width). There is no separate batched-composite gate kind.
func (k *Keeper) GateStatistics() (nonFree, free uint64) {
	return k.nonFreeGateCount, k.freeGateCount
}

// levelFor computes the assigned level for a gate of the given class given
// its inputs' current first-available-levels.
func (k *Keeper) levelFor(gateIsFree bool, inputLevels []uint32) uint32 {
	result := minLevelForClass(k.firstUnexecutedLevel, gateIsFree)
	for _, l := range inputLevels {
		if c := minLevelForClass(l, gateIsFree); c > result {
			result = c
		}
	}
	return result
}

// LevelFor reports the level a gate of the given free/non-free class would
// be assigned right now, given its input wires. Callers that need to force
// execution up to a gate with no output wire of its own (Output gates) use
// this to learn which level to wait for, without adding the gate itself.
func (k *Keeper) LevelFor(gateIsFree bool, inputs ...WireRef) uint32 {
	inputLevels := make([]uint32, len(inputs))
	for i, in := range inputs {
		inputLevels[i] = k.mustLevel(in)
	}
	return k.levelFor(gateIsFree, inputLevels)
}

// ensureLevel grows the deque so that index (target-firstUnexecutedLevel)
// exists, creating empty entries for any levels skipped over.
func (k *Keeper) ensureLevel(target uint32, free bool) *level {
	idx := int(target - k.firstUnexecutedLevel)
	for len(k.levels) <= idx {
		k.levels = append(k.levels, nil)
	}
	if k.levels[idx] == nil {
		k.levels[idx] = &level{free: free}
	}
	return k.levels[idx]
}

// addGate computes the gate's level, allocates its output wire(s) via
// alloc, appends it to the appropriate level, and updates counters.
func (k *Keeper) addGate(kind Kind, inputs []WireRef, destParty int, numResults int, alloc func(level uint32) []WireRef) *Gate {
	gateIsFree := kind.IsFree()

	inputLevels := make([]uint32, len(inputs))
	for i, in := range inputs {
		inputLevels[i] = k.mustLevel(in)
	}

	lvl := k.levelFor(gateIsFree, inputLevels)

	var outputs []WireRef
	if alloc != nil {
		outputs = alloc(lvl)
	}

	g := &Gate{
		Kind:            kind,
		Inputs:          inputs,
		Outputs:         outputs,
		DestParty:       destParty,
		NumberOfResults: numResults,
	}

	lvlEntry := k.ensureLevel(lvl, gateIsFree)
	lvlEntry.gates = append(lvlEntry.gates, g)
	k.pendingGates++

	if gateIsFree {
		k.freeGateCount += uint64(numResults)
	} else {
		k.nonFreeGateCount += uint64(numResults)
	}

	return g
}

func (k *Keeper) mustLevel(ref WireRef) uint32 {
	lvl, err := k.levelOf(ref)
	if err != nil {
		panic(err)
	}
	return lvl
}

func (k *Keeper) levelOf(ref WireRef) (uint32, error) {
	switch ref.Family {
	case FamilyBool:
		return k.wires.BoolLevel(wire.BoolID(ref.ID))
	case FamilyU64:
		return k.wires.U64Level(wire.U64ID(ref.ID))
	case FamilyBoolBatch:
		return k.wires.BoolBatchLevel(wire.BoolBatchID(ref.ID))
	case FamilyU64Batch:
		return k.wires.U64BatchLevel(wire.U64BatchID(ref.ID))
	default:
		return 0, errs.InvalidArgument("gate.Keeper", "unknown wire family")
	}
}

// InputBool registers an Input gate producing one new Boolean wire holding
// value (the local share; callers pass the already-computed share, the
// engine having applied PRG masking beforehand).
func (k *Keeper) InputBool(value bool) WireRef {
	var out WireRef
	k.addGate(KindInputBool, nil, 0, 1, func(lvl uint32) []WireRef {
		id := k.wires.AllocateBool(value, lvl)
		out = WireRef{Family: FamilyBool, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// InputBoolBatch is the batch analogue of InputBool.
func (k *Keeper) InputBoolBatch(values []bool) WireRef {
	var out WireRef
	k.addGate(KindInputBool, nil, 0, len(values), func(lvl uint32) []WireRef {
		id := k.wires.AllocateBoolBatch(values, lvl)
		out = WireRef{Family: FamilyBoolBatch, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// OutputBool registers an Output (reveal) gate forwarding src to party.
func (k *Keeper) OutputBool(src WireRef, party int) *Gate {
	return k.addGate(KindOutputBool, []WireRef{src}, party, 1, nil)
}

// OutputBoolBatch is the batch analogue of OutputBool; n is the batch size
// used for gate counting.
func (k *Keeper) OutputBoolBatch(src WireRef, party int, n int) *Gate {
	return k.addGate(KindOutputBool, []WireRef{src}, party, n, nil)
}

// NormalBool registers a one- or two-input Boolean gate (XOR/NOT/AND
// variants) producing one new Boolean wire.
func (k *Keeper) NormalBool(kind Kind, inputs ...WireRef) WireRef {
	var out WireRef
	k.addGate(kind, inputs, 0, 1, func(lvl uint32) []WireRef {
		id := k.wires.AllocateBool(false, lvl) // placeholder value, filled by the engine
		out = WireRef{Family: FamilyBool, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// NormalBoolBatch is the batch analogue of NormalBool; n is the batch size.
func (k *Keeper) NormalBoolBatch(kind Kind, n int, inputs ...WireRef) WireRef {
	var out WireRef
	k.addGate(kind, inputs, 0, n, func(lvl uint32) []WireRef {
		id := k.wires.AllocateBoolBatch(make([]bool, n), lvl)
		out = WireRef{Family: FamilyBoolBatch, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// CompositeBool registers a composite AND: left against k right operands,
// producing k new Boolean wires.
func (k *Keeper) CompositeBool(kind Kind, left WireRef, rights []WireRef) []WireRef {
	var outs []WireRef
	inputs := append([]WireRef{left}, rights...)
	k.addGate(kind, inputs, 0, len(rights), func(lvl uint32) []WireRef {
		outs = make([]WireRef, len(rights))
		for i := range rights {
			id := k.wires.AllocateBool(false, lvl)
			outs[i] = WireRef{Family: FamilyBool, ID: uint32(id)}
		}
		return outs
	})
	return outs
}

// BatchUp registers a rebatching gate that groups srcs (scalar Boolean
// wires) into one batch wire. Always free.
func (k *Keeper) BatchUp(srcs []WireRef) WireRef {
	var out WireRef
	k.addGate(KindBatchUp, srcs, 0, len(srcs), func(lvl uint32) []WireRef {
		id := k.wires.AllocateBoolBatch(make([]bool, len(srcs)), lvl)
		out = WireRef{Family: FamilyBoolBatch, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// Unbatching registers a rebatching gate that splits src into len(sizes)
// new batch wires of the given sizes. Always free.
func (k *Keeper) Unbatching(src WireRef, sizes []int) []WireRef {
	var outs []WireRef
	total := 0
	for _, s := range sizes {
		total += s
	}
	k.addGate(KindBatchSplit, []WireRef{src}, 0, total, func(lvl uint32) []WireRef {
		outs = make([]WireRef, len(sizes))
		for i, s := range sizes {
			id := k.wires.AllocateBoolBatch(make([]bool, s), lvl)
			outs[i] = WireRef{Family: FamilyBoolBatch, ID: uint32(id)}
		}
		return outs
	})
	return outs
}

// InputU64 / OutputU64 / NormalU64 mirror the Boolean versions for the
// arithmetic (additive-share) wire family.
func (k *Keeper) InputU64(value uint64) WireRef {
	var out WireRef
	k.addGate(KindInputU64, nil, 0, 1, func(lvl uint32) []WireRef {
		id := k.wires.AllocateU64(value, lvl)
		out = WireRef{Family: FamilyU64, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

func (k *Keeper) OutputU64(src WireRef, party int) *Gate {
	return k.addGate(KindOutputU64, []WireRef{src}, party, 1, nil)
}

func (k *Keeper) NormalU64(kind Kind, inputs ...WireRef) WireRef {
	var out WireRef
	k.addGate(kind, inputs, 0, 1, func(lvl uint32) []WireRef {
		id := k.wires.AllocateU64(0, lvl)
		out = WireRef{Family: FamilyU64, ID: uint32(id)}
		return []WireRef{out}
	})
	return out
}

// PopFirstUnexecutedLevel pops the front of the level deque, returning its
// gates and whether the popped level is free. If no level is pending, it
// advances FirstUnexecutedLevel and returns a nil slice.
func (k *Keeper) PopFirstUnexecutedLevel() (gates []*Gate, free bool) {
	if len(k.levels) == 0 {
		k.firstUnexecutedLevel++
		return nil, false
	}

	front := k.levels[0]
	k.levels = k.levels[1:]
	k.firstUnexecutedLevel++
	if front == nil {
		// a level that ensureLevel skipped over holds no gates
		return nil, false
	}
	k.pendingGates -= len(front.gates)

	return front.gates, front.free
}
