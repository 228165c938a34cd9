package wire

// Keeper is the wire keeper (L5): it owns all four value families for one
// scheduler instance. Gates and the frontend hold ids, never direct
// references; the Keeper is the sole mutable repository of wire state.
type Keeper struct {
	bools       *store[bool]
	u64s        *store[uint64]
	boolBatches *store[[]bool]
	u64Batches  *store[[]uint64]
}

// NewKeeper constructs a Keeper whose four families all use the given
// allocator strategy.
func NewKeeper(kind AllocatorKind) *Keeper {
	return &Keeper{
		bools:       newStore[bool](kind),
		u64s:        newStore[uint64](kind),
		boolBatches: newStore[[]bool](kind),
		u64Batches:  newStore[[]uint64](kind),
	}
}

// --- scalar bool ---

func (k *Keeper) AllocateBool(value bool, level uint32) BoolID {
	return BoolID(k.bools.allocate(value, level))
}
func (k *Keeper) GetBool(id BoolID) (bool, error) { return k.bools.get(uint32(id)) }
func (k *Keeper) SetBool(id BoolID, value bool) error {
	return k.bools.set(uint32(id), value)
}
func (k *Keeper) BoolLevel(id BoolID) (uint32, error) { return k.bools.level(uint32(id)) }
func (k *Keeper) SetBoolLevel(id BoolID, level uint32) error {
	return k.bools.setLevel(uint32(id), level)
}
func (k *Keeper) IncBoolRef(id BoolID) error { return k.bools.incRef(uint32(id)) }
func (k *Keeper) DecBoolRef(id BoolID) error { return k.bools.decRef(uint32(id)) }
func (k *Keeper) BoolStats() (allocated, deallocated uint64) { return k.bools.stats() }

// --- scalar u64 ---

func (k *Keeper) AllocateU64(value uint64, level uint32) U64ID {
	return U64ID(k.u64s.allocate(value, level))
}
func (k *Keeper) GetU64(id U64ID) (uint64, error) { return k.u64s.get(uint32(id)) }
func (k *Keeper) SetU64(id U64ID, value uint64) error {
	return k.u64s.set(uint32(id), value)
}
func (k *Keeper) U64Level(id U64ID) (uint32, error) { return k.u64s.level(uint32(id)) }
func (k *Keeper) SetU64Level(id U64ID, level uint32) error {
	return k.u64s.setLevel(uint32(id), level)
}
func (k *Keeper) IncU64Ref(id U64ID) error { return k.u64s.incRef(uint32(id)) }
func (k *Keeper) DecU64Ref(id U64ID) error { return k.u64s.decRef(uint32(id)) }
func (k *Keeper) U64Stats() (allocated, deallocated uint64) { return k.u64s.stats() }

// --- batch bool ---

func (k *Keeper) AllocateBoolBatch(value []bool, level uint32) BoolBatchID {
	return BoolBatchID(k.boolBatches.allocate(value, level))
}
func (k *Keeper) GetBoolBatch(id BoolBatchID) ([]bool, error) {
	return k.boolBatches.get(uint32(id))
}
func (k *Keeper) SetBoolBatch(id BoolBatchID, value []bool) error {
	return k.boolBatches.set(uint32(id), value)
}
func (k *Keeper) BoolBatchLevel(id BoolBatchID) (uint32, error) {
	return k.boolBatches.level(uint32(id))
}
func (k *Keeper) SetBoolBatchLevel(id BoolBatchID, level uint32) error {
	return k.boolBatches.setLevel(uint32(id), level)
}
func (k *Keeper) IncBoolBatchRef(id BoolBatchID) error { return k.boolBatches.incRef(uint32(id)) }
func (k *Keeper) DecBoolBatchRef(id BoolBatchID) error { return k.boolBatches.decRef(uint32(id)) }
func (k *Keeper) BoolBatchStats() (allocated, deallocated uint64) {
	return k.boolBatches.stats()
}

// --- batch u64 ---

func (k *Keeper) AllocateU64Batch(value []uint64, level uint32) U64BatchID {
	return U64BatchID(k.u64Batches.allocate(value, level))
}
func (k *Keeper) GetU64Batch(id U64BatchID) ([]uint64, error) {
	return k.u64Batches.get(uint32(id))
}
func (k *Keeper) SetU64Batch(id U64BatchID, value []uint64) error {
	return k.u64Batches.set(uint32(id), value)
}
func (k *Keeper) U64BatchLevel(id U64BatchID) (uint32, error) {
	return k.u64Batches.level(uint32(id))
}
func (k *Keeper) SetU64BatchLevel(id U64BatchID, level uint32) error {
	return k.u64Batches.setLevel(uint32(id), level)
}
func (k *Keeper) IncU64BatchRef(id U64BatchID) error { return k.u64Batches.incRef(uint32(id)) }
func (k *Keeper) DecU64BatchRef(id U64BatchID) error { return k.u64Batches.decRef(uint32(id)) }
func (k *Keeper) U64BatchStats() (allocated, deallocated uint64) {
	return k.u64Batches.stats()
}

// Stats aggregates the allocated/deallocated counters of all four
// families, the "wire_statistics()" operation of spec §4.5: the
// difference is the number of live handles, used as a leak detector.
func (k *Keeper) Stats() (allocated, deallocated uint64) {
	a, d := k.bools.stats()
	allocated, deallocated = a, d

	a, d = k.u64s.stats()
	allocated += a
	deallocated += d

	a, d = k.boolBatches.stats()
	allocated += a
	deallocated += d

	a, d = k.u64Batches.stats()
	allocated += a
	deallocated += d

	return allocated, deallocated
}
