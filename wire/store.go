package wire

import "github.com/circuitmesh/mpcore/errs"

// AllocatorKind selects the storage strategy for a Keeper's four value
// families.
type AllocatorKind int

const (
	// ArenaSafe poisons freed slots instead of recycling their id: reading
	// a freed wire is always detected. Used by tests.
	ArenaSafe AllocatorKind = iota
	// ArenaUnsafe recycles freed ids for new allocations; faster, but a
	// stale id silently aliases a new wire instead of erroring.
	ArenaUnsafe
	// MapBacked stores slots in a hash map keyed by a counter; always
	// safe, slower than the arena.
	MapBacked
)

// batchLen reports the length of value if T is a slice type, or -1 for
// scalar types (bool, uint64), via a type switch on the value's dynamic
// contribution — done once per call, which is acceptable since it's only
// exercised on allocate/set, not on hot-path reads.
func batchLen[T Value](value T) int {
	switch v := any(value).(type) {
	case []bool:
		return len(v)
	case []uint64:
		return len(v)
	default:
		return -1
	}
}

// store is one value family's slot storage, generic over its element type.
// It adds batch-size invariant checking on top of a raw allocator: every
// wire in a batch family records the length it was allocated with, and
// every subsequent Set must match it exactly.
type store[T Value] struct {
	alloc     allocator[T]
	batchSize map[uint32]int // only populated for slice-typed T
}

func newStore[T Value](kind AllocatorKind) *store[T] {
	var a allocator[T]
	switch kind {
	case ArenaUnsafe:
		a = newArenaAllocator[T](true)
	case MapBacked:
		a = newMapAllocator[T]()
	default:
		a = newArenaAllocator[T](false)
	}
	return &store[T]{alloc: a, batchSize: make(map[uint32]int)}
}

func (s *store[T]) allocate(value T, level uint32) uint32 {
	id := s.alloc.allocate(value, level)
	if n := batchLen(value); n >= 0 {
		s.batchSize[id] = n
	}
	return id
}

func (s *store[T]) get(id uint32) (T, error) {
	return s.alloc.get(id)
}

func (s *store[T]) set(id uint32, value T) error {
	if n := batchLen(value); n >= 0 {
		if want, ok := s.batchSize[id]; ok && want != n {
			return errs.InvalidArgumentf("wire.Store.Set", "batch size mismatch: wire expects %d, got %d", want, n)
		}
	}
	return s.alloc.set(id, value)
}

func (s *store[T]) level(id uint32) (uint32, error)          { return s.alloc.level(id) }
func (s *store[T]) setLevel(id uint32, level uint32) error   { return s.alloc.setLevel(id, level) }
func (s *store[T]) incRef(id uint32) error                   { return s.alloc.incRef(id) }
func (s *store[T]) decRef(id uint32) error                   { return s.alloc.decRef(id) }
func (s *store[T]) stats() (allocated, deallocated uint64)   { return s.alloc.stats() }
