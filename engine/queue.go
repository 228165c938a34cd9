package engine

import "github.com/circuitmesh/mpcore/tuple"

// The engine defers every non-free AND/mult to one of six scheduled-operation
// queues (§4.4); ExecuteScheduledOperations drains all of them in exactly two
// network roundtrips regardless of how many operations are queued.

type andOp struct {
	x, y bool
	t    tuple.Boolean
}

type batchAndOp struct {
	xs, ys []bool
	ts     []tuple.Boolean
}

type compositeAndOp struct {
	x  bool
	ys []bool
	t  tuple.Composite
}

type batchCompositeAndOp struct {
	xs  []bool
	yss [][]bool
	ts  []tuple.Composite
}

type multOp struct {
	x, y uint64
	t    tuple.Integer
}

type batchMultOp struct {
	xs, ys []uint64
	ts     []tuple.Integer
}

type pendingQueues struct {
	scalarAnd         []andOp
	batchAnd          []batchAndOp
	compositeAnd      []compositeAndOp
	batchCompositeAnd []batchCompositeAndOp
	scalarMult        []multOp
	batchMult         []batchMultOp
}

func newPendingQueues() pendingQueues {
	return pendingQueues{}
}

// BoolIndex references one scheduled scalar AND's result.
type BoolIndex int

// BatchBoolIndex references one scheduled batch AND's result.
type BatchBoolIndex int

// CompositeIndex references one scheduled composite AND's result (k outputs).
// When the tuple generator does not support composite generation, it is
// transparently backed by k scalar ANDs instead (§3.3).
type CompositeIndex struct {
	native   bool
	idx      int   // index into compositeAnd, if native
	expanded []int // indices into scalarAnd, if not native
}

// BatchCompositeIndex references one scheduled batch-composite AND's result
// (B x k outputs), natively or expanded into B*k scalar ANDs.
type BatchCompositeIndex struct {
	native   bool
	idx      int
	expanded [][]int // [batch][k] indices into scalarAnd
}

// U64Index references one scheduled scalar mult's result.
type U64Index int

// BatchU64Index references one scheduled batch mult's result.
type BatchU64Index int

// ScheduleAnd defers a scalar AND of two private shares; the result is
// available only after ExecuteScheduledOperations.
func (e *Engine) ScheduleAnd(x, y bool) BoolIndex {
	idx := len(e.pending.scalarAnd)
	e.pending.scalarAnd = append(e.pending.scalarAnd, andOp{x: x, y: y})
	return BoolIndex(idx)
}

// ScheduleBatchAnd defers an element-wise batch AND; len(xs) must equal
// len(ys).
func (e *Engine) ScheduleBatchAnd(xs, ys []bool) BatchBoolIndex {
	idx := len(e.pending.batchAnd)
	e.pending.batchAnd = append(e.pending.batchAnd, batchAndOp{
		xs: append([]bool(nil), xs...),
		ys: append([]bool(nil), ys...),
	})
	return BatchBoolIndex(idx)
}

// ScheduleCompositeAnd defers a composite AND: one left share x against
// len(ys) right shares. When the tuple generator lacks composite support,
// this transparently expands into len(ys) scalar ANDs.
func (e *Engine) ScheduleCompositeAnd(x bool, ys []bool) CompositeIndex {
	if !e.supportsComposite {
		expanded := make([]int, len(ys))
		for i, y := range ys {
			expanded[i] = int(e.ScheduleAnd(x, y))
		}
		return CompositeIndex{native: false, expanded: expanded}
	}
	idx := len(e.pending.compositeAnd)
	e.pending.compositeAnd = append(e.pending.compositeAnd, compositeAndOp{
		x:  x,
		ys: append([]bool(nil), ys...),
	})
	return CompositeIndex{native: true, idx: idx}
}

// ScheduleBatchCompositeAnd defers B composite ANDs of width k each, xs of
// length B and yss of length B each of length k. Falls back to B*k scalar
// ANDs when the generator lacks composite support.
func (e *Engine) ScheduleBatchCompositeAnd(xs []bool, yss [][]bool) BatchCompositeIndex {
	if !e.supportsComposite {
		expanded := make([][]int, len(xs))
		for b, x := range xs {
			expanded[b] = make([]int, len(yss[b]))
			for i, y := range yss[b] {
				expanded[b][i] = int(e.ScheduleAnd(x, y))
			}
		}
		return BatchCompositeIndex{native: false, expanded: expanded}
	}
	idx := len(e.pending.batchCompositeAnd)
	yssCopy := make([][]bool, len(yss))
	for i, ys := range yss {
		yssCopy[i] = append([]bool(nil), ys...)
	}
	e.pending.batchCompositeAnd = append(e.pending.batchCompositeAnd, batchCompositeAndOp{
		xs:  append([]bool(nil), xs...),
		yss: yssCopy,
	})
	return BatchCompositeIndex{native: true, idx: idx}
}

// ScheduleMult defers a scalar arithmetic multiplication.
func (e *Engine) ScheduleMult(x, y uint64) (U64Index, error) {
	if !e.supportsInteger {
		return 0, errUnsupportedArithmetic("engine.ScheduleMult")
	}
	idx := len(e.pending.scalarMult)
	e.pending.scalarMult = append(e.pending.scalarMult, multOp{x: x, y: y})
	return U64Index(idx), nil
}

// ScheduleBatchMult defers an element-wise batch arithmetic multiplication.
func (e *Engine) ScheduleBatchMult(xs, ys []uint64) (BatchU64Index, error) {
	if !e.supportsInteger {
		return 0, errUnsupportedArithmetic("engine.ScheduleBatchMult")
	}
	idx := len(e.pending.batchMult)
	e.pending.batchMult = append(e.pending.batchMult, batchMultOp{
		xs: append([]uint64(nil), xs...),
		ys: append([]uint64(nil), ys...),
	})
	return BatchU64Index(idx), nil
}
