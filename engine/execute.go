package engine

import (
	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/tuple"
)

// executionResults holds the per-queue output shares produced by the most
// recent ExecuteScheduledOperations call, indexed exactly as the queues were
// at the time of execution.
type executionResults struct {
	scalarAnd         []bool
	batchAnd          [][]bool
	compositeAnd      [][]bool
	batchCompositeAnd [][][]bool
	scalarMult        []uint64
	batchMult         [][]uint64
}

func errUnsupportedArithmetic(op string) error {
	return errs.InvalidArgument(op, "tuple generator does not support integer tuples")
}

// beaverBoolZ computes one party's output share of a Beaver-protocol AND
// given its tuple share (a, b, c) and the two opened values (X, Y); only
// party 0 folds in the public X AND Y term (§4.4 step 3).
func (e *Engine) beaverBoolZ(a, b, c, x, y bool) bool {
	z := c != (x && b) != (y && a)
	if e.isParty0() {
		z = z != (x && y)
	}
	return z
}

// beaverU64Z is the additive analogue of beaverBoolZ.
func (e *Engine) beaverU64Z(a, b, c, x, y uint64) uint64 {
	z := c + x*b + y*a
	if e.isParty0() {
		z += x * y
	}
	return z
}

// ExecuteScheduledOperations drains all six queues in exactly two network
// roundtrips: one to open every masked Boolean operand, one to open every
// masked arithmetic operand (only the channels actually in use incur a
// roundtrip). Results stay available via AndResult/BatchAndResult/etc.
// until the next call; the pending queues are cleared before this call
// returns.
func (e *Engine) ExecuteScheduledOperations() error {
	if err := e.executeBoolQueues(); err != nil {
		return err
	}
	if err := e.executeU64Queues(); err != nil {
		return err
	}
	e.pending = newPendingQueues()
	return nil
}

func (e *Engine) executeBoolQueues() error {
	q := &e.pending
	hasComposite := len(q.compositeAnd) > 0 || len(q.batchCompositeAnd) > 0
	if len(q.scalarAnd) == 0 && len(q.batchAnd) == 0 && !hasComposite {
		e.results.scalarAnd = nil
		e.results.batchAnd = nil
		e.results.compositeAnd = nil
		e.results.batchCompositeAnd = nil
		return nil
	}

	normalCount := len(q.scalarAnd)
	for _, op := range q.batchAnd {
		normalCount += len(op.xs)
	}

	var normalTuples []tuple.Boolean
	var compositeTuples map[int][]tuple.Composite

	if hasComposite && e.supportsComposite {
		requests := make(map[int]int)
		for _, op := range q.compositeAnd {
			requests[len(op.ys)]++
		}
		for _, op := range q.batchCompositeAnd {
			if len(op.xs) == 0 {
				continue
			}
			requests[len(op.yss[0])] += len(op.xs)
		}
		reqSlice := make([]tuple.CompositeRequest, 0, len(requests))
		for width, count := range requests {
			reqSlice = append(reqSlice, tuple.CompositeRequest{Width: width, Count: count})
		}
		var err error
		normalTuples, compositeTuples, err = e.gen.CompositeBooleanTuples(normalCount, reqSlice)
		if err != nil {
			return errs.Protocol("engine.ExecuteScheduledOperations", "composite tuple generation", err)
		}
	} else {
		var err error
		normalTuples, err = e.gen.BooleanTuples(normalCount)
		if err != nil {
			return errs.Protocol("engine.ExecuteScheduledOperations", "tuple generation", err)
		}
	}

	normalCursor := 0
	nextNormal := func() tuple.Boolean {
		t := normalTuples[normalCursor]
		normalCursor++
		return t
	}
	compositeCursors := make(map[int]int)
	nextComposite := func(width int) tuple.Composite {
		i := compositeCursors[width]
		compositeCursors[width] = i + 1
		return compositeTuples[width][i]
	}

	masked := make([]bool, 0, normalCount*2)

	for i := range q.scalarAnd {
		op := &q.scalarAnd[i]
		op.t = nextNormal()
		masked = append(masked, op.x != op.t.A, op.y != op.t.B)
	}
	for i := range q.batchAnd {
		op := &q.batchAnd[i]
		op.ts = make([]tuple.Boolean, len(op.xs))
		for j := range op.xs {
			op.ts[j] = nextNormal()
			masked = append(masked, op.xs[j] != op.ts[j].A, op.ys[j] != op.ts[j].B)
		}
	}
	for i := range q.compositeAnd {
		op := &q.compositeAnd[i]
		op.t = nextComposite(len(op.ys))
		masked = append(masked, op.x != op.t.A)
		for j, y := range op.ys {
			masked = append(masked, y != op.t.B[j])
		}
	}
	for i := range q.batchCompositeAnd {
		op := &q.batchCompositeAnd[i]
		width := 0
		if len(op.yss) > 0 {
			width = len(op.yss[0])
		}
		op.ts = make([]tuple.Composite, len(op.xs))
		for b := range op.xs {
			op.ts[b] = nextComposite(width)
			masked = append(masked, op.xs[b] != op.ts[b].A)
			for j, y := range op.yss[b] {
				masked = append(masked, y != op.ts[b].B[j])
			}
		}
	}

	opened, err := e.adapter.OpenBoolToAll(masked)
	if err != nil {
		return errs.Protocol("engine.ExecuteScheduledOperations", "opening AND operands", err)
	}

	cursor := 0
	nextOpened := func() bool {
		v := opened[cursor]
		cursor++
		return v
	}

	results := executionResults{
		scalarAnd:         make([]bool, len(q.scalarAnd)),
		batchAnd:          make([][]bool, len(q.batchAnd)),
		compositeAnd:      make([][]bool, len(q.compositeAnd)),
		batchCompositeAnd: make([][][]bool, len(q.batchCompositeAnd)),
	}

	for i := range q.scalarAnd {
		op := &q.scalarAnd[i]
		x, y := nextOpened(), nextOpened()
		results.scalarAnd[i] = e.beaverBoolZ(op.t.A, op.t.B, op.t.C, x, y)
	}
	for i := range q.batchAnd {
		op := &q.batchAnd[i]
		out := make([]bool, len(op.xs))
		for j := range op.xs {
			x, y := nextOpened(), nextOpened()
			out[j] = e.beaverBoolZ(op.ts[j].A, op.ts[j].B, op.ts[j].C, x, y)
		}
		results.batchAnd[i] = out
	}
	for i := range q.compositeAnd {
		op := &q.compositeAnd[i]
		x := nextOpened()
		out := make([]bool, len(op.ys))
		for j := range op.ys {
			y := nextOpened()
			out[j] = e.beaverBoolZ(op.t.A, op.t.B[j], op.t.C[j], x, y)
		}
		results.compositeAnd[i] = out
	}
	for i := range q.batchCompositeAnd {
		op := &q.batchCompositeAnd[i]
		out := make([][]bool, len(op.xs))
		for b := range op.xs {
			x := nextOpened()
			row := make([]bool, len(op.yss[b]))
			for j := range op.yss[b] {
				y := nextOpened()
				row[j] = e.beaverBoolZ(op.ts[b].A, op.ts[b].B[j], op.ts[b].C[j], x, y)
			}
			out[b] = row
		}
		results.batchCompositeAnd[i] = out
	}

	e.results.scalarAnd = results.scalarAnd
	e.results.batchAnd = results.batchAnd
	e.results.compositeAnd = results.compositeAnd
	e.results.batchCompositeAnd = results.batchCompositeAnd
	return nil
}

func (e *Engine) executeU64Queues() error {
	q := &e.pending
	if len(q.scalarMult) == 0 && len(q.batchMult) == 0 {
		e.results.scalarMult = nil
		e.results.batchMult = nil
		return nil
	}

	count := len(q.scalarMult)
	for _, op := range q.batchMult {
		count += len(op.xs)
	}
	tuples, err := e.gen.IntegerTuples(count)
	if err != nil {
		return errs.Protocol("engine.ExecuteScheduledOperations", "integer tuple generation", err)
	}

	cursor := 0
	nextTuple := func() tuple.Integer {
		t := tuples[cursor]
		cursor++
		return t
	}

	masked := make([]uint64, 0, count*2)
	for i := range q.scalarMult {
		op := &q.scalarMult[i]
		op.t = nextTuple()
		masked = append(masked, op.x-op.t.A, op.y-op.t.B)
	}
	for i := range q.batchMult {
		op := &q.batchMult[i]
		op.ts = make([]tuple.Integer, len(op.xs))
		for j := range op.xs {
			op.ts[j] = nextTuple()
			masked = append(masked, op.xs[j]-op.ts[j].A, op.ys[j]-op.ts[j].B)
		}
	}

	opened, err := e.adapter.OpenU64ToAll(masked)
	if err != nil {
		return errs.Protocol("engine.ExecuteScheduledOperations", "opening mult operands", err)
	}

	oc := 0
	nextOpened := func() uint64 {
		v := opened[oc]
		oc++
		return v
	}

	results := executionResults{
		scalarMult: make([]uint64, len(q.scalarMult)),
		batchMult:  make([][]uint64, len(q.batchMult)),
	}
	for i := range q.scalarMult {
		op := &q.scalarMult[i]
		x, y := nextOpened(), nextOpened()
		results.scalarMult[i] = e.beaverU64Z(op.t.A, op.t.B, op.t.C, x, y)
	}
	for i := range q.batchMult {
		op := &q.batchMult[i]
		out := make([]uint64, len(op.xs))
		for j := range op.xs {
			x, y := nextOpened(), nextOpened()
			out[j] = e.beaverU64Z(op.ts[j].A, op.ts[j].B, op.ts[j].C, x, y)
		}
		results.batchMult[i] = out
	}

	e.results.scalarMult = results.scalarMult
	e.results.batchMult = results.batchMult
	return nil
}

// AndResult returns a scheduled scalar AND's output share. Valid only after
// ExecuteScheduledOperations has run since the call to ScheduleAnd.
func (e *Engine) AndResult(i BoolIndex) bool { return e.results.scalarAnd[i] }

// BatchAndResult returns a scheduled batch AND's output shares.
func (e *Engine) BatchAndResult(i BatchBoolIndex) []bool { return e.results.batchAnd[i] }

// CompositeAndResult returns a scheduled composite AND's k output shares,
// whether served natively or via scalar expansion.
func (e *Engine) CompositeAndResult(i CompositeIndex) []bool {
	if i.native {
		return e.results.compositeAnd[i.idx]
	}
	out := make([]bool, len(i.expanded))
	for j, scalarIdx := range i.expanded {
		out[j] = e.AndResult(BoolIndex(scalarIdx))
	}
	return out
}

// BatchCompositeAndResult returns a scheduled batch-composite AND's B x k
// output shares, whether served natively or via scalar expansion.
func (e *Engine) BatchCompositeAndResult(i BatchCompositeIndex) [][]bool {
	if i.native {
		return e.results.batchCompositeAnd[i.idx]
	}
	out := make([][]bool, len(i.expanded))
	for b, row := range i.expanded {
		out[b] = make([]bool, len(row))
		for j, scalarIdx := range row {
			out[b][j] = e.AndResult(BoolIndex(scalarIdx))
		}
	}
	return out
}

// MultResult returns a scheduled scalar mult's output share.
func (e *Engine) MultResult(i U64Index) uint64 { return e.results.scalarMult[i] }

// BatchMultResult returns a scheduled batch mult's output shares.
func (e *Engine) BatchMultResult(i BatchU64Index) []uint64 { return e.results.batchMult[i] }

// OpenToAll folds Boolean shares to their plaintext, visible to every party;
// used by a scheduler's get_boolean_value convenience operation rather than
// any Beaver protocol.
func (e *Engine) OpenToAll(shares []bool) ([]bool, error) {
	out, err := e.adapter.OpenBoolToAll(shares)
	if err != nil {
		return nil, errs.Protocol("engine.OpenToAll", "open to all", err)
	}
	return out, nil
}

// OpenU64ToAll is the arithmetic analogue of OpenToAll.
func (e *Engine) OpenU64ToAll(shares []uint64) ([]uint64, error) {
	out, err := e.adapter.OpenU64ToAll(shares)
	if err != nil {
		return nil, errs.Protocol("engine.OpenU64ToAll", "open to all", err)
	}
	return out, nil
}

// TrafficStatistics reports bytes sent/received by the engine-comm adapter.
func (e *Engine) TrafficStatistics() (sent, received uint64) {
	return e.adapter.TrafficStatistics()
}

// RevealToParty folds Boolean shares to a single recipient via the
// engine-comm adapter's open-to-party; not Beaver-style, simply a fold.
func (e *Engine) RevealToParty(party int, shares []bool) ([]bool, error) {
	out, err := e.adapter.OpenBoolToParty(party, shares)
	if err != nil {
		return nil, errs.Protocol("engine.RevealToParty", "open to party", err)
	}
	return out, nil
}

// RevealU64ToParty is the arithmetic analogue of RevealToParty.
func (e *Engine) RevealU64ToParty(party int, shares []uint64) ([]uint64, error) {
	out, err := e.adapter.OpenU64ToParty(party, shares)
	if err != nil {
		return nil, errs.Protocol("engine.RevealU64ToParty", "open to party", err)
	}
	return out, nil
}
