package scheduler

import (
	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/gate"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/wire"
)

// core is the executor shared by all four Scheduler variants: it owns the
// wire/gate keepers, dispatches non-free gate levels to a backend, and
// tracks which wires carry a publicly-known value (so free ops pick the
// symmetric or asymmetric formula, per SPEC_FULL.md §3.2).
type core struct {
	myID       int
	numParties int
	wires      *wire.Keeper
	gates      *gate.Keeper
	backend    backend
	eager      bool
	log        *log.Logger

	public map[WireID]bool

	outputBoolResults map[*gate.Gate][]bool
	outputU64Results  map[*gate.Gate][]uint64
}

func newCore(myID, numParties int, maxUnexecutedGates int, b backend, eager bool, logger *log.Logger) *core {
	wires := wire.NewKeeper(wire.ArenaSafe)
	return &core{
		myID:              myID,
		numParties:        numParties,
		wires:             wires,
		gates:             gate.NewKeeper(wires, maxUnexecutedGates),
		backend:           b,
		eager:             eager,
		log:               logger,
		public:            make(map[WireID]bool),
		outputBoolResults: make(map[*gate.Gate][]bool),
		outputU64Results:  make(map[*gate.Gate][]uint64),
	}
}

func (c *core) isPublic(w WireID) bool { return c.public[w] }

func (c *core) markPublic(w WireID) { c.public[w] = true }

// maybeExecuteGates is the lazy scheduler's pacing hook: flush a level only
// once the batching limit is exceeded. Eager variants flush every gate as
// soon as it's created (one level at a time, no batching), matching
// EagerScheduler.cpp's one-gate-one-roundtrip baseline from SPEC_FULL.md §3.2.
func (c *core) maybeExecuteGates() error {
	if c.eager {
		for c.gates.PendingGates() > 0 {
			if err := c.executeOneLevel(); err != nil {
				return err
			}
		}
		return nil
	}
	for c.gates.HasReachedBatchingLimit() {
		if err := c.executeOneLevel(); err != nil {
			return err
		}
	}
	return nil
}

// executeOneLevel pops the front pending level and dispatches every gate in
// it, free gates computed locally and non-free gates scheduled against the
// backend and executed with one backend Execute call for the whole level,
// followed by one reveal per destination party of the level's Output gates.
func (c *core) executeOneLevel() error {
	gates, free := c.gates.PopFirstUnexecutedLevel()
	if len(gates) == 0 {
		return nil
	}

	if free {
		for _, g := range gates {
			if err := c.computeFreeGate(g); err != nil {
				return err
			}
		}
		return nil
	}

	// Pass 1: schedule every non-free gate's operands against the backend.
	boolTok := make([]int, len(gates))
	u64Tok := make([]int, len(gates))
	compTok := make([]int, len(gates))
	for i, g := range gates {
		switch g.Kind {
		case gate.KindNonFreeAND:
			x, err := c.getBool(g.Inputs[0])
			if err != nil {
				return err
			}
			y, err := c.getBool(g.Inputs[1])
			if err != nil {
				return err
			}
			boolTok[i] = c.backend.ScheduleAnd(x, y)
		case gate.KindCompositeNonFreeAND:
			x, err := c.getBool(g.Inputs[0])
			if err != nil {
				return err
			}
			ys := make([]bool, len(g.Inputs)-1)
			for j, in := range g.Inputs[1:] {
				v, err := c.getBool(in)
				if err != nil {
					return err
				}
				ys[j] = v
			}
			compTok[i] = c.backend.ScheduleCompositeAnd(x, ys)
		case gate.KindNonFreeMult:
			x, err := c.getU64(g.Inputs[0])
			if err != nil {
				return err
			}
			y, err := c.getU64(g.Inputs[1])
			if err != nil {
				return err
			}
			tok, err := c.backend.ScheduleMult(x, y)
			if err != nil {
				return err
			}
			u64Tok[i] = tok
		case gate.KindOutputBool:
			// handled in pass 2, after Execute() resolves shares
		case gate.KindOutputU64:
			// handled in pass 2
		default:
			return errs.Protocol("scheduler.core", "unexpected non-free gate kind "+g.Kind.String(), nil)
		}
	}

	if err := c.backend.Execute(); err != nil {
		return err
	}

	// Pass 2: collect AND/mult results into their output wires, and reveal
	// Output gates to their destination party.
	revealBoolByParty := make(map[int][]int) // party -> gate indices
	revealU64ByParty := make(map[int][]int)
	for i, g := range gates {
		switch g.Kind {
		case gate.KindNonFreeAND:
			if err := c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.AndResult(boolTok[i])); err != nil {
				return err
			}
		case gate.KindCompositeNonFreeAND:
			results := c.backend.CompositeAndResult(compTok[i])
			for j, out := range g.Outputs {
				if err := c.wires.SetBool(wire.BoolID(out.ID), results[j]); err != nil {
					return err
				}
			}
		case gate.KindNonFreeMult:
			if err := c.wires.SetU64(wire.U64ID(g.Outputs[0].ID), c.backend.MultResult(u64Tok[i])); err != nil {
				return err
			}
		case gate.KindOutputBool:
			revealBoolByParty[g.DestParty] = append(revealBoolByParty[g.DestParty], i)
		case gate.KindOutputU64:
			revealU64ByParty[g.DestParty] = append(revealU64ByParty[g.DestParty], i)
		}
	}

	for party, idxs := range revealBoolByParty {
		shares := make([]bool, len(idxs))
		for j, i := range idxs {
			v, err := c.getBool(gates[i].Inputs[0])
			if err != nil {
				return err
			}
			shares[j] = v
		}
		opened, err := c.backend.RevealToParty(party, shares)
		if err != nil {
			return err
		}
		if party == c.myID {
			for j, i := range idxs {
				c.outputBoolResults[gates[i]] = []bool{opened[j]}
			}
		}
	}

	for party, idxs := range revealU64ByParty {
		shares := make([]uint64, len(idxs))
		for j, i := range idxs {
			v, err := c.getU64(gates[i].Inputs[0])
			if err != nil {
				return err
			}
			shares[j] = v
		}
		opened, err := c.backend.RevealU64ToParty(party, shares)
		if err != nil {
			return err
		}
		if party == c.myID {
			for j, i := range idxs {
				c.outputU64Results[gates[i]] = []uint64{opened[j]}
			}
		}
	}

	return nil
}

func (c *core) computeFreeGate(g *gate.Gate) error {
	switch g.Kind {
	case gate.KindInputBool, gate.KindInputU64:
		// values already allocated at creation time, nothing to do.
		return nil
	case gate.KindSymmetricXOR:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getBool(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.XOR(x, y))
	case gate.KindAsymmetricXOR:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getBool(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.XORPublic(x, y))
	case gate.KindSymmetricNOT:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		return c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.NOT(x))
	case gate.KindAsymmetricNOT:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		// flipping only party 0's share is an XOR with a public true
		return c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.XORPublic(x, true))
	case gate.KindFreeAND:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getBool(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetBool(wire.BoolID(g.Outputs[0].ID), c.backend.AND(x, y))
	case gate.KindCompositeFreeAND:
		x, err := c.getBool(g.Inputs[0])
		if err != nil {
			return err
		}
		for i, in := range g.Inputs[1:] {
			y, err := c.getBool(in)
			if err != nil {
				return err
			}
			if err := c.wires.SetBool(wire.BoolID(g.Outputs[i].ID), c.backend.AND(x, y)); err != nil {
				return err
			}
		}
		return nil
	case gate.KindBatchUp:
		vals := make([]bool, len(g.Inputs))
		for i, in := range g.Inputs {
			v, err := c.getBool(in)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return c.wires.SetBoolBatch(wire.BoolBatchID(g.Outputs[0].ID), vals)
	case gate.KindBatchSplit:
		src, err := c.getBoolBatch(g.Inputs[0])
		if err != nil {
			return err
		}
		offset := 0
		for _, out := range g.Outputs {
			n, err := c.wires.GetBoolBatch(wire.BoolBatchID(out.ID))
			if err != nil {
				return err
			}
			size := len(n)
			if err := c.wires.SetBoolBatch(wire.BoolBatchID(out.ID), src[offset:offset+size]); err != nil {
				return err
			}
			offset += size
		}
		return nil
	case gate.KindSymmetricPlus:
		x, err := c.getU64(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getU64(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetU64(wire.U64ID(g.Outputs[0].ID), c.backend.Plus(x, y))
	case gate.KindAsymmetricPlus:
		x, err := c.getU64(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getU64(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetU64(wire.U64ID(g.Outputs[0].ID), c.backend.PlusPublic(x, y))
	case gate.KindFreeMult:
		x, err := c.getU64(g.Inputs[0])
		if err != nil {
			return err
		}
		y, err := c.getU64(g.Inputs[1])
		if err != nil {
			return err
		}
		return c.wires.SetU64(wire.U64ID(g.Outputs[0].ID), c.backend.Mult(x, y))
	case gate.KindNeg:
		x, err := c.getU64(g.Inputs[0])
		if err != nil {
			return err
		}
		return c.wires.SetU64(wire.U64ID(g.Outputs[0].ID), c.backend.Neg(x))
	default:
		return errs.Protocol("scheduler.core", "unexpected free gate kind "+g.Kind.String(), nil)
	}
}

func (c *core) getBool(ref WireID) (bool, error) { return c.wires.GetBool(wire.BoolID(ref.ID)) }
func (c *core) getU64(ref WireID) (uint64, error) { return c.wires.GetU64(wire.U64ID(ref.ID)) }
func (c *core) getBoolBatch(ref WireID) ([]bool, error) {
	return c.wires.GetBoolBatch(wire.BoolBatchID(ref.ID))
}

// forceLevel flushes levels until target has been popped.
func (c *core) forceLevel(target uint32) error {
	for c.gates.FirstUnexecutedLevel() <= target {
		if c.gates.PendingGates() == 0 {
			break
		}
		if err := c.executeOneLevel(); err != nil {
			return err
		}
	}
	return nil
}

func (c *core) forceBool(ref WireID) (bool, error) {
	lvl, err := c.wires.BoolLevel(wire.BoolID(ref.ID))
	if err != nil {
		return false, err
	}
	if err := c.forceLevel(lvl); err != nil {
		return false, err
	}
	return c.wires.GetBool(wire.BoolID(ref.ID))
}

func (c *core) forceBoolBatch(ref WireID) ([]bool, error) {
	lvl, err := c.wires.BoolBatchLevel(wire.BoolBatchID(ref.ID))
	if err != nil {
		return nil, err
	}
	if err := c.forceLevel(lvl); err != nil {
		return nil, err
	}
	return c.wires.GetBoolBatch(wire.BoolBatchID(ref.ID))
}

func (c *core) forceU64(ref WireID) (uint64, error) {
	lvl, err := c.wires.U64Level(wire.U64ID(ref.ID))
	if err != nil {
		return 0, err
	}
	if err := c.forceLevel(lvl); err != nil {
		return 0, err
	}
	return c.wires.GetU64(wire.U64ID(ref.ID))
}

func (c *core) forceOutputBool(g *gate.Gate, lvl uint32) (bool, error) {
	if err := c.forceLevel(lvl); err != nil {
		return false, err
	}
	vs, ok := c.outputBoolResults[g]
	if !ok {
		return false, errs.Lifecycle("scheduler.core", "output gate did not execute")
	}
	return vs[0], nil
}

func (c *core) forceOutputU64(g *gate.Gate, lvl uint32) (uint64, error) {
	if err := c.forceLevel(lvl); err != nil {
		return 0, err
	}
	vs, ok := c.outputU64Results[g]
	if !ok {
		return 0, errs.Lifecycle("scheduler.core", "output gate did not execute")
	}
	return vs[0], nil
}

// --- Scheduler interface implementation ---

func (c *core) PrivateBooleanInput(owner int, v *bool) (WireID, error) {
	share, err := c.backend.InputBool(owner, v)
	if err != nil {
		return WireID{}, err
	}
	w := c.gates.InputBool(share)
	if err := c.maybeExecuteGates(); err != nil {
		return WireID{}, err
	}
	return w, nil
}

func (c *core) PublicBooleanInput(v bool) WireID {
	w := c.gates.InputBool(v)
	c.markPublic(w)
	return w
}

func (c *core) PrivateBooleanInputBatch(owner int, v []bool, n int) (WireID, error) {
	share, err := c.backend.InputBoolBatch(owner, v, n)
	if err != nil {
		return WireID{}, err
	}
	w := c.gates.InputBoolBatch(share)
	if err := c.maybeExecuteGates(); err != nil {
		return WireID{}, err
	}
	return w, nil
}

func (c *core) PublicBooleanInputBatch(v []bool) WireID {
	w := c.gates.InputBoolBatch(v)
	c.markPublic(w)
	return w
}

func (c *core) PrivateU64Input(owner int, v *uint64) (WireID, error) {
	share, err := c.backend.InputU64(owner, v)
	if err != nil {
		return WireID{}, err
	}
	w := c.gates.InputU64(share)
	if err := c.maybeExecuteGates(); err != nil {
		return WireID{}, err
	}
	return w, nil
}

func (c *core) PublicU64Input(v uint64) WireID {
	w := c.gates.InputU64(v)
	c.markPublic(w)
	return w
}

func (c *core) RecoverBooleanWire(share bool) WireID {
	return c.gates.InputBool(share)
}

func (c *core) RecoverBooleanWireBatch(share []bool) WireID {
	return c.gates.InputBoolBatch(share)
}

func (c *core) OpenBooleanValueToParty(w WireID, party int) (bool, error) {
	if c.isPublic(w) {
		return c.forceBool(w)
	}
	lvl := c.gates.LevelFor(false, w)
	g := c.gates.OutputBool(w, party)
	if err := c.maybeExecuteGates(); err != nil {
		return false, err
	}
	if party != c.myID {
		if err := c.forceLevel(lvl); err != nil {
			return false, err
		}
		return false, nil
	}
	return c.forceOutputBool(g, lvl)
}

func (c *core) OpenBooleanValueToPartyBatch(w WireID, party int) ([]bool, error) {
	n, err := c.wires.GetBoolBatch(wire.BoolBatchID(w.ID))
	if err != nil {
		return nil, err
	}
	if c.isPublic(w) {
		return c.forceBoolBatch(w)
	}
	lvl := c.gates.LevelFor(false, w)
	g := c.gates.OutputBoolBatch(w, party, len(n))
	if err := c.maybeExecuteGates(); err != nil {
		return nil, err
	}
	if party != c.myID {
		if err := c.forceLevel(lvl); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := c.forceLevel(lvl); err != nil {
		return nil, err
	}
	vs, ok := c.outputBoolResults[g]
	if !ok {
		return nil, errs.Lifecycle("scheduler.core", "output gate did not execute")
	}
	return vs, nil
}

func (c *core) ExtractBooleanSecretShare(w WireID) (bool, error) { return c.forceBool(w) }

func (c *core) GetBooleanValue(w WireID) (bool, error) {
	share, err := c.forceBool(w)
	if err != nil {
		return false, err
	}
	if c.isPublic(w) {
		return share, nil
	}
	opened, err := c.backend.OpenToAll([]bool{share})
	if err != nil {
		return false, err
	}
	return opened[0], nil
}

func (c *core) xorKind(left, right WireID) (gate.Kind, WireID, WireID) {
	leftPub, rightPub := c.isPublic(left), c.isPublic(right)
	switch {
	case leftPub && rightPub:
		return gate.KindSymmetricXOR, left, right
	case !leftPub && !rightPub:
		return gate.KindSymmetricXOR, left, right
	case rightPub:
		return gate.KindAsymmetricXOR, left, right
	default:
		return gate.KindAsymmetricXOR, right, left
	}
}

func (c *core) XOR(left, right WireID) (WireID, error) {
	kind, a, b := c.xorKind(left, right)
	w := c.gates.NormalBool(kind, a, b)
	if c.isPublic(left) && c.isPublic(right) {
		c.markPublic(w)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) AND(left, right WireID) (WireID, error) {
	leftPub, rightPub := c.isPublic(left), c.isPublic(right)
	var w WireID
	switch {
	case leftPub && rightPub:
		w = c.gates.NormalBool(gate.KindFreeAND, left, right)
		c.markPublic(w)
	case rightPub:
		w = c.gates.NormalBool(gate.KindFreeAND, left, right)
	case leftPub:
		w = c.gates.NormalBool(gate.KindFreeAND, right, left)
	default:
		w = c.gates.NormalBool(gate.KindNonFreeAND, left, right)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) NOT(w WireID) (WireID, error) {
	kind := gate.KindAsymmetricNOT
	if c.isPublic(w) {
		kind = gate.KindSymmetricNOT
	}
	out := c.gates.NormalBool(kind, w)
	if c.isPublic(w) {
		c.markPublic(out)
	}
	return out, c.maybeExecuteGates()
}

func (c *core) boolBatchLen(w WireID) int {
	v, err := c.wires.GetBoolBatch(wire.BoolBatchID(w.ID))
	if err != nil {
		return 0
	}
	return len(v)
}

func (c *core) XORBatch(left, right WireID) (WireID, error) {
	kind, a, b := c.xorKind(left, right)
	w := c.gates.NormalBoolBatch(kind, c.boolBatchLen(left), a, b)
	if c.isPublic(left) && c.isPublic(right) {
		c.markPublic(w)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) ANDBatch(left, right WireID) (WireID, error) {
	leftPub, rightPub := c.isPublic(left), c.isPublic(right)
	n := c.boolBatchLen(left)
	var w WireID
	switch {
	case leftPub && rightPub:
		w = c.gates.NormalBoolBatch(gate.KindFreeAND, n, left, right)
		c.markPublic(w)
	case rightPub:
		w = c.gates.NormalBoolBatch(gate.KindFreeAND, n, left, right)
	case leftPub:
		w = c.gates.NormalBoolBatch(gate.KindFreeAND, n, right, left)
	default:
		w = c.gates.NormalBoolBatch(gate.KindNonFreeAND, n, left, right)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) NOTBatch(w WireID) (WireID, error) {
	kind := gate.KindAsymmetricNOT
	if c.isPublic(w) {
		kind = gate.KindSymmetricNOT
	}
	out := c.gates.NormalBoolBatch(kind, c.boolBatchLen(w), w)
	if c.isPublic(w) {
		c.markPublic(out)
	}
	return out, c.maybeExecuteGates()
}

func (c *core) CompositeAND(left WireID, rights []WireID) ([]WireID, error) {
	kind := gate.KindCompositeNonFreeAND
	if c.isPublic(left) {
		kind = gate.KindCompositeFreeAND
	}
	outs := c.gates.CompositeBool(kind, left, rights)
	if c.isPublic(left) {
		for i, r := range rights {
			if c.isPublic(r) {
				c.markPublic(outs[i])
			}
		}
	}
	return outs, c.maybeExecuteGates()
}

// CompositeANDBatch has no dedicated batch-composite gate kind in the
// leveled DAG (gate.Kind only distinguishes scalar vs. composite, not
// batch-composite) — it degrades to CompositeAND over whatever wires it is
// given, which is correct when those wires are themselves batch wires one
// level up (BatchingUp first), just without the single-roundtrip fusion a
// native batch-composite gate would give it.
func (c *core) CompositeANDBatch(left WireID, rights []WireID) ([]WireID, error) {
	return c.CompositeAND(left, rights)
}

func (c *core) BatchingUp(srcs []WireID) (WireID, error) {
	w := c.gates.BatchUp(srcs)
	allPublic := true
	for _, s := range srcs {
		if !c.isPublic(s) {
			allPublic = false
			break
		}
	}
	if allPublic {
		c.markPublic(w)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) Unbatching(src WireID, sizes []int) ([]WireID, error) {
	outs := c.gates.Unbatching(src, sizes)
	if c.isPublic(src) {
		for _, o := range outs {
			c.markPublic(o)
		}
	}
	return outs, c.maybeExecuteGates()
}

func (c *core) PrivateU64Value(w WireID) (uint64, error) {
	share, err := c.forceU64(w)
	if err != nil {
		return 0, err
	}
	return share, nil
}

func (c *core) Plus(left, right WireID) (WireID, error) {
	leftPub, rightPub := c.isPublic(left), c.isPublic(right)
	var kind gate.Kind
	var a, b WireID
	switch {
	case leftPub && rightPub, !leftPub && !rightPub:
		kind, a, b = gate.KindSymmetricPlus, left, right
	case rightPub:
		kind, a, b = gate.KindAsymmetricPlus, left, right
	default:
		kind, a, b = gate.KindAsymmetricPlus, right, left
	}
	w := c.gates.NormalU64(kind, a, b)
	if leftPub && rightPub {
		c.markPublic(w)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) Mult(left, right WireID) (WireID, error) {
	leftPub, rightPub := c.isPublic(left), c.isPublic(right)
	var w WireID
	switch {
	case leftPub && rightPub:
		w = c.gates.NormalU64(gate.KindFreeMult, left, right)
		c.markPublic(w)
	case rightPub:
		w = c.gates.NormalU64(gate.KindFreeMult, left, right)
	case leftPub:
		w = c.gates.NormalU64(gate.KindFreeMult, right, left)
	default:
		w = c.gates.NormalU64(gate.KindNonFreeMult, left, right)
	}
	return w, c.maybeExecuteGates()
}

func (c *core) Neg(w WireID) (WireID, error) {
	out := c.gates.NormalU64(gate.KindNeg, w)
	if c.isPublic(w) {
		c.markPublic(out)
	}
	return out, c.maybeExecuteGates()
}

func (c *core) OpenU64ValueToParty(w WireID, party int) (uint64, error) {
	if c.isPublic(w) {
		return c.forceU64(w)
	}
	lvl := c.gates.LevelFor(false, w)
	g := c.gates.OutputU64(w, party)
	if err := c.maybeExecuteGates(); err != nil {
		return 0, err
	}
	if party != c.myID {
		if err := c.forceLevel(lvl); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return c.forceOutputU64(g, lvl)
}

func (c *core) IncreaseRefCount(w WireID) error {
	switch w.Family {
	case gate.FamilyBool:
		return c.wires.IncBoolRef(wire.BoolID(w.ID))
	case gate.FamilyU64:
		return c.wires.IncU64Ref(wire.U64ID(w.ID))
	case gate.FamilyBoolBatch:
		return c.wires.IncBoolBatchRef(wire.BoolBatchID(w.ID))
	case gate.FamilyU64Batch:
		return c.wires.IncU64BatchRef(wire.U64BatchID(w.ID))
	default:
		return errs.InvalidArgument("scheduler.core", "unknown wire family")
	}
}

func (c *core) DecreaseRefCount(w WireID) error {
	switch w.Family {
	case gate.FamilyBool:
		return c.wires.DecBoolRef(wire.BoolID(w.ID))
	case gate.FamilyU64:
		return c.wires.DecU64Ref(wire.U64ID(w.ID))
	case gate.FamilyBoolBatch:
		return c.wires.DecBoolBatchRef(wire.BoolBatchID(w.ID))
	case gate.FamilyU64Batch:
		return c.wires.DecU64BatchRef(wire.U64BatchID(w.ID))
	default:
		return errs.InvalidArgument("scheduler.core", "unknown wire family")
	}
}

func (c *core) TrafficStatistics() (sent, received uint64) { return c.backend.TrafficStatistics() }

func (c *core) GateStatistics() (nonFree, free uint64) { return c.gates.GateStatistics() }

func (c *core) WireStatistics() (allocated, deallocated uint64) { return c.wires.Stats() }
