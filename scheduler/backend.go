package scheduler

import (
	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/engine"
	"github.com/circuitmesh/mpcore/errs"
)

// backend is the computational strategy a scheduler core delegates to: the
// real secret-share engine for Eager/Lazy, or a cleartext stand-in for
// Plaintext/NetworkPlaintext. Scheduled (non-free) operations return an
// opaque int token, minted by the backend itself, later passed back to the
// matching *Result method.
type backend interface {
	InputBool(owner int, v *bool) (bool, error)
	InputBoolBatch(owner int, v []bool, n int) ([]bool, error)
	InputU64(owner int, v *uint64) (uint64, error)

	XOR(x, y bool) bool
	XORPublic(private, public bool) bool
	NOT(x bool) bool
	AND(private, public bool) bool
	Plus(x, y uint64) uint64
	PlusPublic(private, public uint64) uint64
	Neg(x uint64) uint64
	Mult(private, public uint64) uint64

	ScheduleAnd(x, y bool) int
	ScheduleBatchAnd(xs, ys []bool) int
	ScheduleCompositeAnd(x bool, ys []bool) int
	ScheduleBatchCompositeAnd(xs []bool, yss [][]bool) int
	ScheduleMult(x, y uint64) (int, error)
	Execute() error

	AndResult(tok int) bool
	BatchAndResult(tok int) []bool
	CompositeAndResult(tok int) []bool
	BatchCompositeAndResult(tok int) [][]bool
	MultResult(tok int) uint64

	RevealToParty(party int, shares []bool) ([]bool, error)
	RevealU64ToParty(party int, shares []uint64) ([]uint64, error)
	OpenToAll(shares []bool) ([]bool, error)

	TrafficStatistics() (sent, received uint64)
}

// --- engineBackend: Eager/Lazy, backed by the real secret-share engine ---

type engineBackend struct {
	eng *engine.Engine

	andToks          []engine.BoolIndex
	batchAndToks     []engine.BatchBoolIndex
	compositeToks    []engine.CompositeIndex
	batchCompToks    []engine.BatchCompositeIndex
	multToks         []engine.U64Index
}

func newEngineBackend(eng *engine.Engine) *engineBackend {
	return &engineBackend{eng: eng}
}

func (b *engineBackend) InputBool(owner int, v *bool) (bool, error) { return b.eng.SetInputBool(owner, v) }
func (b *engineBackend) InputBoolBatch(owner int, v []bool, n int) ([]bool, error) {
	return b.eng.SetInputBoolBatch(owner, v, n)
}
func (b *engineBackend) InputU64(owner int, v *uint64) (uint64, error) { return b.eng.SetInputU64(owner, v) }

func (b *engineBackend) XOR(x, y bool) bool                  { return b.eng.SymmetricXOR(x, y) }
func (b *engineBackend) XORPublic(private, public bool) bool { return b.eng.AsymmetricXOR(private, public) }
func (b *engineBackend) NOT(x bool) bool                     { return b.eng.SymmetricNOT(x) }
func (b *engineBackend) AND(private, public bool) bool       { return b.eng.FreeAND(private, public) }
func (b *engineBackend) Plus(x, y uint64) uint64              { return b.eng.SymmetricPlus(x, y) }
func (b *engineBackend) PlusPublic(private, public uint64) uint64 {
	return b.eng.AsymmetricPlus(private, public)
}
func (b *engineBackend) Neg(x uint64) uint64                    { return b.eng.SymmetricNeg(x) }
func (b *engineBackend) Mult(private, public uint64) uint64     { return b.eng.FreeMult(private, public) }

func (b *engineBackend) ScheduleAnd(x, y bool) int {
	b.andToks = append(b.andToks, b.eng.ScheduleAnd(x, y))
	return len(b.andToks) - 1
}

func (b *engineBackend) ScheduleBatchAnd(xs, ys []bool) int {
	b.batchAndToks = append(b.batchAndToks, b.eng.ScheduleBatchAnd(xs, ys))
	return len(b.batchAndToks) - 1
}

func (b *engineBackend) ScheduleCompositeAnd(x bool, ys []bool) int {
	b.compositeToks = append(b.compositeToks, b.eng.ScheduleCompositeAnd(x, ys))
	return len(b.compositeToks) - 1
}

func (b *engineBackend) ScheduleBatchCompositeAnd(xs []bool, yss [][]bool) int {
	b.batchCompToks = append(b.batchCompToks, b.eng.ScheduleBatchCompositeAnd(xs, yss))
	return len(b.batchCompToks) - 1
}

func (b *engineBackend) ScheduleMult(x, y uint64) (int, error) {
	tok, err := b.eng.ScheduleMult(x, y)
	if err != nil {
		return 0, err
	}
	b.multToks = append(b.multToks, tok)
	return len(b.multToks) - 1, nil
}

func (b *engineBackend) Execute() error {
	err := b.eng.ExecuteScheduledOperations()
	return err
}

// Callers read results immediately after Execute returns, same cycle. The
// token slices are never cleared: each token keeps the engine index it got
// when it was scheduled, so it stays valid after Execute, and the slices
// grow with the number of operations scheduled over the backend's life.
func (b *engineBackend) AndResult(tok int) bool             { return b.eng.AndResult(b.andToks[tok]) }
func (b *engineBackend) BatchAndResult(tok int) []bool      { return b.eng.BatchAndResult(b.batchAndToks[tok]) }
func (b *engineBackend) CompositeAndResult(tok int) []bool  { return b.eng.CompositeAndResult(b.compositeToks[tok]) }
func (b *engineBackend) BatchCompositeAndResult(tok int) [][]bool {
	return b.eng.BatchCompositeAndResult(b.batchCompToks[tok])
}
func (b *engineBackend) MultResult(tok int) uint64 { return b.eng.MultResult(b.multToks[tok]) }

func (b *engineBackend) RevealToParty(party int, shares []bool) ([]bool, error) {
	return b.eng.RevealToParty(party, shares)
}
func (b *engineBackend) RevealU64ToParty(party int, shares []uint64) ([]uint64, error) {
	return b.eng.RevealU64ToParty(party, shares)
}
func (b *engineBackend) OpenToAll(shares []bool) ([]bool, error) { return b.eng.OpenToAll(shares) }

func (b *engineBackend) TrafficStatistics() (sent, received uint64) { return b.eng.TrafficStatistics() }

// --- plaintextBackend: single-process, no network at all ---

type plaintextBackend struct {
	andResults       []bool
	batchAndResults  [][]bool
	compositeResults [][]bool
	batchCompResults [][][]bool
	multResults      []uint64
}

func newPlaintextBackend() *plaintextBackend { return &plaintextBackend{} }

func (b *plaintextBackend) InputBool(owner int, v *bool) (bool, error) {
	if owner != 0 {
		return false, errs.InvalidArgument("scheduler.Plaintext", "single-party scheduler only knows party 0")
	}
	if v == nil {
		return false, errs.InvalidArgument("scheduler.Plaintext", "owner must supply a value")
	}
	return *v, nil
}

func (b *plaintextBackend) InputBoolBatch(owner int, v []bool, n int) ([]bool, error) {
	if owner != 0 {
		return nil, errs.InvalidArgument("scheduler.Plaintext", "single-party scheduler only knows party 0")
	}
	if v == nil || len(v) != n {
		return nil, errs.InvalidArgumentf("scheduler.Plaintext", "owner must supply a value of length %d", n)
	}
	return append([]bool(nil), v...), nil
}

func (b *plaintextBackend) InputU64(owner int, v *uint64) (uint64, error) {
	if owner != 0 {
		return 0, errs.InvalidArgument("scheduler.Plaintext", "single-party scheduler only knows party 0")
	}
	if v == nil {
		return 0, errs.InvalidArgument("scheduler.Plaintext", "owner must supply a value")
	}
	return *v, nil
}

func (b *plaintextBackend) XOR(x, y bool) bool                  { return x != y }
func (b *plaintextBackend) XORPublic(private, public bool) bool { return private != public }
func (b *plaintextBackend) NOT(x bool) bool                     { return !x }
func (b *plaintextBackend) AND(private, public bool) bool       { return private && public }
func (b *plaintextBackend) Plus(x, y uint64) uint64              { return x + y }
func (b *plaintextBackend) PlusPublic(private, public uint64) uint64 { return private + public }
func (b *plaintextBackend) Neg(x uint64) uint64                     { return -x }
func (b *plaintextBackend) Mult(private, public uint64) uint64      { return private * public }

func (b *plaintextBackend) ScheduleAnd(x, y bool) int {
	b.andResults = append(b.andResults, x && y)
	return len(b.andResults) - 1
}

func (b *plaintextBackend) ScheduleBatchAnd(xs, ys []bool) int {
	out := make([]bool, len(xs))
	for i := range xs {
		out[i] = xs[i] && ys[i]
	}
	b.batchAndResults = append(b.batchAndResults, out)
	return len(b.batchAndResults) - 1
}

func (b *plaintextBackend) ScheduleCompositeAnd(x bool, ys []bool) int {
	out := make([]bool, len(ys))
	for i, y := range ys {
		out[i] = x && y
	}
	b.compositeResults = append(b.compositeResults, out)
	return len(b.compositeResults) - 1
}

func (b *plaintextBackend) ScheduleBatchCompositeAnd(xs []bool, yss [][]bool) int {
	out := make([][]bool, len(xs))
	for i, x := range xs {
		row := make([]bool, len(yss[i]))
		for j, y := range yss[i] {
			row[j] = x && y
		}
		out[i] = row
	}
	b.batchCompResults = append(b.batchCompResults, out)
	return len(b.batchCompResults) - 1
}

func (b *plaintextBackend) ScheduleMult(x, y uint64) (int, error) {
	b.multResults = append(b.multResults, x*y)
	return len(b.multResults) - 1, nil
}

func (b *plaintextBackend) Execute() error { return nil }

func (b *plaintextBackend) AndResult(tok int) bool                { return b.andResults[tok] }
func (b *plaintextBackend) BatchAndResult(tok int) []bool         { return b.batchAndResults[tok] }
func (b *plaintextBackend) CompositeAndResult(tok int) []bool     { return b.compositeResults[tok] }
func (b *plaintextBackend) BatchCompositeAndResult(tok int) [][]bool {
	return b.batchCompResults[tok]
}
func (b *plaintextBackend) MultResult(tok int) uint64 { return b.multResults[tok] }

func (b *plaintextBackend) RevealToParty(party int, shares []bool) ([]bool, error) {
	if party != 0 {
		return nil, errs.InvalidArgument("scheduler.Plaintext", "single-party scheduler only knows party 0")
	}
	return shares, nil
}
func (b *plaintextBackend) RevealU64ToParty(party int, shares []uint64) ([]uint64, error) {
	if party != 0 {
		return nil, errs.InvalidArgument("scheduler.Plaintext", "single-party scheduler only knows party 0")
	}
	return shares, nil
}
func (b *plaintextBackend) OpenToAll(shares []bool) ([]bool, error) { return shares, nil }

func (b *plaintextBackend) TrafficStatistics() (sent, received uint64) { return 0, 0 }

// --- networkPlaintextBackend: networked, but every "share" is the real
// plaintext replicated to every party (broadcast via an XOR/sum fold with
// every non-owner contributing the identity element) ---

type networkPlaintextBackend struct {
	myID    int
	adapter *commadapter.Adapter

	andResults       []bool
	batchAndResults  [][]bool
	compositeResults [][]bool
	batchCompResults [][][]bool
	multResults      []uint64
}

func newNetworkPlaintextBackend(myID int, adapter *commadapter.Adapter) *networkPlaintextBackend {
	return &networkPlaintextBackend{myID: myID, adapter: adapter}
}

func (b *networkPlaintextBackend) InputBool(owner int, v *bool) (bool, error) {
	contribution := false
	if owner == b.myID {
		if v == nil {
			return false, errs.InvalidArgument("scheduler.NetworkPlaintext", "owner must supply a value")
		}
		contribution = *v
	}
	opened, err := b.adapter.OpenBoolToAll([]bool{contribution})
	if err != nil {
		return false, errs.Protocol("scheduler.NetworkPlaintext", "broadcasting private input", err)
	}
	return opened[0], nil
}

func (b *networkPlaintextBackend) InputBoolBatch(owner int, v []bool, n int) ([]bool, error) {
	contribution := make([]bool, n)
	if owner == b.myID {
		if v == nil || len(v) != n {
			return nil, errs.InvalidArgumentf("scheduler.NetworkPlaintext", "owner must supply a value of length %d", n)
		}
		copy(contribution, v)
	}
	opened, err := b.adapter.OpenBoolToAll(contribution)
	if err != nil {
		return nil, errs.Protocol("scheduler.NetworkPlaintext", "broadcasting private input", err)
	}
	return opened, nil
}

func (b *networkPlaintextBackend) InputU64(owner int, v *uint64) (uint64, error) {
	var contribution uint64
	if owner == b.myID {
		if v == nil {
			return 0, errs.InvalidArgument("scheduler.NetworkPlaintext", "owner must supply a value")
		}
		contribution = *v
	}
	opened, err := b.adapter.OpenU64ToAll([]uint64{contribution})
	if err != nil {
		return 0, errs.Protocol("scheduler.NetworkPlaintext", "broadcasting private input", err)
	}
	return opened[0], nil
}

func (b *networkPlaintextBackend) XOR(x, y bool) bool                  { return x != y }
func (b *networkPlaintextBackend) XORPublic(private, public bool) bool { return private != public }
func (b *networkPlaintextBackend) NOT(x bool) bool                     { return !x }
func (b *networkPlaintextBackend) AND(private, public bool) bool       { return private && public }
func (b *networkPlaintextBackend) Plus(x, y uint64) uint64              { return x + y }
func (b *networkPlaintextBackend) PlusPublic(private, public uint64) uint64 {
	return private + public
}
func (b *networkPlaintextBackend) Neg(x uint64) uint64                { return -x }
func (b *networkPlaintextBackend) Mult(private, public uint64) uint64 { return private * public }

func (b *networkPlaintextBackend) ScheduleAnd(x, y bool) int {
	b.andResults = append(b.andResults, x && y)
	return len(b.andResults) - 1
}

func (b *networkPlaintextBackend) ScheduleBatchAnd(xs, ys []bool) int {
	out := make([]bool, len(xs))
	for i := range xs {
		out[i] = xs[i] && ys[i]
	}
	b.batchAndResults = append(b.batchAndResults, out)
	return len(b.batchAndResults) - 1
}

func (b *networkPlaintextBackend) ScheduleCompositeAnd(x bool, ys []bool) int {
	out := make([]bool, len(ys))
	for i, y := range ys {
		out[i] = x && y
	}
	b.compositeResults = append(b.compositeResults, out)
	return len(b.compositeResults) - 1
}

func (b *networkPlaintextBackend) ScheduleBatchCompositeAnd(xs []bool, yss [][]bool) int {
	out := make([][]bool, len(xs))
	for i, x := range xs {
		row := make([]bool, len(yss[i]))
		for j, y := range yss[i] {
			row[j] = x && y
		}
		out[i] = row
	}
	b.batchCompResults = append(b.batchCompResults, out)
	return len(b.batchCompResults) - 1
}

func (b *networkPlaintextBackend) ScheduleMult(x, y uint64) (int, error) {
	b.multResults = append(b.multResults, x*y)
	return len(b.multResults) - 1, nil
}

func (b *networkPlaintextBackend) Execute() error { return nil }

func (b *networkPlaintextBackend) AndResult(tok int) bool        { return b.andResults[tok] }
func (b *networkPlaintextBackend) BatchAndResult(tok int) []bool { return b.batchAndResults[tok] }
func (b *networkPlaintextBackend) CompositeAndResult(tok int) []bool {
	return b.compositeResults[tok]
}
func (b *networkPlaintextBackend) BatchCompositeAndResult(tok int) [][]bool {
	return b.batchCompResults[tok]
}
func (b *networkPlaintextBackend) MultResult(tok int) uint64 { return b.multResults[tok] }

// RevealToParty is a no-op: every party already holds the plaintext.
func (b *networkPlaintextBackend) RevealToParty(_ int, shares []bool) ([]bool, error) {
	return shares, nil
}
func (b *networkPlaintextBackend) RevealU64ToParty(_ int, shares []uint64) ([]uint64, error) {
	return shares, nil
}
func (b *networkPlaintextBackend) OpenToAll(shares []bool) ([]bool, error) { return shares, nil }

func (b *networkPlaintextBackend) TrafficStatistics() (sent, received uint64) {
	return b.adapter.TrafficStatistics()
}
