// Package engine implements the secret-share engine (L4): it holds the
// per-peer PRG pairs used to mask inputs, performs every free operation
// locally, and schedules non-free (Beaver) operations for batched execution
// against the engine-communication adapter.
package engine

import (
	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/tuple"
)

// prgPair is the out-bound/in-bound PRG pair for one peer: out masks our own
// inputs, in regenerates the mask the peer applied to inputs it owns.
type prgPair struct {
	out *prng.Generator
	in  *prng.Generator
}

// Engine is the L4 secret-share engine for one party.
type Engine struct {
	myID       int
	numParties int

	prgs map[int]*prgPair

	gen     tuple.Generator
	adapter *commadapter.Adapter
	log     *log.Logger

	// supportsComposite is fixed at construction (§3.3): a true composite
	// path when the generator advertises support, scalar-AND expansion
	// otherwise. Never re-checked per call.
	supportsComposite bool
	supportsInteger   bool

	pending pendingQueues
	results executionResults
}

// Seeds is the set of 128-bit seeds this party has chosen, one per peer, to
// be used as the out-bound PRG key for that peer.
type Seeds map[int]prng.Seed

// New constructs an Engine for myID among numParties, performing the
// key-exchange handshake over adapter using seeds (one chosen seed per
// peer) before returning. gen supplies Beaver tuples.
func New(myID, numParties int, seeds Seeds, adapter *commadapter.Adapter, gen tuple.Generator, logger *log.Logger) (*Engine, error) {
	if numParties < 2 {
		return nil, errs.InvalidArgumentf("engine.New", "numParties must be >= 2, got %d", numParties)
	}
	if len(seeds) != numParties-1 {
		return nil, errs.InvalidArgumentf("engine.New", "expected %d peer seeds, got %d", numParties-1, len(seeds))
	}
	if logger == nil {
		logger = log.New("engine")
	}

	inSeeds, err := adapter.ExchangeKeys(seeds)
	if err != nil {
		return nil, errs.Protocol("engine.New", "PRG key exchange", err)
	}

	prgs := make(map[int]*prgPair, len(seeds))
	for peer, outSeed := range seeds {
		prgs[peer] = &prgPair{
			out: prng.New(outSeed),
			in:  prng.New(inSeeds[peer]),
		}
	}

	e := &Engine{
		myID:              myID,
		numParties:        numParties,
		prgs:              prgs,
		gen:               gen,
		adapter:           adapter,
		log:               logger,
		supportsComposite: gen.SupportsCompositeTupleGeneration(),
		supportsInteger:   gen.SupportsIntegerTuples(),
	}
	e.pending = newPendingQueues()
	return e, nil
}

// MyID reports this engine's party id.
func (e *Engine) MyID() int { return e.myID }

// NumParties reports the total party count.
func (e *Engine) NumParties() int { return e.numParties }

// SupportsIntegerTuples reports whether the engine's tuple generator serves
// arithmetic Beaver triples; arithmetic scheduling calls are an
// InvalidArgumentError when this is false.
func (e *Engine) SupportsIntegerTuples() bool { return e.supportsInteger }

// --- input gate semantics (§4.4) ---

// SetInputBool implements set_input for the Boolean family: if ownerID is
// this party, v must be non-nil and the returned share masks it against
// every peer's out-bound PRG; otherwise the peer's in-bound PRG for ownerID
// supplies the share directly.
func (e *Engine) SetInputBool(ownerID int, v *bool) (bool, error) {
	if ownerID == e.myID {
		if v == nil {
			return false, errs.InvalidArgument("engine.SetInputBool", "owner must supply a value")
		}
		share := *v
		for _, pair := range e.prgs {
			share = share != pair.out.NextBit()
		}
		return share, nil
	}
	pair, ok := e.prgs[ownerID]
	if !ok {
		return false, errs.InvalidArgumentf("engine.SetInputBool", "unknown owner %d", ownerID)
	}
	return pair.in.NextBit(), nil
}

// SetInputBoolBatch is the batch analogue of SetInputBool. n is the batch
// size and must be supplied by every party regardless of ownership (only
// the owner also supplies v, of length n).
func (e *Engine) SetInputBoolBatch(ownerID int, v []bool, n int) ([]bool, error) {
	if ownerID == e.myID {
		if v == nil || len(v) != n {
			return nil, errs.InvalidArgumentf("engine.SetInputBoolBatch", "owner must supply a value of length %d", n)
		}
		share := append([]bool(nil), v...)
		for _, pair := range e.prgs {
			masks := pair.out.GetRandomBits(n)
			for i := range share {
				share[i] = share[i] != masks[i]
			}
		}
		return share, nil
	}
	pair, ok := e.prgs[ownerID]
	if !ok {
		return nil, errs.InvalidArgumentf("engine.SetInputBoolBatch", "unknown owner %d", ownerID)
	}
	return pair.in.GetRandomBits(n), nil
}

// SetInputU64 is the additive-sharing analogue of SetInputBool.
func (e *Engine) SetInputU64(ownerID int, v *uint64) (uint64, error) {
	if ownerID == e.myID {
		if v == nil {
			return 0, errs.InvalidArgument("engine.SetInputU64", "owner must supply a value")
		}
		share := *v
		for _, pair := range e.prgs {
			share -= pair.out.NextU64()
		}
		return share, nil
	}
	pair, ok := e.prgs[ownerID]
	if !ok {
		return 0, errs.InvalidArgumentf("engine.SetInputU64", "unknown owner %d", ownerID)
	}
	return pair.in.NextU64(), nil
}

// SetInputU64Batch is the batch analogue of SetInputU64.
func (e *Engine) SetInputU64Batch(ownerID int, v []uint64, n int) ([]uint64, error) {
	if ownerID == e.myID {
		if v == nil || len(v) != n {
			return nil, errs.InvalidArgumentf("engine.SetInputU64Batch", "owner must supply a value of length %d", n)
		}
		share := append([]uint64(nil), v...)
		for _, pair := range e.prgs {
			masks := pair.out.GetRandomU64(n)
			for i := range share {
				share[i] -= masks[i]
			}
		}
		return share, nil
	}
	pair, ok := e.prgs[ownerID]
	if !ok {
		return nil, errs.InvalidArgumentf("engine.SetInputU64Batch", "unknown owner %d", ownerID)
	}
	return pair.in.GetRandomU64(n), nil
}

// --- free operations (§4.4) ---

func (e *Engine) isParty0() bool { return e.myID == 0 }

// SymmetricXOR computes x XOR y locally; correct for any number of parties.
func (e *Engine) SymmetricXOR(x, y bool) bool { return x != y }

// AsymmetricXOR folds a public constant into one private share: only party
// 0 touches the public term, preserving the XOR-share invariant.
func (e *Engine) AsymmetricXOR(private, public bool) bool {
	if e.isParty0() {
		return private != public
	}
	return private
}

// SymmetricNOT flips the local share on every party.
func (e *Engine) SymmetricNOT(x bool) bool { return !x }

// AsymmetricNOT flips only party 0's share.
func (e *Engine) AsymmetricNOT(x bool) bool {
	if e.isParty0() {
		return !x
	}
	return x
}

// FreeAND computes the AND of a private share against a publicly known
// constant: bitwise AND of the local share, no communication required.
func (e *Engine) FreeAND(private, public bool) bool { return private && public }

// SymmetricPlus is the arithmetic mirror of SymmetricXOR.
func (e *Engine) SymmetricPlus(x, y uint64) uint64 { return x + y }

// AsymmetricPlus is the arithmetic mirror of AsymmetricXOR.
func (e *Engine) AsymmetricPlus(private, public uint64) uint64 {
	if e.isParty0() {
		return private + public
	}
	return private
}

// SymmetricNeg negates the local share on every party.
func (e *Engine) SymmetricNeg(x uint64) uint64 { return -x }

// FreeMult is the arithmetic mirror of FreeAND.
func (e *Engine) FreeMult(private, public uint64) uint64 { return private * public }
