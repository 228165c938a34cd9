// Package tuplegen implements an insecure, deterministic "trusted dealer"
// tuple.Generator: every party constructs its own *Dealer from the same
// master seed and party index, and each independently recomputes the full
// per-tuple share table from that seed rather than receiving shares over a
// network. That is exactly why it is insecure — any one party holds enough
// information to reconstruct every other party's share — and exactly why it
// is deterministic and reproducible, which is what makes it useful for
// tests, examples, and local multi-process demos where a real offline
// phase (OT, FERRET, IKNP) would be overkill.
package tuplegen

import (
	"context"
	"crypto/sha256"

	"github.com/joeycumines/go-microbatch"

	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/tuple"
)

var _ tuple.Generator = (*Dealer)(nil)

// MasterSeed is the single piece of shared state every party's Dealer must
// be constructed from; in a real deployment it is distributed out of band
// (e.g. alongside the PRG key-exchange material), the same way a real
// trusted dealer's key would be.
type MasterSeed [32]byte

const (
	tagBoolPlainA byte = iota
	tagBoolPlainB
	tagBoolShareA
	tagBoolShareB
	tagBoolShareC
	tagIntPlainA
	tagIntPlainB
	tagIntShareA
	tagIntShareB
	tagIntShareC
	tagCompositePlainA
	tagCompositePlainB
	tagCompositeShareA
	tagCompositeShareB
	tagCompositeShareC
)

func deriveSeed(master MasterSeed, tag byte, width int) prng.Seed {
	h := sha256.New()
	h.Write(master[:])
	h.Write([]byte{tag})
	// width folds into the digest for composite-only tags, giving every
	// width its own independent stream; it is ignored (always 0) for the
	// scalar tags above.
	h.Write([]byte{byte(width), byte(width >> 8)})
	sum := h.Sum(nil)
	var s prng.Seed
	copy(s[:], sum[:16])
	return s
}

// boolJob is a BooleanTuples request batched through booleanBatcher.
type boolJob struct {
	n      int
	result []tuple.Boolean
	err    error
}

type intJob struct {
	n      int
	result []tuple.Integer
	err    error
}

// Dealer is a tuple.Generator backed by deterministic, regenerable streams
// derived from a MasterSeed. Concurrent BooleanTuples and IntegerTuples
// callers within one process are coalesced by an internal microbatch.Batcher
// so the scalar PRG streams only ever advance from one goroutine at a time;
// CompositeBooleanTuples advances the composite streams on the caller's
// goroutine.
type Dealer struct {
	myID       int
	numParties int
	supportsInt,
	supportsComposite bool

	planBoolA, planBoolB                   *prng.Generator
	shareBoolA, shareBoolB, shareBoolC      *prng.Generator
	planIntA, planIntB                     *prng.Generator
	shareIntA, shareIntB, shareIntC         *prng.Generator

	compositeStreams map[int]*compositeWidthStreams
	master           MasterSeed

	boolBatcher *microbatch.Batcher[*boolJob]
	intBatcher  *microbatch.Batcher[*intJob]
}

type compositeWidthStreams struct {
	planA, planB             *prng.Generator
	shareA, shareB, shareC   *prng.Generator
}

// Config controls which correlated-randomness capabilities a Dealer
// advertises, and its internal batching knobs.
type Config struct {
	SupportsIntegerTuples            bool
	SupportsCompositeTupleGeneration bool

	// MaxBatchSize tunes the internal microbatch.Batcher; zero selects its
	// own default.
	MaxBatchSize int
}

// New constructs a Dealer for party myID out of numParties, all of which
// must share the same master seed to agree on dealt tuples.
func New(myID, numParties int, master MasterSeed, cfg Config) (*Dealer, error) {
	if numParties < 2 {
		return nil, errs.InvalidArgumentf("tuplegen.New", "numParties must be >= 2, got %d", numParties)
	}
	if myID < 0 || myID >= numParties {
		return nil, errs.InvalidArgumentf("tuplegen.New", "myID %d out of range [0,%d)", myID, numParties)
	}

	d := &Dealer{
		myID:              myID,
		numParties:        numParties,
		supportsInt:       cfg.SupportsIntegerTuples,
		supportsComposite: cfg.SupportsCompositeTupleGeneration,
		master:            master,
		planBoolA:         prng.New(deriveSeed(master, tagBoolPlainA, 0)),
		planBoolB:         prng.New(deriveSeed(master, tagBoolPlainB, 0)),
		shareBoolA:        prng.New(deriveSeed(master, tagBoolShareA, 0)),
		shareBoolB:        prng.New(deriveSeed(master, tagBoolShareB, 0)),
		shareBoolC:        prng.New(deriveSeed(master, tagBoolShareC, 0)),
		planIntA:          prng.New(deriveSeed(master, tagIntPlainA, 0)),
		planIntB:          prng.New(deriveSeed(master, tagIntPlainB, 0)),
		shareIntA:         prng.New(deriveSeed(master, tagIntShareA, 0)),
		shareIntB:         prng.New(deriveSeed(master, tagIntShareB, 0)),
		shareIntC:         prng.New(deriveSeed(master, tagIntShareC, 0)),
		compositeStreams:  make(map[int]*compositeWidthStreams),
	}

	batchCfg := &microbatch.BatcherConfig{MaxSize: cfg.MaxBatchSize}
	d.boolBatcher = microbatch.NewBatcher(batchCfg, d.processBoolBatch)
	d.intBatcher = microbatch.NewBatcher(batchCfg, d.processIntBatch)

	return d, nil
}

func (d *Dealer) widthStreams(width int) *compositeWidthStreams {
	if s, ok := d.compositeStreams[width]; ok {
		return s
	}
	s := &compositeWidthStreams{
		planA:  prng.New(deriveSeed(d.master, tagCompositePlainA, width)),
		planB:  prng.New(deriveSeed(d.master, tagCompositePlainB, width)),
		shareA: prng.New(deriveSeed(d.master, tagCompositeShareA, width)),
		shareB: prng.New(deriveSeed(d.master, tagCompositeShareB, width)),
		shareC: prng.New(deriveSeed(d.master, tagCompositeShareC, width)),
	}
	d.compositeStreams[width] = s
	return s
}

// splitBit deals a into numParties XOR shares drawn from shareStream,
// returning only this Dealer's own entry; every party replays the same
// (numParties-1) draws and the same residual computation; only the row
// index kept differs per party.
func (d *Dealer) splitBit(a bool, shareStream *prng.Generator) bool {
	acc := false
	var mine bool
	for p := 0; p < d.numParties-1; p++ {
		s := shareStream.NextBit()
		if p == d.myID {
			mine = s
		}
		acc = acc != s
	}
	residual := acc != a
	if d.myID == d.numParties-1 {
		mine = residual
	}
	return mine
}

func (d *Dealer) splitU64(a uint64, shareStream *prng.Generator) uint64 {
	var acc uint64
	var mine uint64
	for p := 0; p < d.numParties-1; p++ {
		s := shareStream.NextU64()
		if p == d.myID {
			mine = s
		}
		acc += s
	}
	residual := a - acc
	if d.myID == d.numParties-1 {
		mine = residual
	}
	return mine
}

func (d *Dealer) dealBooleanTuple() tuple.Boolean {
	a := d.planBoolA.NextBit()
	b := d.planBoolB.NextBit()
	c := a && b
	return tuple.Boolean{
		A: d.splitBit(a, d.shareBoolA),
		B: d.splitBit(b, d.shareBoolB),
		C: d.splitBit(c, d.shareBoolC),
	}
}

func (d *Dealer) dealIntegerTuple() tuple.Integer {
	a := d.planIntA.NextU64()
	b := d.planIntB.NextU64()
	c := a * b
	return tuple.Integer{
		A: d.splitU64(a, d.shareIntA),
		B: d.splitU64(b, d.shareIntB),
		C: d.splitU64(c, d.shareIntC),
	}
}

func (d *Dealer) dealCompositeTuple(width int) tuple.Composite {
	s := d.widthStreams(width)
	a := s.planA.NextBit()
	bs := make([]bool, width)
	cs := make([]bool, width)
	for w := 0; w < width; w++ {
		b := s.planB.NextBit()
		bs[w] = d.splitBit(b, s.shareB)
		cs[w] = d.splitBit(a && b, s.shareC)
	}
	return tuple.Composite{
		A: d.splitBit(a, s.shareA),
		B: bs,
		C: cs,
	}
}

func (d *Dealer) processBoolBatch(_ context.Context, jobs []*boolJob) error {
	for _, j := range jobs {
		out := make([]tuple.Boolean, j.n)
		for i := range out {
			out[i] = d.dealBooleanTuple()
		}
		j.result = out
	}
	return nil
}

func (d *Dealer) processIntBatch(_ context.Context, jobs []*intJob) error {
	for _, j := range jobs {
		out := make([]tuple.Integer, j.n)
		for i := range out {
			out[i] = d.dealIntegerTuple()
		}
		j.result = out
	}
	return nil
}

// BooleanTuples deals n independent Beaver triples, coalescing concurrent
// callers through the internal batcher so the PRG streams only ever
// advance from the batcher's own goroutine.
func (d *Dealer) BooleanTuples(n int) ([]tuple.Boolean, error) {
	job := &boolJob{n: n}
	res, err := d.boolBatcher.Submit(context.Background(), job)
	if err != nil {
		return nil, errs.Protocol("tuplegen.Dealer.BooleanTuples", "submitting batch job", err)
	}
	if err := res.Wait(context.Background()); err != nil {
		return nil, errs.Protocol("tuplegen.Dealer.BooleanTuples", "waiting for batch", err)
	}
	return job.result, job.err
}

// IntegerTuples is the arithmetic analogue of BooleanTuples.
func (d *Dealer) IntegerTuples(n int) ([]tuple.Integer, error) {
	if !d.supportsInt {
		return nil, errs.InvalidArgument("tuplegen.Dealer.IntegerTuples", "dealer not configured for integer tuples")
	}
	job := &intJob{n: n}
	res, err := d.intBatcher.Submit(context.Background(), job)
	if err != nil {
		return nil, errs.Protocol("tuplegen.Dealer.IntegerTuples", "submitting batch job", err)
	}
	if err := res.Wait(context.Background()); err != nil {
		return nil, errs.Protocol("tuplegen.Dealer.IntegerTuples", "waiting for batch", err)
	}
	return job.result, job.err
}

// CompositeBooleanTuples deals n normal-width triples plus, for each
// request, Count composite tuples of Width — computed directly, not
// through the microbatch layer, since composite width varies per call and
// gains little from coalescing.
func (d *Dealer) CompositeBooleanTuples(n int, requests []tuple.CompositeRequest) ([]tuple.Boolean, map[int][]tuple.Composite, error) {
	if !d.supportsComposite {
		return nil, nil, errs.InvalidArgument("tuplegen.Dealer.CompositeBooleanTuples", "dealer not configured for composite generation")
	}
	normal, err := d.BooleanTuples(n)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[int][]tuple.Composite, len(requests))
	for _, req := range requests {
		ts := make([]tuple.Composite, req.Count)
		for i := range ts {
			ts[i] = d.dealCompositeTuple(req.Width)
		}
		out[req.Width] = ts
	}
	return normal, out, nil
}

// Close releases the Dealer's internal batchers; safe to call once a
// Dealer will no longer be used.
func (d *Dealer) Close() error {
	_ = d.boolBatcher.Close()
	_ = d.intBatcher.Close()
	return nil
}

// SupportsCompositeTupleGeneration reports whether this Dealer serves
// CompositeBooleanTuples directly (configurable: tests exercise both the
// native path and the engine's scalar-AND fallback against the same
// Dealer type).
func (d *Dealer) SupportsCompositeTupleGeneration() bool { return d.supportsComposite }

// SupportsIntegerTuples reports whether this Dealer deals arithmetic
// triples.
func (d *Dealer) SupportsIntegerTuples() bool { return d.supportsInt }

// TrafficStatistics is always zero: dealing is purely local computation
// against a pre-shared seed, never a network round trip.
func (d *Dealer) TrafficStatistics() (sent, received uint64) { return 0, 0 }
