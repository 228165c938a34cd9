package scheduler

import (
	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/engine"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/tuple"
)

// Lazy defers non-free gate levels until either a synchronous read forces
// them (Output/GetValue/ExtractShare) or the gate keeper's batching limit
// is exceeded, fusing many levels' worth of Beaver-tuple openings into as
// few roundtrips as the dependency DAG allows. Matches
// LazyScheduler.cpp's maybeExecuteGates/forceWire pacing (SPEC_FULL.md §3.2).
type Lazy struct {
	*core
}

// NewLazy constructs a Lazy scheduler over a live secret-share engine.
func NewLazy(eng *engine.Engine, maxUnexecutedGates int, logger *log.Logger) *Lazy {
	b := newEngineBackend(eng)
	return &Lazy{core: newCore(eng.MyID(), eng.NumParties(), maxUnexecutedGates, b, false, logger)}
}

// NewLazyFromParts mirrors NewEagerFromParts for the Lazy variant.
func NewLazyFromParts(myID, numParties int, seeds engine.Seeds, adapter *commadapter.Adapter, gen tuple.Generator, maxUnexecutedGates int, logger *log.Logger) (*Lazy, error) {
	eng, err := engine.New(myID, numParties, seeds, adapter, gen, logger)
	if err != nil {
		return nil, err
	}
	return NewLazy(eng, maxUnexecutedGates, logger), nil
}
