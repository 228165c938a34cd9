package scheduler

import (
	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/engine"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/tuple"
)

// Eager executes every non-free gate level as soon as it becomes available:
// one network roundtrip per level, no batching. Matches
// EagerScheduler.cpp's baseline (SPEC_FULL.md §3.2) — simplest to reason
// about, costliest in roundtrips for circuits with many small levels.
type Eager struct {
	*core
}

// NewEager constructs an Eager scheduler over a live secret-share engine.
func NewEager(eng *engine.Engine, maxUnexecutedGates int, logger *log.Logger) *Eager {
	b := newEngineBackend(eng)
	return &Eager{core: newCore(eng.MyID(), eng.NumParties(), maxUnexecutedGates, b, true, logger)}
}

// NewEagerFromParts is a convenience constructor taking the engine's raw
// dependencies, for callers that haven't already built an *engine.Engine.
func NewEagerFromParts(myID, numParties int, seeds engine.Seeds, adapter *commadapter.Adapter, gen tuple.Generator, maxUnexecutedGates int, logger *log.Logger) (*Eager, error) {
	eng, err := engine.New(myID, numParties, seeds, adapter, gen, logger)
	if err != nil {
		return nil, err
	}
	return NewEager(eng, maxUnexecutedGates, logger), nil
}
