// Package metrics provides a small, purely observational counter surface:
// a Collector owns a set of named Recorders, each of which snapshots
// cumulative uint64 counters and, optionally, an instantaneous rate backed
// by internal/ratewindow. Nothing in this package can fail a computation —
// every method either returns a value or is a no-op.
package metrics

import (
	"sync"
	"time"

	"github.com/circuitmesh/mpcore/internal/ratewindow"
)

// Recorder accumulates named uint64 counters under one subsystem (a
// transport peer, a commadapter, a gate keeper, a wire keeper). It is safe
// for concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	counters map[string]uint64
	limiter  *ratewindow.Limiter
}

func newRecorder(rates map[time.Duration]int) *Recorder {
	var l *ratewindow.Limiter
	if len(rates) > 0 {
		l = ratewindow.NewLimiter(rates)
	}
	return &Recorder{counters: make(map[string]uint64), limiter: l}
}

// Add increments counter by delta, treating the call itself as one event
// for rate-tracking purposes (one Add call per observed batch, not per
// unit of delta — a recorder tracking bytes_sent sees one event per write,
// not one per byte).
func (r *Recorder) Add(counter string, delta uint64) {
	r.mu.Lock()
	r.counters[counter] += delta
	r.mu.Unlock()
	if r.limiter != nil {
		r.limiter.Allow(counter)
	}
}

// Set overwrites counter with value directly. Subsystems like
// commadapter.Adapter and gate.Keeper already track their own cumulative
// totals, so the recorder mirrors them instead of re-summing deltas.
func (r *Recorder) Set(counter string, value uint64) {
	r.mu.Lock()
	prev := r.counters[counter]
	r.counters[counter] = value
	r.mu.Unlock()
	if r.limiter != nil && value > prev {
		r.limiter.Allow(counter)
	}
}

// Snapshot returns a copy of the recorder's current counters.
func (r *Recorder) Snapshot() map[string]uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]uint64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// Rate reports the number of Add calls, and Set calls that raised the
// value, registered against counter within the widest window this Recorder
// was configured with; calls made while a window's limit was reached are
// not registered. It is zero for a Recorder with no rate tracking configured.
func (r *Recorder) Rate(counter string) int {
	if r.limiter == nil {
		return 0
	}
	return r.limiter.Count(counter)
}

// Collector aggregates named Recorders under a common prefix (typically a
// component name like "party" or "engine").
type Collector struct {
	prefix string

	mu        sync.Mutex
	recorders map[string]*Recorder
}

// NewCollector constructs an empty Collector. prefix is used only to
// namespace Snapshot's keys; an empty prefix is fine for a process with a
// single Collector.
func NewCollector(prefix string) *Collector {
	return &Collector{prefix: prefix, recorders: make(map[string]*Recorder)}
}

// Recorder returns the named Recorder, creating it (with the given rate
// windows) on first use. Subsequent calls with the same name ignore rates
// and return the existing Recorder.
func (c *Collector) Recorder(name string, rates map[time.Duration]int) *Recorder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.recorders[name]; ok {
		return r
	}
	r := newRecorder(rates)
	c.recorders[name] = r
	return r
}

// Snapshot returns every recorder's counters, keyed by "prefix.name".
func (c *Collector) Snapshot() map[string]map[string]uint64 {
	c.mu.Lock()
	names := make([]string, 0, len(c.recorders))
	recs := make([]*Recorder, 0, len(c.recorders))
	for n, r := range c.recorders {
		names = append(names, n)
		recs = append(recs, r)
	}
	c.mu.Unlock()

	out := make(map[string]map[string]uint64, len(names))
	for i, n := range names {
		key := n
		if c.prefix != "" {
			key = c.prefix + "." + n
		}
		out[key] = recs[i].Snapshot()
	}
	return out
}
