package metrics

// This file holds the handful of poll helpers that wire the four counter
// sources named in the surface spec into a Recorder, without metrics
// importing transport/commadapter/gate/wire (and risking an import cycle
// back into this package): callers pass the subsystem's own stats method
// as a func value, e.g.:
//
//	metrics.PollTrafficStatistics(rec, adapter.TrafficStatistics)
//	metrics.PollGateStatistics(rec, gateKeeper.GateStatistics)
//	metrics.PollWireStatistics(rec, wireKeeper.Stats)

// PollTrafficStatistics mirrors a transport.Agent's or commadapter.Adapter's
// TrafficStatistics() into rec's bytes_sent/bytes_received counters.
func PollTrafficStatistics(rec *Recorder, stats func() (sent, received uint64)) {
	sent, received := stats()
	rec.Set("bytes_sent", sent)
	rec.Set("bytes_received", received)
}

// PollGateStatistics mirrors a gate.Keeper's GateStatistics() into rec's
// non_free_gates/free_gates counters.
func PollGateStatistics(rec *Recorder, stats func() (nonFree, free uint64)) {
	nonFree, free := stats()
	rec.Set("non_free_gates", nonFree)
	rec.Set("free_gates", free)
}

// PollWireStatistics mirrors a wire.Keeper's Stats() (or any one of its
// per-family *Stats methods) into rec's wires_allocated/wires_deallocated
// counters.
func PollWireStatistics(rec *Recorder, stats func() (allocated, deallocated uint64)) {
	allocated, deallocated := stats()
	rec.Set("wires_allocated", allocated)
	rec.Set("wires_deallocated", deallocated)
}
