// Package tuple defines the correlated-randomness contract the secret-share
// engine consumes from an external tuple generator (L3). This package holds
// only types and the Generator interface; no implementation of a real
// offline phase (OT, FERRET, IKNP) lives here — see package tuplegen for a
// deterministic, explicitly insecure stand-in used by tests and examples.
package tuple

// Boolean is a single party's share of a Beaver triple (a, b, c) with
// a AND b == c held globally across all shares.
type Boolean struct {
	A, B, C bool
}

// Composite is a single party's share of a width-k composite Beaver tuple:
// one left share A multiplied against k right shares B, with C the
// corresponding k output shares (A AND B[i] == C[i] globally, for each i).
type Composite struct {
	A    bool
	B, C []bool
}

// Integer is a single party's share of an arithmetic Beaver triple (a, b, c)
// with a*b == c mod 2^64 held globally across all shares.
type Integer struct {
	A, B, C uint64
}

// CompositeRequest describes one width's worth of composite tuples needed
// in a single batched request: Count tuples, each of width Width.
type CompositeRequest struct {
	Width, Count int
}

// Generator supplies correlated randomness to a secret-share engine. All
// methods may block (a real implementation performs network communication
// for its offline phase) and all are expected to be called with the
// engine's own party id already baked into the Generator at construction.
type Generator interface {
	// BooleanTuples returns n independent Beaver triples.
	BooleanTuples(n int) ([]Boolean, error)

	// IntegerTuples returns n independent arithmetic Beaver triples.
	IntegerTuples(n int) ([]Integer, error)

	// CompositeBooleanTuples returns normal-width Beaver triples (n
	// of them) together with composite tuples satisfying each entry of
	// requests, keyed by width in the returned map. Callers must only
	// invoke this when SupportsCompositeTupleGeneration reports true.
	CompositeBooleanTuples(n int, requests []CompositeRequest) ([]Boolean, map[int][]Composite, error)

	// SupportsCompositeTupleGeneration reports whether this generator can
	// serve CompositeBooleanTuples directly. When false, callers must
	// expand composite AND gates into scalar ANDs themselves.
	SupportsCompositeTupleGeneration() bool

	// SupportsIntegerTuples reports whether this generator can serve
	// IntegerTuples. When false, arithmetic operations are unavailable and
	// the engine reports InvalidArgumentError for any attempt to use them.
	SupportsIntegerTuples() bool

	// TrafficStatistics reports bytes sent/received performing the offline
	// phase, if the generator communicates over a network; a purely local
	// (e.g. trusted-dealer) generator may always return zeros.
	TrafficStatistics() (sent, received uint64)
}
