// Package scheduler implements the four scheduler variants (L7) that are
// the public surface of the core: Plaintext, NetworkPlaintext, Eager, and
// Lazy all implement the same Scheduler interface, differing only in how
// private inputs are represented (secret-shared vs. broadcast cleartext vs.
// in-process) and when non-free gate levels are forced to execute.
package scheduler

import (
	"github.com/circuitmesh/mpcore/gate"
)

// WireID is an opaque wire handle, identical in shape to the gate keeper's
// internal WireRef: frontends never construct one directly except by
// recovering a previously extracted share.
type WireID = gate.WireRef

// Scheduler is the public surface every variant implements, matching
// spec.md §4.7's operation table.
type Scheduler interface {
	// Input
	PrivateBooleanInput(owner int, v *bool) (WireID, error)
	PublicBooleanInput(v bool) WireID
	PrivateBooleanInputBatch(owner int, v []bool, n int) (WireID, error)
	PublicBooleanInputBatch(v []bool) WireID
	PrivateU64Input(owner int, v *uint64) (WireID, error)
	PublicU64Input(v uint64) WireID

	// Recovery
	RecoverBooleanWire(share bool) WireID
	RecoverBooleanWireBatch(share []bool) WireID

	// Output
	OpenBooleanValueToParty(w WireID, party int) (bool, error)
	OpenBooleanValueToPartyBatch(w WireID, party int) ([]bool, error)
	ExtractBooleanSecretShare(w WireID) (bool, error)
	GetBooleanValue(w WireID) (bool, error)

	// Boolean ops (scalar)
	XOR(left, right WireID) (WireID, error)
	AND(left, right WireID) (WireID, error)
	NOT(w WireID) (WireID, error)

	// Boolean ops (batch)
	XORBatch(left, right WireID) (WireID, error)
	ANDBatch(left, right WireID) (WireID, error)
	NOTBatch(w WireID) (WireID, error)

	// Composite
	CompositeAND(left WireID, rights []WireID) ([]WireID, error)
	CompositeANDBatch(left WireID, rights []WireID) ([]WireID, error)

	// Rebatch
	BatchingUp(srcs []WireID) (WireID, error)
	Unbatching(src WireID, sizes []int) ([]WireID, error)

	// Arithmetic (optional)
	PrivateU64Value(w WireID) (uint64, error)
	Plus(left, right WireID) (WireID, error)
	Mult(left, right WireID) (WireID, error)
	Neg(w WireID) (WireID, error)
	OpenU64ValueToParty(w WireID, party int) (uint64, error)

	// Lifetime
	IncreaseRefCount(w WireID) error
	DecreaseRefCount(w WireID) error

	// Telemetry
	TrafficStatistics() (sent, received uint64)
	GateStatistics() (nonFree, free uint64)
	WireStatistics() (allocated, deallocated uint64)
}

var _ Scheduler = (*Plaintext)(nil)
var _ Scheduler = (*NetworkPlaintext)(nil)
var _ Scheduler = (*Eager)(nil)
var _ Scheduler = (*Lazy)(nil)
