// Package gate implements the gate keeper (L6): it accumulates pending
// circuit operations into a leveled DAG (§3.3), hands levels to a scheduler
// for execution in order, and enforces the batching-limit backpressure that
// bounds how far a lazy scheduler may defer work.
package gate

// Family distinguishes which of the wire keeper's four value families a
// WireRef names, so a Gate can reference wires generically without this
// package importing package wire (which would create an import cycle, since
// wire has no reason to know about gates).
type Family uint8

const (
	FamilyBool Family = iota
	FamilyU64
	FamilyBoolBatch
	FamilyU64Batch
)

// WireRef is an opaque reference to a wire in one of the four families.
type WireRef struct {
	Family Family
	ID     uint32
}

// Kind enumerates every gate variant spec.md §3.2 names.
type Kind uint8

const (
	// Normal Boolean gates (one or two inputs, one output).
	KindInputBool Kind = iota
	KindOutputBool
	KindSymmetricXOR
	KindAsymmetricXOR
	KindSymmetricNOT
	KindAsymmetricNOT
	KindFreeAND
	KindNonFreeAND

	// Composite gates (one left input, k right inputs, k outputs).
	KindCompositeFreeAND
	KindCompositeNonFreeAND

	// Rebatching gates (no cryptographic cost).
	KindBatchUp
	KindBatchSplit

	// Arithmetic gates, symmetric to the Boolean set.
	KindInputU64
	KindOutputU64
	KindSymmetricPlus
	KindAsymmetricPlus
	KindFreeMult
	KindNonFreeMult
	KindNeg
)

// IsFree reports whether a gate of this kind requires no network
// communication to compute.
func (k Kind) IsFree() bool {
	switch k {
	case KindInputBool, KindSymmetricXOR, KindAsymmetricXOR, KindSymmetricNOT, KindAsymmetricNOT, KindFreeAND,
		KindCompositeFreeAND, KindBatchUp, KindBatchSplit,
		KindInputU64, KindSymmetricPlus, KindAsymmetricPlus, KindFreeMult, KindNeg:
		return true
	case KindOutputBool, KindNonFreeAND, KindCompositeNonFreeAND, KindOutputU64, KindNonFreeMult:
		return false
	default:
		return true
	}
}

// String names a Kind for logging.
func (k Kind) String() string {
	switch k {
	case KindInputBool:
		return "input_bool"
	case KindOutputBool:
		return "output_bool"
	case KindSymmetricXOR:
		return "symmetric_xor"
	case KindAsymmetricXOR:
		return "asymmetric_xor"
	case KindSymmetricNOT:
		return "symmetric_not"
	case KindAsymmetricNOT:
		return "asymmetric_not"
	case KindFreeAND:
		return "free_and"
	case KindNonFreeAND:
		return "non_free_and"
	case KindCompositeFreeAND:
		return "composite_free_and"
	case KindCompositeNonFreeAND:
		return "composite_non_free_and"
	case KindBatchUp:
		return "batch_up"
	case KindBatchSplit:
		return "batch_split"
	case KindInputU64:
		return "input_u64"
	case KindOutputU64:
		return "output_u64"
	case KindSymmetricPlus:
		return "symmetric_plus"
	case KindAsymmetricPlus:
		return "asymmetric_plus"
	case KindFreeMult:
		return "free_mult"
	case KindNonFreeMult:
		return "non_free_mult"
	case KindNeg:
		return "neg"
	default:
		return "unknown"
	}
}

// Gate is a pending circuit operation, deferred until its level executes.
type Gate struct {
	Kind    Kind
	Inputs  []WireRef
	Outputs []WireRef

	// DestParty is meaningful only for Output gates.
	DestParty int

	// NumberOfResults is the batch size (scalar ops: 1) or composite
	// width, used both for gate counting and to size the engine's
	// scheduled-operation slice for this gate.
	NumberOfResults int

	// ScheduledResultIndex is not set by anything in this module: the
	// scheduler core keeps the scheduled-operation tokens of a level in
	// its own slices while executing it.
	ScheduledResultIndex int
}

// IsFree reports whether g can be computed without communication.
func (g *Gate) IsFree() bool { return g.Kind.IsFree() }
