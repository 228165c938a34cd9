// Package wire implements the wire keeper (L5): the arena-backed store of
// wire values, first-available-levels, and reference counts behind the
// four value families a circuit can hold (scalar bool, scalar u64, batch
// bool, batch u64).
package wire

// BoolID identifies a scalar Boolean wire.
type BoolID uint32

// U64ID identifies a scalar arithmetic (u64) wire.
type U64ID uint32

// BoolBatchID identifies a batch-of-bool wire.
type BoolBatchID uint32

// U64BatchID identifies a batch-of-u64 wire.
type U64BatchID uint32
