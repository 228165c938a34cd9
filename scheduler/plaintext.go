package scheduler

import "github.com/circuitmesh/mpcore/log"

// Plaintext is the single-process, no-network scheduler variant: every
// frontend call runs immediately against a bare boolean/uint64 backend.
// Used for unit-testing circuit logic in isolation from the secret-share
// and transport layers.
type Plaintext struct {
	*core
}

// NewPlaintext constructs a Plaintext scheduler. maxUnexecutedGates <= 0
// selects the default batching limit (it has no effect here beyond gate
// bookkeeping, since every gate is free to execute immediately).
func NewPlaintext(maxUnexecutedGates int, logger *log.Logger) *Plaintext {
	return &Plaintext{core: newCore(0, 1, maxUnexecutedGates, newPlaintextBackend(), true, logger)}
}
