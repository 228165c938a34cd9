package scheduler

import (
	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/log"
)

// NetworkPlaintext is the networked, insecure scheduler variant: private
// inputs are broadcast to every party in the clear (no secret sharing), and
// every gate — including AND — is computed locally once the operands are
// known. Used to validate a circuit's wiring and party-to-party traffic
// shape without paying for Beaver-tuple generation.
type NetworkPlaintext struct {
	*core
}

// NewNetworkPlaintext constructs a NetworkPlaintext scheduler over an
// already-keyed adapter (no PRG seed exchange is needed: nothing here is
// secret).
func NewNetworkPlaintext(myID, numParties int, adapter *commadapter.Adapter, maxUnexecutedGates int, logger *log.Logger) *NetworkPlaintext {
	b := newNetworkPlaintextBackend(myID, adapter)
	return &NetworkPlaintext{core: newCore(myID, numParties, maxUnexecutedGates, b, true, logger)}
}
