// Package commadapter lifts N-1 point-to-point transport.Agent connections
// into the collective primitives the secret-share engine needs: a key
// exchange for input-masking PRGs, and open-to-all / open-to-party folding
// of XOR (or additively) shared values.
package commadapter

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/transport"
)

// Adapter is the L1 engine-communication adapter for one party, holding
// one transport.Agent per peer.
type Adapter struct {
	myID  int
	peers map[int]transport.Agent
	ids   []int // peer ids, ascending, computed once at construction
	log   *log.Logger
}

// New constructs an Adapter for myID, given one Agent per peer id. peers
// must not contain myID.
func New(myID int, peers map[int]transport.Agent, logger *log.Logger) *Adapter {
	if _, ok := peers[myID]; ok {
		panic(errs.InvalidArgument("commadapter.New", "peers must not contain myID"))
	}
	ids := maps.Keys(peers)
	slices.Sort(ids)
	if logger == nil {
		logger = log.New("commadapter")
	}
	return &Adapter{myID: myID, peers: peers, ids: ids, log: logger}
}

// sendsFirst reports whether, for the deadlock-avoiding send/receive order,
// this party acts first (sends before receives) when talking to peer. The
// party with the larger id always sends first.
func (a *Adapter) sendsFirst(peer int) bool {
	return a.myID > peer
}

// ExchangeKeys sends keys[peer] to each peer and receives their chosen key
// in return, in ascending peer-id order.
func (a *Adapter) ExchangeKeys(keys map[int]prng.Seed) (map[int]prng.Seed, error) {
	result := make(map[int]prng.Seed, len(a.ids))
	for _, peer := range a.ids {
		key, ok := keys[peer]
		if !ok {
			return nil, errs.InvalidArgumentf("commadapter.ExchangeKeys", "missing key for peer %d", peer)
		}
		agent := a.peers[peer]

		var theirs []byte
		var err error
		if a.sendsFirst(peer) {
			err = agent.SendBytes(key[:])
			if err == nil {
				theirs, err = agent.ReceiveBytes(len(key))
			}
		} else {
			theirs, err = agent.ReceiveBytes(len(key))
			if err == nil {
				err = agent.SendBytes(key[:])
			}
		}
		if err != nil {
			return nil, errs.Protocol("commadapter.ExchangeKeys", "peer key exchange", err)
		}

		var seed prng.Seed
		copy(seed[:], theirs)
		result[peer] = seed
	}

	a.log.Debug().Int("peers", len(result)).Log("key exchange complete")
	return result, nil
}

// OpenBoolToAll reconstructs the plaintext of a vector of XOR shares: every
// peer's share is exchanged and folded by XOR into the caller's own share.
func (a *Adapter) OpenBoolToAll(shares []bool) ([]bool, error) {
	combined := append([]bool(nil), shares...)
	for _, peer := range a.ids {
		theirs, err := a.exchangeBool(peer, shares)
		if err != nil {
			return nil, err
		}
		if len(theirs) != len(shares) {
			return nil, errs.Protocol("commadapter.OpenBoolToAll", "peer returned mismatched length", nil)
		}
		for i, b := range theirs {
			combined[i] = combined[i] != b // XOR
		}
	}
	return combined, nil
}

// OpenU64ToAll is the arithmetic analogue of OpenBoolToAll: shares are
// additively combined (sum mod 2^64).
func (a *Adapter) OpenU64ToAll(shares []uint64) ([]uint64, error) {
	combined := append([]uint64(nil), shares...)
	for _, peer := range a.ids {
		theirs, err := a.exchangeU64(peer, shares)
		if err != nil {
			return nil, err
		}
		if len(theirs) != len(shares) {
			return nil, errs.Protocol("commadapter.OpenU64ToAll", "peer returned mismatched length", nil)
		}
		for i, w := range theirs {
			combined[i] += w
		}
	}
	return combined, nil
}

// OpenBoolToParty folds shares to a single recipient. If the caller is the
// recipient, it receives every peer's share and XOR-folds them with its own
// to produce the plaintext. Otherwise it sends its share and returns a
// dummy all-false vector of the same length that callers must not read.
func (a *Adapter) OpenBoolToParty(party int, shares []bool) ([]bool, error) {
	if party == a.myID {
		combined := append([]bool(nil), shares...)
		for _, peer := range a.ids {
			theirs, err := a.peers[peer].ReceiveBool(len(shares))
			if err != nil {
				return nil, errs.Protocol("commadapter.OpenBoolToParty", "receive", err)
			}
			if len(theirs) != len(shares) {
				return nil, errs.Protocol("commadapter.OpenBoolToParty", "peer returned mismatched length", nil)
			}
			for i, b := range theirs {
				combined[i] = combined[i] != b
			}
		}
		return combined, nil
	}

	if err := a.peers[party].SendBool(shares); err != nil {
		return nil, errs.Protocol("commadapter.OpenBoolToParty", "send", err)
	}
	return make([]bool, len(shares)), nil
}

// OpenU64ToParty is the arithmetic analogue of OpenBoolToParty.
func (a *Adapter) OpenU64ToParty(party int, shares []uint64) ([]uint64, error) {
	if party == a.myID {
		combined := append([]uint64(nil), shares...)
		for _, peer := range a.ids {
			theirs, err := a.peers[peer].ReceiveU64(len(shares))
			if err != nil {
				return nil, errs.Protocol("commadapter.OpenU64ToParty", "receive", err)
			}
			if len(theirs) != len(shares) {
				return nil, errs.Protocol("commadapter.OpenU64ToParty", "peer returned mismatched length", nil)
			}
			for i, w := range theirs {
				combined[i] += w
			}
		}
		return combined, nil
	}

	if err := a.peers[party].SendU64(shares); err != nil {
		return nil, errs.Protocol("commadapter.OpenU64ToParty", "send", err)
	}
	return make([]uint64, len(shares)), nil
}

func (a *Adapter) exchangeBool(peer int, shares []bool) ([]bool, error) {
	agent := a.peers[peer]
	if len(shares) == 0 {
		return nil, nil
	}
	if a.sendsFirst(peer) {
		if err := agent.SendBool(shares); err != nil {
			return nil, errs.Protocol("commadapter", "send", err)
		}
		return agent.ReceiveBool(len(shares))
	}
	theirs, err := agent.ReceiveBool(len(shares))
	if err != nil {
		return nil, errs.Protocol("commadapter", "receive", err)
	}
	if err := agent.SendBool(shares); err != nil {
		return nil, errs.Protocol("commadapter", "send", err)
	}
	return theirs, nil
}

func (a *Adapter) exchangeU64(peer int, shares []uint64) ([]uint64, error) {
	agent := a.peers[peer]
	if len(shares) == 0 {
		return nil, nil
	}
	if a.sendsFirst(peer) {
		if err := agent.SendU64(shares); err != nil {
			return nil, errs.Protocol("commadapter", "send", err)
		}
		return agent.ReceiveU64(len(shares))
	}
	theirs, err := agent.ReceiveU64(len(shares))
	if err != nil {
		return nil, errs.Protocol("commadapter", "receive", err)
	}
	if err := agent.SendU64(shares); err != nil {
		return nil, errs.Protocol("commadapter", "send", err)
	}
	return theirs, nil
}

// TrafficStatistics aggregates bytes sent/received across every peer agent.
// Each peer's counters are read concurrently via errgroup, since reading a
// counter is order-insensitive and safe to parallelize, unlike the
// protocol-ordered open operations above.
func (a *Adapter) TrafficStatistics() (sent, received uint64) {
	type stat struct{ sent, received uint64 }
	stats := make([]stat, len(a.ids))

	var g errgroup.Group
	for i, peer := range a.ids {
		i, peer := i, peer
		g.Go(func() error {
			s, r := a.peers[peer].TrafficStatistics()
			stats[i] = stat{sent: s, received: r}
			return nil
		})
	}
	_ = g.Wait() // the goroutines above never return an error

	for _, s := range stats {
		sent += s.sent
		received += s.received
	}
	return sent, received
}
