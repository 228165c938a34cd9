// Command party is the process entrypoint for one participant in an
// mpcore computation: it parses a flag-driven Config, dials/accepts a TCP
// connection to every peer, and wires transport -> commadapter -> engine
// (or a network-plaintext/plaintext stand-in) -> a chosen scheduler
// variant. It installs exactly one scheduler for the process's lifetime —
// there is no runtime scheduler swap.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/circuitmesh/mpcore/commadapter"
	"github.com/circuitmesh/mpcore/engine"
	"github.com/circuitmesh/mpcore/errs"
	"github.com/circuitmesh/mpcore/log"
	"github.com/circuitmesh/mpcore/prng"
	"github.com/circuitmesh/mpcore/scheduler"
	"github.com/circuitmesh/mpcore/transport"
	"github.com/circuitmesh/mpcore/tuplegen"
)

// Config is the one typed record every flag is parsed into; no config
// library exists anywhere in the retrieval pack this module was learned
// from, so this is hand-rolled against the stdlib flag package rather than
// following an ecosystem convention.
type Config struct {
	PartyID    int
	NumParties int
	// Peers maps every party id (including PartyID) to its dial/listen
	// address. The party with the smaller id listens for a peer's
	// connection; the party with the larger id dials it, so there is
	// exactly one TCP connection per unordered pair. This is independent of
	// commadapter's own "larger id sends first" convention, which governs
	// message order over an already-established connection, not which side
	// listens.
	Peers map[int]transport.Address

	TLS transport.TLSConfig

	Scheduler          string // "plaintext" | "networkplaintext" | "eager" | "lazy"
	MaxUnexecutedGates int

	MasterSeedHex         string
	SupportsIntegerTuples bool

	LogLevel string
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("party", flag.ContinueOnError)

	var cfg Config
	var peersFlag string
	fs.IntVar(&cfg.PartyID, "id", 0, "this party's id")
	fs.IntVar(&cfg.NumParties, "parties", 2, "total number of parties")
	fs.StringVar(&peersFlag, "peer-addrs", "", "comma-separated id=host:port for every party, including this one")

	fs.BoolVar(&cfg.TLS.Enabled, "tls", false, "enable TLS between parties")
	fs.StringVar(&cfg.TLS.CertFile, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&cfg.TLS.KeyFile, "tls-key", "", "TLS private key file")
	fs.StringVar(&cfg.TLS.PassphraseFile, "tls-key-passphrase-file", "", "file holding the TLS key's decryption passphrase")
	fs.StringVar(&cfg.TLS.TrustedCAFile, "tls-ca", "", "trusted CA file for verifying peer certificates")

	fs.StringVar(&cfg.Scheduler, "scheduler", "eager", "scheduler variant: plaintext|networkplaintext|eager|lazy")
	fs.IntVar(&cfg.MaxUnexecutedGates, "max-unexecuted-gates", 0, "batching limit for eager/lazy schedulers (0 = scheduler default)")

	fs.StringVar(&cfg.MasterSeedHex, "dealer-master-seed", "", "hex-encoded 32-byte seed shared by every party's insecure trusted-dealer tuple generator")
	fs.BoolVar(&cfg.SupportsIntegerTuples, "supports-integer-tuples", false, "deal arithmetic (integer) Beaver triples in addition to boolean ones")

	fs.StringVar(&cfg.LogLevel, "log-level", "info", "debug|info|warn|error|disabled")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Peers = make(map[int]transport.Address)
	if peersFlag != "" {
		for _, entry := range strings.Split(peersFlag, ",") {
			idStr, addr, ok := strings.Cut(entry, "=")
			if !ok {
				return Config{}, errs.InvalidArgumentf("party.parseFlags", "malformed -peer-addrs entry %q, want id=host:port", entry)
			}
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return Config{}, errs.InvalidArgumentf("party.parseFlags", "malformed peer id in %q: %v", entry, err)
			}
			host, portStr, err := net.SplitHostPort(addr)
			if err != nil {
				return Config{}, errs.InvalidArgumentf("party.parseFlags", "malformed peer address in %q: %v", entry, err)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errs.InvalidArgumentf("party.parseFlags", "malformed peer port in %q: %v", entry, err)
			}
			cfg.Peers[id] = transport.Address{Host: host, Port: port}
		}
	}

	return cfg, nil
}

func parseLogLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarning, nil
	case "error":
		return log.LevelError, nil
	case "disabled":
		return log.LevelDisabled, nil
	default:
		return 0, errs.InvalidArgumentf("party.parseLogLevel", "unrecognized log level %q", s)
	}
}

// connectPeers establishes one transport.Agent per peer named in
// cfg.Peers, using the lower-id-listens/higher-id-dials convention. It
// blocks until every connection is up.
func connectPeers(cfg Config, logger *log.Logger) (map[int]transport.Agent, error) {
	self, ok := cfg.Peers[cfg.PartyID]
	if !ok {
		return nil, errs.InvalidArgumentf("party.connectPeers", "no address given for this party's own id %d", cfg.PartyID)
	}

	var listenFor []int
	for id := range cfg.Peers {
		if id > cfg.PartyID {
			listenFor = append(listenFor, id)
		}
	}

	agents := make(map[int]transport.Agent, len(cfg.Peers)-1)

	var ln net.Listener
	if len(listenFor) > 0 {
		var err error
		ln, err = net.Listen("tcp", self.String())
		if err != nil {
			return nil, errs.Protocol("party.connectPeers", "listen", err)
		}
		defer ln.Close()
	}

	for range listenFor {
		conn, err := ln.Accept()
		if err != nil {
			return nil, errs.Protocol("party.connectPeers", "accept", err)
		}
		agent, err := transport.AcceptConn(conn, cfg.TLS)
		if err != nil {
			return nil, errs.Protocol("party.connectPeers", "wrap accepted connection", err)
		}
		// The peer that dialed us sends its id first so we know which
		// listenFor slot this connection fills.
		idBytes, err := agent.ReceiveBytes(2)
		if err != nil {
			return nil, errs.Protocol("party.connectPeers", "receive peer handshake", err)
		}
		peerID := int(idBytes[0])<<8 | int(idBytes[1])
		agents[peerID] = agent
		logger.Info().Int("peer", peerID).Log("accepted connection")
	}

	for id, addr := range cfg.Peers {
		if id >= cfg.PartyID {
			continue
		}
		agent, err := transport.DialConn(addr, cfg.TLS)
		if err != nil {
			return nil, errs.Protocol("party.connectPeers", "dial peer", err)
		}
		handshake := make([]byte, 2)
		handshake[0] = byte(cfg.PartyID >> 8)
		handshake[1] = byte(cfg.PartyID)
		if err := agent.SendBytes(handshake); err != nil {
			return nil, errs.Protocol("party.connectPeers", "send peer handshake", err)
		}
		agents[id] = agent
		logger.Info().Int("peer", id).Log("dialed connection")
	}

	return agents, nil
}

func buildScheduler(cfg Config, adapter *commadapter.Adapter, logger *log.Logger) (scheduler.Scheduler, error) {
	switch cfg.Scheduler {
	case "plaintext":
		return scheduler.NewPlaintext(cfg.MaxUnexecutedGates, logger), nil
	case "networkplaintext":
		return scheduler.NewNetworkPlaintext(cfg.PartyID, cfg.NumParties, adapter, cfg.MaxUnexecutedGates, logger), nil
	case "eager", "lazy":
		var master tuplegen.MasterSeed
		if cfg.MasterSeedHex == "" {
			return nil, errs.InvalidArgument("party.buildScheduler", "-dealer-master-seed is required for eager/lazy schedulers")
		}
		raw, err := hex.DecodeString(cfg.MasterSeedHex)
		if err != nil || len(raw) != len(master) {
			return nil, errs.InvalidArgumentf("party.buildScheduler", "-dealer-master-seed must be %d hex bytes", len(master))
		}
		copy(master[:], raw)

		gen, err := tuplegen.New(cfg.PartyID, cfg.NumParties, master, tuplegen.Config{
			SupportsIntegerTuples: cfg.SupportsIntegerTuples,
		})
		if err != nil {
			return nil, err
		}

		seeds := make(engine.Seeds, len(cfg.Peers)-1)
		for id := range cfg.Peers {
			if id == cfg.PartyID {
				continue
			}
			var seed prng.Seed
			// Every party picks its own out-bound seed independently;
			// ExchangeKeys (inside engine.New) is what actually agrees the
			// two sides on a shared in-bound/out-bound pair.
			if _, err := rand.Read(seed[:]); err != nil {
				return nil, errs.Protocol("party.buildScheduler", "generating PRG seed", err)
			}
			seeds[id] = seed
		}

		if cfg.Scheduler == "eager" {
			return scheduler.NewEagerFromParts(cfg.PartyID, cfg.NumParties, seeds, adapter, gen, cfg.MaxUnexecutedGates, logger)
		}
		return scheduler.NewLazyFromParts(cfg.PartyID, cfg.NumParties, seeds, adapter, gen, cfg.MaxUnexecutedGates, logger)
	default:
		return nil, errs.InvalidArgumentf("party.buildScheduler", "unrecognized -scheduler %q", cfg.Scheduler)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.New("party", log.WithLevel(level))

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		logger.Info().Log(fmt.Sprintf(format, a...))
	}))
	if err != nil {
		logger.Warn().Err(err).Log("failed to set GOMAXPROCS from cgroup limits, leaving default")
	} else {
		defer undo()
	}

	if cfg.Scheduler == "plaintext" {
		s := scheduler.NewPlaintext(cfg.MaxUnexecutedGates, logger)
		logger.Info().Int("party", cfg.PartyID).Log("single-party plaintext scheduler ready")
		_ = s
		return nil
	}

	agents, err := connectPeers(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, agent := range agents {
			_ = agent.Close()
		}
	}()

	adapter := commadapter.New(cfg.PartyID, agents, logger)

	s, err := buildScheduler(cfg, adapter, logger)
	if err != nil {
		return err
	}

	sent, received := s.TrafficStatistics()
	logger.Info().
		Int("party", cfg.PartyID).
		Str("scheduler", cfg.Scheduler).
		Uint64("bytes_sent", sent).
		Uint64("bytes_received", received).
		Log("scheduler ready")

	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
