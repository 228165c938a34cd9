package transport

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"net"
	"os"
	"strconv"
	"sync"

	"github.com/circuitmesh/mpcore/errs"
)

// Address is a peer's dial/listen target.
type Address struct {
	Host string
	Port int
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// TLSConfig carries the parameters needed to wrap a raw TCP connection in
// TLS. Both cert and key files are required when Enabled is true, and the
// key file must hold an unencrypted key: a non-empty PassphraseFile makes
// the connection fail with an invalid-argument error. A zero-value
// TLSConfig disables TLS.
type TLSConfig struct {
	Enabled        bool
	CertFile       string
	KeyFile        string
	PassphraseFile string
	// TrustedCAFile, if set, is used in place of the system root pool to
	// verify the peer's certificate.
	TrustedCAFile string
}

func (c TLSConfig) build() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	keyPEM, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return nil, errs.Protocol("transport.TLSConfig", "reading key file", err)
	}
	certPEM, err := os.ReadFile(c.CertFile)
	if err != nil {
		return nil, errs.Protocol("transport.TLSConfig", "reading cert file", err)
	}

	if c.PassphraseFile != "" {
		// Passphrase-protected PKCS#1/PKCS#8 keys are deliberately not
		// decrypted here: the stdlib removed x509.DecryptPEMBlock's
		// underlying cipher support as insecure, and this repo does not
		// vendor a replacement. Surface a clear invalid-argument error instead of
		// silently ignoring the passphrase.
		return nil, errs.InvalidArgument("transport.TLSConfig", "encrypted private keys are not supported; provide an unencrypted key file")
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, errs.Protocol("transport.TLSConfig", "parsing certificate/key pair", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if c.TrustedCAFile != "" {
		caPEM, err := os.ReadFile(c.TrustedCAFile)
		if err != nil {
			return nil, errs.Protocol("transport.TLSConfig", "reading trusted CA file", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, errs.InvalidArgument("transport.TLSConfig", "trusted CA file contains no usable certificates")
		}
		cfg.RootCAs = pool
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return cfg, nil
}

// Conn is a production Agent backed by a single net.Conn (optionally
// wrapped in TLS), one per peer. The wire format is a flat stream: each
// Send writes exactly the bytes the matching Receive call expects, with no
// framing, since the lockstep protocol guarantees both sides agree on n in
// advance.
type Conn struct {
	counters
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
	wmu  sync.Mutex
	rmu  sync.Mutex
}

// DialConn opens a client-side connection to addr, optionally over TLS.
func DialConn(addr Address, tlsCfg TLSConfig) (*Conn, error) {
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		return nil, errs.Protocol("transport.DialConn", "dial", err)
	}
	return wrapClientConn(conn, tlsCfg)
}

func wrapClientConn(conn net.Conn, tlsCfg TLSConfig) (*Conn, error) {
	cfg, err := tlsCfg.build()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg != nil {
		conn = tls.Client(conn, cfg)
	}
	return NewConn(conn), nil
}

// AcceptConn wraps an already-accepted net.Conn (from a listener), applying
// TLS server-side if enabled.
func AcceptConn(conn net.Conn, tlsCfg TLSConfig) (*Conn, error) {
	cfg, err := tlsCfg.build()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg != nil {
		cfg.ClientAuth = tls.NoClientCert
		if tlsCfg.TrustedCAFile != "" {
			cfg.ClientAuth = tls.RequireAndVerifyClientCert
		}
		conn = tls.Server(conn, cfg)
	}
	return NewConn(conn), nil
}

// NewConn wraps an already-established connection (plaintext or TLS) as an
// Agent.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

func (c *Conn) SendBool(bits []bool) error {
	return c.sendBytes(packBits(bits))
}

func (c *Conn) ReceiveBool(n int) ([]bool, error) {
	buf, err := c.receiveBytes((n + 7) / 8)
	if err != nil {
		return nil, err
	}
	return unpackBits(buf, n), nil
}

func (c *Conn) SendU64(words []uint64) error {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	return c.sendBytes(buf)
}

func (c *Conn) ReceiveU64(n int) ([]uint64, error) {
	buf, err := c.receiveBytes(n * 8)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return out, nil
}

func (c *Conn) SendBytes(b []byte) error { return c.sendBytes(b) }

func (c *Conn) ReceiveBytes(n int) ([]byte, error) { return c.receiveBytes(n) }

func (c *Conn) sendBytes(buf []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(buf); err != nil {
		return errs.Protocol("transport.Conn.Send", "write", err)
	}
	if err := c.w.Flush(); err != nil {
		return errs.Protocol("transport.Conn.Send", "flush", err)
	}
	c.addSent(len(buf))
	return nil
}

func (c *Conn) receiveBytes(n int) ([]byte, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	buf := make([]byte, n)
	if n != 0 {
		if _, err := readFull(c.r, buf); err != nil {
			return nil, errs.Protocol("transport.Conn.Receive", "read", err)
		}
	}
	c.addReceived(n)
	return buf, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
