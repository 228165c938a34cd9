package transport

import (
	"encoding/binary"
	"io"

	"github.com/circuitmesh/mpcore/errs"
)

// Mem is an in-memory Agent, used by tests where a real socket would only
// add noise. A Mem is always
// constructed in a connected pair via NewMemPair; reading from one end
// consumes bytes written to the other.
type Mem struct {
	counters
	out *io.PipeWriter
	in  *io.PipeReader
}

// NewMemPair returns two Agents, each other's peer: bytes sent on a reach
// the other as received on b, and vice versa.
func NewMemPair() (a, b *Mem) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	a = &Mem{out: aw, in: ar}
	b = &Mem{out: bw, in: br}
	return a, b
}

func (m *Mem) SendBool(bits []bool) error {
	return m.sendBytes(packBits(bits))
}

func (m *Mem) ReceiveBool(n int) ([]bool, error) {
	buf, err := m.receiveBytes((n + 7) / 8)
	if err != nil {
		return nil, err
	}
	return unpackBits(buf, n), nil
}

func (m *Mem) SendU64(words []uint64) error {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	return m.sendBytes(buf)
}

func (m *Mem) ReceiveU64(n int) ([]uint64, error) {
	buf, err := m.receiveBytes(n * 8)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return out, nil
}

func (m *Mem) SendBytes(b []byte) error { return m.sendBytes(b) }

func (m *Mem) ReceiveBytes(n int) ([]byte, error) { return m.receiveBytes(n) }

func (m *Mem) sendBytes(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := m.out.Write(buf); err != nil {
		return errs.Protocol("transport.Mem.Send", "write", err)
	}
	m.addSent(len(buf))
	return nil
}

func (m *Mem) receiveBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(m.in, buf); err != nil {
		return nil, errs.Protocol("transport.Mem.Receive", "read", err)
	}
	m.addReceived(n)
	return buf, nil
}

func (m *Mem) Close() error {
	_ = m.in.Close()
	return m.out.Close()
}
