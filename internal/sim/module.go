// Package sim provides an in-memory blueacro module that speaks the framed
// protocol. It satisfies serial.Port and is used by examples and tests in
// place of real hardware.
package sim

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/blueacro/serial/proto"
	"github.com/blueacro/serial/proto/cobs"
)

// Failure codes sent by the simulated module.
const (
	CodeMalformed  uint8 = 1
	CodeOutOfRange uint8 = 2
)

var ErrClosed = errors.New("sim: module closed")

// Module is a simulated device with its own wall clock.
type Module struct {
	mu sync.Mutex

	// Now is the host clock; defaults to time.Now.
	Now func() time.Time
	// Silent drops every command without replying.
	Silent bool

	offset      time.Duration
	rx          []byte
	pending     []byte
	readTimeout time.Duration
	closed      bool
}

// New returns a Module whose clock matches the host.
func New() *Module {
	return &Module{Now: time.Now}
}

// Clock returns the module's current time of day.
func (m *Module) Clock() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock()
}

func (m *Module) clock() time.Time {
	return m.Now().Add(m.offset)
}

// Write accepts bytes from the host. Every complete frame is answered.
func (m *Module) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	m.rx = append(m.rx, p...)
	for {
		i := bytes.IndexByte(m.rx, cobs.Delimiter)
		if i < 0 {
			break
		}
		frame := append([]byte(nil), m.rx[:i+1]...)
		m.rx = m.rx[i+1:]
		if m.Silent {
			continue
		}
		m.pending = append(m.pending, m.handle(frame)...)
	}
	return len(p), nil
}

// Read returns pending reply bytes. Like go.bug.st/serial, it returns
// zero bytes and no error when nothing is waiting.
func (m *Module) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

func (m *Module) Drain() error { return nil }

func (m *Module) SetReadTimeout(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readTimeout = d
	return nil
}

func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Module) handle(frame []byte) []byte {
	var resp proto.Response = proto.Failure{Code: CodeMalformed}
	if cmd, err := proto.DecodeCommand(frame); err == nil {
		switch c := cmd.(type) {
		case proto.QueryTime:
			now := m.clock()
			resp = proto.Time{Hours: uint8(now.Hour()), Minutes: uint8(now.Minute()), Seconds: uint8(now.Second())}
		case proto.SetTime:
			resp = m.setTime(c)
		}
	}

	var buf [proto.MaxFrameSize]byte
	out, err := proto.EncodeResponse(buf[:], resp)
	if err != nil {
		return nil
	}
	return append([]byte(nil), out...)
}

func (m *Module) setTime(c proto.SetTime) proto.Response {
	if c.Hours > 23 || c.Minutes > 59 || c.Seconds > 59 {
		return proto.Failure{Code: CodeOutOfRange}
	}
	host := m.Now()
	y, mo, d := host.Date()
	target := time.Date(y, mo, d, int(c.Hours), int(c.Minutes), int(c.Seconds), 0, host.Location())
	m.offset = target.Sub(host.Truncate(time.Second))
	return proto.Ack{}
}
