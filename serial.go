package serial

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/blueacro/serial/proto"
)

// Exchanger performs one request/response exchange with a module.
type Exchanger interface {
	Exchange(ctx context.Context, cmd proto.Command) (proto.Response, error)
	Close() error
}

// Device is a request/response session over a serial link. Every
// Exchange writes one framed Command and reads one framed Response into
// the same fixed buffer; there is no state carried between exchanges.
type Device struct {
	port Port

	// mu guards buf and serialises exchanges on the link.
	mu  sync.Mutex
	buf [proto.MaxFrameSize]byte

	log     zerolog.Logger
	metrics *Metrics

	closed atomic.Bool
}

var _ Exchanger = (*Device)(nil)

// Open opens the serial port described by cfg and returns a Device that
// owns it.
func Open(cfg Config, opts ...Option) (*Device, error) {
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid serial port configuration: %w", err)
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, fmt.Errorf("invalid serial port configuration: %w", err)
	}

	p, err := openPort(cfg.PortName, mode)
	if err != nil {
		return nil, &OpenError{Path: cfg.PortName, Err: err}
	}

	if err = p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		if cerr := p.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, &OpenError{Path: cfg.PortName, Err: fmt.Errorf("setting read timeout: %w", err)}
	}

	d := NewDevice(p, opts...)
	d.log.Debug().
		Str("port", cfg.PortName).
		Int("baud", cfg.BaudRate).
		Dur("read_timeout", cfg.ReadTimeout).
		Msg("port opened")
	return d, nil
}

// NewDevice constructs a Device around an already opened Port.
func NewDevice(p Port, opts ...Option) *Device {
	d := &Device{
		port:    p,
		log:     zerolog.Nop(),
		metrics: &Metrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Metrics returns the statistics recorded by this Device.
func (d *Device) Metrics() *Metrics {
	return d.metrics
}

// Exchange encodes cmd, writes it, flushes the link and decodes one reply.
// It blocks until a reply arrives or the port read timeout expires, in
// which case the error wraps ErrTimeout. A reply that does not decode wraps
// ErrDeserialization.
//
// Only the first read is decoded; a reply split across reads is reported
// as a deserialization error.
func (d *Device) Exchange(ctx context.Context, cmd proto.Command) (resp proto.Response, err error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if d.port == nil {
		return nil, ErrNilPort
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	defer func() {
		d.metrics.recordExchange(time.Since(start), err)
	}()

	frame, err := proto.EncodeCommand(d.buf[:], cmd)
	if err != nil {
		d.metrics.EncodeErrors.Inc()
		return nil, fmt.Errorf("encoding %v: %w", cmd, err)
	}

	d.log.Debug().Stringer("command", cmd).Hex("frame", frame).Msg("sending")

	if err = d.writeAll(ctx, frame); err != nil {
		d.metrics.WriteErrors.Inc()
		return nil, err
	}
	if err = d.port.Drain(); err != nil {
		d.metrics.WriteErrors.Inc()
		return nil, &TransportError{Op: "flush", Err: err}
	}

	n, err := d.port.Read(d.buf[:])
	if err != nil {
		d.metrics.ReadErrors.Inc()
		return nil, &TransportError{Op: "read", Err: err}
	}
	if n == 0 {
		d.metrics.ReadTimeouts.Inc()
		err = &TransportError{Op: "read", Err: ErrTimeout}
		return nil, err
	}
	d.metrics.BytesRead.Add(int64(n))
	d.log.Trace().Hex("raw", d.buf[:n]).Msg("received")

	resp, err = proto.DecodeResponse(d.buf[:n])
	if err != nil {
		d.metrics.DecodeErrors.Inc()
		err = fmt.Errorf("%w: %w", ErrDeserialization, err)
		return nil, err
	}

	d.log.Debug().Stringer("response", resp).Dur("elapsed", time.Since(start)).Msg("received")
	return resp, nil
}

// writeAll writes the whole frame, checking ctx between partial writes.
func (d *Device) writeAll(ctx context.Context, data []byte) error {
	written := 0
	for written < len(data) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := d.port.Write(data[written:])
		written += n
		d.metrics.BytesWritten.Add(int64(n))
		if err != nil {
			return &TransportError{Op: "write", Err: err}
		}
		if n == 0 {
			return &TransportError{Op: "write", Err: ErrShortWrite}
		}
	}
	return nil
}

// Close closes the underlying port. It is safe to call multiple times.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if d.port == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port.Close()
}
