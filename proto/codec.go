package proto

import (
	"fmt"

	"github.com/blueacro/serial/proto/cobs"
)

// MaxFrameSize bounds every encoded frame, delimiter included.
const MaxFrameSize = 64

// maxVarint32 is the longest LEB128 encoding of a uint32.
const maxVarint32 = 5

// encoder writes the compact layout into a fixed slice.
type encoder struct {
	buf []byte
	n   int
}

func (e *encoder) bytes(bs ...byte) error {
	if e.n+len(bs) > len(e.buf) {
		return ErrBufferFull
	}
	e.n += copy(e.buf[e.n:], bs)
	return nil
}

func (e *encoder) varint(v uint32) error {
	for v >= 0x80 {
		if err := e.bytes(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return e.bytes(byte(v))
}

// decoder reads the compact layout from a slice.
type decoder struct {
	buf []byte
	off int
}

func (d *decoder) byte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrDecode, d.off)
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

func (d *decoder) varint() (uint32, error) {
	var v uint32
	for i := 0; i < maxVarint32; i++ {
		b, err := d.byte()
		if err != nil {
			return 0, err
		}
		if i == maxVarint32-1 && b > 0x0F {
			return 0, fmt.Errorf("%w: varint overflows u32", ErrDecode)
		}
		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: varint overflows u32", ErrDecode)
}

func (d *decoder) triple() (a, b, c uint8, err error) {
	if a, err = d.byte(); err != nil {
		return
	}
	if b, err = d.byte(); err != nil {
		return
	}
	c, err = d.byte()
	return
}

type message interface {
	tag() uint32
	encodeBody(e *encoder) error
}

func marshalInto(buf []byte, m message) (int, error) {
	if m == nil {
		return 0, ErrNilMessage
	}
	e := &encoder{buf: buf}
	if err := e.varint(m.tag()); err != nil {
		return 0, err
	}
	if err := m.encodeBody(e); err != nil {
		return 0, err
	}
	return e.n, nil
}

func frameInto(buf []byte, m message) ([]byte, error) {
	var raw [MaxFrameSize]byte
	n, err := marshalInto(raw[:], m)
	if err != nil {
		return nil, err
	}
	if len(buf) > MaxFrameSize {
		buf = buf[:MaxFrameSize]
	}
	w, err := cobs.Encode(buf, raw[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBufferFull, err)
	}
	return buf[:w], nil
}

func unframe(frame []byte) ([]byte, error) {
	n, err := cobs.Decode(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return frame[:n], nil
}

// MarshalCommand returns the unstuffed payload of cmd.
func MarshalCommand(cmd Command) ([]byte, error) {
	var raw [MaxFrameSize]byte
	n, err := marshalInto(raw[:], cmd)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw[:n]...), nil
}

// UnmarshalCommand parses an unstuffed Command payload.
func UnmarshalCommand(payload []byte) (Command, error) {
	d := &decoder{buf: payload}
	tag, err := d.varint()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagQueryTime:
		return QueryTime{}, nil
	case TagSetTime:
		h, m, s, err := d.triple()
		if err != nil {
			return nil, err
		}
		return SetTime{Hours: h, Minutes: m, Seconds: s}, nil
	default:
		return nil, &DiscriminantError{Union: "command", Tag: tag}
	}
}

// MarshalResponse returns the unstuffed payload of resp.
func MarshalResponse(resp Response) ([]byte, error) {
	var raw [MaxFrameSize]byte
	n, err := marshalInto(raw[:], resp)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), raw[:n]...), nil
}

// UnmarshalResponse parses an unstuffed Response payload.
func UnmarshalResponse(payload []byte) (Response, error) {
	d := &decoder{buf: payload}
	tag, err := d.varint()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagAck:
		return Ack{}, nil
	case TagTime:
		h, m, s, err := d.triple()
		if err != nil {
			return nil, err
		}
		return Time{Hours: h, Minutes: m, Seconds: s}, nil
	case TagFailure:
		code, err := d.byte()
		if err != nil {
			return nil, err
		}
		return Failure{Code: code}, nil
	default:
		return nil, &DiscriminantError{Union: "response", Tag: tag}
	}
}

// EncodeCommand writes the framed form of cmd into buf and returns the
// frame, which aliases buf. At most MaxFrameSize bytes of buf are used.
func EncodeCommand(buf []byte, cmd Command) ([]byte, error) {
	return frameInto(buf, cmd)
}

// EncodeResponse writes the framed form of resp into buf and returns the
// frame, which aliases buf.
func EncodeResponse(buf []byte, resp Response) ([]byte, error) {
	return frameInto(buf, resp)
}

// DecodeCommand unstuffs frame in place and parses a Command.
func DecodeCommand(frame []byte) (Command, error) {
	payload, err := unframe(frame)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommand(payload)
}

// DecodeResponse unstuffs frame in place and parses a Response.
func DecodeResponse(frame []byte) (Response, error) {
	payload, err := unframe(frame)
	if err != nil {
		return nil, err
	}
	return UnmarshalResponse(payload)
}
