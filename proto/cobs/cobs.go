// Package cobs implements Consistent Overhead Byte Stuffing with a zero
// delimiter.
//
// An encoded frame never contains 0x00 except as its final byte, so a
// receiver can find frame boundaries without a length prefix.
package cobs

import "errors"

// Delimiter terminates every encoded frame.
const Delimiter byte = 0x00

// maxBlock is the largest code byte; a block of 254 data bytes carries no
// implied zero.
const maxBlock = 0xFF

var (
	ErrBufferTooSmall      = errors.New("cobs: destination buffer too small")
	ErrUnterminated        = errors.New("cobs: missing frame delimiter")
	ErrTruncated           = errors.New("cobs: block runs past end of input")
	ErrUnexpectedDelimiter = errors.New("cobs: delimiter inside block")
	ErrEmptyFrame          = errors.New("cobs: empty frame")
)

// MaxEncodedLen returns the worst-case size of an encoded frame for n
// payload bytes, including the trailing delimiter.
func MaxEncodedLen(n int) int {
	return n + n/254 + 2
}

// Encode stuffs src into dst and appends the delimiter. It returns the
// number of bytes written. If dst cannot hold the frame, ErrBufferTooSmall
// is returned and the contents of dst are unspecified.
func Encode(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		return 0, ErrBufferTooSmall
	}

	codeIdx := 0
	w := 1
	code := byte(1)

	for _, b := range src {
		if b != 0 {
			if w >= len(dst) {
				return 0, ErrBufferTooSmall
			}
			dst[w] = b
			w++
			code++
			if code != maxBlock {
				continue
			}
		}
		// close the current block
		dst[codeIdx] = code
		if w >= len(dst) {
			return 0, ErrBufferTooSmall
		}
		codeIdx = w
		w++
		code = 1
	}

	dst[codeIdx] = code
	if w >= len(dst) {
		return 0, ErrBufferTooSmall
	}
	dst[w] = Delimiter
	return w + 1, nil
}

// Decode unstuffs the frame at the start of buf in place and returns the
// payload length. Decoding stops at the first delimiter; anything after it
// is left untouched.
func Decode(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrUnterminated
	}
	if buf[0] == Delimiter {
		return 0, ErrEmptyFrame
	}

	r, w := 0, 0
	for {
		code := buf[r]
		r++
		for i := 1; i < int(code); i++ {
			if r >= len(buf) {
				return 0, ErrTruncated
			}
			b := buf[r]
			if b == Delimiter {
				return 0, ErrUnexpectedDelimiter
			}
			buf[w] = b
			w++
			r++
		}

		if r >= len(buf) {
			return 0, ErrUnterminated
		}
		if buf[r] == Delimiter {
			return w, nil
		}
		if code != maxBlock {
			buf[w] = 0
			w++
		}
	}
}
