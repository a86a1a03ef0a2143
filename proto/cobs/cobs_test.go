package cobs

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeVectors(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		expect []byte
	}{
		{"empty", []byte{}, []byte{0x01, 0x00}},
		{"single zero", []byte{0x00}, []byte{0x01, 0x01, 0x00}},
		{"two zeros", []byte{0x00, 0x00}, []byte{0x01, 0x01, 0x01, 0x00}},
		{"zero inside", []byte{0x11, 0x22, 0x00, 0x33}, []byte{0x03, 0x11, 0x22, 0x02, 0x33, 0x00}},
		{"no zeros", []byte{0x11, 0x22, 0x33, 0x44}, []byte{0x05, 0x11, 0x22, 0x33, 0x44, 0x00}},
		{"trailing zeros", []byte{0x11, 0x00, 0x00, 0x00}, []byte{0x02, 0x11, 0x01, 0x01, 0x01, 0x00}},
		{"set time", []byte{0x01, 0x0d, 0x05, 0x00}, []byte{0x04, 0x01, 0x0d, 0x05, 0x01, 0x00}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := make([]byte, MaxEncodedLen(len(tc.in)))
			n, err := Encode(dst, tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.expect, dst[:n])

			n, err = Decode(dst[:n])
			require.NoError(t, err)
			require.Equal(t, tc.in, dst[:n])
		})
	}
}

func TestLongBlocks(t *testing.T) {
	for _, size := range []int{253, 254, 255, 508, 600} {
		src := make([]byte, size)
		for i := range src {
			src[i] = byte(i%255) + 1
		}
		dst := make([]byte, MaxEncodedLen(size))
		n, err := Encode(dst, src)
		require.NoError(t, err, "size %d", size)
		require.LessOrEqual(t, n, MaxEncodedLen(size))
		require.Equal(t, -1, bytes.IndexByte(dst[:n-1], Delimiter))

		m, err := Decode(dst[:n])
		require.NoError(t, err, "size %d", size)
		require.Equal(t, src, dst[:m])
	}
}

func TestDelimiterOnlyTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for size := 0; size <= 62; size++ {
		for round := 0; round < 50; round++ {
			src := make([]byte, size)
			rng.Read(src)
			// bias towards zeros so blocks of every length show up
			for i := range src {
				if rng.Intn(4) == 0 {
					src[i] = 0
				}
			}

			dst := make([]byte, MaxEncodedLen(size))
			n, err := Encode(dst, src)
			require.NoError(t, err)
			require.Equal(t, Delimiter, dst[n-1])
			require.Equal(t, -1, bytes.IndexByte(dst[:n-1], Delimiter), "src %x", src)

			m, err := Decode(dst[:n])
			require.NoError(t, err)
			require.Equal(t, src, dst[:m])
		}
	}
}

func TestEncodeBufferTooSmall(t *testing.T) {
	src := []byte{0x11, 0x22, 0x00, 0x33}
	need := 6
	for size := 0; size < need; size++ {
		_, err := Encode(make([]byte, size), src)
		require.ErrorIs(t, err, ErrBufferTooSmall, "dst size %d", size)
	}
	n, err := Encode(make([]byte, need), src)
	require.NoError(t, err)
	require.Equal(t, need, n)
}

func TestDecodeStopsAtDelimiter(t *testing.T) {
	buf := []byte{0x03, 0x11, 0x22, 0x00, 0xAA, 0xBB}
	n, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x11, 0x22}, buf[:n])
	require.Equal(t, []byte{0xAA, 0xBB}, buf[4:])
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		expect error
	}{
		{"nil", nil, ErrUnterminated},
		{"leading delimiter", []byte{0x00, 0x01}, ErrEmptyFrame},
		{"no delimiter", []byte{0x02, 0x11}, ErrUnterminated},
		{"block past end", []byte{0x05, 0x11, 0x22}, ErrTruncated},
		{"zero in block", []byte{0x04, 0x11, 0x00, 0x22, 0x00}, ErrUnexpectedDelimiter},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.in)
			require.ErrorIs(t, err, tc.expect)
		})
	}
}
