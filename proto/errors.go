package proto

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is wrapped by every payload parsing failure.
	ErrDecode = errors.New("proto: malformed payload")
	// ErrBufferFull is returned when an encoded message does not fit in the
	// destination buffer.
	ErrBufferFull = errors.New("proto: message does not fit buffer")
	// ErrNilMessage is returned when encoding a nil Command or Response.
	ErrNilMessage = errors.New("proto: nil message")
)

// DiscriminantError reports a variant tag that does not belong to the
// expected union.
type DiscriminantError struct {
	Union string
	Tag   uint32
}

func (e *DiscriminantError) Error() string {
	return fmt.Sprintf("proto: unknown %s discriminant %d", e.Union, e.Tag)
}

// Unwrap lets errors.Is(err, ErrDecode) match.
func (e *DiscriminantError) Unwrap() error {
	return ErrDecode
}
