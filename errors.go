package serial

import (
	"errors"
	"fmt"
)

var (
	ErrClosed  = errors.New("serial: port closed")
	ErrNilPort = errors.New("serial: port is nil")
	// ErrTimeout is returned when the device sends nothing within the read
	// timeout.
	ErrTimeout = errors.New("serial: read timeout")
	// ErrShortWrite is returned when the port accepts fewer bytes than
	// offered without reporting an error.
	ErrShortWrite = errors.New("serial: short write")
	// ErrDeserialization marks a reply that could not be decoded.
	ErrDeserialization = errors.New("deserialization error")
)

// OpenError reports a port that could not be opened or configured.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open port %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// TransportError reports an I/O failure on the link. Op is one of "write",
// "flush" or "read".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
