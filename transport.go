package serial

import (
	"time"

	gobug "go.bug.st/serial"
)

// Port abstracts the subset of go.bug.st/serial.Port used by a Device.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Drain blocks until everything written has been transmitted.
	Drain() error
	SetReadTimeout(d time.Duration) error
	Close() error
}

// bugstPort wraps the concrete serial.Port to satisfy Port.
type bugstPort struct {
	gobug.Port
}

// allow tests to override the OS port
var openPort = func(name string, mode *gobug.Mode) (Port, error) {
	p, err := gobug.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return &bugstPort{Port: p}, nil
}
