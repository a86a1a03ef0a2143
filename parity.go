package serial

import (
	"fmt"
	"strings"

	gobug "go.bug.st/serial"
)

type Parity gobug.Parity

func (pa Parity) Get() gobug.Parity {
	return gobug.Parity(pa)
}

const (
	// ParityNone represents no parity bit
	ParityNone = Parity(gobug.NoParity)
	// ParityOdd represents odd parity bit
	ParityOdd = Parity(gobug.OddParity)
	// ParityEven represents even parity bit
	ParityEven = Parity(gobug.EvenParity)
	// ParityMark represents mark parity bit (always 1)
	ParityMark = Parity(gobug.MarkParity)
	// ParitySpace represents space parity bit (always 0)
	ParitySpace = Parity(gobug.SpaceParity)
)

// ParseParity accepts the names used in config files ("none", "odd",
// "even", "mark", "space") and their one-letter forms.
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "n", "":
		return ParityNone, nil
	case "odd", "o":
		return ParityOdd, nil
	case "even", "e":
		return ParityEven, nil
	case "mark", "m":
		return ParityMark, nil
	case "space", "s":
		return ParitySpace, nil
	default:
		return ParityNone, fmt.Errorf("unsupported parity %q", s)
	}
}
