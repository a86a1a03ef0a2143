package serial

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	gobug "go.bug.st/serial"
)

const (
	DefaultPortName    = "/dev/ttyACM1"
	DefaultBaudRate    = Baud9600
	DefaultReadTimeout = time.Second
)

// Config holds configuration for opening a serial port.
type Config struct {
	// PortName is the path to the serial device, e.g. /dev/ttyACM1.
	PortName string `toml:"port" validate:"required"`

	BaudRate int    `toml:"baud_rate" validate:"baudrate"`
	DataBits int    `toml:"data_bits" validate:"min=5,max=8"`
	Parity   string `toml:"parity" validate:"oneof=none odd even mark space"`
	StopBits string `toml:"stop_bits" validate:"oneof=1 1.5 2"`

	// ReadTimeout bounds the wait for a reply. It must be positive: a
	// zero timeout would block forever on a silent device.
	ReadTimeout time.Duration `toml:"read_timeout" validate:"gt=0"`
}

// DefaultConfig returns the settings used by blueacro modules over USB-CDC.
func DefaultConfig() Config {
	return Config{
		PortName:    DefaultPortName,
		BaudRate:    DefaultBaudRate.Int(),
		DataBits:    DataBits8.Int(),
		Parity:      "none",
		StopBits:    "1",
		ReadTimeout: DefaultReadTimeout,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys not known to
// Config are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Mode converts the line settings to a go.bug.st/serial mode.
func (c Config) Mode() (*gobug.Mode, error) {
	parity, err := ParseParity(c.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := ParseStopBits(c.StopBits)
	if err != nil {
		return nil, err
	}
	return &gobug.Mode{
		BaudRate: BaudRate(c.BaudRate).Int(),
		DataBits: DataBits(c.DataBits).Int(),
		Parity:   parity.Get(),
		StopBits: stopBits.Get(),
	}, nil
}
