package serial

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gobug "go.bug.st/serial"
)

func TestValidateConfig_Default(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(&cfg))
	require.Equal(t, "/dev/ttyACM1", cfg.PortName)
	require.Equal(t, 9600, cfg.BaudRate)
	require.Equal(t, time.Second, cfg.ReadTimeout)
}

func TestValidateConfig_Nil(t *testing.T) {
	require.Error(t, ValidateConfig(nil))
}

func TestValidateConfig_EmptyPortName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PortName = ""
	require.ErrorContains(t, ValidateConfig(&cfg), "port name cannot be empty")
}

func TestValidateConfig_BaudRate(t *testing.T) {
	tests := []struct {
		baudRate int
		wantErr  bool
	}{
		{1200, false},
		{9600, false},
		{115200, false},
		{12345, true},
		{0, true},
		{-9600, true},
		{1000000, true},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.BaudRate = tt.baudRate

		err := ValidateConfig(&cfg)
		if !tt.wantErr {
			require.NoError(t, err, "baudRate=%d", tt.baudRate)
			continue
		}
		require.ErrorContains(t, err, "invalid baud rate", "baudRate=%d", tt.baudRate)
	}
}

func TestValidateConfig_DataBits(t *testing.T) {
	for _, bits := range []int{5, 6, 7, 8} {
		cfg := DefaultConfig()
		cfg.DataBits = bits
		require.NoError(t, ValidateConfig(&cfg))
	}
	for _, bits := range []int{0, 4, 9} {
		cfg := DefaultConfig()
		cfg.DataBits = bits
		require.ErrorContains(t, ValidateConfig(&cfg), "data bits must be 5-8")
	}
}

func TestValidateConfig_ParityAndStopBits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parity = "sideways"
	require.ErrorContains(t, ValidateConfig(&cfg), "invalid parity value")

	cfg = DefaultConfig()
	cfg.StopBits = "3"
	require.ErrorContains(t, ValidateConfig(&cfg), "stop bits must be 1, 1.5, or 2")
}

func TestValidateConfig_ReadTimeout(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		cfg := DefaultConfig()
		cfg.ReadTimeout = d
		require.ErrorContains(t, ValidateConfig(&cfg), "read timeout must be positive")
	}
}

func TestValidateConfig_ReportsEveryField(t *testing.T) {
	cfg := Config{}
	err := ValidateConfig(&cfg)
	require.ErrorContains(t, err, "port name cannot be empty")
	require.ErrorContains(t, err, "invalid baud rate")
	require.ErrorContains(t, err, "read timeout must be positive")
}

func TestConfigMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaudRate = 115200
	cfg.Parity = "even"
	cfg.StopBits = "2"
	cfg.DataBits = 7

	mode, err := cfg.Mode()
	require.NoError(t, err)
	require.Equal(t, &gobug.Mode{
		BaudRate: 115200,
		DataBits: 7,
		Parity:   gobug.EvenParity,
		StopBits: gobug.TwoStopBits,
	}, mode)
}

func TestParseParity(t *testing.T) {
	tests := map[string]Parity{
		"none": ParityNone, "N": ParityNone, "": ParityNone,
		"odd": ParityOdd, "Even": ParityEven, "mark": ParityMark, "s": ParitySpace,
	}
	for in, want := range tests {
		got, err := ParseParity(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseParity("x")
	require.Error(t, err)
}

func TestParseStopBits(t *testing.T) {
	got, err := ParseStopBits("1.5")
	require.NoError(t, err)
	require.Equal(t, StopBits1Half, got)

	_, err = ParseStopBits("0")
	require.Error(t, err)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "bacli.toml", `
port = "/dev/ttyUSB3"
baud_rate = 115200
read_timeout = "250ms"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB3", cfg.PortName)
	require.Equal(t, 115200, cfg.BaudRate)
	require.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)

	// unset keys keep their defaults
	require.Equal(t, 8, cfg.DataBits)
	require.Equal(t, "none", cfg.Parity)
	require.Equal(t, "1", cfg.StopBits)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeFile(t, "bacli.toml", `
port = "/dev/ttyUSB3"
baud = 9600
`)

	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "unknown keys: baud")
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	path := writeFile(t, "bad.toml", `port = `)
	_, err = LoadConfig(path)
	require.Error(t, err)
}
