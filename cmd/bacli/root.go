package main

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blueacro/serial"
	"github.com/blueacro/serial/internal/logging"
	"github.com/blueacro/serial/proto"
)

// allow tests to replace the device and the clock
var (
	openDevice = func(cfg serial.Config, opts ...serial.Option) (serial.Exchanger, error) {
		return serial.Open(cfg, opts...)
	}
	now = time.Now
)

type options struct {
	port       string
	verbosity  int
	configPath string
	jsonOutput bool
	logFile    string

	log      zerolog.Logger
	closeLog io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "bacli",
		Short:        "blueacro communication CLI",
		Long:         "Communicate over USB or serial ports to control blueacro modules.",
		Version:      "1.0",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log, opts.closeLog = logging.New(cmd.ErrOrStderr(), logging.Config{
				Verbosity: opts.verbosity,
				File:      opts.logFile,
			})
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog.Close()
			}
			return nil
		},
	}
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.port, "port", "p", serial.DefaultPortName, "Sets a communication port")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Sets the level of verbosity (repeatable)")
	flags.StringVar(&opts.configPath, "config", "", "TOML file with serial port settings")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the response as JSON")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get_time",
			Short: "Interrogates the current time from the device",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, proto.QueryTime{})
			},
		},
		&cobra.Command{
			Use:   "set_time",
			Short: "Sets the time on the target device to the local time of this system",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				t := now()
				return run(cmd, opts, proto.SetTime{
					Hours:   uint8(t.Hour()),
					Minutes: uint8(t.Minute()),
					Seconds: uint8(t.Second()),
				})
			},
		},
	)

	return cmd
}

// loadConfig applies the config file, then an explicit --port.
func (o *options) loadConfig(cmd *cobra.Command) (serial.Config, error) {
	cfg := serial.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = serial.LoadConfig(o.configPath); err != nil {
			return serial.Config{}, err
		}
	}
	if o.configPath == "" || cmd.Flags().Changed("port") {
		cfg.PortName = o.port
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, msg proto.Command) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	metrics := &serial.Metrics{}
	device, err := openDevice(cfg, serial.WithLogger(opts.log), serial.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := device.Close(); cerr != nil {
			opts.log.Warn().Err(cerr).Msg("closing port")
		}
	}()

	opts.log.Info().Str("port", cfg.PortName).Stringer("command", msg).Msg("exchanging")

	resp, err := device.Exchange(cmd.Context(), msg)
	opts.log.Debug().Interface("metrics", metrics.Snapshot()).Msg("exchange finished")
	if err != nil {
		return err
	}

	return printResponse(cmd.OutOrStdout(), resp, opts.jsonOutput)
}

func printResponse(w io.Writer, resp proto.Response, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, resp)
		return err
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
