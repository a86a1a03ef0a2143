package serial

import "github.com/rs/zerolog"

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger used for exchange tracing. By default a
// Device logs nothing.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) {
		d.log = l
	}
}

// WithMetrics records exchange statistics into m instead of a private
// Metrics value.
func WithMetrics(m *Metrics) Option {
	return func(d *Device) {
		if m != nil {
			d.metrics = m
		}
	}
}
