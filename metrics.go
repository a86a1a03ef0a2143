package serial

import (
	"time"

	"go.uber.org/atomic"
)

// Metrics tracks exchange health statistics for a Device. The zero value
// is ready to use.
type Metrics struct {
	// Exchanges
	Exchanges           atomic.Int64 // Total exchange attempts
	SuccessfulExchanges atomic.Int64 // Replies decoded successfully
	TotalExchangeTime   atomic.Int64 // Time spent in exchanges (ns)
	MaxExchangeTime     atomic.Int64 // Slowest exchange (ns)
	LastExchangeTime    atomic.Int64 // Unix timestamp of last exchange

	// Bytes
	BytesWritten atomic.Int64
	BytesRead    atomic.Int64

	// Error Categories
	EncodeErrors atomic.Int64 // Command did not fit a frame
	WriteErrors  atomic.Int64 // Write or flush failures
	ReadErrors   atomic.Int64 // Read failures other than timeouts
	ReadTimeouts atomic.Int64 // No reply within the read timeout
	DecodeErrors atomic.Int64 // Reply could not be decoded

	ConsecutiveFailures atomic.Int64
}

// HealthStatus represents the overall health of the link.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusIdle      HealthStatus = "idle"
)

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Timestamp           time.Time     `json:"timestamp"`
	Exchanges           int64         `json:"exchanges"`
	SuccessRate         float64       `json:"success_rate"`
	TimeoutRate         float64       `json:"timeout_rate"`
	AverageLatency      time.Duration `json:"average_latency"`
	MaxLatency          time.Duration `json:"max_latency"`
	BytesWritten        int64         `json:"bytes_written"`
	BytesRead           int64         `json:"bytes_read"`
	TotalErrors         int64         `json:"total_errors"`
	ConsecutiveFailures int64         `json:"consecutive_failures"`
	HealthStatus        HealthStatus  `json:"health_status"`
}

// Snapshot computes rates and averages from the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Timestamp:           time.Now(),
		Exchanges:           m.Exchanges.Load(),
		SuccessRate:         m.calculateSuccessRate(),
		TimeoutRate:         m.calculateTimeoutRate(),
		AverageLatency:      m.calculateAverageLatency(),
		MaxLatency:          time.Duration(m.MaxExchangeTime.Load()),
		BytesWritten:        m.BytesWritten.Load(),
		BytesRead:           m.BytesRead.Load(),
		TotalErrors:         m.totalErrors(),
		ConsecutiveFailures: m.ConsecutiveFailures.Load(),
	}
	s.HealthStatus = assessHealthStatus(s)
	return s
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.Exchanges, &m.SuccessfulExchanges, &m.TotalExchangeTime, &m.MaxExchangeTime,
		&m.LastExchangeTime, &m.BytesWritten, &m.BytesRead, &m.EncodeErrors, &m.WriteErrors,
		&m.ReadErrors, &m.ReadTimeouts, &m.DecodeErrors, &m.ConsecutiveFailures,
	} {
		c.Store(0)
	}
}

func (m *Metrics) recordExchange(elapsed time.Duration, err error) {
	m.Exchanges.Inc()
	m.TotalExchangeTime.Add(int64(elapsed))
	m.LastExchangeTime.Store(time.Now().Unix())
	for {
		cur := m.MaxExchangeTime.Load()
		if int64(elapsed) <= cur || m.MaxExchangeTime.CompareAndSwap(cur, int64(elapsed)) {
			break
		}
	}
	if err != nil {
		m.ConsecutiveFailures.Inc()
		return
	}
	m.SuccessfulExchanges.Inc()
	m.ConsecutiveFailures.Store(0)
}

func (m *Metrics) totalErrors() int64 {
	return m.EncodeErrors.Load() + m.WriteErrors.Load() + m.ReadErrors.Load() +
		m.ReadTimeouts.Load() + m.DecodeErrors.Load()
}

func (m *Metrics) calculateSuccessRate() float64 {
	n := m.Exchanges.Load()
	if n == 0 {
		return 100.0
	}
	return float64(m.SuccessfulExchanges.Load()) / float64(n) * 100
}

func (m *Metrics) calculateTimeoutRate() float64 {
	n := m.Exchanges.Load()
	if n == 0 {
		return 0.0
	}
	return float64(m.ReadTimeouts.Load()) / float64(n) * 100
}

func (m *Metrics) calculateAverageLatency() time.Duration {
	n := m.Exchanges.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.TotalExchangeTime.Load() / n)
}

func assessHealthStatus(s MetricsSnapshot) HealthStatus {
	if s.Exchanges == 0 {
		return HealthStatusIdle
	}
	if s.SuccessRate < 50.0 || s.ConsecutiveFailures > 5 {
		return HealthStatusUnhealthy
	}
	if s.SuccessRate < 90.0 || s.TimeoutRate > 20.0 || s.ConsecutiveFailures > 3 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
