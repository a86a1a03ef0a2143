package serial

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics_Empty(t *testing.T) {
	var m Metrics
	s := m.Snapshot()

	require.Equal(t, int64(0), s.Exchanges)
	require.Equal(t, 100.0, s.SuccessRate)
	require.Equal(t, 0.0, s.TimeoutRate)
	require.Equal(t, time.Duration(0), s.AverageLatency)
	require.Equal(t, HealthStatusIdle, s.HealthStatus)
}

func TestMetrics_RecordExchange(t *testing.T) {
	var m Metrics
	m.recordExchange(10*time.Millisecond, nil)
	m.recordExchange(30*time.Millisecond, nil)
	m.recordExchange(20*time.Millisecond, errors.New("boom"))
	m.ReadTimeouts.Inc()

	s := m.Snapshot()
	require.Equal(t, int64(3), s.Exchanges)
	require.InDelta(t, 66.67, s.SuccessRate, 0.01)
	require.InDelta(t, 33.33, s.TimeoutRate, 0.01)
	require.Equal(t, 20*time.Millisecond, s.AverageLatency)
	require.Equal(t, 30*time.Millisecond, s.MaxLatency)
	require.Equal(t, int64(1), s.ConsecutiveFailures)
	require.Equal(t, int64(1), s.TotalErrors)
	require.NotZero(t, m.LastExchangeTime.Load())
}

func TestMetrics_ConsecutiveFailuresReset(t *testing.T) {
	var m Metrics
	for i := 0; i < 4; i++ {
		m.recordExchange(time.Millisecond, errors.New("boom"))
	}
	require.Equal(t, int64(4), m.ConsecutiveFailures.Load())

	m.recordExchange(time.Millisecond, nil)
	require.Equal(t, int64(0), m.ConsecutiveFailures.Load())
}

func TestMetrics_HealthStatus(t *testing.T) {
	tests := []struct {
		name string
		s    MetricsSnapshot
		want HealthStatus
	}{
		{"idle", MetricsSnapshot{}, HealthStatusIdle},
		{"healthy", MetricsSnapshot{Exchanges: 10, SuccessRate: 100}, HealthStatusHealthy},
		{"timeouts", MetricsSnapshot{Exchanges: 10, SuccessRate: 95, TimeoutRate: 25}, HealthStatusDegraded},
		{"failing", MetricsSnapshot{Exchanges: 10, SuccessRate: 80}, HealthStatusDegraded},
		{"down", MetricsSnapshot{Exchanges: 10, SuccessRate: 40}, HealthStatusUnhealthy},
		{"streak", MetricsSnapshot{Exchanges: 10, SuccessRate: 95, ConsecutiveFailures: 6}, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, assessHealthStatus(tt.s))
		})
	}
}

func TestMetrics_Reset(t *testing.T) {
	var m Metrics
	m.recordExchange(time.Millisecond, nil)
	m.BytesRead.Add(6)
	m.DecodeErrors.Inc()

	m.Reset()

	s := m.Snapshot()
	require.Equal(t, int64(0), s.Exchanges)
	require.Equal(t, int64(0), s.BytesRead)
	require.Equal(t, int64(0), s.TotalErrors)
	require.Equal(t, time.Duration(0), s.MaxLatency)
}
