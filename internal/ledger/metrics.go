package ledger

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ledgerMetrics holds Prometheus metrics for ledger operations.
type ledgerMetrics struct {
	operations    *prometheus.CounterVec   // By operation and status (ok/invalid_input/not_found/unauthorized/error)
	duration      *prometheus.HistogramVec // By operation
	rewardsPoints prometheus.Counter
}

// newLedgerMetrics creates and registers ledger metrics with reg.
// Returns nil (metrics disabled) when reg is nil.
func newLedgerMetrics(reg prometheus.Registerer) (*ledgerMetrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &ledgerMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxtrace",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by outcome",
		}, []string{"operation", "status"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rxtrace",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),

		rewardsPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxtrace",
			Subsystem: "ledger",
			Name:      "reward_points_total",
			Help:      "Total reward points issued, manual and event-driven",
		}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.duration, m.rewardsPoints} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *ledgerMetrics) observe(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, statusLabel(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *ledgerMetrics) addPoints(points uint32) {
	if m == nil {
		return
	}
	m.rewardsPoints.Add(float64(points))
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
