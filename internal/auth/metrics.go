package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records verification outcomes. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	verifications  *prometheus.CounterVec
	unsealFailures *prometheus.CounterVec
	hashSeconds    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credseal_verifications_total",
				Help: "Login verifications by status and matching method",
			},
			[]string{"status", "method"},
		),
		unsealFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credseal_unseal_failures_total",
				Help: "Stored credentials that could not be unsealed",
			},
			[]string{"reason"},
		),
		hashSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credseal_hash_seconds",
				Help:    "Time spent in Argon2id hash and verify calls",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
	}

	reg.MustRegister(m.verifications, m.unsealFailures, m.hashSeconds)
	return m
}

func (m *Metrics) recordVerification(status Status, method string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "none"
	}
	m.verifications.WithLabelValues(status.String(), method).Inc()
}

func (m *Metrics) recordUnsealFailure(reason string) {
	if m == nil {
		return
	}
	m.unsealFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeHash(d time.Duration) {
	if m == nil {
		return
	}
	m.hashSeconds.Observe(d.Seconds())
}
