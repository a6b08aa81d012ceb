// Package metrics holds the Prometheus collectors exposed on /metrics
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "krishi_saarathi"

// Registration outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeMissingFields = "missing_fields"
	OutcomeDuplicate     = "duplicate_email"
	OutcomeInvalidRole   = "invalid_role"
	OutcomeInvalidBody   = "invalid_body"
	OutcomeError         = "error"
)

// Metrics is the set of application collectors
type Metrics struct {
	// HTTP requests by method, route pattern and status code
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP request duration by method and route pattern
	HTTPRequestDuration *prometheus.HistogramVec
	// Registration attempts by outcome
	RegistrationsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RegistrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_registrations_total",
			Help:      "User registration attempts by outcome",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RegistrationsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// ObserveRegistration counts a registration attempt. Safe on a nil receiver.
func (m *Metrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}
