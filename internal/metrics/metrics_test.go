package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/x", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/x").Observe(0.1)
	m.RegistrationsTotal.WithLabelValues(OutcomeSuccess).Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"krishi_saarathi_http_requests_total",
		"krishi_saarathi_http_request_duration_seconds",
		"krishi_saarathi_user_registrations_total",
	}, names)

	t.Run("duplicate registration fails", func(t *testing.T) {
		_, err := New(reg)
		assert.Error(t, err)
	})
}

func TestMetrics_ObserveRegistration(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveRegistration(OutcomeSuccess)
	m.ObserveRegistration(OutcomeSuccess)
	m.ObserveRegistration(OutcomeDuplicate)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues(OutcomeDuplicate)))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveRegistration(OutcomeError) })
}
