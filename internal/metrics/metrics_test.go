package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("/chat", "POST", "200", 12)
		m.RecordBackendCall("chat", OutcomeSuccess, 40)
		m.RecordNormalizerFailure("skills_analysis", "schema_parse_error")
		m.RecordCatalogLookup(OutcomeError)
	})
}

func TestRecordBackendCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordBackendCall("chat", OutcomeSuccess, 40)
	m.RecordBackendCall("chat", OutcomeSuccess, 60)
	m.RecordBackendCall("chat", "timeout", 1000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("chat", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendCalls.WithLabelValues("chat", "timeout")))
}

func TestRecordNormalizerFailureAndCatalog(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, WithNamespace("test"), WithSubsystem("unit"))

	m.RecordNormalizerFailure("skills_analysis", "schema_validation_error")
	m.RecordCatalogLookup(OutcomeSuccess)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.normalizerFailures.WithLabelValues("skills_analysis", "schema_validation_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLookups.WithLabelValues(OutcomeSuccess)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_unit_normalizer_failures_total")
	assert.Contains(t, names, "test_unit_catalog_lookups_total")
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, WithHistogramBuckets([]float64{1, 10, 100}))

	m.RecordHTTPRequest("/chatbot", "POST", "500", 5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/chatbot", "POST", "500")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequestDuration))
}
