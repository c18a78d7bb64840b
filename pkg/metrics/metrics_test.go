package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestObserveRequestRecordsCountAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/products", 200, 30*time.Millisecond)
	m.ObserveRequest("GET", "/api/products", 200, 50*time.Millisecond)
	m.ObserveRequest("POST", "/api/orders", 201, 120*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	counter := findMetric(t, families, "http_requests_total")
	require.NotNil(t, counter)
	total := 0.0
	for _, metric := range counter.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	assert.Equal(t, 3.0, total)

	histogram := findMetric(t, families, "http_request_duration_seconds")
	require.NotNil(t, histogram)
	samples := uint64(0)
	for _, metric := range histogram.GetMetric() {
		samples += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)
}

func TestObserveRequestNormalizesUnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "", 404, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	counter := findMetric(t, families, "http_requests_total")
	require.NotNil(t, counter)
	require.Len(t, counter.GetMetric(), 1)

	route := ""
	for _, label := range counter.GetMetric()[0].GetLabel() {
		if label.GetName() == "route" {
			route = label.GetValue()
		}
	}
	assert.Equal(t, "unmatched", route)
}

func TestNoOpCollectorIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)

	m = NewHTTPMetrics(nil)
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
}
