package otelmetric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ivalmian/iterator-threads/metrics"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func newTestProvider(t *testing.T) (*Provider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return New(mp.Meter("iterthreads-test")), reader
}

func TestProvider_CounterAndUpDown(t *testing.T) {
	p, reader := newTestProvider(t)

	attrs := metrics.WithAttributes(map[string]string{"iterator": "ingest"})
	c := p.Counter("produced_total", attrs, metrics.WithUnit("1"))
	c.Add(2)
	p.Counter("produced_total").Add(3)

	u := p.UpDownCounter("buffer_depth", attrs)
	u.Add(4)
	u.Add(-1)

	data := collect(t, reader)

	sum, ok := data["produced_total"].(metricdata.Sum[int64])
	require.True(t, ok, "produced_total should be an int64 sum")
	require.True(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 1)
	require.Equal(t, int64(5), sum.DataPoints[0].Value)
	v, found := sum.DataPoints[0].Attributes.Value("iterator")
	require.True(t, found)
	require.Equal(t, "ingest", v.AsString())

	depth, ok := data["buffer_depth"].(metricdata.Sum[int64])
	require.True(t, ok, "buffer_depth should be an int64 sum")
	require.False(t, depth.IsMonotonic)
	require.Len(t, depth.DataPoints, 1)
	require.Equal(t, int64(3), depth.DataPoints[0].Value)
}

func TestProvider_Histogram(t *testing.T) {
	p, reader := newTestProvider(t)

	h := p.Histogram("put_wait_seconds", metrics.WithUnit("s"))
	h.Record(0.5)
	h.Record(1.5)

	data := collect(t, reader)
	hist, ok := data["put_wait_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok, "put_wait_seconds should be a float64 histogram")
	require.Len(t, hist.DataPoints, 1)
	require.Equal(t, uint64(2), hist.DataPoints[0].Count)
	require.InDelta(t, 2.0, hist.DataPoints[0].Sum, 1e-9)
}

func TestProvider_ReusesInstrumentsByName(t *testing.T) {
	p, _ := newTestProvider(t)
	require.Same(t, p.Counter("x"), p.Counter("x"))
}
