package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			return dp.Value
		}
	}
	return 0
}

func TestOrderMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewOrderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOrderPlaced(ctx, "COD", 2, 240)
	m.RecordOrderPlaced(ctx, "UPI", 5, 980)
	m.RecordOrderPlaced(ctx, "COD", 1, 60)
	m.RecordStatusChange(ctx, "PENDING", "CONFIRMED")
	m.RecordOrderCancelled(ctx, "customer", 60)

	got := collect(t, reader)

	assert.Equal(t, int64(2), sumFor(t, got["pantryfresh.orders.placed"], AttrPaymentMethod.String("COD")))
	assert.Equal(t, int64(1), sumFor(t, got["pantryfresh.orders.placed"], AttrPaymentMethod.String("UPI")))
	assert.Equal(t, int64(1), sumFor(t, got["pantryfresh.orders.status_changes"], AttrOrderStatus.String("CONFIRMED")))
	assert.Equal(t, int64(1), sumFor(t, got["pantryfresh.orders.cancelled"], AttrActorRole.String("customer")))

	amount, ok := got["pantryfresh.orders.amount"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	var total float64
	for _, dp := range amount.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.Equal(t, uint64(3), count)
	assert.InDelta(t, 1280.0, total, 0.001)
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp := &MeterProvider{}

	assert.False(t, mp.Enabled())
	assert.NotNil(t, mp.Meter("noop"))
	assert.NoError(t, mp.Shutdown(context.Background()))

	_, err := NewOrderMetrics(mp.Meter("noop"))
	assert.NoError(t, err)
}
