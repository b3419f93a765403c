package telemetry_test

import (
	"context"
	"testing"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/config"
	"github.com/erp/servicepack/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
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

func sumFor(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func newBuilderMetrics(t *testing.T) (*telemetry.BuilderMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewBuilderMetrics(provider.Meter("servicepack"))
	require.NoError(t, err)
	return m, reader
}

func TestBuilderMetrics_Insertions(t *testing.T) {
	m, reader := newBuilderMetrics(t)
	ctx := context.Background()

	m.RecordInsert(ctx, servicepack.KindBOM, appservicepack.SourceCatalogDrag)
	m.RecordInsert(ctx, servicepack.KindBOM, appservicepack.SourceCatalogDrag)
	m.RecordInsertRejected(ctx, servicepack.KindTask, "TYPE_MISMATCH")

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, got["servicepack_insertions_total"],
		telemetry.AttrKind.String("bom"), telemetry.AttrSource.String("catalog-drag")))
	assert.Equal(t, int64(1), sumFor(t, got["servicepack_insertions_rejected_total"],
		telemetry.AttrKind.String("task"), telemetry.AttrCode.String("TYPE_MISMATCH")))
}

func TestBuilderMetrics_SaveAndDelete(t *testing.T) {
	m, reader := newBuilderMetrics(t)
	ctx := context.Background()

	m.RecordSave(ctx, false, decimal.RequireFromString("2.5"), decimal.RequireFromString("324.4"))
	m.RecordSave(ctx, true, decimal.NewFromInt(1), decimal.NewFromInt(75))
	m.RecordDelete(ctx, 2)
	m.RecordDelete(ctx, 0)
	m.RecordClone(ctx, "template")
	m.RecordPersistenceFailure(ctx, "save bundles")

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumFor(t, got["servicepack_saves_total"], telemetry.AttrMode.String("new")))
	assert.Equal(t, int64(1), sumFor(t, got["servicepack_saves_total"], telemetry.AttrMode.String("edit")))
	assert.Equal(t, int64(2), sumFor(t, got["servicepack_deletes_total"]))
	assert.Equal(t, int64(2), sumFor(t, got["servicepack_cascaded_bundles_total"]))
	assert.Equal(t, int64(1), sumFor(t, got["servicepack_clones_total"], telemetry.AttrTarget.String("template")))
	assert.Equal(t, int64(1), sumFor(t, got["servicepack_persistence_failures_total"], telemetry.AttrOp.String("save bundles")))

	hist, ok := got["servicepack_estimated_cost"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	var total float64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	assert.Equal(t, uint64(2), count)
	assert.InDelta(t, 399.4, total, 0.0001)
}

func TestNewBuilderMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewBuilderMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{ServiceName: "servicepack"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("servicepack"))
	assert.NoError(t, mp.Shutdown(ctx))
}
