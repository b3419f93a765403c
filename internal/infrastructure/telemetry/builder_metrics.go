package telemetry

import (
	"context"
	"errors"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys used by builder metrics
var (
	AttrKind   = attribute.Key("kind")
	AttrSource = attribute.Key("source")
	AttrCode   = attribute.Key("error_code")
	AttrMode   = attribute.Key("mode")
	AttrTarget = attribute.Key("target")
	AttrOp     = attribute.Key("op")
)

// Histogram buckets
var (
	HoursBuckets = []float64{0.5, 1, 2, 4, 8, 16, 40, 80}
	CostBuckets  = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000}
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BuilderMetrics records service package builder activity
type BuilderMetrics struct {
	insertions          *Counter
	rejectedInsertions  *Counter
	saves               *Counter
	totalHours          *Histogram
	estimatedCost       *Histogram
	clones              *Counter
	deletes             *Counter
	cascadedBundles     *Counter
	persistenceFailures *Counter
}

// NewBuilderMetrics registers the builder instruments on meter
func NewBuilderMetrics(meter metric.Meter) (*BuilderMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &BuilderMetrics{}
	var err error

	counters := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&m.insertions, "servicepack_insertions_total", "Entries inserted into composition sessions", "{entries}"},
		{&m.rejectedInsertions, "servicepack_insertions_rejected_total", "Insertion intents rejected", "{intents}"},
		{&m.saves, "servicepack_saves_total", "Service packages saved", "{saves}"},
		{&m.clones, "servicepack_clones_total", "Templates and bundles cloned", "{clones}"},
		{&m.deletes, "servicepack_deletes_total", "Templates and bundles deleted", "{deletes}"},
		{&m.cascadedBundles, "servicepack_cascaded_bundles_total", "Bundles removed by template cascade", "{bundles}"},
		{&m.persistenceFailures, "servicepack_persistence_failures_total", "Persistence store failures", "{failures}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	if m.totalHours, err = NewHistogram(meter, "servicepack_total_hours",
		"Labor hours of saved service packages", "h", HoursBuckets...); err != nil {
		return nil, err
	}
	if m.estimatedCost, err = NewHistogram(meter, "servicepack_estimated_cost",
		"Estimated cost of saved service bundles", "{currency}", CostBuckets...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordInsert counts an accepted insertion
func (m *BuilderMetrics) RecordInsert(ctx context.Context, kind servicepack.Kind, source appservicepack.Source) {
	m.insertions.Inc(ctx, AttrKind.String(string(kind)), AttrSource.String(string(source)))
}

// RecordInsertRejected counts a rejected insertion by error code
func (m *BuilderMetrics) RecordInsertRejected(ctx context.Context, kind servicepack.Kind, code string) {
	m.rejectedInsertions.Inc(ctx, AttrKind.String(string(kind)), AttrCode.String(code))
}

// RecordSave counts a save and records its hours and cost
func (m *BuilderMetrics) RecordSave(ctx context.Context, editing bool, totalHours, estimatedCost decimal.Decimal) {
	mode := AttrMode.String("new")
	if editing {
		mode = AttrMode.String("edit")
	}
	m.saves.Inc(ctx, mode)
	m.totalHours.Record(ctx, totalHours.InexactFloat64(), mode)
	m.estimatedCost.Record(ctx, estimatedCost.InexactFloat64(), mode)
}

// RecordClone counts a clone of target
func (m *BuilderMetrics) RecordClone(ctx context.Context, target string) {
	m.clones.Inc(ctx, AttrTarget.String(target))
}

// RecordDelete counts a delete and the bundles it cascaded to
func (m *BuilderMetrics) RecordDelete(ctx context.Context, cascadedBundles int) {
	m.deletes.Inc(ctx)
	if cascadedBundles > 0 {
		m.cascadedBundles.Add(ctx, int64(cascadedBundles))
	}
}

// RecordPersistenceFailure counts a store failure of op
func (m *BuilderMetrics) RecordPersistenceFailure(ctx context.Context, op string) {
	m.persistenceFailures.Inc(ctx, AttrOp.String(op))
}

var _ appservicepack.Metrics = (*BuilderMetrics)(nil)
