package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/types"
)

const catalogScopeName = "github.com/shaftlab/shaftdb/internal/catalog"

// InstrumentedStore wraps catalog.Store with OTel tracing and metrics.
// Every method gets a span and is counted in shaftdb.catalog.* metrics.
// Use WrapStore to create one; it returns the original store unchanged when
// telemetry is disabled.
type InstrumentedStore struct {
	inner      catalog.Store
	tracer     trace.Tracer
	ops        metric.Int64Counter
	dur        metric.Float64Histogram
	errs       metric.Int64Counter
	shaftGauge metric.Int64Gauge
}

// WrapStore returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStore(s catalog.Store) catalog.Store {
	if !Enabled() {
		return s
	}
	m := Meter(catalogScopeName)
	ops, _ := m.Int64Counter("shaftdb.catalog.operations",
		metric.WithDescription("Total catalog operations executed"),
	)
	dur, _ := m.Float64Histogram("shaftdb.catalog.operation.duration",
		metric.WithDescription("Catalog operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("shaftdb.catalog.errors",
		metric.WithDescription("Total catalog operation errors"),
	)
	shaftGauge, _ := m.Int64Gauge("shaftdb.shaft.count",
		metric.WithDescription("Current number of shafts by club type (snapshot from Stats)"),
	)
	return &InstrumentedStore{
		inner:      s,
		tracer:     Tracer(catalogScopeName),
		ops:        ops,
		dur:        dur,
		errs:       errs,
		shaftGauge: shaftGauge,
	}
}

// op starts a span and records a metric for the named catalog operation.
func (s *InstrumentedStore) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("db.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "catalog."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedStore) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStore) Insert(ctx context.Context, spec *types.ShaftSpec) error {
	attrs := []attribute.KeyValue{
		attribute.String("shaftdb.shaft.key", spec.Key().String()),
	}
	ctx, span, t := s.op(ctx, "Insert", attrs...)
	err := s.inner.Insert(ctx, spec)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Replace(ctx context.Context, spec *types.ShaftSpec) error {
	attrs := []attribute.KeyValue{
		attribute.String("shaftdb.shaft.key", spec.Key().String()),
	}
	ctx, span, t := s.op(ctx, "Replace", attrs...)
	err := s.inner.Replace(ctx, spec)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Remove(ctx context.Context, key types.Key) error {
	attrs := []attribute.KeyValue{
		attribute.String("shaftdb.shaft.key", key.String()),
	}
	ctx, span, t := s.op(ctx, "Remove", attrs...)
	err := s.inner.Remove(ctx, key)
	s.done(ctx, span, t, err, attrs...)
	return err
}

func (s *InstrumentedStore) Get(ctx context.Context, key types.Key) (*types.ShaftSpec, error) {
	attrs := []attribute.KeyValue{
		attribute.String("shaftdb.shaft.key", key.String()),
	}
	ctx, span, t := s.op(ctx, "Get", attrs...)
	v, err := s.inner.Get(ctx, key)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) GetByID(ctx context.Context, id string) (*types.ShaftSpec, error) {
	attrs := []attribute.KeyValue{attribute.String("shaftdb.shaft.id", id)}
	ctx, span, t := s.op(ctx, "GetByID", attrs...)
	v, err := s.inner.GetByID(ctx, id)
	s.done(ctx, span, t, err, attrs...)
	return v, err
}

func (s *InstrumentedStore) Query(ctx context.Context, filter types.Filter) ([]*types.ShaftSpec, error) {
	ctx, span, t := s.op(ctx, "Query")
	v, err := s.inner.Query(ctx, filter)
	if err == nil {
		span.SetAttributes(attribute.Int("shaftdb.result.count", len(v)))
	}
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) Manufacturers(ctx context.Context) ([]string, error) {
	ctx, span, t := s.op(ctx, "Manufacturers")
	v, err := s.inner.Manufacturers(ctx)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) Stats(ctx context.Context) (*types.Statistics, error) {
	ctx, span, t := s.op(ctx, "Stats")
	v, err := s.inner.Stats(ctx)
	s.done(ctx, span, t, err)
	if err == nil && v != nil {
		// Record current shaft counts as gauge snapshots, broken down by club type.
		for clubType, n := range v.ByClubType {
			s.shaftGauge.Record(ctx, int64(n),
				metric.WithAttributes(attribute.String("club_type", string(clubType))),
			)
		}
	}
	return v, err
}

func (s *InstrumentedStore) Len(ctx context.Context) (int, error) {
	ctx, span, t := s.op(ctx, "Len")
	v, err := s.inner.Len(ctx)
	s.done(ctx, span, t, err)
	return v, err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
