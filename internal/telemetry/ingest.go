package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const ingestScopeName = "github.com/shaftlab/shaftdb/internal/ingest"

// IngestMetrics counts batch ingestion outcomes and traces per-file spans.
// Instruments are backed by the global providers, so every call is a no-op
// until Init enables telemetry. Instruments created before Init are
// delegated once the real providers are installed.
type IngestMetrics struct {
	tracer   trace.Tracer
	rows     metric.Int64Counter
	failures metric.Int64Counter
}

// NewIngestMetrics builds the ingestion instruments.
func NewIngestMetrics() *IngestMetrics {
	m := Meter(ingestScopeName)
	rows, _ := m.Int64Counter("shaftdb.ingest.rows",
		metric.WithDescription("Data rows stored during batch ingestion"),
	)
	failures, _ := m.Int64Counter("shaftdb.ingest.failures",
		metric.WithDescription("Data rows rejected during batch ingestion"),
	)
	return &IngestMetrics{
		tracer:   Tracer(ingestScopeName),
		rows:     rows,
		failures: failures,
	}
}

// StartFile opens a span covering the ingestion of one source file.
func (m *IngestMetrics) StartFile(ctx context.Context, file string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ingest.file",
		trace.WithAttributes(attribute.String("shaftdb.ingest.file", file)),
	)
}

// EndFile closes a file span, recording the error if the file failed as a
// whole (unreadable, bad header).
func (m *IngestMetrics) EndFile(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordRow counts one successfully stored row.
func (m *IngestMetrics) RecordRow(ctx context.Context) {
	m.rows.Add(ctx, 1)
}

// RecordFailure counts one rejected row.
func (m *IngestMetrics) RecordFailure(ctx context.Context) {
	m.failures.Add(ctx, 1)
}
