package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// Attribute keys recorded on stream spans and metric points.
const (
	AttrStreamID = "stream.id"
	AttrStream   = "stream.name"
	AttrVariant  = "stream.variant"
	AttrTerminal = "stream.terminal"
	AttrOps      = "stream.ops"
	AttrPulled   = "stream.pulled"
	AttrEmitted  = "stream.emitted"
	AttrStatus   = "status"
	AttrStage    = "stage"
)

// Metric names.
const (
	MetricTerminals = "stream.terminal.total"
	MetricElements  = "stream.elements.total"
	MetricDuration  = "stream.terminal.duration"
)

// StreamObserver implements stream.Observer. Each terminal call becomes a span
// covering the drain, one increment of the terminal counter, pulled and
// emitted element counts, and a duration sample.
type StreamObserver struct {
	tracer    trace.Tracer
	terminals metric.Int64Counter
	elements  metric.Int64Counter
	duration  metric.Float64Histogram
}

var _ stream.Observer = (*StreamObserver)(nil)

// NewStreamObserver creates the instruments on the given providers.
func NewStreamObserver(tp trace.TracerProvider, mp metric.MeterProvider) (*StreamObserver, error) {
	meter := mp.Meter(InstrumentationName)

	terminals, err := meter.Int64Counter(MetricTerminals,
		metric.WithDescription("Stream terminal calls by terminal, variant and status"),
	)
	if err != nil {
		return nil, errors.Internal(err)
	}

	elements, err := meter.Int64Counter(MetricElements,
		metric.WithDescription("Elements pulled from sources and emitted by pipelines"),
	)
	if err != nil {
		return nil, errors.Internal(err)
	}

	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of stream terminal calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &StreamObserver{
		tracer:    tp.Tracer(InstrumentationName),
		terminals: terminals,
		elements:  elements,
		duration:  duration,
	}, nil
}

// ObserveTerminal records ev.
func (o *StreamObserver) ObserveTerminal(ctx context.Context, ev stream.TerminalEvent) {
	status := Status(ev.Err)
	base := []attribute.KeyValue{
		attribute.String(AttrTerminal, ev.Terminal),
		attribute.String(AttrVariant, string(ev.Variant)),
	}

	_, span := o.tracer.Start(ctx, "stream."+ev.Terminal,
		trace.WithTimestamp(ev.Start),
		trace.WithAttributes(base...),
		trace.WithAttributes(
			attribute.String(AttrStreamID, ev.StreamID),
			attribute.Int(AttrOps, ev.Ops),
			attribute.Int(AttrPulled, ev.Pulled),
			attribute.Int(AttrEmitted, ev.Emitted),
		),
	)
	if ev.Name != "" {
		span.SetAttributes(attribute.String(AttrStream, ev.Name))
	}
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, status)
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))

	withStatus := metric.WithAttributes(append(base, attribute.String(AttrStatus, status))...)
	o.terminals.Add(ctx, 1, withStatus)
	o.duration.Record(ctx, ev.Duration.Seconds(), withStatus)
	o.elements.Add(ctx, int64(ev.Pulled), metric.WithAttributes(append(base, attribute.String(AttrStage, "pulled"))...))
	o.elements.Add(ctx, int64(ev.Emitted), metric.WithAttributes(append(base, attribute.String(AttrStage, "emitted"))...))
}

// Status is "ok" for a nil error, the AppError code for stream errors and
// "error" otherwise.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "error"
}
