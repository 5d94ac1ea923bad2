package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"banking-chatbot/internal/common/config"
	"banking-chatbot/internal/common/logger"
)

// Observability owns the OpenTelemetry meter and tracer providers used by the
// prediction core. A zero value is safe to use and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	predictions    otelmetric.Int64Counter
	latency        otelmetric.Float64Histogram
}

type Option func(*options)

type options struct {
	exporter    sdktrace.SpanExporter
	sampleRatio float64
}

// WithSpanExporter batches finished spans into exp. Without one, spans are
// not recorded.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = exp }
}

// WithSampleRatio sets the fraction of root spans that are sampled.
func WithSampleRatio(r float64) Option {
	return func(o *options) { o.sampleRatio = r }
}

func New(serviceName string, log logger.Logger, opts ...Option) *Observability {
	o := options{sampleRatio: 1}
	for _, opt := range opts {
		opt(&o)
	}

	obs := &Observability{}
	if o.exporter != nil {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(o.exporter),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.sampleRatio))),
			sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		)
		otel.SetTracerProvider(tp)
		obs.tracerProvider = tp
		obs.tracer = tp.Tracer(serviceName)
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter, otel metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	obs.meterProvider = provider
	obs.predictions, _ = meter.Int64Counter(
		"chatbot.predictions",
		otelmetric.WithDescription("Number of utterances answered"),
	)
	obs.latency, _ = meter.Float64Histogram(
		"chatbot.prediction.duration",
		otelmetric.WithDescription("Message-response cycle duration"),
		otelmetric.WithUnit("ms"),
	)

	return obs
}

// NewSpanExporter builds the exporter named by cfg, or nil when tracing is
// off. The stdout exporter writes one JSON document per span.
func NewSpanExporter(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.TracingExporterStdout:
	case "", config.TracingExporterNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported span exporter %q", cfg.Exporter)
	}

	var (
		w    io.Writer
		file *os.File
	)
	switch cfg.Output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open span output: %w", err)
		}
		w, file = f, f
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if file != nil {
			_ = file.Close()
		}
		return nil, fmt.Errorf("create stdout span exporter: %w", err)
	}
	if file == nil {
		return exp, nil
	}
	return &fileExporter{SpanExporter: exp, file: file}, nil
}

type fileExporter struct {
	sdktrace.SpanExporter
	file *os.File
}

func (e *fileExporter) Shutdown(ctx context.Context) error {
	err := e.SpanExporter.Shutdown(ctx)
	if cerr := e.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ForceFlush exports every span that has ended so far.
func (o *Observability) ForceFlush(ctx context.Context) error {
	if o == nil || o.tracerProvider == nil {
		return nil
	}
	return o.tracerProvider.ForceFlush(ctx)
}

// Tracer returns the service tracer, or a no-op tracer on a zero value.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.tracer
}

// StartSpan opens a span named after a pipeline stage.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordPrediction(ctx context.Context, variant, kind string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("variant", variant),
		attribute.String("kind", kind),
	)
	if o.predictions != nil {
		o.predictions.Add(ctx, 1, attrs)
	}
	if o.latency != nil {
		o.latency.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
