package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the resume parser's domain instruments
type Metrics struct {
	ExtractionsTotal   metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	CompletenessScore  metric.Int64Histogram
	DocumentsFailed    metric.Int64Counter
	RateLimitHits      metric.Int64Counter
}

// ObservabilityManager manages OpenTelemetry setup. A nil or disabled
// manager hands out no-op tracers and records nothing.
type ObservabilityManager struct {
	config         config.ObservabilityConfig
	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	manualReader   *sdkmetric.ManualReader
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewObservabilityManager creates a new observability manager. version
// fills in the service version when the config leaves it empty.
func NewObservabilityManager(obsConfig config.ObservabilityConfig, version string) (*ObservabilityManager, error) {
	if obsConfig.ServiceVersion == "" {
		obsConfig.ServiceVersion = version
	}
	om := &ObservabilityManager{config: obsConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	if err := om.initResource(); err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}

	if obsConfig.Tracing.Enabled {
		if err := om.initTracing(); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if obsConfig.Metrics.Enabled {
		if err := om.initMetrics(); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	return om, nil
}

// initResource creates the OpenTelemetry resource shared by traces and metrics
func (om *ObservabilityManager) initResource() error {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(om.config.ServiceName),
		semconv.ServiceVersion(om.config.ServiceVersion),
	}
	if om.config.ServiceInstance != "" {
		attrs = append(attrs, attribute.String("service.instance.id", om.config.ServiceInstance))
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	om.resource = res
	return nil
}

// initTracing sets up OpenTelemetry tracing
func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.config.Console.Enabled:
		opts := []stdouttrace.Option{}
		if om.config.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.config.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.config.SampleRate))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initCustomMetrics()
}

// setupMetricReaders sets up all metric readers based on configuration
func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	interval := om.getMetricsCollectionInterval()

	if om.config.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.config.OTLP.Enabled {
		reader, err := om.createOTLPMetricsReader(interval)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		shutdown := StartPrometheusServer(mux, om.config.Prometheus.Port)
		om.shutdownFuncs = append(om.shutdownFuncs, shutdown)
		readers = append(readers, reader)
	}

	// keep metrics collectable when no exporter is configured
	if len(readers) == 0 {
		om.manualReader = sdkmetric.NewManualReader()
		readers = append(readers, om.manualReader)
	}

	return readers, nil
}

// initCustomMetrics creates the domain instruments
func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	m := &Metrics{}
	var err error

	m.ExtractionsTotal, err = meter.Int64Counter(
		"resumeparser.extractions.total",
		metric.WithDescription("Total number of resume extractions"),
	)
	if err != nil {
		return fmt.Errorf("failed to create extractions metric: %w", err)
	}

	m.ExtractionDuration, err = meter.Float64Histogram(
		"resumeparser.extraction.duration",
		metric.WithDescription("Time spent extracting a resume"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create extraction duration metric: %w", err)
	}

	m.CompletenessScore, err = meter.Int64Histogram(
		"resumeparser.completeness.score",
		metric.WithDescription("Completeness score of extracted resumes"),
		metric.WithExplicitBucketBoundaries(0, 25, 50, 75, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create completeness score metric: %w", err)
	}

	m.DocumentsFailed, err = meter.Int64Counter(
		"resumeparser.documents.failed",
		metric.WithDescription("Documents that could not be turned into text"),
	)
	if err != nil {
		return fmt.Errorf("failed to create documents failed metric: %w", err)
	}

	m.RateLimitHits, err = meter.Int64Counter(
		"resumeparser.rate_limit.hits",
		metric.WithDescription("Total number of rate limited requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	om.metrics = m
	return nil
}

// GetMetrics returns the metrics instance, or nil when metrics are off
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil {
		return nil
	}
	return om.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{}
	if om.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(om.tracerProvider))
	}
	if om.meterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(om.meterProvider))
	}
	return otelhttp.NewMiddleware(om.config.ServiceName, opts...)
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || om.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TrackExtraction runs fn inside an "extract" span and records the
// extraction metrics for its result. source is "text" or a document format.
func (om *ObservabilityManager) TrackExtraction(ctx context.Context, source string, fn func(context.Context) (types.ParseResult, error)) (types.ParseResult, error) {
	ctx, span := om.Tracer("resumeparser.pipeline").Start(ctx, "extract",
		oteltrace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	start := time.Now()
	result, err := fn(ctx)
	duration := time.Since(start).Seconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.String("strategy", string(result.Resume.Metadata.Strategy)),
			attribute.Int("completeness", result.Quality.CompletenessScore),
			attribute.Int("characters", result.Resume.Metadata.TotalCharacters),
		)
	}

	m := om.GetMetrics()
	if m == nil {
		return result, err
	}

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.Bool("success", err == nil),
	}
	if err == nil {
		attrs = append(attrs, attribute.String("strategy", string(result.Resume.Metadata.Strategy)))
		m.CompletenessScore.Record(ctx, int64(result.Quality.CompletenessScore),
			metric.WithAttributes(attribute.String("source", source)))
	}
	m.ExtractionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ExtractionDuration.Record(ctx, duration, metric.WithAttributes(attrs...))

	return result, err
}

// RecordDocumentFailure counts a document that produced no text.
func (om *ObservabilityManager) RecordDocumentFailure(ctx context.Context, reason string) {
	if m := om.GetMetrics(); m != nil {
		m.DocumentsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// RecordRateLimitHit counts a rejected request.
func (om *ObservabilityManager) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m := om.GetMetrics(); m != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
	}
}

// No-op exporter for when no trace backend is configured
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.config.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (om *ObservabilityManager) createOTLPMetricsReader(interval time.Duration) (sdkmetric.Reader, error) {
	otlpConfig := om.config.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

// getMetricsCollectionInterval returns the configured metrics collection interval
func (om *ObservabilityManager) getMetricsCollectionInterval() time.Duration {
	if om.config.Metrics.CollectionInterval > 0 {
		return om.config.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
