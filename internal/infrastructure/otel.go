package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/coderguy16/sales-report-automation/internal/config"
	"github.com/coderguy16/sales-report-automation/pkg/contracts"
)

const (
	InstrumentationName = "salesreport"
	metricPrefix        = "salesreport_"
)

// Drop reasons recorded on the rows_dropped counter
const (
	DropReasonMalformed   = "malformed"
	DropReasonMissingDate = "missing_date"
	DropReasonDuplicate   = "duplicate"
	DropReasonInvalidDate = "invalid_date"
)

// Delivery outcomes recorded on the deliveries counter
const (
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)

// Telemetry holds the tracing and metrics providers of one pipeline run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider // nil when tracing is disabled
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics

	metricsFile string
	logger      *slog.Logger
}

// InitTelemetry builds the tracer and meter providers. Spans are exported
// to stderr when the trace exporter is "stdout". Metrics always go to a
// private Prometheus registry and are written to MetricsFile on Shutdown.
func InitTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	return newTelemetry(cfg, logger, os.Stderr)
}

func newTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(contracts.Version),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(traceOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(contracts.Version))
	case "none", "":
		t.Tracer = noop.NewTracerProvider().Tracer(InstrumentationName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.Metrics, err = NewPipelineMetrics(t.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(contracts.Version)))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// StartStage opens a span for one pipeline stage. The returned function ends
// the span, records the stage duration and marks the span failed when err is
// not nil.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, stage, trace.WithAttributes(attribute.String("stage", stage)))
	if runID := GetRunID(ctx); runID != "" {
		span.SetAttributes(attribute.String("run_id", runID))
	}

	return ctx, func(err error) {
		if err != nil {
			RecordError(ctx, err)
		}
		t.Metrics.RecordStage(ctx, stage, time.Since(start), err == nil)
		span.End()
	}
}

// Shutdown writes the metrics file, if configured, and flushes the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := config.EnsureParentDir(t.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		} else {
			t.logger.InfoContext(ctx, "metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// PipelineMetrics holds the counters of a pipeline run. A nil
// *PipelineMetrics records nothing.
type PipelineMetrics struct {
	RowsRead       metric.Int64Counter
	RowsDropped    metric.Int64Counter
	RowsCleaned    metric.Int64Counter
	ReportsWritten metric.Int64Counter
	Deliveries     metric.Int64Counter
	StageDuration  metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		metricPrefix+"rows_read",
		metric.WithDescription("Raw rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		metricPrefix+"rows_dropped",
		metric.WithDescription("Rows removed during reading and cleaning, by reason"),
	)
	if err != nil {
		return nil, err
	}

	rowsCleaned, err := meter.Int64Counter(
		metricPrefix+"rows_cleaned",
		metric.WithDescription("Rows in the cleaned data set"),
	)
	if err != nil {
		return nil, err
	}

	reportsWritten, err := meter.Int64Counter(
		metricPrefix+"reports_written",
		metric.WithDescription("Report workbooks written"),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter(
		metricPrefix+"deliveries",
		metric.WithDescription("Report delivery attempts, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		metricPrefix+"stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsRead:       rowsRead,
		RowsDropped:    rowsDropped,
		RowsCleaned:    rowsCleaned,
		ReportsWritten: reportsWritten,
		Deliveries:     deliveries,
		StageDuration:  stageDuration,
	}, nil
}

// AddRowsRead records n raw rows read
func (m *PipelineMetrics) AddRowsRead(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsRead.Add(ctx, int64(n))
}

// AddRowsDropped records n rows dropped for reason
func (m *PipelineMetrics) AddRowsDropped(ctx context.Context, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// AddRowsCleaned records n cleaned rows
func (m *PipelineMetrics) AddRowsCleaned(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsCleaned.Add(ctx, int64(n))
}

// IncReportsWritten records one written report
func (m *PipelineMetrics) IncReportsWritten(ctx context.Context) {
	if m == nil {
		return
	}
	m.ReportsWritten.Add(ctx, 1)
}

// IncDeliveries records one delivery attempt with its outcome
func (m *PipelineMetrics) IncDeliveries(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordStage records the duration of a stage
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}
