package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/coderguy16/sales-report-automation/internal/config"
	"github.com/coderguy16/sales-report-automation/internal/dataprocessing"
	"github.com/coderguy16/sales-report-automation/internal/delivery"
	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/internal/generator"
	"github.com/coderguy16/sales-report-automation/internal/infrastructure"
	"github.com/coderguy16/sales-report-automation/internal/report"
	"github.com/coderguy16/sales-report-automation/internal/validation"
	"github.com/coderguy16/sales-report-automation/pkg/contracts"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

// Pipeline stage names, used as span names and metric labels
const (
	StagePipeline = "pipeline"
	StageGenerate = "generate"
	StageParse    = "parse"
	StageClean    = "clean"
	StageReport   = "build_report"
	StageDeliver  = "deliver"
)

// Sender delivers a finished report
type Sender interface {
	Send(ctx context.Context, artifactPath string) error
}

// Result describes one pipeline run
type Result struct {
	RunID       string
	RawDataPath string
	ReportPath  string
	ParseStats  dataprocessing.ParseStats
	CleanStats  dataprocessing.CleanStats
	Delivered   bool
	// DeliveryErr is set when sending failed. The report is still valid.
	DeliveryErr error
	Duration    time.Duration
}

// Option configures an Application
type Option func(*Application)

// WithSender replaces the email sender
func WithSender(s Sender) Option {
	return func(a *Application) {
		a.Sender = s
	}
}

// WithTelemetry uses t instead of building telemetry from the config
func WithTelemetry(t *infrastructure.Telemetry) Option {
	return func(a *Application) {
		a.Telemetry = t
	}
}

// WithGeneratorOptions passes options to the synthetic data generator
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(a *Application) {
		a.generatorOpts = append(a.generatorOpts, opts...)
	}
}

// Application wires the pipeline stages together
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Generator *generator.Generator
	Parser    *dataprocessing.Parser
	Cleaner   *dataprocessing.Cleaner
	Builder   *report.Builder
	Sender    Sender

	files         *validation.FileValidator
	generatorOpts []generator.Option
}

// NewApplication creates the pipeline for cfg. Telemetry is built from
// cfg.Telemetry unless WithTelemetry is given.
func NewApplication(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		files:  validation.NewFileValidator(infrastructure.WithComponent(logger, "validation")),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Telemetry == nil {
		tel, err := infrastructure.InitTelemetry(cfg.Telemetry, logger)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
		}
		a.Telemetry = tel
	}

	a.Generator = generator.NewGenerator(cfg.Pipeline, infrastructure.WithComponent(logger, StageGenerate), a.generatorOpts...)
	a.Parser = dataprocessing.NewParser(infrastructure.WithComponent(logger, "parser"))
	a.Cleaner = dataprocessing.NewCleaner(infrastructure.WithComponent(logger, "cleaner"))
	a.Builder = report.NewBuilder(infrastructure.WithComponent(logger, "report"))
	if a.Sender == nil {
		a.Sender = delivery.NewMailer(cfg.Delivery, infrastructure.WithComponent(logger, "delivery"))
	}

	return a, nil
}

// Run executes generate, parse, clean, build and deliver in order. An
// error is returned only when no report could be produced; a failed
// delivery is reported in Result.DeliveryErr.
func (a *Application) Run(ctx context.Context) (result *Result, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, endRun := a.Telemetry.StartStage(ctx, StagePipeline)
	defer func() { endRun(err) }()

	start := time.Now()
	metrics := a.Telemetry.Metrics

	result = &Result{
		RunID:       infrastructure.GetRunID(ctx),
		RawDataPath: a.Config.Pipeline.RawDataPath,
	}

	a.Logger.InfoContext(ctx, "pipeline started",
		slog.String("version", contracts.Version),
		slog.String("raw_data_path", result.RawDataPath),
		slog.String("report_path", a.Config.Report.OutputPath),
		slog.Bool("generate", a.Config.Pipeline.Generate),
		slog.String("trace_id", infrastructure.TraceIDFromContext(ctx)))

	if err := a.prepareInput(ctx); err != nil {
		return nil, err
	}

	stageCtx, end := a.Telemetry.StartStage(ctx, StageParse)
	raw, parseStats, err := a.Parser.ParseFile(stageCtx, result.RawDataPath)
	end(err)
	if err != nil {
		return nil, err
	}
	result.ParseStats = parseStats
	infrastructure.SetSpanAttributes(stageCtx, map[string]interface{}{
		"rows.read":      parseStats.Lines,
		"rows.malformed": parseStats.Malformed,
	})
	metrics.AddRowsRead(ctx, parseStats.Lines)
	metrics.AddRowsDropped(ctx, infrastructure.DropReasonMalformed, parseStats.Malformed)

	stageCtx, end = a.Telemetry.StartStage(ctx, StageClean)
	records, cleanStats := a.Cleaner.Clean(stageCtx, raw)
	end(nil)
	result.CleanStats = cleanStats
	metrics.AddRowsDropped(ctx, infrastructure.DropReasonDuplicate, cleanStats.Duplicates)
	metrics.AddRowsDropped(ctx, infrastructure.DropReasonMissingDate, cleanStats.MissingDates)
	metrics.AddRowsDropped(ctx, infrastructure.DropReasonInvalidDate, cleanStats.InvalidDates)
	metrics.AddRowsCleaned(ctx, cleanStats.Output)

	stageCtx, end = a.Telemetry.StartStage(ctx, StageReport)
	reportPath, err := a.buildReport(stageCtx, records)
	end(err)
	if err != nil {
		return nil, err
	}
	result.ReportPath = reportPath
	metrics.IncReportsWritten(ctx)

	a.deliver(ctx, result)

	result.Duration = time.Since(start)
	a.Logger.InfoContext(ctx, "pipeline finished",
		slog.String("report_path", result.ReportPath),
		slog.Bool("delivered", result.Delivered),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// buildReport checks that the report directory is writable, then writes
// the workbook
func (a *Application) buildReport(ctx context.Context, records []domain.SalesRecord) (string, error) {
	dir := filepath.Dir(a.Config.Report.OutputPath)
	if err := a.files.ValidateOutputDirectory(dir); err != nil {
		return "", apperrors.NewStorageError("report directory is not writable", err).
			WithContext("directory", dir)
	}
	return a.Builder.Build(ctx, records, a.Config.Report.OutputPath)
}

// prepareInput writes a fresh synthetic raw file, or checks that the
// configured one is readable when generation is off
func (a *Application) prepareInput(ctx context.Context) (err error) {
	path := a.Config.Pipeline.RawDataPath

	if !a.Config.Pipeline.Generate {
		if err := a.files.ValidateCSVFile(path); err != nil {
			return apperrors.NewStorageError("raw data file is not usable", err).
				WithContext("path", path)
		}
		return nil
	}

	stageCtx, end := a.Telemetry.StartStage(ctx, StageGenerate)
	defer func() { end(err) }()

	records := a.Generator.Generate()
	written, err := a.Generator.WriteCSV(path, records)
	if err != nil {
		return apperrors.NewStorageError("failed to write raw data", err).
			WithContext("path", path)
	}

	a.Logger.InfoContext(stageCtx, "raw data generated",
		slog.String("path", written),
		slog.Int("rows", len(records)),
		slog.Int64("seed", a.Generator.Seed()))
	return nil
}

// deliver sends the report when delivery is enabled. Failures are recorded
// on result and logged; they never fail the run.
func (a *Application) deliver(ctx context.Context, result *Result) {
	metrics := a.Telemetry.Metrics

	if !a.Config.Delivery.Enabled {
		a.Logger.InfoContext(ctx, "delivery disabled, report not sent")
		metrics.IncDeliveries(ctx, infrastructure.DeliverySkipped)
		return
	}

	stageCtx, end := a.Telemetry.StartStage(ctx, StageDeliver)
	err := a.Sender.Send(stageCtx, result.ReportPath)
	end(err)

	if err != nil {
		result.DeliveryErr = err
		metrics.IncDeliveries(ctx, infrastructure.DeliveryFailed)
		infrastructure.WithError(a.Logger, err).WarnContext(ctx, "report delivery failed",
			slog.String("report_path", result.ReportPath))
		return
	}

	result.Delivered = true
	metrics.IncDeliveries(ctx, infrastructure.DeliverySent)
}

// Shutdown flushes telemetry and writes the metrics file
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down telemetry: %w", err)
	}
	return nil
}
