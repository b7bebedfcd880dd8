package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/coderguy16/sales-report-automation/internal/config"
	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/internal/generator"
	"github.com/coderguy16/sales-report-automation/internal/shared/testutil"
)

type recordingSender struct {
	paths []string
	err   error
}

func (s *recordingSender) Send(_ context.Context, path string) error {
	s.paths = append(s.paths, path)
	return s.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Pipeline.RawDataPath = filepath.Join(dir, "raw_sales_data.csv")
	cfg.Pipeline.Records = 200
	cfg.Pipeline.NullRows = 10
	cfg.Pipeline.DuplicateRows = 10
	cfg.Pipeline.Seed = 7
	cfg.Report.OutputPath = filepath.Join(dir, "sales_report.xlsx")
	cfg.Telemetry.MetricsFile = filepath.Join(dir, "metrics", "salesreport.prom")
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, sender Sender) (*Application, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	a, err := NewApplication(cfg, logger,
		WithSender(sender),
		WithGeneratorOptions(generator.WithClock(func() time.Time {
			return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a, handler
}

func TestApplication_Run(t *testing.T) {
	cfg := testConfig(t)
	sender := &recordingSender{}
	a, _ := newTestApp(t, cfg, sender)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, cfg.Report.OutputPath, result.ReportPath)
	assert.True(t, result.Delivered)
	assert.NoError(t, result.DeliveryErr)
	assert.Equal(t, []string{result.ReportPath}, sender.paths)

	assert.Equal(t, 210, result.ParseStats.Records)
	assert.Equal(t, 210, result.CleanStats.Input)
	assert.Greater(t, result.CleanStats.Output, 0)
	assert.Equal(t, result.CleanStats.Input-result.CleanStats.Dropped(), result.CleanStats.Output)

	f, err := excelize.OpenFile(result.ReportPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Cleaned Data", "Summary", "Monthly Sales"}, f.GetSheetList())

	rows, err := f.GetRows("Cleaned Data")
	require.NoError(t, err)
	assert.Len(t, rows, result.CleanStats.Output+1)
}

func TestApplication_Run_LogsCleanStatsOnce(t *testing.T) {
	a, handler := newTestApp(t, testConfig(t), &recordingSender{})

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	var withStats []testutil.LogRecord
	for _, r := range handler.GetRecords() {
		if _, ok := r.Attrs["unrecognized_addresses"]; ok {
			withStats = append(withStats, r)
		}
	}
	require.Len(t, withStats, 1)
	assert.Equal(t, "sales data cleaned", withStats[0].Message)
	assert.EqualValues(t, result.CleanStats.Output, withStats[0].Attrs["output"])
}

func TestApplication_Run_DeliveryFailureKeepsReport(t *testing.T) {
	cfg := testConfig(t)
	sender := &recordingSender{err: apperrors.NewDeliveryError("failed to send report", errors.New("535 bad credentials"))}
	a, handler := newTestApp(t, cfg, sender)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	require.Error(t, result.DeliveryErr)
	assert.True(t, apperrors.IsType(result.DeliveryErr, apperrors.ErrTypeDelivery))
	assert.False(t, result.Delivered)
	assert.FileExists(t, result.ReportPath)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "report delivery failed")
}

func TestApplication_Run_DeliveryDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Delivery.Enabled = false
	sender := &recordingSender{}
	a, _ := newTestApp(t, cfg, sender)

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, sender.paths)
	assert.False(t, result.Delivered)
	assert.NoError(t, result.DeliveryErr)
	assert.FileExists(t, result.ReportPath)
}

func TestApplication_Run_ExistingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Generate = false
	testutil.WriteFile(t, filepath.Dir(cfg.Pipeline.RawDataPath), filepath.Base(cfg.Pipeline.RawDataPath),
		"order_id,customer,product,quantity,price,order_date,email,address\n"+
			"o1,JOHN DOE,laptop A,2,1234.50,2024-01-05,john@example.com,\"123 Main St, Springfield, IL 62701\"\n"+
			"o1,JOHN DOE,laptop A,2,1234.50,2024-01-05,john@example.com,\"123 Main St, Springfield, IL 62701\"\n"+
			"o2,JANE ROE,laptop B,1,10,not a date,jane@example.com,\n")
	a, _ := newTestApp(t, cfg, &recordingSender{})

	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.ParseStats.Records)
	assert.Equal(t, 1, result.CleanStats.Duplicates)
	assert.Equal(t, 1, result.CleanStats.InvalidDates)
	assert.Equal(t, 1, result.CleanStats.Output)
}

func TestApplication_Run_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, cfg *config.Config)
		wantType apperrors.ErrorType
	}{
		{
			name: "missing input",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Pipeline.Generate = false
			},
			wantType: apperrors.ErrTypeStorage,
		},
		{
			name: "missing column",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Pipeline.Generate = false
				testutil.WriteFile(t, filepath.Dir(cfg.Pipeline.RawDataPath), filepath.Base(cfg.Pipeline.RawDataPath),
					"order_id,customer,product,quantity,price\no1,A,laptop A,1,1\n")
			},
			wantType: apperrors.ErrTypeSchema,
		},
		{
			name: "report not writable",
			setup: func(t *testing.T, cfg *config.Config) {
				blocker := testutil.WriteFile(t, t.TempDir(), "blocker", "x")
				cfg.Report.OutputPath = filepath.Join(blocker, "sales_report.xlsx")
			},
			wantType: apperrors.ErrTypeStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.setup(t, cfg)
			sender := &recordingSender{}
			a, _ := newTestApp(t, cfg, sender)

			result, err := a.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsType(err, tt.wantType), err.Error())
			assert.Empty(t, sender.paths)
		})
	}
}

func TestApplication_Shutdown_WritesMetrics(t *testing.T) {
	cfg := testConfig(t)
	logger, _ := testutil.NewTestLogger(t)
	a, err := NewApplication(cfg, logger, WithSender(&recordingSender{}))
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Shutdown(context.Background()))

	data, err := os.ReadFile(cfg.Telemetry.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "salesreport_reports_written_total")
	assert.Contains(t, string(data), `outcome="sent"`)
}
