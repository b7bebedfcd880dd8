package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderguy16/sales-report-automation/internal/infrastructure"
)

// setupEnv runs the CLI in an empty working directory with a small data set
func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })

	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	for key, value := range map[string]string{
		"SALES_PIPELINE_RECORDS":        "60",
		"SALES_PIPELINE_NULL_ROWS":      "3",
		"SALES_PIPELINE_DUPLICATE_ROWS": "3",
		"SALES_PIPELINE_SEED":           "11",
		"SALES_LOGGING_LOG_LEVEL":       "error",
		"SALES_LOGGING_LOG_OUTPUT":      "console",
		"SALES_DELIVERY_EMAIL_USER":     "",
		"SALES_DELIVERY_EMAIL_PASSWORD": "",
		"SALES_DELIVERY_CLIENT_EMAIL":   "",
		"SALES_TELEMETRY_METRICS_FILE":  "",
	} {
		t.Setenv(key, value)
	}
	return dir
}

func TestRun_DeliveryDisabled(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("SALES_DELIVERY_DELIVERY_ENABLED", "false")

	var out bytes.Buffer
	require.NoError(t, newCLI(&out).Run([]string{"salesreport"}))

	wd, err := os.Getwd()
	require.NoError(t, err)
	report := filepath.Join(wd, "sales_report.xlsx")
	assert.Contains(t, out.String(), "Report generated under: "+report)
	assert.Contains(t, out.String(), "Email delivery is disabled")
	assert.FileExists(t, report)
	assert.FileExists(t, filepath.Join(dir, "raw_sales_data.csv"))
}

func TestRun_DeliveryFailureIsNotFatal(t *testing.T) {
	setupEnv(t)
	t.Setenv("SALES_DELIVERY_DELIVERY_ENABLED", "true")

	var out bytes.Buffer
	require.NoError(t, newCLI(&out).Run([]string{"salesreport"}))

	assert.Contains(t, out.String(), "Report generated under: ")
	assert.Contains(t, out.String(), "Email sending failed: ")
	assert.NotContains(t, out.String(), "sent successfully")
}

func TestRun_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("SALES_REPORT_OUTPUT_PATH", "report.txt")

	var out bytes.Buffer
	err := newCLI(&out).Run([]string{"salesreport"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Empty(t, out.String())
}
