package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderguy16/sales-report-automation/internal/config"
)

func decodeLines(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger_File(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("report written", "rows", 12)
	logger.Debug("suppressed")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entries := decodeLines(t, content)
	require.Len(t, entries, 1)
	assert.Equal(t, "report written", entries[0]["msg"])
	assert.Equal(t, float64(12), entries[0]["rows"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestCreateLogger_Both(t *testing.T) {
	defer CloseLogFile()

	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "run.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}, &console)
	require.NoError(t, err)

	logger.Debug("parsed row")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, console.String(), "parsed row")
	assert.Contains(t, string(content), "parsed row")
}

func TestCreateLogger_TextFormat(t *testing.T) {
	var console bytes.Buffer
	logger, err := createLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "console"}, &console)
	require.NoError(t, err)

	logger.Warn("skipping line", "line", 7)

	out := console.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="skipping line"`)
	assert.Contains(t, out, "line=7")
}

func TestRunIDInjection(t *testing.T) {
	var console bytes.Buffer
	logger, err := createLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &console)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	logger.With("component", "report").InfoContext(ctx, "with run")
	logger.InfoContext(context.Background(), "without run")

	entries := decodeLines(t, console.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "run-123", entries[0]["run_id"])
	assert.Equal(t, "report", entries[0]["component"])
	assert.NotContains(t, entries[1], "run_id")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input).String())
		})
	}
}

func TestRunIDContext(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))

	ctx := ContextWithRunID(context.Background())
	runID := GetRunID(ctx)
	assert.Len(t, runID, 36)

	assert.Equal(t, runID, GetRunID(EnsureRunID(ctx)), "existing run id is kept")
	assert.NotEmpty(t, GetRunID(EnsureRunID(context.Background())))
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestLoggerHelpers(t *testing.T) {
	var console bytes.Buffer
	logger, err := createLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &console)
	require.NoError(t, err)

	WithError(WithComponent(logger, "delivery"), assert.AnError).Error("send failed")
	assert.Same(t, logger, WithError(logger, nil))

	entries := decodeLines(t, console.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "delivery", entries[0]["component"])
	assert.Equal(t, assert.AnError.Error(), entries[0]["error"])
}
