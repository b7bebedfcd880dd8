package report

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/internal/shared/testutil"
)

// chartParts returns the chart XML parts of the workbook keyed by name
func chartParts(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	parts := make(map[string]string)
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/charts/chart") {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = string(data)
	}
	return parts
}

func TestBuilder_Build(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	out := filepath.Join(t.TempDir(), "reports", "sales_report.xlsx")
	records := sampleRecords()

	path, err := NewBuilder(logger).Build(context.Background(), records, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.True(t, filepath.IsAbs(path))
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "report written")
	info, err := os.Stat(path)
	require.NoError(t, err)
	testutil.AssertLogAttr(t, handler, "size_bytes", info.Size())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCleanedData, SheetSummary, SheetMonthlySales}, f.GetSheetList())

	t.Run("cleaned data", func(t *testing.T) {
		rows, err := f.GetRows(SheetCleanedData, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		require.Len(t, rows, len(records)+1)
		assert.Equal(t, cleanedDataHeader, rows[0])
		assert.Equal(t, "Formatted Price", rows[0][len(rows[0])-1])

		first := rows[1]
		assert.Equal(t, "o1", first[0])
		assert.Equal(t, "MacBook Pro", first[2])
		assert.Equal(t, "2", first[3])
		assert.Equal(t, "1234.5", first[4])
		assert.Equal(t, "2024-01-05", first[5])
		assert.Equal(t, "Springfield", first[10])
		assert.Equal(t, "62701", first[12])
		assert.Equal(t, "2469", first[13])
		assert.Equal(t, "$2,469.00", first[14])
		assert.Equal(t, "$1,234.50", first[15])
	})

	t.Run("summary", func(t *testing.T) {
		rows, err := f.GetRows(SheetSummary)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, summaryHeader, rows[0])

		want := Summarize(records)
		for i, s := range want {
			assert.Equal(t, s.Product, rows[i+1][0])
			assert.Equal(t, s.FormattedTotalSales, rows[i+1][3])
		}
	})

	t.Run("monthly sales", func(t *testing.T) {
		rows, err := f.GetRows(SheetMonthlySales)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, []string{"Month", "Total Sales", "Formatted Total Sales"}, rows[0])
		assert.Equal(t, "December 2023", rows[1][0])
		assert.Equal(t, "January 2024", rows[2][0])
		assert.Equal(t, "February 2024", rows[3][0])
		assert.Equal(t, "$22.75", rows[3][2])
	})

	t.Run("charts", func(t *testing.T) {
		parts := chartParts(t, path)
		require.Len(t, parts, 2)

		contents := make([]string, 0, len(parts))
		for _, c := range parts {
			contents = append(contents, c)
		}
		sort.Strings(contents)
		joined := strings.Join(contents, "\n")

		assert.Contains(t, joined, "Laptop Sales")
		assert.Contains(t, joined, "Monthly Sales")
		assert.Contains(t, joined, "!$C$2:$C$5")
		assert.Contains(t, joined, "!$A$2:$A$5")
		assert.Contains(t, joined, "!$B$2:$B$4")
		assert.Contains(t, joined, "$#,##0")
	})
}

func TestBuilder_Build_NoRecords(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	out := filepath.Join(t.TempDir(), "empty.xlsx")

	path, err := NewBuilder(logger).Build(context.Background(), nil, out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCleanedData, SheetSummary, SheetMonthlySales}, f.GetSheetList())
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "sheet %s should hold only its header", sheet)
	}
	assert.Empty(t, chartParts(t, path))
}

func TestBuilder_Build_ReplacesExistingReport(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	out := filepath.Join(t.TempDir(), "sales_report.xlsx")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))

	_, err := NewBuilder(logger).Build(context.Background(), sampleRecords(), out)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should remain")
}

func TestBuilder_Build_WriteFailure(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	blocker := testutil.WriteFile(t, dir, "blocker", "not a directory")

	_, err := NewBuilder(logger).Build(context.Background(), sampleRecords(), filepath.Join(blocker, "sales_report.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	data, err := os.ReadFile(blocker)
	require.NoError(t, err)
	assert.Equal(t, "not a directory", string(data))
}
