package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/internal/exporter"
	"github.com/coderguy16/sales-report-automation/internal/files"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

// Sheet names, in workbook order.
const (
	SheetCleanedData  = "Cleaned Data"
	SheetSummary      = "Summary"
	SheetMonthlySales = "Monthly Sales"
)

const (
	summaryChartCell = "F2"
	monthlyChartCell = "E2"
	chartAxisNumFmt  = "$#,##0"
	moneyNumFmt      = "#,##0.00"
)

// Header rows of the three sheets.
var (
	cleanedDataHeader = append(append([]string{}, domain.CleanedColumns...), domain.ColFormattedPrice)
	summaryHeader     = []string{domain.ColProduct, domain.ColQuantity, domain.ColTotalSales, domain.ColFormattedTotalSales}
	monthlyHeader     = []string{domain.ColMonth, domain.ColTotalSales, domain.ColFormattedTotalSales}
)

// Builder writes the sales workbook
type Builder struct {
	logger *slog.Logger
	files  *files.Manager
}

// NewBuilder creates a report builder
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger: logger,
		files:  files.NewManager(logger),
	}
}

// Build writes records to an xlsx workbook at outputPath and returns its
// absolute path. The workbook holds the cleaned data, a per-product summary
// with a column chart and a monthly series with a line chart. Charts are
// omitted when there are no records. The file is replaced atomically, so a
// failed build leaves any previous report in place.
func (b *Builder) Build(ctx context.Context, records []domain.SalesRecord, outputPath string) (string, error) {
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", apperrors.NewStorageError("failed to resolve report path", err).
			WithContext("path", outputPath)
	}

	summary := Summarize(records)
	monthly := MonthlySeries(records)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			b.logger.WarnContext(ctx, "failed to close workbook", slog.String("error", cerr.Error()))
		}
	}()

	if err := b.populate(f, records, summary, monthly); err != nil {
		return "", apperrors.NewStorageError("failed to build workbook", err).
			WithContext("path", absPath)
	}

	if err := b.files.WriteAtomic(absPath, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return "", apperrors.NewStorageError("failed to write report", err).
			WithContext("path", absPath)
	}

	size, err := b.files.GetFileSize(absPath)
	if err != nil {
		return "", apperrors.NewStorageError("report missing after write", err).
			WithContext("path", absPath)
	}

	b.logger.InfoContext(ctx, "report written",
		slog.String("path", absPath),
		slog.Int64("size_bytes", size),
		slog.Int("records", len(records)),
		slog.Int("products", len(summary)),
		slog.Int("months", len(monthly)),
		slog.String("grand_total", exporter.FormatCurrency(GrandTotal(records))))

	return absPath, nil
}

func (b *Builder) populate(f *excelize.File, records []domain.SalesRecord, summary []domain.ProductSummary, monthly []domain.MonthlySales) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetCleanedData); err != nil {
		return err
	}
	for _, name := range []string{SheetSummary, SheetMonthlySales} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return err
	}

	if err := writeCleanedData(f, styles, records); err != nil {
		return fmt.Errorf("write %s: %w", SheetCleanedData, err)
	}
	if err := writeSummary(f, styles, summary); err != nil {
		return fmt.Errorf("write %s: %w", SheetSummary, err)
	}
	if err := writeMonthly(f, styles, monthly); err != nil {
		return fmt.Errorf("write %s: %w", SheetMonthlySales, err)
	}

	if len(summary) > 0 {
		if err := f.AddChart(SheetSummary, summaryChartCell, productChart(len(summary))); err != nil {
			return fmt.Errorf("add product chart: %w", err)
		}
	}
	if len(monthly) > 0 {
		if err := f.AddChart(SheetMonthlySales, monthlyChartCell, monthlyChart(len(monthly))); err != nil {
			return fmt.Errorf("add monthly chart: %w", err)
		}
	}

	f.SetActiveSheet(0)
	return nil
}

type sheetStyles struct {
	header int
	money  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("header style: %w", err)
	}
	numFmt := moneyNumFmt
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("money style: %w", err)
	}
	return sheetStyles{header: header, money: money}, nil
}

// writeHeader writes the header row and sizes the columns
func writeHeader(f *excelize.File, sheet string, header []string, styles sheetStyles) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", styles.header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

// styleColumn applies styleID to rows 2..n+1 of col
func styleColumn(f *excelize.File, sheet, col string, n, styleID int) error {
	if n == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, n+1), styleID)
}

func writeCleanedData(f *excelize.File, styles sheetStyles, records []domain.SalesRecord) error {
	if err := writeHeader(f, SheetCleanedData, cleanedDataHeader, styles); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{
			r.OrderID,
			r.Customer,
			r.Product,
			r.Quantity,
			r.Price.InexactFloat64(),
			r.OrderDate,
			r.OrderDateTime,
			r.Email,
			r.Address,
			nullable(r.Location.Street),
			nullable(r.Location.City),
			nullable(r.Location.State),
			nullable(r.ZipCode),
			r.TotalSales.InexactFloat64(),
			r.FormattedTotalSales,
			exporter.FormatCurrency(r.Price),
		}
		if err := f.SetSheetRow(SheetCleanedData, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	for _, col := range []string{"E", "N"} {
		if err := styleColumn(f, SheetCleanedData, col, len(records), styles.money); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, styles sheetStyles, summary []domain.ProductSummary) error {
	if err := writeHeader(f, SheetSummary, summaryHeader, styles); err != nil {
		return err
	}
	for i, s := range summary {
		row := []interface{}{s.Product, s.Quantity, s.TotalSales.InexactFloat64(), s.FormattedTotalSales}
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return styleColumn(f, SheetSummary, "C", len(summary), styles.money)
}

func writeMonthly(f *excelize.File, styles sheetStyles, monthly []domain.MonthlySales) error {
	if err := writeHeader(f, SheetMonthlySales, monthlyHeader, styles); err != nil {
		return err
	}
	for i, m := range monthly {
		row := []interface{}{m.Label, m.TotalSales.InexactFloat64(), m.FormattedTotalSales}
		if err := f.SetSheetRow(SheetMonthlySales, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return styleColumn(f, SheetMonthlySales, "B", len(monthly), styles.money)
}

func productChart(rows int) *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$C$1", SheetSummary),
			Categories: rangeRef(SheetSummary, "A", rows),
			Values:     rangeRef(SheetSummary, "C", rows),
		}},
		Title:  []excelize.RichTextRun{{Text: "Laptop Sales"}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Laptop"}}},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: "Sales"}},
			NumFmt:         excelize.ChartNumFmt{CustomNumFmt: chartAxisNumFmt},
			MajorGridLines: true,
		},
	}
}

func monthlyChart(rows int) *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", SheetMonthlySales),
			Categories: rangeRef(SheetMonthlySales, "A", rows),
			Values:     rangeRef(SheetMonthlySales, "B", rows),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		}},
		Title:  []excelize.RichTextRun{{Text: "Monthly Sales"}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Month"}}},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: "Sales"}},
			NumFmt:         excelize.ChartNumFmt{CustomNumFmt: chartAxisNumFmt},
			MajorGridLines: true,
		},
	}
}

// rangeRef returns the absolute reference to rows 2..rows+1 of col
func rangeRef(sheet, col string, rows int) string {
	return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, rows+1)
}

// nullable maps an empty string to an empty cell
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
