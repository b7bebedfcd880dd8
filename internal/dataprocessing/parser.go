package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

const utf8BOM = "\uFEFF"

// ParseStats counts what happened to the lines of a raw file
type ParseStats struct {
	Lines     int // data lines read, excluding the header
	Records   int // records produced
	Malformed int // lines skipped because they could not be read
}

// Parser reads raw sales files
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that logs skipped lines to logger
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile reads a raw sales file with the default logger
func ParseFile(ctx context.Context, filePath string) ([]domain.RawRecord, ParseStats, error) {
	return NewParser(nil).ParseFile(ctx, filePath)
}

// ParseFile reads the raw sales CSV at filePath.
func (p *Parser) ParseFile(ctx context.Context, filePath string) ([]domain.RawRecord, ParseStats, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, ParseStats{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", filePath), err)
	}
	defer f.Close()

	records, stats, err := p.Parse(ctx, f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", filePath)
		}
		return nil, stats, err
	}

	p.logger.InfoContext(ctx, "raw sales file parsed",
		slog.String("file", filePath),
		slog.Int("lines", stats.Lines),
		slog.Int("records", stats.Records),
		slog.Int("malformed", stats.Malformed))

	return records, stats, nil
}

// Parse reads raw sales records from r. The header row is matched by column
// name, so column order and extra columns do not matter.
func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]domain.RawRecord, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, apperrors.NewSchemaError("file is empty, header row missing")
	}
	if err != nil {
		return nil, stats, apperrors.NewParsingError("failed to read header row", err)
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, stats, err
	}

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Lines++
			stats.Malformed++
			p.logger.WarnContext(ctx, "skipping unreadable line",
				slog.Int("line", parseErr.StartLine),
				slog.String("error", parseErr.Err.Error()))
			continue
		}
		if err != nil {
			return nil, stats, apperrors.NewStorageError("failed to read raw data", err)
		}

		stats.Lines++
		if len(row) != len(header) {
			line, _ := reader.FieldPos(0)
			stats.Malformed++
			p.logger.WarnContext(ctx, "skipping line with wrong number of fields",
				slog.Int("line", line),
				slog.Int("expected", len(header)),
				slog.Int("got", len(row)))
			continue
		}

		records = append(records, index.record(row))
	}

	stats.Records = len(records)
	return records, stats, nil
}

// columnIndex holds the position of each raw column in a row
type columnIndex [8]int

func (c columnIndex) record(row []string) domain.RawRecord {
	return domain.RawRecord{
		OrderID:   row[c[0]],
		Customer:  row[c[1]],
		Product:   row[c[2]],
		Quantity:  row[c[3]],
		Price:     row[c[4]],
		OrderDate: row[c[5]],
		Email:     row[c[6]],
		Address:   row[c[7]],
	}
}

// mapColumns finds each required column in header. Names are compared
// case-insensitively after trimming spaces and a leading BOM.
func mapColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	var index columnIndex
	var missing []string
	for i, name := range domain.RawHeader {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[i] = pos
	}

	if len(missing) > 0 {
		return index, apperrors.NewSchemaError(fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", "))).
			WithContext("header", strings.Join(header, ","))
	}
	return index, nil
}
