package dataprocessing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/coderguy16/sales-report-automation/internal/exporter"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

var errMissingDate = errors.New("order date is missing")

// CleanStats counts what the cleaner did to its input
type CleanStats struct {
	Input                 int
	Duplicates            int
	MissingDates          int
	InvalidDates          int
	ZeroedQuantities      int
	ZeroedPrices          int
	UnrecognizedAddresses int
	UnmappedProducts      int
	Output                int
}

// Dropped is the number of input rows with no output record
func (s CleanStats) Dropped() int {
	return s.Duplicates + s.MissingDates + s.InvalidDates
}

// Cleaner normalizes raw sales records
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner that logs per-row decisions to logger
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean deduplicates and normalizes raw, returning the cleaned records in
// input order. Exact duplicate rows are removed first, keeping the first
// occurrence; rows whose order date is missing or unreadable are then
// dropped. Every other row yields exactly one record. Clean never fails and
// is deterministic: the same input always gives the same output.
func (c *Cleaner) Clean(ctx context.Context, raw []domain.RawRecord) ([]domain.SalesRecord, CleanStats) {
	stats := CleanStats{Input: len(raw)}

	unique := dedupe(raw)
	stats.Duplicates = len(raw) - len(unique)

	customers := newCustomerNormalizer()
	records := make([]domain.SalesRecord, 0, len(unique))

	for i, r := range unique {
		orderTime, err := ParseOrderDate(r.OrderDate)
		if err != nil {
			if errors.Is(err, errMissingDate) {
				stats.MissingDates++
			} else {
				stats.InvalidDates++
				c.logger.DebugContext(ctx, "dropping row with invalid order date",
					slog.Int("row", i),
					slog.String("order_id", r.OrderID),
					slog.String("order_date", r.OrderDate))
			}
			continue
		}

		quantity, issue := parseQuantity(r.Quantity)
		if issue != numberOK {
			stats.ZeroedQuantities++
			c.logZeroed(ctx, r, "quantity", r.Quantity, issue)
		}

		price, issue := parseAmount(r.Price)
		if issue != numberOK {
			stats.ZeroedPrices++
			c.logZeroed(ctx, r, "price", r.Price, issue)
		}

		product, known := ProductName(r.Product)
		if !known {
			stats.UnmappedProducts++
		}

		location := ParseAddress(r.Address)
		if !location.Recognized() {
			stats.UnrecognizedAddresses++
		}

		total := price.Mul(decimal.NewFromInt(quantity))

		records = append(records, domain.SalesRecord{
			OrderID:             r.OrderID,
			Customer:            customers.Normalize(r.Customer),
			Product:             product,
			Quantity:            quantity,
			Price:               price,
			OrderDate:           FormatOrderDate(orderTime),
			OrderDateTime:       orderTime,
			Email:               NormalizeEmail(r.Email),
			Address:             r.Address,
			Location:            location,
			ZipCode:             ZipCode(r.Address),
			TotalSales:          total,
			FormattedTotalSales: exporter.FormatCurrency(total),
		})
	}

	stats.Output = len(records)

	c.logger.InfoContext(ctx, "sales data cleaned",
		slog.Int("input", stats.Input),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("missing_dates", stats.MissingDates),
		slog.Int("invalid_dates", stats.InvalidDates),
		slog.Int("zeroed_quantities", stats.ZeroedQuantities),
		slog.Int("zeroed_prices", stats.ZeroedPrices),
		slog.Int("unrecognized_addresses", stats.UnrecognizedAddresses),
		slog.Int("unmapped_products", stats.UnmappedProducts),
		slog.Int("output", stats.Output))

	return records, stats
}

func (c *Cleaner) logZeroed(ctx context.Context, r domain.RawRecord, field, value string, issue numberIssue) {
	if issue == numberMissing {
		return
	}
	c.logger.DebugContext(ctx, "replacing bad number with zero",
		slog.String("order_id", r.OrderID),
		slog.String("field", field),
		slog.String("value", value),
		slog.String("reason", string(issue)))
}

// dedupe returns raw without exact duplicate rows, keeping first occurrences
// in their original order
func dedupe(raw []domain.RawRecord) []domain.RawRecord {
	seen := make(map[domain.RawRecord]struct{}, len(raw))
	unique := make([]domain.RawRecord, 0, len(raw))
	for _, r := range raw {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
