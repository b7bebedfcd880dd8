package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coderguy16/sales-report-automation/internal/exporter"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

// MonthLabelLayout renders a month bucket, e.g. "January 2024"
const MonthLabelLayout = "January 2006"

// Summarize groups records by product, summing quantity and total sales.
// The result has one row per distinct product, sorted by product name.
func Summarize(records []domain.SalesRecord) []domain.ProductSummary {
	byProduct := make(map[string]*domain.ProductSummary)
	for _, r := range records {
		s, ok := byProduct[r.Product]
		if !ok {
			s = &domain.ProductSummary{Product: r.Product, TotalSales: decimal.Zero}
			byProduct[r.Product] = s
		}
		s.Quantity += r.Quantity
		s.TotalSales = s.TotalSales.Add(r.TotalSales)
	}

	summaries := make([]domain.ProductSummary, 0, len(byProduct))
	for _, s := range byProduct {
		s.FormattedTotalSales = exporter.FormatCurrency(s.TotalSales)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Product < summaries[j].Product
	})
	return summaries
}

// MonthlySeries buckets records by the calendar month of their order time
// and sums total sales per bucket. Months without records are omitted; the
// rest are returned in chronological order.
func MonthlySeries(records []domain.SalesRecord) []domain.MonthlySales {
	byMonth := make(map[time.Time]*domain.MonthlySales)
	for _, r := range records {
		t := r.OrderDateTime.UTC()
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := byMonth[month]
		if !ok {
			m = &domain.MonthlySales{
				Month:      month,
				Label:      month.Format(MonthLabelLayout),
				TotalSales: decimal.Zero,
			}
			byMonth[month] = m
		}
		m.TotalSales = m.TotalSales.Add(r.TotalSales)
	}

	series := make([]domain.MonthlySales, 0, len(byMonth))
	for _, m := range byMonth {
		m.FormattedTotalSales = exporter.FormatCurrency(m.TotalSales)
		series = append(series, *m)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// GrandTotal sums the total sales of all records
func GrandTotal(records []domain.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalSales)
	}
	return total
}
