package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coderguy16/sales-report-automation/internal/exporter"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

// RawRow builds a raw record with the common fields; email and address
// default to valid values.
func RawRow(orderID, customer, product, quantity, price, date string) domain.RawRecord {
	return domain.RawRecord{
		OrderID:   orderID,
		Customer:  customer,
		Product:   product,
		Quantity:  quantity,
		Price:     price,
		OrderDate: date,
		Email:     "buyer@example.com",
		Address:   "123 Main St, Springfield, IL 62701",
	}
}

// WriteRawCSV writes records under the standard raw header to dir/name and
// returns the path.
func WriteRawCSV(t *testing.T, dir, name string, records []domain.RawRecord) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(domain.RawHeader))
	for _, r := range records {
		require.NoError(t, w.Write(r.Fields()))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

// WriteFile writes raw content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// SalesRow builds a cleaned record dated at midnight UTC on date
// (YYYY-MM-DD). Price is a decimal string; the totals are derived from it.
func SalesRow(orderID, product string, quantity int64, price, date string) domain.SalesRecord {
	p := decimal.RequireFromString(price)
	at, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	total := p.Mul(decimal.NewFromInt(quantity))
	return domain.SalesRecord{
		OrderID:             orderID,
		Customer:            "John Doe",
		Product:             product,
		Quantity:            quantity,
		Price:               p,
		OrderDate:           date,
		OrderDateTime:       at,
		Email:               "buyer@example.com",
		Address:             "123 Main St, Springfield, IL 62701",
		Location:            domain.AddressParts{Kind: domain.AddressStandard, Street: "123 Main St", City: "Springfield", State: "IL"},
		ZipCode:             "62701",
		TotalSales:          total,
		FormattedTotalSales: exporter.FormatCurrency(total),
	}
}
