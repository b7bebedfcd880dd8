// Package dataprocessing turns the raw sales export into cleaned records.
//
// # Architecture
//
// Two components, used in order:
//
//  1. Parser: reads the delimited file into domain.RawRecord values. Lines
//     that cannot be read are logged and skipped; a missing column is fatal.
//  2. Cleaner: removes duplicates, normalizes dates, numbers, names, emails
//     and product codes, decomposes addresses and computes totals.
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger)
//	raw, parseStats, err := parser.ParseFile(ctx, "raw_sales_data.csv")
//	if err != nil {
//	    return err
//	}
//
//	cleaner := dataprocessing.NewCleaner(logger)
//	records, cleanStats := cleaner.Clean(ctx, raw)
//
// # Data Flow
//
//	CSV file → Parser → []RawRecord → Cleaner → []SalesRecord
//
// # Error Handling
//
// Problems scoped to a single row never return an error. Unreadable lines
// are skipped, rows without a usable order date are dropped, and bad numbers
// become zero; each case is counted in ParseStats or CleanStats and logged.
// ParseFile returns an error only when the file cannot be opened
// (errors.ErrTypeStorage) or lacks a required column (errors.ErrTypeSchema).
package dataprocessing
