// Package report builds the xlsx sales report.
//
// The workbook has exactly three sheets:
//
//   - "Cleaned Data": one row per cleaned record, plus a Formatted Price column
//   - "Summary": quantity and total sales per product, with a column chart
//   - "Monthly Sales": total sales per calendar month, with a line chart
//
// Summarize and MonthlySeries compute the two aggregate tables and can be
// used on their own. Builder.Build writes the workbook through
// files.Manager.WriteAtomic, so readers never observe a partially written
// report.
//
//	path, err := report.NewBuilder(logger).Build(ctx, records, "sales_report.xlsx")
package report
