// Package exporter writes pipeline data to delimited files and formats
// values for display.
//
// CSVWriter writes a header and rows, optionally with a UTF-8 BOM so Excel
// recognizes the encoding. FormatCurrency renders money the way the report
// shows it:
//
//	exporter.FormatCurrency(decimal.RequireFromString("1234.5")) // "$1,234.50"
package exporter
