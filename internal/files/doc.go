// Package files provides the file system operations the pipeline needs for
// its artifacts.
//
// Manager writes files atomically: content goes to a temporary file in the
// destination directory, which is synced and then renamed over the target.
// A reader never observes a half-written report, and a failed write leaves
// any previous file untouched.
//
// Example usage:
//
//	manager := files.NewManager(logger)
//	err := manager.WriteAtomic("out/sales_report.xlsx", func(w io.Writer) error {
//	    return workbook.Write(w)
//	})
package files
