// Package app wires the sales report pipeline together and runs it once.
//
// # Pipeline
//
// Run executes the stages in order, each inside its own span:
//
//  1. generate: write a synthetic raw file (skipped when Pipeline.Generate
//     is false; the configured file must then exist)
//  2. parse: read the raw file into raw records
//  3. clean: deduplicate and normalize into sales records
//  4. build_report: write the xlsx workbook
//  5. deliver: email the workbook (skipped when Delivery.Enabled is false)
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer application.Shutdown(context.Background())
//
//	result, err := application.Run(ctx)
//
// # Error Handling
//
// Run returns an error when no report could be produced: the raw file is
// missing or lacks a column, or the workbook cannot be written. A delivery
// failure is not an error of the run; it is returned in Result.DeliveryErr
// and the report stays on disk.
package app
