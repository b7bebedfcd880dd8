// Package generator produces the synthetic raw sales file the pipeline
// starts from.
//
// The data is messy on purpose: customer names are upper-cased, dates mix
// three layouts, some emails are blank or the literal "invalid", some rows
// are blanked entirely and some rows appear twice. Output is reproducible
// for a fixed seed and clock.
//
//	gen := generator.NewGenerator(cfg.Pipeline, logger)
//	path, err := gen.WriteCSV(cfg.Pipeline.RawDataPath, gen.Generate())
package generator
