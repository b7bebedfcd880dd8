// salesreport generates a synthetic sales export, cleans it, writes an xlsx
// report with summary charts and emails the report.
//
// Usage:
//
//	salesreport
//
// Settings come from the environment, an optional .env file and an optional
// config.yaml; see package config.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/coderguy16/sales-report-automation/internal/app"
	"github.com/coderguy16/sales-report-automation/internal/config"
	"github.com/coderguy16/sales-report-automation/internal/infrastructure"
	"github.com/coderguy16/sales-report-automation/pkg/contracts"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newCLI(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(out io.Writer) *cli.App {
	return &cli.App{
		Name:            config.AppName,
		Usage:           "Generate, clean and report sales data, then email the report",
		Version:         contracts.GetFullVersionString(),
		HideHelpCommand: true,
		Writer:          out,
		Action: func(c *cli.Context) error {
			return run(c.Context, out)
		},
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	result, err := application.Run(infrastructure.ContextWithRunID(ctx))
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		return err
	}

	fmt.Fprintln(out, "Report generated under:", result.ReportPath)
	switch {
	case result.DeliveryErr != nil:
		fmt.Fprintf(out, "Email sending failed: %v\n", result.DeliveryErr)
	case result.Delivered:
		fmt.Fprintln(out, "Report generated and sent successfully!")
	default:
		fmt.Fprintln(out, "Email delivery is disabled; report not sent.")
	}
	return nil
}
