package config

import "time"

// Application constants for the sales report pipeline
const (
	// Application Info
	AppName   = "salesreport"
	EnvPrefix = "SALES"

	// Config file lookup
	ConfigFileEnv = "SALES_CONFIG_FILE"
	DotEnvFile    = ".env"

	// File Paths (relative to the working directory)
	DefaultRawDataFile = "raw_sales_data.csv"
	DefaultReportFile  = "sales_report.xlsx"
	DefaultLogFile     = "logs/salesreport.log"

	// Synthetic data defaults
	DefaultRecordCount   = 1000
	DefaultNullRows      = 50
	DefaultDuplicateRows = 50

	// Delivery defaults
	DefaultSMTPHost        = "smtp.gmail.com"
	DefaultSMTPPort        = 465
	DefaultEmailSubject    = "Monthly Sales Report - Automated"
	DefaultDeliveryTimeout = 30 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"

	// Telemetry
	DefaultTraceExporter = "none"
	ServiceName          = "sales-report-automation"
)
