package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
)

var validate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Delivery  DeliveryConfig  `yaml:"delivery" envconfig:"DELIVERY" validate:"-"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PipelineConfig controls the raw data source
type PipelineConfig struct {
	RawDataPath   string `yaml:"raw_data_path" envconfig:"RAW_DATA_PATH" validate:"required"`
	Generate      bool   `yaml:"generate" envconfig:"GENERATE"`
	Records       int    `yaml:"records" envconfig:"RECORDS" validate:"min=1"`
	NullRows      int    `yaml:"null_rows" envconfig:"NULL_ROWS" validate:"min=0,ltefield=Records"`
	DuplicateRows int    `yaml:"duplicate_rows" envconfig:"DUPLICATE_ROWS" validate:"min=0"`
	// Seed of 0 derives a seed from the clock.
	Seed int64 `yaml:"seed" envconfig:"SEED"`
}

// ReportConfig contains report output configuration
type ReportConfig struct {
	OutputPath string `yaml:"output_path" envconfig:"OUTPUT_PATH" validate:"required,endswith=.xlsx"`
}

// DeliveryConfig is passed to the mailer. It is validated when a report is
// sent, not at load time, so a missing credential never blocks the report.
type DeliveryConfig struct {
	Enabled   bool          `yaml:"enabled" envconfig:"DELIVERY_ENABLED"`
	Host      string        `yaml:"host" envconfig:"SMTP_HOST" validate:"required,hostname_rfc1123"`
	Port      int           `yaml:"port" envconfig:"SMTP_PORT" validate:"required,min=1,max=65535"`
	Username  string        `yaml:"username" envconfig:"EMAIL_USER" validate:"required,email"`
	Password  string        `yaml:"password" envconfig:"EMAIL_PASSWORD" validate:"required"`
	Recipient string        `yaml:"recipient" envconfig:"CLIENT_EMAIL" validate:"required,email"`
	Subject   string        `yaml:"subject" envconfig:"EMAIL_SUBJECT" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"SMTP_TIMEOUT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"LOG_FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"LOG_OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"LOG_FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	// MetricsFile, when set, receives the run's metrics in Prometheus text format.
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment. Environment variables take precedence over the file.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from %s", configFile), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads a dotenv file if it exists. Variables already present in
// the environment are not overwritten.
func loadDotEnv(path string) error {
	if !FileExists(path) {
		return nil
	}
	return godotenv.Load(path)
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths makes every relative path absolute against the working directory
func (c *Config) resolvePaths() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	c.Pipeline.RawDataPath = ResolvePath(wd, c.Pipeline.RawDataPath)
	c.Report.OutputPath = ResolvePath(wd, c.Report.OutputPath)
	if c.Logging.FilePath != "" {
		c.Logging.FilePath = ResolvePath(wd, c.Logging.FilePath)
	}
	if c.Telemetry.MetricsFile != "" {
		c.Telemetry.MetricsFile = ResolvePath(wd, c.Telemetry.MetricsFile)
	}
	return nil
}

// Validate checks the configuration against its struct tags.
// Delivery settings are checked separately by the mailer.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// Validate checks that the delivery settings are complete
func (d DeliveryConfig) Validate() error {
	if err := validate.Struct(d); err != nil {
		return apperrors.NewAppValidationError("delivery configuration incomplete", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			RawDataPath:   DefaultRawDataFile,
			Generate:      true,
			Records:       DefaultRecordCount,
			NullRows:      DefaultNullRows,
			DuplicateRows: DefaultDuplicateRows,
		},
		Report: ReportConfig{
			OutputPath: DefaultReportFile,
		},
		Delivery: DeliveryConfig{
			Enabled: true,
			Host:    DefaultSMTPHost,
			Port:    DefaultSMTPPort,
			Subject: DefaultEmailSubject,
			Timeout: DefaultDeliveryTimeout,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: DefaultTraceExporter,
		},
	}
}
