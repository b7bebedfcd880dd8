// Package config loads the settings of the sales report pipeline.
//
// # Configuration Sources
//
// Values are applied in order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: $SALES_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. Environment variables, after an optional ./.env file is loaded
//
// # Environment Variables
//
// Every field has a namespaced name and a bare fallback. The bare names
// match the variables an operator usually already has:
//
//	SALES_DELIVERY_EMAIL_USER  or  EMAIL_USER
//	SALES_DELIVERY_EMAIL_PASSWORD  or  EMAIL_PASSWORD
//	SALES_DELIVERY_CLIENT_EMAIL  or  CLIENT_EMAIL
//	SALES_PIPELINE_RAW_DATA_PATH  or  RAW_DATA_PATH
//	SALES_LOGGING_LOG_LEVEL  or  LOG_LEVEL
//
// # Validation
//
// Load validates everything except delivery. Delivery settings are checked
// with DeliveryConfig.Validate right before a report is sent, so missing
// mail credentials never stop a report from being produced.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
