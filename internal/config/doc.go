// Package config provides centralized configuration management for the
// dividend-futures pipeline. It loads settings from a .env file, environment
// variables and an optional YAML file, validates them, and derives the full
// set of filesystem paths used by every stage.
//
// # Configuration Sources
//
// Environment variables take precedence over the optional YAML configuration
// file (CONFIG_FILE, default divcli.yaml), which in turn takes precedence
// over the struct defaults.
//
// # Environment Variables
//
// The externally documented knobs:
//
//	DATA_DIR=data
//	OUTPUT_DIR=output
//	MANUAL_DIR=data_manual
//	PROVIDER_BASE_URL=https://marketdata.example.com
//	PROVIDER_API_KEY=...
//	COVID_START=2020-01-01
//	EXTENDED_START=2008-01-01
//	LOG_LEVEL=info
package config
