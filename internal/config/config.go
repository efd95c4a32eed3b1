package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
// Each section binds its own environment variables: paths and windows are
// unprefixed (DATA_DIR, COVID_START, ...), provider and logging carry
// PROVIDER_ and LOG_ prefixes.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Provider ProviderConfig `yaml:"provider"`
	Windows  WindowsConfig  `yaml:"windows"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PathsConfig contains file system paths configuration.
// DATA_DIR and OUTPUT_DIR are the externally documented knobs; everything
// else is derived from them in paths.go.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
	ManualDir string `yaml:"manual_dir" envconfig:"MANUAL_DIR" default:"data_manual"`
}

// ProviderConfig contains market-data provider configuration
type ProviderConfig struct {
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey      string        `yaml:"api_key" envconfig:"API_KEY"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	RateLimit   float64       `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"5" validate:"gt=0"`
	RetryCount  int           `yaml:"retry_count" envconfig:"RETRY_COUNT" default:"0" validate:"gte=0"`
	UseProvider bool          `yaml:"use_provider" envconfig:"USE_PROVIDER" default:"true"`
}

// WindowsConfig contains the analysis date windows.
// The covid window matches the paper's sample; the extended window runs
// from 2008 through today unless overridden.
type WindowsConfig struct {
	CovidStart    string `yaml:"covid_start" envconfig:"COVID_START" default:"2020-01-01" validate:"required,datetime=2006-01-02"`
	CovidEnd      string `yaml:"covid_end" envconfig:"COVID_END" default:"2020-08-01" validate:"required,datetime=2006-01-02"`
	ExtendedStart string `yaml:"extended_start" envconfig:"EXTENDED_START" default:"2008-01-01" validate:"required,datetime=2006-01-02"`
	ExtendedEnd   string `yaml:"extended_end" envconfig:"EXTENDED_END" validate:"omitempty,datetime=2006-01-02"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/divcli.log"`
}

// Window is a resolved date range for one analysis run
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Load loads configuration from a .env file (if present), environment
// variables and an optional YAML config file, in increasing precedence of
// the environment.
func Load() (*Config, error) {
	// .env is optional; ignore absence
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg.Paths); err != nil {
		return nil, fmt.Errorf("failed to load paths config from env: %w", err)
	}
	if err := envconfig.Process("PROVIDER", &cfg.Provider); err != nil {
		return nil, fmt.Errorf("failed to load provider config from env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Windows); err != nil {
		return nil, fmt.Errorf("failed to load window config from env: %w", err)
	}
	if err := envconfig.Process("LOG", &cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to load logging config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config into env config. The env config is the
// base so that fields the file omits keep their envconfig defaults; a file
// value applies only when it is set and the corresponding environment
// variable is not, preserving env > file > defaults precedence.
//
// UseProvider stays env-only: a boolean false in the file is
// indistinguishable from an omitted key.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	if fileCfg.Paths.DataDir != "" && os.Getenv("DATA_DIR") == "" {
		merged.Paths.DataDir = fileCfg.Paths.DataDir
	}
	if fileCfg.Paths.OutputDir != "" && os.Getenv("OUTPUT_DIR") == "" {
		merged.Paths.OutputDir = fileCfg.Paths.OutputDir
	}
	if fileCfg.Paths.ManualDir != "" && os.Getenv("MANUAL_DIR") == "" {
		merged.Paths.ManualDir = fileCfg.Paths.ManualDir
	}

	if fileCfg.Provider.BaseURL != "" && os.Getenv("PROVIDER_BASE_URL") == "" {
		merged.Provider.BaseURL = fileCfg.Provider.BaseURL
	}
	if fileCfg.Provider.APIKey != "" && os.Getenv("PROVIDER_API_KEY") == "" {
		merged.Provider.APIKey = fileCfg.Provider.APIKey
	}
	if fileCfg.Provider.Timeout != 0 && os.Getenv("PROVIDER_TIMEOUT") == "" {
		merged.Provider.Timeout = fileCfg.Provider.Timeout
	}
	if fileCfg.Provider.RateLimit != 0 && os.Getenv("PROVIDER_RATE_LIMIT") == "" {
		merged.Provider.RateLimit = fileCfg.Provider.RateLimit
	}
	if fileCfg.Provider.RetryCount != 0 && os.Getenv("PROVIDER_RETRY_COUNT") == "" {
		merged.Provider.RetryCount = fileCfg.Provider.RetryCount
	}

	if fileCfg.Windows.CovidStart != "" && os.Getenv("COVID_START") == "" {
		merged.Windows.CovidStart = fileCfg.Windows.CovidStart
	}
	if fileCfg.Windows.CovidEnd != "" && os.Getenv("COVID_END") == "" {
		merged.Windows.CovidEnd = fileCfg.Windows.CovidEnd
	}
	if fileCfg.Windows.ExtendedStart != "" && os.Getenv("EXTENDED_START") == "" {
		merged.Windows.ExtendedStart = fileCfg.Windows.ExtendedStart
	}
	if fileCfg.Windows.ExtendedEnd != "" && os.Getenv("EXTENDED_END") == "" {
		merged.Windows.ExtendedEnd = fileCfg.Windows.ExtendedEnd
	}

	if fileCfg.Logging.Level != "" && os.Getenv("LOG_LEVEL") == "" {
		merged.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" && os.Getenv("LOG_FORMAT") == "" {
		merged.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Logging.Output != "" && os.Getenv("LOG_OUTPUT") == "" {
		merged.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" && os.Getenv("LOG_FILE_PATH") == "" {
		merged.Logging.FilePath = fileCfg.Logging.FilePath
	}

	return merged
}

// getConfigFilePath returns the path of the optional YAML config file
func getConfigFilePath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "divcli.yaml"
}

// validate checks the configuration for consistency
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	covid, err := c.CovidWindow()
	if err != nil {
		return err
	}
	if !covid.Start.Before(covid.End) {
		return fmt.Errorf("covid window start %s must be before end %s",
			c.Windows.CovidStart, c.Windows.CovidEnd)
	}

	extended, err := c.ExtendedWindow()
	if err != nil {
		return err
	}
	if !extended.Start.Before(extended.End) {
		return fmt.Errorf("extended window start %s must be before end %s",
			c.Windows.ExtendedStart, c.Windows.ExtendedEnd)
	}

	return nil
}

// CovidWindow returns the Jan-Aug 2020 analysis window
func (c *Config) CovidWindow() (Window, error) {
	start, err := time.Parse("2006-01-02", c.Windows.CovidStart)
	if err != nil {
		return Window{}, fmt.Errorf("invalid covid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Windows.CovidEnd)
	if err != nil {
		return Window{}, fmt.Errorf("invalid covid end date: %w", err)
	}
	return Window{Name: "covid", Start: start, End: end}, nil
}

// ExtendedWindow returns the 2008-to-present analysis window.
// An empty end date means today.
func (c *Config) ExtendedWindow() (Window, error) {
	start, err := time.Parse("2006-01-02", c.Windows.ExtendedStart)
	if err != nil {
		return Window{}, fmt.Errorf("invalid extended start date: %w", err)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if c.Windows.ExtendedEnd != "" {
		end, err = time.Parse("2006-01-02", c.Windows.ExtendedEnd)
		if err != nil {
			return Window{}, fmt.Errorf("invalid extended end date: %w", err)
		}
	}
	return Window{Name: "extended", Start: start, End: end}, nil
}
