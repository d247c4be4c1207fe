package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Banner  BannerConfig  `yaml:"banner" envconfig:"BANNER"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// MaxUploadBytes caps the size of report files accepted over HTTP.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ReportConfig carries the parsing defaults applied when a caller does not
// override them per run.
type ReportConfig struct {
	// Department restricts parsing to one subject code, empty keeps all.
	Department string `yaml:"department" envconfig:"DEPARTMENT"`
	// Strict enables the structural-marker rejection rules used for
	// GJIREVO exports.
	Strict bool `yaml:"strict" envconfig:"STRICT"`
	// HeaderLines/TrailingLines override the report frame, zero keeps the
	// Banner 9 defaults.
	HeaderLines   int `yaml:"header_lines" envconfig:"HEADER_LINES" validate:"gte=0"`
	TrailingLines int `yaml:"trailing_lines" envconfig:"TRAILING_LINES"`
}

// BannerConfig configures the self-service scraper. Credentials come from
// the environment only and never from the YAML file.
type BannerConfig struct {
	BaseURL  string `yaml:"base_url" envconfig:"BASE_URL" validate:"omitempty,url"`
	Username string `yaml:"-" envconfig:"USERNAME"`
	Password string `yaml:"-" envconfig:"PASSWORD"`
	// ShowBrowser surfaces the browser window for debugging the navigation
	// sequence; normal runs stay headless.
	ShowBrowser bool          `yaml:"show_browser" envconfig:"SHOW_BROWSER"`
	PageTimeout time.Duration `yaml:"page_timeout" envconfig:"PAGE_TIMEOUT" validate:"gt=0"`
	// RequestsPerMinute paces the job submissions so the self-service
	// backend is not hammered during multi-term runs.
	RequestsPerMinute float64 `yaml:"requests_per_minute" envconfig:"REQUESTS_PER_MINUTE" validate:"gt=0"`
	Burst             int     `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
}

// envPrefix namespaces every environment override (GSR_SERVER_PORT, ...).
const envPrefix = "GSR"

// Load builds the configuration from environment variables layered over an
// optional YAML file, then fills the gaps with defaults and validates the
// result. Environment values win over file values.
func Load() (*Config, error) {
	var cfg Config

	if path := configFilePath(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileCfg
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
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

// applyDefaults fills fields neither the file nor the environment set.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if c.Server.MaxHeaderBytes == 0 {
		c.Server.MaxHeaderBytes = def.Server.MaxHeaderBytes
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = def.Server.MaxUploadBytes
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = def.Logging.Output
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = def.Logging.FilePath
	}
	if c.Banner.PageTimeout == 0 {
		c.Banner.PageTimeout = def.Banner.PageTimeout
	}
	if c.Banner.RequestsPerMinute == 0 {
		c.Banner.RequestsPerMinute = def.Banner.RequestsPerMinute
	}
	if c.Banner.Burst == 0 {
		c.Banner.Burst = def.Banner.Burst
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and the cross-field rules the tags cannot
// express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file_path required for output %q", c.Logging.Output)
	}
	return nil
}

// configFilePath returns the first config file found in the conventional
// locations, or empty to run on env vars and defaults alone.
func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  8 << 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "app.log",
		},
		Banner: BannerConfig{
			PageTimeout:       90 * time.Second,
			RequestsPerMinute: 10,
			Burst:             2,
		},
	}
}
