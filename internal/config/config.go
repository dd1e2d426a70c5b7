package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"

	defaultWeatherURL  = "https://gg-backend-assignment.azurewebsites.net/api/Weather"
	defaultWeatherCode = "KfQnTWHJbg1giyB_Q9Ih3Xu3L9QOBDTuU5zwqVikZepCAzFut3rqsg=="
)

// WeatherConfig describes the remote weather endpoint.
type WeatherConfig struct {
	URL     string        `yaml:"url"`
	Code    string        `yaml:"code"`    // access credential sent as ?code=
	Timeout time.Duration `yaml:"timeout"` // 0 disables the client timeout
}

// Config contains runtime configuration required by the service.
type Config struct {
	HTTPAddr     string        `yaml:"http_addr"`
	Env          string        `yaml:"env"` // "development" switches to console logs
	LogLevel     string        `yaml:"log_level"`
	StoreBackend string        `yaml:"store_backend"` // file | postgres
	DataFile     string        `yaml:"data_file"`
	DBURL        string        `yaml:"db_url"`
	Weather      WeatherConfig `yaml:"weather"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPAddr:     ":5000",
		Env:          "production",
		LogLevel:     "info",
		StoreBackend: BackendFile,
		DataFile:     "./data.json",
		Weather: WeatherConfig{
			URL:     defaultWeatherURL,
			Code:    defaultWeatherCode,
			Timeout: 10 * time.Second,
		},
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.Env, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.StoreBackend, "STORE_BACKEND")
	setString(&c.DataFile, "DATA_FILE")
	setString(&c.DBURL, "DB_URL")
	setString(&c.Weather.URL, "WEATHER_URL")
	setString(&c.Weather.Code, "WEATHER_CODE")

	if v := strings.TrimSpace(os.Getenv("WEATHER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WEATHER_TIMEOUT must be a duration: %w", err)
		}
		c.Weather.Timeout = d
	}
	return nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR required")
	}
	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			return errors.New("DATA_FILE required for file backend")
		}
	case BackendPostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL required for postgres backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.StoreBackend)
	}
	if c.Weather.URL == "" {
		return errors.New("WEATHER_URL required")
	}
	if c.Weather.Timeout < 0 {
		return errors.New("WEATHER_TIMEOUT must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
