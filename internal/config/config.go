// Package config loads application settings from YAML with environment
// overrides.
package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "CATEGORY_FORECAST_CONFIG"
	listenAddrEnv    = "LISTEN_ADDR"
	postgresDSNEnv   = "POSTGRES_DSN"
	clickhouseDSNEnv = "CLICKHOUSE_DSN"
	predictorURLEnv  = "PREDICTOR_URL"
	predictorKeyEnv  = "PREDICTOR_API_KEY"
	manifestPathEnv  = "MODEL_MANIFEST_PATH"
)

// Default request shape applied when a caller leaves fields unset.
const (
	DefaultForecastDays = 30
	DefaultTopN         = 5
	DefaultContextDays  = 60
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Predictor PredictorConfig `yaml:"predictor"`
	Model     ModelConfig     `yaml:"model"`
	Forecast  ForecastConfig  `yaml:"forecast"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

// DatabaseConfig describes storage backends. Empty DSNs select the
// in-memory stores, which is the development default.
type DatabaseConfig struct {
	PostgresDSN   string `yaml:"postgresDsn"`
	ClickHouseDSN string `yaml:"clickhouseDsn"`
}

// PredictorConfig describes inference-service integration. With no URL
// and UseStub false the service runs degraded, historical-only.
type PredictorConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
	UseStub      bool   `yaml:"useStub"`
}

// ModelConfig points at the trained model artifacts.
type ModelConfig struct {
	ManifestPath string `yaml:"manifestPath"`
}

// ForecastConfig tunes request defaults.
type ForecastConfig struct {
	DefaultDays int `yaml:"defaultDays"`
	DefaultTopN int `yaml:"defaultTopN"`
	ContextDays int `yaml:"contextDays"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.clampForecast()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.ListenAddr = v
	}

	if v := os.Getenv(postgresDSNEnv); v != "" {
		c.Database.PostgresDSN = v
	}

	if v := os.Getenv(clickhouseDSNEnv); v != "" {
		c.Database.ClickHouseDSN = v
	}

	if v := os.Getenv(predictorURLEnv); v != "" {
		c.Predictor.InferenceURL = v
	}

	if v := os.Getenv(predictorKeyEnv); v != "" {
		c.Predictor.APIKey = v
	}

	if v := os.Getenv(manifestPathEnv); v != "" {
		c.Model.ManifestPath = v
	}
}

// clampForecast repairs non-positive tuning values.
func (c *Config) clampForecast() {
	if c.Forecast.DefaultDays <= 0 {
		c.Forecast.DefaultDays = DefaultForecastDays
	}
	if c.Forecast.DefaultTopN <= 0 {
		c.Forecast.DefaultTopN = DefaultTopN
	}
	if c.Forecast.ContextDays <= 0 {
		c.Forecast.ContextDays = DefaultContextDays
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.ListenAddr != "" {
		base.Server = override.Server
	}

	if override.Database.PostgresDSN != "" {
		base.Database.PostgresDSN = override.Database.PostgresDSN
	}
	if override.Database.ClickHouseDSN != "" {
		base.Database.ClickHouseDSN = override.Database.ClickHouseDSN
	}

	if override.Predictor.InferenceURL != "" {
		base.Predictor.InferenceURL = override.Predictor.InferenceURL
	}
	if override.Predictor.APIKey != "" {
		base.Predictor.APIKey = override.Predictor.APIKey
	}
	if override.Predictor.UseStub {
		base.Predictor.UseStub = true
	}

	if override.Model.ManifestPath != "" {
		base.Model.ManifestPath = override.Model.ManifestPath
	}

	if override.Forecast.DefaultDays > 0 {
		base.Forecast.DefaultDays = override.Forecast.DefaultDays
	}
	if override.Forecast.DefaultTopN > 0 {
		base.Forecast.DefaultTopN = override.Forecast.DefaultTopN
	}
	if override.Forecast.ContextDays > 0 {
		base.Forecast.ContextDays = override.Forecast.ContextDays
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{ListenAddr: ":8080"},
		Model:  ModelConfig{ManifestPath: "artifacts/feature_manifest.json"},
		Forecast: ForecastConfig{
			DefaultDays: DefaultForecastDays,
			DefaultTopN: DefaultTopN,
			ContextDays: DefaultContextDays,
		},
	}
}
