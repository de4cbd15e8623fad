package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFooter = "For more jobs and internships opportunities, join *DeveLeb Community* using the below link:"
	DefaultMarker = "👨‍💻"
	DefaultStart  = "01/01/2020"
	DefaultOutput = "output.json"
)

type Config struct {
	LogLevel  string
	LogFormat string

	Segmenter struct {
		Footer string
		Marker string
	}

	Defaults struct {
		Start  string
		Output string
	}

	OTLPEndpoint      string
	ServiceName       string
	TelemetryTimeout  time.Duration
	ProcessingTimeout time.Duration
}

type fileConfig struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Segmenter struct {
		Footer string `yaml:"footer"`
		Marker string `yaml:"marker"`
	} `yaml:"segmenter"`
	Defaults struct {
		Start  string `yaml:"start"`
		Output string `yaml:"output"`
	} `yaml:"defaults"`
}

// LoadConfig builds the runtime configuration. A YAML file at path (or at
// STATS_CONFIG when path is empty) is applied first, then environment
// variables override it.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		LogLevel:  "info",
		LogFormat: "json",
	}
	config.Segmenter.Footer = DefaultFooter
	config.Segmenter.Marker = DefaultMarker
	config.Defaults.Start = DefaultStart
	config.Defaults.Output = DefaultOutput

	if path == "" {
		path = getEnvString("STATS_CONFIG", "")
	}
	if path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnvString("LOG_FORMAT", config.LogFormat)
	config.OTLPEndpoint = getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	config.ServiceName = getEnvString("OTEL_SERVICE_NAME", "shenanigigs-statistics")
	config.TelemetryTimeout = getEnvDuration("TELEMETRY_TIMEOUT", 5*time.Second)
	config.ProcessingTimeout = getEnvDuration("PROCESSING_TIMEOUT", 5*time.Minute)

	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.LogFormat = fc.Log.Format
	}
	if fc.Segmenter.Footer != "" {
		c.Segmenter.Footer = fc.Segmenter.Footer
	}
	if fc.Segmenter.Marker != "" {
		c.Segmenter.Marker = fc.Segmenter.Marker
	}
	if fc.Defaults.Start != "" {
		c.Defaults.Start = fc.Defaults.Start
	}
	if fc.Defaults.Output != "" {
		c.Defaults.Output = fc.Defaults.Output
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
