package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ItaloOlivier/ayonne-sub004/pkg/models"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Classifier ClassifierConfig `yaml:"classifier"`
	FaceAPI    FaceAPIConfig    `yaml:"face_api"`
	Live       LiveConfig       `yaml:"live"`
	Fallback   FallbackConfig   `yaml:"fallback"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "200ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	RequestTimeout     Duration `yaml:"request_timeout"`
	MaxRequestBodySize int64    `yaml:"max_request_body_size"`
}

func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type ClassifierConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Model    string   `yaml:"model"`
	APIKey   string   `yaml:"api_key"`
	Timeout  Duration `yaml:"timeout"`
}

// FaceAPIConfig points at the optional face-detection sidecar. An empty
// endpoint means the capability is absent and the heuristic locator is used.
type FaceAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type LiveConfig struct {
	FaceInterval    Duration `yaml:"face_interval"`
	QualityInterval Duration `yaml:"quality_interval"`
}

// FallbackConfig is product content, not logic: the default classification
// returned when the real stream fails or cannot be parsed.
type FallbackConfig struct {
	SkinType   string              `yaml:"skin_type"`
	Summary    string              `yaml:"summary"`
	Conditions []FallbackCondition `yaml:"conditions"`
}

type FallbackCondition struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Confidence  float64 `yaml:"confidence"`
	Description string  `yaml:"description"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from a YAML file (optional) and applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Server.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("max_request_body_size must be > 0 (got %d)", cfg.Server.MaxRequestBodySize)
	}
	return cfg, nil
}

// FallbackAnalysis builds the configured fallback payload. The Fallback
// marker is set by the extractor at emission time.
func (c *Config) FallbackAnalysis() models.SkinAnalysis {
	analysis := models.SkinAnalysis{
		SkinType: c.Fallback.SkinType,
		Summary:  c.Fallback.Summary,
	}
	for _, cond := range c.Fallback.Conditions {
		analysis.Conditions = append(analysis.Conditions, models.SkinCondition{
			ID:          cond.ID,
			Name:        cond.Name,
			Confidence:  cond.Confidence,
			Description: cond.Description,
		})
	}
	return analysis
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = Duration(30 * time.Second)
	}
	if cfg.Server.MaxRequestBodySize == 0 {
		cfg.Server.MaxRequestBodySize = 10 * 1024 * 1024
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = Duration(60 * time.Second)
	}
	if cfg.Live.FaceInterval == 0 {
		cfg.Live.FaceInterval = Duration(200 * time.Millisecond)
	}
	if cfg.Live.QualityInterval == 0 {
		cfg.Live.QualityInterval = Duration(500 * time.Millisecond)
	}
	if cfg.Fallback.SkinType == "" {
		cfg.Fallback.SkinType = "normal"
	}
	if cfg.Fallback.Summary == "" {
		cfg.Fallback.Summary = "We could not complete a full analysis, so here is a general assessment."
	}
	if len(cfg.Fallback.Conditions) == 0 {
		cfg.Fallback.Conditions = []FallbackCondition{
			{ID: "hydration", Name: "Hydration", Confidence: 0.5, Description: "Keeping skin hydrated benefits every skin type."},
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AYN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AYN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AYN_CLASSIFIER_ENDPOINT"); v != "" {
		cfg.Classifier.Endpoint = v
	}
	if v := os.Getenv("AYN_CLASSIFIER_MODEL"); v != "" {
		cfg.Classifier.Model = v
	}
	if v := os.Getenv("AYN_CLASSIFIER_API_KEY"); v != "" {
		cfg.Classifier.APIKey = v
	}
	if v := os.Getenv("AYN_FACE_API_ENDPOINT"); v != "" {
		cfg.FaceAPI.Endpoint = v
	}
	if v := os.Getenv("AYN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AYN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
