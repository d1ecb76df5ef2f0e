// Package config loads service settings from configs/config.yml and
// BUDGET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/ingest"
)

const envPrefix = "BUDGET"

type Config struct {
	Port      string          `mapstructure:"port" validate:"required"`
	LogLevel  string          `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	DB        DBConfig        `mapstructure:"db"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Anomaly   AnomalyConfig   `mapstructure:"anomaly"`
	Retention RetentionConfig `mapstructure:"retention"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}

type AnomalyConfig struct {
	Thresholds  analysis.Thresholds `mapstructure:"thresholds"`
	MinSeverity string              `mapstructure:"min_severity" validate:"oneof=LOW MEDIUM HIGH"`
}

// RetentionConfig controls the cleanup worker. MaxAge 0 keeps everything.
type RetentionConfig struct {
	MaxAge   time.Duration `mapstructure:"max_age" validate:"gte=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

// StreamConfig is the push period of the /ws stats stream.
type StreamConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Keys    []APIKey `mapstructure:"keys" validate:"required_if=Enabled true,dive"`
}

// APIKey binds a bcrypt hash of a key to the owner name its requests run as.
type APIKey struct {
	Name string `mapstructure:"name" validate:"required"`
	Hash string `mapstructure:"hash" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	t := analysis.DefaultThresholds()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("upload.max_bytes", ingest.DefaultMaxBytes)
	v.SetDefault("anomaly.thresholds.low", t.Low)
	v.SetDefault("anomaly.thresholds.medium", t.Medium)
	v.SetDefault("anomaly.thresholds.high", t.High)
	v.SetDefault("anomaly.min_severity", "LOW")
	v.SetDefault("retention.max_age", 0)
	v.SetDefault("retention.interval", time.Hour)
	v.SetDefault("stream.interval", 5*time.Second)
	v.SetDefault("auth.enabled", false)
}

// Load reads config.yml from dir. A missing file is not an error: defaults
// and environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Anomaly.MinSeverity = strings.ToUpper(strings.TrimSpace(cfg.Anomaly.MinSeverity))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the anomaly tiers.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", analysis.ErrInvalidConfiguration, err)
	}
	return c.Anomaly.Thresholds.Validate()
}
