// Package config loads tool configuration from file and environment and owns
// global logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Email       string      `yaml:"email" mapstructure:"email"`
	BaseURL     string      `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ThrottleMS  int         `yaml:"throttle_ms" mapstructure:"throttle_ms"`
	Cache       CacheConfig `yaml:"cache" mapstructure:"cache"`
	Log         LogConfig   `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the local response cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ThrottleInterval returns the minimum inter-request interval.
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.ThrottleMS) * time.Millisecond
}

// CacheTTL returns the cache validity window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLDays) * 24 * time.Hour
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("gnverifier")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gnverifier")

	// Environment
	v.SetEnvPrefix("GNVERIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key gets one so AutomaticEnv can resolve it.
	v.SetDefault("email", "")
	v.SetDefault("base_url", "https://verifier.globalnames.org/api/v1")
	v.SetDefault("timeout_secs", 10)
	v.SetDefault("throttle_ms", 500)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "gnverifier-cache.db")
	v.SetDefault("cache.ttl_days", 7)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
