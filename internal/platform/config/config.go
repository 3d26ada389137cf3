package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tarkov-search gateway
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Upstream      UpstreamConfig      `mapstructure:"upstream"`
	Cache         CacheConfig         `mapstructure:"cache"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// UpstreamConfig holds configuration for the external data providers
type UpstreamConfig struct {
	GameDataURL string        `mapstructure:"gamedata_url"`
	MarketURL   string        `mapstructure:"market_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds per-class TTLs for the cache store.
// Classes follow the volatility of the data they cover: market prices move
// constantly, ban statistics are semi-static, player/item lookups sit between.
type CacheConfig struct {
	MarketTTL time.Duration `mapstructure:"market_ttl"`
	BanTTL    time.Duration `mapstructure:"ban_ttl"`
	LookupTTL time.Duration `mapstructure:"lookup_ttl"`
}

// RateLimitConfig holds per-client admission control settings
type RateLimitConfig struct {
	Window time.Duration `mapstructure:"window"`
	Limit  int           `mapstructure:"limit"`
}

// AdminConfig holds the shared secret gating cache invalidation
type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TracingConfig holds tracing settings
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not fatal if env vars are set
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)

	// Upstream defaults
	v.SetDefault("upstream.gamedata_url", "https://api.tarkov.dev/graphql")
	v.SetDefault("upstream.market_url", "https://api.tarkov-market.app/api/v1")
	v.SetDefault("upstream.timeout", "5s")

	// Cache TTL defaults per key class
	v.SetDefault("cache.market_ttl", "5m")
	v.SetDefault("cache.ban_ttl", "30m")
	v.SetDefault("cache.lookup_ttl", "10m")

	// Rate limit defaults
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.limit", 60)

	// Observability defaults
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Upstream.GameDataURL == "" {
		return fmt.Errorf("gamedata upstream URL is required")
	}
	if c.Upstream.MarketURL == "" {
		return fmt.Errorf("market upstream URL is required")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}

	if c.Cache.MarketTTL <= 0 || c.Cache.BanTTL <= 0 || c.Cache.LookupTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if c.RateLimit.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Observability.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Observability.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Observability.Logging.Format] {
		return fmt.Errorf("invalid log format: %s", c.Observability.Logging.Format)
	}

	return nil
}
