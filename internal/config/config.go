package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	// Isolation applies to purchase and activation transactions:
	// read_committed | repeatable_read | serializable
	Isolation string `yaml:"isolation"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Enabled  bool          `yaml:"enabled"`
}

type AuthConfig struct {
	// JWTSecret signs admin bearer tokens for registry-wide listings.
	// Empty disables the admin guard.
	JWTSecret string `yaml:"jwt_secret"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type WorkersConfig struct {
	StatsInterval time.Duration `yaml:"stats_interval"`
}

type PurchaseConfig struct {
	// MaxQuantity caps the units bought in one purchase.
	MaxQuantity int `yaml:"max_quantity"`
}

type ActivationConfig struct {
	NumberAttempts int `yaml:"number_attempts"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Workers    WorkersConfig    `yaml:"workers"`
	Purchase   PurchaseConfig   `yaml:"purchase"`
	Activation ActivationConfig `yaml:"activation"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the yaml file at path.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes raw yaml, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.RequestTimeout <= 0 {
		c.HTTP.RequestTimeout = 15 * time.Second
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	c.Database.Isolation = strings.ToLower(strings.TrimSpace(c.Database.Isolation))
	if c.Database.Isolation == "" {
		c.Database.Isolation = "read_committed"
	}
	c.Redis.TTL = normalizeTTL(c.Redis.TTL)
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Workers.StatsInterval <= 0 {
		c.Workers.StatsInterval = 30 * time.Second
	}
	if c.Purchase.MaxQuantity <= 0 {
		c.Purchase.MaxQuantity = 1000
	}
	if c.Activation.NumberAttempts <= 0 {
		c.Activation.NumberAttempts = 3
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Redis.Enabled && c.Redis.URL == "" {
		return errors.New("redis.url is required when redis is enabled")
	}
	switch c.Database.Isolation {
	case "read_committed", "repeatable_read", "serializable":
	default:
		return fmt.Errorf("database.isolation %q is not supported", c.Database.Isolation)
	}
	if c.RateLimit.Limit < 0 {
		return errors.New("rate_limit.limit must not be negative")
	}
	if c.Purchase.MaxQuantity > math.MaxInt32 {
		return fmt.Errorf("purchase.max_quantity %d exceeds %d", c.Purchase.MaxQuantity, math.MaxInt32)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
