package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Supported store drivers.
const (
	DriverMilvus = "milvus"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the vecprov configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StoreConfig holds vector store connection settings.
type StoreConfig struct {
	Driver            string `yaml:"driver"` // milvus, redis, valkey (default: milvus)
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	User              string `yaml:"user"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`         // redis/valkey only
	KeyPrefix         string `yaml:"key_prefix"` // redis/valkey only
	ConnectTimeoutSec int    `yaml:"connect_timeout_sec"`
}

// Address returns host:port.
func (s StoreConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ConnectTimeout bounds a single connection attempt.
func (s StoreConfig) ConnectTimeout() time.Duration {
	return time.Duration(s.ConnectTimeoutSec) * time.Second
}

// ReadinessConfig bounds the wait for the store to come up.
type ReadinessConfig struct {
	MaxAttempts int  `yaml:"max_attempts"`
	IntervalSec *int `yaml:"interval_sec"` // nil means default; 0 retries immediately
}

// Interval returns the pause between connection attempts.
func (r ReadinessConfig) Interval() time.Duration {
	if r.IntervalSec == nil {
		return 0
	}
	return time.Duration(*r.IntervalSec) * time.Second
}

// CatalogConfig points at an optional YAML catalog replacing the built-in one.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig holds Pushgateway settings. An empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
	PushTimeoutSec int    `yaml:"push_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration by environment name (local, redis-local, prod).
// When no config/{env}.yaml exists the embedded default is used; "local" has no
// file, so an unset ENV targets Milvus through the MILVUS_* variables.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = defaultYAML
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables, decodes, defaults and validates a config document.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMilvus
	}
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	if c.Store.Host == "" {
		c.Store.Host = "localhost"
	}
	if c.Store.Port == 0 {
		if c.Store.Driver == DriverMilvus {
			c.Store.Port = 19530
		} else {
			c.Store.Port = 6379
		}
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "vecprov"
	}
	if c.Store.ConnectTimeoutSec <= 0 {
		c.Store.ConnectTimeoutSec = 10
	}
	if c.Readiness.MaxAttempts == 0 {
		c.Readiness.MaxAttempts = 30
	}
	if c.Readiness.IntervalSec == nil {
		interval := 5
		c.Readiness.IntervalSec = &interval
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "vecprov"
	}
	if c.Metrics.PushTimeoutSec <= 0 {
		c.Metrics.PushTimeoutSec = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMilvus, DriverRedis, DriverValkey:
	default:
		return fmt.Errorf("store.driver must be one of milvus, redis, valkey, got %q", c.Store.Driver)
	}
	if c.Store.Port <= 0 || c.Store.Port > 65535 {
		return fmt.Errorf("store.port must be between 1 and 65535, got %d", c.Store.Port)
	}
	if c.Readiness.MaxAttempts < 1 {
		return fmt.Errorf("readiness.max_attempts must be at least 1, got %d", c.Readiness.MaxAttempts)
	}
	if c.Readiness.IntervalSec != nil && *c.Readiness.IntervalSec < 0 {
		return fmt.Errorf("readiness.interval_sec must not be negative, got %d", *c.Readiness.IntervalSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
